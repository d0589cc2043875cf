package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/posbook-dev/posbook/internal/export"
	"github.com/posbook-dev/posbook/internal/importer"
	"github.com/posbook-dev/posbook/internal/ledger"
	"github.com/posbook-dev/posbook/internal/model"
)

func newTxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}

	cmd.AddCommand(newTxAddCommand())
	cmd.AddCommand(newTxEditCommand())
	cmd.AddCommand(newTxRmCommand())
	cmd.AddCommand(newTxListCommand())
	cmd.AddCommand(newTxImportCommand())

	return cmd
}

func newTxAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <customer> <deposit|withdraw> <amount> [note]",
		Short: "Record a transaction at the current time",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := openLedger(cmd)
			if err != nil {
				return err
			}

			kind, ok := model.ParseKind(args[1])
			if !ok {
				return ledger.ErrInvalidKind
			}
			amount, err := ledger.ParseAmount(args[2])
			if err != nil {
				return err
			}
			note := ""
			if len(args) > 3 {
				note = args[3]
			}

			return eng.Record(args[0], kind, amount, note, time.Now())
		},
	}
}

func newTxEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <amount> [note]",
		Short: "Overwrite a transaction's amount and note",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := openLedger(cmd)
			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing id %q: %w", args[0], err)
			}
			amount, err := ledger.ParseAmount(args[1])
			if err != nil {
				return err
			}
			note := ""
			if len(args) > 2 {
				note = args[2]
			}

			return eng.Update(id, amount, note)
		},
	}
}

func newTxRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := openLedger(cmd)
			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing id %q: %w", args[0], err)
			}
			return eng.Remove(id)
		},
	}
}

func newTxListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <customer>",
		Short: "List a customer's transactions with running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := openLedger(cmd)
			if err != nil {
				return err
			}

			txns, err := eng.Transactions(args[0])
			if err != nil {
				return err
			}

			running := decimal.Zero
			for _, t := range txns {
				running = running.Add(t.Kind.Signed(t.Amount))
				note := t.Note
				if note != "" {
					note = " " + note
				}
				fmt.Printf("%d\t%s\t%-8s\t%s\t%s%s\n",
					t.ID,
					t.Timestamp.Format(model.TimestampFormat),
					t.Kind,
					export.FormatAmount(t.Amount),
					export.FormatAmount(running),
					note,
				)
			}
			return nil
		},
	}
}

func newTxImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <customer> <file>",
		Short: "Bulk-record transactions from a statement CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := openLedger(cmd)
			if err != nil {
				return err
			}

			rows, err := importer.ParseFile(args[1])
			if err != nil {
				return err
			}
			n, err := importer.Import(eng, args[0], rows)
			if err != nil {
				return fmt.Errorf("imported %d of %d rows: %w", n, len(rows), err)
			}

			fmt.Printf("Imported %d transactions for %s\n", n, args[0])
			return nil
		},
	}
}
