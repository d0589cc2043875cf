package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/posbook-dev/posbook/internal/export"
)

func newExportCommand() *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports",
	}

	cmd.PersistentFlags().StringVar(&formatFlag, "format", "csv", "output format (csv|xlsx)")

	ledgerCmd := &cobra.Command{
		Use:   "ledger <customer>",
		Short: "Export a customer's ledger with running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, format, err := openExporter(cmd, formatFlag)
			if err != nil {
				return err
			}
			path, err := runExport(format, func(f export.Format) (string, error) {
				return exp.CustomerLedger(args[0], f)
			})
			if err != nil {
				return err
			}
			fmt.Printf("Exported %s\n", path)
			return nil
		},
	}

	balancesCmd := &cobra.Command{
		Use:   "balances",
		Short: "Export all customer balances ranked by balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, format, err := openExporter(cmd, formatFlag)
			if err != nil {
				return err
			}
			path, err := runExport(format, exp.AllBalances)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %s\n", path)
			return nil
		},
	}

	cmd.AddCommand(ledgerCmd)
	cmd.AddCommand(balancesCmd)

	return cmd
}

func openExporter(cmd *cobra.Command, formatFlag string) (*export.Exporter, export.Format, error) {
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return nil, "", err
	}

	eng, cfg, err := openLedger(cmd)
	if err != nil {
		return nil, "", err
	}
	return export.New(eng, cfg.Export.Dir), format, nil
}

// runExport runs one export, falling back to CSV when the requested
// format's library is compiled out.
func runExport(format export.Format, fn func(export.Format) (string, error)) (string, error) {
	path, err := fn(format)
	if errors.Is(err, export.ErrFormatUnavailable) {
		fmt.Fprintf(os.Stderr, "%s export unavailable, falling back to csv\n", format)
		return fn(export.FormatCSV)
	}
	return path, err
}
