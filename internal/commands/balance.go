package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/posbook-dev/posbook/internal/export"
)

func newBalanceCommand() *cobra.Command {
	var showTotal bool
	var showRanked bool

	cmd := &cobra.Command{
		Use:   "balance [customer]",
		Short: "Show a customer balance, the total, or the ranking",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := openLedger(cmd)
			if err != nil {
				return err
			}

			switch {
			case showRanked:
				ranked, err := eng.RankedBalances()
				if err != nil {
					return err
				}
				for _, cb := range ranked {
					fmt.Printf("%s\t%s\n", cb.Name, export.FormatAmount(cb.Balance))
				}
				return nil
			case showTotal:
				total, err := eng.TotalBalance()
				if err != nil {
					return err
				}
				fmt.Println(export.FormatAmount(total))
				return nil
			case len(args) == 1:
				balance, err := eng.BalanceOf(args[0])
				if err != nil {
					return err
				}
				fmt.Println(export.FormatAmount(balance))
				return nil
			}
			return fmt.Errorf("specify a customer, --total, or --ranked")
		},
	}

	cmd.Flags().BoolVar(&showTotal, "total", false, "show the sum of all customer balances")
	cmd.Flags().BoolVar(&showRanked, "ranked", false, "show all customers ranked by balance")

	return cmd
}
