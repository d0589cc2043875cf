package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCustomerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}

	cmd.AddCommand(newCustomerAddCommand())
	cmd.AddCommand(newCustomerRmCommand())
	cmd.AddCommand(newCustomerListCommand())

	return cmd
}

func newCustomerAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := openLedger(cmd)
			if err != nil {
				return err
			}
			if err := eng.AddCustomer(args[0]); err != nil {
				return err
			}
			fmt.Printf("Added customer %s\n", args[0])
			return nil
		},
	}
}

func newCustomerRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a customer and all its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := openLedger(cmd)
			if err != nil {
				return err
			}
			if err := eng.RemoveCustomer(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed customer %s\n", args[0])
			return nil
		},
	}
}

func newCustomerListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := openLedger(cmd)
			if err != nil {
				return err
			}
			names, err := eng.Customers()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
