package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/posbook-dev/posbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "posbook",
		Short:   "Point-of-sale customer cash ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("dir", ".", "ledger project directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newCustomerCommand())
	rootCmd.AddCommand(newTxCommand())
	rootCmd.AddCommand(newBalanceCommand())
	rootCmd.AddCommand(newExportCommand())

	return rootCmd
}
