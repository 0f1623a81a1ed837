package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fixturegraph/pkg/cache"
)

// ledgerCommand creates the ledger management command.
func (c *CLI) ledgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage the local load ledger",
		Long: `The ledger remembers a digest of every fixture loaded into a sink, so
unchanged fixtures are skipped on the next load.`,
	}

	cmd.AddCommand(c.ledgerClearCommand())
	cmd.AddCommand(c.ledgerPathCommand())

	return cmd
}

// ledgerClearCommand creates the "ledger clear" subcommand.
func (c *CLI) ledgerClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget all recorded loads",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ledgerDir()
			if err != nil {
				return fmt.Errorf("get ledger dir: %w", err)
			}

			ledger, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := ledger.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Ledger is empty")
				return nil
			}

			printSuccess("Cleared %d ledger entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// ledgerPathCommand creates the "ledger path" subcommand.
func (c *CLI) ledgerPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the ledger directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ledgerDir()
			if err != nil {
				return fmt.Errorf("get ledger dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
