package cli

import (
	"github.com/spf13/cobra"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check <manifest>",
		Short: "Validate a manifest",
		Long: `Validate a manifest: names, records files, missing dependencies and cycles.

On success the full load order is shown as a table.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeManifest,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readManifest(args[0])
			if err != nil {
				return err
			}

			g, err := m.Graph()
			if err != nil {
				return err
			}
			order, err := m.Order(cmd.Context())
			if err != nil {
				return err
			}

			records := 0
			for _, f := range order {
				rs, err := m.Records(f)
				if err != nil {
					return err
				}
				records += len(rs)
			}

			printSuccess("%s is valid", StyleHighlight.Render(m.Name))
			printStats(g.Len(), g.EdgeCount(), records)
			if !quiet {
				renderOrderTable(cmd.OutOrStdout(), order)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the load order table")

	return cmd
}
