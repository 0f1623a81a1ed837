package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "order <manifest> [fixture...]",
		Short: "Print the load order of a manifest",
		Long: `Print fixtures in an order where every fixture follows its dependencies.

Without fixture arguments the whole manifest is ordered. With arguments only
the named fixtures and their transitive dependencies are printed.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeFixtures,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readManifest(args[0])
			if err != nil {
				return err
			}

			order, err := m.Order(cmd.Context(), args[1:]...)
			if err != nil {
				return err
			}
			c.Logger.Debug("resolved order", "manifest", m.Name, "fixtures", len(order))

			names := make([]string, len(order))
			for i, f := range order {
				names[i] = f.Name
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Order []string `json:"order"`
				}{names})
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, `print {"order": [...]} instead of one name per line`)

	return cmd
}
