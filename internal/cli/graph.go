package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
	"github.com/matzehuels/fixturegraph/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphCommand creates the graph command for exporting the fixture graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:               "graph <manifest>",
		Short:             "Export the fixture graph as DOT or SVG",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeManifest,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG {
				return ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported graph format %q (want dot or svg)", format)
			}

			m, err := readManifest(args[0])
			if err != nil {
				return err
			}

			dot, err := nodelink.ToDOT(m, nodelink.Options{Detailed: detailed})
			if err != nil {
				return err
			}

			data := []byte(dot)
			if format == formatSVG {
				spinner := newSpinnerWithContext(cmd.Context(), "Rendering SVG...")
				spinner.Start()
				data, err = nodelink.RenderSVG(cmd.Context(), dot)
				spinner.Stop()
				if err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote %s graph", format)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot, svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show load position and target in node labels")

	return cmd
}
