package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fixturegraph/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	addr := envOr(envAddr, defaultAddr)

	cmd := &cobra.Command{
		Use:   "serve <manifest>",
		Short: "Serve load orders over HTTP",
		Long: `Serve the load order of a manifest over HTTP.

The manifest is validated before the server starts. Routes:
  GET  /healthz
  GET  /v1/fixtures
  GET  /v1/order?only=a,b
  GET  /v1/fixtures/{name}/order
  GET  /v1/graph
  POST /v1/resolve`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeManifest,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readManifest(args[0])
			if err != nil {
				return err
			}
			if err := m.Validate(); err != nil {
				return err
			}
			return server.New(m, server.WithLogger(c.Logger)).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", addr, "listen address (env "+envAddr+")")

	return cmd
}
