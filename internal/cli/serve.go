package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/symgraph/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo graphs over HTTP",
		Long: `Serve the demo graphs, their shared-subexpression extraction and
their renderings as a JSON and SVG API.

Rendered SVGs go through the configured artifact cache. The server stops
gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Serve.Addr
			}
			ctx := cmd.Context()
			store := c.newCache(ctx, noCache)
			defer store.Close()

			srv := server.New(server.Options{
				Logger: c.Logger,
				Runner: c.newRunner(store),
				NoMemo: !c.Config.Graph.Memo,
				Prefix: c.Config.CSE.Prefix,
				Suffix: c.Config.CSE.Suffix,
			})
			printInfo(cmd.OutOrStdout(), "Serving on http://%s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
