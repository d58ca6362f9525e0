package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/startpage/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		static string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages over HTTP",
		Long: `Serve the page API backed by the configured store:

  GET  /api/health
  GET  /api/1/pages/{key}
  PUT  /api/1/pages/{key}
  POST /api/1/pages/{key}/move
  POST /api/1/pages/{key}/items

With --static, other paths are served from that directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if static != "" {
				cfg.StaticDir = static
			}

			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			printInfo("Serving %s on %s", StyleValue.Render(c.Config.Store.Backend), StyleLink.Render(cfg.Addr))
			printDetail("page API under /api/1/pages/{key}")
			return server.New(s, c.Kinds, cfg, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&static, "static", "", "directory served for non-API paths")
	return cmd
}
