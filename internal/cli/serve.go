package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelayout/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET  /healthz
  POST /v1/layout     positioned pipeline plus positions and components
  POST /v1/sequence   execution order
  POST /v1/render     rendered diagram (?format=svg|dot|json|png|pdf)

Layout flags and the [layout] config section set the defaults for requests
that omit options.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.config.Server.Addr
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv, err := server.New(runner, c.Logger, c.resolve(cmd, &flags))
			if err != nil {
				return err
			}
			printInfo("Listening on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	addLayoutFlags(cmd, &flags)

	return cmd
}
