package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtftplint/internal/server"
	"github.com/yaklabco/rtftplint/pkg/config"
)

func newServeCommand() *cobra.Command {
	var cliCfg config.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve template validation over HTTP",
		Long: `Start an HTTP service validating templates posted to it.

Endpoints:
  POST /api/validate                 raw RTF body; returns {id, valid, tree, error}
  POST /api/navigation?source=URL    raw RTF body; returns the navigation document
  GET  /healthz                      liveness probe

Structure errors are answered with 422, bodies that are not RTF with 400.

Examples:
  rtftplint serve
  rtftplint serve --addr 127.0.0.1:9000`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := load(cmd, &cliCfg)
			if err != nil {
				return err
			}

			navOpts, err := navigationOptions(env.cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(env.ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Options{
				Addr:       env.cfg.Server.Addr,
				BodyLimit:  env.cfg.Server.BodyLimit,
				Navigation: navOpts,
				Logger:     env.logger,
			})

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&cliCfg.Server.Addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().IntVar(&cliCfg.Server.BodyLimit, "body-limit", 0, "maximum request body size in bytes")

	return cmd
}
