package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/server"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port, host string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP bridge for the app process",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			c, err := openWith(cfg)
			if err != nil {
				return err
			}

			srv, err := server.NewServer(c)
			if err != nil {
				c.Close()
				return err
			}
			defer srv.Close()

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (PORT)")
	cmd.Flags().StringVar(&host, "host", "", "listen host (HOST)")
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
