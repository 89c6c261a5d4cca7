package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amarshat/walletwidget/internal/app"
)

func serveCmd() *cobra.Command {
	var (
		addr            string
		shutdownTimeout time.Duration
		origins         []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve widgets over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("allowed-origin") {
				cfg.Server.AllowedOrigins = origins
			}
			cfg.Server.ShutdownTimeout = durationFlag(cmd, "shutdown-timeout", shutdownTimeout, cfg.Server.ShutdownTimeout)

			ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := app.NewRuntime(ctx, cfg, logger, Version)
			if err != nil {
				return err
			}
			logger.InfoContext(ctx, "starting walletwidget",
				"version", Version,
				"api_base_url", cfg.API.BaseURL,
				"deferred", cfg.DeferredEnabled(),
			)
			return rt.Run(ctx)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "listen address (overrides config)")
	f.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout (overrides config)")
	f.StringSliceVar(&origins, "allowed-origin", nil, "host origin allowed to load widgets with credentials (repeatable)")
	return cmd
}

// background is used when cobra runs without a context.
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
