// Package commands implements the walletwidget command line.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amarshat/walletwidget/internal/app"
	"github.com/amarshat/walletwidget/internal/config"
)

// Version is set at build time with -ldflags "-X ...commands.Version=...".
var Version = "dev"

var (
	configPath string
	apiBaseURL string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *slog.Logger
)

// Execute runs the root command.
func Execute() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "walletwidget",
		Short:         "Embeddable wallet widget engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("api-base-url") {
				loaded.API.BaseURL = apiBaseURL
			}
			if flags.Changed("log-level") {
				loaded.Log.Level = logLevel
			}
			if flags.Changed("log-format") {
				loaded.Log.Format = logFormat
			}
			l, err := app.NewLogger(loaded.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg, logger = loaded, l
			slog.SetDefault(logger)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&apiBaseURL, "api-base-url", "", "wallet API base URL (overrides config)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "json", "log format: json or text")

	root.AddCommand(serveCmd(), renderCmd(), typesCmd(), lintCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "walletwidget version %s\n", Version)
			return nil
		},
	}
}

// durationFlag reports d when the flag was set, else fallback.
func durationFlag(cmd *cobra.Command, name string, d, fallback time.Duration) time.Duration {
	if cmd.Flags().Changed(name) {
		return d
	}
	return fallback
}
