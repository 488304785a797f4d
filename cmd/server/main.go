package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/shinehub-server/internal/app"
	"github.com/vovakirdan/shinehub-server/internal/config"
	applog "github.com/vovakirdan/shinehub-server/internal/log"
)

var (
	configPath string
	addrFlag   string
	logLevel   string
)

// rootCmd runs the chat server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:           "shinehub",
	Short:         "ShineHub school chat server",
	Long:          "Serves the ShineHub REST API and the real-time chat websocket.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := app.New(&cfg, logger)
		if err != nil {
			return fmt.Errorf("init app: %w", err)
		}

		logger.Info().Str("addr", cfg.Addr).Msg("starting shinehub server")
		if err := application.Run(ctx); err != nil {
			return fmt.Errorf("server exited with error: %w", err)
		}
		logger.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&addrFlag, "addr", "", "HTTP listen address")
}

// loadConfig resolves configuration, applies command line overrides and
// builds the logger the rest of the command uses.
func loadConfig() (config.Config, *zerolog.Logger, error) {
	bootLog := applog.New("info", "console")

	cfg, path, err := config.Load(bootLog, configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	cfg.UpdateFrom(config.Config{Addr: addrFlag, LogLevel: logLevel})

	logger := applog.New(cfg.LogLevel, cfg.LogFormat)
	logger.Debug().Str("path", path).Msg("config loaded")
	return cfg, logger, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
