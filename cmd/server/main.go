package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dineshsuthar123/telecare-realtime/internal/app"
	"github.com/dineshsuthar123/telecare-realtime/internal/config"
	"github.com/dineshsuthar123/telecare-realtime/internal/log"
)

var (
	cfgPath  string
	addr     string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "telecare-server",
	Short: "Realtime signaling and notification server",
	Long: `telecare-server hosts the realtime core of the telecare platform:
a room-based WebRTC signaling relay over WebSocket and a per-subscriber
notification stream over server-sent events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bootLogger := log.New(logLevel)

		cfg, path, err := config.Load(bootLogger, cfgPath)
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.Addr = addr
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		logger := log.New(cfg.LogLevel)
		logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting telecare server")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := app.New(cfg, logger)
		if err != nil {
			return err
		}

		if err := application.Run(ctx); err != nil {
			return err
		}
		logger.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address override")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
