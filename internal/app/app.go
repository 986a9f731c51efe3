package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dineshsuthar123/telecare-realtime/internal/auth"
	"github.com/dineshsuthar123/telecare-realtime/internal/config"
	"github.com/dineshsuthar123/telecare-realtime/internal/core"
	"github.com/dineshsuthar123/telecare-realtime/internal/notify"
	"github.com/dineshsuthar123/telecare-realtime/internal/store"
	"github.com/dineshsuthar123/telecare-realtime/internal/store/sqlite"
	transporthttp "github.com/dineshsuthar123/telecare-realtime/internal/transport/http"
)

// App wires together the signaling core, the notification stream, and the
// transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      24 * time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	hub := core.NewHub(core.NewRegistry(), logger)

	streamer := notify.NewStreamer(
		&activitySource{store: st, limit: cfg.NotificationLimit},
		notify.StreamConfig{
			HeartbeatInterval: cfg.HeartbeatInterval,
			RefreshInterval:   cfg.RefreshInterval,
			FetchTimeout:      cfg.FetchTimeout,
			Limit:             cfg.NotificationLimit,
		},
		logger,
	)

	server := transporthttp.NewServer(hub, authService, st, streamer, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
