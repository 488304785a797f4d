package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/shinehub-server/internal/auth"
	"github.com/vovakirdan/shinehub-server/internal/config"
	"github.com/vovakirdan/shinehub-server/internal/core"
	"github.com/vovakirdan/shinehub-server/internal/service/moderation"
	"github.com/vovakirdan/shinehub-server/internal/service/notices"
	"github.com/vovakirdan/shinehub-server/internal/service/social"
	"github.com/vovakirdan/shinehub-server/internal/store"
	"github.com/vovakirdan/shinehub-server/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/shinehub-server/internal/transport/http"
	"github.com/vovakirdan/shinehub-server/internal/upload"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	// Initialize database store
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	uploads, err := upload.New(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init uploads: %w", err)
	}

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	}
	authService := auth.NewService(st, jwtConfig, auth.Options{
		InviteCode:    cfg.InviteCode,
		AdminUsername: cfg.AdminUsername,
	})

	// The store is both the message sink and the membership oracle of the core.
	hub := core.NewHub(authService, st, st, logger, cfg.SendBuffer)

	server := transporthttp.NewServer(hub, transporthttp.Services{
		Auth:       authService,
		Users:      st,
		Social:     social.New(st),
		Notices:    notices.New(st),
		Moderation: moderation.New(st, hub, logger),
		Uploads:    uploads,
	}, cfg, logger)

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

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
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

		a.log.Info().Int("online", a.hub.Online()).Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
