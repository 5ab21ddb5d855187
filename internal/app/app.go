package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"roomcast/internal/config"
	"roomcast/internal/core"
	"roomcast/internal/media"
	transporthttp "roomcast/internal/transport/http"
)

// App wires together the registry, media store, and transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	registry        *core.Registry
	media           *media.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	mediaStore, err := media.NewStore(cfg.MediaDBPath, cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init media store: %w", err)
	}

	logger.Info().Str("db_path", cfg.MediaDBPath).Str("upload_dir", cfg.UploadDir).Msg("media store initialized")

	registry := core.NewRegistry(cfg.GracePeriod, logger)
	server := transporthttp.NewServer(registry, mediaStore, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		registry:        registry,
		media:           mediaStore,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

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

// cleanup closes the media store and other resources.
func (a *App) cleanup() {
	if a.media != nil {
		if err := a.media.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close media store")
		} else {
			a.log.Info().Msg("media store closed")
		}
	}
}
