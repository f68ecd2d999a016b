package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"modernblog/app/config"
	"modernblog/app/routes"
	"modernblog/app/services"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// NewServer returns an unstarted server for handler with transport timeouts set.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// RunServer opens the configured store and serves the API until ctx is cancelled.
func RunServer(ctx context.Context, cfg *config.Config) error {
	repo, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	handler := routes.SetupRoutes(
		services.NewPostService(repo),
		services.NewCommentService(repo),
		cfg.AllowedOrigins,
	)
	srv := NewServer(cfg, handler)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	return Serve(ctx, srv, ln)
}

// Serve runs srv on ln and shuts it down gracefully once ctx is done.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("starting server")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return <-errCh
}
