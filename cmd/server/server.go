package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tendevs/cards-api/internal/config"
)

const shutdownTimeout = 15 * time.Second

// runServer starts the HTTP server and blocks until shutdown completes.
// SIGINT and SIGTERM trigger a graceful shutdown.
func runServer(app *application, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		// Generation requests are synchronous provider calls with retries, so
		// the write timeout must outlast a worst-case attempt.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		return err
	}

	slog.Info("server stopped")
	return nil
}

// tokenLifetime converts the configured lifetime to a duration for handlers
// that report token expiry.
func tokenLifetime(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Auth.TokenLifetimeMinutes) * time.Minute
}
