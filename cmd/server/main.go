// Command server runs the roster cleaning web service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"rosterclean/internal/config"
	"rosterclean/internal/core"
	"rosterclean/internal/history"
	"rosterclean/internal/logging"
	"rosterclean/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local overrides from .env; absence is not an error.
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting roster cleaning service", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := newHistoryStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	service := core.NewService(cfg, store)
	server := web.NewServer(service, cfg)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newHistoryStore picks the run-history backend: Postgres when
// DATABASE_URL is set, otherwise an in-memory ring that resets on
// restart.
func newHistoryStore(ctx context.Context, cfg *config.Config) (history.Store, func(), error) {
	if cfg.History.DatabaseURL == "" {
		slog.Info("run history in memory", "capacity", cfg.History.MemoryEntries)
		return history.NewMemoryStore(cfg.History.MemoryEntries), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.History.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect history database: %w", err)
	}

	store, err := history.NewPostgresStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("prepare history schema: %w", err)
	}

	slog.Info("run history in postgres")
	return store, pool.Close, nil
}
