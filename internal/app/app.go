// Package app wires configuration, storage, and the HTTP API together and
// manages the process lifecycle.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/daybreak/internal/log"
	"github.com/chrissnell/daybreak/internal/server"
	"github.com/chrissnell/daybreak/internal/storage"
	"github.com/chrissnell/daybreak/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Connect the almanac archive when one is configured
	var store *storage.Client
	if a.cfg.Storage != nil && a.cfg.Storage.Postgres != nil && a.cfg.Storage.Postgres.ConnectionString != "" {
		store = storage.NewClient(a.cfg.Storage.Postgres.ConnectionString, a.logger)
		if err := store.Connect(); err != nil {
			return err
		}
	}

	// Initialize the API server
	ctrl, err := server.NewController(ctx, &wg, a.cfg, store, a.logger)
	if err != nil {
		return err
	}
	if err := ctrl.Start(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
