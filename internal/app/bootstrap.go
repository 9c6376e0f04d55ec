// Package app is the composition root: it wires storage, repositories,
// handlers, and the HTTP router together with manual DI.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grandauto/garage/internal/api/handlers"
	"github.com/grandauto/garage/internal/config"
	"github.com/grandauto/garage/internal/pkg/logger"
	"github.com/grandauto/garage/internal/repository"
	"github.com/grandauto/garage/internal/storage"
)

// Application holds composed application dependencies.
type Application struct {
	Config *config.Config
	Router *gin.Engine
	Store  *storage.Store
}

// Bootstrap initializes all dependencies. Open applies the schema on every
// start; creation is idempotent so restarts against an existing file are safe.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	store, err := storage.Open(cfg.Database.Path, cfg.Database.BusyTimeout)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Database ready", zap.String("path", cfg.Database.Path))

	repos := repository.New(store)
	server := handlers.NewServer(repos)

	return &Application{
		Config: cfg,
		Router: newRouter(cfg, server),
		Store:  store,
	}, nil
}

// Shutdown releases application resources.
func (a *Application) Shutdown() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}
}
