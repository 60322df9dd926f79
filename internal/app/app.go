// Package app provides the main application struct for centralized dependency
// management and lifecycle control of the fittrack cache layer.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fittrack/config"
	"fittrack/internal/cache"
	"fittrack/internal/catalog"
	"fittrack/internal/kvstore"
	"fittrack/internal/remote"
	"fittrack/internal/repository"
	"fittrack/internal/storage"
)

// App wires the storage backend, cache collections and repositories together.
// The caller must call Shutdown to release resources.
type App struct {
	config  *config.Config
	storage storage.Storage
	store   kvstore.Store

	Catalog     *catalog.Catalog
	Exercises   *repository.Exercises
	Preferences *repository.Preferences
	Programs    *repository.Programs
	Sessions    *repository.Sessions

	shutdownMu sync.Mutex
	shutdown   bool
}

// New creates a new App with all dependencies initialized.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &App{config: cfg}

	store, err := app.openStore(ctx)
	if err != nil {
		return nil, err
	}
	app.store = store

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		closeErr := app.closeStore()
		if closeErr != nil {
			return nil, fmt.Errorf("failed to load exercise catalog: %w (also: store close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to load exercise catalog: %w", err)
	}
	app.Catalog = cat

	var source remote.Source = remote.Empty{}
	if cfg.Remote.ExportPath != "" {
		source = remote.NewFileSource(cfg.Remote.ExportPath)
		slog.Info("remote datasource configured", "path", cfg.Remote.ExportPath)
	}

	repoCfg := repository.Config{MaxAge: cfg.Cache.MaxAge}
	app.Exercises = repository.NewExercises(cat, cache.NewExercises(store), source, repoCfg)
	app.Preferences = repository.NewPreferences(cache.NewPreferences(store), source, repoCfg)
	app.Programs = repository.NewPrograms(cache.NewPrograms(store), source, repoCfg)
	app.Sessions = repository.NewSessions(cache.NewSessions(store), source, repoCfg)

	slog.Info("app initialized",
		"storage_type", cfg.Storage.Type,
		"catalog_size", cat.Len(),
		"cache_max_age", cfg.Cache.MaxAge,
	)

	return app, nil
}

// openStore builds the kvstore for the configured backend. Redis and memory
// are kvstore-native; the SQL and document backends go through the shared
// storage layer.
func (a *App) openStore(ctx context.Context) (kvstore.Store, error) {
	switch a.config.Storage.Type {
	case storage.TypeMemory:
		return kvstore.NewMemory(), nil
	case "redis":
		return kvstore.NewRedis(kvstore.RedisConfig{
			URL:    a.config.Storage.RedisURL,
			Prefix: a.config.Storage.RedisPrefix,
		})
	default:
		st, err := storage.New(ctx, a.config.StorageConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		a.storage = st
		store, err := kvstore.NewFromStorage(st)
		if err != nil {
			closeErr := st.Close()
			if closeErr != nil {
				return nil, fmt.Errorf("failed to initialize kv store: %w (also: storage close error: %v)", err, closeErr)
			}
			return nil, fmt.Errorf("failed to initialize kv store: %w", err)
		}
		return store, nil
	}
}

// Store exposes the underlying kv store, mainly for warm-up and diagnostics.
func (a *App) Store() kvstore.Store { return a.store }

// WarmCaches eagerly hydrates every collection from the remote datasource.
// Failures are logged and do not abort startup; a cold cache just means the
// first read pays the refresh cost instead.
func (a *App) WarmCaches(ctx context.Context) {
	warmers := []struct {
		name string
		warm func(context.Context) error
	}{
		{"custom_exercises", func(ctx context.Context) error { _, err := a.Exercises.List(ctx); return err }},
		{"exercise_preferences", func(ctx context.Context) error { _, err := a.Preferences.List(ctx); return err }},
		{"programs", func(ctx context.Context) error { _, err := a.Programs.List(ctx); return err }},
		{"workout_sessions", func(ctx context.Context) error { _, err := a.Sessions.List(ctx); return err }},
	}
	for _, w := range warmers {
		if err := w.warm(ctx); err != nil {
			slog.Warn("cache warm-up failed", "collection", w.name, "error", err)
		}
	}
}

// Shutdown tears down the kv store and the shared storage connection.
// It is idempotent and safe for repeated calls.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownMu.Lock()
	defer a.shutdownMu.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	return a.closeStore()
}

func (a *App) closeStore() error {
	var storeErr, storageErr error
	if a.store != nil {
		storeErr = a.store.Close()
	}
	if a.storage != nil {
		storageErr = a.storage.Close()
	}
	return errors.Join(storeErr, storageErr)
}
