package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finledger/internal/config"
	"finledger/internal/persistence/file"
	"finledger/internal/persistence/memory"
	"finledger/internal/persistence/mongo"
	"finledger/internal/persistence/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case MemoryBackend:
		return f.createMemoryBackend()
	case FileBackend:
		return f.createFileBackend(cfg)
	case SQLiteBackend:
		return f.createSQLiteBackend(cfg)
	case MongoBackend:
		return f.createMongoBackend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend")
	return &BackendResult{Blobs: memory.New()}, nil
}

func (f *DefaultFactory) createFileBackend(cfg Config) (*BackendResult, error) {
	dir := cfg.DataDirectory
	if dir == "" {
		dir = "data"
	}
	store, err := file.New(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}
	f.logger.Info("Initialized file backend", "data_directory", dir)
	return &BackendResult{Blobs: store}, nil
}

func (f *DefaultFactory) createSQLiteBackend(cfg Config) (*BackendResult, error) {
	store, err := sqlite.Open(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	return &BackendResult{Blobs: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createMongoBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	store, err := mongo.Connect(mongo.Config{
		URI:        cfg.MongoURI,
		Database:   cfg.MongoDatabase,
		Collection: cfg.MongoCollection,
		Timeout:    cfg.MongoTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB store: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized MongoDB backend",
		"database", cfg.MongoDatabase,
		"collection", cfg.MongoCollection)

	cleanup := func() error {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return store.Close(closeCtx)
	}
	return &BackendResult{Blobs: store, Cleanup: cleanup}, nil
}

// FromAppConfig converts the application config into a backend config.
func FromAppConfig(cfg *config.Config) Config {
	return Config{
		Type:            BackendType(cfg.DataBackend),
		DataDirectory:   cfg.DataDir,
		SQLiteDBPath:    cfg.SQLiteDBPath,
		MongoURI:        cfg.MongoURI,
		MongoDatabase:   cfg.MongoDatabase,
		MongoCollection: cfg.MongoCollection,
		MongoTimeout:    cfg.MongoTimeout,
	}
}
