// Package cli provides the initialization shared by cmd/finledger,
// cmd/finledger-worker and cmd/finledgerctl.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finledger/internal/amqp"
	"finledger/internal/backend"
	"finledger/internal/config"
	"finledger/internal/log"
	"finledger/internal/persistence"
	"finledger/internal/services"
	"finledger/internal/store"
)

// SetupLogger builds the application logger at the configured level and
// installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		level = cfg.SlogLevel()
	}
	logger := log.New(log.Config{Level: level, Component: component, Output: os.Stdout})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// Ledger bundles the service with the resources that back it.
type Ledger struct {
	Service  *services.LedgerService
	Store    *store.Store
	Notifier *amqp.Client
	backend  *backend.BackendResult
}

// Close releases the notifier and the storage backend.
func (l *Ledger) Close() error {
	if l.Notifier != nil {
		if err := l.Notifier.Close(); err != nil {
			slog.Warn("Failed to close AMQP client", log.FieldError, err)
		}
	}
	return l.backend.Close()
}

// OpenLedger creates the configured storage backend and wires the service.
// When withNotifier is set and AMQP_URL is configured, changes are published;
// a broker that cannot be reached is logged and skipped.
func OpenLedger(ctx context.Context, logger *log.Logger, cfg *config.Config, withNotifier bool) (*Ledger, error) {
	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger)
	res, err := factory.CreateBackend(ctx, backend.FromAppConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", cfg.DataBackend, err)
	}

	st := store.New(persistence.NewRepository(res.Blobs))
	l := &Ledger{Store: st, backend: res}

	var notifier services.Notifier
	if withNotifier && cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.WarnContext(ctx, "AMQP unavailable, ledger changes will not be published", log.FieldError, err)
		} else {
			l.Notifier = client
			notifier = client
		}
	}
	l.Service = services.NewLedgerService(st, notifier)
	return l, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. cleanup
// runs once with a bounded context before the returned context is cancelled.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
