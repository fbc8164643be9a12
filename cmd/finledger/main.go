package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"finledger/internal/cli"
	apphttp "finledger/internal/http"
	"finledger/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	ledger, err := cli.OpenLedger(context.Background(), logger, cfg, true)
	if err != nil {
		logger.Error("Failed to open ledger", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Error("Failed to close ledger backend", log.FieldError, err)
		}
	}()

	if err := ledger.Service.Check(context.Background()); err != nil {
		logger.Warn("Stored ledger is unreadable, serving an empty ledger", log.FieldError, err)
	}

	srv := apphttp.NewServer(":"+cfg.Port, ledger.Service,
		apphttp.WithLogger(logger.WithComponent(log.ComponentHTTP)),
		apphttp.WithCurrency(cfg.Currency))

	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting finledger server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}
