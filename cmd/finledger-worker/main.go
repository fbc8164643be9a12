package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"finledger/internal/amqp"
	"finledger/internal/cli"
	"finledger/internal/config"
	"finledger/internal/log"
	"finledger/internal/tabular"
	"finledger/internal/tabular/google"
	"finledger/internal/tabular/xlsx"
	"finledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting finledger-worker", log.FieldOperation, log.OpStartup, log.FieldBackend, cfg.DataBackend)
	if cfg.DataBackend == "memory" {
		logger.Warn("Memory backend is process local, the worker will back up an empty ledger")
	}

	ledger, err := cli.OpenLedger(context.Background(), logger, cfg, false)
	if err != nil {
		logger.Error("Failed to open ledger", log.FieldError, err)
		os.Exit(1)
	}
	defer ledger.Close()

	target, err := backupTarget(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backup target", log.FieldError, err)
		os.Exit(1)
	}
	bw := worker.NewBackupWorker(ledger.Service, target)

	var consumer *amqp.Client
	if cfg.AMQPURL != "" {
		consumer, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer consumer.Close()
	} else {
		logger.Info("AMQP disabled - backing up on the interval only")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// One backup on startup covers changes made while the worker was down.
	if err := bw.RunBackup(ctx); err != nil {
		logger.Error("Startup backup failed", log.FieldOperation, log.OpStartup, log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if consumer != nil {
		amqpLogger := logger.WithComponent(log.ComponentAMQP)
		g.Go(func() error {
			err := consumer.ConsumeLedgerChanged(gctx, bw.HandleLedgerChanged)
			if err != nil && !errors.Is(err, context.Canceled) {
				amqpLogger.Error("Consumer stopped", log.FieldError, err)
			}
			return err
		})
	}
	g.Go(func() error {
		return bw.Run(gctx, cfg.BackupInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully", log.FieldOperation, log.OpShutdown)
}

// backupTarget prefers the Google Sheet when a spreadsheet is configured and
// falls back to a workbook in BACKUP_DIR.
func backupTarget(cfg *config.Config, logger *log.Logger) (tabular.Writer, error) {
	logger = logger.WithComponent(log.ComponentTabular)
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.NewFromEnv(context.Background())
		if err != nil {
			return nil, err
		}
		logger.Info("Backing up to Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
		return client, nil
	}
	path := filepath.Join(cfg.BackupDir, tabular.FileName(nil, "xlsx"))
	logger.Info("Backing up to workbook", "path", path)
	return xlsx.FileWriter{Path: path}, nil
}
