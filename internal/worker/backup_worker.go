package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finledger/internal/amqp"
	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/tabular"

	"golang.org/x/sync/singleflight"
)

// SnapshotSource provides the current ledger.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (core.AppData, error)
}

// BackupWorker exports the full ledger to a backup target whenever it changes.
// Overlapping triggers share a single export.
type BackupWorker struct {
	source SnapshotSource
	target tabular.Writer
	group  singleflight.Group
}

func NewBackupWorker(source SnapshotSource, target tabular.Writer) *BackupWorker {
	return &BackupWorker{source: source, target: target}
}

// HandleLedgerChanged runs a backup for a ledger-changed event.
func (w *BackupWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger changed message",
		log.FieldOperation, msg.Operation,
		log.FieldRecords, msg.Records,
		"timestamp", msg.Timestamp)
	return w.RunBackup(ctx)
}

// RunBackup exports the current snapshot. Callers arriving while an export is
// in flight wait for it and share its result.
func (w *BackupWorker) RunBackup(ctx context.Context) error {
	v, err, shared := w.group.Do("backup", func() (any, error) {
		return w.backup(ctx)
	})
	if err != nil {
		return err
	}
	if shared {
		slog.DebugContext(ctx, "Joined in-flight backup", log.FieldRecords, v)
	}
	return nil
}

func (w *BackupWorker) backup(ctx context.Context) (int, error) {
	start := time.Now()
	data, err := w.source.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("read ledger snapshot: %w", err)
	}
	table := tabular.Encode(data.MonthlyData, nil)
	if err := w.target.WriteTable(ctx, table); err != nil {
		return 0, fmt.Errorf("write backup: %w", err)
	}
	slog.InfoContext(ctx, "Ledger backup written",
		log.FieldOperation, log.OpBackup,
		log.FieldRecords, len(table.Rows),
		log.FieldDuration, time.Since(start).Milliseconds())
	return len(table.Rows), nil
}

// Run backs up on every tick until ctx is done. Failed backups are logged and retried on the next tick.
func (w *BackupWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.RunBackup(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic backup failed",
					log.FieldOperation, log.OpBackup, log.FieldError, err)
			}
		}
	}
}
