package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"finledger/internal/amqp"
	"finledger/internal/core"
	"finledger/internal/tabular"
)

type staticSource struct {
	data core.AppData
	err  error
}

func (s staticSource) Snapshot(context.Context) (core.AppData, error) { return s.data, s.err }

type countingWriter struct {
	writes  atomic.Int32
	last    tabular.Table
	mu      sync.Mutex
	started chan struct{}
	release chan struct{}
	err     error
}

func (w *countingWriter) WriteTable(_ context.Context, t tabular.Table) error {
	w.writes.Add(1)
	if w.started != nil {
		w.started <- struct{}{}
		<-w.release
	}
	w.mu.Lock()
	w.last = t
	w.mu.Unlock()
	return w.err
}

func ledger() core.AppData {
	return core.AppData{
		IsInitialized: true,
		MonthlyData: []core.MonthlyRecord{
			{Year: 2024, Month: 12, Salary: 1},
			{Year: 2025, Month: 1, Salary: 2},
		},
	}
}

func TestHandleLedgerChangedExportsAllYears(t *testing.T) {
	w := &countingWriter{}
	bw := NewBackupWorker(staticSource{data: ledger()}, w)

	msg := amqp.NewLedgerChangedMessage(amqp.OpSaveRecord, 1)
	if err := bw.HandleLedgerChanged(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if w.writes.Load() != 1 {
		t.Fatalf("expected one write, got %d", w.writes.Load())
	}
	if len(w.last.Rows) != 2 {
		t.Fatalf("expected every record in the backup, got %d rows", len(w.last.Rows))
	}
}

func TestRunBackupErrors(t *testing.T) {
	boom := errors.New("boom")

	bw := NewBackupWorker(staticSource{err: boom}, &countingWriter{})
	if err := bw.RunBackup(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected snapshot error, got %v", err)
	}

	bw = NewBackupWorker(staticSource{data: ledger()}, &countingWriter{err: boom})
	if err := bw.RunBackup(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestConcurrentBackupsCollapse(t *testing.T) {
	w := &countingWriter{started: make(chan struct{}, 8), release: make(chan struct{})}
	bw := NewBackupWorker(staticSource{data: ledger()}, w)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = bw.RunBackup(ctx)
	}()
	<-w.started

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bw.RunBackup(ctx)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(w.release)
	wg.Wait()

	if got := w.writes.Load(); got != 1 {
		t.Fatalf("expected overlapping backups to share one export, got %d writes", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w := &countingWriter{}
	bw := NewBackupWorker(staticSource{data: ledger()}, w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bw.Run(ctx, 10*time.Millisecond) }()

	deadline := time.After(2 * time.Second)
	for w.writes.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("no periodic backup happened")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run returned %v", err)
	}
}
