package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finledger/internal/amqp"
	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/store"
	"finledger/internal/tabular"
)

var ErrImportDecode = errors.New("import decode failed")

// Notifier announces ledger changes to other processes.
type Notifier interface {
	PublishLedgerChanged(ctx context.Context, operation string, records int) error
}

// SeriesPoint is one month of the cumulative projection.
type SeriesPoint struct {
	Date string `json:"date"`
	core.CumulativePoint
}

// LedgerService orchestrates the store, the tabular codecs and change notifications.
type LedgerService struct {
	store    *store.Store
	notifier Notifier
	now      func() time.Time
}

// NewLedgerService builds the service. notifier may be nil.
func NewLedgerService(st *store.Store, notifier Notifier) *LedgerService {
	return &LedgerService{store: st, notifier: notifier, now: time.Now}
}

// WithClock returns a copy of the service that evaluates goals at now().
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *LedgerService) Initialize(ctx context.Context, baseline core.InitialAssets) error {
	if err := s.store.Initialize(ctx, baseline); err != nil {
		return err
	}
	s.notify(ctx, amqp.OpInitialize, 0)
	return nil
}

// SaveRecord reconciles and stores a monthly record, returning it with derived totals and identity.
func (s *LedgerService) SaveRecord(ctx context.Context, rec core.MonthlyRecord) (core.MonthlyRecord, error) {
	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		return core.MonthlyRecord{}, err
	}
	s.notify(ctx, amqp.OpSaveRecord, 1)
	return saved, nil
}

func (s *LedgerService) DeleteRecord(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil || !removed {
		return removed, err
	}
	s.notify(ctx, amqp.OpDeleteRecord, 1)
	return true, nil
}

func (s *LedgerService) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.notify(ctx, amqp.OpReset, 0)
	return nil
}

func (s *LedgerService) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	added, err := s.store.AddGoal(ctx, g)
	if err != nil {
		return core.Goal{}, err
	}
	s.notify(ctx, amqp.OpGoals, 0)
	return added, nil
}

func (s *LedgerService) DeleteGoal(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.DeleteGoal(ctx, id)
	if err != nil || !removed {
		return removed, err
	}
	s.notify(ctx, amqp.OpGoals, 0)
	return true, nil
}

func (s *LedgerService) UpdateGoalProgress(ctx context.Context, id string, amount float64) (core.Goal, error) {
	g, err := s.store.UpdateGoalProgress(ctx, id, amount)
	if err != nil {
		return core.Goal{}, err
	}
	s.notify(ctx, amqp.OpGoals, 0)
	return g, nil
}

// Check reports whether the stored ledger can be read and parsed.
func (s *LedgerService) Check(ctx context.Context) error {
	return s.store.Check(ctx)
}

func (s *LedgerService) Snapshot(ctx context.Context) (core.AppData, error) {
	return s.store.Snapshot(ctx)
}

// Overview summarizes the ledger for one year, or for all years when year is nil.
func (s *LedgerService) Overview(ctx context.Context, year *int) (core.Overview, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return core.Overview{}, err
	}
	return core.Summarize(data, year), nil
}

// Series returns the cumulative projection over all records.
func (s *LedgerService) Series(ctx context.Context) ([]SeriesPoint, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SeriesPoint, 0, len(data.MonthlyData))
	i := 0
	for p := range core.Cumulative(data.MonthlyData, data.Baseline()) {
		out = append(out, SeriesPoint{Date: data.MonthlyData[i].Key().String(), CumulativePoint: p})
		i++
	}
	return out, nil
}

// Goals evaluates every goal against the records as of the service clock.
func (s *LedgerService) Goals(ctx context.Context) ([]core.GoalView, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return core.EvaluateGoals(data.Goals, data.MonthlyData, s.now()), nil
}

// Import reads a table, decodes it and merges the records in one write.
// Unreadable or invalid input fails with ErrImportDecode and changes nothing.
func (s *LedgerService) Import(ctx context.Context, r tabular.Reader) (store.MergeResult, error) {
	table, err := r.ReadTable(ctx)
	if err != nil {
		return store.MergeResult{}, fmt.Errorf("%w: %w", ErrImportDecode, err)
	}
	records, err := tabular.Decode(table)
	if err != nil {
		return store.MergeResult{}, fmt.Errorf("%w: %w", ErrImportDecode, err)
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return store.MergeResult{}, fmt.Errorf("%w: record %d (%s): %w", ErrImportDecode, i+1, rec.Key(), err)
		}
	}

	res, err := s.store.MergeImported(ctx, records)
	if err != nil {
		return store.MergeResult{}, err
	}
	s.notify(ctx, amqp.OpImport, res.Inserted+res.Replaced)
	return res, nil
}

// Export writes the records of year, or all records when year is nil, and returns the row count.
func (s *LedgerService) Export(ctx context.Context, w tabular.Writer, year *int) (int, error) {
	data, err := s.store.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	table := tabular.Encode(data.MonthlyData, year)
	if err := w.WriteTable(ctx, table); err != nil {
		return 0, fmt.Errorf("export ledger: %w", err)
	}
	return len(table.Rows), nil
}

func (s *LedgerService) notify(ctx context.Context, operation string, records int) {
	if s.notifier == nil {
		slog.DebugContext(ctx, "No notifier configured, skipping ledger changed message")
		return
	}
	// The change is already stored; a failed publish must not fail the request.
	if err := s.notifier.PublishLedgerChanged(ctx, operation, records); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger changed message",
			log.FieldOperation, operation,
			log.FieldRecords, records,
			log.FieldError, err)
	}
}
