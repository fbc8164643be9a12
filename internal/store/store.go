// Package store owns every mutation of the ledger aggregate.
//
// Each operation reads the whole aggregate, changes it in memory and writes it
// back in a single repository call. A mutex serializes operations within the
// process; there is no cross-process locking.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"finledger/internal/core"
	"finledger/internal/persistence"

	"github.com/google/uuid"
)

var (
	ErrNotInitialized = errors.New("ledger not initialized")
	ErrGoalNotFound   = errors.New("goal not found")
)

// Repository persists the aggregate as a whole.
type Repository interface {
	Read(ctx context.Context) (core.AppData, error)
	Write(ctx context.Context, data core.AppData) error
	Clear(ctx context.Context) error
}

type Store struct {
	repo  Repository
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func New(repo Repository, opts ...Option) *Store {
	s := &Store{repo: repo, now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(s)
	}
	return s
}

// read loads the aggregate. Corrupted data is logged and replaced by the empty aggregate.
func (s *Store) read(ctx context.Context) (core.AppData, error) {
	data, err := s.repo.Read(ctx)
	if errors.Is(err, persistence.ErrCorrupted) {
		slog.WarnContext(ctx, "Recovering from corrupted ledger data with an empty ledger", "error", err)
		return core.EmptyAppData(), nil
	}
	if err != nil {
		return core.AppData{}, err
	}
	return data.Normalize(), nil
}

func (s *Store) readInitialized(ctx context.Context) (core.AppData, error) {
	data, err := s.read(ctx)
	if err != nil {
		return data, err
	}
	if !data.IsInitialized {
		return data, ErrNotInitialized
	}
	return data, nil
}

// Snapshot returns the current aggregate.
func (s *Store) Snapshot(ctx context.Context) (core.AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

// Check reports whether the stored aggregate can be read, including ErrCorrupted.
func (s *Store) Check(ctx context.Context) error {
	_, err := s.repo.Read(ctx)
	return err
}

// Initialize records the baseline and marks the ledger initialized.
// Calling it again overwrites the previous baseline.
func (s *Store) Initialize(ctx context.Context, baseline core.InitialAssets) error {
	if err := baseline.Validate(); err != nil {
		return fmt.Errorf("validate initial assets: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read(ctx)
	if err != nil {
		return err
	}
	if data.IsInitialized {
		slog.WarnContext(ctx, "Overwriting existing baseline",
			"previous_deposit", data.Baseline().Deposit,
			"deposit", baseline.Deposit)
	}
	data.IsInitialized = true
	data.InitialAssets = &baseline

	if err := s.repo.Write(ctx, data); err != nil {
		return fmt.Errorf("initialize ledger: %w", err)
	}
	slog.InfoContext(ctx, "Ledger initialized", "deposit", baseline.Deposit, "loan", baseline.Loan)
	return nil
}

// Save reconciles the record, derives its totals and upserts it.
// A record that fails reconciliation or validation leaves the store untouched.
func (s *Store) Save(ctx context.Context, rec core.MonthlyRecord) (core.MonthlyRecord, error) {
	if err := core.Reconcile(rec); err != nil {
		return core.MonthlyRecord{}, err
	}
	rec = rec.WithTotals()
	if err := rec.Validate(); err != nil {
		return core.MonthlyRecord{}, fmt.Errorf("validate record %s: %w", rec.Key(), err)
	}

	now := core.At(s.now())
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := s.Upsert(ctx, rec); err != nil {
		return core.MonthlyRecord{}, err
	}
	return rec, nil
}

// Upsert stores rec as the record for its (year, month), replacing any existing
// one wholesale, and keeps the list sorted. Another record carrying the same id
// under a different month is dropped, so editing a record's month moves it.
// A move onto a month that already holds a different record replaces that
// record and logs a warning naming the overwritten id.
func (s *Store) Upsert(ctx context.Context, rec core.MonthlyRecord) error {
	if err := rec.Key().Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readInitialized(ctx)
	if err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = s.newID()
	}

	moving := slices.ContainsFunc(data.MonthlyData, func(r core.MonthlyRecord) bool {
		return r.ID == rec.ID && r.Key() != rec.Key()
	})

	replaced := false
	out := make([]core.MonthlyRecord, 0, len(data.MonthlyData)+1)
	for _, r := range data.MonthlyData {
		switch {
		case r.Key() == rec.Key():
			if moving && r.ID != rec.ID {
				slog.WarnContext(ctx, "Record move overwrote the record already stored for the target month",
					"id", rec.ID,
					"overwritten_id", r.ID,
					"month", rec.Key().String())
			}
			if !replaced {
				out = append(out, rec)
				replaced = true
			}
		case r.ID == rec.ID:
			slog.InfoContext(ctx, "Record moved to another month",
				"id", rec.ID, "from", r.Key().String(), "to", rec.Key().String())
		default:
			out = append(out, r)
		}
	}
	if !replaced {
		out = append(out, rec)
	}
	core.SortRecords(out)
	data.MonthlyData = out

	if err := s.repo.Write(ctx, data); err != nil {
		return fmt.Errorf("save record %s: %w", rec.Key(), err)
	}
	slog.InfoContext(ctx, "Record saved",
		"id", rec.ID,
		"year", rec.Year,
		"month", rec.Month,
		"replaced", replaced)
	return nil
}

// Delete removes the record with the given id. Unknown ids are a no-op and
// report false without writing.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read(ctx)
	if err != nil {
		return false, err
	}
	idx := slices.IndexFunc(data.MonthlyData, func(r core.MonthlyRecord) bool { return r.ID == id })
	if idx < 0 {
		return false, nil
	}
	removed := data.MonthlyData[idx]
	data.MonthlyData = slices.Delete(data.MonthlyData, idx, idx+1)

	if err := s.repo.Write(ctx, data); err != nil {
		return false, fmt.Errorf("delete record %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Record deleted", "id", id, "year", removed.Year, "month", removed.Month)
	return true, nil
}

// Clear wipes the ledger. The next read sees an uninitialized, empty aggregate.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	slog.WarnContext(ctx, "Ledger cleared")
	return nil
}

// AddGoal validates g, assigns its id and timestamps, and appends it.
func (s *Store) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("validate goal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readInitialized(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	now := core.At(s.now())
	if g.ID == "" || slices.ContainsFunc(data.Goals, func(x core.Goal) bool { return x.ID == g.ID }) {
		g.ID = s.newID()
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	data.Goals = append(data.Goals, g)

	if err := s.repo.Write(ctx, data); err != nil {
		return core.Goal{}, fmt.Errorf("add goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal added", "id", g.ID, "type", g.Type, "target", g.TargetAmount)
	return g, nil
}

// DeleteGoal removes a goal by id; unknown ids are a no-op.
func (s *Store) DeleteGoal(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read(ctx)
	if err != nil {
		return false, err
	}
	idx := slices.IndexFunc(data.Goals, func(g core.Goal) bool { return g.ID == id })
	if idx < 0 {
		return false, nil
	}
	data.Goals = slices.Delete(data.Goals, idx, idx+1)

	if err := s.repo.Write(ctx, data); err != nil {
		return false, fmt.Errorf("delete goal %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Goal deleted", "id", id)
	return true, nil
}

// UpdateGoalProgress sets the manually tracked amount of a goal.
func (s *Store) UpdateGoalProgress(ctx context.Context, id string, amount float64) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readInitialized(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	idx := slices.IndexFunc(data.Goals, func(g core.Goal) bool { return g.ID == id })
	if idx < 0 {
		return core.Goal{}, fmt.Errorf("%w: %s", ErrGoalNotFound, id)
	}

	g := data.Goals[idx]
	g.CurrentAmount = amount
	if err := g.Validate(); err != nil {
		return core.Goal{}, fmt.Errorf("validate goal: %w", err)
	}
	g.UpdatedAt = core.At(s.now())
	data.Goals[idx] = g

	if err := s.repo.Write(ctx, data); err != nil {
		return core.Goal{}, fmt.Errorf("update goal %s: %w", id, err)
	}
	return g, nil
}
