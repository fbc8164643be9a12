package store

import (
	"context"
	"fmt"
	"log/slog"

	"finledger/internal/core"
)

// MergeResult counts the distinct months an import touched.
type MergeResult struct {
	Inserted int `json:"inserted"`
	Replaced int `json:"replaced"`
}

// Merge folds incoming records into existing by (year, month). A matching
// month is replaced wholesale, anything else is appended, and a later record
// in incoming wins over an earlier one for the same month. The result is sorted.
// Neither input is modified.
func Merge(existing, incoming []core.MonthlyRecord) ([]core.MonthlyRecord, MergeResult) {
	out := make([]core.MonthlyRecord, len(existing), len(existing)+len(incoming))
	copy(out, existing)

	pos := make(map[core.MonthKey]int, len(out))
	for i, r := range out {
		pos[r.Key()] = i
	}
	fromExisting := make(map[core.MonthKey]bool, len(out))
	for k := range pos {
		fromExisting[k] = true
	}

	var res MergeResult
	for _, r := range incoming {
		k := r.Key()
		if i, ok := pos[k]; ok {
			out[i] = r
			if fromExisting[k] {
				res.Replaced++
				fromExisting[k] = false
			}
			continue
		}
		pos[k] = len(out)
		out = append(out, r)
		res.Inserted++
	}
	core.SortRecords(out)
	return out, res
}

// MergeImported stamps each imported record as new (fresh id and timestamps,
// empty item lists) and merges the batch into the ledger with a single write.
// If any record is invalid nothing is written.
func (s *Store) MergeImported(ctx context.Context, batch []core.MonthlyRecord) (MergeResult, error) {
	now := core.At(s.now())
	stamped := make([]core.MonthlyRecord, 0, len(batch))
	for i, r := range batch {
		r.OtherIncomes = []core.LineItem{}
		r.OtherExpenses = []core.LineItem{}
		if err := r.Validate(); err != nil {
			return MergeResult{}, fmt.Errorf("imported record %d (%s): %w", i+1, r.Key(), err)
		}
		r.ID = s.newID()
		r.CreatedAt = now
		r.UpdatedAt = now
		stamped = append(stamped, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readInitialized(ctx)
	if err != nil {
		return MergeResult{}, err
	}
	merged, res := Merge(data.MonthlyData, stamped)
	data.MonthlyData = merged

	if err := s.repo.Write(ctx, data); err != nil {
		return MergeResult{}, fmt.Errorf("merge imported records: %w", err)
	}
	slog.InfoContext(ctx, "Imported records merged",
		"batch", len(batch),
		"inserted", res.Inserted,
		"replaced", res.Replaced)
	return res, nil
}
