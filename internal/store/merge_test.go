package store

import (
	"context"
	"testing"

	"finledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string, year, month int, salary float64) core.MonthlyRecord {
	return core.MonthlyRecord{ID: id, Year: year, Month: month, Salary: salary}
}

func TestMergeReplacesAndAppends(t *testing.T) {
	existing := []core.MonthlyRecord{rec("a", 2025, 1, 1), rec("b", 2025, 3, 3)}
	incoming := []core.MonthlyRecord{rec("x", 2025, 3, 30), rec("y", 2025, 2, 20)}

	out, res := Merge(existing, incoming)

	assert.Equal(t, MergeResult{Inserted: 1, Replaced: 1}, res)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"a", "y", "x"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Equal(t, "b", existing[1].ID, "existing slice must not change")
}

func TestMergeLaterDuplicateWins(t *testing.T) {
	existing := []core.MonthlyRecord{rec("a", 2025, 1, 1)}
	incoming := []core.MonthlyRecord{
		rec("x1", 2025, 1, 10), rec("x2", 2025, 1, 11),
		rec("n1", 2025, 5, 50), rec("n2", 2025, 5, 51),
	}

	out, res := Merge(existing, incoming)

	assert.Equal(t, MergeResult{Inserted: 1, Replaced: 1}, res)
	require.Len(t, out, 2)
	assert.Equal(t, "x2", out[0].ID)
	assert.Equal(t, "n2", out[1].ID)
}

func TestMergeIsIdempotentOnKeys(t *testing.T) {
	existing := []core.MonthlyRecord{rec("a", 2024, 12, 1)}
	batch := []core.MonthlyRecord{rec("b", 2025, 1, 2), rec("c", 2024, 12, 3)}

	once, _ := Merge(existing, batch)
	twice, res := Merge(once, batch)

	assert.Equal(t, once, twice)
	assert.Equal(t, MergeResult{Inserted: 0, Replaced: 2}, res)
}

func TestMergeImported(t *testing.T) {
	s, _ := initialized(t)
	ctx := context.Background()

	kept, err := s.Save(ctx, balanced(2025, 1, 10))
	require.NoError(t, err)
	_, err = s.Save(ctx, balanced(2025, 2, 10))
	require.NoError(t, err)

	imported := core.MonthlyRecord{
		ID: "from-file", Year: 2025, Month: 2, Salary: 999,
		TotalIncome: 999, NetSavings: 999,
		OtherIncomes: []core.LineItem{{Name: "bonus", Amount: 1}},
	}
	res, err := s.MergeImported(ctx, []core.MonthlyRecord{imported, rec("", 2025, 4, 4)})
	require.NoError(t, err)
	assert.Equal(t, MergeResult{Inserted: 1, Replaced: 1}, res)

	data, _ := s.Snapshot(ctx)
	require.Len(t, data.MonthlyData, 3)
	assert.Equal(t, kept.ID, data.MonthlyData[0].ID)

	feb := data.MonthlyData[1]
	assert.NotEqual(t, "from-file", feb.ID)
	assert.Equal(t, 999.0, feb.TotalIncome)
	assert.Empty(t, feb.OtherIncomes)
	assert.True(t, feb.CreatedAt.Equal(fixedNow))

	ids := map[string]bool{}
	for _, r := range data.MonthlyData {
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
	}
}

func TestMergeImportedAbortsOnInvalidRecord(t *testing.T) {
	s, _ := initialized(t)
	ctx := context.Background()
	before, _ := s.Snapshot(ctx)

	_, err := s.MergeImported(ctx, []core.MonthlyRecord{rec("", 2025, 1, 1), rec("", 2025, 1, -5)})
	assert.ErrorIs(t, err, core.ErrNegativeAmount)

	after, _ := s.Snapshot(ctx)
	assert.Equal(t, before, after)
}
