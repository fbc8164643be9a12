package csvtable

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"finledger/internal/core"
	"finledger/internal/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenRead(t *testing.T) {
	records := []core.MonthlyRecord{{
		Year: 2025, Month: 2, Salary: 4000.5, TotalIncome: 4000.5,
		OtherExpenses: []core.LineItem{{Name: "rent, flat", Amount: 1200}},
	}}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteTable(context.Background(), tabular.Encode(records, nil)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Year,Month,Salary,"))
	assert.Contains(t, lines[1], `"rent, flat:1200"`)

	table, err := NewReader(&buf).ReadTable(context.Background())
	require.NoError(t, err)
	decoded, err := tabular.Decode(table)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, 4000.5, decoded[0].Salary)
}

func TestReadStripsBOM(t *testing.T) {
	src := strings.NewReader("\ufeffYear,Month,Salary\n2025,1,10\n")
	table, err := NewReader(src).ReadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Year", table.Header[0])
}

func TestReadEmpty(t *testing.T) {
	_, err := NewReader(strings.NewReader("")).ReadTable(context.Background())
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), tabular.FileName(nil, "csv"))
	require.NoError(t, WriteFile(context.Background(), path, tabular.Table{Header: tabular.Columns}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "Year,Month"))
}
