// Package csvtable reads and writes ledger tables as CSV.
package csvtable

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"finledger/internal/tabular"
)

var ErrEmpty = errors.New("csv has no header row")

type Reader struct {
	src io.Reader
}

func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

func (r *Reader) ReadTable(_ context.Context) (tabular.Table, error) {
	cr := csv.NewReader(r.src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return tabular.Table{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return tabular.Table{}, ErrEmpty
	}
	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return tabular.Table{Header: header, Rows: tabular.StringRows(rows[1:])}, nil
}

type Writer struct {
	dst io.Writer
}

func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

func (w *Writer) WriteTable(_ context.Context, t tabular.Table) error {
	cw := csv.NewWriter(w.dst)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = tabular.CellString(c)
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to a CSV file at path.
func WriteFile(ctx context.Context, path string, t tabular.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := NewWriter(f).WriteTable(ctx, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
