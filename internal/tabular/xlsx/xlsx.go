// Package xlsx reads and writes ledger tables as Excel workbooks.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"finledger/internal/tabular"

	"github.com/xuri/excelize/v2"
)

// SheetName is the sheet exports are written to. Imports read the first sheet whatever its name.
const SheetName = "Ledger"

var ErrEmpty = errors.New("workbook has no header row")

type Reader struct {
	src io.Reader
}

func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

func (r *Reader) ReadTable(_ context.Context) (tabular.Table, error) {
	f, err := excelize.OpenReader(r.src)
	if err != nil {
		return tabular.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return tabular.Table{}, ErrEmpty
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return tabular.Table{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return tabular.Table{}, ErrEmpty
	}
	return tabular.Table{Header: rows[0], Rows: tabular.StringRows(rows[1:])}, nil
}

type Writer struct {
	dst io.Writer
}

func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

func (w *Writer) WriteTable(_ context.Context, t tabular.Table) error {
	f, err := build(t)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w.dst); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileWriter saves the table as a workbook file, replacing any previous file.
type FileWriter struct {
	Path string
}

func (w FileWriter) WriteTable(_ context.Context, t tabular.Table) error {
	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	f, err := build(t)
	if err != nil {
		return err
	}
	defer f.Close()

	tmp, err := os.CreateTemp(filepath.Dir(w.Path), filepath.Base(w.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.Path); err != nil {
		return fmt.Errorf("replace %s: %w", w.Path, err)
	}
	return nil
}

func build(t tabular.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := t.Header
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		r := row
		if err := f.SetSheetRow(SheetName, cell, &r); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}
