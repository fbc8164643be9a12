package tabular

import "context"

// Reader yields a table from an import source.
type Reader interface {
	ReadTable(ctx context.Context) (Table, error)
}

// Writer persists a table to an export target.
type Writer interface {
	WriteTable(ctx context.Context, t Table) error
}
