package persistence

import (
	"context"
	"errors"
)

// StorageKey is the single key the ledger aggregate is stored under.
const StorageKey = "accounting_data"

var (
	ErrNotFound  = errors.New("key not found")
	ErrCorrupted = errors.New("stored data is corrupted")
)

// BlobStore is a key/value store of opaque byte values.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
