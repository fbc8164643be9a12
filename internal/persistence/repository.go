package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"finledger/internal/core"
)

// Repository reads and writes the whole AppData aggregate as one JSON blob.
type Repository struct {
	blobs BlobStore
	key   string
}

func NewRepository(blobs BlobStore) *Repository {
	return &Repository{blobs: blobs, key: StorageKey}
}

// Read returns the stored aggregate. A missing blob yields the empty aggregate
// and no error. A blob that fails to decode yields the empty aggregate together
// with ErrCorrupted so callers can recover while still seeing the signal.
func (r *Repository) Read(ctx context.Context) (core.AppData, error) {
	raw, err := r.blobs.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return core.EmptyAppData(), nil
	}
	if err != nil {
		return core.EmptyAppData(), fmt.Errorf("read %s: %w", r.key, err)
	}

	var data core.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.WarnContext(ctx, "Stored ledger data could not be decoded",
			"key", r.key,
			"bytes", len(raw),
			"error", err)
		return core.EmptyAppData(), fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return data.Normalize(), nil
}

// Write replaces the stored aggregate.
func (r *Repository) Write(ctx context.Context, data core.AppData) error {
	raw, err := json.Marshal(data.Normalize())
	if err != nil {
		return fmt.Errorf("encode ledger data: %w", err)
	}
	if err := r.blobs.Put(ctx, r.key, raw); err != nil {
		return fmt.Errorf("write %s: %w", r.key, err)
	}
	return nil
}

// Clear removes the stored aggregate. Clearing an empty store is not an error.
func (r *Repository) Clear(ctx context.Context) error {
	err := r.blobs.Delete(ctx, r.key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clear %s: %w", r.key, err)
	}
	return nil
}
