package memory

import (
	"context"
	"errors"
	"testing"

	"finledger/internal/persistence"
)

func TestMemoryStoreGetPutDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	buf := []byte("hello")
	if err := s.Put(ctx, "k", buf); err != nil {
		t.Fatalf("put: %v", err)
	}
	buf[0] = 'j'

	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "hello" {
		t.Fatalf("stored value should be copied: got %q err=%v", got, err)
	}
	got[0] = 'y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "hello" {
		t.Fatalf("returned value should be copied: %q", again)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
