package persistence_test

import (
	"context"
	"errors"
	"testing"

	"finledger/internal/core"
	"finledger/internal/persistence"
	"finledger/internal/persistence/memory"
)

type failingBlobs struct{ err error }

func (f failingBlobs) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingBlobs) Put(context.Context, string, []byte) error   { return f.err }
func (f failingBlobs) Delete(context.Context, string) error        { return f.err }

func TestRepositoryReadEmpty(t *testing.T) {
	repo := persistence.NewRepository(memory.New())
	data, err := repo.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if data.IsInitialized || data.InitialAssets != nil || len(data.MonthlyData) != 0 || data.Goals == nil {
		t.Fatalf("expected empty aggregate, got %+v", data)
	}
}

func TestRepositoryWriteReadClear(t *testing.T) {
	blobs := memory.New()
	repo := persistence.NewRepository(blobs)
	ctx := context.Background()

	in := core.AppData{
		IsInitialized: true,
		InitialAssets: &core.InitialAssets{Deposit: 1000},
		MonthlyData:   []core.MonthlyRecord{{ID: "r1", Year: 2025, Month: 1, Salary: 10}},
	}
	if err := repo.Write(ctx, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := blobs.Get(ctx, persistence.StorageKey); err != nil {
		t.Fatalf("blob should be stored under %s: %v", persistence.StorageKey, err)
	}

	out, err := repo.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !out.IsInitialized || out.InitialAssets.Deposit != 1000 || out.MonthlyData[0].ID != "r1" {
		t.Fatalf("unexpected data %+v", out)
	}
	if out.MonthlyData[0].OtherIncomes == nil || out.Goals == nil {
		t.Fatalf("collections should be normalized")
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear twice: %v", err)
	}
	out, _ = repo.Read(ctx)
	if out.IsInitialized {
		t.Fatalf("expected empty aggregate after clear")
	}
}

func TestRepositoryReadCorrupted(t *testing.T) {
	blobs := memory.New()
	_ = blobs.Put(context.Background(), persistence.StorageKey, []byte("{not json"))
	repo := persistence.NewRepository(blobs)

	data, err := repo.Read(context.Background())
	if !errors.Is(err, persistence.ErrCorrupted) {
		t.Fatalf("expected ErrCorrupted, got %v", err)
	}
	if data.IsInitialized || data.MonthlyData == nil {
		t.Fatalf("expected usable empty aggregate, got %+v", data)
	}
}

func TestRepositoryPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk full")
	repo := persistence.NewRepository(failingBlobs{err: boom})
	ctx := context.Background()

	if _, err := repo.Read(ctx); !errors.Is(err, boom) {
		t.Fatalf("read should surface store error, got %v", err)
	}
	if err := repo.Write(ctx, core.EmptyAppData()); !errors.Is(err, boom) {
		t.Fatalf("write should surface store error, got %v", err)
	}
	if err := repo.Clear(ctx); !errors.Is(err, boom) {
		t.Fatalf("clear should surface store error, got %v", err)
	}
}
