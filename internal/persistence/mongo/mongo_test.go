package mongo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finledger/internal/persistence"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func blobNamespace(mt *mtest.T) string {
	return mt.DB.Name() + "." + mt.Coll.Name()
}

func TestMongoStoreGet(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		s := NewStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(
			0,
			blobNamespace(mt),
			mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: persistence.StorageKey},
				{Key: "value", Value: primitive.Binary{Data: []byte(`{"isInitialized":true}`)}},
				{Key: "updated_at", Value: time.Now().UTC()},
			},
		))

		got, err := s.Get(context.Background(), persistence.StorageKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != `{"isInitialized":true}` {
			t.Fatalf("unexpected value %q", got)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		s := NewStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, blobNamespace(mt), mtest.FirstBatch))

		if _, err := s.Get(context.Background(), "absent"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("command error", func(mt *mtest.T) {
		s := NewStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "mock find failure",
		}))

		_, err := s.Get(context.Background(), "k")
		if err == nil || errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected driver error, got %v", err)
		}
		if !strings.Contains(err.Error(), "failed to get blob") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestMongoStorePut(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert", func(mt *mtest.T) {
		s := NewStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		if err := s.Put(context.Background(), "k", []byte("v")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	})

	mt.Run("write error", func(mt *mtest.T) {
		s := NewStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    123,
			Name:    "WriteError",
			Message: "mock write failure",
		}))

		err := s.Put(context.Background(), "k", []byte("v"))
		if err == nil || !strings.Contains(err.Error(), "failed to save blob") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestMongoStoreDelete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		s := NewStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := s.Delete(context.Background(), "k"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	})
}

func TestConnectValidatesConfig(t *testing.T) {
	if _, err := Connect(Config{Database: "x"}); err == nil {
		t.Fatalf("expected error for empty URI")
	}
	if _, err := Connect(Config{URI: "mongodb://localhost:27017"}); err == nil {
		t.Fatalf("expected error for empty database")
	}
}
