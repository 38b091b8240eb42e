package favorites

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/kv"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
)

func newTestManager(t *testing.T, blobs kv.Store) *Manager {
	t.Helper()
	logg := logger.New(logger.Options{
		ServiceName: "favorites-test",
		Level:       zerolog.ErrorLevel,
		Output:      &bytes.Buffer{},
	})
	manager, err := NewManager(blobs, logg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func TestDoubleToggleRestoresOriginalSet(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t, kv.NewMemoryStore()).StoreFor(ctx, uuid.New())

	kept := uuid.New()
	if err := store.Add(ctx, kept); err != nil {
		t.Fatalf("add: %v", err)
	}

	flipped := uuid.New()
	on, err := store.Toggle(ctx, flipped)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !on {
		t.Fatal("first toggle must mark the product")
	}
	on, err = store.Toggle(ctx, flipped)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if on {
		t.Fatal("second toggle must unmark the product")
	}

	ids := store.List()
	if len(ids) != 1 || ids[0] != kept {
		t.Fatalf("double toggle must restore the original set, got %v", ids)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t, kv.NewMemoryStore()).StoreFor(ctx, uuid.New())

	id := uuid.New()
	if err := store.Add(ctx, id); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Add(ctx, id); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if got := len(store.List()); got != 1 {
		t.Fatalf("expected 1 favorite, got %d", got)
	}

	err := store.Add(ctx, uuid.Nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for nil id, got %v", err)
	}
}

func TestRemoveAbsentProductIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t, kv.NewMemoryStore()).StoreFor(ctx, uuid.New())

	id := uuid.New()
	if err := store.Add(ctx, id); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Remove(ctx, uuid.New()); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if !store.Contains(id) {
		t.Fatal("remove of absent product must leave favorites unchanged")
	}
}

func TestFavoritesPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	owner := uuid.New()

	store := newTestManager(t, blobs).StoreFor(ctx, owner)
	first, second := uuid.New(), uuid.New()
	if err := store.Add(ctx, first); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := store.Add(ctx, second); err != nil {
		t.Fatalf("add second: %v", err)
	}

	// A fresh manager simulates a process restart over the same KV data.
	reloaded := newTestManager(t, blobs).StoreFor(ctx, owner)
	ids := reloaded.List()
	if len(ids) != 2 || ids[0] != first || ids[1] != second {
		t.Fatalf("expected insertion order preserved, got %v", ids)
	}
}

func TestCorruptBlobDegradesToEmptySet(t *testing.T) {
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	owner := uuid.New()

	if err := blobs.Set(ctx, FavoritesKey(owner), []byte("[not json")); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	store := newTestManager(t, blobs).StoreFor(ctx, owner)
	if len(store.List()) != 0 {
		t.Fatal("expected empty set for corrupt blob")
	}
	if err := store.Add(ctx, uuid.New()); err != nil {
		t.Fatalf("add after corrupt load: %v", err)
	}
}

func TestClearPersistsEmptySet(t *testing.T) {
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	owner := uuid.New()
	store := newTestManager(t, blobs).StoreFor(ctx, owner)

	if err := store.Add(ctx, uuid.New()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	reloaded := newTestManager(t, blobs).StoreFor(ctx, owner)
	if len(reloaded.List()) != 0 {
		t.Fatal("clear must persist the empty set")
	}
}
