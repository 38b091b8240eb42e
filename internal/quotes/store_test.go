package quotes

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/kv"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
)

func newTestManager(t *testing.T, blobs kv.Store) *Manager {
	t.Helper()
	logg := logger.New(logger.Options{
		ServiceName: "quotes-test",
		Level:       zerolog.ErrorLevel,
		Output:      &bytes.Buffer{},
	})
	manager, err := NewManager(blobs, logg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func simpleSnapshot(price string) ProductSnapshot {
	return ProductSnapshot{
		ProductID:  uuid.New(),
		SupplierID: uuid.New(),
		Name:       "Cotton Tote",
		Category:   "textiles",
		UnitPrice:  decimal.RequireFromString(price),
		Currency:   "EUR",
		MOQ:        1,
		Stock:      1000,
	}
}

func TestAddOrUpdateKeepsSingleLinePerProduct(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t, kv.NewMemoryStore()).StoreFor(ctx, uuid.New())

	snapshot := simpleSnapshot("3")
	if err := store.AddOrUpdate(ctx, snapshot, 10, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddOrUpdate(ctx, snapshot, 5, nil); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("expected a single line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected last quantity 5, got %d", items[0].Quantity)
	}
	if store.TotalItemCount() != 5 {
		t.Fatalf("expected total count 5, got %d", store.TotalItemCount())
	}
}

func TestAddOrUpdateRefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t, kv.NewMemoryStore()).StoreFor(ctx, uuid.New())

	snapshot := simpleSnapshot("3")
	if err := store.AddOrUpdate(ctx, snapshot, 1, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	snapshot.UnitPrice = decimal.RequireFromString("4")
	if err := store.AddOrUpdate(ctx, snapshot, 1, nil); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	items := store.Items()
	if !items[0].Snapshot.UnitPrice.Equal(decimal.RequireFromString("4")) {
		t.Fatalf("expected refreshed snapshot price, got %s", items[0].Snapshot.UnitPrice)
	}
}

func TestRemoveAbsentProductIsNoOp(t *testing.T) {
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	store := newTestManager(t, blobs).StoreFor(ctx, uuid.New())

	if err := store.AddOrUpdate(ctx, simpleSnapshot("2"), 3, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	before := store.Items()

	if err := store.Remove(ctx, uuid.New()); err != nil {
		t.Fatalf("remove absent: %v", err)
	}

	after := store.Items()
	if len(after) != len(before) || after[0].Quantity != before[0].Quantity {
		t.Fatal("remove of absent product must leave quote unchanged")
	}
}

func TestSetQuantityAndQuantityOf(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t, kv.NewMemoryStore()).StoreFor(ctx, uuid.New())

	snapshot := simpleSnapshot("2")
	if err := store.AddOrUpdate(ctx, snapshot, 3, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := store.SetQuantity(ctx, snapshot.ProductID, 12); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if got := store.QuantityOf(snapshot.ProductID); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	if got := store.QuantityOf(uuid.New()); got != 0 {
		t.Fatalf("expected 0 for absent product, got %d", got)
	}

	if err := store.SetQuantity(ctx, uuid.New(), 5); err != nil {
		t.Fatalf("set quantity on absent product must be a no-op, got %v", err)
	}
	if got := store.QuantityOf(snapshot.ProductID); got != 12 {
		t.Fatalf("absent-id set must leave existing lines untouched, got %d", got)
	}
	err := store.SetQuantity(ctx, snapshot.ProductID, 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetVariantSelectionsValidatesAgainstSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t, kv.NewMemoryStore()).StoreFor(ctx, uuid.New())

	snapshot := simpleSnapshot("2")
	snapshot.Variants = []VariantOption{
		{GroupName: "Color", Name: "Red"},
		{GroupName: "Color", Name: "Blue"},
	}
	if err := store.AddOrUpdate(ctx, snapshot, 1, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := store.SetVariantSelections(ctx, snapshot.ProductID, map[string]string{"Color": "Blue"}); err != nil {
		t.Fatalf("set selections: %v", err)
	}

	err := store.SetVariantSelections(ctx, snapshot.ProductID, map[string]string{"Color": "Green"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown option, got %v", err)
	}
	err = store.SetVariantSelections(ctx, snapshot.ProductID, map[string]string{"Material": "Steel"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown group, got %v", err)
	}

	if err := store.SetVariantSelections(ctx, uuid.New(), map[string]string{"Color": "Red"}); err != nil {
		t.Fatalf("selections on absent product must be a no-op, got %v", err)
	}
}

func TestLineMutationsRefreshAddedAt(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t, kv.NewMemoryStore()).StoreFor(ctx, uuid.New())

	clock := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	snapshot := simpleSnapshot("2")
	snapshot.Variants = []VariantOption{{GroupName: "Size", Name: "L"}}
	if err := store.AddOrUpdate(ctx, snapshot, 3, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	first := store.Items()[0].AddedAt

	clock = clock.Add(time.Minute)
	if err := store.SetQuantity(ctx, snapshot.ProductID, 8); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	second := store.Items()[0].AddedAt
	if !second.After(first) {
		t.Fatalf("set quantity must refresh timestamp, got %s then %s", first, second)
	}

	clock = clock.Add(time.Minute)
	if err := store.SetVariantSelections(ctx, snapshot.ProductID, map[string]string{"Size": "L"}); err != nil {
		t.Fatalf("set selections: %v", err)
	}
	third := store.Items()[0].AddedAt
	if !third.After(second) {
		t.Fatalf("set selections must refresh timestamp, got %s then %s", second, third)
	}

	clock = clock.Add(time.Minute)
	if err := store.AddOrUpdate(ctx, snapshot, 2, nil); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	fourth := store.Items()[0].AddedAt
	if !fourth.After(third) {
		t.Fatalf("re-add must refresh timestamp, got %s then %s", third, fourth)
	}
}

func TestTotalPriceConvertsToBaseCurrency(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t, kv.NewMemoryStore()).StoreFor(ctx, uuid.New())

	eur := simpleSnapshot("10")
	if err := store.AddOrUpdate(ctx, eur, 2, nil); err != nil {
		t.Fatalf("add eur: %v", err)
	}

	usd := simpleSnapshot("10.90")
	usd.Currency = "USD"
	if err := store.AddOrUpdate(ctx, usd, 1, nil); err != nil {
		t.Fatalf("add usd: %v", err)
	}

	total, err := store.TotalPrice()
	if err != nil {
		t.Fatalf("total price: %v", err)
	}
	// 20 EUR plus 10.90 USD at 1.09 per EUR.
	expected := decimal.RequireFromString("30")
	if total.Sub(expected).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
		t.Fatalf("expected roughly 30 EUR, got %s", total)
	}
}

func TestQuotePersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	owner := uuid.New()

	store := newTestManager(t, blobs).StoreFor(ctx, owner)
	snapshot := simpleSnapshot("5")
	snapshot.Variants = []VariantOption{{GroupName: "Size", Name: "M"}}
	if err := store.AddOrUpdate(ctx, snapshot, 7, map[string]string{"Size": "M"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A fresh manager simulates a process restart over the same KV data.
	reloaded := newTestManager(t, blobs).StoreFor(ctx, owner)
	items := reloaded.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line after reload, got %d", len(items))
	}
	if items[0].Snapshot.ProductID != snapshot.ProductID {
		t.Fatal("product id not preserved")
	}
	if items[0].Quantity != 7 {
		t.Fatalf("quantity not preserved, got %d", items[0].Quantity)
	}
	if items[0].VariantSelections["Size"] != "M" {
		t.Fatal("variant selections not preserved")
	}
	if items[0].AddedAt.IsZero() {
		t.Fatal("added_at not preserved")
	}
}

func TestCorruptBlobDegradesToEmptyStore(t *testing.T) {
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	owner := uuid.New()

	if err := blobs.Set(ctx, QuoteKey(owner), []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	store := newTestManager(t, blobs).StoreFor(ctx, owner)
	if len(store.Items()) != 0 {
		t.Fatal("expected empty store for corrupt blob")
	}

	// The store stays usable and overwrites the bad blob.
	if err := store.AddOrUpdate(ctx, simpleSnapshot("1"), 1, nil); err != nil {
		t.Fatalf("add after corrupt load: %v", err)
	}
}

func TestClearEmptiesQuote(t *testing.T) {
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	owner := uuid.New()
	store := newTestManager(t, blobs).StoreFor(ctx, owner)

	if err := store.AddOrUpdate(ctx, simpleSnapshot("1"), 1, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.TotalItemCount() != 0 {
		t.Fatal("expected empty quote after clear")
	}

	reloaded := newTestManager(t, blobs).StoreFor(ctx, owner)
	if len(reloaded.Items()) != 0 {
		t.Fatal("clear must persist the empty collection")
	}
}
