package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agencecomx/sourcing-backend/pkg/currency"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/kv"
)

// QuoteKey builds the KV key holding one owner's quote lines.
func QuoteKey(owner uuid.UUID) string {
	return fmt.Sprintf("quote_items:%s", owner)
}

// Store holds one owner's quote lines. All mutations run under the store
// mutex and persist the full line collection before returning, so the KV
// blob never lags the in-memory state.
type Store struct {
	mu    sync.Mutex
	owner uuid.UUID
	items []QuoteItem
	blobs kv.Store
	now   func() time.Time
}

func newStore(owner uuid.UUID, blobs kv.Store, items []QuoteItem) *Store {
	return &Store{
		owner: owner,
		items: items,
		blobs: blobs,
		now:   time.Now,
	}
}

// AddOrUpdate inserts a line for the product or replaces the existing one in
// place: quantity, snapshot, selections, and timestamp all take the latest
// call's values, so a quote never holds two lines for one product.
func (s *Store) AddOrUpdate(ctx context.Context, snapshot ProductSnapshot, quantity int, selections map[string]string) error {
	if snapshot.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if err := validateSelections(snapshot, selections); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Snapshot.ProductID == snapshot.ProductID {
			s.items[i].Snapshot = snapshot
			s.items[i].Quantity = quantity
			if selections != nil {
				s.items[i].VariantSelections = copySelections(selections)
			}
			s.items[i].AddedAt = s.now().UTC()
			return s.persistLocked(ctx)
		}
	}

	s.items = append(s.items, QuoteItem{
		Snapshot:          snapshot,
		Quantity:          quantity,
		VariantSelections: copySelections(selections),
		AddedAt:           s.now().UTC(),
	})
	return s.persistLocked(ctx)
}

// Remove deletes the product's line. Removing an absent product is a no-op.
func (s *Store) Remove(ctx context.Context, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Snapshot.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// SetQuantity overwrites the quantity of an existing line and refreshes its
// timestamp. Setting the quantity of an absent product is a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Snapshot.ProductID == productID {
			s.items[i].Quantity = quantity
			s.items[i].AddedAt = s.now().UTC()
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// SetVariantSelections overwrites the line's variant choices and refreshes
// its timestamp. Selecting on an absent product is a no-op.
func (s *Store) SetVariantSelections(ctx context.Context, productID uuid.UUID, selections map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Snapshot.ProductID == productID {
			if err := validateSelections(s.items[i].Snapshot, selections); err != nil {
				return err
			}
			s.items[i].VariantSelections = copySelections(selections)
			s.items[i].AddedAt = s.now().UTC()
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// QuantityOf reports the line quantity, zero when the product is absent.
func (s *Store) QuantityOf(productID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Snapshot.ProductID == productID {
			return s.items[i].Quantity
		}
	}
	return 0
}

// Contains reports whether the product has a line in the quote.
func (s *Store) Contains(productID uuid.UUID) bool {
	return s.QuantityOf(productID) > 0
}

// TotalItemCount sums the quantities across all lines.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for i := range s.items {
		total += s.items[i].Quantity
	}
	return total
}

// TotalPrice sums all line totals expressed in the base currency at full
// precision. Display rounding is the caller's concern.
func (s *Store) TotalPrice() (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for i := range s.items {
		line := LineTotal(s.items[i])
		converted, err := currency.Convert(line, s.items[i].Snapshot.Currency, currency.BaseCurrency)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(converted)
	}
	return total, nil
}

// Items returns a copy of the quote lines in insertion order.
func (s *Store) Items() []QuoteItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]QuoteItem, len(s.items))
	copy(out, s.items)
	for i := range out {
		out[i].VariantSelections = copySelections(out[i].VariantSelections)
	}
	return out
}

// Clear drops every line.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return nil
	}
	s.items = nil
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	blob, err := json.Marshal(storedQuote{Items: s.items})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding quote")
	}
	if err := s.blobs.Set(ctx, QuoteKey(s.owner), blob); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting quote")
	}
	return nil
}

func validateSelections(snapshot ProductSnapshot, selections map[string]string) error {
	if len(selections) == 0 {
		return nil
	}
	options := make(map[string]map[string]struct{})
	for _, option := range snapshot.Variants {
		group, ok := options[option.GroupName]
		if !ok {
			group = make(map[string]struct{})
			options[option.GroupName] = group
		}
		group[option.Name] = struct{}{}
	}
	for group, choice := range selections {
		names, ok := options[group]
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown variant group").WithDetails(map[string]string{"group": group})
		}
		if _, ok := names[choice]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown variant option").WithDetails(map[string]string{"group": group, "option": choice})
		}
	}
	return nil
}

func copySelections(selections map[string]string) map[string]string {
	if selections == nil {
		return nil
	}
	out := make(map[string]string, len(selections))
	for k, v := range selections {
		out[k] = v
	}
	return out
}
