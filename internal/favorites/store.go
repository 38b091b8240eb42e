package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/kv"
)

// FavoritesKey builds the KV key holding one owner's favorite product ids.
func FavoritesKey(owner uuid.UUID) string {
	return fmt.Sprintf("favorite_ids:%s", owner)
}

// Store holds one owner's favorite product ids. Mutations run under the
// mutex and persist the full id list before returning.
type Store struct {
	mu    sync.Mutex
	owner uuid.UUID
	ids   []uuid.UUID
	blobs kv.Store
}

func newStore(owner uuid.UUID, blobs kv.Store, ids []uuid.UUID) *Store {
	return &Store{
		owner: owner,
		ids:   ids,
		blobs: blobs,
	}
}

// Add marks the product as a favorite. Adding twice is a no-op.
func (s *Store) Add(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(productID) >= 0 {
		return nil
	}
	s.ids = append(s.ids, productID)
	return s.persistLocked(ctx)
}

// Remove unmarks the product. Removing an absent product is a no-op.
func (s *Store) Remove(ctx context.Context, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(productID)
	if idx < 0 {
		return nil
	}
	s.ids = append(s.ids[:idx], s.ids[idx+1:]...)
	return s.persistLocked(ctx)
}

// Toggle flips the product's favorite state and reports the new state.
func (s *Store) Toggle(ctx context.Context, productID uuid.UUID) (bool, error) {
	if productID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexLocked(productID); idx >= 0 {
		s.ids = append(s.ids[:idx], s.ids[idx+1:]...)
		return false, s.persistLocked(ctx)
	}
	s.ids = append(s.ids, productID)
	return true, s.persistLocked(ctx)
}

// Contains reports whether the product is a favorite.
func (s *Store) Contains(productID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(productID) >= 0
}

// List returns the favorite ids in insertion order.
func (s *Store) List() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]uuid.UUID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Clear drops every favorite.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ids) == 0 {
		return nil
	}
	s.ids = nil
	return s.persistLocked(ctx)
}

func (s *Store) indexLocked(productID uuid.UUID) int {
	for i, id := range s.ids {
		if id == productID {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked(ctx context.Context) error {
	ids := s.ids
	if ids == nil {
		ids = []uuid.UUID{}
	}
	blob, err := json.Marshal(ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding favorites")
	}
	if err := s.blobs.Set(ctx, FavoritesKey(s.owner), blob); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting favorites")
	}
	return nil
}
