package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/agencecomx/sourcing-backend/pkg/kv"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
)

// Manager hands out one quote Store per owner, loading persisted lines on
// first access. A corrupt or missing blob degrades to an empty quote.
type Manager struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*Store
	blobs  kv.Store
	logg   *logger.Logger
}

// NewManager wires the quote manager over the durable KV store.
func NewManager(blobs kv.Store, logg *logger.Logger) (*Manager, error) {
	if blobs == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Manager{
		stores: make(map[uuid.UUID]*Store),
		blobs:  blobs,
		logg:   logg,
	}, nil
}

// StoreFor returns the owner's quote store, hydrating it from the KV blob
// the first time the owner is seen.
func (m *Manager) StoreFor(ctx context.Context, owner uuid.UUID) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[owner]; ok {
		return store
	}

	store := newStore(owner, m.blobs, m.load(ctx, owner))
	m.stores[owner] = store
	return store
}

func (m *Manager) load(ctx context.Context, owner uuid.UUID) []QuoteItem {
	blob, err := m.blobs.Get(ctx, QuoteKey(owner))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			m.logg.Error(m.logg.WithUserID(ctx, owner.String()), "loading quote blob", err)
		}
		return nil
	}

	var stored storedQuote
	if err := json.Unmarshal(blob, &stored); err != nil {
		m.logg.Warn(m.logg.WithUserID(ctx, owner.String()), "corrupt quote blob, starting empty")
		return nil
	}
	return stored.Items
}
