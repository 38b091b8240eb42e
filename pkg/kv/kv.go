// Package kv exposes a small blob store used to persist per-user state,
// such as quote contents and favorite lists, across sessions.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no value exists for a key.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence surface quote and favorites state is written
// through. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
