package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by GetItem when nothing is stored under the key
var ErrKeyNotFound = errors.New("key not found")

// Fixed keys of the persisted state layout
const (
	UsersKey   = "cyberstore_users"
	GamesKey   = "cyberstore_games"
	SessionKey = "cyber_current_user"
)

// Storage is a flat key/value store holding opaque serialized blobs.
// Implementations must be safe for concurrent use.
type Storage interface {
	// GetItem returns the value stored under key, or ErrKeyNotFound
	GetItem(ctx context.Context, key string) ([]byte, error)
	// SetItem replaces the value stored under key
	SetItem(ctx context.Context, key string, value []byte) error
	// RemoveItem deletes key; removing a missing key is not an error
	RemoveItem(ctx context.Context, key string) error
}
