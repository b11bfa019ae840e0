package save

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by a backend when a write would exceed its
// storage quota. The previous value for the key is left untouched.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend is a synchronous string key-value store, shaped after browser
// localStorage. Implementations must be safe for concurrent use.
type Backend interface {
	// GetItem returns the value stored under key and whether it exists.
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem stores value under key, replacing any previous value
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error

	// Keys returns every key in the backend, in no particular order
	Keys(ctx context.Context) ([]string, error)

	// Close releases the backend
	Close() error
}
