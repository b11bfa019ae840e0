package save

import (
	"context"
	"sync"
)

// DefaultQuotaBytes approximates the per-origin localStorage limit.
const DefaultQuotaBytes = 5 << 20

// MemoryBackend keeps items in a map. It is the backend used by tests and
// by the "memory" configuration.
type MemoryBackend struct {
	quota int
	used  int
	items map[string]string
	mu    sync.RWMutex
}

// NewMemoryBackend returns an empty backend. quota caps the summed length
// of keys and values in bytes; zero or less disables the cap.
func NewMemoryBackend(quota int) *MemoryBackend {
	return &MemoryBackend{
		quota: quota,
		items: make(map[string]string),
	}
}

func (b *MemoryBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.items[key]
	return value, ok, nil
}

func (b *MemoryBackend) SetItem(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	used := b.used + len(key) + len(value)
	if old, ok := b.items[key]; ok {
		used -= len(key) + len(old)
	}
	if b.quota > 0 && used > b.quota {
		return ErrQuotaExceeded
	}

	b.items[key] = value
	b.used = used
	return nil
}

func (b *MemoryBackend) RemoveItem(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.items[key]; ok {
		b.used -= len(key) + len(old)
		delete(b.items, key)
	}
	return nil
}

func (b *MemoryBackend) Keys(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.items))
	for k := range b.items {
		keys = append(keys, k)
	}
	return keys, nil
}

// Used returns the bytes currently counted against the quota.
func (b *MemoryBackend) Used() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.used
}

func (b *MemoryBackend) Close() error {
	return nil
}
