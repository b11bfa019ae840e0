package save

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"sync"

	"github.com/yoanbernabeu/dontlookdown/internal/fileutil"
)

// FileBackend keeps items in a single gob file. Reads are served from
// memory; each write re-reads the file under an exclusive flock, applies
// the single change and replaces the file, so concurrent processes get
// per-key last-write-wins instead of clobbering each other's keys.
type FileBackend struct {
	path     string
	lockPath string
	items    map[string]string
	mu       sync.RWMutex
}

type fileData struct {
	Items map[string]string
}

// OpenFileBackend loads path, which need not exist yet.
func OpenFileBackend(ctx context.Context, path string) (*FileBackend, error) {
	b := &FileBackend{
		path:     path,
		lockPath: path + ".lock",
		items:    make(map[string]string),
	}
	if err := fileutil.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	if err := b.Reload(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Path returns the save file location.
func (b *FileBackend) Path() string {
	return b.path
}

// Reload replaces the in-memory items with the file's current content.
func (b *FileBackend) Reload(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var items map[string]string
	err := fileutil.WithLock(b.lockPath, false, func() error {
		var err error
		items, err = b.read()
		return err
	})
	if err != nil {
		return err
	}
	b.items = items
	return nil
}

// read decodes the save file without locking. A missing file is empty.
func (b *FileBackend) read() (map[string]string, error) {
	file, err := os.Open(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to open save file: %w", err)
	}
	defer file.Close()

	var data fileData
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode save file: %w", err)
	}
	if data.Items == nil {
		data.Items = make(map[string]string)
	}
	return data.Items, nil
}

func (b *FileBackend) write(items map[string]string) error {
	return fileutil.WriteFileAtomically(b.path, func(f *os.File) error {
		if err := gob.NewEncoder(f).Encode(fileData{Items: items}); err != nil {
			return fmt.Errorf("failed to encode save file: %w", err)
		}
		return nil
	})
}

// mutate applies change to the freshest on-disk state and persists it.
func (b *FileBackend) mutate(change func(items map[string]string)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return fileutil.WithLock(b.lockPath, true, func() error {
		items, err := b.read()
		if err != nil {
			return err
		}
		change(items)
		if err := b.write(items); err != nil {
			return err
		}
		b.items = items
		return nil
	})
}

func (b *FileBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.items[key]
	return value, ok, nil
}

func (b *FileBackend) SetItem(ctx context.Context, key, value string) error {
	return b.mutate(func(items map[string]string) {
		items[key] = value
	})
}

func (b *FileBackend) RemoveItem(ctx context.Context, key string) error {
	return b.mutate(func(items map[string]string) {
		delete(items, key)
	})
}

func (b *FileBackend) Keys(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.items))
	for k := range b.items {
		keys = append(keys, k)
	}
	return keys, nil
}

// Snapshot returns a copy of every item currently held in memory.
func (b *FileBackend) Snapshot() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]string, len(b.items))
	for k, v := range b.items {
		out[k] = v
	}
	return out
}

// Close is a no-op: every write is already on disk.
func (b *FileBackend) Close() error {
	return nil
}
