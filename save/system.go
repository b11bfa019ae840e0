// Package save persists JSON-serializable values under namespaced keys in
// a pluggable key-value backend.
package save

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// DefaultNamespace prefixes every key written by the game.
const DefaultNamespace = "dontlookdown"

// Store is the save/load/delete surface used by game code.
type Store interface {
	Save(ctx context.Context, key string, data any) error
	Load(ctx context.Context, key string) (any, error)
	Delete(ctx context.Context, key string) error
}

// System stores values as JSON text under "<namespace>_<key>".
type System struct {
	namespace string
	backend   Backend
}

var _ Store = (*System)(nil)

// NewSystem returns a System writing to backend. An empty namespace falls
// back to DefaultNamespace.
func NewSystem(namespace string, backend Backend) *System {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &System{
		namespace: namespace,
		backend:   backend,
	}
}

// Namespace returns the key prefix without the trailing separator.
func (s *System) Namespace() string {
	return s.namespace
}

// Backend returns the underlying storage medium.
func (s *System) Backend() Backend {
	return s.backend
}

func (s *System) storageKey(key string) string {
	return s.namespace + "_" + key
}

// Save encodes data as JSON and stores it, overwriting any previous value.
func (s *System) Save(ctx context.Context, key string, data any) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return s.SaveRaw(ctx, key, encoded)
}

// SaveRaw stores already-encoded JSON text. The text is validated so that
// Load never sees a value Save could not have produced.
func (s *System) SaveRaw(ctx context.Context, key string, raw []byte) error {
	if !json.Valid(raw) {
		return fmt.Errorf("failed to save %q: value is not valid JSON", key)
	}
	if err := s.backend.SetItem(ctx, s.storageKey(key), string(raw)); err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	return nil
}

// Load returns the decoded value stored under key, or nil if it was never
// saved. Objects decode to map[string]any and numbers to float64.
func (s *System) Load(ctx context.Context, key string) (any, error) {
	var v any
	if _, err := s.LoadInto(ctx, key, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadInto decodes the value stored under key into v and reports whether
// the key existed. v is left untouched when it did not.
func (s *System) LoadInto(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := s.LoadRaw(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// LoadRaw returns the stored JSON text for key without decoding it.
func (s *System) LoadRaw(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok, err := s.backend.GetItem(ctx, s.storageKey(key))
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %q: %w", key, err)
	}
	// An empty string is treated like a missing key, matching
	// the browser behaviour of a falsy getItem result.
	if !ok || value == "" {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

// Delete removes key. Deleting a key that was never saved is a no-op.
func (s *System) Delete(ctx context.Context, key string) error {
	if err := s.backend.RemoveItem(ctx, s.storageKey(key)); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Keys lists the keys saved under this namespace, sorted, without prefix.
func (s *System) Keys(ctx context.Context) ([]string, error) {
	all, err := s.backend.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	prefix := s.storageKey("")
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the backend.
func (s *System) Close() error {
	return s.backend.Close()
}
