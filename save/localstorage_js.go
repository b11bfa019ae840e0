//go:build js && wasm

package save

import (
	"context"
	"fmt"
	"syscall/js"
)

// LocalStorageBackend stores items in the browser's window.localStorage.
type LocalStorageBackend struct {
	storage js.Value
}

// NewLocalStorageBackend binds to window.localStorage.
func NewLocalStorageBackend() (*LocalStorageBackend, error) {
	storage := js.Global().Get("localStorage")
	if storage.IsUndefined() || storage.IsNull() {
		return nil, fmt.Errorf("localStorage is not available")
	}
	return &LocalStorageBackend{storage: storage}, nil
}

func (b *LocalStorageBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	res := b.storage.Call("getItem", key)
	if res.IsNull() {
		return "", false, nil
	}
	return res.String(), true, nil
}

func (b *LocalStorageBackend) SetItem(ctx context.Context, key, value string) (err error) {
	// setItem throws a DOMException named QuotaExceededError when full;
	// syscall/js surfaces thrown exceptions as panics carrying js.Error.
	defer func() {
		if r := recover(); r != nil {
			jsErr, ok := r.(js.Error)
			if !ok {
				panic(r)
			}
			if jsErr.Get("name").String() == "QuotaExceededError" {
				err = ErrQuotaExceeded
				return
			}
			err = fmt.Errorf("set item: %w", jsErr)
		}
	}()
	b.storage.Call("setItem", key, value)
	return nil
}

func (b *LocalStorageBackend) RemoveItem(ctx context.Context, key string) error {
	b.storage.Call("removeItem", key)
	return nil
}

func (b *LocalStorageBackend) Keys(ctx context.Context) ([]string, error) {
	n := b.storage.Get("length").Int()
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		k := b.storage.Call("key", i)
		if !k.IsNull() {
			keys = append(keys, k.String())
		}
	}
	return keys, nil
}

func (b *LocalStorageBackend) Close() error {
	return nil
}
