package save

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryBackend_QuotaAccounting(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend(10)

	if err := b.SetItem(ctx, "k", "12345"); err != nil {
		t.Fatal(err)
	}
	if b.Used() != 6 {
		t.Errorf("expected 6 bytes used, got %d", b.Used())
	}

	// Overwriting replaces the old size rather than adding to it
	if err := b.SetItem(ctx, "k", "123456789"); err != nil {
		t.Fatalf("overwrite within quota failed: %v", err)
	}
	if b.Used() != 10 {
		t.Errorf("expected 10 bytes used, got %d", b.Used())
	}

	if err := b.SetItem(ctx, "x", "y"); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}

	if err := b.RemoveItem(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if b.Used() != 0 {
		t.Errorf("expected 0 bytes after remove, got %d", b.Used())
	}
	if err := b.SetItem(ctx, "x", "y"); err != nil {
		t.Errorf("expected write to fit after remove, got %v", err)
	}
}

func TestMemoryBackend_Unlimited(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend(0)

	big := make([]byte, DefaultQuotaBytes+1)
	if err := b.SetItem(ctx, "big", string(big)); err != nil {
		t.Errorf("unlimited backend rejected write: %v", err)
	}
}
