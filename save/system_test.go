package save

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func newTestSystem() (*System, *MemoryBackend) {
	backend := NewMemoryBackend(0)
	return NewSystem(DefaultNamespace, backend), backend
}

func TestSystem_RoundTrip(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "object", in: map[string]any{"level": 3, "hp": 80}, want: map[string]any{"level": float64(3), "hp": float64(80)}},
		{name: "array", in: []any{"a", 1, true}, want: []any{"a", float64(1), true}},
		{name: "string", in: "hello", want: "hello"},
		{name: "number", in: 42.5, want: 42.5},
		{name: "bool", in: false, want: false},
		{name: "nested", in: map[string]any{"trails": []string{"fire", "shadow"}}, want: map[string]any{"trails": []any{"fire", "shadow"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, _ := newTestSystem()
			if err := sys.Save(ctx, tt.name, tt.in); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := sys.Load(ctx, tt.name)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Load() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSystem_ProgressScenario(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystem()

	if err := sys.Save(ctx, "progress", map[string]any{"level": 3, "hp": 80}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := sys.Load(ctx, "progress")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := map[string]any{"level": float64(3), "hp": float64(80)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %#v, want %#v", got, want)
	}

	if err := sys.Delete(ctx, "progress"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err = sys.Load(ctx, "progress")
	if err != nil {
		t.Fatalf("Load after delete failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %#v", got)
	}
}

func TestSystem_LoadMissingReturnsNil(t *testing.T) {
	sys, _ := newTestSystem()

	got, err := sys.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %#v", got)
	}
}

func TestSystem_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystem()

	if err := sys.Save(ctx, "coins", map[string]any{"gold": 10, "silver": 5}); err != nil {
		t.Fatal(err)
	}
	if err := sys.Save(ctx, "coins", map[string]any{"gold": 1}); err != nil {
		t.Fatal(err)
	}

	got, err := sys.Load(ctx, "coins")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"gold": float64(1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected no merging, got %#v", got)
	}
}

func TestSystem_DeleteMissingIsNoop(t *testing.T) {
	sys, _ := newTestSystem()
	if err := sys.Delete(context.Background(), "ghost"); err != nil {
		t.Errorf("expected no error deleting missing key, got %v", err)
	}
}

func TestSystem_NamespacedKeys(t *testing.T) {
	ctx := context.Background()
	sys, backend := newTestSystem()

	if err := sys.Save(ctx, "high_score", 1200); err != nil {
		t.Fatal(err)
	}

	raw, ok, _ := backend.GetItem(ctx, "dontlookdown_high_score")
	if !ok {
		t.Fatal("expected value under namespaced key")
	}
	if raw != "1200" {
		t.Errorf("expected JSON text %q, got %q", "1200", raw)
	}
	if _, ok, _ := backend.GetItem(ctx, "high_score"); ok {
		t.Error("value must not be stored under the bare key")
	}
}

func TestSystem_NamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend(0)
	game := NewSystem("dontlookdown", backend)
	other := NewSystem("othergame", backend)

	if err := backend.SetItem(ctx, "unrelated", "x"); err != nil {
		t.Fatal(err)
	}
	if err := game.Save(ctx, "coins", 5); err != nil {
		t.Fatal(err)
	}
	if err := other.Save(ctx, "coins", 99); err != nil {
		t.Fatal(err)
	}

	got, _ := game.Load(ctx, "coins")
	if got != float64(5) {
		t.Errorf("expected 5, got %#v", got)
	}

	keys, err := game.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"coins"}) {
		t.Errorf("expected only own keys, got %v", keys)
	}

	if err := game.Delete(ctx, "coins"); err != nil {
		t.Fatal(err)
	}
	if got, _ := other.Load(ctx, "coins"); got != float64(99) {
		t.Errorf("delete leaked into other namespace: %#v", got)
	}
}

func TestSystem_KeysSorted(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystem()
	for _, k := range []string{"trail", "coins", "progress"} {
		if err := sys.Save(ctx, k, true); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := sys.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"coins", "progress", "trail"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
}

func TestSystem_SaveUnencodableValue(t *testing.T) {
	ctx := context.Background()
	sys, backend := newTestSystem()

	err := sys.Save(ctx, "bad", map[string]any{"ch": make(chan int)})
	if err == nil {
		t.Fatal("expected encoding error")
	}
	if keys, _ := backend.Keys(ctx); len(keys) != 0 {
		t.Errorf("nothing should be stored on failure, got %v", keys)
	}
}

func TestSystem_SaveQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend(32)
	sys := NewSystem(DefaultNamespace, backend)

	if err := sys.Save(ctx, "a", 1); err != nil {
		t.Fatalf("small save failed: %v", err)
	}

	err := sys.Save(ctx, "big", strings.Repeat("x", 64))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	got, _ := sys.Load(ctx, "a")
	if got != float64(1) {
		t.Errorf("earlier value should survive quota failure, got %#v", got)
	}
}

func TestSystem_LoadCorruptedValue(t *testing.T) {
	ctx := context.Background()
	sys, backend := newTestSystem()

	if err := backend.SetItem(ctx, "dontlookdown_broken", "{not json"); err != nil {
		t.Fatal(err)
	}

	if _, err := sys.Load(ctx, "broken"); err == nil {
		t.Error("expected parse error for corrupted value")
	}
}

func TestSystem_LoadEmptyStringIsMissing(t *testing.T) {
	ctx := context.Background()
	sys, backend := newTestSystem()

	if err := backend.SetItem(ctx, "dontlookdown_blank", ""); err != nil {
		t.Fatal(err)
	}
	got, err := sys.Load(ctx, "blank")
	if err != nil || got != nil {
		t.Errorf("expected (nil, nil), got (%#v, %v)", got, err)
	}
}

func TestSystem_LoadInto(t *testing.T) {
	ctx := context.Background()
	sys, _ := newTestSystem()

	type progress struct {
		Level int `json:"level"`
		HP    int `json:"hp"`
	}

	var p progress
	ok, err := sys.LoadInto(ctx, "progress", &p)
	if err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := sys.Save(ctx, "progress", progress{Level: 3, HP: 80}); err != nil {
		t.Fatal(err)
	}
	ok, err = sys.LoadInto(ctx, "progress", &p)
	if err != nil || !ok {
		t.Fatalf("LoadInto failed: ok=%v err=%v", ok, err)
	}
	if p != (progress{Level: 3, HP: 80}) {
		t.Errorf("unexpected value %+v", p)
	}
}

func TestSystem_SaveRawRejectsInvalidJSON(t *testing.T) {
	sys, _ := newTestSystem()
	if err := sys.SaveRaw(context.Background(), "k", []byte("{oops")); err == nil {
		t.Error("expected invalid JSON to be rejected")
	}
}

func TestNewSystem_DefaultNamespace(t *testing.T) {
	sys := NewSystem("", NewMemoryBackend(0))
	if sys.Namespace() != DefaultNamespace {
		t.Errorf("expected %q, got %q", DefaultNamespace, sys.Namespace())
	}
}
