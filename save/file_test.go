package save

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackend_PersistAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves.gob")

	b1, err := OpenFileBackend(ctx, path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	sys1 := NewSystem(DefaultNamespace, b1)
	if err := sys1.Save(ctx, "progress", map[string]any{"level": 3, "hp": 80}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := sys1.Close(); err != nil {
		t.Fatal(err)
	}

	b2, err := OpenFileBackend(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	sys2 := NewSystem(DefaultNamespace, b2)
	got, err := sys2.Load(ctx, "progress")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["level"] != float64(3) || m["hp"] != float64(80) {
		t.Errorf("unexpected value after reopen: %#v", got)
	}
}

func TestFileBackend_MissingFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "saves.gob")

	b, err := OpenFileBackend(ctx, path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	keys, _ := b.Keys(ctx)
	if len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("expected parent directory to be created: %v", err)
	}
}

func TestFileBackend_WritesKeepOtherProcessKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves.gob")

	a, err := OpenFileBackend(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := OpenFileBackend(ctx, path)
	if err != nil {
		t.Fatal(err)
	}

	if err := a.SetItem(ctx, "from_a", "1"); err != nil {
		t.Fatal(err)
	}
	// b has a stale view but its write must not drop a's key
	if err := b.SetItem(ctx, "from_b", "2"); err != nil {
		t.Fatal(err)
	}

	if err := a.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	snap := a.Snapshot()
	if snap["from_a"] != "1" || snap["from_b"] != "2" {
		t.Errorf("expected both keys, got %v", snap)
	}
}

func TestFileBackend_RemoveItem(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves.gob")

	b, err := OpenFileBackend(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetItem(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := b.RemoveItem(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := b.RemoveItem(ctx, "never"); err != nil {
		t.Errorf("removing a missing key should not fail: %v", err)
	}

	reopened, err := OpenFileBackend(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := reopened.GetItem(ctx, "k"); ok {
		t.Error("expected key to be gone after reopen")
	}
}

func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.gob")
	if err := os.WriteFile(path, []byte("not a gob stream"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenFileBackend(context.Background(), path); err == nil {
		t.Error("expected decode error for corrupt save file")
	}
}
