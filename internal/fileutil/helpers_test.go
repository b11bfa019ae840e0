package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomically(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "saves.gob")

	err := WriteFileAtomically(target, func(f *os.File) error {
		_, err := f.WriteString("first")
		return err
	})
	if err != nil {
		t.Fatalf("first write failed: %v", err)
	}

	err = WriteFileAtomically(target, func(f *os.File) error {
		_, err := f.WriteString("second")
		return err
	})
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected %q, got %q", "second", string(data))
	}
}

func TestWriteFileAtomically_FailedWriteKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "saves.gob")
	if err := os.WriteFile(target, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteFileAtomically(target, func(f *os.File) error {
		_, _ = f.WriteString("partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	data, _ := os.ReadFile(target)
	if string(data) != "original" {
		t.Errorf("expected original content, got %q", string(data))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected temp file to be removed, found %d entries", len(entries))
	}
}

func TestWithLock_RunsFunction(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "saves.gob.lock")

	for _, exclusive := range []bool{true, false} {
		called := false
		err := WithLock(lockPath, exclusive, func() error {
			called = true
			return nil
		})
		if err != nil {
			t.Fatalf("WithLock(exclusive=%v) failed: %v", exclusive, err)
		}
		if !called {
			t.Errorf("WithLock(exclusive=%v) did not call fn", exclusive)
		}
	}

	if _, err := os.Stat(lockPath); err != nil {
		t.Errorf("expected lock file to exist: %v", err)
	}
}
