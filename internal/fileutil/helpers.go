package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates parent directories for the given path if they do not exist.
func EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return os.MkdirAll(dir, 0755)
}

// ReplaceFileAtomically renames tempPath to targetPath. On systems where
// cross-device rename fails, it falls back to remove-then-rename.
func ReplaceFileAtomically(tempPath, targetPath string) error {
	if err := os.Rename(tempPath, targetPath); err == nil {
		return nil
	}

	if err := os.Remove(targetPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	return os.Rename(tempPath, targetPath)
}

// WithLock runs fn while holding a lock on lockPath, creating the lock file
// if needed. exclusive selects a write lock; otherwise a shared read lock
// is taken. If the lock file cannot be created or locked, fn still runs
// unlocked so read-only directories keep working.
func WithLock(lockPath string, exclusive bool, fn func() error) error {
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fn()
	}
	defer f.Close()

	if err := lockFile(f, exclusive); err != nil {
		return fn()
	}
	defer func() {
		_ = unlockFile(f)
	}()

	return fn()
}

// WriteFileAtomically writes data to a temporary sibling of targetPath and
// renames it into place, so readers never observe a partial file.
func WriteFileAtomically(targetPath string, write func(f *os.File) error) error {
	if err := EnsureParentDir(targetPath); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(targetPath), filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := ReplaceFileAtomically(tmpPath, targetPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", targetPath, err)
	}
	return nil
}
