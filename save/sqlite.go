package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yoanbernabeu/dontlookdown/internal/fileutil"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS items (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLiteBackend stores items in a SQLite database file.
type SQLiteBackend struct {
	sqlDB *sql.DB
}

// OpenSQLiteBackend opens or creates the database at path.
func OpenSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := fileutil.EnsureParentDir(cleanPath); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create items table: %w", err)
	}
	return &SQLiteBackend{sqlDB: sqlDB}, nil
}

func (b *SQLiteBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.sqlDB.QueryRowContext(ctx, `SELECT value FROM items WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item: %w", err)
	}
	return value, true, nil
}

func (b *SQLiteBackend) SetItem(ctx context.Context, key, value string) error {
	_, err := b.sqlDB.ExecContext(ctx,
		`INSERT INTO items (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		if isSQLiteFull(err) {
			return ErrQuotaExceeded
		}
		return fmt.Errorf("set item: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) RemoveItem(ctx context.Context, key string) error {
	if _, err := b.sqlDB.ExecContext(ctx, `DELETE FROM items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.sqlDB.QueryContext(ctx, `SELECT key FROM items`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the SQLite handle.
func (b *SQLiteBackend) Close() error {
	if b == nil || b.sqlDB == nil {
		return nil
	}
	return b.sqlDB.Close()
}

func isSQLiteFull(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_FULL
}
