package save

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgDiskFull is the SQLSTATE for insufficient storage.
const pgDiskFull = "53100"

// PostgresBackend stores items in a PostgreSQL table shared by every
// client pointing at the same DSN.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// OpenPostgresBackend connects to dsn and ensures the items table exists.
func OpenPostgresBackend(ctx context.Context, dsn string) (*PostgresBackend, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS save_items (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create save_items table: %w", err)
	}

	return &PostgresBackend{pool: pool}, nil
}

func (b *PostgresBackend) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.pool.QueryRow(ctx, `SELECT value FROM save_items WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item: %w", err)
	}
	return value, true, nil
}

func (b *PostgresBackend) SetItem(ctx context.Context, key, value string) error {
	_, err := b.pool.Exec(ctx,
		`INSERT INTO save_items (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgDiskFull {
			return ErrQuotaExceeded
		}
		return fmt.Errorf("set item: %w", err)
	}
	return nil
}

func (b *PostgresBackend) RemoveItem(ctx context.Context, key string) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM save_items WHERE key = $1`, key); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.pool.Query(ctx, `SELECT key FROM save_items`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}
	return keys, nil
}

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
