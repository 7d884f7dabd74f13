package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

const (
	busyTimeout = 5 * time.Second
	pingTimeout = 2 * time.Second
)

// DB owns the connection pool of the lead database.
type DB struct {
	Pool *sql.DB
}

func sqliteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

// Open opens the lead database at path and brings its schema up to date.
func Open(path string) (*DB, error) {
	return OpenContext(context.Background(), path)
}

func OpenContext(ctx context.Context, path string) (*DB, error) {
	pool, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open lead db: %w", err)
	}
	pool.SetMaxOpenConns(1) // sqlite has one writer

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.PingContext(pctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("open lead db %s: %w", path, err)
	}
	if err := Migrate(pool); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate lead db: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}
