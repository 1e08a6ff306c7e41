package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteKV stores keys in a single kv table of a local SQLite database.
type SQLiteKV struct {
	db *sql.DB
}

func OpenSQLiteKV(ctx context.Context, path string) (*SQLiteKV, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI and CLI commands in another terminal share the file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteKV(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteKV{db: db}, nil
}

func migrateSQLiteKV(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', '1');`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (kv *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := kv.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (kv *SQLiteKV) Set(ctx context.Context, key, value string) error {
	_, err := kv.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv(k, v, updated_at_unixms) VALUES(?, ?, ?)`,
		key, value, time.Now().UTC().UnixMilli())
	return err
}

func (kv *SQLiteKV) Delete(ctx context.Context, key string) error {
	_, err := kv.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key)
	return err
}

func (kv *SQLiteKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := kv.db.QueryContext(ctx, `SELECT k FROM kv WHERE substr(k, 1, length(?)) = ? ORDER BY k`, prefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (kv *SQLiteKV) Close() error {
	return kv.db.Close()
}
