package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	sqliteFileName = "state.sqlite"
	logFileName    = "appsbar.log"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Store is the local state directory (SQLite database, TUI state, log file).
type Store struct {
	Dir string
}

// DefaultDir returns ~/.appsbar (or $APPSBAR_CONFIG_DIR).
func DefaultDir() (string, error) {
	return ConfigDir()
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// LogPath is where the TUI writes its log (the terminal belongs to the UI).
func (s Store) LogPath() string {
	return filepath.Join(s.Dir, logFileName)
}

// Options selects and configures the key/value backend.
type Options struct {
	Backend     string
	RedisAddr   string
	RedisPrefix string
}

// Open opens the key/value backend named in opts.
func (s Store) Open(ctx context.Context, opts Options) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSQLite:
		if err := s.Ensure(); err != nil {
			return nil, err
		}
		return OpenSQLiteKV(ctx, s.sqlitePath())
	case BackendRedis:
		return OpenRedisKV(ctx, RedisOptions{Addr: opts.RedisAddr, Prefix: opts.RedisPrefix})
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, opts.Backend)
	}
}
