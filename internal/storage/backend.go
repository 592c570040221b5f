// Package storage provides durable key/value persistence for the
// watering log and plant statuses.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Fixed logical keys under which the two collections are persisted.
const (
	KeyLogs     = "urban_jungle_logs"
	KeyStatuses = "urban_jungle_statuses"
)

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindDuckDB = "duckdb"
	KindSQLite = "sqlite"
)

// Backend stores opaque blobs under string keys. Writes to different keys
// are independent; there is no transaction spanning keys.
type Backend interface {
	// Get returns the value for key. ok is false when nothing was stored.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open creates the backend of the given kind rooted in dataDir.
func Open(kind, dataDir string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindFile:
		return NewLocalStore(dataDir)
	case KindDuckDB:
		return NewDuckStore(filepath.Join(dataDir, "urban_jungle.duckdb"))
	case KindSQLite:
		return NewSQLiteStore(filepath.Join(dataDir, "urban_jungle.sqlite"))
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", kind)
	}
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid key: %s", key)
	}
	return nil
}
