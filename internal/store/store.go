// Package store persists trips and their plan revisions in SQLite. Every
// revision is retained; superseding a plan flips its status rather than
// deleting it, so the replanning history of a trip is always recoverable.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/types"
)

//go:embed schema.sql
var schema string

// Store wraps the SQLite plan archive.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens the archive at cfg.Path, creating the schema when absent.
// WAL mode and foreign keys are always on.
func Open(cfg config.StoreConfig) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.STORE_OPEN_FAILED, "open plan archive", err)
	}
	conn.SetMaxOpenConns(cfg.MaxConnections)
	conn.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, types.WrapError(types.STORE_OPEN_FAILED, "ping plan archive", err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, types.WrapError(types.STORE_MIGRATION_FAILED, "apply schema", err)
	}

	return &Store{conn: conn, path: cfg.Path}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Path returns the archive file path.
func (s *Store) Path() string {
	return s.path
}

// Health verifies the archive is reachable.
func (s *Store) Health(ctx context.Context) types.HealthStatus {
	if err := s.conn.PingContext(ctx); err != nil {
		return types.Unhealthy("plan archive unreachable: " + err.Error())
	}
	return types.Healthy("plan archive at " + s.path)
}
