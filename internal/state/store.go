// Package state persists per-target build state so unchanged outputs can be
// skipped on the next run.
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DepStamp records the identity of one file dependency at build time.
type DepStamp struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mtime"`
}

// StampDeps stats every dependency. A missing dependency is an error: a task
// cannot be considered current, or run, without its inputs.
func StampDeps(paths []string) ([]DepStamp, error) {
	stamps := make([]DepStamp, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat dependency %s: %w", p, err)
		}
		stamps = append(stamps, DepStamp{Path: p, Size: info.Size(), ModTime: info.ModTime().UnixNano()})
	}
	return stamps, nil
}

// Store is a SQLite-backed record of each target's fingerprint and dependency
// stamps from the last successful build.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the state database. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize state schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS targets (
		target TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		deps TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// UpToDate reports whether target can be skipped: it exists on disk, its
// recorded fingerprint matches, and every dependency stamp is unchanged.
func (s *Store) UpToDate(ctx context.Context, target, fingerprint string, deps []DepStamp) (bool, error) {
	if _, err := os.Stat(target); err != nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var storedFP, storedDeps string
	err := s.db.QueryRowContext(ctx,
		"SELECT fingerprint, deps FROM targets WHERE target = ?", target,
	).Scan(&storedFP, &storedDeps)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query state for %s: %w", target, err)
	}

	if storedFP != fingerprint {
		return false, nil
	}
	currentDeps, err := json.Marshal(deps)
	if err != nil {
		return false, fmt.Errorf("marshal dependency stamps: %w", err)
	}
	return storedDeps == string(currentDeps), nil
}

// Record stores the target's fingerprint and dependency stamps after a
// successful build.
func (s *Store) Record(ctx context.Context, target, fingerprint string, deps []DepStamp) error {
	depsJSON, err := json.Marshal(deps)
	if err != nil {
		return fmt.Errorf("marshal dependency stamps: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO targets (target, fingerprint, deps, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(target) DO UPDATE SET fingerprint = excluded.fingerprint,
		   deps = excluded.deps, updated_at = excluded.updated_at`,
		target, fingerprint, string(depsJSON), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record state for %s: %w", target, err)
	}
	return nil
}
