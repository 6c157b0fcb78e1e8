// Package store is the entity store: it exclusively owns all
// persistent Mosaic records. It is backed by SQLite in WAL mode with
// foreign keys enforced; every other component holds only short-lived
// row values obtained per operation.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

const schemaVersion = 1

// Options configure user-level conventions the store needs for
// derived values (local dates, defaults).
type Options struct {
	// Timezone is the user's timezone for local-date derivation.
	Timezone *time.Location

	// WeekBoundary is the user's working-week convention.
	WeekBoundary timeutil.WeekBoundary

	// DefaultPrivacy applies to records created without an explicit
	// privacy level.
	DefaultPrivacy PrivacyLevel
}

// Store is the SQLite-backed entity store.
type Store struct {
	db   *sqlx.DB
	opts Options

	// now is the clock, overridable in tests.
	now func() time.Time
}

// Open opens (or creates) the database at path and migrates the
// schema. The parent directory is created if needed.
func Open(path string, opts Options) (*Store, error) {
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	if opts.WeekBoundary == "" {
		opts.WeekBoundary = timeutil.WeekMonFri
	}
	if opts.DefaultPrivacy == "" {
		opts.DefaultPrivacy = PrivacyPrivate
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create db directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// A single writer connection sidesteps SQLITE_BUSY under the
	// scheduler/tool contention this process produces.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, opts: opts, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for the query engine. The query
// package compiles and runs read-only statements against it.
func (s *Store) DB() *sqlx.DB { return s.db }

// Timezone returns the configured user timezone.
func (s *Store) Timezone() *time.Location { return s.opts.Timezone }

// WeekBoundary returns the configured week convention.
func (s *Store) WeekBoundary() timeutil.WeekBoundary { return s.opts.WeekBoundary }

// DefaultPrivacy returns the privacy level applied when none is given.
func (s *Store) DefaultPrivacy() PrivacyLevel { return s.opts.DefaultPrivacy }

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}
	if version < 1 {
		if _, err := s.db.Exec(schemaV1); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}

// ─── Shared helpers ──────────────────────────────────────────────────────────

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.Internal, "commit transaction", err)
	}
	return nil
}

// nowUTC returns the current instant formatted for storage.
func (s *Store) nowUTC() string {
	return s.now().UTC().Format(time.RFC3339)
}

// translateErr maps storage failures onto the error taxonomy: foreign
// key violations are caller faults (a referenced row is missing),
// unique violations are conflicts, no-rows is not-found.
func translateErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Newf(apperr.NotFound, "%s: record not found", op)
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return apperr.Newf(apperr.InvalidArgument, "%s: referenced entity does not exist", op)
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return apperr.Newf(apperr.Conflict, "%s: duplicate value violates a unique constraint", op)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return apperr.Newf(apperr.InvalidArgument, "%s: value violates a storage constraint", op)
		}
		if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return apperr.Newf(apperr.InvalidArgument, "%s: storage constraint violated", op)
		}
	}
	return apperr.Wrap(apperr.Internal, op, err)
}

// parseStoredTime parses an RFC3339 instant previously written by the
// store.
func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperr.Wrap(apperr.Internal, "parse stored timestamp", err)
	}
	return t, nil
}

// validDate reports whether s is a storage-format date.
func validDate(s string) bool {
	_, err := time.Parse(timeutil.DateLayout, s)
	return err == nil
}
