// Package store opens the per-context database that substitutes for the
// browser's session storage.
//
// Two flavours exist:
//
//   - in-memory (default): a named shared-cache SQLite database that lives as
//     long as the Store is open. It survives an in-process reload but not
//     process exit, which matches session storage semantics.
//   - file-backed (Options.Path set): the database file is guarded by an
//     advisory lock so only one process writes a context at a time.
//
// Both run the embedded goose migrations on open.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pressly/goose/v3"
	"github.com/samber/oops"

	"github.com/dmitrijs2005/authfront/internal/common"
	"github.com/dmitrijs2005/authfront/internal/dbx"
	"github.com/dmitrijs2005/authfront/internal/repositories/metadata"
	"github.com/dmitrijs2005/authfront/internal/store/migrations"

	_ "modernc.org/sqlite"
)

// Options selects the backing database.
type Options struct {
	// ContextID names the in-memory database. Ignored when Path is set.
	ContextID string
	// Path switches to a file-backed database.
	Path string
}

// Store owns the database handle and, for file-backed stores, the lock.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	lock   *flock.Flock
	repo   *metadata.SQLiteRepository
	dsn    string
	closed bool
}

var gooseOnce sync.Once

// RunMigrations applies the embedded migrations. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	var dialectErr error
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrations.Migrations)
		goose.SetLogger(goose.NopLogger())
		dialectErr = goose.SetDialect("sqlite3")
	})
	if dialectErr != nil {
		return fmt.Errorf("set goose dialect: %w", dialectErr)
	}
	return goose.UpContext(ctx, db, ".")
}

// MemoryDSN returns the shared-cache in-memory DSN for a context id.
func MemoryDSN(contextID string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(contextID))
}

// FileDSN returns the DSN for a file-backed store.
func FileDSN(path string) string {
	return path + "?_pragma=busy_timeout(5000)"
}

// Open opens (and migrates) the store described by opts.
func Open(ctx context.Context, opts Options) (*Store, error) {
	errb := oops.In("store").With("context_id", opts.ContextID).With("path", opts.Path)

	var (
		dsn  string
		lock *flock.Flock
	)

	switch {
	case opts.Path != "":
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
			return nil, errb.Code("STORE_OPEN_FAILED").Wrapf(err, "create state directory")
		}
		lock = flock.New(opts.Path + ".lock")
		ok, err := lock.TryLock()
		if err != nil {
			return nil, errb.Code("STORE_LOCK_FAILED").Wrapf(err, "lock state file")
		}
		if !ok {
			return nil, errb.Code("STORE_LOCKED").Wrap(common.ErrorStoreLocked)
		}
		dsn = FileDSN(opts.Path)
	case opts.ContextID != "":
		dsn = MemoryDSN(opts.ContextID)
	default:
		return nil, errb.Code("STORE_OPEN_FAILED").Errorf("either a context id or a path is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		unlock(lock)
		return nil, errb.Code("STORE_OPEN_FAILED").Wrap(err)
	}
	// One connection keeps the shared in-memory database alive and serializes
	// writers.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		unlock(lock)
		return nil, errb.Code("STORE_MIGRATE_FAILED").Wrap(err)
	}

	return &Store{
		db:   db,
		lock: lock,
		repo: metadata.NewSQLiteRepository(db),
		dsn:  dsn,
	}, nil
}

func unlock(l *flock.Flock) {
	if l != nil {
		_ = l.Unlock()
	}
}

// Repo returns the key/value repository bound to the database handle.
func (s *Store) Repo() metadata.Repository {
	return s.repo
}

// DSN is the data source name the store was opened with.
func (s *Store) DSN() string {
	return s.dsn
}

// Ephemeral reports whether the store disappears on Close.
func (s *Store) Ephemeral() bool {
	return s.lock == nil
}

// Update runs fn against a transactional repository; all writes made through
// it commit together or not at all.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) error {
	if s.isClosed() {
		return oops.In("store").Code("STORE_CLOSED").Wrap(common.ErrorStoreClosed)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, metadata.NewSQLiteRepository(tx))
	})
}

// Wipe erases every key in the context, as closing the tab would.
func (s *Store) Wipe(ctx context.Context) error {
	return s.Update(ctx, func(ctx context.Context, repo metadata.Repository) error {
		return repo.Clear(ctx)
	})
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close closes the database and releases the lock. It is safe to call twice.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.db.Close()
	if s.lock != nil {
		err = errors.Join(err, s.lock.Unlock())
	}
	if err != nil {
		return oops.In("store").Code("STORE_CLOSE_FAILED").Wrap(err)
	}
	return nil
}
