// Package session holds the single authenticated identity of a context.
//
// The persisted marker only references the user by id. Current resolves it
// through the registry on every call, so the session can never drift from
// the registry's copy of the record.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/dmitrijs2005/authfront/internal/common"
	"github.com/dmitrijs2005/authfront/internal/logging"
	"github.com/dmitrijs2005/authfront/internal/models"
	"github.com/dmitrijs2005/authfront/internal/repositories/metadata"
)

// Store is the subset of *store.Store the session manager needs.
type Store interface {
	Repo() metadata.Repository
	Update(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) error
}

// Users resolves session markers to records.
type Users interface {
	FindByID(id int64) (models.UserRecord, bool)
}

type Manager struct {
	mu     sync.RWMutex
	store  Store
	users  Users
	log    logging.Logger
	now    func() time.Time
	marker *models.SessionRecord
}

func NewManager(st Store, users Users, log logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Manager{store: st, users: users, log: log, now: time.Now}
}

// Restore reads the persisted marker. A marker pointing at a user the
// registry no longer knows, or one that cannot be decoded, is erased.
func (m *Manager) Restore(ctx context.Context) error {
	raw, found, err := m.store.Repo().Get(ctx, common.KeySession)
	if err != nil {
		return oops.In("session").Code("SESSION_LOAD_FAILED").With("key", common.KeySession).Wrap(err)
	}

	m.mu.Lock()
	m.marker = nil
	m.mu.Unlock()

	if !found {
		return nil
	}

	var rec models.SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		m.log.Warn(ctx, "discarding unreadable session marker", "error", err)
		return m.erase(ctx)
	}
	if _, ok := m.users.FindByID(rec.UserID); !ok {
		m.log.Warn(ctx, "discarding dangling session marker", "user_id", rec.UserID)
		return m.erase(ctx)
	}

	m.mu.Lock()
	m.marker = &rec
	m.mu.Unlock()
	m.log.Info(ctx, "session restored", "user_id", rec.UserID)
	return nil
}

// Current returns the authenticated user, if any.
func (m *Manager) Current() (models.UserRecord, bool) {
	m.mu.RLock()
	marker := m.marker
	m.mu.RUnlock()

	if marker == nil {
		return models.UserRecord{}, false
	}
	return m.users.FindByID(marker.UserID)
}

// StartedAt reports when the current session began.
func (m *Manager) StartedAt() (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.marker == nil {
		return time.Time{}, false
	}
	return m.marker.StartedAt, true
}

// Start replaces any current session with one for user and persists it.
// Nothing changes in memory if the write fails.
func (m *Manager) Start(ctx context.Context, user models.UserRecord) error {
	rec := models.SessionRecord{UserID: user.ID, StartedAt: m.now().UTC()}
	raw, err := json.Marshal(rec)
	if err != nil {
		return oops.In("session").Code("SESSION_ENCODE_FAILED").Wrap(err)
	}

	err = m.store.Update(ctx, func(ctx context.Context, repo metadata.Repository) error {
		return repo.Set(ctx, common.KeySession, raw)
	})
	if err != nil {
		return oops.In("session").Code("SESSION_PERSIST_FAILED").With("user_id", user.ID).Wrap(err)
	}

	m.mu.Lock()
	m.marker = &rec
	m.mu.Unlock()
	return nil
}

// End clears the session and erases the marker. It is idempotent. The
// in-memory session is cleared even when erasing the marker fails.
func (m *Manager) End(ctx context.Context) error {
	m.mu.Lock()
	m.marker = nil
	m.mu.Unlock()
	return m.erase(ctx)
}

func (m *Manager) erase(ctx context.Context) error {
	err := m.store.Update(ctx, func(ctx context.Context, repo metadata.Repository) error {
		return repo.Delete(ctx, common.KeySession)
	})
	if err != nil {
		return oops.In("session").Code("SESSION_PERSIST_FAILED").With("key", common.KeySession).Wrap(err)
	}
	return nil
}
