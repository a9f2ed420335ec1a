// Package registry owns every known UserRecord. It substitutes for a backend
// user table: the full set of users is kept in memory and written back to the
// per-context store as one snapshot on every mutation.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/dmitrijs2005/authfront/internal/common"
	"github.com/dmitrijs2005/authfront/internal/logging"
	"github.com/dmitrijs2005/authfront/internal/models"
	"github.com/dmitrijs2005/authfront/internal/repositories/metadata"
)

// ErrDuplicateEmail is returned by Create when the email is already taken.
var ErrDuplicateEmail = errors.New("email already registered")

// Seed account installed into an empty registry on first run.
var SeedUser = models.UserRecord{
	ID:        1,
	Username:  "demo",
	Email:     "demo@example.com",
	Password:  "Demo123!",
	CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

// Store is the subset of *store.Store the registry needs.
type Store interface {
	Repo() metadata.Repository
	Update(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) error
}

// Options tweaks record creation.
type Options struct {
	// TrackTimestamps stamps CreatedAt on new users. When false CreatedAt
	// stays zero.
	TrackTimestamps bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions matches the richest registry variant.
func DefaultOptions() Options {
	return Options{TrackTimestamps: true}
}

// Registry is safe for concurrent readers; writers are serialized.
type Registry struct {
	mu      sync.RWMutex
	store   Store
	opts    Options
	log     logging.Logger
	users   []models.UserRecord
	byEmail map[string]int
}

// New returns an empty registry bound to st. Call Load before use.
func New(st Store, opts Options, log logging.Logger) *Registry {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Registry{
		store:   st,
		opts:    opts,
		log:     log,
		byEmail: make(map[string]int),
	}
}

// Load replaces the in-memory view with the persisted snapshot. An absent or
// empty snapshot seeds the registry with SeedUser and persists it.
func (r *Registry) Load(ctx context.Context) error {
	raw, found, err := r.store.Repo().Get(ctx, common.KeyRegistry)
	if err != nil {
		return oops.In("registry").Code("REGISTRY_LOAD_FAILED").With("key", common.KeyRegistry).Wrap(err)
	}

	var users []models.UserRecord
	if found && len(raw) > 0 {
		if err := json.Unmarshal(raw, &users); err != nil {
			return oops.In("registry").Code("REGISTRY_DECODE_FAILED").With("key", common.KeyRegistry).Wrap(err)
		}
	}

	if len(users) == 0 {
		users = []models.UserRecord{SeedUser}
		if err := r.persist(ctx, users); err != nil {
			return err
		}
		r.log.Info(ctx, "seeded registry", "email", SeedUser.Email)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.replace(users)
	return nil
}

func (r *Registry) replace(users []models.UserRecord) {
	r.users = users
	r.byEmail = make(map[string]int, len(users))
	for i, u := range users {
		r.byEmail[u.Email] = i
	}
}

// FindByEmail is an exact, case-sensitive lookup.
func (r *Registry) FindByEmail(email string) (models.UserRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byEmail[email]
	if !ok {
		return models.UserRecord{}, false
	}
	return r.users[i], true
}

// FindByID looks a user up by id.
func (r *Registry) FindByID(id int64) (models.UserRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.UserRecord{}, false
}

func (r *Registry) EmailTaken(email string) bool {
	_, ok := r.FindByEmail(email)
	return ok
}

// CredentialsMatch returns the user only if both email and password match
// exactly.
func (r *Registry) CredentialsMatch(email, password string) (models.UserRecord, bool) {
	u, ok := r.FindByEmail(email)
	if !ok || u.Password != password {
		return models.UserRecord{}, false
	}
	return u, true
}

// Create registers a new user. The id is 1 + the highest existing id. The
// snapshot is written before the in-memory view changes, so a failed write
// leaves the registry untouched.
func (r *Registry) Create(ctx context.Context, username, email, password string) (models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return models.UserRecord{}, ErrDuplicateEmail
	}

	var maxID int64
	for _, u := range r.users {
		maxID = max(maxID, u.ID)
	}

	rec := models.UserRecord{
		ID:       maxID + 1,
		Username: username,
		Email:    email,
		Password: password,
	}
	if r.opts.TrackTimestamps {
		rec.CreatedAt = r.opts.Now().UTC()
	}

	next := make([]models.UserRecord, len(r.users), len(r.users)+1)
	copy(next, r.users)
	next = append(next, rec)

	if err := r.persist(ctx, next); err != nil {
		return models.UserRecord{}, oops.With("email", email).Wrap(err)
	}

	r.replace(next)
	r.log.Debug(ctx, "user created", "user_id", rec.ID)
	return rec, nil
}

// Len is the number of registered users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// All returns a copy of every user in insertion order.
func (r *Registry) All() []models.UserRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.UserRecord, len(r.users))
	copy(out, r.users)
	return out
}

// Flush rewrites the current snapshot. It is called on teardown.
func (r *Registry) Flush(ctx context.Context) error {
	r.mu.RLock()
	users := make([]models.UserRecord, len(r.users))
	copy(users, r.users)
	r.mu.RUnlock()

	if len(users) == 0 {
		return nil
	}
	return r.persist(ctx, users)
}

func (r *Registry) persist(ctx context.Context, users []models.UserRecord) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return oops.In("registry").Code("REGISTRY_ENCODE_FAILED").Wrap(err)
	}
	err = r.store.Update(ctx, func(ctx context.Context, repo metadata.Repository) error {
		return repo.Set(ctx, common.KeyRegistry, raw)
	})
	if err != nil {
		return oops.In("registry").Code("REGISTRY_PERSIST_FAILED").With("key", common.KeyRegistry).Wrap(err)
	}
	return nil
}
