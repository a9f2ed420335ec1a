package frontend

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authfront/internal/logging"
	"github.com/dmitrijs2005/authfront/internal/registry"
	"github.com/dmitrijs2005/authfront/internal/session"
	"github.com/dmitrijs2005/authfront/internal/store"
)

// Context is everything one browsing context owns: its store, the registry
// loaded from it and the session restored from it. There is exactly one per
// process and it is passed explicitly; nothing here is global.
type Context struct {
	Store    *store.Store
	Registry *registry.Registry
	Session  *session.Manager

	log logging.Logger
}

// Init opens the store, loads (or seeds) the registry and restores the
// session.
func Init(ctx context.Context, so store.Options, ro registry.Options, log logging.Logger) (*Context, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	st, err := store.Open(ctx, so)
	if err != nil {
		return nil, err
	}

	reg := registry.New(st, ro, log.With("component", "registry"))
	c := &Context{
		Store:    st,
		Registry: reg,
		Session:  session.NewManager(st, reg, log.With("component", "session")),
		log:      log,
	}
	if err := c.Reload(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return c, nil
}

// Reload re-reads registry and session from the store, as a page reload
// would.
func (c *Context) Reload(ctx context.Context) error {
	if err := c.Registry.Load(ctx); err != nil {
		return err
	}
	return c.Session.Restore(ctx)
}

// Close flushes the registry and closes the store, releasing its lock. An
// in-memory store's contents are gone afterwards.
func (c *Context) Close(ctx context.Context) error {
	var errs []error
	if err := c.Registry.Flush(ctx); err != nil {
		logging.LogError(ctx, c.log, "flush registry", err)
		errs = append(errs, err)
	}
	if err := c.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
