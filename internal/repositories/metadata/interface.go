// Package metadata implements the per-context key/value store that stands in
// for the browser's session storage: the registry snapshot and the session
// marker are each saved under a well-known key.
package metadata

import (
	"context"
)

// Repository is a flat key/value table. Set replaces the whole value.
type Repository interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
