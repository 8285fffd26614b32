// Package prefs persists small client preferences (auth token, theme) as
// string key/value pairs in the local SQLite database.
package prefs

import (
	"context"
)

type Repository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
