// Package kv wraps the remote key-value backend behind a small store
// interface plus a JSON client with soft-failure semantics: callers get the
// empty result back on any transport problem, never a panic.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get when a key is missing or expired.
var ErrNotFound = errors.New("kv: key not found")

// Store is a remote key-value backend. Values are opaque strings; every
// write carries a TTL.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
