// Package kv is the key/value persistence adapter the record store mirrors
// into. Backends store opaque bytes; the typed helpers serialize values as
// JSON and treat unreadable or corrupt data the same as a missing key.
package kv

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Storage is a byte-level key/value store.
type Storage interface {
	// Get returns the value stored under key. ok is false if the key was
	// never set or has been removed.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key, overwriting any prior value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

// Get decodes the JSON value stored under key into a T. It returns def when
// the key is absent, the backend fails, or the stored bytes do not parse.
func Get[T any](ctx context.Context, s Storage, key string, def T) T {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		zap.L().Warn("kv: read failed, using default",
			zap.String("key", key),
			zap.Error(err),
		)
		return def
	}
	if !ok {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		zap.L().Warn("kv: stored value is corrupt, using default",
			zap.String("key", key),
			zap.Error(err),
		)
		return def
	}
	return v
}

// Set serializes v as JSON and stores it under key.
func Set[T any](ctx context.Context, s Storage, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "kv: marshal %s", key)
	}
	return eris.Wrapf(s.Set(ctx, key, raw), "kv: set %s", key)
}

// Open returns the backend named by driver.
func Open(driver, path string) (Storage, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(path)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, eris.Errorf("kv: unknown driver %q", driver)
	}
}
