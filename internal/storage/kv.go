// Package storage persists the client's session between runs.
//
// A KV is the terminal equivalent of browser local storage: a flat
// string-to-string map that survives restarts. SessionStore is the only
// consumer and the only code that knows which keys hold the session.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrStorageUnavailable is returned when the backing store cannot be
	// read or written (disk full, permissions, Redis down).
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrMalformedStoredData is returned by SessionStore.Load after it has
	// found and cleared a session that could not be decoded.
	ErrMalformedStoredData = errors.New("malformed stored data")
)

// KV is a string key/value store.
type KV interface {
	// GetItem returns the value for key. ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}
