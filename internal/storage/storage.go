// Package storage provides the key-value stores that hold persisted client
// state. Each value is written as a single overwrite of one key.
package storage

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned for operations on an empty key.
var ErrEmptyKey = errors.New("storage key is empty")

// Store is a string key-value store.
type Store interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the value under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	Close() error
}
