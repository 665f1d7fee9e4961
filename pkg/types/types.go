package types

import (
	"context"
	"errors"
)

// ErrKeyNotFound means the key did not exist in the cache
var ErrKeyNotFound = errors.New("key not found")

// Cache describes a generic cache interface
type Cache[Key, Value any] interface {
	// Set adds (or replaces) an item in the cache.
	Set(ctx context.Context, key Key, value Value) error
	// Get retrieves an existing item from the cache. If the item does not
	// exist, it should return [ErrKeyNotFound].
	Get(ctx context.Context, key Key) (Value, error)
}

// DataSourceCache memoizes resolved data source ids by database id. Entries
// live for the lifetime of the backing store and, once populated, are never
// overwritten with a different value.
type DataSourceCache Cache[string, string]
