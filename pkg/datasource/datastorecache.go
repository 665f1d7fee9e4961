package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/go-datastore"
	"github.com/radiantloop/notion-proxy/pkg/types"
)

// DatastoreCache adapts a [datastore.Datastore] to [types.DataSourceCache].
// Backed by a mutex-wrapped map datastore it is the default in-memory cache,
// living as long as the hosting process.
type DatastoreCache struct {
	ds datastore.Datastore
}

var _ types.DataSourceCache = (*DatastoreCache)(nil)

// NewDatastoreCache creates a cache on top of ds.
func NewDatastoreCache(ds datastore.Datastore) *DatastoreCache {
	return &DatastoreCache{ds: ds}
}

// Get implements [types.DataSourceCache].
func (c *DatastoreCache) Get(ctx context.Context, key string) (string, error) {
	data, err := c.ds.Get(ctx, datastore.NewKey(key))
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return "", types.ErrKeyNotFound
		}
		return "", fmt.Errorf("error accessing datastore: %w", err)
	}
	return string(data), nil
}

// Set implements [types.DataSourceCache].
func (c *DatastoreCache) Set(ctx context.Context, key string, value string) error {
	err := c.ds.Put(ctx, datastore.NewKey(key), []byte(value))
	if err != nil {
		return fmt.Errorf("error accessing datastore: %w", err)
	}
	return nil
}
