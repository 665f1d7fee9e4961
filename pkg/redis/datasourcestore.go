package redis

import (
	"github.com/radiantloop/notion-proxy/pkg/types"
)

const dataSourceKeyPrefix = "notion-proxy:data-source:"

// DataSourceStore caches resolved data source ids in redis, shared across
// proxy containers.
type DataSourceStore = Store[string, string]

var _ types.DataSourceCache = (*DataSourceStore)(nil)

// NewDataSourceStore creates a [types.DataSourceCache] on top of redis.
func NewDataSourceStore(client Client) *DataSourceStore {
	return NewStore(
		func(data string) (string, error) { return data, nil },
		func(id string) (string, error) { return id, nil },
		func(databaseID string) string { return dataSourceKeyPrefix + databaseID },
		client,
	)
}
