package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	logging "github.com/ipfs/go-log/v2"
	"github.com/radiantloop/notion-proxy/pkg/notion"
	"github.com/radiantloop/notion-proxy/pkg/types"
)

var log = logging.Logger("datasource")

// Resolver resolves the data source id associated with a database, memoizing
// successful lookups in a cache shared across invocations. Failures are
// non-fatal to callers: the proxy proceeds without the metadata rather than
// aborting the request.
type Resolver struct {
	cache  types.DataSourceCache
	client *notion.Client
}

// NewResolver creates a resolver backed by the given cache and upstream
// client.
func NewResolver(cache types.DataSourceCache, client *notion.Client) *Resolver {
	return &Resolver{cache: cache, client: client}
}

// Resolve returns the data source id for databaseID, fetching it from the
// upstream describe-database endpoint on a cache miss. An empty id with a
// nil error means the upstream reports no data source for the database; the
// absence is not cached, so a later call retries the lookup. Concurrent
// misses may both fetch and both store the same value, which is harmless.
func (r *Resolver) Resolve(ctx context.Context, token string, databaseID string) (string, error) {
	id, err := r.cache.Get(ctx, databaseID)
	if err == nil {
		log.Debugf("using cached data source id for database %s", databaseID)
		return id, nil
	}
	if !errors.Is(err, types.ErrKeyNotFound) {
		return "", fmt.Errorf("reading data source cache: %w", err)
	}

	res := r.client.Execute(ctx, http.MethodGet, notion.DescribeDatabaseEndpoint(databaseID), token, nil)
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("describing database %s: upstream status %d", databaseID, res.StatusCode)
	}

	body, ok := res.Data.(map[string]any)
	if !ok {
		return "", fmt.Errorf("describing database %s: unexpected response shape", databaseID)
	}
	id, _ = body["data_source_id"].(string)
	if id == "" {
		// No negative caching: a later call retries the lookup.
		log.Warnf("no data source id found for database %s", databaseID)
		return "", nil
	}

	if err := r.cache.Set(ctx, databaseID, id); err != nil {
		log.Errorf("caching data source id for database %s: %s", databaseID, err)
		return id, nil
	}
	log.Infof("retrieved and cached data source id: %s", id)
	return id, nil
}
