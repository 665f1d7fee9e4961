package aws

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	goredis "github.com/redis/go-redis/v9"

	"github.com/radiantloop/notion-proxy/pkg/datasource"
	"github.com/radiantloop/notion-proxy/pkg/notion"
	"github.com/radiantloop/notion-proxy/pkg/redis"
	"github.com/radiantloop/notion-proxy/pkg/secret"
	"github.com/radiantloop/notion-proxy/pkg/server"
	"github.com/radiantloop/notion-proxy/pkg/types"
)

// Config describes all the values required to setup the proxy from the
// environment.
type Config struct {
	aws.Config
	// SecretRef is the reference to the upstream API credential: a Secrets
	// Manager ARN or an SSM parameter name. Left unset, credential
	// resolution fails per-request rather than at startup, so the proxy
	// still answers preflight and reports the misconfiguration.
	SecretRef string
	// RedisURL enables the shared redis data source cache when non-empty.
	RedisURL    string
	RedisPasswd string
}

// FromEnv constructs the proxy configuration from the environment.
func FromEnv(ctx context.Context) Config {
	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		panic(fmt.Errorf("loading aws default config: %w", err))
	}

	return Config{
		Config:      awsConfig,
		SecretRef:   os.Getenv("NOTION_API_SECRET_ARN"),
		RedisURL:    os.Getenv("DATA_SOURCE_REDIS_URL"),
		RedisPasswd: os.Getenv("DATA_SOURCE_REDIS_PASSWD"),
	}
}

// Construct constructs a [server.Proxy] from AWS deps for Lambda functions.
func Construct(cfg Config) (*server.Proxy, error) {
	var cache types.DataSourceCache
	if cfg.RedisURL != "" {
		cache = redis.NewDataSourceStore(goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPasswd,
			TLSConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		}))
	} else {
		cache = datasource.NewDatastoreCache(dssync.MutexWrap(datastore.NewMapDatastore()))
	}

	client := notion.NewClient()
	resolver := secret.FromConfig(cfg.Config, cfg.SecretRef)
	return server.New(resolver, datasource.NewResolver(cache, client), client), nil
}
