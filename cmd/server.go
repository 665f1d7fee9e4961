package main

import (
	"fmt"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/urfave/cli/v2"

	"github.com/radiantloop/notion-proxy/pkg/aws"
	"github.com/radiantloop/notion-proxy/pkg/datasource"
	"github.com/radiantloop/notion-proxy/pkg/notion"
	"github.com/radiantloop/notion-proxy/pkg/secret"
	"github.com/radiantloop/notion-proxy/pkg/server"
)

var serverCmd = &cli.Command{
	Name:  "server",
	Usage: "HTTP server interface to the proxy",
	Subcommands: []*cli.Command{
		{
			Name:  "start",
			Usage: "start a proxy HTTP server",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "port",
					Aliases: []string{"p"},
					Value:   9000,
					Usage:   "port to bind the server to",
				},
				&cli.StringFlag{
					Name:    "token",
					Aliases: []string{"t"},
					EnvVars: []string{"NOTION_TOKEN"},
					Usage:   "static Notion API token (skips the AWS secret backend)",
				},
				&cli.StringFlag{
					Name:    "secret-ref",
					EnvVars: []string{"NOTION_API_SECRET_ARN"},
					Usage:   "Secrets Manager ARN or SSM parameter name holding the Notion API token",
				},
				&cli.StringFlag{
					Name:    "redis-url",
					Aliases: []string{"redis"},
					EnvVars: []string{"DATA_SOURCE_REDIS_URL"},
					Usage:   "url for a running redis database to share the data source cache",
				},
				&cli.StringFlag{
					Name:    "redis-passwd",
					Aliases: []string{"rp"},
					EnvVars: []string{"DATA_SOURCE_REDIS_PASSWD"},
					Usage:   "passwd for redis",
				},
			},
			Action: func(cCtx *cli.Context) error {
				addr := fmt.Sprintf(":%d", cCtx.Int("port"))

				var proxy *server.Proxy
				if cCtx.IsSet("token") {
					// local development path: fixed token, in-memory cache
					client := notion.NewClient()
					cache := datasource.NewDatastoreCache(dssync.MutexWrap(datastore.NewMapDatastore()))
					resolver := secret.NewResolver(secret.StaticSource(cCtx.String("token")), "static")
					proxy = server.New(resolver, datasource.NewResolver(cache, client), client)
				} else {
					cfg := aws.FromEnv(cCtx.Context)
					cfg.SecretRef = cCtx.String("secret-ref")
					cfg.RedisURL = cCtx.String("redis-url")
					cfg.RedisPasswd = cCtx.String("redis-passwd")
					var err error
					proxy, err = aws.Construct(cfg)
					if err != nil {
						return fmt.Errorf("constructing proxy: %w", err)
					}
				}

				return server.ListenAndServe(addr, proxy)
			},
		},
	},
}
