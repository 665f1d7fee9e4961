package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/radiantloop/notion-proxy/pkg/server"
)

var queryCmd = &cli.Command{
	Name:  "query",
	Usage: "query the proxied database through a running proxy and print out the results",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "url",
			Aliases: []string{"u"},
			Value:   "http://localhost:9000",
			Usage:   "URL of the proxy to query.",
		},
		&cli.StringFlag{
			Name:    "database",
			Aliases: []string{"d"},
			Value:   server.DatabaseID,
			Usage:   "ID of the database to query.",
		},
		&cli.IntFlag{
			Name:  "page-size",
			Value: 50,
			Usage: "number of results per page.",
		},
	},
	Action: func(cCtx *cli.Context) error {
		url := fmt.Sprintf("%s/databases/%s/query", strings.TrimSuffix(cCtx.String("url"), "/"), cCtx.String("database"))

		body, err := json.Marshal(map[string]any{"page_size": cCtx.Int("page-size")})
		if err != nil {
			return fmt.Errorf("encoding query body: %w", err)
		}

		req, err := http.NewRequestWithContext(cCtx.Context, http.MethodPost, url, strings.NewReader(string(body)))
		if err != nil {
			return fmt.Errorf("building query request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		res, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("querying proxy: %w", err)
		}
		defer res.Body.Close()

		var result any
		if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
			return fmt.Errorf("decoding proxy response: %w", err)
		}

		if res.StatusCode != http.StatusOK {
			log.Errorf("proxy returned status %d", res.StatusCode)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	},
}
