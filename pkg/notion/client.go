package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/radiantloop/notion-proxy/pkg/build"
)

var log = logging.Logger("notion")

const (
	// BaseURL is the root of the upstream Notion API.
	BaseURL = "https://api.notion.com/v1"
	// Version is the Notion API version sent with every request.
	Version = "2025-09-03"
)

// Result is the normalized outcome of one upstream call. Data holds the
// decoded JSON body, or {"raw_response": <text>} when the body is not JSON
// (the upstream serves HTML error pages on some failures).
type Result struct {
	StatusCode int
	Headers    map[string]string
	Data       any
}

// Client executes authenticated requests against the upstream API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides the upstream base URL (used in tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client used for upstream calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// NewClient creates an upstream API client.
func NewClient(opts ...Option) *Client {
	c := &Client{baseURL: BaseURL, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DescribeDatabaseEndpoint is the endpoint path describing a database.
func DescribeDatabaseEndpoint(databaseID string) string {
	return "databases/" + databaseID
}

// Execute sends one authenticated request to the upstream API and normalizes
// the response. It never returns an error: transport and encoding failures
// are converted into a synthetic 500 result so the caller always has an
// envelope to forward.
func (c *Client) Execute(ctx context.Context, method string, endpoint string, token string, body any) Result {
	url := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimPrefix(endpoint, "/"))

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errorResult(fmt.Errorf("encoding request body: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return errorResult(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", Version)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", build.UserAgent)

	log.Infow("making upstream request", "method", method, "url", url)

	res, err := c.http.Do(req)
	if err != nil {
		log.Errorf("upstream request failed: %s", err)
		return errorResult(err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		log.Errorf("reading upstream response: %s", err)
		return errorResult(fmt.Errorf("reading response body: %w", err))
	}

	var data any
	if err := json.Unmarshal(resBody, &data); err != nil {
		data = map[string]any{"raw_response": string(resBody)}
	}

	headers := make(map[string]string, len(res.Header))
	for key := range res.Header {
		headers[key] = res.Header.Get(key)
	}

	log.Infof("upstream response status: %d", res.StatusCode)
	return Result{StatusCode: res.StatusCode, Headers: headers, Data: data}
}

func errorResult(err error) Result {
	return Result{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{},
		Data: map[string]any{
			"error":   "Internal server error",
			"details": err.Error(),
		},
	}
}
