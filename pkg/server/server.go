package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/radiantloop/notion-proxy/pkg/build"
	"github.com/radiantloop/notion-proxy/pkg/datasource"
	"github.com/radiantloop/notion-proxy/pkg/notion"
	"github.com/radiantloop/notion-proxy/pkg/secret"
)

var log = logging.Logger("server")

const (
	// DatabaseID is the Notion database this proxy fronts.
	DatabaseID = "40c4cef5c8cd4cb4891a35c3710df6e9"
	// ProxyPrefix is the path segment stripped from inbound paths before
	// they are forwarded upstream.
	ProxyPrefix = "/lambda-proxy"
)

// corsHeaders is the fixed header set applied to every response so browser
// clients can call the proxy cross-origin.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,Authorization,X-Requested-With",
	"Access-Control-Allow-Methods": "GET,POST,PATCH,DELETE,OPTIONS",
	"Content-Type":                 "application/json",
}

// Proxy forwards client requests to the upstream API, injecting the
// server-held credential so clients never see it. It holds no per-request
// state; the data source cache is the only state shared across invocations.
type Proxy struct {
	secrets     *secret.Resolver
	dataSources *datasource.Resolver
	notion      *notion.Client
}

// New creates a proxy from its collaborators.
func New(secrets *secret.Resolver, dataSources *datasource.Resolver, client *notion.Client) *Proxy {
	return &Proxy{secrets: secrets, dataSources: dataSources, notion: client}
}

// ListenAndServe creates a new proxy HTTP server, and starts it up.
func ListenAndServe(addr string, proxy *Proxy) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: NewServer(proxy),
	}
	log.Infof("Listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewServer creates a new proxy HTTP server. Every path and method routes
// through the proxy handler; route filtering happens inside it.
func NewServer(proxy *Proxy) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", proxy.Handler())
	return mux
}

// Handler returns the proxy handler wrapped in the top-level error boundary:
// any panic escaping the pipeline becomes a generic 500 envelope.
func (p *Proxy) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if cause := recover(); cause != nil {
				log.Errorf("unexpected error handling %s %s: %v", r.Method, r.URL.Path, cause)
				respond(w, http.StatusInternalServerError, errorBody("Internal server error", fmt.Sprintf("%v", cause)))
			}
		}()
		p.handle(w, r)
	})
}

// handle runs the proxy pipeline: preflight, parse, authenticate, route,
// resolve metadata, forward, annotate, respond.
func (p *Proxy) handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqLog := log.With("request_id", uuid.NewString(), "method", r.Method, "path", r.URL.Path)

	if r.Method == http.MethodOptions {
		respond(w, http.StatusOK, map[string]any{"message": "CORS preflight"})
		return
	}

	reqLog.Infow("processing request")

	body, err := parseBody(r)
	if err != nil {
		reqLog.Errorf("invalid JSON in request body: %s", err)
		respond(w, http.StatusBadRequest, errorBody("Invalid JSON in request body", err.Error()))
		return
	}

	token, err := p.secrets.Resolve(ctx)
	if err != nil {
		// The cause is logged but never echoed to the client: it may name
		// the secret reference or backend.
		reqLog.Errorf("failed to resolve credential: %s", err)
		respond(w, http.StatusInternalServerError, errorBody("Authentication configuration error", "Failed to retrieve API credentials"))
		return
	}

	if !strings.Contains(r.URL.Path, "databases") || !strings.Contains(r.URL.Path, DatabaseID) {
		respond(w, http.StatusNotFound, errorBody("Endpoint not found", fmt.Sprintf("Path %s is not supported by this proxy", r.URL.Path)))
		return
	}

	// Advisory only: the request proceeds whether or not the data source id
	// resolves.
	dataSourceID, err := p.dataSources.Resolve(ctx, token, DatabaseID)
	if err != nil {
		reqLog.Errorf("resolving data source id: %s", err)
	}

	endpoint := buildEndpoint(r.URL.Path, queryParameters(r))
	result := p.notion.Execute(ctx, r.Method, endpoint, token, body)

	// Annotate only JSON objects; arrays and scalars pass through untouched.
	if data, ok := result.Data.(map[string]any); ok {
		var resolvedID any
		if dataSourceID != "" {
			resolvedID = dataSourceID
		}
		data["_metadata"] = map[string]any{
			"database_id":    DatabaseID,
			"data_source_id": resolvedID,
			"api_version":    notion.Version,
			"proxy_version":  build.Version,
		}
	}

	respond(w, result.StatusCode, result.Data)
}

// parseBody decodes the request body as JSON when one is present. A nil
// return with nil error means there was no body to forward.
func parseBody(r *http.Request) (any, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// queryParameters flattens the inbound query to the single-valued map shape
// of the gateway event.
func queryParameters(r *http.Request) map[string]string {
	values := r.URL.Query()
	if len(values) == 0 {
		return nil
	}
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return params
}

// buildEndpoint converts the inbound path into the upstream endpoint: the
// proxy prefix and one leading slash are stripped and query parameters are
// re-appended. Keys and values are joined verbatim, unencoded, matching the
// behavior clients of this proxy already depend on. Known limitation: values
// containing '&', '=' or non-ASCII characters will corrupt the query string.
func buildEndpoint(path string, params map[string]string) string {
	endpoint := strings.TrimPrefix(strings.Replace(path, ProxyPrefix, "", 1), "/")
	if len(params) == 0 {
		return endpoint
	}
	pairs := make([]string, 0, len(params))
	for key, value := range params {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, value))
	}
	queryString := strings.Join(pairs, "&")
	if strings.Contains(endpoint, "?") {
		return endpoint + "&" + queryString
	}
	return endpoint + "?" + queryString
}

func errorBody(message string, details string) map[string]any {
	return map[string]any{"error": message, "details": details}
}

// respond writes the envelope: status code, the fixed CORS header set and a
// JSON-encoded body.
func respond(w http.ResponseWriter, statusCode int, body any) {
	for key, value := range corsHeaders {
		w.Header().Set(key, value)
	}
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("encoding response body: %s", err)
	}
}
