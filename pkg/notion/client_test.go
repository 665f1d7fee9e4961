package notion_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radiantloop/notion-proxy/pkg/notion"
)

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("sends an authenticated GET and decodes the JSON response", func(t *testing.T) {
		var gotReq *http.Request
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotReq = r.Clone(ctx)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"results": []}`))
		}))
		defer svr.Close()

		client := notion.NewClient(notion.WithBaseURL(svr.URL))
		result := client.Execute(ctx, http.MethodGet, "databases/abc123/query", "secret_token_123", nil)

		require.Equal(t, http.StatusOK, result.StatusCode)
		require.Equal(t, map[string]any{"results": []any{}}, result.Data)
		require.Equal(t, "application/json", result.Headers["Content-Type"])

		require.Equal(t, "/databases/abc123/query", gotReq.URL.Path)
		require.Equal(t, "Bearer secret_token_123", gotReq.Header.Get("Authorization"))
		require.Equal(t, notion.Version, gotReq.Header.Get("Notion-Version"))
		require.Equal(t, "application/json", gotReq.Header.Get("Content-Type"))
	})

	t.Run("strips at most one leading slash from the endpoint", func(t *testing.T) {
		var gotPath string
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(`{}`))
		}))
		defer svr.Close()

		client := notion.NewClient(notion.WithBaseURL(svr.URL))
		client.Execute(ctx, http.MethodGet, "/databases/abc123", "secret_token_123", nil)
		require.Equal(t, "/databases/abc123", gotPath)
	})

	t.Run("serializes the request body as JSON", func(t *testing.T) {
		var gotBody []byte
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			w.Write([]byte(`{"object": "list"}`))
		}))
		defer svr.Close()

		client := notion.NewClient(notion.WithBaseURL(svr.URL))
		result := client.Execute(ctx, http.MethodPost, "databases/abc123/query", "secret_token_123", map[string]any{"page_size": 50})

		require.Equal(t, http.StatusOK, result.StatusCode)
		require.JSONEq(t, `{"page_size": 50}`, string(gotBody))
	})

	t.Run("falls back to raw text for non-JSON responses", func(t *testing.T) {
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>Bad Gateway</html>"))
		}))
		defer svr.Close()

		client := notion.NewClient(notion.WithBaseURL(svr.URL))
		result := client.Execute(ctx, http.MethodGet, "databases/abc123", "secret_token_123", nil)

		// The fallback preserves the real upstream status instead of masking
		// it with a parse failure.
		require.Equal(t, http.StatusBadGateway, result.StatusCode)
		require.Equal(t, map[string]any{"raw_response": "<html>Bad Gateway</html>"}, result.Data)
	})

	t.Run("passes upstream error statuses through", func(t *testing.T) {
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"object": "error", "status": 401}`))
		}))
		defer svr.Close()

		client := notion.NewClient(notion.WithBaseURL(svr.URL))
		result := client.Execute(ctx, http.MethodGet, "databases/abc123", "bad_token", nil)

		require.Equal(t, http.StatusUnauthorized, result.StatusCode)
	})

	t.Run("converts transport faults into a synthetic 500 result", func(t *testing.T) {
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		svr.Close() // refuse connections

		client := notion.NewClient(notion.WithBaseURL(svr.URL))
		result := client.Execute(ctx, http.MethodGet, "databases/abc123", "secret_token_123", nil)

		require.Equal(t, http.StatusInternalServerError, result.StatusCode)
		data, ok := result.Data.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "Internal server error", data["error"])
		require.NotEmpty(t, data["details"])
	})

	t.Run("converts unmarshalable bodies into a synthetic 500 result", func(t *testing.T) {
		client := notion.NewClient(notion.WithBaseURL("http://localhost:1"))
		result := client.Execute(ctx, http.MethodPost, "databases/abc123/query", "secret_token_123", map[string]any{"bad": json.RawMessage(`{`)})

		require.Equal(t, http.StatusInternalServerError, result.StatusCode)
	})
}
