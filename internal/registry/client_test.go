// ABOUTME: Tests for the registry HTTP client
// ABOUTME: Covers successful resolution, not-found statuses, and transport failure

package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resolve/abc123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "@claude.code-assistant.agent",
			"transport": "https",
			"host": "claude.agentmcp.com",
			"port": 443,
			"path": "/mcp",
			"capabilities": ["code-review"],
			"languages": ["python"],
			"frameworks": ["anthropic"],
			"description": "AI coding assistant",
			"version": "2.1"
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	rec, err := client.Resolve(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, "claude.code-assistant", rec.Handle.Name)
	assert.Equal(t, "https://claude.agentmcp.com:443/mcp", rec.Endpoint.URL())
	assert.Equal(t, []string{"code-review"}, rec.Capabilities.Tags)
	assert.Equal(t, "2.1", rec.Version)
}

func TestHTTPClient_Resolve_Defaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "@minimal.agent", "host": "m.example.com"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	rec, err := client.Resolve(context.Background(), "id")
	require.NoError(t, err)

	assert.Equal(t, "https", rec.Endpoint.Transport)
	assert.Equal(t, 443, rec.Endpoint.Port)
	assert.Equal(t, "1.0", rec.Version)
}

func TestHTTPClient_Resolve_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPClient_Resolve_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.Resolve(context.Background(), "broken")
	// Any non-200 is treated as not found; discovery is best-effort.
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPClient_Resolve_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewHTTPClient(server.URL)
	_, err := client.Resolve(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestHTTPClient_Resolve_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewHTTPClient(server.URL)
	_, err := client.Resolve(ctx, "x")
	assert.Error(t, err)
}
