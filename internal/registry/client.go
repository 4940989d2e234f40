// ABOUTME: HTTP client for the remote agent registry's resolve endpoint
// ABOUTME: Looks up agent records by flat ID with a bounded timeout

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agentmcp/agentnet/internal/handle"
)

// ErrNotFound indicates the registry has no record for the requested ID.
// Non-200 responses and transport failures both surface as not found to the
// resolver, which treats discovery as best-effort.
var ErrNotFound = errors.New("agent not found in registry")

// DefaultBaseURL is the public registry queried when no override is configured.
const DefaultBaseURL = "https://registry.agentmcp.com"

// DefaultTimeout bounds a single registry query.
const DefaultTimeout = 5 * time.Second

// Client resolves flat IDs against a registry.
type Client interface {
	Resolve(ctx context.Context, flatID string) (*handle.Record, error)
}

// HTTPClient queries a remote registry over its HTTP resolve endpoint.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a registry client for the given base URL. An empty
// baseURL selects the public registry.
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// resolveResponse is the wire shape of GET {base}/resolve/{flat_id}.
type resolveResponse struct {
	Name         string   `json:"name"`
	Transport    string   `json:"transport"`
	Host         string   `json:"host"`
	Port         int      `json:"port"`
	Path         string   `json:"path"`
	Capabilities []string `json:"capabilities"`
	Languages    []string `json:"languages"`
	Frameworks   []string `json:"frameworks"`
	Description  string   `json:"description"`
	Version      string   `json:"version"`
}

// Resolve fetches the record for flatID. Returns ErrNotFound for any non-200
// status; transport errors are wrapped and returned as-is for the caller to
// log and degrade.
func (c *HTTPClient) Resolve(ctx context.Context, flatID string) (*handle.Record, error) {
	url := fmt.Sprintf("%s/resolve/%s", c.baseURL, flatID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building registry request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying registry: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrNotFound
	}

	var body resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding registry response: %w", err)
	}

	return recordFromResponse(body), nil
}

// recordFromResponse converts a wire response into a Record, applying the
// same defaults the registry itself would.
func recordFromResponse(body resolveResponse) *handle.Record {
	transport := body.Transport
	if transport == "" {
		transport = handle.TransportHTTPS
	}
	port := body.Port
	if port == 0 {
		port = handle.DefaultPort
	}
	version := body.Version
	if version == "" {
		version = "1.0"
	}

	rec := handle.NewRecord(
		handle.Parse(body.Name),
		handle.Endpoint{
			Transport: transport,
			Host:      body.Host,
			Port:      port,
			Path:      body.Path,
		},
		handle.Capabilities{
			Tags:       body.Capabilities,
			Languages:  body.Languages,
			Frameworks: body.Frameworks,
		},
	)
	rec.Description = body.Description
	rec.Version = version
	return &rec
}
