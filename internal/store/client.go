// Package store is the HTTP client for the external memory store: the
// write path submits text payloads with metadata, the read path searches
// stored memories. Ranking, importance scoring, and consolidation all
// happen on the far side of this interface.
package store

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mnemo-sh/mnemo/pkg/models"
)

// SourceTag identifies this system in submission metadata.
const SourceTag = "mnemo"

// Version is the source-version string carried in metadata. Overridden at
// build time via -ldflags.
var Version = "dev"

// Client talks to the external memory store. Calls carry no local
// timeout; they rely on the host's overall invocation deadline.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a client for the store at baseURL. An empty apiKey
// produces an unconfigured client whose callers degrade to no-ops.
func NewClient(baseURL, apiKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{},
		log:     log,
	}
}

// Configured reports whether a credential is available. Every write/read
// path checks this and degrades rather than failing.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Submit sends one text payload to the store. The store may fan one
// submission out into multiple memories; the count comes back in the
// result and is opaque here.
func (c *Client) Submit(ctx context.Context, text string, metadata map[string]any) (*models.SubmitResult, error) {
	body, err := json.Marshal(models.SubmitRequest{Text: text, Metadata: metadata})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/memories", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	var result models.SubmitResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search queries the store. Results keep the store's relevance ordering.
// An empty scopeID searches across scopes.
func (c *Client) Search(ctx context.Context, query string, limit int, mode, scopeID string) (*models.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	if mode != "" {
		params.Set("mode", mode)
	}
	if scopeID != "" {
		params.Set("scope", scopeID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/memories/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	var result models.SearchResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks store reachability.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("store: %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// BaseMetadata builds the metadata fields present on every submission.
// Event-specific fields (session id, capture mode, task/agent ids) are
// layered on by the caller.
func BaseMetadata(project, scopeID string, source Source) map[string]any {
	return map[string]any{
		"source":             SourceTag,
		"source_version":     Version,
		"project":            project,
		"generated_at":       time.Now().Format(time.RFC3339),
		"scope":              scopeID,
		"extraction_context": ExtractionContext(source),
	}
}
