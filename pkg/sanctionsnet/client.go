// Package sanctionsnet provides a client for the sanctions.network RPC API.
package sanctionsnet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.sanctions.network"

// Client performs sanctions.network operations.
type Client interface {
	// Search calls the search_sanctions RPC. The service matches loosely;
	// callers are expected to post-filter names.
	Search(ctx context.Context, name string) ([]Record, error)
}

// Record is one sanctioned target.
type Record struct {
	ID         int64    `json:"id"`
	Source     string   `json:"source"`
	SourceID   string   `json:"source_id"`
	TargetType string   `json:"target_type"`
	Names      []string `json:"names"`
	Remarks    string   `json:"remarks"`
	ListedOn   string   `json:"listed_on"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a sanctions.network client. No API key is required.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, name string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/rpc/search_sanctions?name="+url.QueryEscape(name), nil)
	if err != nil {
		return nil, eris.Wrap(err, "sanctionsnet: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "sanctionsnet: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "sanctionsnet: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("sanctionsnet: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, eris.Wrap(err, "sanctionsnet: unmarshal response")
	}
	return records, nil
}
