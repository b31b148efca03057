// Package opensanctions provides a client for the OpenSanctions match API.
package opensanctions

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://api.opensanctions.org"
	defaultDataset = "default"
)

// Client performs OpenSanctions operations.
type Client interface {
	// Match screens one query entity against the dataset.
	Match(ctx context.Context, q Query) ([]Result, error)
}

// Query describes the entity to screen.
type Query struct {
	Schema     string
	Name       string
	Country    string
	BirthDate  string
	Occupation string
}

// Result is one scored candidate.
type Result struct {
	ID         string              `json:"id"`
	Caption    string              `json:"caption"`
	Schema     string              `json:"schema"`
	Score      float64             `json:"score"`
	Match      bool                `json:"match"`
	Datasets   []string            `json:"datasets"`
	Properties map[string][]string `json:"properties"`
}

// Property returns the values of a property, e.g. "alias", "country",
// "topics", "program".
func (r Result) Property(name string) []string {
	return r.Properties[name]
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithDataset selects the dataset to match against.
func WithDataset(ds string) Option {
	return func(c *httpClient) {
		c.dataset = ds
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	dataset string
	http    *http.Client
}

// NewClient creates an OpenSanctions client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		dataset: defaultDataset,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type matchRequest struct {
	Queries map[string]matchQuery `json:"queries"`
}

type matchQuery struct {
	Schema     string              `json:"schema"`
	Properties map[string][]string `json:"properties"`
}

type matchResponse struct {
	Responses map[string]struct {
		Results []Result `json:"results"`
	} `json:"responses"`
}

func (c *httpClient) Match(ctx context.Context, q Query) ([]Result, error) {
	schema := q.Schema
	if schema == "" {
		schema = "LegalEntity"
	}
	props := map[string][]string{"name": {q.Name}}
	if q.Country != "" {
		props["country"] = []string{q.Country}
	}
	if q.BirthDate != "" {
		props["birthDate"] = []string{q.BirthDate}
	}
	if q.Occupation != "" {
		props["position"] = []string{q.Occupation}
	}

	body, err := json.Marshal(matchRequest{Queries: map[string]matchQuery{
		"q": {Schema: schema, Properties: props},
	}})
	if err != nil {
		return nil, eris.Wrap(err, "opensanctions: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/match/"+c.dataset, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "opensanctions: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "opensanctions: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "opensanctions: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("opensanctions: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result matchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "opensanctions: unmarshal response")
	}
	return result.Responses["q"].Results, nil
}
