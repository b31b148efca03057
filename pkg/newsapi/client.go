// Package newsapi provides a client for the NewsAPI /v2/everything endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://newsapi.org"

// Client performs NewsAPI operations.
type Client interface {
	Everything(ctx context.Context, query string, pageSize int) (*Response, error)
}

// Response is the /v2/everything response.
type Response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message,omitempty"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Article is one news article.
type Article struct {
	Source      Source     `json:"source"`
	Author      string     `json:"author"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"publishedAt"`
	Content     string     `json:"content"`
}

// Source names the publisher.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithLanguage restricts articles to a language (default "en").
func WithLanguage(lang string) Option {
	return func(c *httpClient) {
		c.language = lang
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey   string
	baseURL  string
	language string
	http     *http.Client
}

// NewClient creates a NewsAPI client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		language: "en",
		http:     &http.Client{Timeout: 20 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Everything(ctx context.Context, query string, pageSize int) (*Response, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "relevancy")
	if c.language != "" {
		params.Set("language", c.language)
	}
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "newsapi: create request")
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "newsapi: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "newsapi: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("newsapi: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "newsapi: unmarshal response")
	}
	if result.Status != "ok" {
		return nil, eris.Errorf("newsapi: %s: %s", result.Code, result.Message)
	}
	return &result, nil
}
