package provider

import (
	"context"
	"strings"
	"time"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/pkg/duckduckgo"
	"github.com/sells-group/profile-cli/pkg/jina"
	"github.com/sells-group/profile-cli/pkg/newsapi"
	"github.com/sells-group/profile-cli/pkg/serpapi"
	"github.com/sells-group/profile-cli/pkg/serper"
)

// SerperSearch is Google web search through serper.dev.
type SerperSearch struct {
	client serper.Client
}

// NewSerperSearch creates a SerperSearch.
func NewSerperSearch(client serper.Client) *SerperSearch {
	return &SerperSearch{client: client}
}

func (s *SerperSearch) Name() string           { return "serper" }
func (s *SerperSearch) Capability() Capability { return CapWebSearch }

// Search implements Searcher.
func (s *SerperSearch) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	resp, err := s.client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	out := make([]model.SearchResult, 0, len(resp.Organic))
	for _, r := range resp.Organic {
		out = append(out, model.SearchResult{
			Title:       r.Title,
			URL:         r.Link,
			Snippet:     r.Snippet,
			PublishedAt: parseLooseDate(r.Date),
			SourceName:  s.Name(),
		})
	}
	return limit(out, maxResults), nil
}

// SerpAPISearch is Google organic search through SerpAPI.
type SerpAPISearch struct {
	client serpapi.Client
}

// NewSerpAPISearch creates a SerpAPISearch.
func NewSerpAPISearch(client serpapi.Client) *SerpAPISearch {
	return &SerpAPISearch{client: client}
}

func (s *SerpAPISearch) Name() string           { return "serpapi" }
func (s *SerpAPISearch) Capability() Capability { return CapWebSearch }

// Search implements Searcher.
func (s *SerpAPISearch) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	resp, err := s.client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	out := make([]model.SearchResult, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		out = append(out, model.SearchResult{
			Title:       r.Title,
			URL:         r.Link,
			Snippet:     r.Snippet,
			PublishedAt: parseLooseDate(r.Date),
			SourceName:  s.Name(),
		})
	}
	return limit(out, maxResults), nil
}

// DuckDuckGoSearch scrapes DuckDuckGo's HTML results.
type DuckDuckGoSearch struct {
	client duckduckgo.Client
}

// NewDuckDuckGoSearch creates a DuckDuckGoSearch.
func NewDuckDuckGoSearch(client duckduckgo.Client) *DuckDuckGoSearch {
	return &DuckDuckGoSearch{client: client}
}

func (s *DuckDuckGoSearch) Name() string           { return "duckduckgo" }
func (s *DuckDuckGoSearch) Capability() Capability { return CapWebSearch }

// Search implements Searcher.
func (s *DuckDuckGoSearch) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	results, err := s.client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	out := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, model.SearchResult{
			Title:      r.Title,
			URL:        r.URL,
			Snippet:    r.Snippet,
			SourceName: s.Name(),
		})
	}
	return limit(out, maxResults), nil
}

// JinaSearch is the Jina AI search endpoint.
type JinaSearch struct {
	client jina.Client
}

// NewJinaSearch creates a JinaSearch.
func NewJinaSearch(client jina.Client) *JinaSearch {
	return &JinaSearch{client: client}
}

func (s *JinaSearch) Name() string           { return "jina" }
func (s *JinaSearch) Capability() Capability { return CapWebSearch }

// Search implements Searcher.
func (s *JinaSearch) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	resp, err := s.client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	out := make([]model.SearchResult, 0, len(resp.Data))
	for _, r := range resp.Data {
		out = append(out, model.SearchResult{
			Title:       r.Title,
			URL:         r.URL,
			Snippet:     r.Content,
			Description: r.Description,
			PublishedAt: parseLooseDate(r.Date),
			SourceName:  s.Name(),
		})
	}
	return limit(out, maxResults), nil
}

// NewsAPISearch searches news articles through NewsAPI.
type NewsAPISearch struct {
	client newsapi.Client
}

// NewNewsAPISearch creates a NewsAPISearch.
func NewNewsAPISearch(client newsapi.Client) *NewsAPISearch {
	return &NewsAPISearch{client: client}
}

func (s *NewsAPISearch) Name() string           { return "newsapi" }
func (s *NewsAPISearch) Capability() Capability { return CapNewsSearch }

// Search implements Searcher.
func (s *NewsAPISearch) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	resp, err := s.client.Everything(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	out := make([]model.SearchResult, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		out = append(out, model.SearchResult{
			Title:       a.Title,
			URL:         a.URL,
			Snippet:     a.Content,
			Description: a.Description,
			PublishedAt: a.PublishedAt,
			SourceName:  s.Name(),
		})
	}
	return limit(out, maxResults), nil
}

func limit[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

var looseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// parseLooseDate parses the handful of absolute date formats search APIs
// return. Relative dates ("3 days ago") yield nil.
func parseLooseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
