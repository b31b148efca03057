// Package duckduckgo provides a client for the DuckDuckGo Instant Answer API
// and the DuckDuckGo HTML search page.
package duckduckgo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

const (
	defaultAPIURL  = "https://api.duckduckgo.com"
	defaultHTMLURL = "https://html.duckduckgo.com"
	defaultUA      = "profile-cli/1.0"
)

// Client performs DuckDuckGo operations.
type Client interface {
	// InstantAnswer queries the Instant Answer API. It returns nil when the
	// answer has no heading, abstract, infobox or related topics.
	InstantAnswer(ctx context.Context, query string) (*InstantAnswer, error)
	// Search scrapes organic results from the HTML endpoint.
	Search(ctx context.Context, query string, max int) ([]Result, error)
}

// InstantAnswer is a normalized Instant Answer response.
type InstantAnswer struct {
	Heading      string
	AbstractText string
	AbstractURL  string
	Entity       string
	Infobox      []InfoboxItem
	Related      []Topic
}

// InfoboxItem is one label/value row of the infobox. Values are flattened
// to strings.
type InfoboxItem struct {
	Label  string
	Values []string
}

// Topic is one related topic.
type Topic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

// Result is one organic HTML search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Option configures the client.
type Option func(*httpClient)

// WithAPIURL overrides the Instant Answer base URL.
func WithAPIURL(u string) Option {
	return func(c *httpClient) {
		c.apiURL = u
	}
}

// WithHTMLURL overrides the HTML search base URL.
func WithHTMLURL(u string) Option {
	return func(c *httpClient) {
		c.htmlURL = u
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiURL    string
	htmlURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a DuckDuckGo client. No API key is required.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		apiURL:    defaultAPIURL,
		htmlURL:   defaultHTMLURL,
		userAgent: defaultUA,
		http:      &http.Client{Timeout: 20 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("duckduckgo: unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

type rawAnswer struct {
	Heading       string            `json:"Heading"`
	AbstractText  string            `json:"AbstractText"`
	Abstract      string            `json:"Abstract"`
	AbstractURL   string            `json:"AbstractURL"`
	Entity        string            `json:"Entity"`
	Infobox       json.RawMessage   `json:"Infobox"`
	RelatedTopics []json.RawMessage `json:"RelatedTopics"`
}

type rawInfoboxItem struct {
	Label string          `json:"label"`
	Value json.RawMessage `json:"value"`
}

func (c *httpClient) InstantAnswer(ctx context.Context, query string) (*InstantAnswer, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_redirect", "1")
	params.Set("no_html", "1")

	body, err := c.get(ctx, c.apiURL+"/?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var raw rawAnswer
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "duckduckgo: unmarshal instant answer")
	}

	ans := &InstantAnswer{
		Heading:      raw.Heading,
		AbstractText: raw.AbstractText,
		AbstractURL:  raw.AbstractURL,
		Entity:       raw.Entity,
		Infobox:      parseInfobox(raw.Infobox),
		Related:      parseTopics(raw.RelatedTopics),
	}
	if ans.AbstractText == "" {
		ans.AbstractText = raw.Abstract
	}
	if ans.Heading == "" && ans.AbstractText == "" && len(ans.Infobox) == 0 && len(ans.Related) == 0 {
		return nil, nil
	}
	return ans, nil
}

// parseInfobox accepts the {"content": [...]} object, a bare list of items,
// or the empty string DuckDuckGo returns when there is no infobox.
func parseInfobox(raw json.RawMessage) []InfoboxItem {
	if len(raw) == 0 {
		return nil
	}

	var items []rawInfoboxItem
	var wrapped struct {
		Content []rawInfoboxItem `json:"content"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Content) > 0 {
		items = wrapped.Content
	} else if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]InfoboxItem, 0, len(items))
	for _, it := range items {
		label := strings.TrimSpace(it.Label)
		if label == "" {
			continue
		}
		out = append(out, InfoboxItem{Label: label, Values: flattenValue(it.Value)})
	}
	return out
}

func flattenValue(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return []string{s}
		}
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		var out []string
		for _, v := range list {
			out = append(out, flattenValue(v)...)
		}
		return out
	}
	return nil
}

func parseTopics(raw []json.RawMessage) []Topic {
	var out []Topic
	for _, r := range raw {
		var group struct {
			Topic
			Topics []Topic `json:"Topics"`
		}
		if err := json.Unmarshal(r, &group); err != nil {
			continue
		}
		if group.Text != "" {
			out = append(out, group.Topic)
		}
		for _, t := range group.Topics {
			if t.Text != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

func (c *httpClient) Search(ctx context.Context, query string, max int) ([]Result, error) {
	body, err := c.get(ctx, c.htmlURL+"/html/?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, eris.Wrap(err, "duckduckgo: parse html")
	}

	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if max > 0 && len(results) >= max {
			return false
		}
		title := s.Find("a.result__a").First()
		if title.Length() == 0 {
			return true
		}
		href, _ := title.Attr("href")
		results = append(results, Result{
			Title:   strings.TrimSpace(title.Text()),
			URL:     resolveRedirect(href),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").First().Text()),
		})
		return true
	})
	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
