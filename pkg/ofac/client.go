// Package ofac provides a client for the OFAC Sanctions List Service (SLS).
package ofac

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://sanctionslistservice.ofac.treas.gov"
	defaultUA      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client performs OFAC SLS operations.
type Client interface {
	// Alive reports whether the service is reachable.
	Alive(ctx context.Context) error
	// Entities fetches the entities of a list, optionally narrowed to a
	// program. An empty list defaults to SDN.
	Entities(ctx context.Context, list, program string) ([]Entity, error)
	// SanctionsLists returns the names of the published lists.
	SanctionsLists(ctx context.Context) ([]string, error)
	// Entity fetches the XML record of a single entity.
	Entity(ctx context.Context, id string) (*EntityDetail, error)
}

// Entity is one restricted party.
type Entity struct {
	ID         FlexID    `json:"id"`
	Name       string    `json:"name"`
	EntityType string    `json:"type"`
	Programs   []string  `json:"programs"`
	Lists      []string  `json:"lists"`
	Aliases    []string  `json:"aliases"`
	Remarks    string    `json:"remarks"`
	Addresses  []Address `json:"addresses"`
}

// Address is an entity address.
type Address struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// Countries returns the non-empty address countries.
func (e Entity) Countries() []string {
	var out []string
	for _, a := range e.Addresses {
		if c := strings.TrimSpace(a.Country); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// FlexID accepts both numeric and string identifiers.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = FlexID(n.String())
	return nil
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default service URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithUserAgent overrides the browser User-Agent the service expects.
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
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates an OFAC SLS client. No API key is required.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		userAgent: defaultUA,
		http:      &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, path, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, eris.Wrap(err, "ofac: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ofac: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ofac: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ofac: unexpected status %d for %s", resp.StatusCode, path)
	}
	return body, nil
}

func (c *httpClient) Alive(ctx context.Context) error {
	_, err := c.get(ctx, "/alive", "*/*")
	return err
}

func (c *httpClient) Entities(ctx context.Context, list, program string) ([]Entity, error) {
	if list == "" {
		list = "SDN"
	}
	params := url.Values{}
	params.Set("list", list)
	if program != "" {
		params.Set("program", program)
	}

	body, err := c.get(ctx, "/entities?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}

	// The service answers either {"entities": [...]} or a bare array.
	var wrapped struct {
		Entities []Entity `json:"entities"`
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &wrapped.Entities); err != nil {
			return nil, eris.Wrap(err, "ofac: unmarshal entities")
		}
		return wrapped.Entities, nil
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, eris.Wrap(err, "ofac: unmarshal entities")
	}
	return wrapped.Entities, nil
}

func (c *httpClient) SanctionsLists(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/sanctions-lists", "application/json")
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "ofac: unmarshal sanctions lists")
	}

	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Name      string `json:"name"`
			ShortName string `json:"shortName"`
		}
		if err := json.Unmarshal(r, &obj); err != nil {
			return nil, eris.Wrap(err, "ofac: unmarshal sanctions list entry")
		}
		if obj.ShortName != "" {
			out = append(out, obj.ShortName)
		} else if obj.Name != "" {
			out = append(out, obj.Name)
		}
	}
	return out, nil
}

func (c *httpClient) Entity(ctx context.Context, id string) (*EntityDetail, error) {
	if _, err := strconv.Atoi(id); err != nil {
		return nil, eris.Errorf("ofac: invalid entity id %q", id)
	}
	body, err := c.get(ctx, "/entities/"+id, "application/xml")
	if err != nil {
		return nil, err
	}
	return ParseEntityXML(bytes.NewReader(body))
}

// SearchEntities filters entities locally: the entity name must contain
// name (case-insensitive) and, when country is set, one of the entity's
// address countries must equal it.
func SearchEntities(entities []Entity, name, country string) []Entity {
	name = strings.ToLower(strings.TrimSpace(name))
	country = strings.ToLower(strings.TrimSpace(country))

	var out []Entity
	for _, e := range entities {
		if !strings.Contains(strings.ToLower(e.Name), name) {
			continue
		}
		if country != "" && !hasCountry(e, country) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func hasCountry(e Entity, country string) bool {
	for _, c := range e.Countries() {
		if strings.ToLower(c) == country {
			return true
		}
	}
	return false
}
