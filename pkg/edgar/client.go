// Package edgar provides a client for SEC EDGAR company data: the ticker
// directory, submissions JSON, filing archive URLs and the quarterly master
// index.
package edgar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultDataURL = "https://data.sec.gov"
	defaultWWWURL  = "https://www.sec.gov"
)

// Client performs SEC EDGAR operations.
type Client interface {
	// SearchCompanies returns companies whose title starts with prefix,
	// case-insensitively, ordered by CIK.
	SearchCompanies(ctx context.Context, prefix string) ([]Company, error)
	// Submissions fetches the submissions document for a CIK.
	Submissions(ctx context.Context, cik string) (*Submissions, error)
	// MasterIndex fetches and parses the full-index master.idx for a quarter.
	MasterIndex(ctx context.Context, year, quarter int) ([]Company, error)
	// FilingURL builds the archive URL for a filing's primary document.
	FilingURL(cik string, f Filing) string
}

// Company is one CIK/name pair.
type Company struct {
	CIK    string `json:"cik"`
	Name   string `json:"name"`
	Ticker string `json:"ticker,omitempty"`
}

// Submissions is the subset of the submissions JSON we consume.
type Submissions struct {
	CIK                             string    `json:"cik"`
	Name                            string    `json:"name"`
	EntityType                      string    `json:"entityType"`
	SIC                             string    `json:"sic"`
	SICDescription                  string    `json:"sicDescription"`
	EIN                             string    `json:"ein"`
	Website                         string    `json:"website"`
	StateOfIncorporation            string    `json:"stateOfIncorporation"`
	StateOfIncorporationDescription string    `json:"stateOfIncorporationDescription"`
	Tickers                         []string  `json:"tickers"`
	Addresses                       Addresses `json:"addresses"`
	Filings                         struct {
		Recent RecentFilings `json:"recent"`
	} `json:"filings"`
}

// Addresses holds the mailing and business addresses.
type Addresses struct {
	Mailing  Address `json:"mailing"`
	Business Address `json:"business"`
}

// Address is a postal address as EDGAR reports it.
type Address struct {
	Street1                   string `json:"street1"`
	Street2                   string `json:"street2"`
	City                      string `json:"city"`
	StateOrCountry            string `json:"stateOrCountry"`
	ZipCode                   string `json:"zipCode"`
	StateOrCountryDescription string `json:"stateOrCountryDescription"`
}

// String joins the non-empty address parts.
func (a Address) String() string {
	var parts []string
	for _, p := range []string{a.Street1, a.Street2, a.City, a.StateOrCountry, a.ZipCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// RecentFilings is EDGAR's column-oriented list of recent filings, newest
// first.
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// Filing is one row of RecentFilings.
type Filing struct {
	AccessionNumber string `json:"accessionNumber"`
	FilingDate      string `json:"filingDate"`
	Form            string `json:"form"`
	PrimaryDocument string `json:"primaryDocument"`
}

// LatestFiling returns the most recent filing of the given form type
// (e.g. "10-K", "DEF 14A"), or nil.
func (s *Submissions) LatestFiling(form string) *Filing {
	r := s.Filings.Recent
	for i, f := range r.Form {
		if !strings.EqualFold(f, form) {
			continue
		}
		if i >= len(r.AccessionNumber) || i >= len(r.PrimaryDocument) {
			return nil
		}
		filing := &Filing{
			AccessionNumber: r.AccessionNumber[i],
			Form:            f,
			PrimaryDocument: r.PrimaryDocument[i],
		}
		if i < len(r.FilingDate) {
			filing.FilingDate = r.FilingDate[i]
		}
		return filing
	}
	return nil
}

// Option configures the client.
type Option func(*httpClient)

// WithDataURL overrides the data.sec.gov base URL.
func WithDataURL(u string) Option {
	return func(c *httpClient) {
		c.dataURL = u
	}
}

// WithWWWURL overrides the www.sec.gov base URL.
func WithWWWURL(u string) Option {
	return func(c *httpClient) {
		c.wwwURL = u
	}
}

// WithRateLimit overrides the request rate (SEC allows 10 req/s).
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	userAgent string
	dataURL   string
	wwwURL    string
	limiter   *rate.Limiter
	http      *http.Client
}

// NewClient creates an EDGAR client. SEC requires a User-Agent that
// identifies the caller, typically an email address.
func NewClient(userAgent string, opts ...Option) Client {
	c := &httpClient{
		userAgent: userAgent,
		dataURL:   defaultDataURL,
		wwwURL:    defaultWWWURL,
		limiter:   rate.NewLimiter(rate.Limit(10), 1),
		http:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "edgar: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "edgar: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "edgar: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "edgar: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("edgar: unexpected status %d for %s", resp.StatusCode, rawURL)
	}
	return body, nil
}

type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

func (c *httpClient) SearchCompanies(ctx context.Context, prefix string) ([]Company, error) {
	body, err := c.get(ctx, c.wwwURL+"/files/company_tickers.json")
	if err != nil {
		return nil, err
	}

	var entries map[string]tickerEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, eris.Wrap(err, "edgar: unmarshal company tickers")
	}

	p := strings.ToLower(strings.TrimSpace(prefix))
	seen := make(map[int64]bool)
	var out []Company
	for _, e := range entries {
		if seen[e.CIK] || !strings.HasPrefix(strings.ToLower(e.Title), p) {
			continue
		}
		seen[e.CIK] = true
		out = append(out, Company{CIK: PadCIK(strconv.FormatInt(e.CIK, 10)), Name: e.Title, Ticker: e.Ticker})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CIK < out[j].CIK })
	return out, nil
}

func (c *httpClient) Submissions(ctx context.Context, cik string) (*Submissions, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/submissions/CIK%s.json", c.dataURL, PadCIK(cik)))
	if err != nil {
		return nil, err
	}

	var s Submissions
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, eris.Wrap(err, "edgar: unmarshal submissions")
	}
	return &s, nil
}

func (c *httpClient) MasterIndex(ctx context.Context, year, quarter int) ([]Company, error) {
	if quarter < 1 || quarter > 4 {
		return nil, eris.Errorf("edgar: invalid quarter %d", quarter)
	}
	body, err := c.get(ctx, fmt.Sprintf("%s/Archives/edgar/full-index/%d/QTR%d/master.idx", c.wwwURL, year, quarter))
	if err != nil {
		return nil, err
	}
	return ParseMasterIndex(bytes.NewReader(body))
}

func (c *httpClient) FilingURL(cik string, f Filing) string {
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
		c.wwwURL, TrimCIK(cik), strings.ReplaceAll(f.AccessionNumber, "-", ""), f.PrimaryDocument)
}

// PadCIK left-pads a CIK with zeros to ten digits.
func PadCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}

// TrimCIK removes leading zeros, as archive paths require.
func TrimCIK(cik string) string {
	t := strings.TrimLeft(strings.TrimSpace(cik), "0")
	if t == "" {
		return "0"
	}
	return t
}
