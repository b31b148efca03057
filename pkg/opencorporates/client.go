// Package opencorporates provides a client for the OpenCorporates API.
package opencorporates

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.opencorporates.com/v0.4"

// Client performs OpenCorporates operations.
type Client interface {
	// SearchCompanies searches companies by name, optionally within a
	// jurisdiction (ISO country code such as "us" or "gb").
	SearchCompanies(ctx context.Context, name, countryCode string) ([]Company, error)
	// GetCompany fetches a company with its officers.
	GetCompany(ctx context.Context, jurisdiction, number string) (*Company, error)
}

// Company is an OpenCorporates company record.
type Company struct {
	Name                    string         `json:"name"`
	CompanyNumber           string         `json:"company_number"`
	JurisdictionCode        string         `json:"jurisdiction_code"`
	IncorporationDate       string         `json:"incorporation_date"`
	CompanyType             string         `json:"company_type"`
	CurrentStatus           string         `json:"current_status"`
	RegisteredAddressInFull string         `json:"registered_address_in_full"`
	OpenCorporatesURL       string         `json:"opencorporates_url"`
	Officers                []Officer      `json:"-"`
	IndustryCodes           []IndustryCode `json:"-"`
}

// Officer is a director or officer of a company.
type Officer struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Nationality string `json:"nationality"`
	DateOfBirth string `json:"date_of_birth"`
}

// IndustryCode is one classification of the company's activity.
type IndustryCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
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
	apiToken string
	baseURL  string
	http     *http.Client
}

// NewClient creates an OpenCorporates client. apiToken may be empty for
// the rate-limited free tier.
func NewClient(apiToken string, opts ...Option) Client {
	c := &httpClient{
		apiToken: apiToken,
		baseURL:  defaultBaseURL,
		http:     &http.Client{Timeout: 20 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiToken != "" {
		params.Set("api_token", c.apiToken)
	}
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "opencorporates: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "opencorporates: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "opencorporates: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("opencorporates: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

type searchResponse struct {
	Results struct {
		Companies []struct {
			Company Company `json:"company"`
		} `json:"companies"`
	} `json:"results"`
}

func (c *httpClient) SearchCompanies(ctx context.Context, name, countryCode string) ([]Company, error) {
	params := url.Values{}
	params.Set("q", name)
	if countryCode != "" {
		params.Set("country_code", strings.ToLower(countryCode))
	}

	body, err := c.get(ctx, "/companies/search", params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "opencorporates: unmarshal search response")
	}

	out := make([]Company, 0, len(resp.Results.Companies))
	for _, w := range resp.Results.Companies {
		out = append(out, w.Company)
	}
	return out, nil
}

type companyResponse struct {
	Results struct {
		Company struct {
			Company
			Officers []struct {
				Officer Officer `json:"officer"`
			} `json:"officers"`
			IndustryCodes []struct {
				IndustryCode IndustryCode `json:"industry_code"`
			} `json:"industry_codes"`
		} `json:"company"`
	} `json:"results"`
}

func (c *httpClient) GetCompany(ctx context.Context, jurisdiction, number string) (*Company, error) {
	path := "/companies/" + url.PathEscape(jurisdiction) + "/" + url.PathEscape(number)
	body, err := c.get(ctx, path, url.Values{})
	if err != nil {
		return nil, err
	}

	var resp companyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "opencorporates: unmarshal company response")
	}

	raw := resp.Results.Company
	co := raw.Company
	for _, o := range raw.Officers {
		co.Officers = append(co.Officers, o.Officer)
	}
	for _, ic := range raw.IndustryCodes {
		co.IndustryCodes = append(co.IndustryCodes, ic.IndustryCode)
	}
	return &co, nil
}
