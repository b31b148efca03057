package opencorporates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCompanies(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies/search", r.URL.Path)
		assert.Equal(t, "Apple Inc", r.URL.Query().Get("q"))
		assert.Equal(t, "us", r.URL.Query().Get("country_code"))
		assert.Equal(t, "tok", r.URL.Query().Get("api_token"))
		_, _ = w.Write([]byte(`{"results": {"companies": [
			{"company": {"name": "APPLE INC.", "company_number": "C0806592", "jurisdiction_code": "us_ca",
			 "incorporation_date": "1977-01-03", "registered_address_in_full": "ONE APPLE PARK WAY, CUPERTINO, CA",
			 "opencorporates_url": "https://opencorporates.com/companies/us_ca/C0806592"}}
		]}}`))
	}))
	defer srv.Close()

	client := NewClient("tok", WithBaseURL(srv.URL))
	got, err := client.SearchCompanies(context.Background(), "Apple Inc", "US")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "C0806592", got[0].CompanyNumber)
	assert.Equal(t, "1977-01-03", got[0].IncorporationDate)
}

func TestGetCompany_WithOfficers(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies/us_ca/C0806592", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("api_token"))
		_, _ = w.Write([]byte(`{"results": {"company": {
			"name": "APPLE INC.", "company_number": "C0806592", "jurisdiction_code": "us_ca",
			"officers": [
				{"officer": {"name": "TIMOTHY D COOK", "position": "chief executive officer"}},
				{"officer": {"name": "KEVAN PAREKH", "position": "chief financial officer"}}
			],
			"industry_codes": [{"industry_code": {"code": "3571", "description": "Electronic Computers"}}]
		}}}`))
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	got, err := client.GetCompany(context.Background(), "us_ca", "C0806592")

	require.NoError(t, err)
	assert.Equal(t, "APPLE INC.", got.Name)
	require.Len(t, got.Officers, 2)
	assert.Equal(t, "chief executive officer", got.Officers[0].Position)
	require.Len(t, got.IndustryCodes, 1)
	assert.Equal(t, "Electronic Computers", got.IndustryCodes[0].Description)
}

func TestGetCompany_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	_, err := client.GetCompany(context.Background(), "us_ca", "nope")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}
