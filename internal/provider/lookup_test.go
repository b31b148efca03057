package provider

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/pkg/edgar"
	edgarmocks "github.com/sells-group/profile-cli/pkg/edgar/mocks"
	"github.com/sells-group/profile-cli/pkg/google"
	googlemocks "github.com/sells-group/profile-cli/pkg/google/mocks"
	"github.com/sells-group/profile-cli/pkg/opencorporates"
	ocmocks "github.com/sells-group/profile-cli/pkg/opencorporates/mocks"
)

func TestOpenCorporatesLookup(t *testing.T) {
	client := ocmocks.NewMockClient(t)
	client.On("SearchCompanies", mock.Anything, "Acme", "de").Return([]opencorporates.Company{
		{Name: "ACME GMBH", CompanyNumber: "HRB 1", JurisdictionCode: "de"},
	}, nil)
	client.On("GetCompany", mock.Anything, "de", "HRB 1").Return(&opencorporates.Company{
		Name:                    "ACME GMBH",
		CompanyNumber:           "HRB 1",
		JurisdictionCode:        "de",
		IncorporationDate:       "1998-04-01",
		RegisteredAddressInFull: "Hauptstr. 1, Berlin",
		OpenCorporatesURL:       "https://opencorporates.com/companies/de/HRB_1",
		IndustryCodes:           []opencorporates.IndustryCode{{Code: "25.73", Description: "Manufacture of tools"}},
		Officers: []opencorporates.Officer{
			{Name: "Jane Doe", Position: "director"},
			{Name: "Old Guard", Position: "director", EndDate: "2010-01-01"},
		},
	}, nil)

	p := NewOpenCorporatesLookup(client)
	assert.True(t, AppliesTo(p, model.CategoryPrincipals))
	assert.False(t, SupportsSubject(p, model.SubjectPerson))

	rec, err := p.Lookup(context.Background(), "Acme", "Germany")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, model.ConfidenceHigh, rec.Confidence)
	assert.Equal(t, "ACME GMBH", rec.Attributes[model.FieldRegisteredLegalName])
	assert.Equal(t, "DE", rec.Attributes[model.FieldCountryOfIncorporation])
	assert.Equal(t, "1998-04-01", rec.Attributes[model.FieldIncorporationDate])
	assert.Equal(t, "Manufacture of tools", rec.Attributes[model.FieldIndustry])
	assert.Equal(t, "HRB 1", rec.Identifiers["registrationNumber"])
	require.Len(t, rec.Principals, 1)
	assert.Equal(t, "Jane Doe", rec.Principals[0].FullName)
	assert.Equal(t, "opencorporates", rec.Principals[0].Source)
}

func TestOpenCorporatesLookup_DetailFailureKeepsSearchResult(t *testing.T) {
	client := ocmocks.NewMockClient(t)
	client.On("SearchCompanies", mock.Anything, "Acme", "").Return([]opencorporates.Company{
		{Name: "ACME LTD", CompanyNumber: "1", JurisdictionCode: "gb"},
	}, nil)
	client.On("GetCompany", mock.Anything, "gb", "1").Return(nil, errors.New("opencorporates: unexpected status 500"))

	rec, err := NewOpenCorporatesLookup(client).Lookup(context.Background(), "Acme", "")
	require.NoError(t, err)
	assert.Equal(t, "ACME LTD", rec.Name)
	assert.Equal(t, "GB", rec.Attributes[model.FieldCountryOfIncorporation])
}

func TestOpenCorporatesLookup_NoMatch(t *testing.T) {
	client := ocmocks.NewMockClient(t)
	client.On("SearchCompanies", mock.Anything, "Nobody", "").Return(nil, nil)

	rec, err := NewOpenCorporatesLookup(client).Lookup(context.Background(), "Nobody", "")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

type stubFetcher struct {
	body string
	err  error
	urls []string
}

func (f *stubFetcher) Download(_ context.Context, url string) (io.ReadCloser, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func (f *stubFetcher) DownloadToFile(_ context.Context, _ string, _ string) (int64, error) {
	return 0, errors.New("not implemented")
}

func edgarSubmissions() *edgar.Submissions {
	subs := &edgar.Submissions{
		CIK:                             "320193",
		Name:                            "Apple Inc.",
		SICDescription:                  "Electronic Computers",
		EIN:                             "942404110",
		StateOfIncorporation:            "CA",
		StateOfIncorporationDescription: "CA",
		Addresses: edgar.Addresses{Business: edgar.Address{
			Street1: "One Apple Park Way", City: "Cupertino", StateOrCountry: "CA", ZipCode: "95014",
		}},
	}
	subs.Filings.Recent = edgar.RecentFilings{
		AccessionNumber: []string{"0000320193-24-000123"},
		FilingDate:      []string{"2024-11-01"},
		Form:            []string{"10-K"},
		PrimaryDocument: []string{"aapl-20240928.htm"},
	}
	return subs
}

func TestEDGARLookup_WithSubsidiaries(t *testing.T) {
	client := edgarmocks.NewMockClient(t)
	client.On("SearchCompanies", mock.Anything, "Apple Inc.").Return([]edgar.Company{
		{CIK: "1", Name: "Apple Hospitality REIT"},
		{CIK: "320193", Name: "Apple Inc."},
	}, nil)
	client.On("Submissions", mock.Anything, "320193").Return(edgarSubmissions(), nil)
	client.On("FilingURL", "320193", mock.AnythingOfType("edgar.Filing")).Return("https://www.sec.gov/Archives/10k.htm")

	f := &stubFetcher{body: `<html><body><p>Exhibit 21</p><p>Apple Operations International Limited Ltd.</p>` +
		`<p>Braeburn Capital, Inc.</p><p>SIGNATURES</p></body></html>`}

	p := NewEDGARLookup(client, f)
	assert.True(t, RateLimited(p))

	rec, err := p.Lookup(context.Background(), "Apple Inc.", "")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "0000320193", rec.Identifiers["CIK"])
	assert.Equal(t, "942404110", rec.Identifiers["EIN"])
	assert.Equal(t, "One Apple Park Way, Cupertino, CA, 95014", rec.Attributes[model.FieldRegisteredBusinessAddress])
	assert.Equal(t, "Electronic Computers", rec.Attributes[model.FieldIndustry])
	assert.Equal(t, []string{"Apple Operations International Limited Ltd.", "Braeburn Capital, Inc."}, rec.Lists[model.FieldSubsidiaries])
	assert.Equal(t, []string{"https://www.sec.gov/Archives/10k.htm"}, f.urls)
}

func TestEDGARLookup_FilingDownloadFailureIsSoft(t *testing.T) {
	client := edgarmocks.NewMockClient(t)
	client.On("SearchCompanies", mock.Anything, "Apple").Return([]edgar.Company{{CIK: "320193", Name: "Apple Inc."}}, nil)
	client.On("Submissions", mock.Anything, "320193").Return(edgarSubmissions(), nil)
	client.On("FilingURL", "320193", mock.Anything).Return("https://www.sec.gov/Archives/10k.htm")

	rec, err := NewEDGARLookup(client, &stubFetcher{err: errors.New("fetcher: unexpected status 404")}).
		Lookup(context.Background(), "Apple", "")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", rec.Attributes[model.FieldRegisteredLegalName])
	assert.NotContains(t, rec.Lists, model.FieldSubsidiaries)
}

func TestGooglePlacesLookup(t *testing.T) {
	client := googlemocks.NewMockClient(t)
	client.On("TextSearch", mock.Anything, "Acme Corp Germany").Return(&google.TextSearchResponse{
		Places: []google.Place{{
			DisplayName:      google.DisplayName{Text: "Acme Corp"},
			FormattedAddress: "Hauptstr. 1, 10115 Berlin, Germany",
			WebsiteURI:       "https://www.acme.example/",
			GoogleMapsURI:    "https://maps.google.com/?cid=1",
		}},
	}, nil)

	rec, err := NewGooglePlacesLookup(client).Lookup(context.Background(), "Acme Corp", "Germany")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.ConfidenceMedium, rec.Confidence)
	assert.Equal(t, "https://www.acme.example/", rec.Attributes[model.FieldWebsiteURL])
	assert.NotContains(t, rec.Attributes, model.FieldIndustry)
}

func TestCountryCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "de", CountryCode("Germany"))
	assert.Equal(t, "gb", CountryCode(" United Kingdom "))
	assert.Equal(t, "us", CountryCode("US"))
	assert.Equal(t, "", CountryCode("Atlantis"))
	assert.Equal(t, "", CountryCode(""))
}
