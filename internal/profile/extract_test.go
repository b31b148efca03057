package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-cli/internal/model"
)

func newTestExtractor(floor model.Confidence) (*extractor, *model.Profile) {
	p := model.NewProfile(model.Subject{Kind: model.SubjectOrganization, Name: "Acme"}, fixedNow)
	return newExtractor(p, floor, fixedNow), p
}

func TestTextRules_Address(t *testing.T) {
	t.Parallel()

	ex, p := newTestExtractor(model.ConfidenceLow)
	ex.result(model.CategoryEntityIdentity, model.SearchResult{Snippet: "no cue here", URL: "https://x.example"})
	assert.Nil(t, p.EntityConfirmation.RegisteredBusinessAddress)

	ex.result(model.CategoryPrincipals, model.SearchResult{Snippet: "Registered ADDRESS of Acme", URL: "https://first.example", SourceName: "web"})
	ex.result(model.CategoryEntityIdentity, model.SearchResult{Description: "address: Main St", URL: "https://second.example"})

	require.NotNil(t, p.EntityConfirmation.RegisteredBusinessAddress)
	assert.Equal(t, "https://first.example", p.EntityConfirmation.RegisteredBusinessAddress.Value)
	assert.Equal(t, "https://first.example", p.EntityConfirmation.RegisteredBusinessAddress.SourceURL)
	assert.Equal(t, model.ConfidenceLow, p.EntityConfirmation.RegisteredBusinessAddress.Confidence)
}

func TestTextRules_Year(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"founded", "Acme was founded in 1998 in Berlin", "1998"},
		{"established", "Established 2004, rebranded 2010", "2004"},
		{"incorporated in description", "Incorporated on 3 May 1921", "1921"},
		{"no cue", "In 1998 Acme shipped anvils", ""},
		{"cue without year", "founded long ago", ""},
		{"out of range", "founded in 1850", ""},
		{"embedded digits", "founded 119984", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, p := newTestExtractor(model.ConfidenceLow)
			ex.result(model.CategoryEntityIdentity, model.SearchResult{Snippet: tt.text})
			if tt.want == "" {
				assert.Nil(t, p.EntityConfirmation.IncorporationDate)
				return
			}
			require.NotNil(t, p.EntityConfirmation.IncorporationDate)
			assert.Equal(t, tt.want, p.EntityConfirmation.IncorporationDate.Value)
		})
	}
}

func TestWebsite_FirstMatchWins(t *testing.T) {
	t.Parallel()

	ex, p := newTestExtractor(model.ConfidenceLow)
	ex.result(model.CategoryBusinessProfile, model.SearchResult{URL: "https://acme.example/about", Snippet: "about us"})
	ex.result(model.CategoryBusinessProfile, model.SearchResult{URL: "https://acme.example", Snippet: "The OFFICIAL home"})
	ex.result(model.CategoryBusinessProfile, model.SearchResult{URL: "https://www.acme.example", Snippet: "home"})
	ex.result(model.CategoryEntityIdentity, model.SearchResult{URL: "https://www.other.example", Snippet: "official"})

	require.NotNil(t, p.CompanyProfileEnrichment.WebsiteURL)
	assert.Equal(t, "https://acme.example", p.CompanyProfileEnrichment.WebsiteURL.Value)
	assert.Equal(t, model.ConfidenceMedium, p.CompanyProfileEnrichment.WebsiteURL.Confidence)
}

func TestAdverseMediaVerbatim(t *testing.T) {
	t.Parallel()

	ex, p := newTestExtractor(model.ConfidenceLow)
	r := model.SearchResult{Title: "founded 1999 at this address", URL: "https://www.news.example", Snippet: "official founded 1999 address"}
	ex.result(model.CategoryAdverseMedia, r)

	assert.Equal(t, []model.SearchResult{r}, p.AdverseMediaScreening.AdverseMediaMatches)
	assert.Nil(t, p.EntityConfirmation.IncorporationDate)
	assert.Nil(t, p.CompanyProfileEnrichment.WebsiteURL)
	assert.False(t, p.WatchlistAndSanctionsScreening.MatchesFound)
}

func TestRecord_FillsTypedFields(t *testing.T) {
	t.Parallel()

	ex, p := newTestExtractor(model.ConfidenceLow)
	ex.record(&model.Record{
		Source:     "edgar",
		SourceURL:  "https://www.sec.gov/x",
		Confidence: model.ConfidenceHigh,
		Attributes: map[model.FieldKey]string{
			model.FieldRegisteredLegalName: "Apple Inc.",
			model.FieldIndustry:            "Electronic Computers",
			"unknownField":                 "ignored",
		},
		Lists:       map[model.FieldKey][]string{model.FieldSubsidiaries: {"Braeburn Capital, Inc."}},
		Identifiers: map[string]string{"CIK": "0000320193", "FOO": "bar"},
	})

	require.NotNil(t, p.EntityConfirmation.RegisteredLegalName)
	assert.Equal(t, "Apple Inc.", p.EntityConfirmation.RegisteredLegalName.Value)
	assert.Equal(t, "edgar", p.EntityConfirmation.RegisteredLegalName.Source)
	assert.Equal(t, fixedNow, p.EntityConfirmation.RegisteredLegalName.ExtractedAt)
	require.NotNil(t, p.EntityConfirmation.CompanyIdentifiers.CIK)
	assert.Equal(t, "0000320193", p.EntityConfirmation.CompanyIdentifiers.CIK.Value)
	require.NotNil(t, p.CompanyProfileEnrichment.Subsidiaries)
	assert.Equal(t, []string{"Braeburn Capital, Inc."}, p.CompanyProfileEnrichment.Subsidiaries.Value)
}

func TestMergePrincipal(t *testing.T) {
	t.Parallel()

	var ps []model.Principal
	ps = MergePrincipal(ps, model.Principal{FullName: "Jane Doe", Position: "CEO", Nationality: "DE"})
	ps = MergePrincipal(ps, model.Principal{FullName: "John Roe"})
	ps = MergePrincipal(ps, model.Principal{FullName: "  jane   doe "})
	ps = MergePrincipal(ps, model.Principal{FullName: "JANE DOE", Position: "CEO", Nationality: "DE", DateOfBirth: "1970"})
	ps = MergePrincipal(ps, model.Principal{FullName: "   "})

	require.Len(t, ps, 2)
	assert.Equal(t, "1970", ps[0].DateOfBirth, "richer record replaces in place")
	assert.Equal(t, "John Roe", ps[1].FullName)
}

func TestNameKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, nameKey("Jane Doe"), nameKey("  jane   doe "))
	assert.Equal(t, nameKey("ÄRGER GMBH"), nameKey("ärger gmbh"))
	assert.NotEqual(t, nameKey("Jane Doe"), nameKey("JaneDoe"))
}
