package provider

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/fetcher"
	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/pkg/edgar"
	"github.com/sells-group/profile-cli/pkg/google"
	"github.com/sells-group/profile-cli/pkg/opencorporates"
)

// OpenCorporatesLookup resolves organizations against company registries
// through OpenCorporates, including their officers.
type OpenCorporatesLookup struct {
	client opencorporates.Client
}

// NewOpenCorporatesLookup creates an OpenCorporatesLookup.
func NewOpenCorporatesLookup(client opencorporates.Client) *OpenCorporatesLookup {
	return &OpenCorporatesLookup{client: client}
}

func (o *OpenCorporatesLookup) Name() string           { return "opencorporates" }
func (o *OpenCorporatesLookup) Capability() Capability { return CapInstantAnswer }

func (o *OpenCorporatesLookup) Categories() []model.Category {
	return []model.Category{model.CategoryEntityIdentity, model.CategoryPrincipals}
}

func (o *OpenCorporatesLookup) Supports(kind model.SubjectKind) bool {
	return kind == model.SubjectOrganization
}

// Lookup implements Lookuper.
func (o *OpenCorporatesLookup) Lookup(ctx context.Context, name, hint string) (*model.Record, error) {
	companies, err := o.client.SearchCompanies(ctx, name, CountryCode(hint))
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, nil
	}

	company := companies[0]
	full, err := o.client.GetCompany(ctx, company.JurisdictionCode, company.CompanyNumber)
	if err != nil {
		zap.L().Warn("provider: opencorporates company detail failed, using search result",
			zap.String("company_number", company.CompanyNumber),
			zap.Error(err),
		)
	} else if full != nil {
		company = *full
	}

	rec := &model.Record{
		Source:      o.Name(),
		SourceURL:   company.OpenCorporatesURL,
		Name:        company.Name,
		Summary:     strings.TrimSpace(company.CompanyType + " " + company.CurrentStatus),
		Confidence:  model.ConfidenceHigh,
		Attributes:  map[model.FieldKey]string{},
		Identifiers: map[string]string{},
	}
	setIf(rec.Attributes, model.FieldRegisteredLegalName, company.Name)
	setIf(rec.Attributes, model.FieldIncorporationDate, company.IncorporationDate)
	setIf(rec.Attributes, model.FieldRegisteredBusinessAddress, company.RegisteredAddressInFull)
	if country, _, _ := strings.Cut(company.JurisdictionCode, "_"); country != "" {
		rec.Attributes[model.FieldCountryOfIncorporation] = strings.ToUpper(country)
	}
	if len(company.IndustryCodes) > 0 {
		setIf(rec.Attributes, model.FieldIndustry, company.IndustryCodes[0].Description)
	}
	if company.CompanyNumber != "" {
		rec.Identifiers["registrationNumber"] = company.CompanyNumber
	}

	for _, off := range company.Officers {
		if off.EndDate != "" {
			continue
		}
		rec.Principals = append(rec.Principals, model.Principal{
			FullName:    off.Name,
			Position:    off.Position,
			Nationality: off.Nationality,
			DateOfBirth: off.DateOfBirth,
			Source:      o.Name(),
			SourceURL:   company.OpenCorporatesURL,
		})
	}
	return rec, nil
}

// EDGARLookup resolves US registrants through SEC EDGAR submissions. When a
// fetcher is configured, subsidiaries are read from the Exhibit 21 section
// of the latest 10-K.
type EDGARLookup struct {
	client  edgar.Client
	fetcher fetcher.Fetcher
}

// NewEDGARLookup creates an EDGARLookup. f may be nil.
func NewEDGARLookup(client edgar.Client, f fetcher.Fetcher) *EDGARLookup {
	return &EDGARLookup{client: client, fetcher: f}
}

func (e *EDGARLookup) Name() string           { return "edgar" }
func (e *EDGARLookup) Capability() Capability { return CapInstantAnswer }

func (e *EDGARLookup) Categories() []model.Category {
	return []model.Category{model.CategoryEntityIdentity, model.CategoryBusinessProfile}
}

func (e *EDGARLookup) Supports(kind model.SubjectKind) bool {
	return kind == model.SubjectOrganization
}

// RateLimited is true: the EDGAR client paces itself to SEC's 10 req/s.
func (e *EDGARLookup) RateLimited() bool { return true }

// Lookup implements Lookuper.
func (e *EDGARLookup) Lookup(ctx context.Context, name, _ string) (*model.Record, error) {
	companies, err := e.client.SearchCompanies(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, nil
	}
	match := companies[0]
	for _, c := range companies {
		if strings.EqualFold(c.Name, name) {
			match = c
			break
		}
	}

	subs, err := e.client.Submissions(ctx, match.CIK)
	if err != nil {
		return nil, err
	}

	rec := &model.Record{
		Source:      e.Name(),
		SourceURL:   "https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany&CIK=" + edgar.PadCIK(match.CIK),
		Name:        subs.Name,
		Summary:     subs.SICDescription,
		Confidence:  model.ConfidenceHigh,
		Attributes:  map[model.FieldKey]string{},
		Lists:       map[model.FieldKey][]string{},
		Identifiers: map[string]string{"CIK": edgar.PadCIK(match.CIK)},
	}
	setIf(rec.Attributes, model.FieldRegisteredLegalName, subs.Name)
	setIf(rec.Attributes, model.FieldIndustry, subs.SICDescription)
	setIf(rec.Attributes, model.FieldWebsiteURL, subs.Website)
	setIf(rec.Attributes, model.FieldRegisteredBusinessAddress, subs.Addresses.Business.String())
	state := subs.StateOfIncorporationDescription
	if state == "" {
		state = subs.StateOfIncorporation
	}
	setIf(rec.Attributes, model.FieldCountryOfIncorporation, state)
	if subs.EIN != "" && strings.Trim(subs.EIN, "0") != "" {
		rec.Identifiers["EIN"] = subs.EIN
	}

	if subsidiaries := e.subsidiaries(ctx, match.CIK, subs); len(subsidiaries) > 0 {
		rec.Lists[model.FieldSubsidiaries] = subsidiaries
	}
	return rec, nil
}

// subsidiaries reads Exhibit 21 of the latest 10-K. Failures only cost the
// subsidiary list.
func (e *EDGARLookup) subsidiaries(ctx context.Context, cik string, subs *edgar.Submissions) []string {
	if e.fetcher == nil {
		return nil
	}
	filing := subs.LatestFiling("10-K")
	if filing == nil {
		return nil
	}

	url := e.client.FilingURL(cik, *filing)
	body, err := e.fetcher.Download(ctx, url)
	if err != nil {
		zap.L().Warn("provider: download 10-K failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	defer body.Close() //nolint:errcheck

	text, err := fetcher.HTMLText(body)
	if err != nil {
		zap.L().Warn("provider: extract 10-K text failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	return edgar.ExtractSubsidiaries(text)
}

// GooglePlacesLookup finds an organization's address and website through
// Google Places text search.
type GooglePlacesLookup struct {
	client google.Client
}

// NewGooglePlacesLookup creates a GooglePlacesLookup.
func NewGooglePlacesLookup(client google.Client) *GooglePlacesLookup {
	return &GooglePlacesLookup{client: client}
}

func (g *GooglePlacesLookup) Name() string           { return "google_places" }
func (g *GooglePlacesLookup) Capability() Capability { return CapInstantAnswer }

func (g *GooglePlacesLookup) Categories() []model.Category {
	return []model.Category{model.CategoryEntityIdentity, model.CategoryBusinessProfile}
}

func (g *GooglePlacesLookup) Supports(kind model.SubjectKind) bool {
	return kind == model.SubjectOrganization
}

// Lookup implements Lookuper.
func (g *GooglePlacesLookup) Lookup(ctx context.Context, name, hint string) (*model.Record, error) {
	resp, err := g.client.TextSearch(ctx, strings.TrimSpace(name+" "+hint))
	if err != nil {
		return nil, err
	}
	if len(resp.Places) == 0 {
		return nil, nil
	}
	place := resp.Places[0]

	rec := &model.Record{
		Source:     g.Name(),
		SourceURL:  place.GoogleMapsURI,
		Name:       place.DisplayName.Text,
		Summary:    place.FormattedAddress,
		Confidence: model.ConfidenceMedium,
		Attributes: map[model.FieldKey]string{},
	}
	setIf(rec.Attributes, model.FieldRegisteredBusinessAddress, place.FormattedAddress)
	setIf(rec.Attributes, model.FieldWebsiteURL, place.WebsiteURI)
	setIf(rec.Attributes, model.FieldIndustry, place.PrimaryTypeDisplayName.Text)
	return rec, nil
}

func setIf(m map[model.FieldKey]string, key model.FieldKey, value string) {
	if v := strings.TrimSpace(value); v != "" {
		m[key] = v
	}
}

var countryCodes = map[string]string{
	"albania":        "al",
	"austria":        "at",
	"belgium":        "be",
	"canada":         "ca",
	"denmark":        "dk",
	"finland":        "fi",
	"france":         "fr",
	"germany":        "de",
	"ireland":        "ie",
	"italy":          "it",
	"luxembourg":     "lu",
	"netherlands":    "nl",
	"norway":         "no",
	"poland":         "pl",
	"portugal":       "pt",
	"spain":          "es",
	"sweden":         "se",
	"switzerland":    "ch",
	"united kingdom": "gb",
	"uk":             "gb",
	"united states":  "us",
	"usa":            "us",
}

// CountryCode maps a jurisdiction hint to an ISO 3166 alpha-2 code for
// registry search. Two-letter hints are taken as codes; unknown names map
// to "" so no jurisdiction filter is applied.
func CountryCode(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if len(h) == 2 {
		return h
	}
	return countryCodes[h]
}
