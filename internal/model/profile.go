package model

import (
	"strings"
	"time"
)

// Principal is a director, officer, executive or owner of an organization.
type Principal struct {
	FullName            string `json:"fullName"`
	Position            string `json:"position"`
	OwnershipPercentage string `json:"ownershipPercentage"`
	Nationality         string `json:"nationality"`
	DateOfBirth         string `json:"dateOfBirth"`
	Source              string `json:"source"`
	SourceURL           string `json:"sourceURL"`
}

// Filled counts the non-empty descriptive fields. Provenance is not counted.
func (p Principal) Filled() int {
	n := 0
	for _, s := range []string{p.FullName, p.Position, p.OwnershipPercentage, p.Nationality, p.DateOfBirth} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// Relative is a family member or other related person of a person subject.
type Relative struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

// SanctionsMatch is a candidate hit against a restricted-entity list.
type SanctionsMatch struct {
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases"`
	EntityID   string   `json:"entityID"`
	EntityType string   `json:"entityType"`
	Lists      []string `json:"lists"`
	Programs   []string `json:"programs"`
	Countries  []string `json:"countries"`
	Score      float64  `json:"score"`
	Remarks    string   `json:"remarks"`
	Source     string   `json:"source"`
	SourceURL  string   `json:"sourceURL"`
}

// CompanyIdentifiers holds registry and industry identifiers.
type CompanyIdentifiers struct {
	RegistrationNumber *FieldValue[string] `json:"registrationNumber"`
	LEI                *FieldValue[string] `json:"LEI"`
	DUNS               *FieldValue[string] `json:"DUNS"`
	CIK                *FieldValue[string] `json:"CIK"`
	EIN                *FieldValue[string] `json:"EIN"`
	IATA               *FieldValue[string] `json:"IATA"`
	ICAO               *FieldValue[string] `json:"ICAO"`
	NIPT               *FieldValue[string] `json:"NIPT"`
}

// Slot returns the field for an identifier scheme, or nil when the scheme
// is not tracked.
func (c *CompanyIdentifiers) Slot(scheme string) **FieldValue[string] {
	switch strings.ToUpper(strings.TrimSpace(scheme)) {
	case "REGISTRATIONNUMBER", "REGISTRATION_NUMBER", "COMPANY_NUMBER":
		return &c.RegistrationNumber
	case "LEI":
		return &c.LEI
	case "DUNS":
		return &c.DUNS
	case "CIK":
		return &c.CIK
	case "EIN":
		return &c.EIN
	case "IATA":
		return &c.IATA
	case "ICAO":
		return &c.ICAO
	case "NIPT":
		return &c.NIPT
	default:
		return nil
	}
}

// EntityConfirmation holds the legal identity of the subject.
type EntityConfirmation struct {
	RegisteredLegalName       *FieldValue[string] `json:"registeredLegalName"`
	CountryOfIncorporation    *FieldValue[string] `json:"countryOfIncorporation"`
	IncorporationDate         *FieldValue[string] `json:"incorporationDate"`
	RegisteredBusinessAddress *FieldValue[string] `json:"registeredBusinessAddress"`
	CompanyIdentifiers        CompanyIdentifiers  `json:"companyIdentifiers"`
}

// PrincipalIdentification holds de-duplicated principals.
type PrincipalIdentification struct {
	Principals []Principal `json:"principals"`
}

// CompanyProfileEnrichment holds the business profile.
type CompanyProfileEnrichment struct {
	BusinessDescription *FieldValue[string]   `json:"businessDescription"`
	Industry            *FieldValue[string]   `json:"industry"`
	NumberOfEmployees   *FieldValue[string]   `json:"numberOfEmployees"`
	AnnualRevenue       *FieldValue[string]   `json:"annualRevenue"`
	WebsiteURL          *FieldValue[string]   `json:"websiteURL"`
	ParentCompany       *FieldValue[string]   `json:"parentCompany"`
	Subsidiaries        *FieldValue[[]string] `json:"subsidiaries"`
}

// PersonDetails holds biographical facts for person subjects.
type PersonDetails struct {
	BirthDate     *FieldValue[string]   `json:"birthDate"`
	BirthPlace    *FieldValue[string]   `json:"birthPlace"`
	DeathDate     *FieldValue[string]   `json:"deathDate"`
	Nationalities *FieldValue[[]string] `json:"nationalities"`
	Occupations   *FieldValue[[]string] `json:"occupations"`
	Employers     *FieldValue[[]string] `json:"employers"`
	Education     *FieldValue[[]string] `json:"education"`
	Relatives     []Relative            `json:"relatives"`
}

// SanctionsScreening holds watchlist candidates.
type SanctionsScreening struct {
	MatchesFound     bool             `json:"matchesFound"`
	SanctionsMatches []SanctionsMatch `json:"sanctionsMatches"`
	ListsChecked     []string         `json:"listsChecked"`
}

// AdverseMediaScreening holds adverse media hits, verbatim.
type AdverseMediaScreening struct {
	AdverseMediaMatches []SearchResult `json:"adverseMediaMatches"`
}

// Profile is the aggregate output of a build. Every field is always present;
// unknown values serialize as null or an empty array.
type Profile struct {
	Subject                        Subject                     `json:"subject"`
	EntityConfirmation             EntityConfirmation          `json:"entityConfirmation"`
	PrincipalIdentification        PrincipalIdentification     `json:"principalIdentification"`
	CompanyProfileEnrichment       CompanyProfileEnrichment    `json:"companyProfileEnrichment"`
	PersonDetails                  PersonDetails               `json:"personDetails"`
	WatchlistAndSanctionsScreening SanctionsScreening          `json:"watchlistAndSanctionsScreening"`
	AdverseMediaScreening          AdverseMediaScreening       `json:"adverseMediaScreening"`
	RawResults                     map[Category][]SearchResult `json:"rawResults"`
	ResearchMetadata               ResearchMetadata            `json:"researchMetadata"`
}

// NewProfile creates an empty profile for subject with every collection
// initialized so that it serializes with a complete schema.
func NewProfile(subject Subject, researchDate time.Time) *Profile {
	p := &Profile{
		Subject: subject,
		PrincipalIdentification: PrincipalIdentification{
			Principals: []Principal{},
		},
		PersonDetails: PersonDetails{
			Relatives: []Relative{},
		},
		WatchlistAndSanctionsScreening: SanctionsScreening{
			SanctionsMatches: []SanctionsMatch{},
			ListsChecked:     []string{},
		},
		AdverseMediaScreening: AdverseMediaScreening{
			AdverseMediaMatches: []SearchResult{},
		},
		RawResults: make(map[Category][]SearchResult, len(Categories)),
		ResearchMetadata: ResearchMetadata{
			ResearchDate:  researchDate,
			ProvidersUsed: []string{},
			Disclaimer:    DefaultDisclaimer,
			Limitations:   []string{},
			Failures:      []ProviderFailure{},
		},
	}
	for _, c := range Categories {
		p.RawResults[c] = []SearchResult{}
	}
	return p
}

// StringField returns the single-valued field for key, or nil when key does
// not name a single-valued field.
func (p *Profile) StringField(key FieldKey) **FieldValue[string] {
	switch key {
	case FieldRegisteredLegalName:
		return &p.EntityConfirmation.RegisteredLegalName
	case FieldCountryOfIncorporation:
		return &p.EntityConfirmation.CountryOfIncorporation
	case FieldIncorporationDate:
		return &p.EntityConfirmation.IncorporationDate
	case FieldRegisteredBusinessAddress:
		return &p.EntityConfirmation.RegisteredBusinessAddress
	case FieldBusinessDescription:
		return &p.CompanyProfileEnrichment.BusinessDescription
	case FieldIndustry:
		return &p.CompanyProfileEnrichment.Industry
	case FieldNumberOfEmployees:
		return &p.CompanyProfileEnrichment.NumberOfEmployees
	case FieldAnnualRevenue:
		return &p.CompanyProfileEnrichment.AnnualRevenue
	case FieldWebsiteURL:
		return &p.CompanyProfileEnrichment.WebsiteURL
	case FieldParentCompany:
		return &p.CompanyProfileEnrichment.ParentCompany
	case FieldBirthDate:
		return &p.PersonDetails.BirthDate
	case FieldBirthPlace:
		return &p.PersonDetails.BirthPlace
	case FieldDeathDate:
		return &p.PersonDetails.DeathDate
	default:
		return nil
	}
}

// ListField returns the multi-valued field for key, or nil.
func (p *Profile) ListField(key FieldKey) **FieldValue[[]string] {
	switch key {
	case FieldSubsidiaries:
		return &p.CompanyProfileEnrichment.Subsidiaries
	case FieldNationalities:
		return &p.PersonDetails.Nationalities
	case FieldOccupations:
		return &p.PersonDetails.Occupations
	case FieldEmployers:
		return &p.PersonDetails.Employers
	case FieldEducation:
		return &p.PersonDetails.Education
	default:
		return nil
	}
}
