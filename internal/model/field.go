package model

import "time"

// FieldKey names a typed profile field.
type FieldKey string

const (
	FieldRegisteredLegalName       FieldKey = "registeredLegalName"
	FieldCountryOfIncorporation    FieldKey = "countryOfIncorporation"
	FieldIncorporationDate         FieldKey = "incorporationDate"
	FieldRegisteredBusinessAddress FieldKey = "registeredBusinessAddress"
	FieldBusinessDescription       FieldKey = "businessDescription"
	FieldIndustry                  FieldKey = "industry"
	FieldNumberOfEmployees         FieldKey = "numberOfEmployees"
	FieldAnnualRevenue             FieldKey = "annualRevenue"
	FieldWebsiteURL                FieldKey = "websiteURL"
	FieldParentCompany             FieldKey = "parentCompany"
	FieldSubsidiaries              FieldKey = "subsidiaries"
	FieldBirthDate                 FieldKey = "birthDate"
	FieldBirthPlace                FieldKey = "birthPlace"
	FieldDeathDate                 FieldKey = "deathDate"
	FieldNationalities             FieldKey = "nationalities"
	FieldOccupations               FieldKey = "occupations"
	FieldEmployers                 FieldKey = "employers"
	FieldEducation                 FieldKey = "education"
)

// FieldValue is a single extracted datum with its provenance.
type FieldValue[T any] struct {
	Value       T          `json:"value"`
	Confidence  Confidence `json:"confidence"`
	Source      string     `json:"source"`
	SourceURL   string     `json:"sourceURL,omitempty"`
	ExtractedAt time.Time  `json:"extractedAt"`
}

// Assign stores candidate in *slot when the slot is unset or the candidate
// is strictly more confident than the current value. Candidates below floor
// are rejected. It reports whether the slot changed.
func Assign[T any](slot **FieldValue[T], candidate FieldValue[T], floor Confidence) bool {
	if candidate.Confidence < floor || candidate.Confidence <= 0 {
		return false
	}
	if *slot != nil && candidate.Confidence <= (*slot).Confidence {
		return false
	}
	v := candidate
	*slot = &v
	return true
}
