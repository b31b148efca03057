package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile_CompleteSchema(t *testing.T) {
	t.Parallel()

	p := NewProfile(Subject{Kind: SubjectOrganization, Name: "Acme Corp"}, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	b, err := json.Marshal(p)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))

	raw := doc["rawResults"].(map[string]any)
	for _, c := range Categories {
		assert.Equal(t, []any{}, raw[string(c)], c)
	}

	entity := doc["entityConfirmation"].(map[string]any)
	assert.Contains(t, entity, "registeredLegalName")
	assert.Nil(t, entity["registeredLegalName"])

	screening := doc["watchlistAndSanctionsScreening"].(map[string]any)
	assert.Equal(t, false, screening["matchesFound"])
	assert.Equal(t, []any{}, screening["sanctionsMatches"])

	require.NoError(t, ValidateProfileJSON(b))
}

func TestValidateProfile_PopulatedProfile(t *testing.T) {
	t.Parallel()

	p := NewProfile(Subject{Kind: SubjectPerson, Name: "Jane Doe"}, time.Now())
	Assign(p.StringField(FieldBirthDate), fv("1970-01-01", ConfidenceMedium), ConfidenceLow)
	Assign(p.ListField(FieldNationalities), FieldValue[[]string]{Value: []string{"German"}, Confidence: ConfidenceMedium, Source: "duckduckgo"}, ConfidenceLow)
	p.RawResults[CategoryAdverseMedia] = append(p.RawResults[CategoryAdverseMedia], SearchResult{Title: "x", SourceName: "newsapi"})
	p.ResearchMetadata.Failures = append(p.ResearchMetadata.Failures, ProviderFailure{Provider: "serper", Category: CategoryPrincipals, Kind: ErrorTimeout, Message: "deadline"})

	assert.NoError(t, ValidateProfile(p))
}

func TestValidateProfileJSON_MissingSection(t *testing.T) {
	t.Parallel()

	err := ValidateProfileJSON([]byte(`{"subject":{"kind":"person","name":"x"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestProfile_FieldSlots(t *testing.T) {
	t.Parallel()

	p := NewProfile(Subject{Kind: SubjectOrganization, Name: "Acme"}, time.Now())
	assert.NotNil(t, p.StringField(FieldWebsiteURL))
	assert.Nil(t, p.StringField(FieldSubsidiaries))
	assert.NotNil(t, p.ListField(FieldSubsidiaries))
	assert.Nil(t, p.ListField(FieldWebsiteURL))
	assert.NotNil(t, p.EntityConfirmation.CompanyIdentifiers.Slot("lei"))
	assert.Nil(t, p.EntityConfirmation.CompanyIdentifiers.Slot("VAT"))
}

func TestPrincipal_Filled(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Principal{FullName: "Jane Doe", Source: "x"}.Filled())
	assert.Equal(t, 3, Principal{FullName: "Jane Doe", Position: "CEO", OwnershipPercentage: "10%"}.Filled())
}

func TestSubject_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Subject{Kind: SubjectPerson, Name: "Jane"}.Validate())

	err := Subject{Kind: SubjectOrganization, Name: "   "}.Validate()
	require.Error(t, err)
	assert.True(t, IsConfigError(err))

	err = Subject{Kind: "robot", Name: "R2"}.Validate()
	assert.True(t, IsConfigError(err))
}

func TestSubject_Hint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Germany", Subject{Jurisdiction: "Germany", Auxiliary: "Berlin"}.Hint())
	assert.Equal(t, "physicist", Subject{Auxiliary: " physicist "}.Hint())
}

func TestParseSubjectKind(t *testing.T) {
	t.Parallel()

	k, err := ParseSubjectKind("Company")
	require.NoError(t, err)
	assert.Equal(t, SubjectOrganization, k)

	k, err = ParseSubjectKind("individual")
	require.NoError(t, err)
	assert.Equal(t, SubjectPerson, k)

	_, err = ParseSubjectKind("vessel")
	assert.True(t, IsConfigError(err))
}

func TestRecord_IsEmpty(t *testing.T) {
	t.Parallel()

	var nilRec *Record
	assert.True(t, nilRec.IsEmpty())
	assert.True(t, (&Record{Source: "x", SourceURL: "u"}).IsEmpty())
	assert.False(t, (&Record{Name: "Acme"}).IsEmpty())
}
