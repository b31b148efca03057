package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/profile-cli/internal/model"
)

func TestFilterNames_GlobalVision(t *testing.T) {
	t.Parallel()

	got := FilterNames([]string{"Global Vision LLC", "Visionary Global", "GlobalVision Inc"}, "Global Vision")
	// Whitespace runs compile to \s*, so the joined spelling "GlobalVision Inc"
	// is kept along with the spaced one, as the sanctions.network name search
	// does. The reordered name never matches. See the name filter decision in
	// DESIGN.md.
	assert.Equal(t, []string{"Global Vision LLC", "GlobalVision Inc"}, got)
	assert.NotContains(t, got, "Visionary Global")
}

func TestNamePattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `(?i)GLOBAL\s*VISION`, NamePattern("GLOBAL   VISION").String())
	assert.Equal(t, `(?i)A\.B\s*\(C\)`, NamePattern(" A.B (C) ").String())
	assert.True(t, NamePattern("acme corp").MatchString("ACME\tCORP LTD"))
	assert.False(t, NamePattern("a.b").MatchString("axb"))
}

func TestFilterByName_Records(t *testing.T) {
	t.Parallel()

	type rec struct{ name string }
	records := []rec{{"Global Vision LLC"}, {"Other"}}
	got := FilterByName(records, "global vision", func(r rec) string { return r.name })
	assert.Equal(t, []rec{{"Global Vision LLC"}}, got)
}

func TestFilterSanctionsMatches(t *testing.T) {
	t.Parallel()

	matches := []model.SanctionsMatch{
		{Name: "GLOBAL VISION GROUP", Aliases: []string{"GV GROUP", "GLOBALVISION"}},
		{Name: "VISION HOLDINGS", Aliases: []string{"Global Vision Holdings"}},
		{Name: "UNRELATED", Aliases: []string{"NOTHING"}},
	}

	got := FilterSanctionsMatches(matches, "Global Vision")
	assert.Len(t, got, 2)
	assert.Equal(t, []string{"GLOBALVISION"}, got[0].Aliases)
	assert.Equal(t, "VISION HOLDINGS", got[1].Name)
	assert.Equal(t, []string{"Global Vision Holdings"}, got[1].Aliases)
	assert.Equal(t, []string{"GV GROUP", "GLOBALVISION"}, matches[0].Aliases, "input is not modified")
}
