package profile

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/sells-group/profile-cli/internal/model"
)

var (
	yearPattern  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	foundingCues = []string{"founded", "established", "incorporated"}
)

// extractor fills typed profile fields from collected results, in the
// order they are fed to it.
type extractor struct {
	p     *model.Profile
	floor model.Confidence
	at    time.Time
}

func newExtractor(p *model.Profile, floor model.Confidence, at time.Time) *extractor {
	return &extractor{p: p, floor: floor, at: at}
}

func (e *extractor) value(v, source, sourceURL string, c model.Confidence) model.FieldValue[string] {
	return model.FieldValue[string]{Value: v, Confidence: c, Source: source, SourceURL: sourceURL, ExtractedAt: e.at}
}

// result applies the free-text rules of a category to one search result.
func (e *extractor) result(category model.Category, r model.SearchResult) {
	switch category {
	case model.CategoryEntityIdentity, model.CategoryPrincipals:
		e.textRules(r)
	case model.CategoryBusinessProfile:
		e.website(r)
		e.textRules(r)
	case model.CategoryAdverseMedia:
		e.p.AdverseMediaScreening.AdverseMediaMatches = append(e.p.AdverseMediaScreening.AdverseMediaMatches, r)
	}
}

// website takes the first business-profile result that calls itself
// official or has a www URL.
func (e *extractor) website(r model.SearchResult) {
	if r.URL == "" {
		return
	}
	if strings.Contains(strings.ToLower(r.Text()), "official") || strings.Contains(r.URL, "www") {
		model.Assign(&e.p.CompanyProfileEnrichment.WebsiteURL,
			e.value(r.URL, r.SourceName, r.URL, model.ConfidenceMedium), e.floor)
	}
}

// textRules sniffs address and founding-year cues. The address value is the
// URL of the page that mentions one.
func (e *extractor) textRules(r model.SearchResult) {
	text := strings.ToLower(r.Text())
	ec := &e.p.EntityConfirmation

	if ec.RegisteredBusinessAddress == nil && r.URL != "" && strings.Contains(text, "address") {
		model.Assign(&ec.RegisteredBusinessAddress, e.value(r.URL, r.SourceName, r.URL, model.ConfidenceLow), e.floor)
	}

	if ec.IncorporationDate == nil && containsAny(text, foundingCues) {
		if year := yearPattern.FindString(text); year != "" {
			model.Assign(&ec.IncorporationDate, e.value(year, r.SourceName, r.URL, model.ConfidenceLow), e.floor)
		}
	}
}

// record merges a structured provider record.
func (e *extractor) record(rec *model.Record) {
	for _, key := range sortedKeys(rec.Attributes) {
		if slot := e.p.StringField(key); slot != nil {
			model.Assign(slot, e.value(rec.Attributes[key], rec.Source, rec.SourceURL, rec.Confidence), e.floor)
		}
	}
	for _, key := range sortedKeys(rec.Lists) {
		slot := e.p.ListField(key)
		if slot == nil || len(rec.Lists[key]) == 0 {
			continue
		}
		model.Assign(slot, model.FieldValue[[]string]{
			Value:       slices.Clone(rec.Lists[key]),
			Confidence:  rec.Confidence,
			Source:      rec.Source,
			SourceURL:   rec.SourceURL,
			ExtractedAt: e.at,
		}, e.floor)
	}
	for _, scheme := range sortedKeys(rec.Identifiers) {
		if slot := e.p.EntityConfirmation.CompanyIdentifiers.Slot(scheme); slot != nil {
			model.Assign(slot, e.value(rec.Identifiers[scheme], rec.Source, rec.SourceURL, rec.Confidence), e.floor)
		}
	}

	for _, pr := range rec.Principals {
		e.p.PrincipalIdentification.Principals = MergePrincipal(e.p.PrincipalIdentification.Principals, pr)
	}
	for _, rel := range rec.Relatives {
		e.addRelative(rel)
	}

	ss := &e.p.WatchlistAndSanctionsScreening
	ss.SanctionsMatches = append(ss.SanctionsMatches, rec.Matches...)
	for _, l := range rec.ListsChecked {
		if !slices.Contains(ss.ListsChecked, l) {
			ss.ListsChecked = append(ss.ListsChecked, l)
		}
	}
	ss.MatchesFound = len(ss.SanctionsMatches) > 0
}

func (e *extractor) addRelative(rel model.Relative) {
	key := nameKey(rel.Name)
	if key == "" {
		return
	}
	for _, existing := range e.p.PersonDetails.Relatives {
		if nameKey(existing.Name) == key {
			return
		}
	}
	e.p.PersonDetails.Relatives = append(e.p.PersonDetails.Relatives, rel)
}

// principalNames returns up to n principal names in profile order.
func (e *extractor) principalNames(n int) []string {
	var out []string
	for _, p := range e.p.PrincipalIdentification.Principals {
		if len(out) >= n {
			break
		}
		out = append(out, strings.Join(strings.Fields(p.FullName), " "))
	}
	return out
}

// nameKey normalizes a name for de-duplication: case-folded with
// whitespace runs collapsed. Casers are stateful, so one is made per call.
func nameKey(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// MergePrincipal adds p to principals unless a principal with the same
// normalized name exists. For duplicates the record with more non-empty
// fields is kept, in the position of the first occurrence.
func MergePrincipal(principals []model.Principal, p model.Principal) []model.Principal {
	key := nameKey(p.FullName)
	if key == "" {
		return principals
	}
	for i, existing := range principals {
		if nameKey(existing.FullName) != key {
			continue
		}
		if p.Filled() > existing.Filled() {
			principals[i] = p
		}
		return principals
	}
	return append(principals, p)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
