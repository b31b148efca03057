package model

import "time"

// Category is one of the four fixed research topics.
type Category string

const (
	CategoryEntityIdentity  Category = "entityIdentity"
	CategoryPrincipals      Category = "principals"
	CategoryBusinessProfile Category = "businessProfile"
	CategoryAdverseMedia    Category = "adverseMedia"
)

// Categories lists the research categories in the order they are processed.
var Categories = []Category{
	CategoryEntityIdentity,
	CategoryPrincipals,
	CategoryBusinessProfile,
	CategoryAdverseMedia,
}

// SearchResult is one normalized hit returned by any provider.
type SearchResult struct {
	Title       string     `json:"title"`
	URL         string     `json:"url,omitempty"`
	Snippet     string     `json:"snippet,omitempty"`
	Description string     `json:"description,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	SourceName  string     `json:"sourceName"`
}

// Text is the free text the extraction heuristics look at.
func (r SearchResult) Text() string {
	return r.Snippet + " " + r.Description
}

// Record is a structured provider answer, returned by lookup-style providers
// (registries, instant-answer APIs, sanctions lists) instead of free text.
type Record struct {
	Source     string     `json:"source"`
	SourceURL  string     `json:"sourceURL,omitempty"`
	Name       string     `json:"name"`
	Summary    string     `json:"summary,omitempty"`
	Confidence Confidence `json:"confidence"`

	// Attributes holds single-valued facts keyed by profile field.
	Attributes map[FieldKey]string `json:"attributes,omitempty"`
	// Lists holds multi-valued facts keyed by profile field.
	Lists map[FieldKey][]string `json:"lists,omitempty"`
	// Identifiers holds company identifiers keyed by scheme (LEI, CIK, ...).
	Identifiers map[string]string `json:"identifiers,omitempty"`

	Principals   []Principal      `json:"principals,omitempty"`
	Relatives    []Relative       `json:"relatives,omitempty"`
	Matches      []SanctionsMatch `json:"matches,omitempty"`
	ListsChecked []string         `json:"listsChecked,omitempty"`
}

// IsEmpty reports whether the record carries nothing worth merging.
func (r *Record) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Name == "" && r.Summary == "" &&
		len(r.Attributes) == 0 && len(r.Lists) == 0 && len(r.Identifiers) == 0 &&
		len(r.Principals) == 0 && len(r.Relatives) == 0 && len(r.Matches) == 0
}

// AsSearchResult flattens the record into a SearchResult for provenance.
func (r *Record) AsSearchResult() SearchResult {
	return SearchResult{
		Title:      r.Name,
		URL:        r.SourceURL,
		Snippet:    r.Summary,
		SourceName: r.Source,
	}
}
