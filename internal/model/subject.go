package model

import (
	"strings"
)

// SubjectKind distinguishes the two kinds of research subject.
type SubjectKind string

const (
	SubjectOrganization SubjectKind = "organization"
	SubjectPerson       SubjectKind = "person"
)

// ParseSubjectKind maps user input onto a SubjectKind. Common synonyms
// ("company", "individual") are accepted.
func ParseSubjectKind(s string) (SubjectKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "organization", "organisation", "org", "company", "entity":
		return SubjectOrganization, nil
	case "person", "individual", "people":
		return SubjectPerson, nil
	default:
		return "", NewConfigError("subject.kind", "unknown subject kind "+quote(s))
	}
}

// Subject is the organization or person being profiled. It is a value type
// and is never modified once a build starts.
type Subject struct {
	Kind         SubjectKind `json:"kind"`
	Name         string      `json:"name"`
	Jurisdiction string      `json:"jurisdiction,omitempty"`
	Auxiliary    string      `json:"auxiliary,omitempty"` // occupation or extra location
}

// Validate reports a ConfigError when the subject cannot be researched.
func (s Subject) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewConfigError("subject.name", "name is required")
	}
	switch s.Kind {
	case SubjectOrganization, SubjectPerson:
		return nil
	default:
		return NewConfigError("subject.kind", "unknown subject kind "+quote(string(s.Kind)))
	}
}

// Hint is the disambiguation string handed to lookup providers: the
// jurisdiction when known, otherwise the auxiliary detail.
func (s Subject) Hint() string {
	if j := strings.TrimSpace(s.Jurisdiction); j != "" {
		return j
	}
	return strings.TrimSpace(s.Auxiliary)
}

func quote(s string) string {
	return `"` + s + `"`
}
