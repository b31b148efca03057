package model

import "time"

// DefaultDisclaimer is attached to every profile.
const DefaultDisclaimer = "Results are compiled automatically from public sources and are unverified. " +
	"Manual verification against official registries and sanctions databases is required."

// ProviderFailure records one failed provider call.
type ProviderFailure struct {
	Provider  string    `json:"provider"`
	Category  Category  `json:"category"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ResearchMetadata explains how a profile was produced and what could not
// be determined. It replaces any process-wide status log.
type ResearchMetadata struct {
	ResearchDate  time.Time         `json:"researchDate"`
	ProvidersUsed []string          `json:"providersUsed"`
	Disclaimer    string            `json:"disclaimer"`
	Limitations   []string          `json:"limitations"`
	Failures      []ProviderFailure `json:"failures"`
}

// MarkProviderUsed appends name to ProvidersUsed once.
func (m *ResearchMetadata) MarkProviderUsed(name string) {
	for _, n := range m.ProvidersUsed {
		if n == name {
			return
		}
	}
	m.ProvidersUsed = append(m.ProvidersUsed, name)
}
