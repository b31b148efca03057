package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Confidence is a coarse reliability tag attached to every extracted field.
// The zero value means "no confidence" and never wins a comparison.
type Confidence int

const (
	ConfidenceLow Confidence = iota + 1
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "Low"
	case ConfidenceMedium:
		return "Medium"
	case ConfidenceHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// ParseConfidence parses "low", "medium" or "high" in any case.
func ParseConfidence(s string) (Confidence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return ConfidenceLow, nil
	case "medium", "med":
		return ConfidenceMedium, nil
	case "high":
		return ConfidenceHigh, nil
	default:
		return 0, eris.Errorf("model: invalid confidence %q", s)
	}
}

func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Confidence) UnmarshalText(b []byte) error {
	v, err := ParseConfidence(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
