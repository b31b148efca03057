package profile

import (
	_ "embed"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/profile-cli/internal/model"
)

//go:embed templates.yaml
var defaultTemplatesYAML []byte

// Templates holds the ordered query templates per subject kind and category.
type Templates map[model.SubjectKind]map[model.Category][]string

// Config controls a profile build.
type Config struct {
	// MaxResultsPerQuery caps the results kept from each search call.
	MaxResultsPerQuery int
	// PerQueryDelay is the minimum spacing between calls to one provider.
	// Zero disables pacing.
	PerQueryDelay time.Duration
	// ConfidenceFloor rejects extracted values below this confidence.
	ConfidenceFloor model.Confidence
	QueryTemplates  Templates
	// CallTimeout bounds each provider call.
	CallTimeout            time.Duration
	MaxConcurrentProviders int
	// PrincipalQueryLimit is how many principal names feed {principal}
	// templates.
	PrincipalQueryLimit int
	Disclaimer          string
}

// DefaultConfig returns the build defaults with the bundled templates.
func DefaultConfig() Config {
	tmpl, err := ParseTemplates(defaultTemplatesYAML)
	if err != nil {
		panic(eris.Wrap(err, "profile: bundled templates"))
	}
	return Config{
		MaxResultsPerQuery:     5,
		PerQueryDelay:          time.Second,
		ConfidenceFloor:        model.ConfidenceLow,
		QueryTemplates:         tmpl,
		CallTimeout:            20 * time.Second,
		MaxConcurrentProviders: 4,
		PrincipalQueryLimit:    3,
		Disclaimer:             model.DefaultDisclaimer,
	}
}

var placeholderPattern = regexp.MustCompile(`\{[^{}]*\}`)

var knownPlaceholders = map[string]bool{
	"{name}":         true,
	"{jurisdiction}": true,
	"{auxiliary}":    true,
	"{principal}":    true,
}

// Validate reports a ConfigError for values a build cannot run with.
func (c Config) Validate() error {
	if c.MaxResultsPerQuery < 1 {
		return model.NewConfigError("maxResultsPerQuery", "must be at least 1")
	}
	if c.PerQueryDelay < 0 {
		return model.NewConfigError("perQueryDelay", "must not be negative")
	}
	if c.CallTimeout < 0 {
		return model.NewConfigError("callTimeout", "must not be negative")
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > model.ConfidenceHigh {
		return model.NewConfigError("confidenceFloor", "must be Low, Medium or High")
	}
	if c.MaxConcurrentProviders < 0 || c.PrincipalQueryLimit < 0 {
		return model.NewConfigError("concurrency", "limits must not be negative")
	}
	for kind, byCategory := range c.QueryTemplates {
		for category, templates := range byCategory {
			for _, t := range templates {
				for _, ph := range placeholderPattern.FindAllString(t, -1) {
					if !knownPlaceholders[ph] {
						return model.NewConfigError("queryTemplates",
							"unknown placeholder "+ph+" in "+string(kind)+"/"+string(category))
					}
				}
			}
		}
	}
	return nil
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.CallTimeout == 0 {
		c.CallTimeout = def.CallTimeout
	}
	if c.MaxConcurrentProviders == 0 {
		c.MaxConcurrentProviders = def.MaxConcurrentProviders
	}
	if c.ConfidenceFloor == 0 {
		c.ConfidenceFloor = model.ConfidenceLow
	}
	if c.QueryTemplates == nil {
		c.QueryTemplates = def.QueryTemplates
	}
	if c.Disclaimer == "" {
		c.Disclaimer = def.Disclaimer
	}
	return c
}

// ParseTemplates parses a YAML template document keyed by subject kind,
// then category.
func ParseTemplates(data []byte) (Templates, error) {
	var raw map[string]map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "profile: parse templates")
	}

	out := make(Templates, len(raw))
	for kindName, byCategory := range raw {
		kind, err := model.ParseSubjectKind(kindName)
		if err != nil {
			return nil, err
		}
		cats := make(map[model.Category][]string, len(byCategory))
		for catName, templates := range byCategory {
			cat, ok := parseCategory(catName)
			if !ok {
				return nil, model.NewConfigError("queryTemplates", "unknown category "+catName)
			}
			cats[cat] = templates
		}
		out[kind] = cats
	}
	return out, nil
}

// LoadTemplates reads query templates from a YAML file.
func LoadTemplates(path string) (Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "profile: read templates %s", path)
	}
	return ParseTemplates(data)
}

func parseCategory(s string) (model.Category, bool) {
	for _, c := range model.Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// renderQuery substitutes subject values into a template and collapses
// whitespace left by empty placeholders.
func renderQuery(template string, s model.Subject, principal string) string {
	r := strings.NewReplacer(
		"{name}", strings.TrimSpace(s.Name),
		"{jurisdiction}", strings.TrimSpace(s.Jurisdiction),
		"{auxiliary}", strings.TrimSpace(s.Auxiliary),
		"{principal}", strings.TrimSpace(principal),
	)
	return strings.Join(strings.Fields(r.Replace(template)), " ")
}

// queries expands the templates of a category in order, dropping
// duplicates. {principal} templates are expanded once per principal.
func queries(templates []string, s model.Subject, principals []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(q string) {
		if q == "" || seen[q] {
			return
		}
		seen[q] = true
		out = append(out, q)
	}
	for _, t := range templates {
		if !strings.Contains(t, "{principal}") {
			add(renderQuery(t, s, ""))
			continue
		}
		for _, p := range principals {
			add(renderQuery(t, s, p))
		}
	}
	return out
}
