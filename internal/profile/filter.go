package profile

import (
	"regexp"
	"strings"

	"github.com/sells-group/profile-cli/internal/model"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NamePattern builds the case-insensitive pattern used to post-filter
// provider results: the target is escaped and each internal whitespace run
// becomes `\s*`, so "GLOBAL VISION" matches "Global Vision" and
// "GlobalVision" but not "Visionary Global".
func NamePattern(target string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(strings.TrimSpace(target))
	return regexp.MustCompile(`(?i)` + whitespaceRun.ReplaceAllString(escaped, `\s*`))
}

// FilterByName returns the records whose name, as returned by name,
// matches target.
func FilterByName[T any](records []T, target string, name func(T) string) []T {
	re := NamePattern(target)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if re.MatchString(name(r)) {
			out = append(out, r)
		}
	}
	return out
}

// FilterNames is FilterByName over plain strings.
func FilterNames(names []string, target string) []string {
	return FilterByName(names, target, func(s string) string { return s })
}

// FilterSanctionsMatches keeps the matches where the primary name or an
// alias matches target. Kept matches carry only their matching aliases.
func FilterSanctionsMatches(matches []model.SanctionsMatch, target string) []model.SanctionsMatch {
	re := NamePattern(target)
	out := make([]model.SanctionsMatch, 0, len(matches))
	for _, m := range matches {
		aliases := make([]string, 0, len(m.Aliases))
		for _, a := range m.Aliases {
			if re.MatchString(a) {
				aliases = append(aliases, a)
			}
		}
		if !re.MatchString(m.Name) && len(aliases) == 0 {
			continue
		}
		m.Aliases = aliases
		out = append(out, m)
	}
	return out
}
