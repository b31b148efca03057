package edgar

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ParseMasterIndex extracts the unique CIK/company pairs from a master.idx
// listing. Header, separator and description lines are skipped. When a CIK
// appears more than once the last name wins.
func ParseMasterIndex(r io.Reader) ([]Company, error) {
	names := make(map[string]string)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "CIK") || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "Description:") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		names[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "edgar: scan master index")
	}

	out := make([]Company, 0, len(names))
	for cik, name := range names {
		out = append(out, Company{CIK: cik, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CIK < out[j].CIK })
	return out, nil
}

var (
	exhibit21Start = regexp.MustCompile(`(?i)Exhibit\s*21`)
	exhibit21End   = regexp.MustCompile(`(?i)Exhibit\s*\d+|SIGNATURES|Item\s*1`)
	companySuffix  = regexp.MustCompile(`(?i)\bInc\.|LLC|Ltd\.|Corporation|Corp\b`)
)

// ExtractSubsidiaries finds the Exhibit 21 section of a 10-K's text and
// returns the lines that look like company names. The section runs from the
// first "Exhibit 21" to the next exhibit heading, the signatures block, an
// "Item 1" heading, or the end of the text.
func ExtractSubsidiaries(text string) []string {
	loc := exhibit21Start.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	section := text[loc[1]:]
	if end := exhibit21End.FindStringIndex(section); end != nil {
		section = section[:end[0]]
	}

	seen := make(map[string]bool)
	var out []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] || !companySuffix.MatchString(line) {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	return out
}
