package fetcher

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// HTMLText returns the visible text of an HTML document, one text node per
// line. Script, style and noscript content is dropped.
func HTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", eris.Wrap(err, "html: parse document")
	}
	doc.Find("script, style, noscript").Remove()

	var lines []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				if line := strings.TrimSpace(c.Text()); line != "" {
					lines = append(lines, line)
				}
				return
			}
			walk(c)
		})
	}
	walk(doc.Selection)

	return strings.Join(lines, "\n"), nil
}
