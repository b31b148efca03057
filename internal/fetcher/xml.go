package fetcher

import (
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/rotisserie/eris"
)

// XMLValues parses an XML document and returns the trimmed inner text of
// every node matching the XPath expression, skipping empty values.
func XMLValues(r io.Reader, expr string) ([]string, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, eris.Wrap(err, "xml: parse document")
	}

	nodes, err := xmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil, eris.Wrapf(err, "xml: invalid xpath %q", expr)
	}

	values := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if v := strings.TrimSpace(n.InnerText()); v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}
