package ofac

import (
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/rotisserie/eris"
)

// EntityDetail is the subset of an SLS entity XML record we consume.
type EntityDetail struct {
	ID         string   `json:"id"`
	EntityType string   `json:"entityType"`
	Names      []string `json:"names"`
	Programs   []string `json:"programs"`
	Lists      []string `json:"lists"`
	Countries  []string `json:"countries"`
	Remarks    string   `json:"remarks,omitempty"`
}

// ParseEntityXML extracts an EntityDetail from an SLS entity document.
// Element names are matched by local name so namespaced and plain
// documents parse alike.
func ParseEntityXML(r io.Reader) (*EntityDetail, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, eris.Wrap(err, "ofac: parse entity xml")
	}

	entity := xmlquery.FindOne(doc, "//*[local-name()='entity']")
	if entity == nil {
		return nil, eris.New("ofac: entity element not found")
	}

	d := &EntityDetail{
		ID:         entity.SelectAttr("id"),
		EntityType: firstText(entity, ".//*[local-name()='entityType']"),
		Names:      texts(entity, ".//*[local-name()='formattedFullName']"),
		Programs:   texts(entity, ".//*[local-name()='sanctionsProgram']"),
		Lists:      texts(entity, ".//*[local-name()='sanctionsList']"),
		Countries:  texts(entity, ".//*[local-name()='country']"),
		Remarks:    firstText(entity, ".//*[local-name()='remarks']"),
	}
	return d, nil
}

func firstText(n *xmlquery.Node, expr string) string {
	if m := xmlquery.FindOne(n, expr); m != nil {
		return strings.TrimSpace(m.InnerText())
	}
	return ""
}

// texts returns the distinct non-empty inner texts of matching nodes, in
// document order.
func texts(n *xmlquery.Node, expr string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range xmlquery.Find(n, expr) {
		t := strings.TrimSpace(m.InnerText())
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
