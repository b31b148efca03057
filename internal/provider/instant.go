package provider

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/pkg/duckduckgo"
	"github.com/sells-group/profile-cli/pkg/serper"
)

// DuckDuckGoAnswer looks subjects up in DuckDuckGo's Instant Answer API and
// maps the infobox onto profile fields.
type DuckDuckGoAnswer struct {
	client   duckduckgo.Client
	resolver serper.Client
}

// NewDuckDuckGoAnswer creates a DuckDuckGoAnswer. When resolver is set, a
// subject without an instant answer is retried under the title of its
// Wikipedia article as found by web search.
func NewDuckDuckGoAnswer(client duckduckgo.Client, resolver serper.Client) *DuckDuckGoAnswer {
	return &DuckDuckGoAnswer{client: client, resolver: resolver}
}

func (d *DuckDuckGoAnswer) Name() string           { return "duckduckgo_answer" }
func (d *DuckDuckGoAnswer) Capability() Capability { return CapInstantAnswer }

// Lookup implements Lookuper.
func (d *DuckDuckGoAnswer) Lookup(ctx context.Context, name, hint string) (*model.Record, error) {
	query := strings.TrimSpace(name + " " + hint)
	answer, err := d.client.InstantAnswer(ctx, query)
	if err != nil {
		return nil, err
	}
	if answer == nil && query != name {
		answer, err = d.client.InstantAnswer(ctx, name)
		if err != nil {
			return nil, err
		}
	}
	if answer == nil && d.resolver != nil {
		if title := d.wikipediaTitle(ctx, name); title != "" {
			answer, err = d.client.InstantAnswer(ctx, title)
			if err != nil {
				return nil, err
			}
		}
	}
	if answer == nil {
		return nil, nil
	}
	return answerRecord(d.Name(), answer), nil
}

// wikipediaTitle returns the article title of the first Wikipedia hit for
// name, or "".
func (d *DuckDuckGoAnswer) wikipediaTitle(ctx context.Context, name string) string {
	resp, err := d.resolver.Search(ctx, name+" wikipedia", 5)
	if err != nil {
		zap.L().Debug("provider: wikipedia title lookup failed", zap.String("name", name), zap.Error(err))
		return ""
	}
	for _, r := range resp.Organic {
		if !strings.Contains(r.Link, "wikipedia.org/wiki/") {
			continue
		}
		title := strings.TrimSpace(strings.TrimSuffix(r.Title, " - Wikipedia"))
		if title != "" {
			return title
		}
	}
	return ""
}

type infoboxTarget struct {
	field    model.FieldKey
	relation string
}

// infoboxFields maps lowercased infobox labels onto profile fields. Labels
// with a relation populate Relatives instead.
var infoboxFields = map[string]infoboxTarget{
	"born":                {field: model.FieldBirthDate},
	"birth date":          {field: model.FieldBirthDate},
	"date of birth":       {field: model.FieldBirthDate},
	"birth place":         {field: model.FieldBirthPlace},
	"place of birth":      {field: model.FieldBirthPlace},
	"died":                {field: model.FieldDeathDate},
	"death date":          {field: model.FieldDeathDate},
	"nationality":         {field: model.FieldNationalities},
	"citizenship":         {field: model.FieldNationalities},
	"occupation":          {field: model.FieldOccupations},
	"occupations":         {field: model.FieldOccupations},
	"employer":            {field: model.FieldEmployers},
	"employers":           {field: model.FieldEmployers},
	"education":           {field: model.FieldEducation},
	"alma mater":          {field: model.FieldEducation},
	"founded":             {field: model.FieldIncorporationDate},
	"formation":           {field: model.FieldIncorporationDate},
	"inception":           {field: model.FieldIncorporationDate},
	"headquarters":        {field: model.FieldRegisteredBusinessAddress},
	"industry":            {field: model.FieldIndustry},
	"number of employees": {field: model.FieldNumberOfEmployees},
	"employees":           {field: model.FieldNumberOfEmployees},
	"revenue":             {field: model.FieldAnnualRevenue},
	"website":             {field: model.FieldWebsiteURL},
	"official website":    {field: model.FieldWebsiteURL},
	"parent":              {field: model.FieldParentCompany},
	"parent company":      {field: model.FieldParentCompany},
	"parent organization": {field: model.FieldParentCompany},
	"subsidiaries":        {field: model.FieldSubsidiaries},
	"country":             {field: model.FieldCountryOfIncorporation},
	"spouse":              {relation: "spouse"},
	"spouse(s)":           {relation: "spouse"},
	"children":            {relation: "child"},
	"parents":             {relation: "parent"},
	"parent(s)":           {relation: "parent"},
	"relatives":           {relation: "relative"},
	"siblings":            {relation: "sibling"},
}

var listFields = map[model.FieldKey]bool{
	model.FieldNationalities: true,
	model.FieldOccupations:   true,
	model.FieldEmployers:     true,
	model.FieldEducation:     true,
	model.FieldSubsidiaries:  true,
}

func answerRecord(source string, a *duckduckgo.InstantAnswer) *model.Record {
	rec := &model.Record{
		Source:     source,
		SourceURL:  a.AbstractURL,
		Name:       a.Heading,
		Summary:    a.AbstractText,
		Confidence: model.ConfidenceMedium,
		Attributes: map[model.FieldKey]string{},
		Lists:      map[model.FieldKey][]string{},
	}
	if a.AbstractText != "" && !strings.EqualFold(a.Entity, "person") {
		rec.Attributes[model.FieldBusinessDescription] = a.AbstractText
	}

	for _, item := range a.Infobox {
		target, ok := infoboxFields[strings.ToLower(strings.TrimSpace(item.Label))]
		if !ok || len(item.Values) == 0 {
			continue
		}
		if target.relation != "" {
			for _, v := range item.Values {
				rec.Relatives = append(rec.Relatives, model.Relative{Name: v, Relation: target.relation})
			}
			continue
		}
		if listFields[target.field] {
			rec.Lists[target.field] = appendUnique(rec.Lists[target.field], item.Values...)
			continue
		}
		if _, set := rec.Attributes[target.field]; !set {
			rec.Attributes[target.field] = strings.Join(item.Values, ", ")
		}
	}
	return rec
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		dup := false
		for _, d := range dst {
			if strings.EqualFold(d, v) {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
