package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/pkg/ofac"
	"github.com/sells-group/profile-cli/pkg/opensanctions"
	"github.com/sells-group/profile-cli/pkg/sanctionsnet"
)

const ofacSearchURL = "https://sanctionssearch.ofac.treas.gov/"

// OFACLookup screens names against an OFAC Sanctions List Service list. The
// list is fetched whole and matched locally by name.
type OFACLookup struct {
	client ofac.Client
	list   string
}

// NewOFACLookup creates an OFACLookup for list ("" means SDN).
func NewOFACLookup(client ofac.Client, list string) *OFACLookup {
	if list == "" {
		list = "SDN"
	}
	return &OFACLookup{client: client, list: list}
}

func (o *OFACLookup) Name() string           { return "ofac" }
func (o *OFACLookup) Capability() Capability { return CapSanctionsList }

// Lookup implements Lookuper. The hint is not used: it may be an occupation
// rather than a country.
func (o *OFACLookup) Lookup(ctx context.Context, name, _ string) (*model.Record, error) {
	entities, err := o.client.Entities(ctx, o.list, "")
	if err != nil {
		return nil, err
	}
	rec := screeningRecord(o.Name(), ofacSearchURL, name, "OFAC "+o.list)
	for _, e := range ofac.SearchEntities(entities, name, "") {
		rec.Matches = append(rec.Matches, model.SanctionsMatch{
			Name:       e.Name,
			Aliases:    nonNil(e.Aliases),
			EntityID:   string(e.ID),
			EntityType: e.EntityType,
			Lists:      nonNil(e.Lists),
			Programs:   nonNil(e.Programs),
			Countries:  nonNil(e.Countries()),
			Remarks:    e.Remarks,
			Source:     o.Name(),
			SourceURL:  ofacSearchURL,
		})
	}
	finishScreening(rec)
	return rec, nil
}

// OpenSanctionsLookup screens names with the OpenSanctions match API.
type OpenSanctionsLookup struct {
	client opensanctions.Client
}

// NewOpenSanctionsLookup creates an OpenSanctionsLookup.
func NewOpenSanctionsLookup(client opensanctions.Client) *OpenSanctionsLookup {
	return &OpenSanctionsLookup{client: client}
}

func (o *OpenSanctionsLookup) Name() string           { return "opensanctions" }
func (o *OpenSanctionsLookup) Capability() Capability { return CapSanctionsList }

// Lookup implements Lookuper.
func (o *OpenSanctionsLookup) Lookup(ctx context.Context, name, _ string) (*model.Record, error) {
	results, err := o.client.Match(ctx, opensanctions.Query{Name: name})
	if err != nil {
		return nil, err
	}
	rec := screeningRecord(o.Name(), "https://www.opensanctions.org/", name, "OpenSanctions")
	for _, r := range results {
		rec.Matches = append(rec.Matches, model.SanctionsMatch{
			Name:       r.Caption,
			Aliases:    nonNil(r.Property("alias")),
			EntityID:   r.ID,
			EntityType: r.Schema,
			Lists:      nonNil(r.Datasets),
			Programs:   nonNil(r.Property("program")),
			Countries:  nonNil(r.Property("country")),
			Score:      r.Score,
			Remarks:    strings.Join(r.Property("notes"), " "),
			Source:     o.Name(),
			SourceURL:  "https://www.opensanctions.org/entities/" + r.ID + "/",
		})
	}
	finishScreening(rec)
	return rec, nil
}

// SanctionsNetLookup screens names with sanctions.network. The service
// matches loosely; FilterSanctionsMatches narrows the result.
type SanctionsNetLookup struct {
	client sanctionsnet.Client
}

// NewSanctionsNetLookup creates a SanctionsNetLookup.
func NewSanctionsNetLookup(client sanctionsnet.Client) *SanctionsNetLookup {
	return &SanctionsNetLookup{client: client}
}

func (s *SanctionsNetLookup) Name() string           { return "sanctionsnet" }
func (s *SanctionsNetLookup) Capability() Capability { return CapSanctionsList }

// Lookup implements Lookuper.
func (s *SanctionsNetLookup) Lookup(ctx context.Context, name, _ string) (*model.Record, error) {
	records, err := s.client.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	rec := screeningRecord(s.Name(), "https://sanctions.network/", name, "sanctions.network")
	for _, r := range records {
		if len(r.Names) == 0 {
			continue
		}
		rec.Matches = append(rec.Matches, model.SanctionsMatch{
			Name:       r.Names[0],
			Aliases:    nonNil(r.Names[1:]),
			EntityID:   r.SourceID,
			EntityType: r.TargetType,
			Lists:      []string{r.Source},
			Programs:   []string{},
			Countries:  []string{},
			Remarks:    r.Remarks,
			Source:     s.Name(),
			SourceURL:  "https://sanctions.network/",
		})
	}
	finishScreening(rec)
	return rec, nil
}

func screeningRecord(source, sourceURL, name, list string) *model.Record {
	return &model.Record{
		Source:       source,
		SourceURL:    sourceURL,
		Name:         name,
		Confidence:   model.ConfidenceMedium,
		ListsChecked: []string{list},
	}
}

func finishScreening(rec *model.Record) {
	rec.Summary = fmt.Sprintf("%d candidate matches on %s", len(rec.Matches), strings.Join(rec.ListsChecked, ", "))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
