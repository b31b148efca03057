package ofac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entitiesJSON = `{"entities": [
	{"id": 101, "name": "TESLA TRADING LLC", "type": "Entity", "programs": ["IRAN"], "addresses": [{"country": "Iran"}]},
	{"id": "102", "name": "Nikola Tesla Shipping", "addresses": [{"country": "Malta"}]},
	{"id": 103, "name": "Acme Logistics", "addresses": []}
]}`

func TestEntities_Wrapped(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entities", r.URL.Path)
		assert.Equal(t, "SDN", r.URL.Query().Get("list"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(entitiesJSON))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.Entities(context.Background(), "", "")

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, FlexID("101"), got[0].ID)
	assert.Equal(t, FlexID("102"), got[1].ID)
	assert.Equal(t, []string{"Iran"}, got[0].Countries())
}

func TestEntities_BareArray(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "IRAN", r.URL.Query().Get("program"))
		_, _ = w.Write([]byte(`[{"id": 1, "name": "X"}]`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.Entities(context.Background(), "SDN", "IRAN")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "X", got[0].Name)
}

func TestSearchEntities(t *testing.T) {
	t.Parallel()

	entities := []Entity{
		{Name: "TESLA TRADING LLC", Addresses: []Address{{Country: "Iran"}}},
		{Name: "Nikola Tesla Shipping", Addresses: []Address{{Country: "Malta"}}},
		{Name: "Acme Logistics"},
	}

	assert.Len(t, SearchEntities(entities, "tesla", ""), 2)

	got := SearchEntities(entities, "Tesla", "malta")
	require.Len(t, got, 1)
	assert.Equal(t, "Nikola Tesla Shipping", got[0].Name)

	assert.Empty(t, SearchEntities(entities, "acme", "Iran"))
}

func TestSanctionsLists_MixedEntries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sanctions-lists", r.URL.Path)
		_, _ = w.Write([]byte(`["SDN", {"name": "Non-SDN Menu-Based Sanctions List", "shortName": "NS-MBS"}]`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.SanctionsLists(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"SDN", "NS-MBS"}, got)
}

func TestAlive_Down(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	err := client.Alive(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

const entityXML = `<?xml version="1.0" encoding="utf-8"?>
<sanctionsData xmlns="https://sanctionslistservice.ofac.treas.gov/api/PublicationPreview/exports/ENHANCED_XML">
  <entities>
    <entity id="30629">
      <generalInfo><entityType>Entity</entityType><remarks>Linked to X</remarks></generalInfo>
      <sanctionsLists><sanctionsList>SDN List</sanctionsList></sanctionsLists>
      <sanctionsPrograms><sanctionsProgram>IRAN</sanctionsProgram><sanctionsProgram>SDGT</sanctionsProgram></sanctionsPrograms>
      <names>
        <name><translations><translation><formattedFullName>GLOBAL VISION GROUP</formattedFullName></translation></translations></name>
        <name><translations><translation><formattedFullName>GLOBAL VISION GROUP</formattedFullName></translation></translations></name>
        <name><translations><translation><formattedFullName>GV GROUP</formattedFullName></translation></translations></name>
      </names>
      <addresses><address><country>Iran</country></address></addresses>
    </entity>
  </entities>
</sanctionsData>`

func TestEntity_ParsesXML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entities/30629", r.URL.Path)
		_, _ = w.Write([]byte(entityXML))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.Entity(context.Background(), "30629")

	require.NoError(t, err)
	assert.Equal(t, "30629", got.ID)
	assert.Equal(t, "Entity", got.EntityType)
	assert.Equal(t, []string{"GLOBAL VISION GROUP", "GV GROUP"}, got.Names)
	assert.Equal(t, []string{"IRAN", "SDGT"}, got.Programs)
	assert.Equal(t, []string{"SDN List"}, got.Lists)
	assert.Equal(t, []string{"Iran"}, got.Countries)
	assert.Equal(t, "Linked to X", got.Remarks)
}

func TestEntity_InvalidID(t *testing.T) {
	t.Parallel()

	client := NewClient(WithBaseURL("http://unused.invalid"))
	_, err := client.Entity(context.Background(), "../alive")
	assert.Error(t, err)
}

func TestParseEntityXML_Missing(t *testing.T) {
	t.Parallel()

	_, err := ParseEntityXML(strings.NewReader(`<root/>`))
	assert.Error(t, err)
}
