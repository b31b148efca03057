package monitoring

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-cli/internal/config"
	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/store"
)

var collectNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeLister serves snapshots newest first, honoring Limit and Offset.
type fakeLister struct {
	snaps   []store.Snapshot
	listErr error
	calls   int
}

func (f *fakeLister) ListProfiles(_ context.Context, filter store.ProfileFilter) ([]store.Snapshot, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if filter.Offset >= len(f.snaps) {
		return []store.Snapshot{}, nil
	}
	end := min(filter.Offset+filter.Limit, len(f.snaps))
	return f.snaps[filter.Offset:end], nil
}

func snapshotAt(name string, age time.Duration, failures []string, sanctioned bool) store.Snapshot {
	p := model.NewProfile(model.Subject{Kind: model.SubjectOrganization, Name: name}, collectNow.Add(-age))
	for _, prov := range failures {
		p.ResearchMetadata.Failures = append(p.ResearchMetadata.Failures,
			model.ProviderFailure{Provider: prov, Kind: model.ErrorStatus})
	}
	p.WatchlistAndSanctionsScreening.MatchesFound = sanctioned
	return store.Snapshot{ID: name, Name: name, CreatedAt: collectNow.Add(-age), Profile: p}
}

func newTestCollector(l ProfileLister) *Collector {
	c := NewCollector(l)
	c.now = func() time.Time { return collectNow }
	return c
}

func TestCollector_Collect(t *testing.T) {
	st := &fakeLister{snaps: []store.Snapshot{
		snapshotAt("Acme Corp", time.Hour, nil, false),
		snapshotAt("Globex", 2*time.Hour, []string{"serper", "ofac"}, true),
		snapshotAt("Initech", 3*time.Hour, []string{"serper"}, false),
		snapshotAt("Old Co", 48*time.Hour, []string{"serper"}, true),
	}}

	snap, err := newTestCollector(st).Collect(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.ProfilesTotal)
	assert.Equal(t, 2, snap.ProfilesPartial)
	assert.InDelta(t, 2.0/3.0, snap.PartialRate, 0.001)
	assert.Equal(t, 1, snap.SanctionsHits)
	assert.Equal(t, []string{"Globex"}, snap.SanctionsSubjects)
	assert.Equal(t, map[string]int{"serper": 2, "ofac": 1}, snap.ProviderFailures)
	assert.Equal(t, 24, snap.LookbackHours)
	assert.Equal(t, collectNow, snap.CollectedAt)
}

func TestCollector_Empty(t *testing.T) {
	snap, err := newTestCollector(&fakeLister{}).Collect(context.Background(), 24)
	require.NoError(t, err)
	assert.Zero(t, snap.ProfilesTotal)
	assert.Zero(t, snap.PartialRate)
	assert.NotNil(t, snap.ProviderFailures)
}

func TestCollector_Pages(t *testing.T) {
	var snaps []store.Snapshot
	for i := range collectPageSize + 10 {
		snaps = append(snaps, snapshotAt(fmt.Sprintf("co-%d", i), time.Minute, nil, false))
	}
	st := &fakeLister{snaps: snaps}

	snap, err := newTestCollector(st).Collect(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, collectPageSize+10, snap.ProfilesTotal)
	assert.Equal(t, 2, st.calls)
}

func TestCollector_ListError(t *testing.T) {
	st := &fakeLister{listErr: errors.New("db down")}

	_, err := newTestCollector(st).Collect(context.Background(), 24)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list profiles")
}

func TestCollector_ProviderCountedOncePerProfile(t *testing.T) {
	repeated := make([]string, 12)
	for i := range repeated {
		repeated[i] = "serpapi"
	}
	st := &fakeLister{snaps: []store.Snapshot{
		snapshotAt("Acme Corp", time.Hour, nil, false),
		snapshotAt("Globex", 2*time.Hour, repeated, false),
		snapshotAt("Initech", 3*time.Hour, nil, false),
		snapshotAt("Umbrella", 4*time.Hour, nil, false),
		snapshotAt("Hooli", 5*time.Hour, nil, false),
	}}

	snap, err := newTestCollector(st).Collect(context.Background(), 24)
	require.NoError(t, err)
	assert.Equal(t, 5, snap.ProfilesTotal)
	assert.Equal(t, 1, snap.ProfilesPartial)
	assert.Equal(t, map[string]int{"serpapi": 1}, snap.ProviderFailures)

	alerts := NewAlerter(config.MonitoringConfig{FailureRateThreshold: 0.5}).Evaluate(snap)
	for _, a := range alerts {
		assert.NotEqual(t, AlertProviderFailing, a.Type)
	}
}
