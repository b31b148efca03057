package monitoring

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/profile-cli/internal/store"
)

// MetricsSnapshot holds a point-in-time view of saved profile health.
type MetricsSnapshot struct {
	ProfilesTotal     int            `json:"profiles_total"`
	ProfilesPartial   int            `json:"profiles_partial"`
	PartialRate       float64        `json:"partial_rate"`
	SanctionsHits     int            `json:"sanctions_hits"`
	SanctionsSubjects []string       `json:"sanctions_subjects,omitempty"`
	ProviderFailures  map[string]int `json:"provider_failures"` // profiles with at least one failure, per provider

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// ProfileLister is the part of store.Store the collector reads.
type ProfileLister interface {
	ListProfiles(ctx context.Context, filter store.ProfileFilter) ([]store.Snapshot, error)
}

// Collector gathers metrics from saved profile snapshots.
type Collector struct {
	store ProfileLister
	now   func() time.Time
}

// NewCollector creates a new metrics collector.
func NewCollector(st ProfileLister) *Collector {
	return &Collector{store: st, now: func() time.Time { return time.Now().UTC() }}
}

const collectPageSize = 500

// Collect gathers a snapshot over the given lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	snap := &MetricsSnapshot{
		ProviderFailures: map[string]int{},
		LookbackHours:    lookbackHours,
		CollectedAt:      c.now(),
	}
	cutoff := snap.CollectedAt.Add(-time.Duration(lookbackHours) * time.Hour)

	// Snapshots come back newest first, so paging stops at the cutoff.
	for offset := 0; ; offset += collectPageSize {
		page, err := c.store.ListProfiles(ctx, store.ProfileFilter{Limit: collectPageSize, Offset: offset})
		if err != nil {
			return nil, eris.Wrap(err, "monitoring: list profiles")
		}
		done := len(page) < collectPageSize
		for _, s := range page {
			if s.CreatedAt.Before(cutoff) {
				done = true
				break
			}
			c.add(snap, s)
		}
		if done {
			break
		}
	}

	if snap.ProfilesTotal > 0 {
		snap.PartialRate = float64(snap.ProfilesPartial) / float64(snap.ProfilesTotal)
	}
	sort.Strings(snap.SanctionsSubjects)
	return snap, nil
}

func (c *Collector) add(snap *MetricsSnapshot, s store.Snapshot) {
	snap.ProfilesTotal++
	if s.Profile == nil {
		return
	}
	failures := s.Profile.ResearchMetadata.Failures
	if len(failures) > 0 {
		snap.ProfilesPartial++
	}
	seen := make(map[string]bool, len(failures))
	for _, f := range failures {
		if seen[f.Provider] {
			continue
		}
		seen[f.Provider] = true
		snap.ProviderFailures[f.Provider]++
	}
	if s.Profile.WatchlistAndSanctionsScreening.MatchesFound {
		snap.SanctionsHits++
		snap.SanctionsSubjects = append(snap.SanctionsSubjects, s.Name)
	}
}
