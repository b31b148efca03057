// Package monitoring exposes build and provider metrics and raises alerts
// when saved profiles show elevated provider failures or sanctions hits.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/profile-cli/internal/model"
)

// Metrics records provider calls and profile builds on its own registry.
// It satisfies profile.Observer.
type Metrics struct {
	registry *prometheus.Registry

	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	builds           *prometheus.CounterVec
	buildDuration    *prometheus.HistogramVec
	providerFailures *prometheus.CounterVec
	sanctionsHits    prometheus.Counter
}

// NewMetrics creates a Metrics with a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		providerCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_provider_calls_total",
				Help: "Provider calls by provider, category and outcome",
			},
			[]string{"provider", "category", "outcome"},
		),
		providerDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "profile_provider_call_duration_seconds",
				Help:    "Duration of provider calls in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
			},
			[]string{"provider"},
		),
		builds: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_builds_total",
				Help: "Profile builds by subject kind and status",
			},
			[]string{"kind", "status"},
		),
		buildDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "profile_build_duration_seconds",
				Help:    "Duration of profile builds in seconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
			[]string{"kind"},
		),
		providerFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_provider_failures_total",
				Help: "Provider failures recorded in built profiles",
			},
			[]string{"provider", "kind"},
		),
		sanctionsHits: f.NewCounter(
			prometheus.CounterOpts{
				Name: "profile_sanctions_hits_total",
				Help: "Profiles built with at least one sanctions match",
			},
		),
	}
}

// ObserveCall records one provider call.
func (m *Metrics) ObserveCall(providerName string, category model.Category, outcome string, d time.Duration) {
	m.providerCalls.WithLabelValues(providerName, string(category), outcome).Inc()
	m.providerDuration.WithLabelValues(providerName).Observe(d.Seconds())
}

// ObserveBuild records a finished build. A nil profile with an error
// counts as a rejected build.
func (m *Metrics) ObserveBuild(kind model.SubjectKind, p *model.Profile, d time.Duration, err error) {
	status := "complete"
	switch {
	case err != nil:
		status = "rejected"
	case p != nil && len(p.ResearchMetadata.Failures) > 0:
		status = "partial"
	}
	m.builds.WithLabelValues(string(kind), status).Inc()
	m.buildDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
	if p == nil {
		return
	}
	for _, f := range p.ResearchMetadata.Failures {
		m.providerFailures.WithLabelValues(f.Provider, string(f.Kind)).Inc()
	}
	if p.WatchlistAndSanctionsScreening.MatchesFound {
		m.sanctionsHits.Inc()
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteToTextfile writes the registry for node_exporter's textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	return eris.Wrapf(prometheus.WriteToTextfile(path, m.registry), "monitoring: write textfile %s", path)
}
