// Package profile builds research profiles by querying providers per
// research category and merging their answers into one record.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/provider"
	"github.com/sells-group/profile-cli/internal/resilience"
)

// Observer receives one event per provider call. Outcome is "ok", "empty",
// "skipped" or a model.ErrorKind.
type Observer interface {
	ObserveCall(providerName string, category model.Category, outcome string, d time.Duration)
}

// Builder runs profile builds against a fixed provider list.
type Builder struct {
	cfg       Config
	providers []provider.Provider
	now       func() time.Time
	observer  Observer
}

// NewBuilder creates a Builder. Provider order is merge precedence.
func NewBuilder(cfg Config, providers ...provider.Provider) *Builder {
	return &Builder{
		cfg:       cfg.withDefaults(),
		providers: providers,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithNow sets the clock used for research dates, extraction and failure
// timestamps.
func (b *Builder) WithNow(fn func() time.Time) *Builder {
	b.now = fn
	return b
}

// WithObserver registers a call observer.
func (b *Builder) WithObserver(o Observer) *Builder {
	b.observer = o
	return b
}

// BuildProfile builds a profile for subject with the given providers.
func BuildProfile(ctx context.Context, subject model.Subject, providers []provider.Provider, cfg Config) (*model.Profile, error) {
	return NewBuilder(cfg, providers...).Build(ctx, subject)
}

// call is one provider invocation within a category.
type call struct {
	provider provider.Provider
	query    string // empty for lookups
	limiter  *rate.Limiter
}

// slot buffers the outcome of one call until the category is flattened.
type slot struct {
	results []model.SearchResult
	record  *model.Record
	err     error
	timeout bool
	skipped bool
}

// lookupMemo keeps each lookup provider's outcome for one build, so a
// provider scoped to several categories is called once.
type lookupMemo struct {
	mu    sync.Mutex
	slots map[string]slot
}

func (m *lookupMemo) get(name string) (slot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[name]
	return s, ok
}

func (m *lookupMemo) put(name string, s slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = s
}

// Build runs every category in order and returns the merged profile. Only
// an invalid subject or config is an error; provider failures are recorded
// in the profile. If ctx ends, the partial profile is returned.
func (b *Builder) Build(ctx context.Context, subject model.Subject) (*model.Profile, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	at := b.now()
	p := model.NewProfile(subject, at)
	p.ResearchMetadata.Disclaimer = b.cfg.Disclaimer
	ex := newExtractor(p, b.cfg.ConfidenceFloor, at)

	var active []provider.Provider
	for _, pr := range b.providers {
		if provider.SupportsSubject(pr, subject.Kind) {
			active = append(active, pr)
		}
	}
	limiters := b.limiters(active)
	memo := &lookupMemo{slots: make(map[string]slot)}

	log := zap.L().With(zap.String("subject", subject.Name), zap.String("kind", string(subject.Kind)))
	log.Info("profile: build started", zap.Int("providers", len(active)))

	cancelled := false
	for _, category := range model.Categories {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		qs := queries(b.cfg.QueryTemplates[subject.Kind][category], subject, ex.principalNames(b.cfg.PrincipalQueryLimit))
		calls := planCalls(active, category, qs, limiters)
		slots := b.run(ctx, subject, category, calls, memo)

		for i, s := range slots {
			c := calls[i]
			switch {
			case s.skipped:
				cancelled = true
			case s.err != nil:
				if ctx.Err() != nil {
					cancelled = true
					continue
				}
				b.recordFailure(p, c.provider.Name(), category, s)
			case s.record != nil:
				p.ResearchMetadata.MarkProviderUsed(c.provider.Name())
				if !s.record.IsEmpty() {
					p.RawResults[category] = append(p.RawResults[category], s.record.AsSearchResult())
				}
				ex.record(s.record)
			default:
				p.ResearchMetadata.MarkProviderUsed(c.provider.Name())
				for _, r := range s.results {
					p.RawResults[category] = append(p.RawResults[category], r)
					ex.result(category, r)
				}
			}
		}
	}

	for _, category := range model.Categories {
		if len(p.RawResults[category]) == 0 {
			p.ResearchMetadata.Limitations = append(p.ResearchMetadata.Limitations,
				fmt.Sprintf("No results were found for %s.", category))
		}
	}
	if cancelled {
		p.ResearchMetadata.Limitations = append(p.ResearchMetadata.Limitations,
			"Research was cancelled before all providers were queried; the profile is partial.")
		log.Warn("profile: build cancelled, returning partial profile")
	}

	log.Info("profile: build complete",
		zap.Int("failures", len(p.ResearchMetadata.Failures)),
		zap.Strings("providers_used", p.ResearchMetadata.ProvidersUsed),
	)
	return p, nil
}

// limiters creates one pacing limiter per provider for this build.
// Self-limiting providers and a zero delay get none.
func (b *Builder) limiters(providers []provider.Provider) map[string]*rate.Limiter {
	out := make(map[string]*rate.Limiter, len(providers))
	if b.cfg.PerQueryDelay <= 0 {
		return out
	}
	for _, pr := range providers {
		if provider.RateLimited(pr) {
			continue
		}
		out[pr.Name()] = rate.NewLimiter(rate.Every(b.cfg.PerQueryDelay), 1)
	}
	return out
}

// planCalls lists the calls of a category in canonical order: provider
// order, then query order. Lookup providers get one call.
func planCalls(providers []provider.Provider, category model.Category, queries []string, limiters map[string]*rate.Limiter) []call {
	var calls []call
	for _, pr := range providers {
		if !provider.AppliesTo(pr, category) {
			continue
		}
		lim := limiters[pr.Name()]
		switch pr.(type) {
		case provider.Searcher:
			for _, q := range queries {
				calls = append(calls, call{provider: pr, query: q, limiter: lim})
			}
		case provider.Lookuper:
			calls = append(calls, call{provider: pr, limiter: lim})
		}
	}
	return calls
}

// run executes calls with providers in parallel and each provider's calls
// in order. Results land in slots indexed like calls.
func (b *Builder) run(ctx context.Context, subject model.Subject, category model.Category, calls []call, memo *lookupMemo) []slot {
	slots := make([]slot, len(calls))

	byProvider := make(map[string][]int)
	var order []string
	for i, c := range calls {
		name := c.provider.Name()
		if _, ok := byProvider[name]; !ok {
			order = append(order, name)
		}
		byProvider[name] = append(byProvider[name], i)
	}

	g := new(errgroup.Group)
	g.SetLimit(max(1, b.cfg.MaxConcurrentProviders))
	for _, name := range order {
		idxs := byProvider[name]
		g.Go(func() error {
			for _, i := range idxs {
				slots[i] = b.invoke(ctx, subject, category, calls[i], memo)
			}
			return nil
		})
	}
	_ = g.Wait()

	return slots
}

func (b *Builder) invoke(ctx context.Context, subject model.Subject, category model.Category, c call, memo *lookupMemo) slot {
	_, isLookup := c.provider.(provider.Lookuper)
	if isLookup {
		if s, ok := memo.get(c.provider.Name()); ok {
			return s
		}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return slot{skipped: true}
		}
	}
	if ctx.Err() != nil {
		return slot{skipped: true}
	}

	callCtx, cancel := resilience.WithCallTimeout(ctx, b.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	var s slot
	switch pr := c.provider.(type) {
	case provider.Searcher:
		results, err := pr.Search(callCtx, c.query, b.cfg.MaxResultsPerQuery)
		s = slot{results: truncate(results, b.cfg.MaxResultsPerQuery), err: err}
	case provider.Lookuper:
		rec, err := pr.Lookup(callCtx, subject.Name, subject.Hint())
		s = slot{record: rec, err: err}
	}
	if s.err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		s.timeout = true
	}
	if isLookup && ctx.Err() == nil {
		memo.put(c.provider.Name(), s)
	}

	b.observe(c.provider.Name(), category, s, time.Since(start))
	return s
}

func (b *Builder) observe(name string, category model.Category, s slot, d time.Duration) {
	if b.observer == nil {
		return
	}
	outcome := "ok"
	switch {
	case s.skipped:
		outcome = "skipped"
	case s.timeout:
		outcome = string(model.ErrorTimeout)
	case s.err != nil:
		outcome = string(resilience.Classify(name, s.err).Kind)
	case s.record == nil && len(s.results) == 0, s.record != nil && s.record.IsEmpty():
		outcome = "empty"
	}
	b.observer.ObserveCall(name, category, outcome, d)
}

func (b *Builder) recordFailure(p *model.Profile, name string, category model.Category, s slot) {
	pe := resilience.Classify(name, s.err)
	kind := pe.Kind
	if s.timeout {
		kind = model.ErrorTimeout
	}
	p.ResearchMetadata.Failures = append(p.ResearchMetadata.Failures, model.ProviderFailure{
		Provider:  name,
		Category:  category,
		Kind:      kind,
		Message:   pe.Message,
		Timestamp: b.now(),
	})
	zap.L().Warn("profile: provider call failed",
		zap.String("provider", name),
		zap.String("category", string(category)),
		zap.String("kind", string(kind)),
		zap.Error(s.err),
	)
}

func truncate(results []model.SearchResult, n int) []model.SearchResult {
	if n > 0 && len(results) > n {
		return results[:n]
	}
	return results
}
