package provider

import (
	"context"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/resilience"
)

// Resilient wraps p so transient failures are retried behind a circuit
// breaker keyed by the provider name. Failures come back as
// *model.ProviderError. Category scope, subject scope and self-limiting
// are forwarded to p.
func Resilient(p Provider, retry resilience.RetryConfig, breakers *resilience.ServiceBreakers) Provider {
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger(p.Name(), "call")
	}
	base := resilientBase{inner: p, retry: retry, breaker: breakers.Get(p.Name())}
	switch v := p.(type) {
	case Searcher:
		return &resilientSearcher{resilientBase: base, searcher: v}
	case Lookuper:
		return &resilientLookuper{resilientBase: base, lookuper: v}
	default:
		return p
	}
}

type resilientBase struct {
	inner   Provider
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

func (r resilientBase) Name() string                      { return r.inner.Name() }
func (r resilientBase) Capability() Capability            { return r.inner.Capability() }
func (r resilientBase) Categories() []model.Category      { return CategoriesOf(r.inner) }
func (r resilientBase) Supports(k model.SubjectKind) bool { return SupportsSubject(r.inner, k) }
func (r resilientBase) RateLimited() bool                 { return RateLimited(r.inner) }

// Unwrap returns the decorated provider.
func (r resilientBase) Unwrap() Provider { return r.inner }

func run[T any](ctx context.Context, r resilientBase, fn func(context.Context) (T, error)) (T, error) {
	v, err := resilience.ExecuteVal(ctx, r.breaker, func(ctx context.Context) (T, error) {
		return resilience.DoVal(ctx, r.retry, fn)
	})
	if err != nil {
		var zero T
		return zero, resilience.Classify(r.inner.Name(), err)
	}
	return v, nil
}

type resilientSearcher struct {
	resilientBase
	searcher Searcher
}

func (r *resilientSearcher) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	return run(ctx, r.resilientBase, func(ctx context.Context) ([]model.SearchResult, error) {
		return r.searcher.Search(ctx, query, maxResults)
	})
}

type resilientLookuper struct {
	resilientBase
	lookuper Lookuper
}

func (r *resilientLookuper) Lookup(ctx context.Context, name, hint string) (*model.Record, error) {
	return run(ctx, r.resilientBase, func(ctx context.Context) (*model.Record, error) {
		return r.lookuper.Lookup(ctx, name, hint)
	})
}
