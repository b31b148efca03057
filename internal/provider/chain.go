package provider

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
)

// SearchChain tries searchers in priority order and returns the first
// non-empty success. It fails only when every searcher failed.
type SearchChain struct {
	name      string
	searchers []Searcher
}

// NewSearchChain creates a SearchChain. The chain reports the capability of
// its first member.
func NewSearchChain(name string, searchers ...Searcher) *SearchChain {
	return &SearchChain{name: name, searchers: searchers}
}

func (c *SearchChain) Name() string { return c.name }

func (c *SearchChain) Capability() Capability {
	if len(c.searchers) == 0 {
		return CapWebSearch
	}
	return c.searchers[0].Capability()
}

// Search implements Searcher.
func (c *SearchChain) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	var lastErr error
	failed := 0
	for _, s := range c.searchers {
		results, err := s.Search(ctx, query, maxResults)
		if err != nil {
			zap.L().Debug("provider: chain member failed, trying next",
				zap.String("chain", c.name),
				zap.String("provider", s.Name()),
				zap.Error(err),
			)
			lastErr = err
			failed++
			continue
		}
		if len(results) > 0 {
			return results, nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	if failed > 0 && failed == len(c.searchers) {
		return nil, eris.Wrapf(lastErr, "provider: all searchers in %s failed", c.name)
	}
	return nil, nil
}

// LookupChain tries lookupers in priority order and returns the first
// non-empty record.
type LookupChain struct {
	name      string
	lookupers []Lookuper
}

// NewLookupChain creates a LookupChain.
func NewLookupChain(name string, lookupers ...Lookuper) *LookupChain {
	return &LookupChain{name: name, lookupers: lookupers}
}

func (c *LookupChain) Name() string { return c.name }

func (c *LookupChain) Capability() Capability {
	if len(c.lookupers) == 0 {
		return CapInstantAnswer
	}
	return c.lookupers[0].Capability()
}

// Lookup implements Lookuper.
func (c *LookupChain) Lookup(ctx context.Context, name, hint string) (*model.Record, error) {
	var lastErr error
	failed := 0
	for _, l := range c.lookupers {
		rec, err := l.Lookup(ctx, name, hint)
		if err != nil {
			zap.L().Debug("provider: chain member failed, trying next",
				zap.String("chain", c.name),
				zap.String("provider", l.Name()),
				zap.Error(err),
			)
			lastErr = err
			failed++
			continue
		}
		if !rec.IsEmpty() {
			return rec, nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	if failed > 0 && failed == len(c.lookupers) {
		return nil, eris.Wrapf(lastErr, "provider: all lookupers in %s failed", c.name)
	}
	return nil, nil
}
