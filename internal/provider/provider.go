// Package provider defines the capability interfaces that research data
// sources implement, and adapters for the concrete backends.
package provider

import (
	"context"
	"slices"
	"sync"

	"github.com/sells-group/profile-cli/internal/model"
)

// Capability identifies what kind of data a provider returns.
type Capability string

const (
	CapWebSearch     Capability = "web_search"
	CapNewsSearch    Capability = "news_search"
	CapInstantAnswer Capability = "instant_answer"
	CapSanctionsList Capability = "sanctions_list"
)

// Provider is an external data source.
type Provider interface {
	// Name identifies the provider in provenance and failure records.
	Name() string
	// Capability reports which of the four capabilities the provider offers.
	Capability() Capability
}

// Searcher answers free-text queries.
type Searcher interface {
	Provider
	Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error)
}

// Lookuper answers structured lookups for a subject name. A nil record
// means no match.
type Lookuper interface {
	Provider
	Lookup(ctx context.Context, name, hint string) (*model.Record, error)
}

// CategoryScoped is implemented by providers that restrict themselves to
// particular research categories.
type CategoryScoped interface {
	Categories() []model.Category
}

// SubjectScoped is implemented by providers that only serve one kind of
// subject (EDGAR and OpenCorporates only know organizations).
type SubjectScoped interface {
	Supports(kind model.SubjectKind) bool
}

// SelfLimiting is implemented by providers that pace their own requests,
// letting the builder skip its per-query delay.
type SelfLimiting interface {
	RateLimited() bool
}

// CategoriesOf returns the categories p applies to: its own scope when it
// declares one, otherwise the default for its capability.
func CategoriesOf(p Provider) []model.Category {
	if cs, ok := p.(CategoryScoped); ok {
		return cs.Categories()
	}
	switch p.Capability() {
	case CapWebSearch:
		return model.Categories
	case CapNewsSearch, CapSanctionsList:
		return []model.Category{model.CategoryAdverseMedia}
	case CapInstantAnswer:
		return []model.Category{model.CategoryEntityIdentity}
	default:
		return nil
	}
}

// AppliesTo reports whether p should be queried for category c.
func AppliesTo(p Provider, c model.Category) bool {
	return slices.Contains(CategoriesOf(p), c)
}

// SupportsSubject reports whether p serves subjects of the given kind.
func SupportsSubject(p Provider, kind model.SubjectKind) bool {
	if ss, ok := p.(SubjectScoped); ok {
		return ss.Supports(kind)
	}
	return true
}

// RateLimited reports whether p paces its own requests.
func RateLimited(p Provider) bool {
	if sl, ok := p.(SelfLimiting); ok {
		return sl.RateLimited()
	}
	return false
}

// Registry holds providers in registration order. Order matters: it is the
// precedence order of the merge.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider. Registering a name again replaces the provider
// but keeps its original position.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.Name()]; !ok {
		r.order = append(r.order, p.Name())
	}
	r.providers[p.Name()] = p
}

// Get returns a provider by name, or nil if not found.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// List returns all registered provider names in order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Providers returns the registered providers in order.
func (r *Registry) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name])
	}
	return out
}

// Select returns the registered providers whose names are in names, in
// registration order. An empty names selects everything.
func (r *Registry) Select(names []string) []Provider {
	all := r.Providers()
	if len(names) == 0 {
		return all
	}
	out := make([]Provider, 0, len(names))
	for _, p := range all {
		if slices.Contains(names, p.Name()) {
			out = append(out, p)
		}
	}
	return out
}
