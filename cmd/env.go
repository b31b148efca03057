package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/config"
	"github.com/sells-group/profile-cli/internal/fetcher"
	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/monitoring"
	"github.com/sells-group/profile-cli/internal/profile"
	"github.com/sells-group/profile-cli/internal/provider"
	"github.com/sells-group/profile-cli/internal/resilience"
	"github.com/sells-group/profile-cli/internal/store"
	"github.com/sells-group/profile-cli/pkg/duckduckgo"
	"github.com/sells-group/profile-cli/pkg/edgar"
	"github.com/sells-group/profile-cli/pkg/google"
	"github.com/sells-group/profile-cli/pkg/jina"
	"github.com/sells-group/profile-cli/pkg/newsapi"
	"github.com/sells-group/profile-cli/pkg/ofac"
	"github.com/sells-group/profile-cli/pkg/opencorporates"
	"github.com/sells-group/profile-cli/pkg/opensanctions"
	"github.com/sells-group/profile-cli/pkg/sanctionsnet"
	"github.com/sells-group/profile-cli/pkg/serpapi"
	"github.com/sells-group/profile-cli/pkg/serper"
)

// webChainName is the provider name of the SerpAPI then DuckDuckGo fallback.
const webChainName = "web_search"

// appEnv holds everything a command needs to build and persist profiles.
type appEnv struct {
	Registry *provider.Registry
	Fetcher  *fetcher.HTTPFetcher
	Build    profile.Config
	Store    store.Store
	Metrics  *monitoring.Metrics
}

// initEnv wires providers from cfg. The store is opened only when withStore
// is set.
func initEnv(ctx context.Context, c *config.Config, withStore bool) (*appEnv, error) {
	build, err := c.Build.Profile()
	if err != nil {
		return nil, err
	}
	f := newFetcher(c)
	env := &appEnv{
		Registry: buildRegistry(c, f),
		Fetcher:  f,
		Build:    build,
		Metrics:  monitoring.NewMetrics(),
	}
	if withStore {
		st, err := store.Open(ctx, c.Store)
		if err != nil {
			return nil, err
		}
		env.Store = st
	}
	zap.L().Debug("providers registered", zap.Strings("providers", env.Registry.List()))
	return env, nil
}

// Close releases the store, if open.
func (e *appEnv) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
}

// BuildProfile runs one build over the selected providers and records it.
func (e *appEnv) BuildProfile(ctx context.Context, subject model.Subject, names []string) (*model.Profile, error) {
	start := time.Now()
	providers := e.Registry.Select(names)
	p, err := profile.NewBuilder(e.Build, providers...).WithObserver(e.Metrics).Build(ctx, subject)
	e.Metrics.ObserveBuild(subject.Kind, p, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	zap.L().Info("profile built",
		zap.String("subject", subject.Name),
		zap.String("kind", string(subject.Kind)),
		zap.Strings("providers_used", p.ResearchMetadata.ProvidersUsed),
		zap.Int("failures", len(p.ResearchMetadata.Failures)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return p, nil
}

func newFetcher(c *config.Config) *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: c.Fetch.UserAgent,
		Timeout:   time.Duration(c.Fetch.TimeoutSecs) * time.Second,
		Retry:     retryConfig(c),
		HostRates: fetcher.DefaultHostRates(),
	})
}

func retryConfig(c *config.Config) resilience.RetryConfig {
	return resilience.FromRetryConfig(c.Retry.MaxAttempts,
		time.Duration(c.Retry.InitialBackoffMS)*time.Millisecond,
		time.Duration(c.Retry.MaxBackoffMS)*time.Millisecond)
}

// buildRegistry registers providers in merge precedence order: registries
// first, then instant answers, web and news search, then sanctions lists.
// Keyed providers are skipped when their key is missing.
func buildRegistry(c *config.Config, f fetcher.Fetcher) *provider.Registry {
	retry := retryConfig(c)
	breakers := resilience.NewServiceBreakers(resilience.FromCircuitConfig(
		c.Retry.BreakerFailures, time.Duration(c.Retry.BreakerResetSecs)*time.Second))
	wrap := func(p provider.Provider) provider.Provider {
		return provider.Resilient(p, retry, breakers)
	}

	pc := c.Providers
	reg := provider.NewRegistry()

	if pc.OpenCorporates.Key != "" {
		var opts []opencorporates.Option
		if pc.OpenCorporates.BaseURL != "" {
			opts = append(opts, opencorporates.WithBaseURL(pc.OpenCorporates.BaseURL))
		}
		reg.Register(wrap(provider.NewOpenCorporatesLookup(opencorporates.NewClient(pc.OpenCorporates.Key, opts...))))
	}

	var edgarOpts []edgar.Option
	if pc.EDGAR.RateLimit > 0 {
		edgarOpts = append(edgarOpts, edgar.WithRateLimit(pc.EDGAR.RateLimit))
	}
	reg.Register(wrap(provider.NewEDGARLookup(edgar.NewClient(pc.EDGAR.UserAgent, edgarOpts...), f)))

	if pc.Google.Key != "" {
		var opts []google.Option
		if pc.Google.BaseURL != "" {
			opts = append(opts, google.WithBaseURL(pc.Google.BaseURL))
		}
		reg.Register(wrap(provider.NewGooglePlacesLookup(google.NewClient(pc.Google.Key, opts...))))
	}

	var serperClient serper.Client
	if pc.Serper.Key != "" {
		var opts []serper.Option
		if pc.Serper.BaseURL != "" {
			opts = append(opts, serper.WithBaseURL(pc.Serper.BaseURL))
		}
		serperClient = serper.NewClient(pc.Serper.Key, opts...)
	}

	var ddgOpts []duckduckgo.Option
	if pc.DuckDuckGo.BaseURL != "" {
		ddgOpts = append(ddgOpts, duckduckgo.WithAPIURL(pc.DuckDuckGo.BaseURL))
	}
	ddg := duckduckgo.NewClient(ddgOpts...)
	reg.Register(wrap(provider.NewDuckDuckGoAnswer(ddg, serperClient)))

	if serperClient != nil {
		reg.Register(wrap(provider.NewSerperSearch(serperClient)))
	}

	var web []provider.Searcher
	if pc.SerpAPI.Key != "" {
		var opts []serpapi.Option
		if pc.SerpAPI.BaseURL != "" {
			opts = append(opts, serpapi.WithBaseURL(pc.SerpAPI.BaseURL))
		}
		web = append(web, wrap(provider.NewSerpAPISearch(serpapi.NewClient(pc.SerpAPI.Key, opts...))).(provider.Searcher))
	}
	web = append(web, wrap(provider.NewDuckDuckGoSearch(ddg)).(provider.Searcher))
	reg.Register(provider.NewSearchChain(webChainName, web...))

	if pc.Jina.Key != "" {
		var opts []jina.Option
		if pc.Jina.BaseURL != "" {
			opts = append(opts, jina.WithSearchBaseURL(pc.Jina.BaseURL))
		}
		reg.Register(wrap(provider.NewJinaSearch(jina.NewClient(pc.Jina.Key, opts...))))
	}

	if pc.NewsAPI.Key != "" {
		opts := []newsapi.Option{newsapi.WithLanguage(pc.NewsAPI.Language)}
		if pc.NewsAPI.BaseURL != "" {
			opts = append(opts, newsapi.WithBaseURL(pc.NewsAPI.BaseURL))
		}
		reg.Register(wrap(provider.NewNewsAPISearch(newsapi.NewClient(pc.NewsAPI.Key, opts...))))
	}

	reg.Register(wrap(provider.NewOFACLookup(newOFACClient(c), pc.OFAC.List)))

	if pc.OpenSanctions.Key != "" {
		opts := []opensanctions.Option{opensanctions.WithDataset(pc.OpenSanctions.Dataset)}
		if pc.OpenSanctions.BaseURL != "" {
			opts = append(opts, opensanctions.WithBaseURL(pc.OpenSanctions.BaseURL))
		}
		reg.Register(wrap(provider.NewOpenSanctionsLookup(opensanctions.NewClient(pc.OpenSanctions.Key, opts...))))
	}

	var snOpts []sanctionsnet.Option
	if pc.SanctionsNet.BaseURL != "" {
		snOpts = append(snOpts, sanctionsnet.WithBaseURL(pc.SanctionsNet.BaseURL))
	}
	reg.Register(wrap(provider.NewSanctionsNetLookup(sanctionsnet.NewClient(snOpts...))))

	return reg
}

func newOFACClient(c *config.Config) ofac.Client {
	var opts []ofac.Option
	if c.Providers.OFAC.BaseURL != "" {
		opts = append(opts, ofac.WithBaseURL(c.Providers.OFAC.BaseURL))
	}
	return ofac.NewClient(opts...)
}
