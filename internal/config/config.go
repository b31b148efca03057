package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/profile"
	"github.com/sells-group/profile-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store      store.Config     `yaml:"store" mapstructure:"store"`
	Build      BuildConfig      `yaml:"build" mapstructure:"build"`
	Providers  ProvidersConfig  `yaml:"providers" mapstructure:"providers"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// BuildConfig mirrors profile.Config in config-file units.
type BuildConfig struct {
	MaxResultsPerQuery     int    `yaml:"max_results_per_query" mapstructure:"max_results_per_query"`
	PerQueryDelayMS        int    `yaml:"per_query_delay_ms" mapstructure:"per_query_delay_ms"`
	CallTimeoutSecs        int    `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
	ConfidenceFloor        string `yaml:"confidence_floor" mapstructure:"confidence_floor"`
	MaxConcurrentProviders int    `yaml:"max_concurrent_providers" mapstructure:"max_concurrent_providers"`
	PrincipalQueryLimit    int    `yaml:"principal_query_limit" mapstructure:"principal_query_limit"`
	TemplatesFile          string `yaml:"templates_file" mapstructure:"templates_file"`
	Disclaimer             string `yaml:"disclaimer" mapstructure:"disclaimer"`
}

// ProvidersConfig holds credentials and endpoints for every data provider.
// Enabled restricts the registry to the named providers; empty enables all
// providers whose credentials are present.
type ProvidersConfig struct {
	Enabled        []string            `yaml:"enabled" mapstructure:"enabled"`
	Serper         APIKeyConfig        `yaml:"serper" mapstructure:"serper"`
	SerpAPI        APIKeyConfig        `yaml:"serpapi" mapstructure:"serpapi"`
	Google         APIKeyConfig        `yaml:"google" mapstructure:"google"`
	Jina           APIKeyConfig        `yaml:"jina" mapstructure:"jina"`
	NewsAPI        NewsAPIConfig       `yaml:"newsapi" mapstructure:"newsapi"`
	OpenSanctions  OpenSanctionsConfig `yaml:"opensanctions" mapstructure:"opensanctions"`
	OpenCorporates APIKeyConfig        `yaml:"opencorporates" mapstructure:"opencorporates"`
	OFAC           OFACConfig          `yaml:"ofac" mapstructure:"ofac"`
	SanctionsNet   BaseURLConfig       `yaml:"sanctionsnet" mapstructure:"sanctionsnet"`
	DuckDuckGo     BaseURLConfig       `yaml:"duckduckgo" mapstructure:"duckduckgo"`
	EDGAR          EDGARConfig         `yaml:"edgar" mapstructure:"edgar"`
}

// APIKeyConfig is the common shape for keyed HTTP APIs.
type APIKeyConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// BaseURLConfig configures a keyless API.
type BaseURLConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// NewsAPIConfig configures newsapi.org.
type NewsAPIConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Language string `yaml:"language" mapstructure:"language"`
}

// OpenSanctionsConfig configures the OpenSanctions match API.
type OpenSanctionsConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Dataset string `yaml:"dataset" mapstructure:"dataset"`
}

// OFACConfig configures the Sanctions List Service.
type OFACConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	List    string `yaml:"list" mapstructure:"list"`
}

// EDGARConfig configures SEC EDGAR access. SEC requires a contact
// User-Agent on every request.
type EDGARConfig struct {
	UserAgent string  `yaml:"user_agent" mapstructure:"user_agent"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// FetchConfig configures the document fetcher.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// RetryConfig configures provider retries and circuit breakers.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMS int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMS     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	BreakerFailures  int `yaml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerResetSecs int `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// MonitoringConfig configures alert thresholds and the textfile exporter.
type MonitoringConfig struct {
	WebhookURL           string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	CheckIntervalSecs    int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	LookbackWindowHours  int     `yaml:"lookback_window_hours" mapstructure:"lookback_window_hours"`
	TextfilePath         string  `yaml:"textfile_path" mapstructure:"textfile_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config.yaml and the environment.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROFILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "profiles.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("build.max_results_per_query", 5)
	v.SetDefault("build.per_query_delay_ms", 1000)
	v.SetDefault("build.call_timeout_secs", 20)
	v.SetDefault("build.confidence_floor", "low")
	v.SetDefault("build.max_concurrent_providers", 4)
	v.SetDefault("build.principal_query_limit", 3)
	v.SetDefault("fetch.user_agent", "profile-cli/1.0 research@sellsadvisors.com")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 500)
	v.SetDefault("retry.max_backoff_ms", 10000)
	v.SetDefault("retry.breaker_failures", 5)
	v.SetDefault("retry.breaker_reset_secs", 30)
	v.SetDefault("providers.newsapi.language", "en")
	v.SetDefault("providers.opensanctions.dataset", "default")
	v.SetDefault("providers.ofac.list", "SDN")
	v.SetDefault("providers.edgar.user_agent", "Sells Advisors research@sellsadvisors.com")
	v.SetDefault("providers.edgar.rate_limit", 10.0)
	v.SetDefault("monitoring.failure_rate_threshold", 0.5)
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.lookback_window_hours", 24)

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"providers.serper.key", "providers.serpapi.key", "providers.google.key",
		"providers.jina.key", "providers.newsapi.key", "providers.opensanctions.key",
		"providers.opencorporates.key", "monitoring.webhook_url",
	} {
		v.SetDefault(key, "")
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return eris.Wrapf(godotenv.Load(path), "config: load %s", path)
}

// Validate checks the settings a command needs. Mode is "profile" or "serve".
func (c *Config) Validate(mode string) error {
	var msgs []string
	if _, err := c.Build.Profile(); err != nil {
		msgs = append(msgs, err.Error())
	}
	switch mode {
	case "profile":
	case "serve":
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			msgs = append(msgs, "server.port must be between 1 and 65535")
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}
	if c.Monitoring.FailureRateThreshold < 0 || c.Monitoring.FailureRateThreshold > 1 {
		msgs = append(msgs, "monitoring.failure_rate_threshold must be within [0, 1]")
	}
	if len(msgs) > 0 {
		return eris.Errorf("config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Profile converts the build section into a profile.Config, loading the
// templates file when one is set.
func (b BuildConfig) Profile() (profile.Config, error) {
	cfg := profile.DefaultConfig()
	if b.MaxResultsPerQuery != 0 {
		cfg.MaxResultsPerQuery = b.MaxResultsPerQuery
	}
	cfg.PerQueryDelay = time.Duration(b.PerQueryDelayMS) * time.Millisecond
	if b.CallTimeoutSecs != 0 {
		cfg.CallTimeout = time.Duration(b.CallTimeoutSecs) * time.Second
	}
	if b.ConfidenceFloor != "" {
		floor, err := model.ParseConfidence(b.ConfidenceFloor)
		if err != nil {
			return cfg, model.NewConfigError("build.confidence_floor", err.Error())
		}
		cfg.ConfidenceFloor = floor
	}
	if b.MaxConcurrentProviders != 0 {
		cfg.MaxConcurrentProviders = b.MaxConcurrentProviders
	}
	if b.PrincipalQueryLimit != 0 {
		cfg.PrincipalQueryLimit = b.PrincipalQueryLimit
	}
	if b.Disclaimer != "" {
		cfg.Disclaimer = b.Disclaimer
	}
	if b.TemplatesFile != "" {
		t, err := profile.LoadTemplates(b.TemplatesFile)
		if err != nil {
			return cfg, err
		}
		cfg.QueryTemplates = t
	}
	return cfg, cfg.Validate()
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
