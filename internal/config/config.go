package config

import (
	"errors"
	"time"
)

// Default configuration values.
const (
	defaultServiceName      = "scorefree"
	defaultServiceVersion   = "1.0.0"
	defaultServicePort      = 8080
	defaultConcurrency      = 4
	defaultMaxResults       = 5
	defaultReclassifyBatch  = 50
	defaultRecencyWindowHrs = 12
	defaultCatalogBaseURL   = "https://www.googleapis.com/youtube/v3"
	defaultCatalogTimeout   = 30 * time.Second
	defaultDBHost           = "localhost"
	defaultDBPort           = 5432
	defaultDBUser           = "postgres"
	defaultDBName           = "scorefree"
	defaultDBSSLMode        = "disable"
	defaultDBMaxConns       = 25
	defaultDBMaxIdleConns   = 5
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"

	defaultAffinityWeight       = 0.5
	defaultPatternWeight        = 2
	defaultSpoilerTermLimit     = 3
	defaultBaseConfidence       = 50
	defaultPositiveBoost        = 10
	defaultNegativePenalty      = 15
	defaultMinDisplayConfidence = 60
)

// ErrMissingAPIKey is returned when no catalog API key is configured.
// Ingestion cannot run without one, so this is fatal at startup.
var ErrMissingAPIKey = errors.New("catalog API key not configured")

// Config holds all configuration for the scorefree service.
type Config struct {
	Service        ServiceConfig        `yaml:"service"`
	Catalog        CatalogConfig        `yaml:"catalog"`
	Database       DatabaseConfig       `yaml:"database"`
	Logging        LoggingConfig        `yaml:"logging"`
	Classification ClassificationConfig `yaml:"classification"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Port        int    `env:"SCOREFREE_PORT"        yaml:"port"`
	Debug       bool   `env:"APP_DEBUG"             yaml:"debug"`
	Concurrency int    `env:"SCOREFREE_CONCURRENCY" yaml:"concurrency"`
	// MaxResults caps candidates fetched per category in one pass.
	MaxResults int `yaml:"max_results"`
	// ReclassifyBatchSize bounds one reclassification invocation.
	ReclassifyBatchSize int `yaml:"reclassify_batch_size"`
}

// CatalogConfig holds external video catalog configuration.
type CatalogConfig struct {
	BaseURL string        `env:"CATALOG_BASE_URL" yaml:"base_url"`
	APIKey  string        `env:"YOUTUBE_API_KEY"  yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	// RecencyWindow restricts searches to videos published within this
	// span before the call.
	RecencyWindow time.Duration `yaml:"recency_window"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// ClassificationConfig exposes the classifier's scoring constants. The
// defaults reproduce the established verdicts; changing any of them changes
// classification outcomes for existing content.
type ClassificationConfig struct {
	AffinityWeight   float64 `yaml:"affinity_weight"`
	PatternWeight    int     `yaml:"pattern_weight"`
	SpoilerTermLimit int     `yaml:"spoiler_term_limit"`
	BaseConfidence   float64 `yaml:"base_confidence"`
	PositiveBoost    float64 `yaml:"positive_boost"`
	NegativePenalty  float64 `yaml:"negative_penalty"`
	// MinDisplayConfidence is the display-time floor for score-free
	// listings. Not part of the verdict itself.
	MinDisplayConfidence int `yaml:"min_display_confidence"`
}

// Load loads configuration from the specified path and applies defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)
	// Env always wins, including over defaults.
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// Validate checks configuration that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Catalog.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setCatalogDefaults(&cfg.Catalog)
	setDatabaseDefaults(&cfg.Database)
	setLoggingDefaults(&cfg.Logging)
	setClassificationDefaults(&cfg.Classification)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
	if s.MaxResults == 0 {
		s.MaxResults = defaultMaxResults
	}
	if s.ReclassifyBatchSize == 0 {
		s.ReclassifyBatchSize = defaultReclassifyBatch
	}
}

func setCatalogDefaults(c *CatalogConfig) {
	if c.BaseURL == "" {
		c.BaseURL = defaultCatalogBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultCatalogTimeout
	}
	if c.RecencyWindow == 0 {
		c.RecencyWindow = defaultRecencyWindowHrs * time.Hour
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setClassificationDefaults(c *ClassificationConfig) {
	if c.AffinityWeight == 0 {
		c.AffinityWeight = defaultAffinityWeight
	}
	if c.PatternWeight == 0 {
		c.PatternWeight = defaultPatternWeight
	}
	if c.SpoilerTermLimit == 0 {
		c.SpoilerTermLimit = defaultSpoilerTermLimit
	}
	if c.BaseConfidence == 0 {
		c.BaseConfidence = defaultBaseConfidence
	}
	if c.PositiveBoost == 0 {
		c.PositiveBoost = defaultPositiveBoost
	}
	if c.NegativePenalty == 0 {
		c.NegativePenalty = defaultNegativePenalty
	}
	if c.MinDisplayConfidence == 0 {
		c.MinDisplayConfidence = defaultMinDisplayConfidence
	}
}
