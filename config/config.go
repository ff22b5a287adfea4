package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig            `json:"server"`
	Logging   LoggingConfig           `json:"logging"`
	Cache     CacheConfig             `json:"cache"`
	Redis     RedisConfig             `json:"redis"`
	Primary   PrimaryProviderConfig   `json:"primary"`
	Secondary SecondaryProviderConfig `json:"secondary"`
	Surveys   SurveyConfig            `json:"surveys"`
	Catalog   CatalogConfig           `json:"catalog"`
	Audit     AuditConfig             `json:"audit"`
	Admin     AdminConfig             `json:"admin"`
	RateLimit RateLimitConfig         `json:"rate_limit"`
	Prewarm   PrewarmConfig           `json:"prewarm"`
	OTel      OTelConfig              `json:"otel"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"9000"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"300s"` // a full fallback walk can take minutes
	IdleTimeout     time.Duration `json:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
}

type LoggingConfig struct {
	Level string `json:"level" env:"LOG_LEVEL" default:"info"`
}

type CacheConfig struct {
	TTL             time.Duration `json:"ttl" env:"CUTOUT_CACHE_TTL" default:"300s"`
	Capacity        int           `json:"capacity" env:"CUTOUT_CACHE_CAPACITY" default:"64"`
	CatalogTTL      time.Duration `json:"catalog_ttl" env:"CATALOG_CACHE_TTL" default:"30s"`
	CatalogCapacity int           `json:"catalog_capacity" env:"CATALOG_CACHE_CAPACITY" default:"256"`
}

type RedisConfig struct {
	URL            string        `json:"-" env:"CUTOUT_CACHE_REDIS_URL"`
	ConnectTimeout time.Duration `json:"connect_timeout" env:"CUTOUT_CACHE_REDIS_CONNECT_TIMEOUT" default:"2s"`
}

// Enabled reports whether the shared cache tier is configured.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

type PrimaryProviderConfig struct {
	BaseURL    string        `json:"base_url" env:"CUTOUT_PRIMARY_BASE_URL" default:"https://alasky.cds.unistra.fr/hips-image-services/hips2fits"`
	Projection string        `json:"projection" env:"CUTOUT_PRIMARY_PROJECTION" default:"TAN"`
	Timeout    time.Duration `json:"timeout" env:"CUTOUT_PRIMARY_TIMEOUT" default:"25s"`
}

type SecondaryProviderConfig struct {
	Enabled          bool          `json:"enabled" env:"CUTOUT_SECONDARY_ENABLED" default:"false"`
	URLTemplate      string        `json:"url_template" env:"CUTOUT_SECONDARY_URL_TEMPLATE"`
	APIKey           string        `json:"-" env:"CUTOUT_SECONDARY_API_KEY"`
	APIKeyFile       string        `json:"-" env:"CUTOUT_SECONDARY_API_KEY_FILE"`
	APIKeyHeader     string        `json:"api_key_header" env:"CUTOUT_SECONDARY_API_KEY_HEADER"`
	APIKeyPrefix     string        `json:"api_key_prefix" env:"CUTOUT_SECONDARY_API_KEY_PREFIX"`
	APIKeyQueryParam string        `json:"api_key_query_param" env:"CUTOUT_SECONDARY_API_KEY_PARAM"`
	Timeout          time.Duration `json:"timeout" env:"CUTOUT_SECONDARY_TIMEOUT"`
}

// Active reports whether the secondary provider should be part of the matrix.
func (c SecondaryProviderConfig) Active() bool {
	return c.Enabled && strings.TrimSpace(c.URLTemplate) != ""
}

// EffectiveTimeout falls back to the primary timeout when no override is set.
func (c SecondaryProviderConfig) EffectiveTimeout(primary time.Duration) time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return primary
}

type SurveyConfig struct {
	Namespace    string `json:"namespace" env:"CUTOUT_SURVEY_NAMESPACE" default:"CDS/P/"`
	Radio        string `json:"radio" env:"CUTOUT_SURVEY_RADIO" default:"CDS/P/VLASS/QL"`
	OpticalColor string `json:"optical_color" env:"CUTOUT_SURVEY_OPTICAL_COLOR" default:"CDS/P/PanSTARRS/DR1/color-z-zg-g"`
	Baseline     string `json:"baseline" env:"CUTOUT_SURVEY_BASELINE" default:"CDS/P/DSS2/color"`
}

type CatalogConfig struct {
	URLTemplate string        `json:"url_template" env:"CATALOG_URL_TEMPLATE"`
	Timeout     time.Duration `json:"timeout" env:"CATALOG_TIMEOUT" default:"10s"`
}

type AuditConfig struct {
	DatabaseURL  string        `json:"-" env:"DATABASE_URL"`
	MaxConns     int           `json:"max_conns" env:"AUDIT_DB_MAX_CONNS" default:"4"`
	QueueSize    int           `json:"queue_size" env:"AUDIT_QUEUE_SIZE" default:"256"`
	WriteTimeout time.Duration `json:"write_timeout" env:"AUDIT_WRITE_TIMEOUT" default:"5s"`
}

type AdminConfig struct {
	JWTSecret     string `json:"-" env:"ADMIN_JWT_SECRET"`
	JWTSecretFile string `json:"-" env:"ADMIN_JWT_SECRET_FILE"`
	Issuer        string `json:"issuer" env:"ADMIN_JWT_ISSUER" default:"skyview"`
}

type RateLimitConfig struct {
	Enabled    bool          `json:"enabled" env:"CUTOUT_RATE_LIMIT_ENABLED" default:"true"`
	Interval   time.Duration `json:"interval" env:"CUTOUT_RATE_LIMIT_INTERVAL" default:"1s"`
	Burst      int           `json:"burst" env:"CUTOUT_RATE_LIMIT_BURST" default:"10"`
	MaxClients int           `json:"max_clients" env:"CUTOUT_RATE_LIMIT_MAX_CLIENTS" default:"10000"`
}

type PrewarmConfig struct {
	Targets     string        `json:"targets" env:"CUTOUT_PREWARM_TARGETS"`
	Interval    time.Duration `json:"interval" env:"CUTOUT_PREWARM_INTERVAL" default:"1h"`
	Timeout     time.Duration `json:"timeout" env:"CUTOUT_PREWARM_TIMEOUT" default:"10m"`
	Concurrency int           `json:"concurrency" env:"CUTOUT_PREWARM_CONCURRENCY" default:"4"`
}

type OTelConfig struct {
	Enabled        bool    `json:"enabled" env:"OTEL_ENABLED" default:"false"`
	Endpoint       string  `json:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4318"`
	ServiceName    string  `json:"service_name" env:"OTEL_SERVICE_NAME" default:"skyview"`
	ServiceVersion string  `json:"service_version" env:"SERVICE_VERSION" default:"dev"`
	Environment    string  `json:"environment" env:"DEPLOYMENT_ENV" default:"development"`
	SampleRatio    float64 `json:"sample_ratio" env:"OTEL_SAMPLE_RATIO" default:"1.0"`
}

// NewConfig creates a new configuration by loading from environment variables
// with fallback to default values
func NewConfig() (*Config, error) {
	config := &Config{}

	if err := loadFromEnvironment(config); err != nil {
		return nil, err
	}

	// Docker secrets take precedence over plain env values.
	if config.Secondary.APIKeyFile != "" {
		if content, err := os.ReadFile(config.Secondary.APIKeyFile); err == nil {
			config.Secondary.APIKey = strings.TrimSpace(string(content))
		}
	}
	if config.Admin.JWTSecretFile != "" {
		if content, err := os.ReadFile(config.Admin.JWTSecretFile); err == nil {
			config.Admin.JWTSecret = strings.TrimSpace(string(content))
		}
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}
