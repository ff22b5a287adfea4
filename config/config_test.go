package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configEnvVars lists every variable the loader reads.
var configEnvVars = []string{
	"SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"LOG_LEVEL",
	"CUTOUT_CACHE_TTL", "CUTOUT_CACHE_CAPACITY", "CATALOG_CACHE_TTL", "CATALOG_CACHE_CAPACITY",
	"CUTOUT_CACHE_REDIS_URL", "CUTOUT_CACHE_REDIS_CONNECT_TIMEOUT",
	"CUTOUT_PRIMARY_BASE_URL", "CUTOUT_PRIMARY_PROJECTION", "CUTOUT_PRIMARY_TIMEOUT",
	"CUTOUT_SECONDARY_ENABLED", "CUTOUT_SECONDARY_URL_TEMPLATE", "CUTOUT_SECONDARY_API_KEY",
	"CUTOUT_SECONDARY_API_KEY_FILE", "CUTOUT_SECONDARY_API_KEY_HEADER", "CUTOUT_SECONDARY_API_KEY_PREFIX",
	"CUTOUT_SECONDARY_API_KEY_PARAM", "CUTOUT_SECONDARY_TIMEOUT",
	"CUTOUT_SURVEY_NAMESPACE", "CUTOUT_SURVEY_RADIO", "CUTOUT_SURVEY_OPTICAL_COLOR", "CUTOUT_SURVEY_BASELINE",
	"CATALOG_URL_TEMPLATE", "CATALOG_TIMEOUT",
	"DATABASE_URL", "AUDIT_DB_MAX_CONNS", "AUDIT_QUEUE_SIZE", "AUDIT_WRITE_TIMEOUT",
	"ADMIN_JWT_SECRET", "ADMIN_JWT_SECRET_FILE", "ADMIN_JWT_ISSUER",
	"CUTOUT_RATE_LIMIT_ENABLED", "CUTOUT_RATE_LIMIT_INTERVAL", "CUTOUT_RATE_LIMIT_BURST", "CUTOUT_RATE_LIMIT_MAX_CLIENTS",
	"CUTOUT_PREWARM_TARGETS", "CUTOUT_PREWARM_INTERVAL", "CUTOUT_PREWARM_TIMEOUT", "CUTOUT_PREWARM_CONCURRENCY",
	"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME", "SERVICE_VERSION", "DEPLOYMENT_ENV", "OTEL_SAMPLE_RATIO",
}

func clearTestEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		t.Setenv(name, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearTestEnv(t)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 64, cfg.Cache.Capacity)
	assert.Equal(t, 30*time.Second, cfg.Cache.CatalogTTL)
	assert.Equal(t, 2*time.Second, cfg.Redis.ConnectTimeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "https://alasky.cds.unistra.fr/hips-image-services/hips2fits", cfg.Primary.BaseURL)
	assert.Equal(t, "TAN", cfg.Primary.Projection)
	assert.Equal(t, 25*time.Second, cfg.Primary.Timeout)
	assert.False(t, cfg.Secondary.Enabled)
	assert.False(t, cfg.Secondary.Active())
	assert.Equal(t, "CDS/P/", cfg.Surveys.Namespace)
	assert.Equal(t, "CDS/P/DSS2/color", cfg.Surveys.Baseline)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 1.0, cfg.OTel.SampleRatio)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("CUTOUT_CACHE_TTL", "2m")
	t.Setenv("CUTOUT_CACHE_REDIS_URL", "redis://cache:6379/0")
	t.Setenv("CUTOUT_SECONDARY_ENABLED", "true")
	t.Setenv("CUTOUT_SECONDARY_URL_TEMPLATE", "https://cutouts.example.org/img?ra={ra}&dec={dec}")
	t.Setenv("CUTOUT_SECONDARY_API_KEY", "k")
	t.Setenv("CUTOUT_SECONDARY_API_KEY_PARAM", "api_key")
	t.Setenv("OTEL_SAMPLE_RATIO", "0.25")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Secondary.Active())
	assert.Equal(t, 25*time.Second, cfg.Secondary.EffectiveTimeout(cfg.Primary.Timeout))
	assert.Equal(t, 0.25, cfg.OTel.SampleRatio)
}

func TestNewConfig_SecretFiles(t *testing.T) {
	clearTestEnv(t)
	dir := t.TempDir()

	keyFile := filepath.Join(dir, "api_key")
	require.NoError(t, os.WriteFile(keyFile, []byte("from-file\n"), 0o600))
	secretFile := filepath.Join(dir, "admin_secret")
	require.NoError(t, os.WriteFile(secretFile, []byte(strings.Repeat("s", 40)), 0o600))

	t.Setenv("CUTOUT_SECONDARY_API_KEY", "from-env")
	t.Setenv("CUTOUT_SECONDARY_API_KEY_FILE", keyFile)
	t.Setenv("ADMIN_JWT_SECRET_FILE", secretFile)

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Secondary.APIKey)
	assert.Len(t, cfg.Admin.JWTSecret, 40)
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr string
	}{
		{name: "bad port", envVars: map[string]string{"SERVER_PORT": "70000"}, wantErr: "port must be between"},
		{name: "unparsable int", envVars: map[string]string{"CUTOUT_CACHE_CAPACITY": "many"}, wantErr: "invalid integer value"},
		{name: "unparsable bool", envVars: map[string]string{"CUTOUT_SECONDARY_ENABLED": "maybe"}, wantErr: "invalid boolean value"},
		{name: "unparsable duration", envVars: map[string]string{"CUTOUT_PRIMARY_TIMEOUT": "soon"}, wantErr: "invalid duration value"},
		{name: "zero capacity", envVars: map[string]string{"CUTOUT_CACHE_CAPACITY": "0"}, wantErr: "capacity must be at least 1"},
		{name: "bad log level", envVars: map[string]string{"LOG_LEVEL": "verbose"}, wantErr: "invalid log level"},
		{name: "relative primary url", envVars: map[string]string{"CUTOUT_PRIMARY_BASE_URL": "/hips2fits"}, wantErr: "primary base URL"},
		{name: "short admin secret", envVars: map[string]string{"ADMIN_JWT_SECRET": "short"}, wantErr: "admin JWT secret"},
		{name: "sample ratio out of range", envVars: map[string]string{"OTEL_SAMPLE_RATIO": "1.5"}, wantErr: "sample ratio"},
		{
			name: "secondary key without placement",
			envVars: map[string]string{
				"CUTOUT_SECONDARY_ENABLED":      "true",
				"CUTOUT_SECONDARY_URL_TEMPLATE": "https://cutouts.example.org/{ra}",
				"CUTOUT_SECONDARY_API_KEY":      "k",
			},
			wantErr: "neither a header nor a query parameter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			_, err := NewConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
