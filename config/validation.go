package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const minAdminSecretLength = 32

// validateConfig validates the loaded configuration values
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	if err := validateCacheConfig(&config.Cache); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if err := validateProviderConfig(&config.Primary, &config.Secondary); err != nil {
		return fmt.Errorf("provider config validation failed: %w", err)
	}

	if err := validateSurveyConfig(&config.Surveys); err != nil {
		return fmt.Errorf("survey config validation failed: %w", err)
	}

	if err := validateAuditConfig(&config.Audit); err != nil {
		return fmt.Errorf("audit config validation failed: %w", err)
	}

	if err := validateAdminConfig(&config.Admin); err != nil {
		return fmt.Errorf("admin config validation failed: %w", err)
	}

	if err := validateRateLimitConfig(&config.RateLimit); err != nil {
		return fmt.Errorf("rate limit config validation failed: %w", err)
	}

	if err := validatePrewarmConfig(&config.Prewarm); err != nil {
		return fmt.Errorf("prewarm config validation failed: %w", err)
	}

	if config.OTel.SampleRatio < 0 || config.OTel.SampleRatio > 1 {
		return fmt.Errorf("otel config validation failed: sample ratio must be between 0 and 1, got %v", config.OTel.SampleRatio)
	}

	return nil
}

func validateServerConfig(config *ServerConfig) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", config.Port)
	}

	if config.ReadTimeout <= 0 {
		return fmt.Errorf("timeout values must be positive, got ReadTimeout: %v", config.ReadTimeout)
	}

	if config.WriteTimeout <= 0 {
		return fmt.Errorf("timeout values must be positive, got WriteTimeout: %v", config.WriteTimeout)
	}

	if config.IdleTimeout <= 0 {
		return fmt.Errorf("timeout values must be positive, got IdleTimeout: %v", config.IdleTimeout)
	}

	return nil
}

func validateLoggingConfig(config *LoggingConfig) error {
	switch strings.ToLower(config.Level) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s", config.Level)
	}
}

func validateCacheConfig(config *CacheConfig) error {
	if config.TTL <= 0 {
		return fmt.Errorf("cutout cache TTL must be positive, got %v", config.TTL)
	}

	if config.Capacity < 1 {
		return fmt.Errorf("cutout cache capacity must be at least 1, got %d", config.Capacity)
	}

	if config.CatalogTTL <= 0 {
		return fmt.Errorf("catalog cache TTL must be positive, got %v", config.CatalogTTL)
	}

	if config.CatalogCapacity < 1 {
		return fmt.Errorf("catalog cache capacity must be at least 1, got %d", config.CatalogCapacity)
	}

	return nil
}

func validateProviderConfig(primary *PrimaryProviderConfig, secondary *SecondaryProviderConfig) error {
	if err := validateAbsoluteURL(primary.BaseURL); err != nil {
		return fmt.Errorf("primary base URL: %w", err)
	}

	if primary.Timeout <= 0 {
		return fmt.Errorf("primary timeout must be positive, got %v", primary.Timeout)
	}

	if secondary.Timeout < 0 {
		return fmt.Errorf("secondary timeout must not be negative, got %v", secondary.Timeout)
	}

	if secondary.Active() && secondary.APIKey != "" &&
		secondary.APIKeyHeader == "" && secondary.APIKeyQueryParam == "" {
		return fmt.Errorf("secondary API key is set but neither a header nor a query parameter is configured")
	}

	return nil
}

func validateSurveyConfig(config *SurveyConfig) error {
	if strings.TrimSpace(config.Baseline) == "" {
		return fmt.Errorf("baseline survey must not be empty")
	}
	return nil
}

func validateAuditConfig(config *AuditConfig) error {
	if config.QueueSize < 1 {
		return fmt.Errorf("audit queue size must be at least 1, got %d", config.QueueSize)
	}

	if config.WriteTimeout < time.Millisecond {
		return fmt.Errorf("audit write timeout is too small: %v", config.WriteTimeout)
	}

	if config.MaxConns < 1 {
		return fmt.Errorf("audit max conns must be at least 1, got %d", config.MaxConns)
	}

	return nil
}

func validateAdminConfig(config *AdminConfig) error {
	if config.JWTSecret != "" && len(config.JWTSecret) < minAdminSecretLength {
		return fmt.Errorf("admin JWT secret must be at least %d bytes", minAdminSecretLength)
	}
	return nil
}

func validateRateLimitConfig(config *RateLimitConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Interval <= 0 {
		return fmt.Errorf("rate limit interval must be positive, got %v", config.Interval)
	}

	if config.Burst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1, got %d", config.Burst)
	}

	if config.MaxClients < 1 {
		return fmt.Errorf("rate limit max clients must be at least 1, got %d", config.MaxClients)
	}

	return nil
}

func validatePrewarmConfig(config *PrewarmConfig) error {
	if strings.TrimSpace(config.Targets) == "" {
		return nil
	}

	if config.Interval <= 0 {
		return fmt.Errorf("prewarm interval must be positive, got %v", config.Interval)
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("prewarm concurrency must be at least 1, got %d", config.Concurrency)
	}

	return nil
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	return nil
}
