package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"skyview/config"
	"skyview/domain"
	"skyview/driver/audit_db"
	"skyview/driver/cache_driver"
	"skyview/gateway/binary_cache_gateway"
	"skyview/gateway/catalog_gateway"
	"skyview/gateway/cutout_audit_gateway"
	"skyview/gateway/cutout_provider_gateway"
	"skyview/job"
	"skyview/middleware"
	"skyview/port/cutout_audit_port"
	"skyview/port/cutout_provider_port"
	"skyview/usecase/catalog_usecase"
	"skyview/usecase/cutout_usecase"
	"skyview/utils/metrics"
	"skyview/utils/rate_limiter"
)

const (
	CutoutCacheName  = "cutout"
	CatalogCacheName = "catalog"
)

type ApplicationComponents struct {
	CutoutRetrievalUsecase *cutout_usecase.CutoutRetrievalUsecase
	CatalogUsecase         *catalog_usecase.CatalogUsecase
	CutoutCache            *binary_cache_gateway.TwoTierCache
	CatalogCache           *binary_cache_gateway.TwoTierCache
	AuditGateway           *cutout_audit_gateway.AsyncAuditGateway
	RateLimiter            *rate_limiter.ClientRateLimiter
	AdminAuth              *middleware.AdminJWTMiddleware
	JobScheduler           *job.JobScheduler
	PrewarmTargets         []domain.CutoutRequest

	redisStore *cache_driver.RedisStore
	auditRepo  *audit_db.AuditRepository
}

// NewApplicationComponents wires every component from cfg. Optional backends
// that cannot be reached at startup are logged and left out.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ApplicationComponents, error) {
	if logger == nil {
		logger = slog.Default()
	}
	components := &ApplicationComponents{}

	// One shared tier serves both caches; key namespaces keep them apart.
	var shared binary_cache_gateway.SharedStore
	if cfg.Redis.Enabled() {
		store, err := cache_driver.NewRedisStoreWithURL(cfg.Redis.URL)
		if err != nil {
			logger.Warn("Shared cache disabled: invalid redis url", "error", err)
		} else if err := store.Ping(ctx, cfg.Redis.ConnectTimeout); err != nil {
			logger.Warn("Shared cache disabled: redis unreachable", "error", err)
			_ = store.Close()
		} else {
			logger.Info("Shared cache enabled")
			components.redisStore = store
			shared = store
		}
	}

	cutoutMemory, err := cache_driver.NewMemoryStore(cfg.Cache.Capacity)
	if err != nil {
		return nil, fmt.Errorf("cutout memory cache: %w", err)
	}
	components.CutoutCache = binary_cache_gateway.NewTwoTierCache(CutoutCacheName, cutoutMemory, shared, cfg.Cache.TTL)

	catalogMemory, err := cache_driver.NewMemoryStore(cfg.Cache.CatalogCapacity)
	if err != nil {
		return nil, fmt.Errorf("catalog memory cache: %w", err)
	}
	components.CatalogCache = binary_cache_gateway.NewTwoTierCache(CatalogCacheName, catalogMemory, shared, cfg.Cache.CatalogTTL)

	// Per-provider timeouts are applied per request.
	httpClient := &http.Client{}

	providers := []cutout_provider_port.CutoutProviderPort{
		cutout_provider_gateway.NewPrimaryProviderGateway(httpClient, cutout_provider_gateway.PrimaryConfig{
			BaseURL:    cfg.Primary.BaseURL,
			Projection: cfg.Primary.Projection,
			Timeout:    cfg.Primary.Timeout,
		}),
	}
	if cfg.Secondary.Active() {
		secondary, err := cutout_provider_gateway.NewSecondaryProviderGateway(httpClient, cutout_provider_gateway.SecondaryConfig{
			URLTemplate:      cfg.Secondary.URLTemplate,
			APIKey:           cfg.Secondary.APIKey,
			APIKeyHeader:     cfg.Secondary.APIKeyHeader,
			APIKeyPrefix:     cfg.Secondary.APIKeyPrefix,
			APIKeyQueryParam: cfg.Secondary.APIKeyQueryParam,
			Timeout:          cfg.Secondary.EffectiveTimeout(cfg.Primary.Timeout),
		})
		if err != nil {
			return nil, fmt.Errorf("secondary provider: %w", err)
		}
		providers = append(providers, secondary)
	}

	var sink cutout_audit_port.CutoutAuditSink = cutout_audit_gateway.NewLogAuditSink(logger)
	if cfg.Audit.DatabaseURL != "" {
		pool, err := audit_db.Connect(ctx, cfg.Audit.DatabaseURL, int32(cfg.Audit.MaxConns))
		if err != nil {
			logger.Warn("Audit database unavailable, falling back to log sink", "error", err)
		} else {
			components.auditRepo = audit_db.NewAuditRepository(pool)
			sink = components.auditRepo
		}
	}
	components.AuditGateway = cutout_audit_gateway.NewAsyncAuditGateway(sink, cfg.Audit.QueueSize, cfg.Audit.WriteTimeout)

	surveys := domain.SurveyCatalog{
		Namespace:    cfg.Surveys.Namespace,
		Radio:        cfg.Surveys.Radio,
		OpticalColor: cfg.Surveys.OpticalColor,
		Baseline:     cfg.Surveys.Baseline,
	}
	components.CutoutRetrievalUsecase = cutout_usecase.NewCutoutRetrievalUsecase(
		providers,
		components.CutoutCache,
		metrics.NewCutoutTelemetry(),
		components.AuditGateway,
		surveys,
		cfg.Cache.TTL,
	)

	catalogGateway := catalog_gateway.NewCatalogGateway(httpClient, catalog_gateway.CatalogConfig{
		URLTemplate: cfg.Catalog.URLTemplate,
		Timeout:     cfg.Catalog.Timeout,
	})
	components.CatalogUsecase = catalog_usecase.NewCatalogUsecase(catalogGateway, components.CatalogCache, cfg.Cache.CatalogTTL)

	if cfg.RateLimit.Enabled {
		limiter, err := rate_limiter.NewClientRateLimiter(cfg.RateLimit.Interval, cfg.RateLimit.Burst, cfg.RateLimit.MaxClients)
		if err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		components.RateLimiter = limiter
	}

	components.AdminAuth = middleware.NewAdminJWTMiddleware(logger, cfg.Admin.JWTSecret, cfg.Admin.Issuer)

	targets, err := job.ParsePrewarmTargets(cfg.Prewarm.Targets)
	if err != nil {
		return nil, fmt.Errorf("prewarm targets: %w", err)
	}
	components.PrewarmTargets = targets
	components.JobScheduler = job.NewJobScheduler(logger)
	if len(targets) > 0 {
		components.JobScheduler.Add(job.Job{
			Name:     job.PrewarmJobName,
			Interval: cfg.Prewarm.Interval,
			Timeout:  cfg.Prewarm.Timeout,
			Fn:       job.CutoutPrewarmJob(components.CutoutRetrievalUsecase, targets, cfg.Prewarm.Concurrency),
		})
	}

	logger.Info("Application components initialized",
		"providers", components.CutoutRetrievalUsecase.Providers(),
		"shared_cache", components.CutoutCache.SharedState().String(),
		"audit_db", components.auditRepo != nil,
		"catalog", catalogGateway.Enabled(),
		"prewarm_targets", len(targets),
	)
	return components, nil
}

// Close drains the audit queue and releases the backend connections.
func (c *ApplicationComponents) Close(ctx context.Context) error {
	var errs []error
	if c.AuditGateway != nil {
		if err := c.AuditGateway.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("audit gateway: %w", err))
		}
	}
	if c.auditRepo != nil {
		c.auditRepo.Close()
	}
	if c.redisStore != nil {
		if err := c.redisStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
