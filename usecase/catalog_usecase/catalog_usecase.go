package catalog_usecase

import (
	"context"
	"fmt"
	"time"

	"skyview/domain"
	"skyview/port/catalog_lookup_port"
	"skyview/port/cutout_cache_port"
	"skyview/utils/logger"
)

// DefaultCatalogTTL is the lifetime of cached catalog results.
const DefaultCatalogTTL = 30 * time.Second

// NearbyResult is a catalog document and whether it came from cache.
type NearbyResult struct {
	Body     []byte
	CacheHit bool
}

// CatalogUsecase serves cone searches cache-aside.
type CatalogUsecase struct {
	lookup catalog_lookup_port.CatalogLookupPort
	cache  cutout_cache_port.BinaryCachePort
	ttl    time.Duration
}

func NewCatalogUsecase(lookup catalog_lookup_port.CatalogLookupPort, cache cutout_cache_port.BinaryCachePort, ttl time.Duration) *CatalogUsecase {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogUsecase{lookup: lookup, cache: cache, ttl: ttl}
}

// Nearby returns the objects around q.
func (u *CatalogUsecase) Nearby(ctx context.Context, q domain.NearbyQuery) (*NearbyResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key := q.CacheKey()
	if body, ok := u.cache.Get(ctx, key); ok {
		return &NearbyResult{Body: body, CacheHit: true}, nil
	}

	body, err := u.lookup.LookupNearby(ctx, q)
	if err != nil {
		logger.FromContext(ctx).Warn("Catalog lookup failed", "ra", q.RA, "dec", q.Dec, "radius", q.Radius, "error", err)
		return nil, fmt.Errorf("nearby lookup: %w", err)
	}

	u.cache.Set(context.WithoutCancel(ctx), key, body, u.ttl)
	return &NearbyResult{Body: body}, nil
}
