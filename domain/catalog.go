package domain

import (
	"errors"
	"fmt"
)

const (
	// CatalogCacheNamespace keeps nearby-object results apart from cutout payloads.
	CatalogCacheNamespace = CacheVersion + ":catalog"

	MaxCatalogRadiusDeg = 5.0
)

var (
	ErrCatalogDisabled    = errors.New("catalog lookup is not configured")
	ErrCatalogUnavailable = errors.New("catalog lookup temporarily unavailable")
)

// NearbyQuery is a cone search around a sky position.
type NearbyQuery struct {
	RA     float64
	Dec    float64
	Radius float64
}

// Validate checks the cone parameters.
func (q NearbyQuery) Validate() error {
	fields := make(map[string]string)
	if q.RA < -360 || q.RA > 360 || q.RA != q.RA {
		fields["ra"] = "must be between -360 and 360"
	}
	if q.Dec < -90 || q.Dec > 90 || q.Dec != q.Dec {
		fields["dec"] = "must be between -90 and 90"
	}
	if !(q.Radius > 0 && q.Radius <= MaxCatalogRadiusDeg) {
		fields["radius"] = fmt.Sprintf("must be in (0, %g]", MaxCatalogRadiusDeg)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CacheKey returns the catalog cache key for the query.
func (q NearbyQuery) CacheKey() string {
	return fmt.Sprintf("%s:%.6f:%.6f:%.6f", CatalogCacheNamespace,
		roundCoordinate(q.RA), roundCoordinate(q.Dec), roundCoordinate(q.Radius))
}
