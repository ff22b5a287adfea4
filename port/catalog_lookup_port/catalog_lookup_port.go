package catalog_lookup_port

import (
	"context"

	"skyview/domain"
)

// CatalogLookupPort runs a cone search against an external object catalog
// and returns the raw JSON document.
type CatalogLookupPort interface {
	LookupNearby(ctx context.Context, query domain.NearbyQuery) ([]byte, error)
}
