package cutout_provider_port

//go:generate mockgen -source=cutout_provider_port.go -destination=../../mocks/mock_cutout_provider_port.go -package=mocks

import (
	"context"

	"skyview/domain"
)

// CutoutProviderPort fetches a rendered cutout from one upstream provider.
// Every failure is returned as *domain.ProviderError.
type CutoutProviderPort interface {
	ID() domain.ProviderID
	Fetch(ctx context.Context, candidate domain.CutoutCandidate) ([]byte, error)
}
