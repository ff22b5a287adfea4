package cutout_provider_gateway

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"skyview/domain"
)

const (
	DefaultPrimaryBaseURL = "https://alasky.cds.unistra.fr/hips-image-services/hips2fits"
	DefaultProjection     = "TAN"
	DefaultFormat         = "jpg"
)

// PrimaryConfig configures the hips2fits provider.
type PrimaryConfig struct {
	BaseURL    string
	Projection string
	Format     string
	Timeout    time.Duration
}

// PrimaryProviderGateway fetches cutouts from a hips2fits image service.
type PrimaryProviderGateway struct {
	client *http.Client
	cfg    PrimaryConfig
}

func NewPrimaryProviderGateway(client *http.Client, cfg PrimaryConfig) *PrimaryProviderGateway {
	if client == nil {
		client = &http.Client{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPrimaryBaseURL
	}
	if cfg.Projection == "" {
		cfg.Projection = DefaultProjection
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &PrimaryProviderGateway{client: client, cfg: cfg}
}

func (g *PrimaryProviderGateway) ID() domain.ProviderID {
	return domain.ProviderPrimary
}

// BuildURL returns the hips2fits query for candidate. The field of view is
// sent in radians.
func (g *PrimaryProviderGateway) BuildURL(candidate domain.CutoutCandidate) (string, error) {
	u, err := url.Parse(g.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse primary base url: %w", err)
	}

	q := u.Query()
	q.Set("hips", candidate.Survey)
	q.Set("projection", g.cfg.Projection)
	q.Set("ra", formatCoordinate(candidate.RA))
	q.Set("dec", formatCoordinate(candidate.Dec))
	q.Set("fov", formatCoordinate(candidate.FOV*math.Pi/180))
	q.Set("width", strconv.Itoa(candidate.Resolution.Width))
	q.Set("height", strconv.Itoa(candidate.Resolution.Height))
	q.Set("format", g.cfg.Format)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (g *PrimaryProviderGateway) Fetch(ctx context.Context, candidate domain.CutoutCandidate) ([]byte, error) {
	rawURL, err := g.BuildURL(candidate)
	if err != nil {
		return nil, &domain.ProviderError{Provider: g.ID(), Reason: err.Error()}
	}

	return fetch(ctx, g.client, fetchRequest{
		provider: g.ID(),
		rawURL:   rawURL,
		logURL:   rawURL,
		timeout:  g.cfg.Timeout,
	}, candidate)
}
