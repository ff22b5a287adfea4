package cutout_provider_gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"skyview/domain"
	"skyview/utils/redact"
)

// SecondaryConfig configures the template-driven fallback provider.
//
// URLTemplate understands {ra} {dec} {fov} {fov_rad} {survey} {width} {height}.
// The API key is sent in APIKeyHeader (prefixed with APIKeyPrefix), in the
// APIKeyQueryParam query parameter, or both.
type SecondaryConfig struct {
	URLTemplate      string
	APIKey           string
	APIKeyHeader     string
	APIKeyPrefix     string
	APIKeyQueryParam string
	Timeout          time.Duration
}

var ErrSecondaryTemplateMissing = errors.New("secondary provider url template is empty")

// SecondaryProviderGateway fetches cutouts from a configurable URL template.
type SecondaryProviderGateway struct {
	client *http.Client
	cfg    SecondaryConfig
}

func NewSecondaryProviderGateway(client *http.Client, cfg SecondaryConfig) (*SecondaryProviderGateway, error) {
	if strings.TrimSpace(cfg.URLTemplate) == "" {
		return nil, ErrSecondaryTemplateMissing
	}
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &SecondaryProviderGateway{client: client, cfg: cfg}, nil
}

func (g *SecondaryProviderGateway) ID() domain.ProviderID {
	return domain.ProviderSecondary
}

// BuildRequest expands the template for candidate. It returns the request URL,
// the same URL with the key masked, and the headers to send.
func (g *SecondaryProviderGateway) BuildRequest(candidate domain.CutoutCandidate) (string, string, http.Header, error) {
	replacer := strings.NewReplacer(
		"{ra}", url.QueryEscape(formatCoordinate(candidate.RA)),
		"{dec}", url.QueryEscape(formatCoordinate(candidate.Dec)),
		"{fov_rad}", url.QueryEscape(formatCoordinate(candidate.FOV*math.Pi/180)),
		"{fov}", url.QueryEscape(formatCoordinate(candidate.FOV)),
		"{survey}", url.QueryEscape(candidate.Survey),
		"{width}", strconv.Itoa(candidate.Resolution.Width),
		"{height}", strconv.Itoa(candidate.Resolution.Height),
	)
	expanded := replacer.Replace(g.cfg.URLTemplate)

	u, err := url.Parse(expanded)
	if err != nil {
		return "", "", nil, fmt.Errorf("parse secondary url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", "", nil, errors.New("secondary url must be absolute")
	}

	header := http.Header{}
	logURL := u.String()
	if g.cfg.APIKey != "" && g.cfg.APIKeyQueryParam != "" {
		q := u.Query()
		q.Set(g.cfg.APIKeyQueryParam, g.cfg.APIKey)
		u.RawQuery = q.Encode()

		masked := *u
		mq := masked.Query()
		mq.Set(g.cfg.APIKeyQueryParam, redact.Marker)
		masked.RawQuery = mq.Encode()
		logURL = masked.String()
	}
	if g.cfg.APIKey != "" && g.cfg.APIKeyHeader != "" {
		header.Set(g.cfg.APIKeyHeader, g.cfg.APIKeyPrefix+g.cfg.APIKey)
	}

	return u.String(), logURL, header, nil
}

func (g *SecondaryProviderGateway) Fetch(ctx context.Context, candidate domain.CutoutCandidate) ([]byte, error) {
	rawURL, logURL, header, err := g.BuildRequest(candidate)
	if err != nil {
		return nil, &domain.ProviderError{Provider: g.ID(), Reason: g.scrub(err.Error())}
	}

	return fetch(ctx, g.client, fetchRequest{
		provider: g.ID(),
		rawURL:   rawURL,
		logURL:   logURL,
		header:   header,
		timeout:  g.cfg.Timeout,
		scrub:    g.scrub,
	}, candidate)
}

// scrub masks the configured key verbatim as well as anything that looks
// like a credential.
func (g *SecondaryProviderGateway) scrub(s string) string {
	if g.cfg.APIKey != "" {
		s = strings.ReplaceAll(s, g.cfg.APIKey, redact.Marker)
		s = strings.ReplaceAll(s, url.QueryEscape(g.cfg.APIKey), redact.Marker)
	}
	return redact.Secrets(s)
}
