// Package catalog_gateway runs cone searches against an external catalog
// service described by a URL template.
package catalog_gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"skyview/domain"
	"skyview/utils/redact"
)

const (
	maxCatalogBytes       = 4 << 20
	defaultCatalogTimeout = 10 * time.Second
)

// CatalogConfig configures the lookup. URLTemplate understands {ra} {dec} {radius}.
type CatalogConfig struct {
	URLTemplate string
	Timeout     time.Duration
}

// CatalogGateway implements CatalogLookupPort over HTTP.
type CatalogGateway struct {
	client *http.Client
	cfg    CatalogConfig
}

func NewCatalogGateway(client *http.Client, cfg CatalogConfig) *CatalogGateway {
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCatalogTimeout
	}
	return &CatalogGateway{client: client, cfg: cfg}
}

// Enabled reports whether a template is configured.
func (g *CatalogGateway) Enabled() bool {
	return strings.TrimSpace(g.cfg.URLTemplate) != ""
}

func (g *CatalogGateway) buildURL(q domain.NearbyQuery) string {
	f := func(v float64) string { return url.QueryEscape(strconv.FormatFloat(v, 'f', -1, 64)) }
	return strings.NewReplacer(
		"{ra}", f(q.RA),
		"{dec}", f(q.Dec),
		"{radius}", f(q.Radius),
	).Replace(g.cfg.URLTemplate)
}

func (g *CatalogGateway) LookupNearby(ctx context.Context, q domain.NearbyQuery) ([]byte, error) {
	if !g.Enabled() {
		return nil, domain.ErrCatalogDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.buildURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %s", domain.ErrCatalogUnavailable, redact.Secrets(err.Error()))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrCatalogUnavailable, redact.Secrets(err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrCatalogUnavailable, err)
	}
	return body, nil
}
