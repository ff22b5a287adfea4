// Package cutout_provider_gateway implements CutoutProviderPort over HTTP.
package cutout_provider_gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"skyview/domain"
	"skyview/utils/logger"
	"skyview/utils/redact"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MaxResponseBytes caps a single cutout payload.
	MaxResponseBytes = 32 << 20

	// DefaultTimeout applies when a provider has no timeout configured.
	DefaultTimeout = 25 * time.Second

	tracerName = "skyview/cutout_provider_gateway"
)

type fetchRequest struct {
	provider domain.ProviderID
	rawURL   string
	// logURL is rawURL with credentials masked.
	logURL  string
	header  http.Header
	timeout time.Duration
	// scrub removes provider-specific secrets from error text.
	scrub func(string) string
}

func fetch(ctx context.Context, client *http.Client, fr fetchRequest, candidate domain.CutoutCandidate) ([]byte, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "cutout.provider.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("cutout.provider", fr.provider.String()),
			attribute.String("cutout.survey", candidate.Survey),
			attribute.String("cutout.resolution", candidate.Resolution.String()),
			attribute.Int("cutout.attempt", candidate.Attempt),
		))
	defer span.End()

	timeout := fr.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	body, status, err := doFetch(ctx, client, fr, timeout)
	log := logger.FromContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug("Cutout provider call failed",
			"provider", fr.provider,
			"url", fr.logURL,
			"status", status,
			"duration_ms", time.Since(started).Milliseconds(),
			"error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("http.response.status_code", status),
		attribute.Int("cutout.bytes", len(body)))
	log.Debug("Cutout provider call succeeded",
		"provider", fr.provider,
		"url", fr.logURL,
		"status", status,
		"bytes", len(body),
		"duration_ms", time.Since(started).Milliseconds())
	return body, nil
}

func doFetch(ctx context.Context, client *http.Client, fr fetchRequest, timeout time.Duration) ([]byte, int, error) {
	scrub := fr.scrub
	if scrub == nil {
		scrub = redact.Secrets
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fr.rawURL, nil)
	if err != nil {
		return nil, 0, &domain.ProviderError{
			Provider: fr.provider,
			Reason:   scrub(fmt.Sprintf("build request: %v", unwrapURLError(err))),
		}
	}
	for name, values := range fr.header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set("Accept", "image/*")

	resp, err := client.Do(req)
	if err != nil {
		inner := unwrapURLError(err)
		return nil, 0, &domain.ProviderError{
			Provider: fr.provider,
			Reason:   scrub(transportReason(ctx, inner, timeout)),
			Cause:    contextCause(ctx),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, &domain.ProviderError{
			Provider:   fr.provider,
			StatusCode: resp.StatusCode,
			Reason:     http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, resp.StatusCode, &domain.ProviderError{
			Provider: fr.provider,
			Reason:   scrub(transportReason(ctx, err, timeout)),
			Cause:    contextCause(ctx),
		}
	}
	if len(body) > MaxResponseBytes {
		return nil, resp.StatusCode, &domain.ProviderError{
			Provider: fr.provider,
			Reason:   "response exceeds " + strconv.Itoa(MaxResponseBytes) + " bytes",
		}
	}
	if len(body) == 0 {
		return nil, resp.StatusCode, &domain.ProviderError{
			Provider:   fr.provider,
			StatusCode: resp.StatusCode,
			Reason:     "empty response body",
		}
	}

	return body, resp.StatusCode, nil
}

// unwrapURLError drops the *url.Error wrapper, whose message embeds the full
// request URL.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func transportReason(ctx context.Context, err error, timeout time.Duration) string {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("timeout after %s", timeout)
	case errors.Is(ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return "context canceled"
	default:
		return err.Error()
	}
}

func contextCause(ctx context.Context) error {
	return ctx.Err()
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
