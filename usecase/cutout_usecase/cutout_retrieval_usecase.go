package cutout_usecase

import (
	"context"
	"time"

	"skyview/domain"
	"skyview/port/cutout_audit_port"
	"skyview/port/cutout_cache_port"
	"skyview/port/cutout_provider_port"
	"skyview/utils/logger"
	"skyview/utils/metrics"
	"skyview/utils/redact"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultCacheTTL is used when no cutout cache TTL is configured.
const DefaultCacheTTL = 300 * time.Second

const tracerName = "skyview/cutout_usecase"

// CutoutRetrievalUsecase walks the fallback matrix for a request: cache
// first, then the providers, degrading survey, provider and finally
// resolution until something succeeds.
type CutoutRetrievalUsecase struct {
	providerIDs []domain.ProviderID
	providers   map[domain.ProviderID]cutout_provider_port.CutoutProviderPort
	cache       cutout_cache_port.BinaryCachePort
	telemetry   *metrics.CutoutTelemetry
	audit       cutout_audit_port.CutoutAuditPort
	catalog     domain.SurveyCatalog
	cacheTTL    time.Duration
}

// NewCutoutRetrievalUsecase creates the engine. providers are tried in the
// given order; audit may be nil.
func NewCutoutRetrievalUsecase(
	providers []cutout_provider_port.CutoutProviderPort,
	cache cutout_cache_port.BinaryCachePort,
	telemetry *metrics.CutoutTelemetry,
	audit cutout_audit_port.CutoutAuditPort,
	catalog domain.SurveyCatalog,
	cacheTTL time.Duration,
) *CutoutRetrievalUsecase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	u := &CutoutRetrievalUsecase{
		providers: make(map[domain.ProviderID]cutout_provider_port.CutoutProviderPort, len(providers)),
		cache:     cache,
		telemetry: telemetry,
		audit:     audit,
		catalog:   catalog,
		cacheTTL:  cacheTTL,
	}
	for _, p := range providers {
		if p == nil {
			continue
		}
		if _, dup := u.providers[p.ID()]; dup {
			continue
		}
		u.providers[p.ID()] = p
		u.providerIDs = append(u.providerIDs, p.ID())
	}
	return u
}

// Providers returns the provider order used by the matrix.
func (u *CutoutRetrievalUsecase) Providers() []domain.ProviderID {
	return append([]domain.ProviderID(nil), u.providerIDs...)
}

// Telemetry returns a snapshot of the engine counters.
func (u *CutoutRetrievalUsecase) Telemetry() domain.TelemetrySnapshot {
	return u.telemetry.Snapshot()
}

// Retrieve returns a cutout for req. The only errors it returns are
// *domain.ValidationError and *domain.RetrievalUnavailableError.
func (u *CutoutRetrievalUsecase) Retrieve(ctx context.Context, req domain.CutoutRequest) (*domain.RetrievalResult, error) {
	req, err := domain.NewCutoutRequest(req.RA, req.Dec, req.FOV, req.Survey, req.Label, req.Detail)
	if err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "cutout.retrieve")
	defer span.End()
	span.SetAttributes(
		attribute.String("cutout.survey", req.Survey),
		attribute.String("cutout.detail", string(req.Detail)))

	u.telemetry.RecordRequest()

	matrix := BuildMatrix(req, u.catalog, u.providerIDs)
	log := logger.FromContext(ctx)

	// Cached entries win over any provider call, in matrix order.
	if candidate, data, ok := u.lookupCached(ctx, matrix); ok {
		u.telemetry.RecordCacheHit()
		return u.succeed(ctx, span, req, matrix, candidate, data, 0, true), nil
	}

	attempts := 0
	lastReason := "no cutout provider configured"
	for i, res := range matrix.Resolutions {
		if i > 0 {
			log.Info("Downgrading cutout resolution",
				"from", matrix.Resolutions[i-1].String(),
				"to", res.String(),
				"survey", req.Survey)
		}

		for _, candidate := range matrix.CandidatesAt(res) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, u.fail(ctx, span, ctxErr.Error(), attempts)
			}

			attempts++
			u.telemetry.RecordProviderAttempt(candidate.Provider)
			data, err := u.providers[candidate.Provider].Fetch(ctx, candidate)
			if err == nil && len(data) == 0 {
				err = &domain.ProviderError{Provider: candidate.Provider, Reason: "empty response body"}
			}
			if err != nil {
				u.telemetry.RecordProviderFailure(candidate.Provider)
				lastReason = redact.Reason(err.Error())
				log.Warn("Cutout provider attempt failed",
					"provider", candidate.Provider,
					"survey", candidate.Survey,
					"resolution", candidate.Resolution.String(),
					"attempt", candidate.Attempt,
					"reason", lastReason)
				continue
			}

			u.telemetry.RecordProviderOK(candidate.Provider)
			// A late success is still valid for later requests.
			u.cache.Set(context.WithoutCancel(ctx), candidate.CacheKey(), data, u.cacheTTL)
			return u.succeed(ctx, span, req, matrix, candidate, data, attempts, false), nil
		}
	}

	return nil, u.fail(ctx, span, lastReason, attempts)
}

// lookupCached checks every (resolution, survey, provider) key once, in
// matrix order, and returns the first hit.
func (u *CutoutRetrievalUsecase) lookupCached(ctx context.Context, matrix Matrix) (domain.CutoutCandidate, []byte, bool) {
	for _, candidate := range matrix.Candidates() {
		if candidate.Attempt != 1 {
			continue
		}
		if ctx.Err() != nil {
			return domain.CutoutCandidate{}, nil, false
		}
		if data, ok := u.cache.Get(ctx, candidate.CacheKey()); ok {
			return candidate, data, true
		}
	}
	return domain.CutoutCandidate{}, nil, false
}

func (u *CutoutRetrievalUsecase) succeed(
	ctx context.Context,
	span trace.Span,
	req domain.CutoutRequest,
	matrix Matrix,
	winner domain.CutoutCandidate,
	data []byte,
	attempts int,
	cacheHit bool,
) *domain.RetrievalResult {
	u.telemetry.RecordSuccess(winner.Provider, matrix.Fallbacks(winner))

	contentType := domain.SniffContentType(data)
	result := &domain.RetrievalResult{
		Data:             data,
		ContentType:      contentType,
		FileName:         domain.CutoutFileName(req, contentType),
		ResolvedSurvey:   winner.Survey,
		ResolvedProvider: winner.Provider,
		Resolution:       winner.Resolution,
		AttemptCount:     attempts,
		CacheHit:         cacheHit,
	}

	if u.audit != nil {
		u.audit.RecordCutout(ctx, domain.CutoutAuditRecord{
			Provider:     winner.Provider,
			Survey:       winner.Survey,
			AttemptCount: attempts,
			CacheHit:     cacheHit,
			ByteSize:     len(data),
		})
	}

	span.SetAttributes(
		attribute.String("cutout.resolved_survey", winner.Survey),
		attribute.String("cutout.resolved_provider", winner.Provider.String()),
		attribute.Int("cutout.attempts", attempts),
		attribute.Bool("cutout.cache_hit", cacheHit))

	logger.FromContext(ctx).Info("Cutout retrieved",
		"survey", winner.Survey,
		"provider", winner.Provider,
		"resolution", winner.Resolution.String(),
		"attempts", attempts,
		"cache_hit", cacheHit,
		"bytes", len(data))

	return result
}

func (u *CutoutRetrievalUsecase) fail(ctx context.Context, span trace.Span, reason string, attempts int) error {
	reason = redact.Reason(reason)
	u.telemetry.RecordFailure(reason)
	span.SetStatus(codes.Error, reason)

	logger.FromContext(ctx).Error("Cutout retrieval exhausted all candidates",
		"attempts", attempts,
		"last_reason", reason)

	return &domain.RetrievalUnavailableError{LastReason: reason, Attempts: attempts}
}

