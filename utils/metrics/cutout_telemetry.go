package metrics

import (
	"sync"
	"time"

	"skyview/domain"
	"skyview/utils/redact"
)

// RecentFailureCapacity is the size of the recent failure ring.
const RecentFailureCapacity = 20

// CutoutTelemetry provides thread-safe counters for the cutout retrieval engine.
// It is constructed once at startup and injected wherever outcomes are recorded.
type CutoutTelemetry struct {
	requestsTotal           int64
	successTotal            int64
	failureTotal            int64
	providerAttemptsTotal   int64
	providerFailuresTotal   int64
	cacheHitsTotal          int64
	resolutionFallbackTotal int64
	surveyFallbackTotal     int64
	providerFallbackTotal   int64
	providerSuccess         map[domain.ProviderID]int64
	consecutiveFailures     int64
	lastSuccessAt           time.Time
	lastFailureAt           time.Time
	lastFailureReason       string
	recentFailures          []domain.FailureEvent

	now   func() time.Time
	mutex sync.RWMutex
}

// NewCutoutTelemetry creates a new CutoutTelemetry instance
func NewCutoutTelemetry() *CutoutTelemetry {
	return &CutoutTelemetry{
		providerSuccess: make(map[domain.ProviderID]int64),
		recentFailures:  make([]domain.FailureEvent, 0, RecentFailureCapacity),
		now:             time.Now,
	}
}

// RecordRequest counts a retrieval that passed validation.
func (t *CutoutTelemetry) RecordRequest() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.requestsTotal++
}

// RecordCacheHit counts a retrieval served from either cache tier.
func (t *CutoutTelemetry) RecordCacheHit() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.cacheHitsTotal++
	CutoutCacheHitsTotal.Inc()
}

// RecordProviderAttempt counts one upstream call.
func (t *CutoutTelemetry) RecordProviderAttempt(provider domain.ProviderID) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.providerAttemptsTotal++
	CutoutProviderAttemptsTotal.WithLabelValues(provider.String()).Inc()
}

// RecordProviderFailure counts one failed upstream call.
func (t *CutoutTelemetry) RecordProviderFailure(provider domain.ProviderID) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.providerFailuresTotal++
	CutoutProviderCallsTotal.WithLabelValues(provider.String(), "failure").Inc()
}

// RecordProviderOK counts one successful upstream call for the Prometheus mirror.
func (t *CutoutTelemetry) RecordProviderOK(provider domain.ProviderID) {
	CutoutProviderCallsTotal.WithLabelValues(provider.String(), "success").Inc()
}

// RecordSuccess records a terminal success attributed to provider.
func (t *CutoutTelemetry) RecordSuccess(provider domain.ProviderID, fallbacks domain.FallbackUsage) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.successTotal++
	t.providerSuccess[provider]++
	t.consecutiveFailures = 0
	t.lastSuccessAt = t.now()

	if fallbacks.Resolution {
		t.resolutionFallbackTotal++
		CutoutFallbackTotal.WithLabelValues("resolution").Inc()
	}
	if fallbacks.Survey {
		t.surveyFallbackTotal++
		CutoutFallbackTotal.WithLabelValues("survey").Inc()
	}
	if fallbacks.Provider {
		t.providerFallbackTotal++
		CutoutFallbackTotal.WithLabelValues("provider").Inc()
	}

	CutoutRequestsTotal.WithLabelValues("success").Inc()
	CutoutProviderSuccessTotal.WithLabelValues(provider.String()).Inc()
}

// RecordFailure records a terminal failure. The reason is redacted and
// truncated before it is stored.
func (t *CutoutTelemetry) RecordFailure(reason string) {
	clean := redact.Reason(reason)

	t.mutex.Lock()
	defer t.mutex.Unlock()

	at := t.now()
	t.failureTotal++
	t.consecutiveFailures++
	t.lastFailureAt = at
	t.lastFailureReason = clean

	event := domain.FailureEvent{At: at, Reason: clean}
	if len(t.recentFailures) < RecentFailureCapacity {
		t.recentFailures = append(t.recentFailures, domain.FailureEvent{})
	}
	copy(t.recentFailures[1:], t.recentFailures[:len(t.recentFailures)-1])
	t.recentFailures[0] = event

	CutoutRequestsTotal.WithLabelValues("failure").Inc()
}

// Snapshot returns a copy of the current counters.
func (t *CutoutTelemetry) Snapshot() domain.TelemetrySnapshot {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	snap := domain.TelemetrySnapshot{
		RequestsTotal:           t.requestsTotal,
		SuccessTotal:            t.successTotal,
		FailureTotal:            t.failureTotal,
		ProviderAttemptsTotal:   t.providerAttemptsTotal,
		ProviderFailuresTotal:   t.providerFailuresTotal,
		CacheHitsTotal:          t.cacheHitsTotal,
		ResolutionFallbackTotal: t.resolutionFallbackTotal,
		SurveyFallbackTotal:     t.surveyFallbackTotal,
		ProviderFallbackTotal:   t.providerFallbackTotal,
		PrimarySuccessTotal:     t.providerSuccess[domain.ProviderPrimary],
		SecondarySuccessTotal:   t.providerSuccess[domain.ProviderSecondary],
		ProviderSuccess:         make(map[string]int64, len(t.providerSuccess)),
		ConsecutiveFailures:     t.consecutiveFailures,
		LastFailureReason:       t.lastFailureReason,
		RecentFailures:          make([]domain.FailureEvent, len(t.recentFailures)),
	}
	for provider, count := range t.providerSuccess {
		snap.ProviderSuccess[provider.String()] = count
	}
	copy(snap.RecentFailures, t.recentFailures)

	if !t.lastSuccessAt.IsZero() {
		at := t.lastSuccessAt
		snap.LastSuccessAt = &at
	}
	if !t.lastFailureAt.IsZero() {
		at := t.lastFailureAt
		snap.LastFailureAt = &at
	}

	return snap
}
