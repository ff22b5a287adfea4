package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CutoutRequestsTotal counts retrieval outcomes.
	CutoutRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skyview",
			Subsystem: "cutout",
			Name:      "requests_total",
			Help:      "Total number of cutout retrievals by outcome",
		},
		[]string{"outcome"},
	)

	// CutoutProviderAttemptsTotal counts upstream provider calls as they start.
	CutoutProviderAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skyview",
			Subsystem: "cutout",
			Name:      "provider_attempts_total",
			Help:      "Total number of provider call attempts by provider",
		},
		[]string{"provider"},
	)

	// CutoutProviderCallsTotal counts upstream provider calls.
	CutoutProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skyview",
			Subsystem: "cutout",
			Name:      "provider_calls_total",
			Help:      "Total number of provider calls by provider and status",
		},
		[]string{"provider", "status"},
	)

	// CutoutProviderSuccessTotal counts successful retrievals per resolved provider.
	CutoutProviderSuccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skyview",
			Subsystem: "cutout",
			Name:      "provider_success_total",
			Help:      "Total number of successful retrievals attributed to a provider",
		},
		[]string{"provider"},
	)

	// CutoutCacheHitsTotal counts retrievals served from cache.
	CutoutCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "skyview",
			Subsystem: "cutout",
			Name:      "cache_hits_total",
			Help:      "Total number of cutout retrievals served from cache",
		},
	)

	// CutoutFallbackTotal counts successful retrievals that used a fallback dimension.
	CutoutFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skyview",
			Subsystem: "cutout",
			Name:      "fallback_total",
			Help:      "Total number of retrievals that fell back on a dimension",
		},
		[]string{"dimension"},
	)

	// SharedCacheEnabled tracks the shared cache tier state.
	SharedCacheEnabled = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "skyview",
			Name:      "shared_cache_enabled",
			Help:      "Shared cache tier state (1 = enabled, 0 = disabled)",
		},
		[]string{"cache"},
	)

	// AuditDroppedTotal counts audit records dropped because the queue was full.
	AuditDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "skyview",
			Subsystem: "audit",
			Name:      "dropped_total",
			Help:      "Total number of audit records dropped by the write-behind queue",
		},
	)
)
