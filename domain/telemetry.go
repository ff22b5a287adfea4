package domain

import "time"

// FailureEvent is one entry of the recent failure ring.
type FailureEvent struct {
	At     time.Time `json:"at"`
	Reason string    `json:"reason"`
}

// TelemetrySnapshot is a read-only copy of the cutout engine counters.
type TelemetrySnapshot struct {
	RequestsTotal           int64            `json:"requests_total"`
	SuccessTotal            int64            `json:"success_total"`
	FailureTotal            int64            `json:"failure_total"`
	ProviderAttemptsTotal   int64            `json:"provider_attempts_total"`
	ProviderFailuresTotal   int64            `json:"provider_failures_total"`
	CacheHitsTotal          int64            `json:"cache_hits_total"`
	ResolutionFallbackTotal int64            `json:"resolution_fallback_total"`
	SurveyFallbackTotal     int64            `json:"survey_fallback_total"`
	ProviderFallbackTotal   int64            `json:"provider_fallback_total"`
	PrimarySuccessTotal     int64            `json:"primary_success_total"`
	SecondarySuccessTotal   int64            `json:"secondary_success_total"`
	ProviderSuccess         map[string]int64 `json:"provider_success"`
	ConsecutiveFailures     int64            `json:"consecutive_failures"`
	LastSuccessAt           *time.Time       `json:"last_success_at,omitempty"`
	LastFailureAt           *time.Time       `json:"last_failure_at,omitempty"`
	LastFailureReason       string           `json:"last_failure_reason,omitempty"`
	RecentFailures          []FailureEvent   `json:"recent_failures"`
}

// FallbackUsage records which fallback dimensions a successful retrieval exercised.
type FallbackUsage struct {
	Resolution bool
	Survey     bool
	Provider   bool
}
