package metrics

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"skyview/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCutoutTelemetry_InitialState(t *testing.T) {
	telemetry := NewCutoutTelemetry()

	snap := telemetry.Snapshot()
	assert.Zero(t, snap.RequestsTotal)
	assert.Zero(t, snap.SuccessTotal)
	assert.Zero(t, snap.FailureTotal)
	assert.Nil(t, snap.LastSuccessAt)
	assert.Nil(t, snap.LastFailureAt)
	assert.Empty(t, snap.RecentFailures)
	assert.NotNil(t, snap.ProviderSuccess)
}

func TestCutoutTelemetry_Conservation(t *testing.T) {
	tests := []struct {
		name       string
		operations []string
		successes  int64
		failures   int64
		consec     int64
	}{
		{name: "single success", operations: []string{"success"}, successes: 1, consec: 0},
		{name: "single failure", operations: []string{"failure"}, failures: 1, consec: 1},
		{
			name:       "failures then success resets streak",
			operations: []string{"failure", "failure", "success"},
			successes:  1,
			failures:   2,
			consec:     0,
		},
		{
			name:       "success then failures",
			operations: []string{"success", "failure", "failure", "failure"},
			successes:  1,
			failures:   3,
			consec:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			telemetry := NewCutoutTelemetry()
			for _, op := range tt.operations {
				telemetry.RecordRequest()
				switch op {
				case "success":
					telemetry.RecordSuccess(domain.ProviderPrimary, domain.FallbackUsage{})
				case "failure":
					telemetry.RecordFailure("status 503")
				}
			}

			snap := telemetry.Snapshot()
			assert.Equal(t, tt.successes, snap.SuccessTotal)
			assert.Equal(t, tt.failures, snap.FailureTotal)
			assert.Equal(t, snap.RequestsTotal, snap.SuccessTotal+snap.FailureTotal)
			assert.Equal(t, tt.consec, snap.ConsecutiveFailures)
		})
	}
}

func TestCutoutTelemetry_SuccessAttribution(t *testing.T) {
	telemetry := NewCutoutTelemetry()

	telemetry.RecordSuccess(domain.ProviderPrimary, domain.FallbackUsage{})
	telemetry.RecordSuccess(domain.ProviderSecondary, domain.FallbackUsage{Provider: true, Survey: true})
	telemetry.RecordSuccess(domain.ProviderPrimary, domain.FallbackUsage{Resolution: true})

	snap := telemetry.Snapshot()
	assert.Equal(t, int64(2), snap.PrimarySuccessTotal)
	assert.Equal(t, int64(1), snap.SecondarySuccessTotal)
	assert.Equal(t, map[string]int64{"primary": 2, "secondary": 1}, snap.ProviderSuccess)
	assert.Equal(t, int64(1), snap.ResolutionFallbackTotal)
	assert.Equal(t, int64(1), snap.SurveyFallbackTotal)
	assert.Equal(t, int64(1), snap.ProviderFallbackTotal)
	require.NotNil(t, snap.LastSuccessAt)
}

func TestCutoutTelemetry_ProviderAttemptsMirrorPerProvider(t *testing.T) {
	telemetry := NewCutoutTelemetry()
	primary := CutoutProviderAttemptsTotal.WithLabelValues(domain.ProviderPrimary.String())
	secondary := CutoutProviderAttemptsTotal.WithLabelValues(domain.ProviderSecondary.String())
	primaryBefore := testutil.ToFloat64(primary)
	secondaryBefore := testutil.ToFloat64(secondary)

	telemetry.RecordProviderAttempt(domain.ProviderPrimary)
	telemetry.RecordProviderAttempt(domain.ProviderPrimary)
	telemetry.RecordProviderAttempt(domain.ProviderSecondary)

	assert.Equal(t, int64(3), telemetry.Snapshot().ProviderAttemptsTotal)
	assert.Equal(t, primaryBefore+2, testutil.ToFloat64(primary))
	assert.Equal(t, secondaryBefore+1, testutil.ToFloat64(secondary))
}

func TestCutoutTelemetry_FailureRing(t *testing.T) {
	telemetry := NewCutoutTelemetry()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	telemetry.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for i := 0; i < RecentFailureCapacity+5; i++ {
		telemetry.RecordFailure(fmt.Sprintf("failure %d", i))
	}

	snap := telemetry.Snapshot()
	require.Len(t, snap.RecentFailures, RecentFailureCapacity)
	assert.Equal(t, "failure 24", snap.RecentFailures[0].Reason)
	assert.Equal(t, "failure 5", snap.RecentFailures[RecentFailureCapacity-1].Reason)
	assert.True(t, snap.RecentFailures[0].At.After(snap.RecentFailures[1].At))
	assert.Equal(t, "failure 24", snap.LastFailureReason)
}

func TestCutoutTelemetry_FailureReasonIsRedacted(t *testing.T) {
	telemetry := NewCutoutTelemetry()

	telemetry.RecordFailure("GET /cutout?api_key=SECRET123 failed")
	telemetry.RecordFailure("Authorization: Bearer abc.def rejected")

	snap := telemetry.Snapshot()
	for _, event := range snap.RecentFailures {
		assert.NotContains(t, event.Reason, "SECRET123")
		assert.NotContains(t, event.Reason, "abc.def")
		assert.Contains(t, event.Reason, "[REDACTED]")
	}
	assert.NotContains(t, snap.LastFailureReason, "abc.def")
}

func TestCutoutTelemetry_SnapshotIsCopy(t *testing.T) {
	telemetry := NewCutoutTelemetry()
	telemetry.RecordFailure("first")
	telemetry.RecordSuccess(domain.ProviderPrimary, domain.FallbackUsage{})

	snap := telemetry.Snapshot()
	snap.RecentFailures[0].Reason = "mutated"
	snap.ProviderSuccess["primary"] = 99

	again := telemetry.Snapshot()
	assert.Equal(t, "first", again.RecentFailures[0].Reason)
	assert.Equal(t, int64(1), again.ProviderSuccess["primary"])
}

func TestCutoutTelemetry_ConcurrentAccess(t *testing.T) {
	telemetry := NewCutoutTelemetry()
	const workers = 50
	const perWorker = 40

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				telemetry.RecordRequest()
				telemetry.RecordProviderAttempt(domain.ProviderPrimary)
				if (id+j)%2 == 0 {
					telemetry.RecordSuccess(domain.ProviderPrimary, domain.FallbackUsage{})
				} else {
					telemetry.RecordProviderFailure(domain.ProviderPrimary)
					telemetry.RecordFailure("boom")
				}
				_ = telemetry.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	snap := telemetry.Snapshot()
	assert.Equal(t, int64(workers*perWorker), snap.RequestsTotal)
	assert.Equal(t, snap.RequestsTotal, snap.SuccessTotal+snap.FailureTotal)
	assert.Equal(t, int64(workers*perWorker), snap.ProviderAttemptsTotal)
	assert.Equal(t, snap.FailureTotal, snap.ProviderFailuresTotal)
	assert.Len(t, snap.RecentFailures, RecentFailureCapacity)
}
