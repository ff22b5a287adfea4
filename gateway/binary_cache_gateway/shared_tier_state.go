package binary_cache_gateway

import "sync/atomic"

// SharedTierState is the lifecycle of the shared cache tier. The only
// transition is Enabled to Disabled; a disabled tier stays disabled until
// the process restarts.
type SharedTierState int32

const (
	SharedTierDisabled SharedTierState = iota
	SharedTierEnabled
)

func (s SharedTierState) String() string {
	if s == SharedTierEnabled {
		return "enabled"
	}
	return "disabled"
}

type sharedTierSwitch struct {
	state atomic.Int32
}

func newSharedTierSwitch(initial SharedTierState) *sharedTierSwitch {
	sw := &sharedTierSwitch{}
	sw.state.Store(int32(initial))
	return sw
}

func (s *sharedTierSwitch) Load() SharedTierState {
	return SharedTierState(s.state.Load())
}

// Disable moves the tier to Disabled. It reports true only for the caller
// that performed the transition.
func (s *sharedTierSwitch) Disable() bool {
	return s.state.CompareAndSwap(int32(SharedTierEnabled), int32(SharedTierDisabled))
}
