package cache_driver

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store, err := NewMemoryStore(4)
	require.NoError(t, err)

	store.Set("k", []byte("payload"), time.Minute)

	data, remaining, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), data)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, time.Minute)

	_, _, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store, err := NewMemoryStore(4)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set("k", []byte("payload"), 10*time.Second)

	now = now.Add(9 * time.Second)
	_, remaining, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, time.Second, remaining)

	now = now.Add(time.Second)
	_, _, ok = store.Get("k")
	assert.False(t, ok, "entry must expire at its deadline")
	assert.Equal(t, 0, store.Len(), "expired entry is removed on read")
}

func TestMemoryStore_ExpiredReadKeepsConcurrentRefresh(t *testing.T) {
	store, err := NewMemoryStore(4)
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := start.Add(2 * time.Second)
	refreshed := make(chan struct{})

	var calls atomic.Int32
	store.now = func() time.Time {
		switch calls.Add(1) {
		case 1:
			return start
		case 2:
			// Get sees the stale entry; a writer refreshes the key meanwhile.
			go func() {
				store.Set("k", []byte("fresh"), time.Second)
				close(refreshed)
			}()
			select {
			case <-refreshed:
			case <-time.After(50 * time.Millisecond):
			}
			return later
		default:
			return later
		}
	}

	store.Set("k", []byte("stale"), time.Second)

	_, _, ok := store.Get("k")
	assert.False(t, ok)

	select {
	case <-refreshed:
	case <-time.After(time.Second):
		t.Fatal("refresh did not complete")
	}

	data, _, ok := store.Get("k")
	require.True(t, ok, "the expired read must not remove the refreshed entry")
	assert.Equal(t, []byte("fresh"), data)
}

func TestMemoryStore_EvictsOldestInserted(t *testing.T) {
	store, err := NewMemoryStore(3)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		store.Set(fmt.Sprintf("k%d", i), []byte{byte(i)}, time.Minute)
	}

	// Reading k0 must not protect it from eviction.
	_, _, ok := store.Get("k0")
	require.True(t, ok)

	store.Set("k3", []byte{3}, time.Minute)

	_, _, ok = store.Get("k0")
	assert.False(t, ok)
	for _, key := range []string{"k1", "k2", "k3"} {
		_, _, ok = store.Get(key)
		assert.True(t, ok, key)
	}
}

func TestMemoryStore_IgnoresNonPositiveTTL(t *testing.T) {
	store, err := NewMemoryStore(0)
	require.NoError(t, err)

	store.Set("k", []byte("payload"), 0)
	_, _, ok := store.Get("k")
	assert.False(t, ok)
}
