package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestJobScheduler_RunsJobOnStart(t *testing.T) {
	var count atomic.Int32

	scheduler := NewJobScheduler(nil)
	scheduler.Add(Job{
		Name:     "test-job",
		Interval: time.Hour,
		Timeout:  time.Second,
		Fn: func(ctx context.Context) error {
			count.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	scheduler.Shutdown()

	if got := count.Load(); got < 1 {
		t.Errorf("expected job to run at least once, ran %d times", got)
	}
}

func TestJobScheduler_StopsOnContextCancel(t *testing.T) {
	var count atomic.Int32

	scheduler := NewJobScheduler(nil)
	scheduler.Add(Job{
		Name:     "stop-test",
		Interval: 10 * time.Millisecond,
		Timeout:  time.Second,
		Fn: func(ctx context.Context) error {
			count.Add(1)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	scheduler.Shutdown()

	countAfterShutdown := count.Load()
	time.Sleep(30 * time.Millisecond)

	if count.Load() != countAfterShutdown {
		t.Error("job continued running after context cancel and shutdown")
	}
}

func TestJobScheduler_JobTimeoutRespected(t *testing.T) {
	var timedOut atomic.Bool

	scheduler := NewJobScheduler(nil)
	scheduler.Add(Job{
		Name:     "timeout-test",
		Interval: time.Hour,
		Timeout:  50 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				timedOut.Store(true)
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)

	time.Sleep(200 * time.Millisecond)
	cancel()
	scheduler.Shutdown()

	if !timedOut.Load() {
		t.Error("expected job to be cancelled by its timeout")
	}
}

func TestJobScheduler_ErrorDoesNotStopJob(t *testing.T) {
	var count atomic.Int32

	scheduler := NewJobScheduler(nil)
	scheduler.Add(Job{
		Name:     "failing",
		Interval: 10 * time.Millisecond,
		Timeout:  time.Second,
		Fn: func(ctx context.Context) error {
			count.Add(1)
			return errors.New("boom")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	cancel()
	scheduler.Shutdown()

	if got := count.Load(); got < 2 {
		t.Errorf("expected failing job to keep running, ran %d times", got)
	}
}

func TestJobScheduler_ZeroIntervalRunsOnce(t *testing.T) {
	var count atomic.Int32

	scheduler := NewJobScheduler(nil)
	scheduler.Add(Job{
		Name: "once",
		Fn: func(ctx context.Context) error {
			count.Add(1)
			return nil
		},
	})

	scheduler.Start(context.Background())
	scheduler.Shutdown()

	if got := count.Load(); got != 1 {
		t.Errorf("expected exactly one run, got %d", got)
	}
}
