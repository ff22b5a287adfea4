package job

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job defines a periodic background job.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Fn       func(ctx context.Context) error
}

// JobScheduler manages periodic background jobs with context-aware shutdown.
type JobScheduler struct {
	logger *slog.Logger
	jobs   []Job
	wg     sync.WaitGroup
}

// NewJobScheduler creates a new scheduler. A nil logger uses slog.Default.
func NewJobScheduler(logger *slog.Logger) *JobScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobScheduler{logger: logger}
}

// Add registers a job to be run when Start is called.
func (s *JobScheduler) Add(j Job) {
	s.jobs = append(s.jobs, j)
}

// Len returns the number of registered jobs.
func (s *JobScheduler) Len() int {
	return len(s.jobs)
}

// Start launches all registered jobs as goroutines. Each job runs immediately
// on start, then repeats at its configured interval. All jobs stop when ctx
// is cancelled.
func (s *JobScheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.runJob(ctx, j)
	}
}

func (s *JobScheduler) runJob(ctx context.Context, j Job) {
	defer s.wg.Done()

	s.executeJob(ctx, j)

	if j.Interval <= 0 {
		return
	}
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "job stopping", "job", j.Name)
			return
		case <-ticker.C:
			s.executeJob(ctx, j)
		}
	}
}

func (s *JobScheduler) executeJob(ctx context.Context, j Job) {
	if ctx.Err() != nil {
		return
	}

	jobCtx := ctx
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := j.Fn(jobCtx); err != nil {
		s.logger.ErrorContext(ctx, "job failed", "job", j.Name, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	s.logger.DebugContext(ctx, "job finished", "job", j.Name, "duration_ms", time.Since(start).Milliseconds())
}

// Shutdown blocks until all running jobs complete.
func (s *JobScheduler) Shutdown() {
	s.wg.Wait()
}
