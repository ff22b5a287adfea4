package job

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"skyview/domain"

	"golang.org/x/sync/errgroup"
)

// PrewarmJobName is the scheduler name of the cutout prewarm job.
const PrewarmJobName = "cutout-prewarm"

const defaultPrewarmConcurrency = 4

// cutoutRetriever abstracts the retrieval engine (for testability).
type cutoutRetriever interface {
	Retrieve(ctx context.Context, req domain.CutoutRequest) (*domain.RetrievalResult, error)
}

// PrewarmSummary reports the outcome of one prewarm pass.
type PrewarmSummary struct {
	Targets   int `json:"targets"`
	Warmed    int `json:"warmed"`
	CacheHits int `json:"cache_hits"`
	Failed    int `json:"failed"`
}

// ParsePrewarmTargets parses "ra,dec,fov,survey" entries separated by ';'.
// Every target is requested at standard detail.
func ParsePrewarmTargets(raw string) ([]domain.CutoutRequest, error) {
	var targets []domain.CutoutRequest
	for i, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ",")
		if len(parts) != 4 {
			return nil, fmt.Errorf("prewarm target %d: want ra,dec,fov,survey, got %q", i+1, entry)
		}

		coords := make([]float64, 3)
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[j]), 64)
			if err != nil {
				return nil, fmt.Errorf("prewarm target %d: %w", i+1, err)
			}
			coords[j] = v
		}

		req, err := domain.NewCutoutRequest(coords[0], coords[1], coords[2], parts[3], "", domain.DetailStandard)
		if err != nil {
			return nil, fmt.Errorf("prewarm target %d: %w", i+1, err)
		}
		targets = append(targets, req)
	}
	return targets, nil
}

// RunCutoutPrewarm retrieves every target with at most concurrency requests
// in flight. A failed target does not stop the others.
func RunCutoutPrewarm(ctx context.Context, retriever cutoutRetriever, targets []domain.CutoutRequest, concurrency int) (PrewarmSummary, error) {
	if concurrency < 1 {
		concurrency = defaultPrewarmConcurrency
	}

	var warmed, hits, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, target := range targets {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			result, err := retriever.Retrieve(gctx, target)
			if err != nil {
				failed.Add(1)
				slog.WarnContext(gctx, "cutout prewarm target failed",
					"ra", target.RA, "dec", target.Dec, "fov", target.FOV, "survey", target.Survey,
					"error", err)
				return nil
			}
			if result.CacheHit {
				hits.Add(1)
			} else {
				warmed.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	summary := PrewarmSummary{
		Targets:   len(targets),
		Warmed:    int(warmed.Load()),
		CacheHits: int(hits.Load()),
		Failed:    int(failed.Load()),
	}
	return summary, err
}

// CutoutPrewarmJob returns a function suitable for the JobScheduler that
// keeps the configured targets in cache.
func CutoutPrewarmJob(retriever cutoutRetriever, targets []domain.CutoutRequest, concurrency int) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if len(targets) == 0 {
			slog.InfoContext(ctx, "cutout prewarm skipped: no targets configured")
			return nil
		}

		summary, err := RunCutoutPrewarm(ctx, retriever, targets, concurrency)
		if err != nil {
			return fmt.Errorf("cutout prewarm interrupted: %w", err)
		}

		slog.InfoContext(ctx, "cutout prewarm finished",
			"targets", summary.Targets,
			"warmed", summary.Warmed,
			"cache_hits", summary.CacheHits,
			"failed", summary.Failed)

		if summary.Failed > 0 {
			return fmt.Errorf("cutout prewarm: %d of %d targets failed", summary.Failed, summary.Targets)
		}
		return nil
	}
}
