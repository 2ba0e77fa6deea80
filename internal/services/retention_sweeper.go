package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/repos"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/observability"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/dbctx"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

const defaultSweepConcurrency = 4

type SweepReport struct {
	EntitiesScanned int                           `json:"entities_scanned"`
	Deleted         int                           `json:"deleted"`
	Failed          int                           `json:"failed"`
	DeletedByType   map[versioning.EntityType]int `json:"deleted_by_type"`
}

// RetentionSweeper applies the retention policy to every entity whose history
// has outgrown its window. It is the scheduled caller of Cleanup.
type RetentionSweeper struct {
	log         *logger.Logger
	versions    repos.ContentVersionRepo
	svc         ContentVersionService
	policy      versioning.RetentionPolicy
	concurrency int
	metrics     *observability.Metrics
}

func NewRetentionSweeper(
	baseLog *logger.Logger,
	versions repos.ContentVersionRepo,
	svc ContentVersionService,
	policy versioning.RetentionPolicy,
	concurrency int,
	metrics *observability.Metrics,
) *RetentionSweeper {
	if concurrency <= 0 {
		concurrency = defaultSweepConcurrency
	}
	return &RetentionSweeper{
		log:         baseLog.With("service", "RetentionSweeper"),
		versions:    versions,
		svc:         svc,
		policy:      policy,
		concurrency: concurrency,
		metrics:     metrics,
	}
}

// SweepOnce runs a single pass. A failed entity does not stop the others;
// their errors are joined into the returned error.
func (s *RetentionSweeper) SweepOnce(ctx context.Context) (SweepReport, error) {
	start := time.Now()
	report := SweepReport{DeletedByType: map[versioning.EntityType]int{}}

	var (
		mu   sync.Mutex
		errs []error
	)
	for _, entityType := range versioning.EntityTypes() {
		keep := s.policy.KeepFor(entityType)
		ids, err := s.versions.ListEntitiesExceeding(dbctx.Context{Ctx: ctx}, entityType, keep)
		if err != nil {
			errs = append(errs, fmt.Errorf("list %s entities: %w", entityType, err))
			continue
		}
		report.EntitiesScanned += len(ids)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)
		for _, id := range ids {
			g.Go(func() error {
				res, err := s.svc.Cleanup(gctx, entityType, id, &keep)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					report.Failed++
					errs = append(errs, fmt.Errorf("cleanup %s %s: %w", entityType, id, err))
					return nil
				}
				report.Deleted += res.DeletedCount
				report.DeletedByType[entityType] += res.DeletedCount
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
	}

	err := errors.Join(errs...)
	status := "success"
	if err != nil {
		status = "partial_failure"
	}
	s.metrics.ObserveSweep(status, time.Since(start))
	s.log.Info("retention sweep finished",
		"entities", report.EntitiesScanned,
		"deleted", report.Deleted,
		"failed", report.Failed,
		"took", time.Since(start),
	)
	return report, err
}

// Run sweeps every interval until ctx is done.
func (s *RetentionSweeper) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("retention sweep interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("retention sweep had failures", "error", err)
			}
		}
	}
}
