package workers

import (
	"context"
	"time"

	"donation_backend/internal/logger"
	"donation_backend/internal/repositories"
)

// Clock abstracts time.Now so the schedule is testable without waiting a
// month.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CleanupWorker sweeps unsettled donation records on the first of every
// month at local midnight. Settled records are never deleted regardless of
// age; the delete predicate is payment_status = false, which the settle
// update is atomic against.
type CleanupWorker struct {
	repo  repositories.DonationRepository
	clock Clock
}

func NewCleanupWorker(repo repositories.DonationRepository) *CleanupWorker {
	return &CleanupWorker{repo: repo, clock: systemClock{}}
}

// WithClock replaces the clock; used by tests.
func (w *CleanupWorker) WithClock(clock Clock) *CleanupWorker {
	w.clock = clock
	return w
}

// Start launches the sweep loop. A failed sweep is logged and the schedule
// continues; there is no retry before the next occurrence.
func (w *CleanupWorker) Start(ctx context.Context) {
	go func() {
		for {
			next := NextSweepTime(w.clock.Now())
			timer := time.NewTimer(next.Sub(w.clock.Now()))

			select {
			case <-ctx.Done():
				timer.Stop()
				logger.Info("cleanup worker stopped")
				return
			case <-timer.C:
				if _, err := w.RunOnce(ctx); err != nil {
					logger.WorkerLog("cleanup", "sweep_unsettled", err)
				}
			}
		}
	}()
}

// RunOnce performs a single sweep and returns the number of records
// deleted. Zero is not an error.
func (w *CleanupWorker) RunOnce(ctx context.Context) (int64, error) {
	deleted, err := w.repo.DeleteUnsettled()
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		logger.CtxInfo(ctx, "deleted unsettled donation records", "count", deleted)
	} else {
		logger.CtxInfo(ctx, "no unsettled donation records to delete")
	}
	return deleted, nil
}

// NextSweepTime returns the first-of-month midnight strictly after t.
func NextSweepTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}
