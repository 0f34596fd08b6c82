// Package scheduler drives the sync reconciler on a fixed cadence for every
// tracked employee, isolating failures per employee within a cycle.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"axis/internal/models"
	"axis/internal/observability"
	"axis/internal/store"
	"axis/internal/syncer"
)

// Reconciler is the per-employee sync operation the scheduler drives.
type Reconciler interface {
	Reconcile(ctx context.Context, emp models.Employee) (syncer.Result, error)
}

// CycleStats summarizes one reconciliation pass over all employees.
type CycleStats struct {
	Synced  int
	Skipped int
	Failed  int
}

// Scheduler runs reconciliation cycles forever until cancelled.
type Scheduler struct {
	logger     *slog.Logger
	store      store.Store
	reconciler Reconciler
	interval   time.Duration
	workers    int
}

// New creates a Scheduler. workers bounds in-cycle concurrency; values below
// one mean sequential processing.
func New(logger *slog.Logger, st store.Store, rec Reconciler, interval time.Duration, workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		logger:     logger,
		store:      st,
		reconciler: rec,
		interval:   interval,
		workers:    workers,
	}
}

// Run executes cycles until ctx is cancelled, sleeping the configured
// interval between them. A cycle never starts after cancellation; an
// in-flight cycle stops dispatching further employees but lets started ones
// finish.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			s.logger.Info("Sync scheduler stopping.")
			return ctx.Err()
		}
		s.RunCycle(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("Sync scheduler stopping.")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunCycle reconciles a snapshot of all employees once. Employees added
// mid-cycle are picked up on the next cycle. Entity-level errors are counted
// and logged but never abort the cycle.
func (s *Scheduler) RunCycle(ctx context.Context) CycleStats {
	cycleID := uuid.NewString()
	logger := s.logger.With("cycleID", cycleID)
	start := time.Now()
	logger.Info("Starting calendar sync cycle.")

	var stats CycleStats

	employees, err := s.store.FindMany(ctx, store.Filter{}, 0, 0)
	if err != nil {
		logger.Error("Failed to list employees for sync cycle", "error", err)
		return stats
	}
	if len(employees) == 0 {
		logger.Warn("No employees found to sync.")
		return stats
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.workers)
	)

	for _, emp := range employees {
		if ctx.Err() != nil {
			logger.Info("Cycle cancelled, skipping remaining employees.")
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(emp models.Employee) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := s.reconciler.Reconcile(ctx, emp)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				stats.Failed++
				observability.RecordOutcome("failed")
			case res.Outcome == syncer.OutcomeSkipped:
				stats.Skipped++
				observability.RecordOutcome("skipped")
			default:
				stats.Synced++
				observability.RecordOutcome("synced")
			}
		}(emp)
	}
	wg.Wait()

	elapsed := time.Since(start)
	observability.RecordCycle(elapsed)
	logger.Info("Sync cycle complete.",
		"synced", stats.Synced,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", elapsed,
	)
	return stats
}

// Handle is a supervised, running scheduler owned by the process lifecycle.
type Handle struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Start launches the scheduler loop in the background and returns a handle
// for stopping it.
func (s *Scheduler) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		_ = s.Run(ctx)
	}()
	return h
}

// Stop cancels the loop and waits for it to finish. Safe to call repeatedly.
func (h *Handle) Stop() {
	h.stopOnce.Do(h.cancel)
	<-h.done
}

// Done is closed once the loop has fully stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
