// Package syncer implements per-employee calendar reconciliation: it fetches
// the employee's same-day events from the calendar provider, rebuilds the
// task snapshot list, recomputes the burnout flag and persists the result in
// one atomic partial update.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"axis/internal/models"
	"axis/internal/store"
)

// Calendar is the slice of the calendar provider the reconciler consumes.
type Calendar interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]models.Event, error)
}

// Outcome classifies a successful reconciliation.
type Outcome int

const (
	// OutcomeSynced means events were fetched and the record was updated.
	OutcomeSynced Outcome = iota
	// OutcomeSkipped means the employee has no calendar email and nothing
	// was fetched or written.
	OutcomeSkipped
)

// Result reports what a successful Reconcile did.
type Result struct {
	Outcome   Outcome
	TaskCount int
}

// Stages at which a reconciliation can fail.
const (
	StageProvider = "provider"
	StageStore    = "store"
)

// SyncError is a reconciliation failure for one employee. It never affects
// any other employee's reconciliation.
type SyncError struct {
	EmployeeID string
	Stage      string
	Err        error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s failed at %s stage: %v", e.EmployeeID, e.Stage, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Reconciler syncs one employee at a time against the calendar provider.
type Reconciler struct {
	logger          *slog.Logger
	store           store.Store
	calendar        Calendar
	providerTimeout time.Duration
	now             func() time.Time
}

// NewReconciler creates a Reconciler. providerTimeout bounds each provider
// call independently so one hanging call cannot stall a whole cycle;
// zero disables the bound.
func NewReconciler(logger *slog.Logger, st store.Store, cal Calendar, providerTimeout time.Duration) *Reconciler {
	return &Reconciler{
		logger:          logger,
		store:           st,
		calendar:        cal,
		providerTimeout: providerTimeout,
		now:             time.Now,
	}
}

// Reconcile fetches today's events for one employee and persists the derived
// state. On any error the employee's record is left untouched: the single
// store write only happens after every prior step succeeded.
func (r *Reconciler) Reconcile(ctx context.Context, emp models.Employee) (Result, error) {
	if emp.CalendarEmail == "" {
		r.logger.Info("Skipping employee without calendar email", "employeeID", emp.EmployeeID)
		return Result{Outcome: OutcomeSkipped}, nil
	}

	now := r.now().UTC()
	dayStart, dayEnd := DayWindow(now)

	callCtx := ctx
	if r.providerTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.providerTimeout)
		defer cancel()
	}

	events, err := r.calendar.ListEvents(callCtx, emp.CalendarEmail, dayStart, dayEnd)
	if err != nil {
		serr := &SyncError{EmployeeID: emp.EmployeeID, Stage: StageProvider, Err: err}
		r.logger.Error("Failed to fetch employee events", "employeeID", emp.EmployeeID, "error", err)
		return Result{}, serr
	}

	tasks := tasksFromEvents(events)
	isBurnedOut := models.BurnedOut(len(tasks))

	fields := store.Fields{
		store.FieldTasks:       tasks,
		store.FieldIsBurnedOut: isBurnedOut,
		store.FieldLastSynced:  now,
	}
	if err := r.store.UpdateFields(ctx, emp.EmployeeID, fields); err != nil {
		serr := &SyncError{EmployeeID: emp.EmployeeID, Stage: StageStore, Err: err}
		r.logger.Error("Failed to persist sync result", "employeeID", emp.EmployeeID, "error", err)
		return Result{}, serr
	}

	r.logger.Info("Synced employee calendar",
		"employeeID", emp.EmployeeID, "tasks", len(tasks), "burnedOut", isBurnedOut)
	return Result{Outcome: OutcomeSynced, TaskCount: len(tasks)}, nil
}

// DayWindow returns the UTC calendar day covering now. The end bound is the
// last second of the day (23:59:59), inclusive, matching the provider's
// inclusive range semantics; it is not the next midnight.
func DayWindow(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end = start.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return start, end
}

// tasksFromEvents maps provider events into task snapshots. Events without a
// summary get a fixed placeholder title; all-day events fall back from the
// date-time bound to the bare date.
func tasksFromEvents(events []models.Event) []models.Task {
	tasks := make([]models.Task, 0, len(events))
	for _, ev := range events {
		title := ev.Summary
		if title == "" {
			title = "No Title"
		}
		tasks = append(tasks, models.Task{
			Title:  title,
			Start:  ev.Start.Value(),
			End:    ev.End.Value(),
			Source: models.TaskSource,
		})
	}
	return tasks
}
