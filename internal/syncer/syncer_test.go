package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"axis/internal/models"
	"axis/internal/store"
)

type fakeCalendar struct {
	events  []models.Event
	err     error
	calls   int
	lastMin time.Time
	lastMax time.Time
}

func (f *fakeCalendar) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]models.Event, error) {
	f.calls++
	f.lastMin = timeMin
	f.lastMax = timeMax
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

// countingStore wraps the in-memory store and counts writes, optionally
// failing them.
type countingStore struct {
	*store.Memory
	updates   int
	updateErr error
}

func (s *countingStore) UpdateFields(ctx context.Context, employeeID string, fields store.Fields) error {
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.Memory.UpdateFields(ctx, employeeID, fields)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedOne(t *testing.T, st store.Store, emp models.Employee) {
	t.Helper()
	if err := st.InsertMany(context.Background(), []models.Employee{emp}); err != nil {
		t.Fatalf("insert employee: %v", err)
	}
}

func nEvents(n int) []models.Event {
	events := make([]models.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, models.Event{
			ID:      fmt.Sprintf("ev-%d", i),
			Summary: fmt.Sprintf("Meeting %d", i),
			Start:   models.EventTime{DateTime: "2026-09-01T09:00:00Z"},
			End:     models.EventTime{DateTime: "2026-09-01T10:00:00Z"},
		})
	}
	return events
}

func TestReconcileSkipsWithoutCalendarEmail(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	cal := &fakeCalendar{}
	seedOne(t, st, models.Employee{EmployeeID: "AX-001", Name: "Alice 1"})

	r := NewReconciler(testLogger(), st, cal, 0)
	res, err := r.Reconcile(context.Background(), models.Employee{EmployeeID: "AX-001"})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if res.Outcome != OutcomeSkipped {
		t.Errorf("outcome = %v, want OutcomeSkipped", res.Outcome)
	}
	if cal.calls != 0 {
		t.Errorf("provider calls = %d, want 0", cal.calls)
	}
	if st.updates != 0 {
		t.Errorf("store writes = %d, want 0", st.updates)
	}
}

func TestReconcileSyncsTasksAndBurnout(t *testing.T) {
	tests := []struct {
		name       string
		eventCount int
		burnedOut  bool
	}{
		{"zero events", 0, false},
		{"at threshold", 5, false},
		{"above threshold", 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &countingStore{Memory: store.NewMemory()}
			cal := &fakeCalendar{events: nEvents(tt.eventCount)}
			emp := models.Employee{EmployeeID: "AX-001", Name: "Alice 1", CalendarEmail: "a@x.com"}
			seedOne(t, st, emp)

			r := NewReconciler(testLogger(), st, cal, 0)
			res, err := r.Reconcile(context.Background(), emp)
			if err != nil {
				t.Fatalf("reconcile: %v", err)
			}
			if res.Outcome != OutcomeSynced {
				t.Fatalf("outcome = %v, want OutcomeSynced", res.Outcome)
			}
			if res.TaskCount != tt.eventCount {
				t.Errorf("task count = %d, want %d", res.TaskCount, tt.eventCount)
			}

			got, err := st.FindOne(context.Background(), "AX-001")
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if len(got.Tasks) != tt.eventCount {
				t.Errorf("persisted tasks = %d, want %d", len(got.Tasks), tt.eventCount)
			}
			if got.IsBurnedOut != tt.burnedOut {
				t.Errorf("is_burned_out = %v, want %v", got.IsBurnedOut, tt.burnedOut)
			}
			if got.LastSynced == nil {
				t.Error("last_synced not set after successful sync")
			}
			if got.Name != "Alice 1" {
				t.Errorf("unrelated field clobbered: name = %q", got.Name)
			}
		})
	}
}

func TestReconcileTaskMapping(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	cal := &fakeCalendar{events: []models.Event{
		{ID: "ev-1", Summary: "Standup", Start: models.EventTime{DateTime: "2026-09-01T09:00:00Z"}, End: models.EventTime{DateTime: "2026-09-01T09:15:00Z"}},
		{ID: "ev-2", Start: models.EventTime{Date: "2026-09-01"}, End: models.EventTime{Date: "2026-09-02"}},
	}}
	emp := models.Employee{EmployeeID: "AX-001", CalendarEmail: "a@x.com"}
	seedOne(t, st, emp)

	r := NewReconciler(testLogger(), st, cal, 0)
	if _, err := r.Reconcile(context.Background(), emp); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	got, err := st.FindOne(context.Background(), "AX-001")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	want := []models.Task{
		{Title: "Standup", Start: "2026-09-01T09:00:00Z", End: "2026-09-01T09:15:00Z", Source: "google_calendar"},
		{Title: "No Title", Start: "2026-09-01", End: "2026-09-02", Source: "google_calendar"},
	}
	if len(got.Tasks) != len(want) {
		t.Fatalf("tasks = %d, want %d", len(got.Tasks), len(want))
	}
	for i := range want {
		if got.Tasks[i] != want[i] {
			t.Errorf("task[%d] = %+v, want %+v", i, got.Tasks[i], want[i])
		}
	}
}

func TestReconcileProviderErrorLeavesRecordUntouched(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	cal := &fakeCalendar{err: errors.New("auth expired")}
	synced := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	emp := models.Employee{
		EmployeeID:    "AX-001",
		CalendarEmail: "a@x.com",
		Tasks:         []models.Task{{Title: "Old", Source: "google_calendar"}},
		IsBurnedOut:   false,
		LastSynced:    &synced,
	}
	seedOne(t, st, emp)

	r := NewReconciler(testLogger(), st, cal, 0)
	_, err := r.Reconcile(context.Background(), emp)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var serr *SyncError
	if !errors.As(err, &serr) {
		t.Fatalf("error %T is not *SyncError", err)
	}
	if serr.EmployeeID != "AX-001" || serr.Stage != StageProvider {
		t.Errorf("SyncError = %+v, want employee AX-001 at provider stage", serr)
	}
	if st.updates != 0 {
		t.Errorf("store writes = %d, want 0", st.updates)
	}

	got, _ := st.FindOne(context.Background(), "AX-001")
	if len(got.Tasks) != 1 || got.Tasks[0].Title != "Old" {
		t.Errorf("tasks mutated on failure: %+v", got.Tasks)
	}
	if got.LastSynced == nil || !got.LastSynced.Equal(synced) {
		t.Errorf("last_synced mutated on failure: %v", got.LastSynced)
	}
}

func TestReconcileStoreError(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory(), updateErr: errors.New("connection reset")}
	cal := &fakeCalendar{events: nEvents(2)}
	emp := models.Employee{EmployeeID: "AX-001", CalendarEmail: "a@x.com"}
	seedOne(t, st, emp)

	r := NewReconciler(testLogger(), st, cal, 0)
	_, err := r.Reconcile(context.Background(), emp)

	var serr *SyncError
	if !errors.As(err, &serr) {
		t.Fatalf("error %T is not *SyncError", err)
	}
	if serr.Stage != StageStore {
		t.Errorf("stage = %q, want %q", serr.Stage, StageStore)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	cal := &fakeCalendar{events: nEvents(3)}
	emp := models.Employee{EmployeeID: "AX-001", CalendarEmail: "a@x.com"}
	seedOne(t, st, emp)

	r := NewReconciler(testLogger(), st, cal, 0)
	if _, err := r.Reconcile(context.Background(), emp); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	first, _ := st.FindOne(context.Background(), "AX-001")

	if _, err := r.Reconcile(context.Background(), emp); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	second, _ := st.FindOne(context.Background(), "AX-001")

	if len(first.Tasks) != len(second.Tasks) {
		t.Errorf("task count changed across identical syncs: %d vs %d", len(first.Tasks), len(second.Tasks))
	}
	for i := range first.Tasks {
		if first.Tasks[i] != second.Tasks[i] {
			t.Errorf("task[%d] changed across identical syncs", i)
		}
	}
	if first.IsBurnedOut != second.IsBurnedOut {
		t.Error("is_burned_out changed across identical syncs")
	}
}

func TestReconcileQueriesInclusiveDayWindow(t *testing.T) {
	st := &countingStore{Memory: store.NewMemory()}
	cal := &fakeCalendar{}
	emp := models.Employee{EmployeeID: "AX-001", CalendarEmail: "a@x.com"}
	seedOne(t, st, emp)

	r := NewReconciler(testLogger(), st, cal, 0)
	r.now = func() time.Time {
		return time.Date(2026, 9, 1, 15, 30, 45, 0, time.UTC)
	}
	if _, err := r.Reconcile(context.Background(), emp); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	wantMin := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	wantMax := time.Date(2026, 9, 1, 23, 59, 59, 0, time.UTC)
	if !cal.lastMin.Equal(wantMin) {
		t.Errorf("timeMin = %v, want %v", cal.lastMin, wantMin)
	}
	if !cal.lastMax.Equal(wantMax) {
		t.Errorf("timeMax = %v, want %v", cal.lastMax, wantMax)
	}
}

func TestDayWindow(t *testing.T) {
	// A non-UTC input must still produce the UTC calendar day.
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2026, 9, 1, 2, 0, 0, 0, loc) // 2026-08-31 21:00 UTC

	start, end := DayWindow(now)
	if got := start.Format(time.RFC3339); got != "2026-08-31T00:00:00Z" {
		t.Errorf("start = %s", got)
	}
	if got := end.Format(time.RFC3339); got != "2026-08-31T23:59:59Z" {
		t.Errorf("end = %s", got)
	}
	if !strings.HasSuffix(end.Format(time.RFC3339), "Z") {
		t.Error("window bounds must be Z-normalized RFC3339")
	}
}
