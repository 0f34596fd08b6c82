package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"axis/internal/models"
)

func seedMemory(t *testing.T, employees ...models.Employee) *Memory {
	t.Helper()
	m := NewMemory()
	if err := m.InsertMany(context.Background(), employees); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return m
}

func TestMemoryFindOne(t *testing.T) {
	m := seedMemory(t, models.Employee{EmployeeID: "AX-001", Name: "Alice 1"})

	emp, err := m.FindOne(context.Background(), "AX-001")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if emp.Name != "Alice 1" {
		t.Errorf("name = %q", emp.Name)
	}

	if _, err := m.FindOne(context.Background(), "AX-999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryFindManyPaginationAndFilter(t *testing.T) {
	m := seedMemory(t,
		models.Employee{EmployeeID: "AX-001"},
		models.Employee{EmployeeID: "AX-002", IsBurnedOut: true},
		models.Employee{EmployeeID: "AX-003"},
		models.Employee{EmployeeID: "AX-004"},
	)

	all, err := m.FindMany(context.Background(), Filter{}, 0, 0)
	if err != nil {
		t.Fatalf("find many: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("all = %d, want 4", len(all))
	}

	page, err := m.FindMany(context.Background(), Filter{}, 1, 2)
	if err != nil {
		t.Fatalf("find many: %v", err)
	}
	if len(page) != 2 || page[0].EmployeeID != "AX-002" || page[1].EmployeeID != "AX-003" {
		t.Errorf("page = %+v, want AX-002 and AX-003", page)
	}

	notBurned := false
	healthy, err := m.FindMany(context.Background(), Filter{BurnedOut: &notBurned}, 0, 0)
	if err != nil {
		t.Fatalf("find many: %v", err)
	}
	if len(healthy) != 3 {
		t.Errorf("healthy = %d, want 3", len(healthy))
	}
	for _, emp := range healthy {
		if emp.IsBurnedOut {
			t.Errorf("burned-out employee %s in filtered result", emp.EmployeeID)
		}
	}

	past, err := m.FindMany(context.Background(), Filter{}, 10, 0)
	if err != nil {
		t.Fatalf("find many: %v", err)
	}
	if len(past) != 0 {
		t.Errorf("skip past end = %d records, want 0", len(past))
	}
}

func TestMemoryUpdateFieldsPartial(t *testing.T) {
	m := seedMemory(t, models.Employee{
		EmployeeID:    "AX-001",
		Name:          "Alice 1",
		Role:          "Backend Engineer",
		CalendarEmail: "a@x.com",
	})

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	err := m.UpdateFields(context.Background(), "AX-001", Fields{
		FieldTasks:       []models.Task{{Title: "Standup", Source: "google_calendar"}},
		FieldIsBurnedOut: false,
		FieldLastSynced:  now,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	emp, _ := m.FindOne(context.Background(), "AX-001")
	if len(emp.Tasks) != 1 || emp.LastSynced == nil || !emp.LastSynced.Equal(now) {
		t.Errorf("derived fields not applied: %+v", emp)
	}
	if emp.Name != "Alice 1" || emp.Role != "Backend Engineer" || emp.CalendarEmail != "a@x.com" {
		t.Errorf("unrelated fields clobbered: %+v", emp)
	}
}

func TestMemoryUpdateFieldsRejectsUnknownKey(t *testing.T) {
	m := seedMemory(t, models.Employee{EmployeeID: "AX-001", Name: "Alice 1"})

	err := m.UpdateFields(context.Background(), "AX-001", Fields{
		FieldName: "Renamed",
		"skills":  []string{"Go"},
	})
	if err == nil {
		t.Fatal("expected error for unknown field")
	}

	// The bad update must be all-or-nothing.
	emp, _ := m.FindOne(context.Background(), "AX-001")
	if emp.Name != "Alice 1" {
		t.Errorf("name = %q, partial update applied", emp.Name)
	}
}

func TestMemoryUpdateFieldsUnknownEmployee(t *testing.T) {
	m := NewMemory()
	err := m.UpdateFields(context.Background(), "AX-404", Fields{FieldName: "Ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryInsertManyRejectsDuplicates(t *testing.T) {
	m := seedMemory(t, models.Employee{EmployeeID: "AX-001"})

	err := m.InsertMany(context.Background(), []models.Employee{{EmployeeID: "AX-001"}})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := seedMemory(t, models.Employee{
		EmployeeID: "AX-001",
		Tasks:      []models.Task{{Title: "Original"}},
	})

	emp, _ := m.FindOne(context.Background(), "AX-001")
	emp.Tasks[0].Title = "Mutated"

	again, _ := m.FindOne(context.Background(), "AX-001")
	if again.Tasks[0].Title != "Original" {
		t.Error("caller mutation leaked into the store")
	}
}
