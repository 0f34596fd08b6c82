package seed

import (
	"testing"
	"time"
)

func TestEmployeesAreDeterministicAndUnsynced(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	employees := Employees(90, "cal@example.com", now)

	if len(employees) != 90 {
		t.Fatalf("count = %d, want 90", len(employees))
	}
	if employees[0].EmployeeID != "AX-001" || employees[89].EmployeeID != "AX-090" {
		t.Errorf("id range = %s..%s", employees[0].EmployeeID, employees[89].EmployeeID)
	}

	seen := make(map[string]bool)
	for _, emp := range employees {
		if seen[emp.EmployeeID] {
			t.Fatalf("duplicate id %s", emp.EmployeeID)
		}
		seen[emp.EmployeeID] = true

		if emp.IsBurnedOut || emp.LastSynced != nil || len(emp.Tasks) != 0 {
			t.Errorf("%s not in unsynced initial state", emp.EmployeeID)
		}
		if emp.Role == "" || emp.Name == "" {
			t.Errorf("%s missing identity fields", emp.EmployeeID)
		}
		if emp.CalendarEmail != "cal@example.com" {
			t.Errorf("%s calendar email = %q", emp.EmployeeID, emp.CalendarEmail)
		}
	}

	again := Employees(90, "cal@example.com", now)
	for i := range employees {
		if employees[i].Name != again[i].Name || employees[i].Role != again[i].Role {
			t.Fatal("seed data is not deterministic")
		}
	}
}
