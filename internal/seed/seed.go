// Package seed provisions the employee directory with an initial dataset.
package seed

import (
	"fmt"
	"time"

	"axis/internal/models"
)

// DefaultCount matches the production seed dataset size.
const DefaultCount = 90

var roles = []string{
	"Backend Engineer",
	"Frontend Engineer",
	"Product Manager",
	"Designer",
	"DevOps Engineer",
	"QA Engineer",
	"Data Analyst",
}

var firstNames = []string{
	"Alice", "Bob", "Charlie", "David", "Emma", "Frank", "Grace", "Hannah",
	"Isaac", "Jack", "Karen", "Leo", "Mia", "Nathan", "Olivia", "Paul",
	"Quinn", "Rachel", "Sam", "Tina", "Uma", "Victor", "Wendy", "Xavier",
	"Yara", "Zane",
}

// Employees generates count deterministic employee records (AX-001, AX-002,
// ...). Every record starts unsynced: empty task list, not burned out, no
// last_synced timestamp. calendarEmail may be empty, which exempts the
// records from calendar sync.
func Employees(count int, calendarEmail string, now time.Time) []models.Employee {
	employees := make([]models.Employee, 0, count)
	for i := 1; i <= count; i++ {
		employees = append(employees, models.Employee{
			EmployeeID:    fmt.Sprintf("AX-%03d", i),
			Name:          fmt.Sprintf("%s %d", firstNames[(i-1)%len(firstNames)], i),
			Role:          roles[(i-1)%len(roles)],
			CalendarEmail: calendarEmail,
			Tasks:         []models.Task{},
			IsBurnedOut:   false,
			LastSynced:    nil,
			CreatedAt:     now.UTC(),
		})
	}
	return employees
}
