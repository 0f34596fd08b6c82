package models

import (
	"fmt"
	"strings"
	"time"
)

// BurnoutThreshold is the number of same-day tasks above which an employee
// is flagged as burned out.
const BurnoutThreshold = 5

// TaskSource tags tasks produced from Google Calendar events.
const TaskSource = "google_calendar"

// Employee is a tracked employee record as persisted in the directory store.
// Identity fields (EmployeeID, Name, Role, CalendarEmail) are owned by
// provisioning; Tasks, IsBurnedOut and LastSynced are owned by the reconciler
// and rewritten wholesale on every successful sync.
type Employee struct {
	EmployeeID    string     `json:"employee_id" bson:"employee_id"`
	Name          string     `json:"name" bson:"name"`
	Role          string     `json:"role" bson:"role"`
	CalendarEmail string     `json:"calendar_email,omitempty" bson:"calendar_email,omitempty"`
	Tasks         []Task     `json:"tasks" bson:"tasks"`
	IsBurnedOut   bool       `json:"is_burned_out" bson:"is_burned_out"`
	LastSynced    *time.Time `json:"last_synced" bson:"last_synced"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
}

// Task is a snapshot of one calendar event for one sync cycle. Start and End
// carry the provider's RFC3339 date-time, or the bare all-day date when the
// event has no time component.
type Task struct {
	Title  string `json:"title" bson:"title"`
	Start  string `json:"start" bson:"start"`
	End    string `json:"end" bson:"end"`
	Source string `json:"source" bson:"source"`
}

// BurnedOut reports whether a task count exceeds the burnout threshold.
func BurnedOut(taskCount int) bool {
	return taskCount > BurnoutThreshold
}

// AvatarURL returns the display avatar for an employee, templated from the
// stable employee id so it survives pagination and reordering.
func AvatarURL(employeeID string) string {
	return fmt.Sprintf("https://i.pravatar.cc/150?u=%s", employeeID)
}

// skillsByRole is the static role→skills table used to derive display
// skills. Skills are never persisted.
var skillsByRole = map[string][]string{
	"Backend Engineer":  {"Go", "Python", "SQL", "API Design", "Testing"},
	"Frontend Engineer": {"JavaScript", "React", "TypeScript", "CSS", "Accessibility"},
	"Product Manager":   {"Planning", "Communication", "Agile", "Strategy", "Mentoring"},
	"Designer":          {"UI/UX", "Figma", "Prototyping", "Web Design", "Branding"},
	"DevOps Engineer":   {"CI/CD", "Docker", "Kubernetes", "Terraform", "Monitoring"},
	"QA Engineer":       {"Testing", "Automation", "Bug Detection", "API Testing", "Debugging"},
	"Data Analyst":      {"SQL", "Python", "Visualization", "Statistics", "Reporting"},
}

// SkillsForRole returns the mock skill list for a role. Unknown roles get no
// skills rather than an error; the table is display-only.
func SkillsForRole(role string) []string {
	return skillsByRole[role]
}

// HasSkill reports whether a role's derived skill list contains the given
// skill, case-insensitively.
func HasSkill(role, skill string) bool {
	for _, s := range SkillsForRole(role) {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}
