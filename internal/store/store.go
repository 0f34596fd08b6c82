package store

import (
	"context"
	"errors"

	"axis/internal/models"
)

// ErrNotFound is returned when no employee matches the requested id.
var ErrNotFound = errors.New("employee not found")

// Field names accepted by UpdateFields. The reconciler owns the derived
// fields; identity fields are reserved for administrative writes.
const (
	FieldTasks         = "tasks"
	FieldIsBurnedOut   = "is_burned_out"
	FieldLastSynced    = "last_synced"
	FieldName          = "name"
	FieldRole          = "role"
	FieldCalendarEmail = "calendar_email"
)

// Fields is a partial update: only the named fields are written, everything
// else on the record is left untouched.
type Fields map[string]any

// Filter narrows FindMany. The zero value matches every employee.
type Filter struct {
	// BurnedOut, when non-nil, matches only employees whose is_burned_out
	// flag equals the pointed-to value.
	BurnedOut *bool
}

// Store is the directory of employee records. Implementations must apply
// UpdateFields atomically per employee.
type Store interface {
	// FindOne returns the employee with the given id, or ErrNotFound.
	FindOne(ctx context.Context, employeeID string) (*models.Employee, error)

	// FindMany lists employees matching the filter in stable order,
	// skipping the first skip records. limit <= 0 means no limit.
	FindMany(ctx context.Context, filter Filter, skip, limit int) ([]models.Employee, error)

	// UpdateFields atomically sets the given fields on one employee
	// record, leaving all other fields intact.
	UpdateFields(ctx context.Context, employeeID string, fields Fields) error

	// InsertMany inserts new employee records. Used by provisioning only.
	InsertMany(ctx context.Context, employees []models.Employee) error
}
