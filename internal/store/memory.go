package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"axis/internal/models"
)

// Memory is an in-process Store with the same semantics as the Mongo
// implementation. It is used by tests and for local runs without a database.
type Memory struct {
	mu    sync.RWMutex
	byID  map[string]models.Employee
	order []string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]models.Employee)}
}

func (m *Memory) FindOne(ctx context.Context, employeeID string) (*models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.byID[employeeID]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneEmployee(emp)
	return &out, nil
}

func (m *Memory) FindMany(ctx context.Context, filter Filter, skip, limit int) ([]models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]models.Employee, 0, len(m.order))
	for _, id := range m.order {
		emp := m.byID[id]
		if filter.BurnedOut != nil && emp.IsBurnedOut != *filter.BurnedOut {
			continue
		}
		matched = append(matched, cloneEmployee(emp))
	}

	if skip >= len(matched) {
		return []models.Employee{}, nil
	}
	matched = matched[skip:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *Memory) UpdateFields(ctx context.Context, employeeID string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	emp, ok := m.byID[employeeID]
	if !ok {
		return ErrNotFound
	}

	// Validate every key before touching the record so a bad update is
	// all-or-nothing, matching the Mongo $set contract.
	for key := range fields {
		switch key {
		case FieldTasks, FieldIsBurnedOut, FieldLastSynced, FieldName, FieldRole, FieldCalendarEmail:
		default:
			return fmt.Errorf("update of unknown field %q", key)
		}
	}

	for key, value := range fields {
		switch key {
		case FieldTasks:
			tasks, ok := value.([]models.Task)
			if !ok {
				return fmt.Errorf("field %q: expected []models.Task, got %T", key, value)
			}
			emp.Tasks = append([]models.Task(nil), tasks...)
		case FieldIsBurnedOut:
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("field %q: expected bool, got %T", key, value)
			}
			emp.IsBurnedOut = b
		case FieldLastSynced:
			t, ok := value.(time.Time)
			if !ok {
				return fmt.Errorf("field %q: expected time.Time, got %T", key, value)
			}
			emp.LastSynced = &t
		case FieldName:
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("field %q: expected string, got %T", key, value)
			}
			emp.Name = s
		case FieldRole:
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("field %q: expected string, got %T", key, value)
			}
			emp.Role = s
		case FieldCalendarEmail:
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("field %q: expected string, got %T", key, value)
			}
			emp.CalendarEmail = s
		}
	}

	m.byID[employeeID] = emp
	return nil
}

func (m *Memory) InsertMany(ctx context.Context, employees []models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, emp := range employees {
		if _, exists := m.byID[emp.EmployeeID]; exists {
			return fmt.Errorf("duplicate employee_id %q", emp.EmployeeID)
		}
	}
	for _, emp := range employees {
		m.byID[emp.EmployeeID] = cloneEmployee(emp)
		m.order = append(m.order, emp.EmployeeID)
	}
	return nil
}

// cloneEmployee deep-copies the mutable slices so callers never share state
// with the store.
func cloneEmployee(emp models.Employee) models.Employee {
	if emp.Tasks != nil {
		emp.Tasks = append([]models.Task(nil), emp.Tasks...)
	}
	if emp.LastSynced != nil {
		t := *emp.LastSynced
		emp.LastSynced = &t
	}
	return emp
}
