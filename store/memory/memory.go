/*
Package memory provides a map-backed implementation of the storage
interfaces, used by tests and demo setups. Not durable.
*/
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/engine"
	"github.com/motorph/payroll-engine/payroll"
	"github.com/motorph/payroll-engine/store"
)

// Store implements store.Store with in-memory maps. Safe for concurrent
// use.
type Store struct {
	mu        sync.RWMutex
	employees map[string]store.Employee
	// attendance days keyed by employee, then by date string, so a
	// re-import upserts instead of duplicating the day
	days map[string]map[string]attendance.Day
	runs map[string]payroll.Run
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		employees: make(map[string]store.Employee),
		days:      make(map[string]map[string]attendance.Day),
		runs:      make(map[string]payroll.Run),
	}
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (s *Store) SaveEmployee(_ context.Context, emp store.Employee) error {
	if emp.ID == "" {
		return fmt.Errorf("employee id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[emp.ID] = emp
	return nil
}

func (s *Store) GetEmployee(_ context.Context, id string) (store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emp, ok := s.employees[id]
	if !ok {
		return store.Employee{}, fmt.Errorf("employee %s: %w", id, engine.ErrEmployeeNotFound)
	}
	return emp, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	employees := make([]store.Employee, 0, len(s.employees))
	for _, emp := range s.employees {
		employees = append(employees, emp)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, nil
}

func (s *Store) ListProfiles(ctx context.Context) ([]payroll.RateProfile, error) {
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]payroll.RateProfile, 0, len(employees))
	for _, emp := range employees {
		profiles = append(profiles, emp.Profile)
	}
	return profiles, nil
}

func (s *Store) Profile(ctx context.Context, id string) (payroll.RateProfile, error) {
	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return payroll.RateProfile{}, err
	}
	return emp.Profile, nil
}

// =============================================================================
// ATTENDANCE STORE
// =============================================================================

func (s *Store) SaveDays(_ context.Context, days []attendance.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, day := range days {
		if day.EmployeeID == "" || day.Date.IsZero() {
			return fmt.Errorf("attendance day needs employee id and date")
		}
		byDate, ok := s.days[day.EmployeeID]
		if !ok {
			byDate = make(map[string]attendance.Day)
			s.days[day.EmployeeID] = byDate
		}
		byDate[day.Date.String()] = day
	}
	return nil
}

func (s *Store) DaysInPeriod(ctx context.Context, employeeID string, period engine.PayPeriod) ([]attendance.Day, error) {
	return s.DaysInRange(ctx, employeeID, period.Start, period.End)
}

func (s *Store) DaysInRange(_ context.Context, employeeID string, from, to engine.Date) ([]attendance.Day, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var days []attendance.Day
	for _, day := range s.days[employeeID] {
		if day.Date.AfterOrEqual(from) && day.Date.BeforeOrEqual(to) {
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}

// =============================================================================
// RUN STORE
// =============================================================================

func (s *Store) SaveRun(_ context.Context, run payroll.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *Store) GetRun(_ context.Context, id string) (payroll.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return payroll.Run{}, fmt.Errorf("payroll run %s: %w", id, engine.ErrRunNotFound)
	}
	return run, nil
}

func (s *Store) ListRuns(_ context.Context) ([]payroll.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]payroll.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.Before(runs[j].CreatedAt) })
	return runs, nil
}
