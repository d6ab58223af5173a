/*
Package store defines the persistence interfaces for employees,
attendance days, and payroll runs, plus the record types they exchange.

PURPOSE:
  The computation packages (attendance, deduction, payroll) are pure and
  storage-free; everything the HTTP layer persists goes through the
  interfaces here. Two implementations ship: an in-memory store for tests
  and demos (store/memory) and a SQLite store for real deployments
  (store/sqlite).

NOT-FOUND SEMANTICS:
  Lookups for missing records return errors wrapping
  engine.ErrEmployeeNotFound / engine.ErrRunNotFound so callers can map
  them to 404s without string matching.

SEE ALSO:
  - store/memory: map-backed implementation
  - store/sqlite: SQLite-backed implementation
*/
package store

import (
	"context"

	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/engine"
	"github.com/motorph/payroll-engine/payroll"
)

// Employee is the persisted employee record: identity plus the rate
// profile payroll computes from.
type Employee struct {
	ID        string
	LastName  string
	FirstName string
	Position  string
	Profile   payroll.RateProfile
}

// EmployeeStore persists employee records. ListProfiles and Profile make
// every implementation a payroll.EmployeeSource.
type EmployeeStore interface {
	SaveEmployee(ctx context.Context, emp Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	ListProfiles(ctx context.Context) ([]payroll.RateProfile, error)
	Profile(ctx context.Context, id string) (payroll.RateProfile, error)
}

// AttendanceStore persists attendance days. SaveDays upserts on
// (employee, date): re-importing a corrected export replaces the old
// rows. DaysInPeriod makes every implementation a payroll.AttendanceSource.
type AttendanceStore interface {
	SaveDays(ctx context.Context, days []attendance.Day) error
	DaysInPeriod(ctx context.Context, employeeID string, period engine.PayPeriod) ([]attendance.Day, error)
	DaysInRange(ctx context.Context, employeeID string, from, to engine.Date) ([]attendance.Day, error)
}

// RunStore persists completed batch payroll runs.
type RunStore interface {
	SaveRun(ctx context.Context, run payroll.Run) error
	GetRun(ctx context.Context, id string) (payroll.Run, error)
	ListRuns(ctx context.Context) ([]payroll.Run, error)
}

// Store is the full persistence surface the server wires up.
type Store interface {
	EmployeeStore
	AttendanceStore
	RunStore
}
