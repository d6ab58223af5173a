// Package attendance resolves raw clock-in/clock-out logs into per-day and
// per-period working-time totals. It uses the engine primitives for clock
// parsing and calendar math; nothing in this package performs I/O.
package attendance

import (
	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// ATTENDANCE DAY - One input row, parsed
// =============================================================================

// Day is one employee-day of the attendance log. A Day is created once per
// input row and never mutated. A missing or unparsed clock time leaves the
// day incomplete; incomplete days are excluded from totals rather than
// treated as zero hours.
type Day struct {
	EmployeeID string
	Date       engine.Date
	TimeIn     engine.TimeOfDay
	TimeOut    engine.TimeOfDay
}

// IsComplete reports whether both clock times parsed.
func (d Day) IsComplete() bool {
	return d.TimeIn.IsValid() && d.TimeOut.IsValid()
}

// =============================================================================
// DAILY RESULT - Derived, never stored
// =============================================================================

// DailyResult is the attendance-policy outcome for one complete day. It is
// recomputed from a Day each time it's needed; there is no cache.
type DailyResult struct {
	HoursWorked      engine.Amount // capped regular hours
	OvertimeHours    engine.Amount // zero whenever IsLate
	LateMinutes      int
	UndertimeMinutes int
	IsLate           bool
	IsUndertime      bool

	// Invalid marks a day whose clock-out precedes its clock-in. Overnight
	// shifts are unsupported; such a day contributes zero hours.
	Invalid bool
}

// =============================================================================
// PERIOD TOTALS - Sum of daily results over a cutoff window
// =============================================================================

// PeriodTotals aggregates DailyResults for one employee over a pay period.
type PeriodTotals struct {
	HoursWorked      engine.Amount
	OvertimeHours    engine.Amount
	LateMinutes      int
	UndertimeMinutes int
	IsLateAnyDay     bool
	HasUnpaidAbsence bool

	// ExpectedHours is working days in the period x standard hours per day.
	// The processor uses it to derive unpaid absent days.
	ExpectedHours engine.Amount

	// DaysPresent counts complete days that entered the totals.
	DaysPresent int
}

// WeekTotals is one calendar week's subtotal, for reporting.
type WeekTotals struct {
	Year             int
	Week             int
	HoursWorked      engine.Amount
	OvertimeHours    engine.Amount
	LateMinutes      int
	UndertimeMinutes int
	DaysPresent      int
}

// =============================================================================
// ABSENCE CLASSIFICATION - External collaborator
// =============================================================================

// AbsenceClassifier is supplied by an external leave/absence tracker. It
// decides whether an attendance gap in a period is an unpaid absence.
// When no classifier is available the engine must not silently assume
// unpaid; use NoAbsenceData.
type AbsenceClassifier interface {
	IsUnpaidGap(employeeID string, period engine.PayPeriod) bool
}

// NoAbsenceData is the classifier used when no absence records exist.
// It never marks a gap unpaid.
type NoAbsenceData struct{}

func (NoAbsenceData) IsUnpaidGap(string, engine.PayPeriod) bool { return false }
