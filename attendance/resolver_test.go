package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func workday(in, out engine.TimeOfDay) attendance.Day {
	return attendance.Day{
		EmployeeID: "10001",
		Date:       engine.NewDate(2024, time.June, 3), // a Monday
		TimeIn:     in,
		TimeOut:    out,
	}
}

func clock(h, m int) engine.TimeOfDay { return engine.ClockTime(h, m) }

func assertHours(t *testing.T, want float64, got engine.Amount) {
	t.Helper()
	assert.True(t, got.Value.Equal(engine.Hours(want).Value),
		"want %.2f hours, got %s", want, got.Value)
}

// =============================================================================
// DAILY RESOLUTION
// =============================================================================

func TestResolve_FullDayCapsAtRegularHours(t *testing.T) {
	// GIVEN: a standard 08:00-17:00 day
	// WHEN: resolved under the default policy
	// THEN: the 9-hour span caps at 8.0 regular hours, nothing else flagged

	r := attendance.NewResolver(attendance.DefaultPolicy())
	result := r.Resolve(workday(clock(8, 0), clock(17, 0)))

	assertHours(t, 8, result.HoursWorked)
	assertHours(t, 0, result.OvertimeHours)
	assert.False(t, result.IsLate)
	assert.False(t, result.IsUndertime)
	assert.Zero(t, result.LateMinutes)
	assert.Zero(t, result.UndertimeMinutes)
}

func TestResolve_ArrivalInsideGraceIsNotLate(t *testing.T) {
	r := attendance.NewResolver(attendance.DefaultPolicy())

	// 08:10 exactly is the last on-time arrival
	result := r.Resolve(workday(clock(8, 10), clock(17, 0)))
	assert.False(t, result.IsLate)
	assert.Zero(t, result.LateMinutes)

	// one minute later is late, counted from the grace end
	result = r.Resolve(workday(clock(8, 11), clock(17, 0)))
	assert.True(t, result.IsLate)
	assert.Equal(t, 1, result.LateMinutes)
}

func TestResolve_LateArrivalForfeitsOvertime(t *testing.T) {
	// GIVEN: arrival at 08:15 (late) and departure at 17:30
	// WHEN: resolved
	// THEN: 5 late minutes, worked span capped at the standard end so the
	//       day still reaches 8.0 hours, and the 30 overtime minutes are
	//       forfeited

	r := attendance.NewResolver(attendance.DefaultPolicy())
	result := r.Resolve(workday(clock(8, 15), clock(17, 30)))

	assert.True(t, result.IsLate)
	assert.Equal(t, 5, result.LateMinutes)
	assertHours(t, 8, result.HoursWorked)
	assertHours(t, 0, result.OvertimeHours)
	assert.False(t, result.IsUndertime)
}

func TestResolve_OnTimeDepartureAfterEndEarnsOvertime(t *testing.T) {
	r := attendance.NewResolver(attendance.DefaultPolicy())
	result := r.Resolve(workday(clock(8, 0), clock(19, 0)))

	assert.False(t, result.IsLate)
	assertHours(t, 8, result.HoursWorked)
	assertHours(t, 2, result.OvertimeHours)
}

func TestResolve_EarlyDepartureIsUndertime(t *testing.T) {
	r := attendance.NewResolver(attendance.DefaultPolicy())
	result := r.Resolve(workday(clock(8, 0), clock(16, 0)))

	assert.True(t, result.IsUndertime)
	assert.Equal(t, 60, result.UndertimeMinutes)
	assertHours(t, 8, result.HoursWorked) // 480 raw minutes still reach the cap
	assertHours(t, 0, result.OvertimeHours)
}

func TestResolve_LateAndUndertimeTogether(t *testing.T) {
	r := attendance.NewResolver(attendance.DefaultPolicy())
	result := r.Resolve(workday(clock(9, 0), clock(16, 30)))

	assert.True(t, result.IsLate)
	assert.Equal(t, 50, result.LateMinutes)
	assert.True(t, result.IsUndertime)
	assert.Equal(t, 30, result.UndertimeMinutes)
	assertHours(t, 7.5, result.HoursWorked)
}

func TestResolve_LunchDeductionVariant(t *testing.T) {
	// GIVEN: a policy with the one-hour lunch deduction enabled
	// WHEN: the raw span reaches the five-hour threshold
	// THEN: the lunch hour comes off before the cap

	policy := attendance.DefaultPolicy()
	policy.LunchMinutes = 60
	r := attendance.NewResolver(policy)

	result := r.Resolve(workday(clock(8, 0), clock(16, 0)))
	assertHours(t, 7, result.HoursWorked)

	// below the threshold nothing is deducted
	result = r.Resolve(workday(clock(8, 0), clock(12, 0)))
	assertHours(t, 4, result.HoursWorked)
}

func TestResolve_IncompleteDayIsZero(t *testing.T) {
	r := attendance.NewResolver(attendance.DefaultPolicy())

	result := r.Resolve(workday(clock(8, 0), engine.TimeOfDay{}))
	assert.False(t, result.Invalid)
	assertHours(t, 0, result.HoursWorked)
	assert.Zero(t, result.LateMinutes)
}

func TestResolve_ClockOutBeforeClockInIsInvalid(t *testing.T) {
	r := attendance.NewResolver(attendance.DefaultPolicy())

	result := r.Resolve(workday(clock(17, 0), clock(8, 0)))
	require.True(t, result.Invalid)
	assertHours(t, 0, result.HoursWorked)
}
