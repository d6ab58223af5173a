package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/engine"
	"github.com/motorph/payroll-engine/payroll"
	"github.com/motorph/payroll-engine/store"
	"github.com/motorph/payroll-engine/store/memory"
)

func day(id string, date engine.Date) attendance.Day {
	return attendance.Day{
		EmployeeID: id,
		Date:       date,
		TimeIn:     engine.ClockTime(8, 0),
		TimeOut:    engine.ClockTime(17, 0),
	}
}

func TestEmployees_RoundTripAndNotFound(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	emp := store.Employee{
		ID: "10001", LastName: "Garcia", FirstName: "Maria",
		Profile: payroll.RateProfile{EmployeeID: "10001", HourlyRate: engine.Pesos(100)},
	}
	require.NoError(t, st.SaveEmployee(ctx, emp))

	got, err := st.GetEmployee(ctx, "10001")
	require.NoError(t, err)
	assert.Equal(t, emp, got)

	_, err = st.GetEmployee(ctx, "10002")
	assert.True(t, engine.IsNotFound(err))

	assert.Error(t, st.SaveEmployee(ctx, store.Employee{}))
}

func TestListEmployees_SortedByID(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	for _, id := range []string{"10003", "10001", "10002"} {
		require.NoError(t, st.SaveEmployee(ctx, store.Employee{ID: id}))
	}

	employees, err := st.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 3)
	assert.Equal(t, "10001", employees[0].ID)
	assert.Equal(t, "10003", employees[2].ID)
}

func TestSaveDays_ReimportUpserts(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	date := engine.NewDate(2024, time.June, 13)

	require.NoError(t, st.SaveDays(ctx, []attendance.Day{day("10001", date)}))

	// a corrected re-import for the same date replaces the first row
	corrected := day("10001", date)
	corrected.TimeOut = engine.ClockTime(18, 0)
	require.NoError(t, st.SaveDays(ctx, []attendance.Day{corrected}))

	days, err := st.DaysInRange(ctx, "10001", date, date)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "18:00", days[0].TimeOut.String())
}

func TestDaysInRange_FiltersAndSorts(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	require.NoError(t, st.SaveDays(ctx, []attendance.Day{
		day("10001", engine.NewDate(2024, time.June, 20)),
		day("10001", engine.NewDate(2024, time.June, 13)),
		day("10001", engine.NewDate(2024, time.June, 30)), // outside the range
		day("10002", engine.NewDate(2024, time.June, 14)), // other employee
	}))

	days, err := st.DaysInRange(ctx, "10001",
		engine.NewDate(2024, time.June, 13), engine.NewDate(2024, time.June, 26))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-06-13", days[0].Date.String())
	assert.Equal(t, "2024-06-20", days[1].Date.String())
}

func TestRuns_RoundTripAndNotFound(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	period, err := engine.PeriodFor(2024, time.June, engine.MidMonth)
	require.NoError(t, err)

	run := payroll.Run{ID: "run-1", Period: period, CreatedAt: time.Now()}
	require.NoError(t, st.SaveRun(ctx, run))

	got, err := st.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)

	_, err = st.GetRun(ctx, "run-2")
	assert.True(t, engine.IsNotFound(err))

	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
