package attendance_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// ROW PARSING
// =============================================================================

func TestParseRow_MixedClockFormats(t *testing.T) {
	day, err := attendance.ParseRow(attendance.Row{
		EmployeeID: "10001",
		Date:       "06/03/2024",
		TimeIn:     "8:15 AM",
		TimeOut:    "1730",
	})
	require.NoError(t, err)

	assert.Equal(t, "10001", day.EmployeeID)
	assert.Equal(t, "2024-06-03", day.Date.String())
	assert.Equal(t, "08:15", day.TimeIn.String())
	assert.Equal(t, "17:30", day.TimeOut.String())
	assert.True(t, day.IsComplete())
}

func TestParseRow_UnparsableClockKeepsTheDay(t *testing.T) {
	// GIVEN: a row whose clock-out column is garbage
	// WHEN: parsed
	// THEN: the day survives with an unparsed clock-out, marked incomplete

	day, err := attendance.ParseRow(attendance.Row{
		EmployeeID: "10001",
		Date:       "06/03/2024",
		TimeIn:     "0800",
		TimeOut:    "n/a",
	})
	require.NoError(t, err)

	assert.True(t, day.TimeIn.IsValid())
	assert.False(t, day.TimeOut.IsValid())
	assert.False(t, day.IsComplete())
}

func TestParseRow_UnusableRows(t *testing.T) {
	_, err := attendance.ParseRow(attendance.Row{Date: "06/03/2024", TimeIn: "0800", TimeOut: "1700"})
	assert.Error(t, err, "missing employee id")

	_, err = attendance.ParseRow(attendance.Row{EmployeeID: "10001", Date: "2024-06-03"})
	assert.True(t, errors.Is(err, engine.ErrUnparsedDate))
}

func TestParseRows_CollectsFailuresWithoutAborting(t *testing.T) {
	rows := []attendance.Row{
		{EmployeeID: "10001", Date: "06/03/2024", TimeIn: "0800", TimeOut: "1700"},
		{EmployeeID: "10002", Date: "not-a-date", TimeIn: "0800", TimeOut: "1700"},
		{EmployeeID: "10003", Date: "06/03/2024", TimeIn: "??", TimeOut: "1700"},
	}

	days, failures := attendance.ParseRows(rows, nil)

	// the bad date is rejected; the bad clock only makes its day incomplete
	require.Len(t, days, 2)
	require.Len(t, failures, 1)
	assert.Equal(t, 1, failures[0].Index)
	assert.Contains(t, failures[0].Reason, "not-a-date")
}
