package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// PAY-PERIOD DERIVATION
// =============================================================================

func TestPeriodFor_MidMonthCutoffSpansMonthBoundary(t *testing.T) {
	// GIVEN: the mid-month half of May 2024
	// WHEN: the period is derived
	// THEN: the cutoff runs from the 27th of April through May 12,
	//       payday on the unadjusted 15th (a Wednesday)

	p, err := engine.PeriodFor(2024, time.May, engine.MidMonth)
	require.NoError(t, err)

	assert.Equal(t, "2024-04-27", p.Start.String())
	assert.Equal(t, "2024-05-12", p.End.String())
	assert.Equal(t, "2024-05-15", p.PayDate.String())
	assert.Equal(t, engine.MidMonth, p.Type)
}

func TestPeriodFor_MidMonthJanuaryReachesPreviousYear(t *testing.T) {
	p, err := engine.PeriodFor(2024, time.January, engine.MidMonth)
	require.NoError(t, err)

	assert.Equal(t, "2023-12-27", p.Start.String())
	assert.Equal(t, "2024-01-12", p.End.String())
	assert.Equal(t, "2024-01-15", p.PayDate.String()) // Monday, no adjustment
}

func TestPeriodFor_EndMonthCutoffAndPayday(t *testing.T) {
	// GIVEN: the end-month half of May 2024
	// THEN: cutoff 13th-26th, payday on the last day (Friday May 31)

	p, err := engine.PeriodFor(2024, time.May, engine.EndMonth)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-13", p.Start.String())
	assert.Equal(t, "2024-05-26", p.End.String())
	assert.Equal(t, "2024-05-31", p.PayDate.String())
	assert.Equal(t, engine.EndMonth, p.Type)
}

func TestPeriodFor_WeekendPaydayRollsBackToFriday(t *testing.T) {
	cases := []struct {
		name    string
		year    int
		month   time.Month
		pt      engine.PeriodType
		payDate string
	}{
		// Sep 15 2024 is a Sunday: back two days
		{"mid-month Sunday", 2024, time.September, engine.MidMonth, "2024-09-13"},
		// Jun 15 2024 is a Saturday: back one day
		{"mid-month Saturday", 2024, time.June, engine.MidMonth, "2024-06-14"},
		// Nov 30 2024 is a Saturday: back one day
		{"end-month Saturday", 2024, time.November, engine.EndMonth, "2024-11-29"},
		// Mar 31 2024 is a Sunday: back two days
		{"end-month Sunday", 2024, time.March, engine.EndMonth, "2024-03-29"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := engine.PeriodFor(tc.year, tc.month, tc.pt)
			require.NoError(t, err)
			assert.Equal(t, tc.payDate, p.PayDate.String())
			assert.True(t, p.PayDate.Weekday() != time.Saturday && p.PayDate.Weekday() != time.Sunday)
		})
	}
}

func TestPeriodFor_RejectsBadInput(t *testing.T) {
	_, err := engine.PeriodFor(2024, time.Month(13), engine.MidMonth)
	assert.True(t, errors.Is(err, engine.ErrInvalidPeriod))

	_, err = engine.PeriodFor(2024, time.May, engine.PeriodType("weekly"))
	assert.True(t, errors.Is(err, engine.ErrInvalidPeriod))
}

func TestPeriodsForYear_TilesTheCalendar(t *testing.T) {
	// GIVEN: the full 2024 catalog
	// THEN: 24 periods, chronological, with contiguous cutoff windows

	periods := engine.PeriodsForYear(2024)
	require.Len(t, periods, 24)

	for i := 1; i < len(periods); i++ {
		prev, curr := periods[i-1], periods[i]
		assert.True(t, prev.Start.Before(curr.Start), "periods out of order at %d", i)
		// each window begins the day after the previous one ends
		assert.Equal(t, prev.End.AddDays(1).String(), curr.Start.String(), "gap at %d", i)
	}
}

func TestPayPeriod_Validate(t *testing.T) {
	good := engine.PayPeriod{
		Start:   engine.NewDate(2024, time.May, 13),
		End:     engine.NewDate(2024, time.May, 26),
		PayDate: engine.NewDate(2024, time.May, 31),
		Type:    engine.EndMonth,
	}
	assert.NoError(t, good.Validate())

	flipped := good
	flipped.Start, flipped.End = flipped.End, flipped.Start
	assert.True(t, errors.Is(flipped.Validate(), engine.ErrInvalidPeriod))

	early := good
	early.PayDate = engine.NewDate(2024, time.May, 20)
	assert.True(t, errors.Is(early.Validate(), engine.ErrInvalidPeriod))
}

func TestNormalizePeriodType(t *testing.T) {
	pt, ok := engine.NormalizePeriodType("end_month")
	assert.Equal(t, engine.EndMonth, pt)
	assert.True(t, ok)

	pt, ok = engine.NormalizePeriodType("fortnightly")
	assert.Equal(t, engine.MidMonth, pt)
	assert.False(t, ok)

	pt, ok = engine.NormalizePeriodType("")
	assert.Equal(t, engine.MidMonth, pt)
	assert.False(t, ok)
}

// =============================================================================
// DATE UTILITIES
// =============================================================================

func TestWorkdaysBetween_CountsWeekdaysInclusive(t *testing.T) {
	// Jun 13 2024 (Thu) .. Jun 26 2024 (Wed): two full weeks minus weekends
	from := engine.NewDate(2024, time.June, 13)
	to := engine.NewDate(2024, time.June, 26)

	assert.Equal(t, 10, engine.WorkdaysBetween(from, to))
	assert.Equal(t, 1, engine.WorkdaysBetween(from, from))
}

func TestEndOfMonth_HandlesLeapFebruary(t *testing.T) {
	assert.Equal(t, "2024-02-29", engine.EndOfMonth(2024, time.February).String())
	assert.Equal(t, "2025-02-28", engine.EndOfMonth(2025, time.February).String())
	assert.Equal(t, "2024-12-31", engine.EndOfMonth(2024, time.December).String())
}

func TestParseDate_AttendanceExportFormat(t *testing.T) {
	d, err := engine.ParseDate("06/03/2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", d.String())

	_, err = engine.ParseDate("2024-06-03")
	assert.True(t, errors.Is(err, engine.ErrUnparsedDate))
}
