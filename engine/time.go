package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar value
// =============================================================================

type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses the attendance-export date format (MM/dd/yyyy).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("01/02/2006", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected MM/dd/yyyy): %w", s, ErrUnparsedDate)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsWorkday() bool { return !d.IsWeekend() }
func (d Date) IsZero() bool    { return d.Time.IsZero() }

// ISOWeek returns the ISO 8601 year and week number, used for weekly
// attendance subtotals.
func (d Date) ISOWeek() (year, week int) { return d.normalize().ISOWeek() }

func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// =============================================================================
// DATE UTILITIES
// =============================================================================

// WorkdaysBetween counts Monday-Friday days in [from, to] inclusive.
// Weekends are the only non-working days; the engine has no holiday
// calendar (holiday classification belongs to the external absence tracker).
func WorkdaysBetween(from, to Date) int {
	count := 0
	for current := from; current.BeforeOrEqual(to); current = current.AddDays(1) {
		if current.IsWorkday() {
			count++
		}
	}
	return count
}

func EndOfMonth(year int, month time.Month) Date {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{Time: t}
}

// =============================================================================
// TIME OF DAY - Canonical clock value produced only by ParseClock
// =============================================================================

// TimeOfDay is an hour/minute value. The zero value is the explicit
// "unparsed" state: a TimeOfDay is only meaningful when IsValid reports true.
// Construction goes through ClockTime or ParseClock so an out-of-range value
// can never be observed.
type TimeOfDay struct {
	hour   int
	minute int
	valid  bool
}

// ClockTime builds a TimeOfDay from hour/minute, returning the unparsed
// value when either component is out of range.
func ClockTime(hour, minute int) TimeOfDay {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}
	}
	return TimeOfDay{hour: hour, minute: minute, valid: true}
}

func (t TimeOfDay) IsValid() bool { return t.valid }
func (t TimeOfDay) Hour() int     { return t.hour }
func (t TimeOfDay) Minute() int   { return t.minute }

// MinuteOfDay returns minutes since midnight. Unparsed values report -1 so
// accidental arithmetic on them is visible rather than silently zero.
func (t TimeOfDay) MinuteOfDay() int {
	if !t.valid {
		return -1
	}
	return t.hour*60 + t.minute
}

func (t TimeOfDay) Before(other TimeOfDay) bool { return t.MinuteOfDay() < other.MinuteOfDay() }
func (t TimeOfDay) After(other TimeOfDay) bool  { return t.MinuteOfDay() > other.MinuteOfDay() }

// MinutesUntil returns the signed minute distance from t to other.
func (t TimeOfDay) MinutesUntil(other TimeOfDay) int {
	return other.MinuteOfDay() - t.MinuteOfDay()
}

func (t TimeOfDay) String() string {
	if !t.valid {
		return "--:--"
	}
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}
