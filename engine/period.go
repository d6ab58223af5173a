/*
period.go - Semi-monthly pay-period and cutoff derivation

PURPOSE:
  Derives the canonical pay date and attendance cutoff window for each half
  of the semi-monthly pay cycle. The two halves tile the calendar with
  non-overlapping, contiguous cutoff windows:

    MID_MONTH:  cutoff 27th of previous month .. 12th, payday on the 15th
    END_MONTH:  cutoff 13th .. 26th, payday on the last day of the month

WEEKEND ADJUSTMENT:
  A payday falling on Saturday moves back one day to Friday; a Sunday
  payday moves back two days to Friday. Cutoff windows are never adjusted.
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// PAY PERIOD - One half of the semi-monthly cycle
// =============================================================================

type PeriodType string

const (
	MidMonth PeriodType = "mid_month"
	EndMonth PeriodType = "end_month"
)

// NormalizePeriodType maps free-form caller input onto a PeriodType.
// Unknown input falls back to MidMonth; the second return value reports
// whether the input was recognized so callers can log the clamp.
func NormalizePeriodType(s string) (PeriodType, bool) {
	switch PeriodType(s) {
	case MidMonth, EndMonth:
		return PeriodType(s), true
	default:
		return MidMonth, false
	}
}

// PayPeriod is the attendance cutoff window plus the adjusted payday for
// one half of a month.
type PayPeriod struct {
	Start   Date
	End     Date
	PayDate Date
	Type    PeriodType
}

// Validate rejects malformed periods at construction time. A violation
// here is a caller bug, not user input.
func (p PayPeriod) Validate() error {
	if p.End.Before(p.Start) {
		return fmt.Errorf("pay period %s: end %s before start %s: %w", p.Type, p.End, p.Start, ErrInvalidPeriod)
	}
	if p.PayDate.Before(p.End) {
		return fmt.Errorf("pay period %s: pay date %s before cutoff end %s: %w", p.Type, p.PayDate, p.End, ErrInvalidPeriod)
	}
	return nil
}

func (p PayPeriod) String() string {
	return fmt.Sprintf("[%s, %s] pay %s", p.Start, p.End, p.PayDate)
}

// =============================================================================
// PAY PERIOD CALCULATOR
// =============================================================================

// PeriodFor returns the pay period for the given year, month, and half.
func PeriodFor(year int, month time.Month, pt PeriodType) (PayPeriod, error) {
	if month < time.January || month > time.December {
		return PayPeriod{}, fmt.Errorf("month %d out of range: %w", month, ErrInvalidPeriod)
	}

	var p PayPeriod
	switch pt {
	case MidMonth:
		p = PayPeriod{
			Start:   NewDate(year, month, 27).AddMonths(-1),
			End:     NewDate(year, month, 12),
			PayDate: adjustForWeekend(NewDate(year, month, 15)),
			Type:    MidMonth,
		}
	case EndMonth:
		p = PayPeriod{
			Start:   NewDate(year, month, 13),
			End:     NewDate(year, month, 26),
			PayDate: adjustForWeekend(EndOfMonth(year, month)),
			Type:    EndMonth,
		}
	default:
		return PayPeriod{}, fmt.Errorf("unknown period type %q: %w", pt, ErrInvalidPeriod)
	}

	if err := p.Validate(); err != nil {
		return PayPeriod{}, err
	}
	return p, nil
}

// PeriodsForYear returns all 24 pay periods of a calendar year in
// chronological order, for catalog/display use.
func PeriodsForYear(year int) []PayPeriod {
	periods := make([]PayPeriod, 0, 24)
	for month := time.January; month <= time.December; month++ {
		for _, pt := range []PeriodType{MidMonth, EndMonth} {
			p, err := PeriodFor(year, month, pt)
			if err != nil {
				continue // unreachable for valid months
			}
			periods = append(periods, p)
		}
	}
	return periods
}

// adjustForWeekend rolls a weekend payday back to the preceding Friday.
func adjustForWeekend(d Date) Date {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDays(-1)
	case time.Sunday:
		return d.AddDays(-2)
	default:
		return d
	}
}
