/*
aggregate.go - Period and weekly aggregation of daily results

PURPOSE:
  Sums DailyResults for one employee over a cutoff window into
  PeriodTotals, and groups them by ISO calendar week for reporting.

UNPAID ABSENCE:
  HasUnpaidAbsence is a derived flag. It is true only when BOTH hold:
  1. expected working hours (working days x 8) exceed the sum of
     worked + late + undertime hours, and
  2. the caller's absence classifier marks the gap as unpaid.
  Without absence data the gap stays paid - the engine never assumes
  unpaid on its own.
*/
package attendance

import (
	"sort"

	"go.uber.org/zap"

	"github.com/motorph/payroll-engine/engine"
)

// Aggregator folds attendance days into period and weekly totals.
// The logger receives diagnostics for skipped records; it never affects
// the computed values.
type Aggregator struct {
	Resolver Resolver
	Logger   *zap.Logger
}

func NewAggregator(resolver Resolver, logger *zap.Logger) Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Aggregator{Resolver: resolver, Logger: logger}
}

// Totals sums the employee's days that fall inside the period's cutoff
// window. Incomplete and invalid days are excluded from the totals and
// reported as diagnostics, never as batch-aborting errors. The employee
// ID is explicit rather than read off the rows: an employee absent for
// the entire window has no rows at all, and that gap still has to reach
// the classifier.
func (a Aggregator) Totals(employeeID string, days []Day, period engine.PayPeriod, classifier AbsenceClassifier) PeriodTotals {
	if classifier == nil {
		classifier = NoAbsenceData{}
	}

	totals := PeriodTotals{
		HoursWorked:   engine.Hours(0),
		OvertimeHours: engine.Hours(0),
		ExpectedHours: expectedHours(period, a.Resolver.Policy),
	}

	for _, day := range days {
		if !period.Start.BeforeOrEqual(day.Date) || !day.Date.BeforeOrEqual(period.End) {
			continue
		}

		result := a.Resolver.Resolve(day)
		switch {
		case !day.IsComplete():
			a.Logger.Warn("skipping incomplete attendance day",
				zap.String("employee_id", day.EmployeeID),
				zap.String("date", day.Date.String()))
			continue
		case result.Invalid:
			a.Logger.Warn("skipping attendance day with clock-out before clock-in",
				zap.String("employee_id", day.EmployeeID),
				zap.String("date", day.Date.String()))
			continue
		}

		totals.HoursWorked = totals.HoursWorked.Add(result.HoursWorked)
		totals.OvertimeHours = totals.OvertimeHours.Add(result.OvertimeHours)
		totals.LateMinutes += result.LateMinutes
		totals.UndertimeMinutes += result.UndertimeMinutes
		totals.IsLateAnyDay = totals.IsLateAnyDay || result.IsLate
		totals.DaysPresent++
	}

	if a.hasGap(totals) {
		totals.HasUnpaidAbsence = classifier.IsUnpaidGap(employeeID, period)
	}

	return totals
}

// Weekly groups days in [from, to] into ISO-week subtotals, ordered
// chronologically. Used by the reporting surface; period pay math never
// depends on the weekly grouping.
func (a Aggregator) Weekly(days []Day, from, to engine.Date) []WeekTotals {
	type weekKey struct{ year, week int }
	buckets := make(map[weekKey]*WeekTotals)

	for _, day := range days {
		if !from.BeforeOrEqual(day.Date) || !day.Date.BeforeOrEqual(to) {
			continue
		}
		result := a.Resolver.Resolve(day)
		if !day.IsComplete() || result.Invalid {
			continue
		}

		year, week := day.Date.ISOWeek()
		k := weekKey{year, week}
		bucket, ok := buckets[k]
		if !ok {
			bucket = &WeekTotals{
				Year:          year,
				Week:          week,
				HoursWorked:   engine.Hours(0),
				OvertimeHours: engine.Hours(0),
			}
			buckets[k] = bucket
		}

		bucket.HoursWorked = bucket.HoursWorked.Add(result.HoursWorked)
		bucket.OvertimeHours = bucket.OvertimeHours.Add(result.OvertimeHours)
		bucket.LateMinutes += result.LateMinutes
		bucket.UndertimeMinutes += result.UndertimeMinutes
		bucket.DaysPresent++
	}

	weeks := make([]WeekTotals, 0, len(buckets))
	for _, bucket := range buckets {
		weeks = append(weeks, *bucket)
	}
	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].Year != weeks[j].Year {
			return weeks[i].Year < weeks[j].Year
		}
		return weeks[i].Week < weeks[j].Week
	})
	return weeks
}

// hasGap reports whether accounted time falls short of expected time.
func (a Aggregator) hasGap(totals PeriodTotals) bool {
	accounted := totals.HoursWorked.
		Add(engine.Minutes(totals.LateMinutes).ToHours()).
		Add(engine.Minutes(totals.UndertimeMinutes).ToHours())
	return totals.ExpectedHours.GreaterThan(accounted)
}

func expectedHours(period engine.PayPeriod, policy Policy) engine.Amount {
	workdays := engine.WorkdaysBetween(period.Start, period.End)
	return policy.RegularHoursCap.Mul(engine.NewAmountFromInt(workdays, engine.UnitDays).Value)
}
