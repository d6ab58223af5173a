/*
resolver.go - Per-day attendance policy resolution

PURPOSE:
  Applies the working-day policy to one parsed day: lateness against the
  grace period, undertime against the standard end, the lunch deduction,
  the regular-hours cap, and overtime eligibility.

KEY RULES:
  - Arrival after the grace end (08:10) is late; late minutes count from
    the grace end, not the standard start.
  - A late employee cannot earn overtime: the worked span is capped at the
    standard end and overtime is forfeited for that day.
  - The canonical hour computation carries no lunch deduction: the 8-hour
    regular cap already absorbs the lunch hour on a full 08:00-17:00 day.
    A lunch-deduction variant (subtract one hour when the raw span reaches
    5 hours) exists in the policy for installations that want it.
  - Clock-out before clock-in means an unsupported overnight row: the day
    resolves to zero hours and is flagged Invalid.
*/
package attendance

import (
	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// POLICY - Injectable working-day constants
// =============================================================================

// Policy holds the working-day constants. Values are explicit configuration
// rather than package constants so alternate schedules can be tested and
// loaded from config.
type Policy struct {
	StartOfDay      engine.TimeOfDay // standard start
	GraceEnd        engine.TimeOfDay // arrivals up to here are on time
	EndOfDay        engine.TimeOfDay // standard end
	LunchMinutes    int              // deducted when the raw span reaches the threshold
	LunchThreshold  int              // minimum raw span, in minutes, for the lunch deduction
	RegularHoursCap engine.Amount    // daily cap on regular hours
}

// DefaultPolicy returns the standard 08:00-17:00 day with a ten-minute
// grace period. The lunch deduction is disabled by default: the canonical
// engine counts the capped span only (a full day hits the 8-hour cap with
// or without it). Set LunchMinutes to enable the deduction variant.
func DefaultPolicy() Policy {
	return Policy{
		StartOfDay:      engine.ClockTime(8, 0),
		GraceEnd:        engine.ClockTime(8, 10),
		EndOfDay:        engine.ClockTime(17, 0),
		LunchMinutes:    0,
		LunchThreshold:  5 * 60,
		RegularHoursCap: engine.Hours(8),
	}
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver computes a DailyResult from a complete Day under a Policy.
type Resolver struct {
	Policy Policy
}

func NewResolver(policy Policy) Resolver {
	return Resolver{Policy: policy}
}

// Resolve applies the policy to one day. Incomplete days resolve to the
// zero DailyResult; callers exclude them from totals (the aggregator logs
// a diagnostic for each).
func (r Resolver) Resolve(day Day) DailyResult {
	if !day.IsComplete() {
		return DailyResult{}
	}
	if day.TimeOut.Before(day.TimeIn) {
		// Overnight spans are unsupported input, not a wrap to the next day.
		return DailyResult{Invalid: true}
	}

	p := r.Policy
	result := DailyResult{
		HoursWorked:   engine.Hours(0),
		OvertimeHours: engine.Hours(0),
	}

	if day.TimeIn.After(p.GraceEnd) {
		result.IsLate = true
		result.LateMinutes = p.GraceEnd.MinutesUntil(day.TimeIn)
	}

	if day.TimeOut.Before(p.EndOfDay) {
		result.IsUndertime = true
		result.UndertimeMinutes = day.TimeOut.MinutesUntil(p.EndOfDay)
	}

	// A late employee's worked span is capped at the standard end: lateness
	// forfeits both overtime pay and the overtime span itself.
	effectiveOut := day.TimeOut
	if result.IsLate && effectiveOut.After(p.EndOfDay) {
		effectiveOut = p.EndOfDay
	}

	rawMinutes := day.TimeIn.MinutesUntil(effectiveOut)
	if p.LunchMinutes > 0 && rawMinutes >= p.LunchThreshold {
		rawMinutes -= p.LunchMinutes
	}
	if rawMinutes < 0 {
		rawMinutes = 0
	}

	hours := engine.Minutes(rawMinutes).ToHours()
	result.HoursWorked = hours.Min(p.RegularHoursCap)

	if !result.IsLate && day.TimeOut.After(p.EndOfDay) {
		overtimeMinutes := p.EndOfDay.MinutesUntil(day.TimeOut)
		result.OvertimeHours = engine.Minutes(overtimeMinutes).ToHours()
	}

	return result
}
