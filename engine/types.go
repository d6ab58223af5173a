/*
Package engine provides the core payroll computation primitives.

PURPOSE:
  This package contains the value types and calendar logic shared by every
  payroll module: amounts, dates, clock times, and pay-period derivation.
  Whether the caller is computing one employee's payslip or an entire batch
  run, the same primitives guarantee the same results.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 8 hours, 5 minutes, ₱1,125.00)
  - Unit: What the amount measures (pesos, hours, minutes, days)

DESIGN PRINCIPLES:
  1. Determinism: identical inputs always yield identical outputs
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Purity: no I/O, no shared mutable state, no hidden configuration

USAGE:
  rate := engine.Pesos(100)
  late := engine.Minutes(5)
  deduction := rate.Div(engine.Sixty).Mul(late.Value).Round2()

SEE ALSO:
  - time.go: Date and TimeOfDay values
  - clock.go: Clock-text parsing
  - period.go: Pay-period and cutoff derivation
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitPesos   Unit = "pesos"
	UnitHours   Unit = "hours"
	UnitMinutes Unit = "minutes"
	UnitDays    Unit = "days"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

// Pesos returns a currency amount.
func Pesos(value float64) Amount { return NewAmount(value, UnitPesos) }

// Hours returns a duration amount measured in hours.
func Hours(value float64) Amount { return NewAmount(value, UnitHours) }

// Minutes returns a duration amount measured in minutes.
func Minutes(value int) Amount { return NewAmountFromInt(value, UnitMinutes) }

// Days returns a count of days.
func Days(value float64) Amount { return NewAmount(value, UnitDays) }

func MustParseAmount(s string, unit Unit) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Value: decimal.Zero, Unit: unit}
	}
	return Amount{Value: d, Unit: unit}
}

// Sixty is the minutes-per-hour divisor used by rate conversions.
var Sixty = decimal.NewFromInt(60)

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s), Unit: a.Unit} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.Value.GreaterThanOrEqual(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// ClampNonNegative floors the amount at zero. Pay components never go
// negative; an over-deducted period bottoms out at zero pay.
func (a Amount) ClampNonNegative() Amount {
	if a.IsNegative() {
		return a.Zero()
	}
	return a
}

// Round2 rounds to two decimal places (centavo precision).
func (a Amount) Round2() Amount {
	return Amount{Value: a.Value.Round(2), Unit: a.Unit}
}

// Half returns the amount divided by two. Used when a monthly statutory
// contribution is charged against a semi-monthly period.
func (a Amount) Half() Amount {
	return a.Div(decimal.NewFromInt(2))
}

// ToHours converts a minutes amount to hours.
func (a Amount) ToHours() Amount {
	return Amount{Value: a.Value.Div(Sixty), Unit: UnitHours}
}

func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}
