/*
Package payroll computes a semi-monthly payslip from a rate profile, a
period's attendance totals, and the statutory deduction engine.

PURPOSE:
  The Processor is the single place where earnings and deductions meet:
  it turns attendance totals into adjustments against the semi-monthly
  base, applies the deduction schedule for the period's half, and never
  lets gross or net pay go negative. The Runner fans a full employee
  roster out over a bounded worker pool and collects per-employee
  outcomes without aborting the batch.

CONTRACTS:
  - All monetary results are rounded to centavos.
  - Statutory deductions are computed from the MONTHLY basic salary, not
    from the period's earned gross.
  - Negative or malformed inputs are clamped to zero and logged, never
    propagated into a payslip.

SEE ALSO:
  - attendance: produces the PeriodTotals consumed here
  - deduction: the statutory calculators and schedule
*/
package payroll

import (
	"github.com/motorph/payroll-engine/deduction"
	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// RATE PROFILE
// =============================================================================

// RateProfile carries an employee's pay rates. The four figures are
// stored separately rather than derived from each other because source
// records quote them independently (and they do not always reconcile).
type RateProfile struct {
	EmployeeID         string
	MonthlyBasicSalary engine.Amount
	SemiMonthlyRate    engine.Amount
	HourlyRate         engine.Amount
	DailyRate          engine.Amount
}

// Sanitize clamps negative rates to zero, returning the cleaned profile
// and whether anything was clamped.
func (p RateProfile) Sanitize() (RateProfile, bool) {
	clamped := false
	clamp := func(a engine.Amount) engine.Amount {
		if a.IsNegative() {
			clamped = true
			return a.Zero()
		}
		return a
	}
	p.MonthlyBasicSalary = clamp(p.MonthlyBasicSalary)
	p.SemiMonthlyRate = clamp(p.SemiMonthlyRate)
	p.HourlyRate = clamp(p.HourlyRate)
	p.DailyRate = clamp(p.DailyRate)
	return p, clamped
}

// =============================================================================
// RESULT
// =============================================================================

// Result is one employee's payslip for one pay period.
type Result struct {
	EmployeeID string
	Period     engine.PayPeriod

	BasePay            engine.Amount
	OvertimePay        engine.Amount
	LateDeduction      engine.Amount
	UndertimeDeduction engine.Amount
	AbsenceDeduction   engine.Amount
	GrossPay           engine.Amount

	Deductions deduction.Result
	NetPay     engine.Amount
}
