package payroll

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/deduction"
	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// POLICY
// =============================================================================

// Policy holds the earnings knobs that are business policy rather than
// statute.
type Policy struct {
	// OvertimePremium multiplies the hourly rate for approved overtime.
	OvertimePremium decimal.Decimal
	// HoursPerDay converts missing hours into whole absent days.
	HoursPerDay decimal.Decimal
}

// DefaultPolicy pays overtime at 1.25x and counts an 8-hour day.
func DefaultPolicy() Policy {
	return Policy{
		OvertimePremium: decimal.NewFromFloat(1.25),
		HoursPerDay:     decimal.NewFromInt(8),
	}
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Processor computes one payslip at a time. It is safe for concurrent
// use: all state is read-only after construction.
type Processor struct {
	Deductions deduction.Engine
	Policy     Policy
	Logger     *zap.Logger
}

// NewProcessor builds a Processor; a nil logger is replaced with a no-op.
func NewProcessor(deductions deduction.Engine, policy Policy, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{Deductions: deductions, Policy: policy, Logger: logger}
}

// Process computes the payslip for one employee over one pay period.
//
// Earnings adjustments come from the attendance totals; statutory
// deductions come from the monthly basic salary and the period's half of
// the cycle. Gross and net pay are clamped at zero.
func (pr *Processor) Process(profile RateProfile, totals attendance.PeriodTotals, period engine.PayPeriod) Result {
	profile, clamped := profile.Sanitize()
	if clamped {
		pr.Logger.Warn("rate profile had negative rates, clamped to zero",
			zap.String("employee_id", profile.EmployeeID))
	}

	lateMinutes := totals.LateMinutes
	undertimeMinutes := totals.UndertimeMinutes
	if lateMinutes < 0 || undertimeMinutes < 0 {
		pr.Logger.Warn("attendance totals had negative minutes, clamped to zero",
			zap.String("employee_id", profile.EmployeeID),
			zap.Int("late_minutes", lateMinutes),
			zap.Int("undertime_minutes", undertimeMinutes))
		if lateMinutes < 0 {
			lateMinutes = 0
		}
		if undertimeMinutes < 0 {
			undertimeMinutes = 0
		}
	}

	perMinute := profile.HourlyRate.Div(engine.Sixty)
	late := perMinute.Mul(decimal.NewFromInt(int64(lateMinutes))).Round2()
	undertime := perMinute.Mul(decimal.NewFromInt(int64(undertimeMinutes))).Round2()

	absence := engine.Pesos(0)
	if totals.HasUnpaidAbsence {
		absence = profile.DailyRate.Mul(decimal.NewFromInt(pr.absentDays(totals, lateMinutes, undertimeMinutes))).Round2()
	}

	overtime := engine.Pesos(0)
	if !totals.IsLateAnyDay && totals.OvertimeHours.IsPositive() {
		overtime = profile.HourlyRate.
			Mul(totals.OvertimeHours.Value).
			Mul(pr.Policy.OvertimePremium).
			Round2()
	}

	gross := profile.SemiMonthlyRate.
		Add(overtime).
		Sub(late).
		Sub(undertime).
		Sub(absence).
		ClampNonNegative().
		Round2()

	deductions := pr.Deductions.Compute(profile.MonthlyBasicSalary, period.Type)
	net := gross.Sub(deductions.Total).ClampNonNegative().Round2()

	return Result{
		EmployeeID:         profile.EmployeeID,
		Period:             period,
		BasePay:            profile.SemiMonthlyRate,
		OvertimePay:        overtime,
		LateDeduction:      late,
		UndertimeDeduction: undertime,
		AbsenceDeduction:   absence,
		GrossPay:           gross,
		Deductions:         deductions,
		NetPay:             net,
	}
}

// absentDays converts the period's missing hours into whole absent days,
// crediting late and undertime minutes so the same gap is never charged
// twice.
func (pr *Processor) absentDays(totals attendance.PeriodTotals, lateMinutes, undertimeMinutes int) int64 {
	accounted := totals.HoursWorked.Value.
		Add(decimal.NewFromInt(int64(lateMinutes)).Div(engine.Sixty)).
		Add(decimal.NewFromInt(int64(undertimeMinutes)).Div(engine.Sixty))
	missing := totals.ExpectedHours.Value.Sub(accounted)
	if missing.Sign() <= 0 {
		return 0
	}
	return missing.Div(pr.Policy.HoursPerDay).Floor().IntPart()
}
