/*
Package deduction implements the statutory deduction schedule: social
insurance (SSS), health insurance (PhilHealth), housing fund (Pag-IBIG),
and progressive withholding tax.

PURPOSE:
  Each calculator is a pure function of monthly gross compensation,
  configured by an ordered data table rather than branching code, so
  bracket tables can be swapped and tested independently.

PERIOD APPLICABILITY:
  Which calculators are charged on which half of the semi-monthly cycle is
  business policy, not tax law, and therefore data: the default Schedule
  charges SSS/PhilHealth/Pag-IBIG on the mid-month half and withholding tax
  on the end-month half. The non-applicable half reports zero components.

CONTRACTS:
  Every calculator returns the MONTHLY amount. Callers needing the
  semi-monthly figure halve it explicitly (engine.Amount.Half). All
  calculators return zero for non-positive compensation.

SEE ALSO:
  - sss.go, philhealth.go, pagibig.go, tax.go: the four calculators
  - factory: JSON overrides for every table in this package
*/
package deduction

import (
	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// RESULT
// =============================================================================

// Result carries the four deduction components for one pay period.
// Total is always the sum of the four components; each component is >= 0.
type Result struct {
	SocialInsurance engine.Amount
	HealthInsurance engine.Amount
	HousingFund     engine.Amount
	IncomeTax       engine.Amount
	Total           engine.Amount
}

func zeroResult() Result {
	z := engine.Pesos(0)
	return Result{
		SocialInsurance: z,
		HealthInsurance: z,
		HousingFund:     z,
		IncomeTax:       z,
		Total:           z,
	}
}

// =============================================================================
// CALCULATOR - One statutory contribution
// =============================================================================

// Calculator computes a single monthly contribution from monthly gross
// compensation. Implementations are pure and side-effect free.
type Calculator interface {
	Name() string
	Amount(monthlyGross engine.Amount) engine.Amount
}

// =============================================================================
// SCHEDULE - Period applicability
// =============================================================================

// Component identifies one of the four deduction slots in a Result.
type Component string

const (
	ComponentSocialInsurance Component = "social_insurance"
	ComponentHealthInsurance Component = "health_insurance"
	ComponentHousingFund     Component = "housing_fund"
	ComponentIncomeTax       Component = "income_tax"
)

// Schedule maps each half of the pay cycle to the components charged on it.
type Schedule struct {
	MidMonth []Component
	EndMonth []Component
}

// DefaultSchedule charges the three contribution funds mid-month and
// withholding tax end-month.
func DefaultSchedule() Schedule {
	return Schedule{
		MidMonth: []Component{ComponentSocialInsurance, ComponentHealthInsurance, ComponentHousingFund},
		EndMonth: []Component{ComponentIncomeTax},
	}
}

func (s Schedule) applies(component Component, pt engine.PeriodType) bool {
	var active []Component
	switch pt {
	case engine.EndMonth:
		active = s.EndMonth
	default:
		active = s.MidMonth
	}
	for _, c := range active {
		if c == component {
			return true
		}
	}
	return false
}

// =============================================================================
// ENGINE - Combines the calculators under the schedule
// =============================================================================

// Engine holds the four calculators and the applicability schedule.
// Callers construct it explicitly (or via DefaultEngine / factory config);
// there is no package-level registry.
type Engine struct {
	SocialInsurance Calculator
	HealthInsurance Calculator
	HousingFund     Calculator
	IncomeTax       Calculator
	Schedule        Schedule
}

// DefaultEngine wires the default tables and schedule.
func DefaultEngine() Engine {
	sss := DefaultSSSTable()
	health := DefaultHealthInsurance()
	housing := DefaultHousingFund()
	return Engine{
		SocialInsurance: sss,
		HealthInsurance: health,
		HousingFund:     housing,
		IncomeTax:       NewWithholdingTax(DefaultTaxTable(), sss, health, housing),
		Schedule:        DefaultSchedule(),
	}
}

// Compute returns the deduction components charged for the given half.
// Components not scheduled for the half are zero; Total always equals the
// sum of the four components.
func (e Engine) Compute(monthlyGross engine.Amount, pt engine.PeriodType) Result {
	result := zeroResult()
	if !monthlyGross.IsPositive() {
		return result
	}

	if e.Schedule.applies(ComponentSocialInsurance, pt) {
		result.SocialInsurance = e.SocialInsurance.Amount(monthlyGross).ClampNonNegative()
	}
	if e.Schedule.applies(ComponentHealthInsurance, pt) {
		result.HealthInsurance = e.HealthInsurance.Amount(monthlyGross).ClampNonNegative()
	}
	if e.Schedule.applies(ComponentHousingFund, pt) {
		result.HousingFund = e.HousingFund.Amount(monthlyGross).ClampNonNegative()
	}
	if e.Schedule.applies(ComponentIncomeTax, pt) {
		result.IncomeTax = e.IncomeTax.Amount(monthlyGross).ClampNonNegative()
	}

	result.Total = result.SocialInsurance.
		Add(result.HealthInsurance).
		Add(result.HousingFund).
		Add(result.IncomeTax)
	return result
}
