package deduction

import (
	"github.com/shopspring/decimal"

	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// HEALTH INSURANCE (PhilHealth) - Percentage of salary with a monthly cap
// =============================================================================

// HealthInsurance computes Rate x compensation, capped at MonthlyCap.
//
// CONTRACT: Amount always returns the MONTHLY premium. Callers that need
// the semi-monthly share halve it explicitly; this calculator never does.
type HealthInsurance struct {
	Rate       decimal.Decimal
	MonthlyCap engine.Amount
}

func (HealthInsurance) Name() string { return "philhealth" }

// DefaultHealthInsurance is 3% of monthly compensation, capped at ₱1,800.
func DefaultHealthInsurance() HealthInsurance {
	return HealthInsurance{
		Rate:       decimal.NewFromFloat(0.03),
		MonthlyCap: engine.Pesos(1800),
	}
}

func (h HealthInsurance) Amount(monthlyGross engine.Amount) engine.Amount {
	if !monthlyGross.IsPositive() {
		return engine.Pesos(0)
	}
	premium := monthlyGross.Mul(h.Rate)
	return premium.Min(h.MonthlyCap).Round2()
}
