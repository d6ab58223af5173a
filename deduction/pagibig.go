package deduction

import (
	"github.com/shopspring/decimal"

	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// HOUSING FUND (Pag-IBIG) - Rate bands with floor/ceiling clamps
// =============================================================================

// HousingBand is one compensation band of the rate table. A nil Max means
// the band is open-ended.
type HousingBand struct {
	Min  engine.Amount
	Max  *engine.Amount
	Rate decimal.Decimal
}

// HousingFund applies the band rate to compensation, then clamps the
// result between ClampFloor and ClampCeiling. Compensation below the
// first band contributes nothing and is never clamped up.
//
// NOTE: the standard clamp has floor = ceiling = ₱100, which collapses
// every above-band result to exactly ₱100 and makes the 1%/2% rates dead
// in practice. This mirrors the published table as-is; the bands stay in
// the data so a corrected clamp can be configured without code changes.
type HousingFund struct {
	Bands        []HousingBand
	ClampFloor   engine.Amount
	ClampCeiling engine.Amount
}

func (HousingFund) Name() string { return "pagibig" }

// DefaultHousingFund: below ₱1,000 exempt; ₱1,000-₱1,500 at 1%; above
// ₱1,500 at 2%; clamped to exactly ₱100.
func DefaultHousingFund() HousingFund {
	upper := engine.Pesos(1500)
	return HousingFund{
		Bands: []HousingBand{
			{Min: engine.Pesos(1000), Max: &upper, Rate: decimal.NewFromFloat(0.01)},
			{Min: engine.Pesos(1500), Max: nil, Rate: decimal.NewFromFloat(0.02)},
		},
		ClampFloor:   engine.Pesos(100),
		ClampCeiling: engine.Pesos(100),
	}
}

func (h HousingFund) Amount(monthlyGross engine.Amount) engine.Amount {
	if !monthlyGross.IsPositive() {
		return engine.Pesos(0)
	}

	// First matching band wins, so the bounded 1% band takes its own upper
	// boundary (₱1,500 is 1%, not 2%).
	var rate decimal.Decimal
	matched := false
	for _, band := range h.Bands {
		if !monthlyGross.GreaterThanOrEqual(band.Min) {
			continue
		}
		if band.Max != nil && monthlyGross.GreaterThan(*band.Max) {
			continue
		}
		rate = band.Rate
		matched = true
		break
	}
	if !matched {
		return engine.Pesos(0)
	}

	contribution := monthlyGross.Mul(rate)
	return contribution.Max(h.ClampFloor).Min(h.ClampCeiling).Round2()
}
