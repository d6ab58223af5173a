package deduction

import (
	"github.com/shopspring/decimal"

	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// WITHHOLDING TAX - Progressive brackets over taxable income
// =============================================================================

// TaxBracket is one row of the progressive table. Taxable income at or
// below Ceiling is taxed Base plus Rate of the excess over ExcessOver; a
// nil Ceiling marks the open-ended top bracket.
type TaxBracket struct {
	Ceiling    *engine.Amount
	Base       engine.Amount
	Rate       decimal.Decimal
	ExcessOver engine.Amount
}

// TaxTable is the ordered bracket table, lowest ceiling first.
type TaxTable struct {
	Brackets []TaxBracket
}

// DefaultTaxTable is the published monthly withholding table, reproduced
// as-is. The published ceilings and excess-over thresholds do not meet
// (e.g. the 20% bracket ends at 33,332 but the next excess-over is
// 33,333); income in a one-peso gap exceeds the lower ceiling, so it
// falls through to the next bracket and pays that bracket's base with
// zero excess. Kept verbatim rather than smoothed.
func DefaultTaxTable() TaxTable {
	ceiling := func(v float64) *engine.Amount {
		a := engine.Pesos(v)
		return &a
	}
	return TaxTable{
		Brackets: []TaxBracket{
			{Ceiling: ceiling(20833), Base: engine.Pesos(0), Rate: decimal.Zero, ExcessOver: engine.Pesos(0)},
			{Ceiling: ceiling(33332), Base: engine.Pesos(0), Rate: decimal.NewFromFloat(0.20), ExcessOver: engine.Pesos(20833)},
			{Ceiling: ceiling(66666), Base: engine.Pesos(2500), Rate: decimal.NewFromFloat(0.25), ExcessOver: engine.Pesos(33333)},
			{Ceiling: ceiling(166666), Base: engine.Pesos(10833), Rate: decimal.NewFromFloat(0.30), ExcessOver: engine.Pesos(66667)},
			{Ceiling: ceiling(666666), Base: engine.MustParseAmount("40833.33", engine.UnitPesos), Rate: decimal.NewFromFloat(0.32), ExcessOver: engine.Pesos(166667)},
			{Ceiling: nil, Base: engine.MustParseAmount("200833.33", engine.UnitPesos), Rate: decimal.NewFromFloat(0.35), ExcessOver: engine.Pesos(666667)},
		},
	}
}

// taxOn applies the first bracket whose ceiling covers the taxable income.
func (t TaxTable) taxOn(taxable engine.Amount) engine.Amount {
	if !taxable.IsPositive() {
		return engine.Pesos(0)
	}
	for _, bracket := range t.Brackets {
		if bracket.Ceiling != nil && taxable.GreaterThan(*bracket.Ceiling) {
			continue
		}
		excess := taxable.Sub(bracket.ExcessOver).ClampNonNegative()
		return bracket.Base.Add(excess.Mul(bracket.Rate)).Round2()
	}
	return engine.Pesos(0)
}

// WithholdingTax derives taxable income by subtracting the monthly
// statutory contributions from monthly gross, then applies the bracket
// table. The contributions are always the full monthly amounts, whatever
// half of the cycle the tax itself is charged on.
type WithholdingTax struct {
	Table         TaxTable
	Contributions []Calculator
}

// NewWithholdingTax wires the table with the contribution calculators
// whose amounts reduce taxable income.
func NewWithholdingTax(table TaxTable, contributions ...Calculator) WithholdingTax {
	return WithholdingTax{Table: table, Contributions: contributions}
}

func (WithholdingTax) Name() string { return "withholding_tax" }

func (w WithholdingTax) Amount(monthlyGross engine.Amount) engine.Amount {
	if !monthlyGross.IsPositive() {
		return engine.Pesos(0)
	}
	taxable := monthlyGross
	for _, c := range w.Contributions {
		taxable = taxable.Sub(c.Amount(monthlyGross))
	}
	return w.Table.taxOn(taxable.ClampNonNegative())
}
