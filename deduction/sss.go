package deduction

import (
	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// SOCIAL INSURANCE (SSS) - Step function over compensation brackets
// =============================================================================

// SSSBracket is one row of the contribution table: compensation at or
// above Floor contributes Contribution, until a higher row's floor is
// reached.
type SSSBracket struct {
	Floor        engine.Amount
	Contribution engine.Amount
}

// SSSTable is the ordered contribution table. Rows must be sorted by
// ascending Floor; the highest matching row wins.
type SSSTable struct {
	Brackets []SSSBracket
}

func (SSSTable) Name() string { return "sss" }

// DefaultSSSTable builds the standard table: a base contribution of
// ₱135.00 below ₱3,250, then 44 brackets in ₱500 steps of ₱22.50 each,
// reaching the ₱1,125.00 ceiling at ₱24,750 and above.
func DefaultSSSTable() SSSTable {
	brackets := make([]SSSBracket, 0, 45)
	brackets = append(brackets, SSSBracket{
		Floor:        engine.Pesos(0),
		Contribution: engine.MustParseAmount("135.00", engine.UnitPesos),
	})
	for i := 0; i < 44; i++ {
		floor := 3250 + 500*i
		contribution := engine.MustParseAmount("157.50", engine.UnitPesos).
			Add(engine.MustParseAmount("22.50", engine.UnitPesos).Mul(engine.NewAmountFromInt(i, engine.UnitPesos).Value))
		brackets = append(brackets, SSSBracket{
			Floor:        engine.NewAmountFromInt(floor, engine.UnitPesos),
			Contribution: contribution,
		})
	}
	return SSSTable{Brackets: brackets}
}

// Amount returns the monthly contribution for the given compensation.
// Non-positive compensation contributes nothing.
func (t SSSTable) Amount(monthlyGross engine.Amount) engine.Amount {
	if !monthlyGross.IsPositive() {
		return engine.Pesos(0)
	}

	contribution := engine.Pesos(0)
	for _, bracket := range t.Brackets {
		if monthlyGross.GreaterThanOrEqual(bracket.Floor) {
			contribution = bracket.Contribution
		} else {
			break
		}
	}
	return contribution
}
