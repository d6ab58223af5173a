/*
Package factory provides JSON to Go configuration conversion.

PURPOSE:
  Converts a JSON configuration document into the attendance policy,
  payroll policy, and deduction engine the server runs with. This enables
  policy changes without code changes - HR can adjust the grace window,
  the overtime premium, or a statutory bracket table in JSON, and the
  factory creates the proper Go structs.

WHY JSON?
  - Non-developers can modify policies
  - Version control for policy definitions
  - Statutory tables change yearly; redeploying a binary for a bracket
    update is unnecessary

JSON SCHEMA (every section optional; omitted sections take the defaults):
  {
    "attendance": {
      "start_of_day": "08:00",
      "grace_end": "08:10",
      "end_of_day": "17:00",
      "lunch_minutes": 0,
      "lunch_threshold_minutes": 300,
      "regular_hours_cap": 8
    },
    "payroll": {
      "overtime_premium": "1.25",
      "hours_per_day": 8
    },
    "deductions": {
      "schedule": {
        "mid_month": ["social_insurance", "health_insurance", "housing_fund"],
        "end_month": ["income_tax"]
      },
      "social_insurance": {"brackets": [{"floor": "0", "contribution": "135.00"}, ...]},
      "health_insurance": {"rate": "0.03", "monthly_cap": "1800"},
      "housing_fund": {
        "bands": [{"min": "1000", "max": "1500", "rate": "0.01"}, {"min": "1500", "rate": "0.02"}],
        "clamp_floor": "100",
        "clamp_ceiling": "100"
      },
      "income_tax": {"brackets": [{"ceiling": "20833", "base": "0", "rate": "0", "excess_over": "0"}, ...]}
    }
  }

  Monetary figures and rates are JSON strings so they parse as exact
  decimals. Clock times are strict "HH:MM" 24-hour strings; the lenient
  attendance-log parser with its PM heuristic is NOT used for config.

USAGE:
  f := factory.New()
  cfg, err := f.ParseConfig(jsonBytes)
  resolver := attendance.NewResolver(cfg.Attendance)
  processor := payroll.NewProcessor(cfg.Deductions, cfg.Payroll, logger)

SEE ALSO:
  - attendance/resolver.go: Policy consumed here
  - deduction: the calculators the tables configure
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/deduction"
	"github.com/motorph/payroll-engine/engine"
	"github.com/motorph/payroll-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of the runtime configuration.
type ConfigJSON struct {
	Attendance *AttendanceJSON `json:"attendance,omitempty"`
	Payroll    *PayrollJSON    `json:"payroll,omitempty"`
	Deductions *DeductionsJSON `json:"deductions,omitempty"`
}

// AttendanceJSON configures the daily attendance policy.
type AttendanceJSON struct {
	StartOfDay      string  `json:"start_of_day,omitempty"`
	GraceEnd        string  `json:"grace_end,omitempty"`
	EndOfDay        string  `json:"end_of_day,omitempty"`
	LunchMinutes    *int    `json:"lunch_minutes,omitempty" validate:"omitempty,min=0"`
	LunchThreshold  *int    `json:"lunch_threshold_minutes,omitempty" validate:"omitempty,min=0"`
	RegularHoursCap *string `json:"regular_hours_cap,omitempty"`
}

// PayrollJSON configures earnings policy.
type PayrollJSON struct {
	OvertimePremium string `json:"overtime_premium,omitempty"`
	HoursPerDay     *int   `json:"hours_per_day,omitempty" validate:"omitempty,min=1,max=24"`
}

// DeductionsJSON configures the statutory calculators and their schedule.
type DeductionsJSON struct {
	Schedule        *ScheduleJSON        `json:"schedule,omitempty"`
	SocialInsurance *SocialInsuranceJSON `json:"social_insurance,omitempty"`
	HealthInsurance *HealthInsuranceJSON `json:"health_insurance,omitempty"`
	HousingFund     *HousingFundJSON     `json:"housing_fund,omitempty"`
	IncomeTax       *IncomeTaxJSON       `json:"income_tax,omitempty"`
}

// ScheduleJSON lists which components are charged on which half.
type ScheduleJSON struct {
	MidMonth []string `json:"mid_month" validate:"dive,oneof=social_insurance health_insurance housing_fund income_tax"`
	EndMonth []string `json:"end_month" validate:"dive,oneof=social_insurance health_insurance housing_fund income_tax"`
}

// SocialInsuranceJSON is the contribution table.
type SocialInsuranceJSON struct {
	Brackets []SSSBracketJSON `json:"brackets" validate:"min=1"`
}

// SSSBracketJSON is one contribution row.
type SSSBracketJSON struct {
	Floor        string `json:"floor" validate:"required"`
	Contribution string `json:"contribution" validate:"required"`
}

// HealthInsuranceJSON is the premium rate and cap.
type HealthInsuranceJSON struct {
	Rate       string `json:"rate" validate:"required"`
	MonthlyCap string `json:"monthly_cap" validate:"required"`
}

// HousingFundJSON is the rate bands and clamps.
type HousingFundJSON struct {
	Bands        []HousingBandJSON `json:"bands" validate:"min=1"`
	ClampFloor   string            `json:"clamp_floor" validate:"required"`
	ClampCeiling string            `json:"clamp_ceiling" validate:"required"`
}

// HousingBandJSON is one rate band; omit max for the open-ended band.
type HousingBandJSON struct {
	Min  string `json:"min" validate:"required"`
	Max  string `json:"max,omitempty"`
	Rate string `json:"rate" validate:"required"`
}

// IncomeTaxJSON is the progressive bracket table.
type IncomeTaxJSON struct {
	Brackets []TaxBracketJSON `json:"brackets" validate:"min=1"`
}

// TaxBracketJSON is one progressive bracket; omit ceiling for the top one.
type TaxBracketJSON struct {
	Ceiling    string `json:"ceiling,omitempty"`
	Base       string `json:"base" validate:"required"`
	Rate       string `json:"rate" validate:"required"`
	ExcessOver string `json:"excess_over" validate:"required"`
}

// =============================================================================
// CONFIG FACTORY
// =============================================================================

// Config is the assembled runtime configuration.
type Config struct {
	Attendance attendance.Policy
	Payroll    payroll.Policy
	Deductions deduction.Engine
}

// Factory converts JSON configuration to Go structs.
type Factory struct {
	validate *validator.Validate
}

// New creates a config factory.
func New() *Factory {
	return &Factory{validate: validator.New()}
}

// DefaultConfig returns the built-in policies and tables.
func DefaultConfig() Config {
	return Config{
		Attendance: attendance.DefaultPolicy(),
		Payroll:    payroll.DefaultPolicy(),
		Deductions: deduction.DefaultEngine(),
	}
}

// ParseConfig builds a Config from JSON, starting from the defaults and
// overriding whatever the document specifies.
func (f *Factory) ParseConfig(data []byte) (Config, error) {
	var doc ConfigJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("invalid config JSON: %w", err)
	}
	if err := f.validate.Struct(doc); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	cfg := DefaultConfig()

	if doc.Attendance != nil {
		policy, err := f.buildAttendance(*doc.Attendance, cfg.Attendance)
		if err != nil {
			return Config{}, err
		}
		cfg.Attendance = policy
	}
	if doc.Payroll != nil {
		policy, err := f.buildPayroll(*doc.Payroll, cfg.Payroll)
		if err != nil {
			return Config{}, err
		}
		cfg.Payroll = policy
	}
	if doc.Deductions != nil {
		eng, err := f.buildDeductions(*doc.Deductions, cfg.Deductions)
		if err != nil {
			return Config{}, err
		}
		cfg.Deductions = eng
	}

	return cfg, nil
}

func (f *Factory) buildAttendance(doc AttendanceJSON, base attendance.Policy) (attendance.Policy, error) {
	policy := base

	if doc.StartOfDay != "" {
		t, err := parseConfigClock(doc.StartOfDay)
		if err != nil {
			return policy, fmt.Errorf("attendance.start_of_day: %w", err)
		}
		policy.StartOfDay = t
	}
	if doc.GraceEnd != "" {
		t, err := parseConfigClock(doc.GraceEnd)
		if err != nil {
			return policy, fmt.Errorf("attendance.grace_end: %w", err)
		}
		policy.GraceEnd = t
	}
	if doc.EndOfDay != "" {
		t, err := parseConfigClock(doc.EndOfDay)
		if err != nil {
			return policy, fmt.Errorf("attendance.end_of_day: %w", err)
		}
		policy.EndOfDay = t
	}
	if doc.LunchMinutes != nil {
		policy.LunchMinutes = *doc.LunchMinutes
	}
	if doc.LunchThreshold != nil {
		policy.LunchThreshold = *doc.LunchThreshold
	}
	if doc.RegularHoursCap != nil {
		cap, err := parseDecimal("attendance.regular_hours_cap", *doc.RegularHoursCap)
		if err != nil {
			return policy, err
		}
		policy.RegularHoursCap = engine.Amount{Value: cap, Unit: engine.UnitHours}
	}

	if policy.StartOfDay.After(policy.GraceEnd) || policy.GraceEnd.After(policy.EndOfDay) {
		return policy, fmt.Errorf("attendance policy times out of order: start %s, grace %s, end %s",
			policy.StartOfDay, policy.GraceEnd, policy.EndOfDay)
	}
	return policy, nil
}

func (f *Factory) buildPayroll(doc PayrollJSON, base payroll.Policy) (payroll.Policy, error) {
	policy := base

	if doc.OvertimePremium != "" {
		premium, err := parseDecimal("payroll.overtime_premium", doc.OvertimePremium)
		if err != nil {
			return policy, err
		}
		if premium.LessThan(decimal.NewFromInt(1)) {
			return policy, fmt.Errorf("payroll.overtime_premium %s is below 1", premium)
		}
		policy.OvertimePremium = premium
	}
	if doc.HoursPerDay != nil {
		policy.HoursPerDay = decimal.NewFromInt(int64(*doc.HoursPerDay))
	}
	return policy, nil
}

func (f *Factory) buildDeductions(doc DeductionsJSON, base deduction.Engine) (deduction.Engine, error) {
	eng := base

	if doc.SocialInsurance != nil {
		table, err := buildSSSTable(*doc.SocialInsurance)
		if err != nil {
			return eng, err
		}
		eng.SocialInsurance = table
	}
	if doc.HealthInsurance != nil {
		health, err := buildHealthInsurance(*doc.HealthInsurance)
		if err != nil {
			return eng, err
		}
		eng.HealthInsurance = health
	}
	if doc.HousingFund != nil {
		housing, err := buildHousingFund(*doc.HousingFund)
		if err != nil {
			return eng, err
		}
		eng.HousingFund = housing
	}
	if doc.IncomeTax != nil {
		table, err := buildTaxTable(*doc.IncomeTax)
		if err != nil {
			return eng, err
		}
		// Taxable income nets out whatever contribution calculators
		// the rest of the document configured.
		eng.IncomeTax = deduction.NewWithholdingTax(table,
			eng.SocialInsurance, eng.HealthInsurance, eng.HousingFund)
	}
	if doc.Schedule != nil {
		eng.Schedule = deduction.Schedule{
			MidMonth: components(doc.Schedule.MidMonth),
			EndMonth: components(doc.Schedule.EndMonth),
		}
	}
	return eng, nil
}

func buildSSSTable(doc SocialInsuranceJSON) (deduction.SSSTable, error) {
	brackets := make([]deduction.SSSBracket, 0, len(doc.Brackets))
	prevFloor := decimal.NewFromInt(-1)
	for i, row := range doc.Brackets {
		floor, err := parseDecimal(fmt.Sprintf("social_insurance.brackets[%d].floor", i), row.Floor)
		if err != nil {
			return deduction.SSSTable{}, err
		}
		contribution, err := parseDecimal(fmt.Sprintf("social_insurance.brackets[%d].contribution", i), row.Contribution)
		if err != nil {
			return deduction.SSSTable{}, err
		}
		if !floor.GreaterThan(prevFloor) {
			return deduction.SSSTable{}, fmt.Errorf("social_insurance.brackets[%d]: floors must be strictly ascending", i)
		}
		prevFloor = floor
		brackets = append(brackets, deduction.SSSBracket{
			Floor:        engine.Amount{Value: floor, Unit: engine.UnitPesos},
			Contribution: engine.Amount{Value: contribution, Unit: engine.UnitPesos},
		})
	}
	return deduction.SSSTable{Brackets: brackets}, nil
}

func buildHealthInsurance(doc HealthInsuranceJSON) (deduction.HealthInsurance, error) {
	rate, err := parseDecimal("health_insurance.rate", doc.Rate)
	if err != nil {
		return deduction.HealthInsurance{}, err
	}
	cap, err := parseDecimal("health_insurance.monthly_cap", doc.MonthlyCap)
	if err != nil {
		return deduction.HealthInsurance{}, err
	}
	return deduction.HealthInsurance{
		Rate:       rate,
		MonthlyCap: engine.Amount{Value: cap, Unit: engine.UnitPesos},
	}, nil
}

func buildHousingFund(doc HousingFundJSON) (deduction.HousingFund, error) {
	bands := make([]deduction.HousingBand, 0, len(doc.Bands))
	for i, row := range doc.Bands {
		min, err := parseDecimal(fmt.Sprintf("housing_fund.bands[%d].min", i), row.Min)
		if err != nil {
			return deduction.HousingFund{}, err
		}
		rate, err := parseDecimal(fmt.Sprintf("housing_fund.bands[%d].rate", i), row.Rate)
		if err != nil {
			return deduction.HousingFund{}, err
		}
		band := deduction.HousingBand{
			Min:  engine.Amount{Value: min, Unit: engine.UnitPesos},
			Rate: rate,
		}
		if row.Max != "" {
			max, err := parseDecimal(fmt.Sprintf("housing_fund.bands[%d].max", i), row.Max)
			if err != nil {
				return deduction.HousingFund{}, err
			}
			upper := engine.Amount{Value: max, Unit: engine.UnitPesos}
			band.Max = &upper
		}
		bands = append(bands, band)
	}

	floor, err := parseDecimal("housing_fund.clamp_floor", doc.ClampFloor)
	if err != nil {
		return deduction.HousingFund{}, err
	}
	ceiling, err := parseDecimal("housing_fund.clamp_ceiling", doc.ClampCeiling)
	if err != nil {
		return deduction.HousingFund{}, err
	}
	if floor.GreaterThan(ceiling) {
		return deduction.HousingFund{}, fmt.Errorf("housing_fund: clamp_floor %s exceeds clamp_ceiling %s", floor, ceiling)
	}

	return deduction.HousingFund{
		Bands:        bands,
		ClampFloor:   engine.Amount{Value: floor, Unit: engine.UnitPesos},
		ClampCeiling: engine.Amount{Value: ceiling, Unit: engine.UnitPesos},
	}, nil
}

func buildTaxTable(doc IncomeTaxJSON) (deduction.TaxTable, error) {
	brackets := make([]deduction.TaxBracket, 0, len(doc.Brackets))
	for i, row := range doc.Brackets {
		base, err := parseDecimal(fmt.Sprintf("income_tax.brackets[%d].base", i), row.Base)
		if err != nil {
			return deduction.TaxTable{}, err
		}
		rate, err := parseDecimal(fmt.Sprintf("income_tax.brackets[%d].rate", i), row.Rate)
		if err != nil {
			return deduction.TaxTable{}, err
		}
		excessOver, err := parseDecimal(fmt.Sprintf("income_tax.brackets[%d].excess_over", i), row.ExcessOver)
		if err != nil {
			return deduction.TaxTable{}, err
		}
		bracket := deduction.TaxBracket{
			Base:       engine.Amount{Value: base, Unit: engine.UnitPesos},
			Rate:       rate,
			ExcessOver: engine.Amount{Value: excessOver, Unit: engine.UnitPesos},
		}
		if row.Ceiling != "" {
			ceiling, err := parseDecimal(fmt.Sprintf("income_tax.brackets[%d].ceiling", i), row.Ceiling)
			if err != nil {
				return deduction.TaxTable{}, err
			}
			upper := engine.Amount{Value: ceiling, Unit: engine.UnitPesos}
			bracket.Ceiling = &upper
		} else if i != len(doc.Brackets)-1 {
			return deduction.TaxTable{}, fmt.Errorf("income_tax.brackets[%d]: only the last bracket may omit ceiling", i)
		}
		brackets = append(brackets, bracket)
	}
	return deduction.TaxTable{Brackets: brackets}, nil
}

func components(names []string) []deduction.Component {
	out := make([]deduction.Component, 0, len(names))
	for _, name := range names {
		out = append(out, deduction.Component(name))
	}
	return out
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

// parseConfigClock parses a strict 24-hour "HH:MM" string. Config times
// never go through the attendance-log parser and its PM heuristic.
func parseConfigClock(s string) (engine.TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return engine.TimeOfDay{}, fmt.Errorf("invalid clock time %q (expected HH:MM)", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return engine.TimeOfDay{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return engine.TimeOfDay{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	t := engine.ClockTime(hour, minute)
	if !t.IsValid() {
		return engine.TimeOfDay{}, fmt.Errorf("clock time %q out of range", s)
	}
	return t, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid decimal %q", field, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s: %s is negative", field, s)
	}
	return d, nil
}
