package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorph/payroll-engine/deduction"
	"github.com/motorph/payroll-engine/engine"
	"github.com/motorph/payroll-engine/factory"
)

func parse(t *testing.T, doc string) factory.Config {
	t.Helper()
	cfg, err := factory.New().ParseConfig([]byte(doc))
	require.NoError(t, err)
	return cfg
}

func parseErr(t *testing.T, doc string) error {
	t.Helper()
	_, err := factory.New().ParseConfig([]byte(doc))
	require.Error(t, err)
	return err
}

// =============================================================================
// DEFAULTS AND PARTIAL OVERRIDES
// =============================================================================

func TestParseConfig_EmptyDocumentKeepsDefaults(t *testing.T) {
	cfg := parse(t, `{}`)
	want := factory.DefaultConfig()

	assert.Equal(t, want.Attendance, cfg.Attendance)
	assert.True(t, want.Payroll.OvertimePremium.Equal(cfg.Payroll.OvertimePremium))
	assert.Equal(t, want.Deductions.Schedule, cfg.Deductions.Schedule)
}

func TestParseConfig_AttendanceOverrides(t *testing.T) {
	cfg := parse(t, `{
		"attendance": {
			"start_of_day": "09:00",
			"grace_end": "09:15",
			"end_of_day": "18:00",
			"lunch_minutes": 60
		}
	}`)

	assert.Equal(t, "09:00", cfg.Attendance.StartOfDay.String())
	assert.Equal(t, "09:15", cfg.Attendance.GraceEnd.String())
	assert.Equal(t, "18:00", cfg.Attendance.EndOfDay.String())
	assert.Equal(t, 60, cfg.Attendance.LunchMinutes)

	// untouched fields keep their defaults
	assert.True(t, cfg.Attendance.RegularHoursCap.Value.Equal(
		factory.DefaultConfig().Attendance.RegularHoursCap.Value))
}

func TestParseConfig_PayrollOverrides(t *testing.T) {
	cfg := parse(t, `{
		"payroll": {"overtime_premium": "1.5", "hours_per_day": 7}
	}`)

	assert.Equal(t, "1.5", cfg.Payroll.OvertimePremium.String())
	assert.Equal(t, "7", cfg.Payroll.HoursPerDay.String())
}

// =============================================================================
// DEDUCTION TABLE OVERRIDES
// =============================================================================

func TestParseConfig_CustomSocialInsuranceTable(t *testing.T) {
	cfg := parse(t, `{
		"deductions": {
			"social_insurance": {"brackets": [
				{"floor": "0", "contribution": "100"},
				{"floor": "10000", "contribution": "500"}
			]}
		}
	}`)

	table := cfg.Deductions.SocialInsurance
	assert.True(t, table.Amount(engine.Pesos(5000)).Value.Equal(engine.Pesos(100).Value))
	assert.True(t, table.Amount(engine.Pesos(10000)).Value.Equal(engine.Pesos(500).Value))
}

func TestParseConfig_CustomIncomeTaxNetsConfiguredContributions(t *testing.T) {
	// a single flat 10% bracket over zero, with a flat ₱200 social
	// insurance table feeding the taxable-income netting
	cfg := parse(t, `{
		"deductions": {
			"social_insurance": {"brackets": [{"floor": "0", "contribution": "200"}]},
			"health_insurance": {"rate": "0", "monthly_cap": "0"},
			"housing_fund": {
				"bands": [{"min": "0", "rate": "0"}],
				"clamp_floor": "0", "clamp_ceiling": "0"
			},
			"income_tax": {"brackets": [{"base": "0", "rate": "0.10", "excess_over": "0"}]}
		}
	}`)

	// taxable = 10000 - 200 = 9800; 10% of that
	got := cfg.Deductions.IncomeTax.Amount(engine.Pesos(10000))
	assert.True(t, got.Value.Equal(engine.MustParseAmount("980.00", engine.UnitPesos).Value),
		"got %s", got.Value)
}

func TestParseConfig_ScheduleOverride(t *testing.T) {
	cfg := parse(t, `{
		"deductions": {
			"schedule": {
				"mid_month": ["income_tax"],
				"end_month": ["social_insurance", "health_insurance", "housing_fund"]
			}
		}
	}`)

	assert.Equal(t, []deduction.Component{deduction.ComponentIncomeTax}, cfg.Deductions.Schedule.MidMonth)
	assert.Len(t, cfg.Deductions.Schedule.EndMonth, 3)
}

// =============================================================================
// REJECTED DOCUMENTS
// =============================================================================

func TestParseConfig_Rejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"malformed JSON", `{`},
		{"bad decimal", `{"payroll": {"overtime_premium": "one and a quarter"}}`},
		{"negative decimal", `{"deductions": {"health_insurance": {"rate": "-0.03", "monthly_cap": "1800"}}}`},
		{"premium below one", `{"payroll": {"overtime_premium": "0.5"}}`},
		{"clock not HH:MM", `{"attendance": {"start_of_day": "8am"}}`},
		{"clock out of range", `{"attendance": {"start_of_day": "25:00"}}`},
		{"times out of order", `{"attendance": {"start_of_day": "09:00", "grace_end": "08:00"}}`},
		{"floors not ascending", `{"deductions": {"social_insurance": {"brackets": [
			{"floor": "1000", "contribution": "100"},
			{"floor": "500", "contribution": "200"}]}}}`},
		{"clamp floor above ceiling", `{"deductions": {"housing_fund": {
			"bands": [{"min": "0", "rate": "0.01"}],
			"clamp_floor": "200", "clamp_ceiling": "100"}}}`},
		{"non-last tax bracket missing ceiling", `{"deductions": {"income_tax": {"brackets": [
			{"base": "0", "rate": "0", "excess_over": "0"},
			{"ceiling": "50000", "base": "100", "rate": "0.2", "excess_over": "20000"}]}}}`},
		{"unknown schedule component", `{"deductions": {"schedule": {
			"mid_month": ["union_dues"], "end_month": []}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parseErr(t, tc.doc)
		})
	}
}
