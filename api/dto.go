/*
dto.go - Request/response data structures

PURPOSE:
  JSON shapes for the HTTP API. Monetary and hour figures are serialized
  as fixed-point strings ("1125.00"), never floats, so clients see the
  exact centavos the engine computed.
*/
package api

import (
	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/deduction"
	"github.com/motorph/payroll-engine/engine"
	"github.com/motorph/payroll-engine/payroll"
	"github.com/motorph/payroll-engine/store"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO is the wire form of an employee record.
type EmployeeDTO struct {
	ID                 string `json:"id"`
	LastName           string `json:"last_name"`
	FirstName          string `json:"first_name"`
	Position           string `json:"position,omitempty"`
	MonthlyBasicSalary string `json:"monthly_basic_salary"`
	SemiMonthlyRate    string `json:"semi_monthly_rate"`
	HourlyRate         string `json:"hourly_rate"`
	DailyRate          string `json:"daily_rate"`
}

// CreateEmployeeRequest creates or replaces an employee.
type CreateEmployeeRequest struct {
	ID                 string `json:"id" validate:"required"`
	LastName           string `json:"last_name" validate:"required"`
	FirstName          string `json:"first_name" validate:"required"`
	Position           string `json:"position"`
	MonthlyBasicSalary string `json:"monthly_basic_salary" validate:"required"`
	SemiMonthlyRate    string `json:"semi_monthly_rate" validate:"required"`
	HourlyRate         string `json:"hourly_rate" validate:"required"`
	DailyRate          string `json:"daily_rate" validate:"required"`
}

func employeeDTO(emp store.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:                 emp.ID,
		LastName:           emp.LastName,
		FirstName:          emp.FirstName,
		Position:           emp.Position,
		MonthlyBasicSalary: money(emp.Profile.MonthlyBasicSalary),
		SemiMonthlyRate:    money(emp.Profile.SemiMonthlyRate),
		HourlyRate:         money(emp.Profile.HourlyRate),
		DailyRate:          money(emp.Profile.DailyRate),
	}
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceRowDTO is one raw attendance-log row.
type AttendanceRowDTO struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required"` // MM/dd/yyyy
	TimeIn     string `json:"time_in"`
	TimeOut    string `json:"time_out"`
}

// ImportAttendanceRequest imports a batch of raw rows.
type ImportAttendanceRequest struct {
	Rows []AttendanceRowDTO `json:"rows" validate:"min=1,dive"`
}

// ImportAttendanceResponse reports how the import went.
type ImportAttendanceResponse struct {
	Imported int           `json:"imported"`
	Rejected []RowErrorDTO `json:"rejected,omitempty"`
}

// RowErrorDTO is one rejected import row.
type RowErrorDTO struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// PeriodTotalsDTO is the wire form of a period's attendance totals.
type PeriodTotalsDTO struct {
	Period           PeriodDTO `json:"period"`
	HoursWorked      string    `json:"hours_worked"`
	OvertimeHours    string    `json:"overtime_hours"`
	LateMinutes      int       `json:"late_minutes"`
	UndertimeMinutes int       `json:"undertime_minutes"`
	DaysPresent      int       `json:"days_present"`
	ExpectedHours    string    `json:"expected_hours"`
	IsLateAnyDay     bool      `json:"is_late_any_day"`
	HasUnpaidAbsence bool      `json:"has_unpaid_absence"`
}

func periodTotalsDTO(totals attendance.PeriodTotals, period engine.PayPeriod) PeriodTotalsDTO {
	return PeriodTotalsDTO{
		Period:           periodDTO(period),
		HoursWorked:      hours(totals.HoursWorked),
		OvertimeHours:    hours(totals.OvertimeHours),
		LateMinutes:      totals.LateMinutes,
		UndertimeMinutes: totals.UndertimeMinutes,
		DaysPresent:      totals.DaysPresent,
		ExpectedHours:    hours(totals.ExpectedHours),
		IsLateAnyDay:     totals.IsLateAnyDay,
		HasUnpaidAbsence: totals.HasUnpaidAbsence,
	}
}

// WeekTotalsDTO is one ISO week's attendance subtotal.
type WeekTotalsDTO struct {
	Year             int    `json:"year"`
	Week             int    `json:"week"`
	HoursWorked      string `json:"hours_worked"`
	OvertimeHours    string `json:"overtime_hours"`
	LateMinutes      int    `json:"late_minutes"`
	UndertimeMinutes int    `json:"undertime_minutes"`
	DaysPresent      int    `json:"days_present"`
}

func weekTotalsDTO(week attendance.WeekTotals) WeekTotalsDTO {
	return WeekTotalsDTO{
		Year:             week.Year,
		Week:             week.Week,
		HoursWorked:      hours(week.HoursWorked),
		OvertimeHours:    hours(week.OvertimeHours),
		LateMinutes:      week.LateMinutes,
		UndertimeMinutes: week.UndertimeMinutes,
		DaysPresent:      week.DaysPresent,
	}
}

// =============================================================================
// PERIODS
// =============================================================================

// PeriodDTO is the wire form of a pay period.
type PeriodDTO struct {
	Type    string `json:"type"`
	Start   string `json:"start"`
	End     string `json:"end"`
	PayDate string `json:"pay_date"`
}

func periodDTO(p engine.PayPeriod) PeriodDTO {
	return PeriodDTO{
		Type:    string(p.Type),
		Start:   p.Start.String(),
		End:     p.End.String(),
		PayDate: p.PayDate.String(),
	}
}

// =============================================================================
// DEDUCTIONS
// =============================================================================

// DeductionPreviewRequest asks what would be withheld from a salary.
type DeductionPreviewRequest struct {
	MonthlyGross string `json:"monthly_gross" validate:"required"`
	PeriodType   string `json:"period_type" validate:"omitempty,oneof=mid_month end_month"`
}

// DeductionsDTO is the wire form of a deduction result.
type DeductionsDTO struct {
	SocialInsurance string `json:"social_insurance"`
	HealthInsurance string `json:"health_insurance"`
	HousingFund     string `json:"housing_fund"`
	IncomeTax       string `json:"income_tax"`
	Total           string `json:"total"`
}

// DeductionPreviewResponse carries the monthly withholding figures plus
// the semi-monthly total a single payslip for that half would show.
type DeductionPreviewResponse struct {
	Monthly          DeductionsDTO `json:"monthly"`
	SemiMonthlyTotal string        `json:"semi_monthly_total"`
}

func deductionsDTO(d deduction.Result) DeductionsDTO {
	return DeductionsDTO{
		SocialInsurance: money(d.SocialInsurance),
		HealthInsurance: money(d.HealthInsurance),
		HousingFund:     money(d.HousingFund),
		IncomeTax:       money(d.IncomeTax),
		Total:           money(d.Total),
	}
}

// =============================================================================
// PAYROLL
// =============================================================================

// ComputePayrollRequest selects the pay period to compute.
type ComputePayrollRequest struct {
	Year       int    `json:"year" validate:"required,min=2000,max=2100"`
	Month      int    `json:"month" validate:"required,min=1,max=12"`
	PeriodType string `json:"period_type" validate:"omitempty,oneof=mid_month end_month"`
}

// PayslipDTO is the wire form of one computed payslip.
type PayslipDTO struct {
	EmployeeID         string        `json:"employee_id"`
	Period             PeriodDTO     `json:"period"`
	BasePay            string        `json:"base_pay"`
	OvertimePay        string        `json:"overtime_pay"`
	LateDeduction      string        `json:"late_deduction"`
	UndertimeDeduction string        `json:"undertime_deduction"`
	AbsenceDeduction   string        `json:"absence_deduction"`
	GrossPay           string        `json:"gross_pay"`
	Deductions         DeductionsDTO `json:"deductions"`
	NetPay             string        `json:"net_pay"`
}

func payslipDTO(result payroll.Result) PayslipDTO {
	return PayslipDTO{
		EmployeeID:         result.EmployeeID,
		Period:             periodDTO(result.Period),
		BasePay:            money(result.BasePay),
		OvertimePay:        money(result.OvertimePay),
		LateDeduction:      money(result.LateDeduction),
		UndertimeDeduction: money(result.UndertimeDeduction),
		AbsenceDeduction:   money(result.AbsenceDeduction),
		GrossPay:           money(result.GrossPay),
		Deductions:         deductionsDTO(result.Deductions),
		NetPay:             money(result.NetPay),
	}
}

// RunDTO is the wire form of a batch payroll run.
type RunDTO struct {
	ID        string       `json:"id"`
	Period    PeriodDTO    `json:"period"`
	CreatedAt string       `json:"created_at"`
	Outcomes  []OutcomeDTO `json:"outcomes"`
}

// OutcomeDTO is one employee's slot in a run.
type OutcomeDTO struct {
	EmployeeID string      `json:"employee_id"`
	Payslip    *PayslipDTO `json:"payslip,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func runDTO(run payroll.Run) RunDTO {
	outcomes := make([]OutcomeDTO, len(run.Outcomes))
	for i, outcome := range run.Outcomes {
		dto := OutcomeDTO{EmployeeID: outcome.EmployeeID, Error: outcome.Err}
		if outcome.Result != nil {
			slip := payslipDTO(*outcome.Result)
			dto.Payslip = &slip
		}
		outcomes[i] = dto
	}
	return RunDTO{
		ID:        run.ID,
		Period:    periodDTO(run.Period),
		CreatedAt: run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Outcomes:  outcomes,
	}
}

// =============================================================================
// FORMATTING
// =============================================================================

func money(a engine.Amount) string { return a.Value.StringFixed(2) }
func hours(a engine.Amount) string { return a.Value.StringFixed(2) }
