package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorph/payroll-engine/api"
	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/factory"
	"github.com/motorph/payroll-engine/payroll"
	"github.com/motorph/payroll-engine/store/memory"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

func newTestRouter() http.Handler {
	st := memory.New()
	cfg := factory.DefaultConfig()

	aggregator := attendance.NewAggregator(attendance.NewResolver(cfg.Attendance), nil)
	processor := payroll.NewProcessor(cfg.Deductions, cfg.Payroll, nil)
	runner := payroll.NewRunner(processor, aggregator, st, st, nil)

	handler := api.NewHandler(st, aggregator, processor, runner, cfg.Deductions, nil)
	return api.NewRouter(handler)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func seedEmployee(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{
		ID:                 id,
		LastName:           "Garcia",
		FirstName:          "Maria",
		Position:           "Accountant",
		MonthlyBasicSalary: "20000",
		SemiMonthlyRate:    "10000",
		HourlyRate:         "100",
		DailyRate:          "800",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// importFullPeriod posts a complete 08:00-17:00 day for each workday of
// the June 2024 end-month window (Jun 13-26).
func importFullPeriod(t *testing.T, router http.Handler, id string) {
	t.Helper()
	var rows []api.AttendanceRowDTO
	for day := 13; day <= 26; day++ {
		weekday := time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC).Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			continue
		}
		rows = append(rows, api.AttendanceRowDTO{
			EmployeeID: id,
			Date:       fmt.Sprintf("06/%02d/2024", day),
			TimeIn:     "0800",
			TimeOut:    "1700",
		})
	}
	rec := do(t, router, http.MethodPost, "/api/attendance/import", api.ImportAttendanceRequest{Rows: rows})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployeeLifecycle(t *testing.T) {
	router := newTestRouter()
	seedEmployee(t, router, "10001")

	rec := do(t, router, http.MethodGet, "/api/employees/10001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	emp := decode[api.EmployeeDTO](t, rec)
	assert.Equal(t, "Garcia", emp.LastName)
	assert.Equal(t, "20000.00", emp.MonthlyBasicSalary)
	assert.Equal(t, "100.00", emp.HourlyRate)

	rec = do(t, router, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.EmployeeDTO](t, rec), 1)
}

func TestGetEmployee_NotFound(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodGet, "/api/employees/99999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateEmployee_Validation(t *testing.T) {
	router := newTestRouter()

	// missing required rates
	rec := do(t, router, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{ID: "10001"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// negative rate
	rec = do(t, router, http.MethodPost, "/api/employees", api.CreateEmployeeRequest{
		ID: "10001", LastName: "x", FirstName: "y",
		MonthlyBasicSalary: "-1", SemiMonthlyRate: "1", HourlyRate: "1", DailyRate: "1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestImportAttendance_ReportsRejectedRows(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodPost, "/api/attendance/import", api.ImportAttendanceRequest{
		Rows: []api.AttendanceRowDTO{
			{EmployeeID: "10001", Date: "06/13/2024", TimeIn: "0800", TimeOut: "1700"},
			{EmployeeID: "10002", Date: "bogus", TimeIn: "0800", TimeOut: "1700"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[api.ImportAttendanceResponse](t, rec)
	assert.Equal(t, 1, resp.Imported)
	require.Len(t, resp.Rejected, 1)
	assert.Equal(t, 1, resp.Rejected[0].Index)
}

func TestGetAttendance_PeriodTotals(t *testing.T) {
	router := newTestRouter()
	seedEmployee(t, router, "10001")
	importFullPeriod(t, router, "10001")

	rec := do(t, router, http.MethodGet, "/api/employees/10001/attendance?year=2024&month=6&period=end_month", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	totals := decode[api.PeriodTotalsDTO](t, rec)
	assert.Equal(t, 10, totals.DaysPresent)
	assert.Equal(t, "80.00", totals.HoursWorked)
	assert.Equal(t, "80.00", totals.ExpectedHours)
	assert.False(t, totals.HasUnpaidAbsence)
}

func TestGetWeeklyAttendance(t *testing.T) {
	router := newTestRouter()
	seedEmployee(t, router, "10001")
	importFullPeriod(t, router, "10001")

	rec := do(t, router, http.MethodGet, "/api/employees/10001/attendance/weekly?from=2024-06-13&to=2024-06-26", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	weeks := decode[[]api.WeekTotalsDTO](t, rec)
	require.Len(t, weeks, 3) // Thu-Fri, Mon-Fri, Mon-Wed
	assert.Equal(t, 2, weeks[0].DaysPresent)
	assert.Equal(t, 5, weeks[1].DaysPresent)
	assert.Equal(t, 3, weeks[2].DaysPresent)
}

// =============================================================================
// PERIODS AND DEDUCTIONS
// =============================================================================

func TestListPeriods(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodGet, "/api/periods?year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.PeriodDTO](t, rec), 24)

	rec = do(t, router, http.MethodGet, "/api/periods?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewDeductions(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodPost, "/api/deductions/preview", api.DeductionPreviewRequest{
		MonthlyGross: "20000",
		PeriodType:   "mid_month",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	preview := decode[api.DeductionPreviewResponse](t, rec)
	assert.Equal(t, "900.00", preview.Monthly.SocialInsurance)
	assert.Equal(t, "600.00", preview.Monthly.HealthInsurance)
	assert.Equal(t, "100.00", preview.Monthly.HousingFund)
	assert.Equal(t, "0.00", preview.Monthly.IncomeTax)
	assert.Equal(t, "1600.00", preview.Monthly.Total)
	assert.Equal(t, "800.00", preview.SemiMonthlyTotal)
}

// =============================================================================
// PAYROLL
// =============================================================================

func TestComputePayroll_SingleEmployee(t *testing.T) {
	router := newTestRouter()
	seedEmployee(t, router, "10001")
	importFullPeriod(t, router, "10001")

	rec := do(t, router, http.MethodPost, "/api/employees/10001/payroll", api.ComputePayrollRequest{
		Year: 2024, Month: 6, PeriodType: "end_month",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	slip := decode[api.PayslipDTO](t, rec)
	assert.Equal(t, "10000.00", slip.BasePay)
	assert.Equal(t, "10000.00", slip.GrossPay)
	assert.Equal(t, "0.00", slip.Deductions.IncomeTax) // exempt after contributions
	assert.Equal(t, "10000.00", slip.NetPay)
	assert.Equal(t, "2024-06-28", slip.Period.PayDate)
}

func TestCreateAndFetchRun(t *testing.T) {
	router := newTestRouter()
	seedEmployee(t, router, "10001")
	seedEmployee(t, router, "10002")
	importFullPeriod(t, router, "10001")
	// 10002 has no attendance: still gets a payslip, just an empty period

	rec := do(t, router, http.MethodPost, "/api/payroll/runs", api.ComputePayrollRequest{
		Year: 2024, Month: 6, PeriodType: "mid_month",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	run := decode[api.RunDTO](t, rec)
	assert.NotEmpty(t, run.ID)
	require.Len(t, run.Outcomes, 2)
	assert.Equal(t, "10001", run.Outcomes[0].EmployeeID)
	require.NotNil(t, run.Outcomes[0].Payslip)

	rec = do(t, router, http.MethodGet, "/api/payroll/runs/"+run.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decode[api.RunDTO](t, rec)
	assert.Equal(t, run.ID, fetched.ID)
	require.Len(t, fetched.Outcomes, 2)

	rec = do(t, router, http.MethodGet, "/api/payroll/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.RunDTO](t, rec), 1)
}

func TestGetRun_NotFound(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodGet, "/api/payroll/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
