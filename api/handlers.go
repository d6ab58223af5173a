/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                       List all employees
    POST   /api/employees                       Create/replace employee
    GET    /api/employees/{id}                  Get employee details
    GET    /api/employees/{id}/attendance        Period attendance totals
    GET    /api/employees/{id}/attendance/weekly ISO-week subtotals
    POST   /api/employees/{id}/payroll          Compute one payslip

  Attendance:
    POST   /api/attendance/import               Import raw log rows

  Periods:
    GET    /api/periods?year=2024               Pay-period catalog

  Deductions:
    POST   /api/deductions/preview              Statutory withholding preview

  Payroll runs:
    POST   /api/payroll/runs                    Batch run over the roster
    GET    /api/payroll/runs                    List runs
    GET    /api/payroll/runs/{id}               Get one run

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee or run not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. Run behind a trusted gateway.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/deduction"
	"github.com/motorph/payroll-engine/engine"
	"github.com/motorph/payroll-engine/payroll"
	"github.com/motorph/payroll-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      store.Store
	Aggregator attendance.Aggregator
	Processor  *payroll.Processor
	Runner     *payroll.Runner
	Deductions deduction.Engine
	Logger     *zap.Logger

	validate *validator.Validate
}

// NewHandler creates a handler with the given dependencies.
func NewHandler(st store.Store, aggregator attendance.Aggregator, processor *payroll.Processor, runner *payroll.Runner, deductions deduction.Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:      st,
		Aggregator: aggregator,
		Processor:  processor,
		Runner:     runner,
		Deductions: deductions,
		Logger:     logger,
		validate:   validator.New(),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = employeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if engine.IsNotFound(err) {
		h.writeError(w, http.StatusNotFound, "Employee not found", err)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, employeeDTO(emp))
}

// CreateEmployee creates or replaces an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return
	}

	profile := payroll.RateProfile{EmployeeID: req.ID}
	for _, field := range []struct {
		name   string
		raw    string
		target *engine.Amount
	}{
		{"monthly_basic_salary", req.MonthlyBasicSalary, &profile.MonthlyBasicSalary},
		{"semi_monthly_rate", req.SemiMonthlyRate, &profile.SemiMonthlyRate},
		{"hourly_rate", req.HourlyRate, &profile.HourlyRate},
		{"daily_rate", req.DailyRate, &profile.DailyRate},
	} {
		amount, err := parseMoney(field.name, field.raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid rate", err)
			return
		}
		*field.target = amount
	}

	emp := store.Employee{
		ID:        req.ID,
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Position:  req.Position,
		Profile:   profile,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeDTO(emp))
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// ImportAttendance ingests raw attendance-log rows. Malformed rows are
// reported back, never fail the batch.
func (h *Handler) ImportAttendance(w http.ResponseWriter, r *http.Request) {
	var req ImportAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid import", err)
		return
	}

	rows := make([]attendance.Row, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = attendance.Row{
			EmployeeID: row.EmployeeID,
			Date:       row.Date,
			TimeIn:     row.TimeIn,
			TimeOut:    row.TimeOut,
		}
	}

	days, failures := attendance.ParseRows(rows, h.Logger)
	if err := h.Store.SaveDays(r.Context(), days); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to save attendance", err)
		return
	}

	resp := ImportAttendanceResponse{Imported: len(days)}
	for _, failure := range failures {
		resp.Rejected = append(resp.Rejected, RowErrorDTO{Index: failure.Index, Reason: failure.Reason})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAttendance returns one employee's totals for a pay period
// (?year=2024&month=6&period=mid_month).
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	period, err := periodFromQuery(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid period selection", err)
		return
	}

	if _, err := h.Store.GetEmployee(r.Context(), id); err != nil {
		if engine.IsNotFound(err) {
			h.writeError(w, http.StatusNotFound, "Employee not found", err)
		} else {
			h.writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		}
		return
	}

	days, err := h.Store.DaysInPeriod(r.Context(), id, period)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to load attendance", err)
		return
	}

	totals := h.Aggregator.Totals(id, days, period, attendance.NoAbsenceData{})
	writeJSON(w, http.StatusOK, periodTotalsDTO(totals, period))
}

// GetWeeklyAttendance returns ISO-week subtotals over a date range
// (?from=2024-06-01&to=2024-06-30).
func (h *Handler) GetWeeklyAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	from, err := dateFromQuery(r, "from")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := dateFromQuery(r, "to")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}
	if to.Before(from) {
		h.writeError(w, http.StatusBadRequest, "Range end precedes start", nil)
		return
	}

	days, err := h.Store.DaysInRange(r.Context(), id, from, to)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to load attendance", err)
		return
	}

	weeks := h.Aggregator.Weekly(days, from, to)
	dtos := make([]WeekTotalsDTO, len(weeks))
	for i, week := range weeks {
		dtos[i] = weekTotalsDTO(week)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// ListPeriods returns the 24 pay periods of a year (?year=2024).
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		h.writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	periods := engine.PeriodsForYear(year)
	dtos := make([]PeriodDTO, len(periods))
	for i, period := range periods {
		dtos[i] = periodDTO(period)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// DEDUCTION HANDLERS
// =============================================================================

// PreviewDeductions returns what would be withheld from a monthly salary
// on the given half of the cycle.
func (h *Handler) PreviewDeductions(w http.ResponseWriter, r *http.Request) {
	var req DeductionPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid preview request", err)
		return
	}

	gross, err := parseMoney("monthly_gross", req.MonthlyGross)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid monthly gross", err)
		return
	}

	pt, _ := engine.NormalizePeriodType(req.PeriodType)
	result := h.Deductions.Compute(gross, pt)
	writeJSON(w, http.StatusOK, DeductionPreviewResponse{
		Monthly:          deductionsDTO(result),
		SemiMonthlyTotal: money(result.Total.Half()),
	})
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// ComputePayroll computes one employee's payslip for a period.
func (h *Handler) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	period, err := h.periodFromBody(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid period selection", err)
		return
	}

	profile, err := h.Store.Profile(r.Context(), id)
	if engine.IsNotFound(err) {
		h.writeError(w, http.StatusNotFound, "Employee not found", err)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}

	days, err := h.Store.DaysInPeriod(r.Context(), id, period)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to load attendance", err)
		return
	}

	totals := h.Aggregator.Totals(id, days, period, attendance.NoAbsenceData{})
	result := h.Processor.Process(profile, totals, period)
	writeJSON(w, http.StatusOK, payslipDTO(result))
}

// CreateRun executes a batch payroll run over the full roster and
// persists it.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromBody(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid period selection", err)
		return
	}

	run, err := h.Runner.Run(r.Context(), period)
	if engine.IsClientError(err) {
		h.writeError(w, http.StatusBadRequest, "Invalid period selection", err)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Payroll run failed", err)
		return
	}

	if err := h.Store.SaveRun(r.Context(), run); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to save payroll run", err)
		return
	}
	writeJSON(w, http.StatusCreated, runDTO(run))
}

// ListRuns returns all stored payroll runs.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = runDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one stored payroll run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetRun(r.Context(), id)
	if engine.IsNotFound(err) {
		h.writeError(w, http.StatusNotFound, "Payroll run not found", err)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	writeJSON(w, http.StatusOK, runDTO(run))
}

// =============================================================================
// REQUEST PARSING
// =============================================================================

func (h *Handler) periodFromBody(r *http.Request) (engine.PayPeriod, error) {
	var req ComputePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return engine.PayPeriod{}, err
	}
	if err := h.validate.Struct(req); err != nil {
		return engine.PayPeriod{}, err
	}
	pt, _ := engine.NormalizePeriodType(req.PeriodType)
	return engine.PeriodFor(req.Year, time.Month(req.Month), pt)
}

func periodFromQuery(r *http.Request) (engine.PayPeriod, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		return engine.PayPeriod{}, fmt.Errorf("invalid year %q", r.URL.Query().Get("year"))
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return engine.PayPeriod{}, fmt.Errorf("invalid month %q", r.URL.Query().Get("month"))
	}
	pt, _ := engine.NormalizePeriodType(r.URL.Query().Get("period"))
	return engine.PeriodFor(year, time.Month(month), pt)
}

func dateFromQuery(r *http.Request, key string) (engine.Date, error) {
	raw := r.URL.Query().Get(key)
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return engine.Date{}, fmt.Errorf("invalid %s date %q (expected YYYY-MM-DD)", key, raw)
	}
	return engine.DateOf(t), nil
}

func parseMoney(field, raw string) (engine.Amount, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return engine.Amount{}, fmt.Errorf("%s: invalid decimal %q", field, raw)
	}
	if d.IsNegative() {
		return engine.Amount{}, fmt.Errorf("%s: %q is negative", field, raw)
	}
	return engine.Amount{Value: d, Unit: engine.UnitPesos}, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error(message, zap.Error(err))
	}
	writeJSON(w, status, resp)
}
