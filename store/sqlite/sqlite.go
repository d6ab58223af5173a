/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements store.Store (employees, attendance days, payroll runs) using
  SQLite. In production, the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

REPRESENTATION:
  Monetary and hour figures are stored as decimal TEXT, never REAL, so a
  payslip read back is bit-identical to the one computed. Clock times are
  stored as minute-of-day INTEGER with -1 for the unparsed state, because
  the clock-text parser's PM heuristic means a formatted time string does
  not round-trip.

KEY TABLES:
  employees:           Identity plus the four pay-rate columns
  attendance_days:     One row per employee per date; re-import upserts
  payroll_runs:        One row per batch run
  payroll_run_results: Per-employee payslip or failure within a run

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not block
  the single writer.

USAGE:
  st, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/deduction"
	"github.com/motorph/payroll-engine/engine"
	"github.com/motorph/payroll-engine/payroll"
	"github.com/motorph/payroll-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return st, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		last_name TEXT NOT NULL,
		first_name TEXT NOT NULL,
		position TEXT,
		monthly_basic_salary TEXT NOT NULL,
		semi_monthly_rate TEXT NOT NULL,
		hourly_rate TEXT NOT NULL,
		daily_rate TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- One row per employee per calendar day; imports upsert
	CREATE TABLE IF NOT EXISTS attendance_days (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		time_in_minutes INTEGER NOT NULL DEFAULT -1,
		time_out_minutes INTEGER NOT NULL DEFAULT -1,
		created_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, date)
	);

	-- Cutoff-window scans are the hot path
	CREATE INDEX IF NOT EXISTS idx_attendance_employee_date
		ON attendance_days(employee_id, date);

	CREATE TABLE IF NOT EXISTS payroll_runs (
		id TEXT PRIMARY KEY,
		period_type TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		pay_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payroll_run_results (
		run_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		base_pay TEXT NOT NULL DEFAULT '0',
		overtime_pay TEXT NOT NULL DEFAULT '0',
		late_deduction TEXT NOT NULL DEFAULT '0',
		undertime_deduction TEXT NOT NULL DEFAULT '0',
		absence_deduction TEXT NOT NULL DEFAULT '0',
		gross_pay TEXT NOT NULL DEFAULT '0',
		social_insurance TEXT NOT NULL DEFAULT '0',
		health_insurance TEXT NOT NULL DEFAULT '0',
		housing_fund TEXT NOT NULL DEFAULT '0',
		income_tax TEXT NOT NULL DEFAULT '0',
		total_deductions TEXT NOT NULL DEFAULT '0',
		net_pay TEXT NOT NULL DEFAULT '0',
		PRIMARY KEY (run_id, employee_id),
		FOREIGN KEY (run_id) REFERENCES payroll_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_run_results_run
		ON payroll_run_results(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee inserts or updates an employee record.
func (s *Store) SaveEmployee(ctx context.Context, emp store.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.ID == "" {
		return fmt.Errorf("employee id is required")
	}

	query := `
		INSERT INTO employees
		(id, last_name, first_name, position,
		 monthly_basic_salary, semi_monthly_rate, hourly_rate, daily_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_name = excluded.last_name,
			first_name = excluded.first_name,
			position = excluded.position,
			monthly_basic_salary = excluded.monthly_basic_salary,
			semi_monthly_rate = excluded.semi_monthly_rate,
			hourly_rate = excluded.hourly_rate,
			daily_rate = excluded.daily_rate
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.LastName, emp.FirstName, emp.Position,
		emp.Profile.MonthlyBasicSalary.Value.String(),
		emp.Profile.SemiMonthlyRate.Value.String(),
		emp.Profile.HourlyRate.Value.String(),
		emp.Profile.DailyRate.Value.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, last_name, first_name, position,
		        monthly_basic_salary, semi_monthly_rate, hourly_rate, daily_rate
		 FROM employees WHERE id = ?`, id)

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return store.Employee{}, fmt.Errorf("employee %s: %w", id, engine.ErrEmployeeNotFound)
	}
	return emp, err
}

// ListEmployees returns all employees ordered by ID.
func (s *Store) ListEmployees(ctx context.Context) ([]store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, last_name, first_name, position,
		        monthly_basic_salary, semi_monthly_rate, hourly_rate, daily_rate
		 FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []store.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// ListProfiles returns the rate profiles of every employee.
func (s *Store) ListProfiles(ctx context.Context) ([]payroll.RateProfile, error) {
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]payroll.RateProfile, 0, len(employees))
	for _, emp := range employees {
		profiles = append(profiles, emp.Profile)
	}
	return profiles, nil
}

// Profile returns one employee's rate profile.
func (s *Store) Profile(ctx context.Context, id string) (payroll.RateProfile, error) {
	emp, err := s.GetEmployee(ctx, id)
	if err != nil {
		return payroll.RateProfile{}, err
	}
	return emp.Profile, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEmployee(row scannable) (store.Employee, error) {
	var emp store.Employee
	var monthly, semiMonthly, hourly, daily string
	var position sql.NullString

	err := row.Scan(&emp.ID, &emp.LastName, &emp.FirstName, &position,
		&monthly, &semiMonthly, &hourly, &daily)
	if err != nil {
		return emp, err
	}

	emp.Position = position.String
	emp.Profile = payroll.RateProfile{
		EmployeeID:         emp.ID,
		MonthlyBasicSalary: pesosFromText(monthly),
		SemiMonthlyRate:    pesosFromText(semiMonthly),
		HourlyRate:         pesosFromText(hourly),
		DailyRate:          pesosFromText(daily),
	}
	return emp, nil
}

// =============================================================================
// ATTENDANCE STORE
// =============================================================================

// SaveDays upserts a batch of attendance days atomically.
func (s *Store) SaveDays(ctx context.Context, days []attendance.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO attendance_days (employee_id, date, time_in_minutes, time_out_minutes, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			time_in_minutes = excluded.time_in_minutes,
			time_out_minutes = excluded.time_out_minutes
	`

	now := time.Now().UTC().Format(time.RFC3339)
	for _, day := range days {
		if day.EmployeeID == "" || day.Date.IsZero() {
			return fmt.Errorf("attendance day needs employee id and date")
		}
		_, err := tx.ExecContext(ctx, query,
			day.EmployeeID,
			day.Date.String(),
			day.TimeIn.MinuteOfDay(),
			day.TimeOut.MinuteOfDay(),
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to save attendance day: %w", err)
		}
	}

	return tx.Commit()
}

// DaysInPeriod returns the employee's days inside the period's cutoff window.
func (s *Store) DaysInPeriod(ctx context.Context, employeeID string, period engine.PayPeriod) ([]attendance.Day, error) {
	return s.DaysInRange(ctx, employeeID, period.Start, period.End)
}

// DaysInRange returns the employee's days in [from, to] inclusive,
// ordered by date.
func (s *Store) DaysInRange(ctx context.Context, employeeID string, from, to engine.Date) ([]attendance.Day, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, date, time_in_minutes, time_out_minutes
		 FROM attendance_days
		 WHERE employee_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC`,
		employeeID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []attendance.Day
	for rows.Next() {
		var day attendance.Day
		var dateStr string
		var inMinutes, outMinutes int
		if err := rows.Scan(&day.EmployeeID, &dateStr, &inMinutes, &outMinutes); err != nil {
			return nil, err
		}
		t, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt attendance date %q: %w", dateStr, err)
		}
		day.Date = engine.DateOf(t)
		day.TimeIn = clockFromMinutes(inMinutes)
		day.TimeOut = clockFromMinutes(outMinutes)
		days = append(days, day)
	}
	return days, rows.Err()
}

// =============================================================================
// RUN STORE
// =============================================================================

// SaveRun persists a batch run and all its per-employee outcomes atomically.
func (s *Store) SaveRun(ctx context.Context, run payroll.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payroll_runs (id, period_type, period_start, period_end, pay_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(run.Period.Type),
		run.Period.Start.String(),
		run.Period.End.String(),
		run.Period.PayDate.String(),
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save payroll run: %w", err)
	}

	resultQuery := `
		INSERT INTO payroll_run_results
		(run_id, employee_id, error,
		 base_pay, overtime_pay, late_deduction, undertime_deduction, absence_deduction, gross_pay,
		 social_insurance, health_insurance, housing_fund, income_tax, total_deductions, net_pay)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, outcome := range run.Outcomes {
		result := outcome.Result
		if result == nil {
			result = &payroll.Result{}
		}
		_, err := tx.ExecContext(ctx, resultQuery,
			run.ID, outcome.EmployeeID, outcome.Err,
			result.BasePay.Value.String(),
			result.OvertimePay.Value.String(),
			result.LateDeduction.Value.String(),
			result.UndertimeDeduction.Value.String(),
			result.AbsenceDeduction.Value.String(),
			result.GrossPay.Value.String(),
			result.Deductions.SocialInsurance.Value.String(),
			result.Deductions.HealthInsurance.Value.String(),
			result.Deductions.HousingFund.Value.String(),
			result.Deductions.IncomeTax.Value.String(),
			result.Deductions.Total.Value.String(),
			result.NetPay.Value.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to save run outcome: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run with its outcomes.
func (s *Store) GetRun(ctx context.Context, id string) (payroll.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := s.scanRun(ctx, id)
	if err != nil {
		return payroll.Run{}, err
	}

	outcomes, err := s.loadOutcomes(ctx, run)
	if err != nil {
		return payroll.Run{}, err
	}
	run.Outcomes = outcomes
	return run, nil
}

// ListRuns returns all runs, outcomes included, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]payroll.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, period_type, period_start, period_end, pay_date, created_at
		 FROM payroll_runs ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []payroll.Run
	for rows.Next() {
		run, err := scanRunRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		outcomes, err := s.loadOutcomes(ctx, runs[i])
		if err != nil {
			return nil, err
		}
		runs[i].Outcomes = outcomes
	}
	return runs, nil
}

func (s *Store) scanRun(ctx context.Context, id string) (payroll.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, period_type, period_start, period_end, pay_date, created_at
		 FROM payroll_runs WHERE id = ?`, id)

	run, err := scanRunRow(row)
	if err == sql.ErrNoRows {
		return payroll.Run{}, fmt.Errorf("payroll run %s: %w", id, engine.ErrRunNotFound)
	}
	return run, err
}

func scanRunRow(row scannable) (payroll.Run, error) {
	var run payroll.Run
	var periodType, start, end, payDate, createdAt string

	err := row.Scan(&run.ID, &periodType, &start, &end, &payDate, &createdAt)
	if err != nil {
		return run, err
	}

	pt, _ := engine.NormalizePeriodType(periodType)
	run.Period = engine.PayPeriod{
		Start:   dateFromText(start),
		End:     dateFromText(end),
		PayDate: dateFromText(payDate),
		Type:    pt,
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return run, nil
}

func (s *Store) loadOutcomes(ctx context.Context, run payroll.Run) ([]payroll.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, error,
		        base_pay, overtime_pay, late_deduction, undertime_deduction, absence_deduction, gross_pay,
		        social_insurance, health_insurance, housing_fund, income_tax, total_deductions, net_pay
		 FROM payroll_run_results WHERE run_id = ? ORDER BY employee_id ASC`,
		run.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []payroll.Outcome
	for rows.Next() {
		var outcome payroll.Outcome
		var basePay, overtime, late, undertime, absence, gross string
		var sss, health, housing, tax, total, net string

		if err := rows.Scan(&outcome.EmployeeID, &outcome.Err,
			&basePay, &overtime, &late, &undertime, &absence, &gross,
			&sss, &health, &housing, &tax, &total, &net); err != nil {
			return nil, err
		}

		if outcome.Err == "" {
			result := payroll.Result{
				EmployeeID:         outcome.EmployeeID,
				Period:             run.Period,
				BasePay:            pesosFromText(basePay),
				OvertimePay:        pesosFromText(overtime),
				LateDeduction:      pesosFromText(late),
				UndertimeDeduction: pesosFromText(undertime),
				AbsenceDeduction:   pesosFromText(absence),
				GrossPay:           pesosFromText(gross),
				Deductions: deduction.Result{
					SocialInsurance: pesosFromText(sss),
					HealthInsurance: pesosFromText(health),
					HousingFund:     pesosFromText(housing),
					IncomeTax:       pesosFromText(tax),
					Total:           pesosFromText(total),
				},
				NetPay: pesosFromText(net),
			}
			outcome.Result = &result
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func pesosFromText(s string) engine.Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		d = decimal.Zero
	}
	return engine.Amount{Value: d, Unit: engine.UnitPesos}
}

func dateFromText(s string) engine.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return engine.Date{}
	}
	return engine.DateOf(t)
}

func clockFromMinutes(minuteOfDay int) engine.TimeOfDay {
	if minuteOfDay < 0 {
		return engine.TimeOfDay{}
	}
	return engine.ClockTime(minuteOfDay/60, minuteOfDay%60)
}
