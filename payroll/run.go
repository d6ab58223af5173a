package payroll

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/motorph/payroll-engine/attendance"
	"github.com/motorph/payroll-engine/engine"
)

// =============================================================================
// BATCH RUN - Whole-roster payroll over a worker pool
// =============================================================================

// EmployeeSource lists the rate profiles a run covers.
type EmployeeSource interface {
	ListProfiles(ctx context.Context) ([]RateProfile, error)
}

// AttendanceSource fetches one employee's attendance days for a period.
type AttendanceSource interface {
	DaysInPeriod(ctx context.Context, employeeID string, period engine.PayPeriod) ([]attendance.Day, error)
}

// Outcome is one employee's slot in a run: either a payslip or the
// reason none could be computed. A failed employee never fails the run.
type Outcome struct {
	EmployeeID string
	Result     *Result
	Err        string
}

// Run is one batch computation over the full roster.
type Run struct {
	ID        string
	Period    engine.PayPeriod
	CreatedAt time.Time
	Outcomes  []Outcome
}

// Runner fans payslip computation out over a bounded worker pool.
type Runner struct {
	Processor  *Processor
	Aggregator attendance.Aggregator
	Employees  EmployeeSource
	Attendance AttendanceSource
	Classifier attendance.AbsenceClassifier
	Workers    int
	Logger     *zap.Logger
}

const defaultWorkers = 4

// NewRunner wires a Runner with sane defaults for the optional fields.
func NewRunner(processor *Processor, aggregator attendance.Aggregator, employees EmployeeSource, attendanceSource AttendanceSource, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Processor:  processor,
		Aggregator: aggregator,
		Employees:  employees,
		Attendance: attendanceSource,
		Classifier: attendance.NoAbsenceData{},
		Workers:    defaultWorkers,
		Logger:     logger,
	}
}

// Run computes payslips for every employee in the roster. The returned
// error covers only run-level failures (listing the roster, a cancelled
// context); per-employee failures land in their Outcome.
func (r *Runner) Run(ctx context.Context, period engine.PayPeriod) (Run, error) {
	if err := period.Validate(); err != nil {
		return Run{}, err
	}

	profiles, err := r.Employees.ListProfiles(ctx)
	if err != nil {
		return Run{}, err
	}

	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(profiles) && len(profiles) > 0 {
		workers = len(profiles)
	}

	jobs := make(chan RateProfile)
	outcomes := make([]Outcome, 0, len(profiles))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for profile := range jobs {
				outcome := r.compute(ctx, profile, period)
				mu.Lock()
				outcomes = append(outcomes, outcome)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, profile := range profiles {
		select {
		case jobs <- profile:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Run{}, err
	}

	// Workers finish in arbitrary order; report deterministically.
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].EmployeeID < outcomes[j].EmployeeID
	})

	run := Run{
		ID:        uuid.NewString(),
		Period:    period,
		CreatedAt: time.Now().UTC(),
		Outcomes:  outcomes,
	}
	r.Logger.Info("payroll run complete",
		zap.String("run_id", run.ID),
		zap.String("period", period.String()),
		zap.Int("employees", len(outcomes)))
	return run, nil
}

func (r *Runner) compute(ctx context.Context, profile RateProfile, period engine.PayPeriod) Outcome {
	days, err := r.Attendance.DaysInPeriod(ctx, profile.EmployeeID, period)
	if err != nil {
		r.Logger.Warn("skipping employee in payroll run",
			zap.String("employee_id", profile.EmployeeID),
			zap.Error(err))
		return Outcome{EmployeeID: profile.EmployeeID, Err: err.Error()}
	}

	totals := r.Aggregator.Totals(profile.EmployeeID, days, period, r.classifier())
	result := r.Processor.Process(profile, totals, period)
	return Outcome{EmployeeID: profile.EmployeeID, Result: &result}
}

func (r *Runner) classifier() attendance.AbsenceClassifier {
	if r.Classifier == nil {
		return attendance.NoAbsenceData{}
	}
	return r.Classifier
}
