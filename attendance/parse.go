/*
parse.go - Attendance-row parsing

PURPOSE:
  Converts raw attendance-log rows (the export format owned by the
  attendance-reader collaborator) into Days. A malformed date makes the
  row unusable and it is reported and skipped; a malformed clock time
  leaves that side of the day in the explicit unparsed state so the day
  is retained but excluded from totals. Nothing here aborts a batch.
*/
package attendance

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/motorph/payroll-engine/engine"
)

// Row is one raw line of the attendance export.
type Row struct {
	EmployeeID string
	Date       string // MM/dd/yyyy
	TimeIn     string
	TimeOut    string
}

// RowError describes one rejected row.
type RowError struct {
	Index  int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Index, e.Reason)
}

// ParseRow converts one raw row into a Day. The error is non-nil only when
// the row is unusable (missing employee or unparsable date); unparsed clock
// times produce an incomplete Day, not an error.
func ParseRow(row Row) (Day, error) {
	if row.EmployeeID == "" {
		return Day{}, errors.New("missing employee id")
	}

	date, err := engine.ParseDate(row.Date)
	if err != nil {
		return Day{}, err
	}

	// Clock parse failures intentionally fall through: the unparsed
	// TimeOfDay marks the day incomplete.
	timeIn, _ := engine.ParseClock(row.TimeIn)
	timeOut, _ := engine.ParseClock(row.TimeOut)

	return Day{
		EmployeeID: row.EmployeeID,
		Date:       date,
		TimeIn:     timeIn,
		TimeOut:    timeOut,
	}, nil
}

// ParseRows converts a batch of rows, collecting per-row failures instead
// of failing the batch. Each failure is also logged.
func ParseRows(rows []Row, logger *zap.Logger) ([]Day, []RowError) {
	if logger == nil {
		logger = zap.NewNop()
	}

	days := make([]Day, 0, len(rows))
	var failures []RowError
	for i, row := range rows {
		day, err := ParseRow(row)
		if err != nil {
			failures = append(failures, RowError{Index: i, Reason: err.Error()})
			logger.Warn("skipping malformed attendance row",
				zap.Int("row", i),
				zap.String("employee_id", row.EmployeeID),
				zap.Error(err))
			continue
		}
		if !day.IsComplete() {
			logger.Warn("attendance row has unparsed clock time",
				zap.Int("row", i),
				zap.String("employee_id", row.EmployeeID),
				zap.String("time_in", row.TimeIn),
				zap.String("time_out", row.TimeOut))
		}
		days = append(days, day)
	}
	return days, failures
}
