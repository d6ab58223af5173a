/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Higher layers wrap these errors with additional context.

ERROR CATEGORIES:
  1. Parse failures   - malformed clock/date text; the record is skipped
  2. Invalid input    - negative rates/minutes, unknown period type; clamped
  3. Not found        - unknown employee; reported, never a crash
  4. Invariant bugs   - malformed periods; rejected at construction time

USAGE:
  if errors.Is(err, engine.ErrEmployeeNotFound) {
      // respond 404 instead of aborting the batch
  }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnparsedClock is returned when a clock-time token matches none of
	// the supported export formats.
	ErrUnparsedClock = errors.New("unparsed clock time")

	// ErrUnparsedDate is returned when an attendance date is not MM/dd/yyyy.
	ErrUnparsedDate = errors.New("unparsed date")

	// ErrInvalidPeriod is returned when a pay period is malformed
	// (end before start, pay date before end, month out of range).
	ErrInvalidPeriod = errors.New("invalid pay period")

	// ErrEmployeeNotFound is returned when a referenced employee has no
	// rate profile on record.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRunNotFound is returned when a referenced payroll run doesn't exist.
	ErrRunNotFound = errors.New("payroll run not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnparsedClockError carries the offending token for diagnostics.
type UnparsedClockError struct {
	Raw string
}

func (e *UnparsedClockError) Error() string {
	return fmt.Sprintf("unparsed clock time %q", e.Raw)
}

func (e *UnparsedClockError) Unwrap() error { return ErrUnparsedClock }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) || errors.Is(err, ErrRunNotFound)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnparsedClock) ||
		errors.Is(err, ErrUnparsedDate) ||
		errors.Is(err, ErrInvalidPeriod)
}
