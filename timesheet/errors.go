/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All domain error types in one place. The calculators and the store wrap
  these with context; the API layer classifies them into HTTP statuses.

ERROR CATEGORIES:
  1. Locked-resource errors - editing a locked task or entry
  2. Validation errors - non-quarter-hour values, overlapping rates
  3. Not-found errors - missing users, tasks or entries
  4. Configuration errors - a task with no compensation rate defined

USAGE:
    if timesheet.IsLocked(err) {
        // surface as a rejected operation, HTTP 409
    }
*/
package timesheet

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrTaskLocked is returned when registering or updating hours against
	// a locked task.
	ErrTaskLocked = errors.New("task is locked")

	// ErrEntryLocked is returned when updating an entry in a closed period.
	ErrEntryLocked = errors.New("time entry is locked")

	// ErrUserNotFound is returned when a user lookup finds no match.
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound is returned when an entry references an unknown task.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidQuarterHour is returned before any write when an hour value
	// does not divide into quarter hours.
	ErrInvalidQuarterHour = errors.New("hours must be a multiple of 0.25")

	// ErrOverlappingEmploymentRates is returned when more than one
	// employment rate covers the same date.
	ErrOverlappingEmploymentRates = errors.New("more than one employment rate configured for date")

	// ErrNoCompensationRate is returned when no rate resolves for a task.
	// This is a configuration error, not a data error.
	ErrNoCompensationRate = errors.New("no compensation rate configured for task")

	// ErrInvalidPeriod is returned when a query range ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// LockedError reports which resource rejected a write.
type LockedError struct {
	TaskID  int
	EntryID int64 // zero when the task itself is locked
}

func (e *LockedError) Error() string {
	if e.EntryID != 0 {
		return fmt.Sprintf("time entry %d is locked", e.EntryID)
	}
	return fmt.Sprintf("task %d is locked", e.TaskID)
}

func (e *LockedError) Unwrap() error {
	if e.EntryID != 0 {
		return ErrEntryLocked
	}
	return ErrTaskLocked
}

// QuarterHourError reports the offending value of a granularity violation.
type QuarterHourError struct {
	TaskID int
	Value  decimal.Decimal
}

func (e *QuarterHourError) Error() string {
	return fmt.Sprintf("task %d: %s hours is not a quarter-hour multiple", e.TaskID, e.Value)
}

func (e *QuarterHourError) Unwrap() error { return ErrInvalidQuarterHour }

// NoRateError reports the task and date for which no rate resolved.
type NoRateError struct {
	TaskID int
	Date   Date
}

func (e *NoRateError) Error() string {
	return fmt.Sprintf("task %d: no compensation rate effective on %s", e.TaskID, e.Date)
}

func (e *NoRateError) Unwrap() error { return ErrNoCompensationRate }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsLocked reports whether the error is a locked-resource rejection.
func IsLocked(err error) bool {
	return errors.Is(err, ErrTaskLocked) || errors.Is(err, ErrEntryLocked)
}

// IsValidation reports whether the error is due to invalid input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuarterHour) ||
		errors.Is(err, ErrOverlappingEmploymentRates) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound reports whether the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrTaskNotFound)
}
