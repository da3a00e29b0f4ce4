/*
Package timesheet provides the core domain types for the time-tracking
calculation engine.

PURPOSE:
  This package contains the types and contracts shared by every calculator:
  time entries, tasks, compensation rates, derived overtime, and the store
  interfaces the calculators pull their data through.

KEY CONCEPTS IN THIS FILE (types.go):
  - Date: A calendar day (the only time granularity the system knows)
  - TimeEntry: Hours logged by a user against a task on a date
  - CompensationRate: A per-task overtime multiplier with an effective date
  - EarnedOvertime: Derived overtime, recomputed whenever a date changes

DESIGN PRINCIPLES:
  1. Precision: All hours and rates use decimal.Decimal, never float64
  2. Day granularity: Dates are UTC midnights; there are no timestamps
  3. Derived state: EarnedOvertime is a cache, TimeEntry is the only input

SEE ALSO:
  - errors.go: Error taxonomy (locked resources, validation, not-found)
  - store.go: Persistence interfaces consumed by the calculators
*/
package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Decimal hour values and the conventions around them
// =============================================================================

var (
	// WorkdayLength is the normal working day: 7.5 hours.
	WorkdayLength = decimal.NewFromFloat(7.5)

	// QuarterHour is the smallest bookable unit of time.
	QuarterHour = decimal.NewFromFloat(0.25)
)

// Hours builds a decimal hour value from a float literal. Test and seed
// convenience; production values come from parsed request payloads.
func Hours(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// ValidQuarterHour reports whether v divides evenly into quarter hours.
func ValidQuarterHour(v decimal.Decimal) bool {
	return v.Mod(QuarterHour).IsZero()
}

// =============================================================================
// DATE - Calendar day (UTC midnight)
// =============================================================================

// Date is a calendar day. The zero value is the zero time.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) YearDay() int          { return d.t.YearDay() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysBetween returns the signed number of calendar days from d to other.
// Adjacent days yield exactly 1 regardless of year boundaries, which is the
// property the sick-day grouping depends on.
func (d Date) DaysBetween(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// StartOfYear and EndOfYear bound a calendar year.
func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

// =============================================================================
// DOMAIN RECORDS
// =============================================================================

// TimeEntry is the only durable input of the system: hours logged by a user
// against a task on a date. Value carries quarter-hour granularity. Locked
// entries belong to a closed accounting period and reject edits.
type TimeEntry struct {
	ID     int64
	UserID int
	Date   Date
	TaskID int
	Value  decimal.Decimal
	Locked bool
}

// EntryWithCustomer is a TimeEntry joined with the customer the task bills
// to. The invoice-rate calculator needs the customer name to classify
// internal (non-billable) work.
type EntryWithCustomer struct {
	TimeEntry
	CustomerName string
}

// Task is a bookable activity. Locked tasks reject new and updated entries.
type Task struct {
	ID           int
	Name         string
	Project      string
	CustomerName string
	Locked       bool
}

// CompensationRate is an overtime multiplier for a task, effective from a
// date. Several rates can exist per task over time; the applicable rate for
// an entry is the latest one with FromDate on or before the entry date.
type CompensationRate struct {
	TaskID   int
	Value    decimal.Decimal
	FromDate Date
}

// ApplicableRate resolves the compensation rate for a task on a date from a
// rate list. Ties on FromDate resolve to the latest-configured rate, which
// is the last matching element in storage order.
func ApplicableRate(rates []CompensationRate, taskID int, date Date) (decimal.Decimal, error) {
	var (
		found bool
		best  CompensationRate
	)
	for _, r := range rates {
		if r.TaskID != taskID || r.FromDate.After(date) {
			continue
		}
		if !found || r.FromDate.AfterOrEqual(best.FromDate) {
			best = r
			found = true
		}
	}
	if !found {
		return decimal.Zero, &NoRateError{TaskID: taskID, Date: date}
	}
	return best.Value, nil
}

// EarnedOvertime is derived state: overtime hours earned on a date at a
// task's compensation rate. Rows are deleted and recreated whenever the
// entries for that (user, date) change; they are never edited.
type EarnedOvertime struct {
	ID               int64
	UserID           int
	Date             Date
	Value            decimal.Decimal
	CompensationRate decimal.Decimal
}

// User is an employee record. EndDate is nil while employed.
type User struct {
	ID        int
	Name      string
	Email     string
	StartDate Date
	EndDate   *Date
}

// EmploymentRate is a part-time fraction valid for a date interval. At most
// one rate may cover any given date.
type EmploymentRate struct {
	UserID   int
	Rate     decimal.Decimal
	FromDate Date
	ToDate   Date
}

// EmploymentRateAt resolves a user's employment rate on a date. More than
// one overlapping rate is a configuration error; no rate means full time.
func EmploymentRateAt(rates []EmploymentRate, date Date) (decimal.Decimal, error) {
	var matches []EmploymentRate
	for _, r := range rates {
		if r.FromDate.BeforeOrEqual(date) && r.ToDate.AfterOrEqual(date) {
			matches = append(matches, r)
		}
	}
	if len(matches) > 1 {
		return decimal.Zero, ErrOverlappingEmploymentRates
	}
	if len(matches) == 0 {
		return decimal.NewFromInt(1), nil
	}
	return matches[0].Rate, nil
}

// =============================================================================
// OPTIONS - Special task ids and company identity
// =============================================================================

// Options identifies the tasks with special meaning to the calculators and
// the company name used to classify internal work.
type Options struct {
	SickDaysTask      int
	PaidHolidayTask   int
	UnpaidHolidayTask int
	CompanyName       string
}

// IsVacationTask reports whether a task is the paid or unpaid holiday task.
func (o Options) IsVacationTask(taskID int) bool {
	return taskID == o.PaidHolidayTask || taskID == o.UnpaidHolidayTask
}
