/*
Package absence computes sick-leave usage and vacation accrual from raw
time entries.

PURPOSE:
  Two read-path calculators with no side effects:
  - Sick leave: groups consecutive sick days into coherence runs and caps
    usable days by the statutory rule
  - Vacation: per-year earned/spent accounting from the hire date forward

SICK LEAVE RULE:
  The law allows self-certified sick leave of up to 3 calendar days in a
  row, up to 4 times within a 12 month period. A run of consecutive sick
  days therefore counts in chunks of at most 3, and at most 12 days count
  in total.

SEE ALSO:
  - vacation.go: the vacation-day side of the package
  - calendar: red day lookups used by the vacation calculator
*/
package absence

import (
	"sort"

	"github.com/SSotonass/alvtime/timesheet"
)

const (
	// sickLeaveGroupSize is the maximum length of one self-certified run.
	sickLeaveGroupSize = 3
	// sickLeaveGroupAmount is how many runs the 12-month window allows.
	sickLeaveGroupAmount = 4
)

// SickLeaveReport is the absence overview for a 12-month window.
type SickLeaveReport struct {
	EntitledDays int
	UsedDays     int
}

// SickLeaveWindow returns the 12-month window the sick-day calculation
// covers: [start, start+12mo] when a start is supplied, otherwise the
// rolling 12 months ending now.
func SickLeaveWindow(intervalStart *timesheet.Date, now timesheet.Date) (timesheet.Date, timesheet.Date) {
	if intervalStart != nil {
		return *intervalStart, intervalStart.AddMonths(12)
	}
	return now.AddMonths(-12), now
}

// SickDays computes used sick days from the entries of the window. Input
// order does not matter and duplicates are tolerated; the calculator never
// fails.
func SickDays(entries []timesheet.TimeEntry) SickLeaveReport {
	runs := coherentRuns(entries)

	groups := 0
	for _, run := range runs {
		groups += (run + sickLeaveGroupSize - 1) / sickLeaveGroupSize
	}
	if groups > sickLeaveGroupAmount {
		groups = sickLeaveGroupAmount
	}

	return SickLeaveReport{
		EntitledDays: sickLeaveGroupSize * sickLeaveGroupAmount,
		UsedDays:     groups * sickLeaveGroupSize,
	}
}

// coherentRuns builds maximal runs of calendar-consecutive sick days and
// returns each run's length in days. Adjacency is true calendar-date
// arithmetic, so a run may span a year boundary.
func coherentRuns(entries []timesheet.TimeEntry) []int {
	var days []timesheet.Date
	seen := make(map[timesheet.Date]bool)
	for _, e := range entries {
		if !e.Value.IsPositive() || seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		days = append(days, e.Date)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var runs []int
	for i, d := range days {
		if i > 0 && days[i-1].DaysBetween(d) == 1 {
			runs[len(runs)-1]++
			continue
		}
		runs = append(runs, 1)
	}
	return runs
}
