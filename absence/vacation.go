/*
vacation.go - Per-year vacation accrual and the all-time vacation overview

ACCRUAL MODEL:
  Vacation is earned in arrears: days worked in year Y-1 earn days usable
  in year Y, prorated by when the employee started. The hire year itself
  earns nothing.

  earned(Y) = round(daysWorkedIn(Y-1) * 25 / 365.2425)
  daysWorkedIn(Y-1) = 0                          when Y is the hire year
                    = 365.2425 - dayOfYear(hire) when Y-1 is the hire year
                    = 365.2425                   otherwise

SPENDING:
  A vacation entry spends value/7.5 days in its year. Entries on weekends
  or red days do not count; hours logged there are recording anomalies.

BALANCE:
  Years run in order from the hire year. A year's deficit can consume at
  most what the running balance holds; the balance never goes negative.
*/
package absence

import (
	"github.com/shopspring/decimal"

	"github.com/SSotonass/alvtime/timesheet"
)

var (
	// vacationDaysPerYear is the full annual vacation entitlement.
	vacationDaysPerYear = decimal.NewFromInt(25)
	// daysInYear is the mean Gregorian year length used for proration.
	daysInYear = decimal.NewFromFloat(365.2425)
)

// VacationReport is the all-time vacation overview for one user.
type VacationReport struct {
	PlannedDaysThisYear decimal.Decimal
	UsedDaysThisYear    decimal.Decimal
	AvailableDays       decimal.Decimal
	PlannedTransactions []timesheet.TimeEntry
	UsedTransactions    []timesheet.TimeEntry
}

// RedDayLookup is the part of the holiday calendar the vacation calculator
// needs.
type RedDayLookup interface {
	IsRedDay(d timesheet.Date) bool
}

// VacationOverview computes the vacation report from all paid and unpaid
// vacation entries between the hire date and Dec 31 of currentYear.
func VacationOverview(
	user timesheet.User,
	currentYear int,
	entries []timesheet.TimeEntry,
	redDays RedDayLookup,
	now timesheet.Date,
) VacationReport {
	var planned, used []timesheet.TimeEntry
	for _, e := range entries {
		if !e.Value.IsPositive() || e.Date.IsWeekend() || redDays.IsRedDay(e.Date) {
			continue
		}
		if e.Date.After(now) {
			planned = append(planned, e)
		} else {
			used = append(used, e)
		}
	}

	spentByYear := make(map[int]decimal.Decimal)
	for _, e := range append(append([]timesheet.TimeEntry{}, planned...), used...) {
		y := e.Date.Year()
		spentByYear[y] = spentByYear[y].Add(e.Value)
	}

	available := decimal.Zero
	for year := user.StartDate.Year(); year <= currentYear; year++ {
		earned := earnedDays(user.StartDate, year)
		spent := spentByYear[year].Div(timesheet.WorkdayLength)

		delta := earned.Sub(spent)
		if delta.IsNegative() {
			// Debt is capped at what is actually available.
			deficit := delta.Neg()
			if deficit.GreaterThan(available) {
				deficit = available
			}
			available = available.Sub(deficit)
		} else {
			available = available.Add(delta)
		}
	}

	return VacationReport{
		PlannedDaysThisYear: sumHoursInYear(planned, now.Year()).Div(timesheet.WorkdayLength),
		UsedDaysThisYear:    sumHoursInYear(used, now.Year()).Div(timesheet.WorkdayLength),
		AvailableDays:       available,
		PlannedTransactions: planned,
		UsedTransactions:    used,
	}
}

// earnedDays returns the whole vacation days earned for a year, prorated by
// the days worked in the prior year. The hire year earns nothing.
func earnedDays(hireDate timesheet.Date, year int) decimal.Decimal {
	hireYear := hireDate.Year()

	var daysWorkedPriorYear decimal.Decimal
	switch {
	case year == hireYear:
		return decimal.Zero
	case year == hireYear+1:
		daysWorkedPriorYear = daysInYear.Sub(decimal.NewFromInt(int64(hireDate.YearDay())))
	default:
		daysWorkedPriorYear = daysInYear
	}

	return daysWorkedPriorYear.Mul(vacationDaysPerYear.Div(daysInYear)).Round(0)
}

func sumHoursInYear(entries []timesheet.TimeEntry, year int) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if e.Date.Year() == year {
			sum = sum.Add(e.Value)
		}
	}
	return sum
}
