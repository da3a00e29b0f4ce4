/*
Package calendar computes the Norwegian public holiday calendar ("red days").

PURPOSE:
  Answers "is this date a red day?" and "which red days fall in this year
  range?" as a pure function of the year. Nothing is stored; the calendar
  is derived from a fixed algorithm and cached per year.

RED DAYS PER YEAR:
  Fixed:    Jan 1 (New Year), May 1 (Labour Day), May 17 (Constitution Day),
            Dec 25 (Christmas Day), Dec 26 (Boxing Day)
  Movable:  Maundy Thursday, Good Friday, Easter Monday, Ascension Day,
            Whit Monday - all offsets from Easter Sunday

EASTER:
  Easter Sunday is computed with the anonymous Gregorian computus. It is
  deterministic, so the whole calendar is cacheable by year.

SEE ALSO:
  - absence: excludes red days from vacation accounting
  - overtime: a red day has zero workday capacity
  - invoice: red days reduce available hours
*/
package calendar

import (
	"sort"
	"sync"
	"time"

	"github.com/SSotonass/alvtime/timesheet"
)

// Calendar computes and caches red days per year. Safe for concurrent use.
type Calendar struct {
	mu    sync.Mutex
	years map[int][]timesheet.Date
}

// New creates an empty calendar.
func New() *Calendar {
	return &Calendar{years: make(map[int][]timesheet.Date)}
}

// RedDays returns every red day from yearFrom through yearTo inclusive,
// sorted ascending. An inverted range yields nil.
func (c *Calendar) RedDays(yearFrom, yearTo int) []timesheet.Date {
	var days []timesheet.Date
	for year := yearFrom; year <= yearTo; year++ {
		days = append(days, c.redDaysInYear(year)...)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// IsRedDay reports whether the date is a public holiday.
func (c *Calendar) IsRedDay(d timesheet.Date) bool {
	for _, red := range c.redDaysInYear(d.Year()) {
		if red.Equal(d) {
			return true
		}
	}
	return false
}

// IsWorkday reports whether the date is a weekday that is not a red day.
func (c *Calendar) IsWorkday(d timesheet.Date) bool {
	return !d.IsWeekend() && !c.IsRedDay(d)
}

func (c *Calendar) redDaysInYear(year int) []timesheet.Date {
	c.mu.Lock()
	defer c.mu.Unlock()

	if days, ok := c.years[year]; ok {
		return days
	}

	easter := EasterSunday(year)
	days := []timesheet.Date{
		timesheet.NewDate(year, time.January, 1),
		easter.AddDays(-3), // Maundy Thursday
		easter.AddDays(-2), // Good Friday
		easter.AddDays(1),  // Easter Monday
		timesheet.NewDate(year, time.May, 1),
		timesheet.NewDate(year, time.May, 17),
		easter.AddDays(39), // Ascension Day
		easter.AddDays(50), // Whit Monday
		timesheet.NewDate(year, time.December, 25),
		timesheet.NewDate(year, time.December, 26),
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	c.years[year] = days
	return days
}

// EasterSunday computes Easter Sunday for a year in the Gregorian calendar
// (anonymous Gregorian computus).
func EasterSunday(year int) timesheet.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return timesheet.NewDate(year, time.Month(month), day)
}
