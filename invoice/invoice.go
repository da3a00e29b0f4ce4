/*
Package invoice computes billable ratios over arbitrary date ranges.

PURPOSE:
  Answers "how much of my available time was billed" for one user: a single
  ratio over a range, or a sequence of period buckets (daily, weekly,
  monthly, annual) for charting.

CLASSIFICATION:
  Every entry falls into exactly one class:
    VACATION      the paid or unpaid holiday task
    NON_BILLABLE  the task's customer is the company itself
                  (case-insensitive name match)
    BILLABLE      everything else

AVAILABLE HOURS:
  workdays in the range x 7.5, minus vacation hours. Weekends and red days
  are not available to begin with. When availability drops to zero or
  below, rates divide by 1 instead, so the ratio degrades to raw billable
  hours rather than a division by zero.

BUCKETING:
  Weeks start on Monday; a Sunday belongs to the week that began six days
  earlier. Buckets exist only where entries exist. The extend flags widen
  the queried range outward to the containing period boundary before
  grouping, so a partial first or last period can be reported in full.

SEE ALSO:
  - calendar: workday lookups
  - absence: the vacation-side view of the same holiday tasks
*/
package invoice

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SSotonass/alvtime/calendar"
	"github.com/SSotonass/alvtime/timesheet"
)

// Period selects the bucket granularity for Statistics.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Annual
)

// ParsePeriod maps the wire names onto the enum.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(s) {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "annual":
		return Annual, nil
	}
	return Daily, timesheet.ErrInvalidPeriod
}

// Extend is a bitmask widening the queried range to period boundaries.
type Extend int

const (
	ExtendStart Extend = 1 << iota
	ExtendEnd
)

// Class is the billing classification of a single entry.
type Class int

const (
	Billable Class = iota
	NonBillable
	Vacation
)

// Bucket is one reported period.
type Bucket struct {
	Start                  timesheet.Date
	End                    timesheet.Date
	BillableHours          decimal.Decimal
	NonBillableHours       decimal.Decimal
	VacationHours          decimal.Decimal
	InvoiceRate            decimal.Decimal
	NonBillableInvoiceRate decimal.Decimal
}

// Service computes invoice rates from stored entries.
type Service struct {
	Entries  timesheet.EntryStore
	Calendar *calendar.Calendar
	Options  timesheet.Options
}

// Classify returns the billing class of an entry given its customer name.
func (s *Service) Classify(taskID int, customerName string) Class {
	if s.Options.IsVacationTask(taskID) {
		return Vacation
	}
	if strings.EqualFold(customerName, s.Options.CompanyName) {
		return NonBillable
	}
	return Billable
}

// Rate returns the billable ratio over [from, to] as a single bucket.
// The range is clamped to start no earlier than the user's hire date.
func (s *Service) Rate(ctx context.Context, user timesheet.User, from, to timesheet.Date) (Bucket, error) {
	if to.Before(from) {
		return Bucket{}, timesheet.ErrInvalidPeriod
	}
	if from.Before(user.StartDate) {
		from = user.StartDate
	}

	entries, err := s.Entries.EntriesWithCustomer(ctx, timesheet.EntryQuery{
		UserID: user.ID, From: from, To: to,
	})
	if err != nil {
		return Bucket{}, err
	}
	return s.bucket(from, to, entries), nil
}

// Statistics buckets the range by period and reports one Bucket per period
// that has at least one entry.
func (s *Service) Statistics(
	ctx context.Context,
	user timesheet.User,
	from, to timesheet.Date,
	period Period,
	extend Extend,
) ([]Bucket, error) {
	if to.Before(from) {
		return nil, timesheet.ErrInvalidPeriod
	}
	if extend&ExtendStart != 0 {
		from = periodStart(period, from)
	}
	if extend&ExtendEnd != 0 {
		to = periodEnd(period, to)
	}

	entries, err := s.Entries.EntriesWithCustomer(ctx, timesheet.EntryQuery{
		UserID: user.ID, From: from, To: to,
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[timesheet.Date][]timesheet.EntryWithCustomer)
	for _, e := range entries {
		key := periodStart(period, e.Date)
		grouped[key] = append(grouped[key], e)
	}

	keys := make([]timesheet.Date, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	buckets := make([]Bucket, 0, len(keys))
	for _, key := range keys {
		start, end := key, periodEnd(period, key)
		// partial first/last periods stay within the queried range
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		buckets = append(buckets, s.bucket(start, end, grouped[key]))
	}
	return buckets, nil
}

// bucket sums and classifies the entries, then derives both rates.
func (s *Service) bucket(start, end timesheet.Date, entries []timesheet.EntryWithCustomer) Bucket {
	b := Bucket{
		Start:                  start,
		End:                    end,
		BillableHours:          decimal.Zero,
		NonBillableHours:       decimal.Zero,
		VacationHours:          decimal.Zero,
		InvoiceRate:            decimal.Zero,
		NonBillableInvoiceRate: decimal.Zero,
	}
	for _, e := range entries {
		switch s.Classify(e.TaskID, e.CustomerName) {
		case Vacation:
			b.VacationHours = b.VacationHours.Add(e.Value)
		case NonBillable:
			b.NonBillableHours = b.NonBillableHours.Add(e.Value)
		default:
			b.BillableHours = b.BillableHours.Add(e.Value)
		}
	}

	available := s.availableHours(start, end).Sub(b.VacationHours)
	if !available.IsPositive() {
		available = decimal.NewFromInt(1)
	}
	b.InvoiceRate = b.BillableHours.Div(available)
	b.NonBillableInvoiceRate = b.NonBillableHours.Div(available)
	return b
}

// availableHours is workdays in [start, end] times the workday length.
func (s *Service) availableHours(start, end timesheet.Date) decimal.Decimal {
	workdays := 0
	for d := start; !d.After(end); d = d.AddDays(1) {
		if s.Calendar.IsWorkday(d) {
			workdays++
		}
	}
	return decimal.NewFromInt(int64(workdays)).Mul(timesheet.WorkdayLength)
}

// periodStart returns the first day of the period containing d.
func periodStart(p Period, d timesheet.Date) timesheet.Date {
	switch p {
	case Weekly:
		// Monday starts the week; Sunday closes the one before it
		if d.Weekday() == time.Sunday {
			return d.AddDays(-6)
		}
		return d.AddDays(-(int(d.Weekday()) - int(time.Monday)))
	case Monthly:
		return timesheet.NewDate(d.Year(), d.Month(), 1)
	case Annual:
		return timesheet.NewDate(d.Year(), time.January, 1)
	}
	return d
}

// periodEnd returns the last day of the period containing d.
func periodEnd(p Period, d timesheet.Date) timesheet.Date {
	switch p {
	case Weekly:
		return periodStart(Weekly, d).AddDays(6)
	case Monthly:
		return timesheet.NewDate(d.Year(), d.Month(), 1).AddMonths(1).AddDays(-1)
	case Annual:
		return timesheet.NewDate(d.Year(), time.December, 31)
	}
	return d
}
