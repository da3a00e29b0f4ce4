/*
Package overtime derives earned overtime from the time entries of a date.

PURPOSE:
  Whenever hours are registered or changed, the overtime for each touched
  date is recomputed: capacity is 7.5 hours on a working day and zero on
  weekends and red days; everything above capacity is overtime, carried at
  the compensation rate of the task that absorbed it.

DELETE-THEN-RECREATE:
  EarnedOvertime rows are a cache. A recompute deletes the rows for the
  (user, date) and reinserts replacements. The whole upsert - entry writes
  plus every per-date recompute - runs inside ONE store transaction; if any
  step fails (locked task, locked entry, missing rate) the store rolls the
  batch back and no hours are lost.

DISTRIBUTION ORDER:
  When several entries share a date, overtime is absorbed greedily by the
  entries ordered by ascending compensation rate, ties broken by ascending
  task id. The order is part of the contract: recomputing an unchanged day
  always reproduces the same rows.

SEE ALSO:
  - timesheet/store.go: the TxStore contract the recompute runs against
  - calendar: workday capacity lookups
*/
package overtime

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/SSotonass/alvtime/calendar"
	"github.com/SSotonass/alvtime/timesheet"
)

// EntryInput is one requested time registration.
type EntryInput struct {
	Date   timesheet.Date
	TaskID int
	Value  decimal.Decimal
}

// Calculator registers hours and maintains the earned-overtime cache.
type Calculator struct {
	Store    timesheet.TxStore
	Calendar *calendar.Calendar
}

// Upsert validates and writes the entries, then recomputes overtime for
// every affected date. All writes happen in a single transaction.
func (c *Calculator) Upsert(ctx context.Context, userID int, inputs []EntryInput) ([]timesheet.TimeEntry, error) {
	for _, in := range inputs {
		if !timesheet.ValidQuarterHour(in.Value) {
			return nil, &timesheet.QuarterHourError{TaskID: in.TaskID, Value: in.Value}
		}
	}

	var saved []timesheet.TimeEntry
	err := c.Store.WithTx(ctx, func(s timesheet.Store) error {
		dates := make(map[timesheet.Date]bool)
		for _, in := range inputs {
			entry, err := s.UpsertEntry(ctx, userID, in.Date, in.TaskID, in.Value)
			if err != nil {
				return err
			}
			saved = append(saved, entry)
			dates[in.Date] = true
		}

		for date := range dates {
			if err := c.recomputeDate(ctx, s, userID, date); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Earned returns the cached overtime rows for the user in [from, to].
func (c *Calculator) Earned(ctx context.Context, userID int, from, to timesheet.Date) ([]timesheet.EarnedOvertime, error) {
	if to.Before(from) {
		return nil, timesheet.ErrInvalidPeriod
	}
	return c.Store.EarnedOvertime(ctx, userID, from, to)
}

// recomputeDate replaces the overtime rows for one (user, date). Must run
// inside the caller's transaction.
func (c *Calculator) recomputeDate(ctx context.Context, s timesheet.Store, userID int, date timesheet.Date) error {
	if err := s.DeleteOvertimeOnDate(ctx, userID, date); err != nil {
		return err
	}

	entries, err := s.Entries(ctx, timesheet.EntryQuery{UserID: userID, From: date, To: date})
	if err != nil {
		return err
	}
	rates, err := s.CompensationRates(ctx)
	if err != nil {
		return err
	}

	rows, err := c.overtimeForDate(userID, date, entries, rates)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return s.StoreOvertime(ctx, rows)
}

type ratedEntry struct {
	entry timesheet.TimeEntry
	rate  decimal.Decimal
}

// overtimeForDate computes the replacement rows for one date. Pure given
// its inputs, which is what makes the recompute idempotent.
func (c *Calculator) overtimeForDate(
	userID int,
	date timesheet.Date,
	entries []timesheet.TimeEntry,
	rates []timesheet.CompensationRate,
) ([]timesheet.EarnedOvertime, error) {
	capacity := decimal.Zero
	if c.Calendar.IsWorkday(date) {
		capacity = timesheet.WorkdayLength
	}

	total := decimal.Zero
	var rated []ratedEntry
	for _, e := range entries {
		if !e.Value.IsPositive() {
			continue
		}
		total = total.Add(e.Value)
		rate, err := timesheet.ApplicableRate(rates, e.TaskID, date)
		if err != nil {
			return nil, err
		}
		rated = append(rated, ratedEntry{entry: e, rate: rate})
	}

	remaining := total.Sub(capacity)
	if !remaining.IsPositive() {
		return nil, nil
	}

	sort.Slice(rated, func(i, j int) bool {
		if !rated[i].rate.Equal(rated[j].rate) {
			return rated[i].rate.LessThan(rated[j].rate)
		}
		return rated[i].entry.TaskID < rated[j].entry.TaskID
	})

	var rows []timesheet.EarnedOvertime
	for _, re := range rated {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(re.entry.Value, remaining)
		rows = append(rows, timesheet.EarnedOvertime{
			UserID:           userID,
			Date:             date,
			Value:            take,
			CompensationRate: re.rate,
		})
		remaining = remaining.Sub(take)
	}
	return rows, nil
}
