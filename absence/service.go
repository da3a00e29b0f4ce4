package absence

import (
	"context"

	"github.com/SSotonass/alvtime/calendar"
	"github.com/SSotonass/alvtime/timesheet"
)

// Service pulls entries from the time entry store and runs the absence
// calculators over them.
type Service struct {
	Entries  timesheet.EntryStore
	Calendar *calendar.Calendar
	Options  timesheet.Options

	// Now is overridable for tests; defaults to timesheet.Today.
	Now func() timesheet.Date
}

func (s *Service) now() timesheet.Date {
	if s.Now != nil {
		return s.Now()
	}
	return timesheet.Today()
}

// AbsenceOverview computes the sick-leave report for the 12-month window
// anchored at intervalStart, or the rolling last 12 months when nil.
func (s *Service) AbsenceOverview(ctx context.Context, userID int, intervalStart *timesheet.Date) (SickLeaveReport, error) {
	from, to := SickLeaveWindow(intervalStart, s.now())

	entries, err := s.Entries.Entries(ctx, timesheet.EntryQuery{
		UserID: userID,
		TaskID: &s.Options.SickDaysTask,
		From:   from,
		To:     to,
	})
	if err != nil {
		return SickLeaveReport{}, err
	}

	return SickDays(entries), nil
}

// VacationOverview computes the all-time vacation report for the user, over
// every vacation entry from the hire date through Dec 31 of currentYear.
func (s *Service) VacationOverview(ctx context.Context, user timesheet.User, currentYear int) (VacationReport, error) {
	var entries []timesheet.TimeEntry
	for _, taskID := range []int{s.Options.PaidHolidayTask, s.Options.UnpaidHolidayTask} {
		taskID := taskID
		batch, err := s.Entries.Entries(ctx, timesheet.EntryQuery{
			UserID: user.ID,
			TaskID: &taskID,
			From:   user.StartDate,
			To:     timesheet.EndOfYear(currentYear),
		})
		if err != nil {
			return VacationReport{}, err
		}
		entries = append(entries, batch...)
	}

	return VacationOverview(user, currentYear, entries, s.Calendar, s.now()), nil
}
