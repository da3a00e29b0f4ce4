package timesheet_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SSotonass/alvtime/timesheet"
)

func date(year int, month time.Month, day int) timesheet.Date {
	return timesheet.NewDate(year, month, day)
}

// =============================================================================
// DATE ARITHMETIC
// =============================================================================

func TestDate_DaysBetween_AcrossYearBoundary(t *testing.T) {
	newYearsEve := date(2021, time.December, 31)
	newYearsDay := date(2022, time.January, 1)

	assert.Equal(t, 1, newYearsEve.DaysBetween(newYearsDay))
	assert.Equal(t, -1, newYearsDay.DaysBetween(newYearsEve))
}

func TestDate_ParseAndString_RoundTrip(t *testing.T) {
	d, err := timesheet.ParseDate("2022-05-17")
	require.NoError(t, err)
	assert.Equal(t, "2022-05-17", d.String())

	_, err = timesheet.ParseDate("17.05.2022")
	assert.Error(t, err)
}

func TestDate_IsWeekend(t *testing.T) {
	assert.False(t, date(2021, time.December, 13).IsWeekend()) // Monday
	assert.True(t, date(2021, time.December, 11).IsWeekend())  // Saturday
	assert.True(t, date(2021, time.December, 12).IsWeekend())  // Sunday
}

// =============================================================================
// QUARTER-HOUR GRANULARITY
// =============================================================================

func TestValidQuarterHour(t *testing.T) {
	assert.True(t, timesheet.ValidQuarterHour(timesheet.Hours(7.5)))
	assert.True(t, timesheet.ValidQuarterHour(timesheet.Hours(0.25)))
	assert.True(t, timesheet.ValidQuarterHour(decimal.Zero))
	assert.False(t, timesheet.ValidQuarterHour(timesheet.Hours(7.3)))
	assert.False(t, timesheet.ValidQuarterHour(timesheet.Hours(0.1)))
}

// =============================================================================
// COMPENSATION RATE RESOLUTION
// =============================================================================

func TestApplicableRate_PicksLatestEffectiveRate(t *testing.T) {
	// GIVEN: Two rates for task 1, effective 2020 and 2022
	// THEN: A 2021 entry uses the 2020 rate, a 2023 entry the 2022 rate

	rates := []timesheet.CompensationRate{
		{TaskID: 1, Value: timesheet.Hours(1.0), FromDate: date(2020, time.January, 1)},
		{TaskID: 1, Value: timesheet.Hours(1.5), FromDate: date(2022, time.January, 1)},
		{TaskID: 2, Value: timesheet.Hours(0.5), FromDate: date(2020, time.January, 1)},
	}

	rate, err := timesheet.ApplicableRate(rates, 1, date(2021, time.June, 1))
	require.NoError(t, err)
	assert.True(t, rate.Equal(timesheet.Hours(1.0)))

	rate, err = timesheet.ApplicableRate(rates, 1, date(2023, time.June, 1))
	require.NoError(t, err)
	assert.True(t, rate.Equal(timesheet.Hours(1.5)))
}

func TestApplicableRate_NoneConfigured(t *testing.T) {
	rates := []timesheet.CompensationRate{
		{TaskID: 1, Value: timesheet.Hours(1.0), FromDate: date(2022, time.January, 1)},
	}

	// unknown task
	_, err := timesheet.ApplicableRate(rates, 9, date(2022, time.June, 1))
	assert.ErrorIs(t, err, timesheet.ErrNoCompensationRate)

	// known task, date before any rate takes effect
	_, err = timesheet.ApplicableRate(rates, 1, date(2021, time.June, 1))
	require.Error(t, err)
	var rateErr *timesheet.NoRateError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 1, rateErr.TaskID)
}

// =============================================================================
// EMPLOYMENT RATE RESOLUTION
// =============================================================================

func TestEmploymentRateAt(t *testing.T) {
	rates := []timesheet.EmploymentRate{
		{UserID: 1, Rate: timesheet.Hours(0.8),
			FromDate: date(2021, time.January, 1), ToDate: date(2021, time.December, 31)},
	}

	rate, err := timesheet.EmploymentRateAt(rates, date(2021, time.June, 1))
	require.NoError(t, err)
	assert.True(t, rate.Equal(timesheet.Hours(0.8)))

	// outside every interval: full time
	rate, err = timesheet.EmploymentRateAt(rates, date(2022, time.June, 1))
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestEmploymentRateAt_OverlapIsConfigurationError(t *testing.T) {
	rates := []timesheet.EmploymentRate{
		{UserID: 1, Rate: timesheet.Hours(0.8),
			FromDate: date(2021, time.January, 1), ToDate: date(2021, time.December, 31)},
		{UserID: 1, Rate: timesheet.Hours(0.5),
			FromDate: date(2021, time.June, 1), ToDate: date(2022, time.May, 31)},
	}

	_, err := timesheet.EmploymentRateAt(rates, date(2021, time.July, 1))

	assert.ErrorIs(t, err, timesheet.ErrOverlappingEmploymentRates)
}

// =============================================================================
// OPTIONS
// =============================================================================

func TestOptions_IsVacationTask(t *testing.T) {
	opts := timesheet.Options{PaidHolidayTask: 13, UnpaidHolidayTask: 14}

	assert.True(t, opts.IsVacationTask(13))
	assert.True(t, opts.IsVacationTask(14))
	assert.False(t, opts.IsVacationTask(12))
}
