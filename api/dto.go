/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the internal domain
  model from the external contract.

CONVENTIONS:
  - Dates travel as "YYYY-MM-DD" strings
  - Hours and rates travel as decimal strings, never floats
  - *DTO: response types; *Request: request body types

VALIDATION:
  Handlers validate; DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/SSotonass/alvtime/absence"
	"github.com/SSotonass/alvtime/invoice"
	"github.com/SSotonass/alvtime/timesheet"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AbsenceOverviewDTO reports the sick-leave quota for a 12-month window.
type AbsenceOverviewDTO struct {
	EntitledSickDays int `json:"entitledSickDays"`
	UsedSickDays     int `json:"usedSickDays"`
}

// VacationOverviewDTO reports the vacation account.
type VacationOverviewDTO struct {
	PlannedDaysThisYear decimal.Decimal `json:"plannedDaysThisYear"`
	UsedDaysThisYear    decimal.Decimal `json:"usedDaysThisYear"`
	AvailableDays       decimal.Decimal `json:"availableDays"`
	PlannedTransactions []TimeEntryDTO  `json:"plannedTransactions"`
	UsedTransactions    []TimeEntryDTO  `json:"usedTransactions"`
}

// TimeEntryDTO represents one stored registration.
type TimeEntryDTO struct {
	ID     int64           `json:"id"`
	Date   string          `json:"date"`
	TaskID int             `json:"taskId"`
	Value  decimal.Decimal `json:"value"`
	Locked bool            `json:"locked"`
}

// EarnedOvertimeDTO is one cached overtime row.
type EarnedOvertimeDTO struct {
	Date             string          `json:"date"`
	Value            decimal.Decimal `json:"value"`
	CompensationRate decimal.Decimal `json:"compensationRate"`
}

// InvoiceBucketDTO is one reported invoice period.
type InvoiceBucketDTO struct {
	Start                  string          `json:"start"`
	End                    string          `json:"end"`
	BillableHours          decimal.Decimal `json:"billableHours"`
	NonBillableHours       decimal.Decimal `json:"nonBillableHours"`
	VacationHours          decimal.Decimal `json:"vacationHours"`
	InvoiceRate            decimal.Decimal `json:"invoiceRate"`
	NonBillableInvoiceRate decimal.Decimal `json:"nonBillableInvoiceRate"`
}

// ProfileDTO describes the authenticated user.
type ProfileDTO struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	StartDate      string          `json:"startDate"`
	EndDate        *string         `json:"endDate,omitempty"`
	EmploymentRate decimal.Decimal `json:"employmentRate"`
}

// AccessTokenDTO is the response to token creation.
type AccessTokenDTO struct {
	Token        string `json:"token"`
	FriendlyName string `json:"friendlyName"`
	ExpiresAt    string `json:"expiresAt"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateTimeEntryRequest is one registration in a POST TimeEntries batch.
type CreateTimeEntryRequest struct {
	Date   string          `json:"date"`
	TaskID int             `json:"taskId"`
	Value  decimal.Decimal `json:"value"`
}

// CreateAccessTokenRequest names a new personal access token.
type CreateAccessTokenRequest struct {
	FriendlyName string `json:"friendlyName"`
}

// DeleteAccessTokenRequest identifies the token to revoke.
type DeleteAccessTokenRequest struct {
	Token string `json:"token"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func toTimeEntryDTO(e timesheet.TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		ID:     e.ID,
		Date:   e.Date.String(),
		TaskID: e.TaskID,
		Value:  e.Value,
		Locked: e.Locked,
	}
}

func toTimeEntryDTOs(entries []timesheet.TimeEntry) []TimeEntryDTO {
	dtos := make([]TimeEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toTimeEntryDTO(e))
	}
	return dtos
}

func toVacationOverviewDTO(r absence.VacationReport) VacationOverviewDTO {
	return VacationOverviewDTO{
		PlannedDaysThisYear: r.PlannedDaysThisYear,
		UsedDaysThisYear:    r.UsedDaysThisYear,
		AvailableDays:       r.AvailableDays,
		PlannedTransactions: toTimeEntryDTOs(r.PlannedTransactions),
		UsedTransactions:    toTimeEntryDTOs(r.UsedTransactions),
	}
}

func toInvoiceBucketDTO(b invoice.Bucket) InvoiceBucketDTO {
	return InvoiceBucketDTO{
		Start:                  b.Start.String(),
		End:                    b.End.String(),
		BillableHours:          b.BillableHours,
		NonBillableHours:       b.NonBillableHours,
		VacationHours:          b.VacationHours,
		InvoiceRate:            b.InvoiceRate,
		NonBillableInvoiceRate: b.NonBillableInvoiceRate,
	}
}

func toEarnedOvertimeDTOs(rows []timesheet.EarnedOvertime) []EarnedOvertimeDTO {
	dtos := make([]EarnedOvertimeDTO, 0, len(rows))
	for _, ot := range rows {
		dtos = append(dtos, EarnedOvertimeDTO{
			Date:             ot.Date.String(),
			Value:            ot.Value,
			CompensationRate: ot.CompensationRate,
		})
	}
	return dtos
}
