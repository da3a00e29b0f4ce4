/*
handlers.go - HTTP API handlers for the time tracking calculations

PURPOSE:
  Exposes the calculation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS (all under /api, authenticated):
  User:
    GET    /api/user/AbsenceOverview     Sick-leave quota for a 12-month window
    GET    /api/user/VacationOverview    Vacation account
    GET    /api/user/InvoiceRate         Billable ratio for a range
    GET    /api/user/InvoiceStatistics   Billable ratio per period bucket
    GET    /api/user/TimeEntries         Stored registrations in a range
    POST   /api/user/TimeEntries         Register hours (recomputes overtime)
    GET    /api/user/EarnedOvertime      Cached overtime rows
    GET    /api/user/Profile             Authenticated user + employment rate
    POST   /api/user/AccessToken         Create personal access token
    DELETE /api/user/AccessToken         Revoke personal access token

  Shared:
    GET    /api/RedDays                  Red days for a year range

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, missing compensation rate
  - 404: Resource not found
  - 409: Locked task or locked entry
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: The middleware that resolves the user
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/SSotonass/alvtime/absence"
	"github.com/SSotonass/alvtime/calendar"
	"github.com/SSotonass/alvtime/invoice"
	"github.com/SSotonass/alvtime/overtime"
	"github.com/SSotonass/alvtime/store/sqlite"
	"github.com/SSotonass/alvtime/timesheet"
)

const accessTokenLifetime = 90 * 24 * time.Hour

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Absence  *absence.Service
	Overtime *overtime.Calculator
	Invoice  *invoice.Service
	Calendar *calendar.Calendar

	// Now is overridable for tests; defaults to timesheet.Today.
	Now func() timesheet.Date
}

// NewHandler wires the domain services onto one store and calendar.
func NewHandler(store *sqlite.Store, cal *calendar.Calendar, opts timesheet.Options) *Handler {
	return &Handler{
		Store:    store,
		Calendar: cal,
		Absence:  &absence.Service{Entries: store, Calendar: cal, Options: opts},
		Overtime: &overtime.Calculator{Store: store, Calendar: cal},
		Invoice:  &invoice.Service{Entries: store, Calendar: cal, Options: opts},
	}
}

func (h *Handler) now() timesheet.Date {
	if h.Now != nil {
		return h.Now()
	}
	return timesheet.Today()
}

// =============================================================================
// ABSENCE ENDPOINTS
// =============================================================================

// GetAbsenceOverview returns the sick-leave quota.
// GET /api/user/AbsenceOverview?intervalStart=YYYY-MM-DD
func (h *Handler) GetAbsenceOverview(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var intervalStart *timesheet.Date
	if raw := r.URL.Query().Get("intervalStart"); raw != "" {
		date, err := timesheet.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid intervalStart format (use YYYY-MM-DD)", err)
			return
		}
		intervalStart = &date
	}

	report, err := h.Absence.AbsenceOverview(r.Context(), user.ID, intervalStart)
	if err != nil {
		writeDomainError(w, "Failed to compute absence overview", err)
		return
	}

	writeJSON(w, http.StatusOK, AbsenceOverviewDTO{
		EntitledSickDays: report.EntitledDays,
		UsedSickDays:     report.UsedDays,
	})
}

// GetVacationOverview returns the vacation account.
// GET /api/user/VacationOverview
func (h *Handler) GetVacationOverview(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	report, err := h.Absence.VacationOverview(r.Context(), user, h.now().Year())
	if err != nil {
		writeDomainError(w, "Failed to compute vacation overview", err)
		return
	}

	writeJSON(w, http.StatusOK, toVacationOverviewDTO(report))
}

// =============================================================================
// INVOICE ENDPOINTS
// =============================================================================

// GetInvoiceRate returns the billable ratio over one range.
// GET /api/user/InvoiceRate?fromDate=YYYY-MM-DD&toDate=YYYY-MM-DD
func (h *Handler) GetInvoiceRate(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	from, to, ok := dateRange(w, r, "fromDate", "toDate")
	if !ok {
		return
	}

	bucket, err := h.Invoice.Rate(r.Context(), user, from, to)
	if err != nil {
		writeDomainError(w, "Failed to compute invoice rate", err)
		return
	}

	writeJSON(w, http.StatusOK, toInvoiceBucketDTO(bucket))
}

// GetInvoiceStatistics returns one bucket per period holding entries.
// GET /api/user/InvoiceStatistics?fromDate=&toDate=&period=&extendPeriod=
func (h *Handler) GetInvoiceStatistics(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	from, to, ok := dateRange(w, r, "fromDate", "toDate")
	if !ok {
		return
	}

	period, err := invoice.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period (use daily, weekly, monthly or annual)", nil)
		return
	}

	extend := invoice.Extend(0)
	if raw := r.URL.Query().Get("extendPeriod"); raw != "" {
		mask, err := strconv.Atoi(raw)
		if err != nil || mask < 0 || mask > int(invoice.ExtendStart|invoice.ExtendEnd) {
			writeError(w, http.StatusBadRequest, "Invalid extendPeriod flags", err)
			return
		}
		extend = invoice.Extend(mask)
	}

	buckets, err := h.Invoice.Statistics(r.Context(), user, from, to, period, extend)
	if err != nil {
		writeDomainError(w, "Failed to compute invoice statistics", err)
		return
	}

	dtos := make([]InvoiceBucketDTO, 0, len(buckets))
	for _, b := range buckets {
		dtos = append(dtos, toInvoiceBucketDTO(b))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// TIME ENTRY ENDPOINTS
// =============================================================================

// GetTimeEntries returns the stored registrations in a range.
// GET /api/user/TimeEntries?fromDateInclusive=&toDateInclusive=
func (h *Handler) GetTimeEntries(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	from, to, ok := dateRange(w, r, "fromDateInclusive", "toDateInclusive")
	if !ok {
		return
	}

	entries, err := h.Store.Entries(r.Context(), timesheet.EntryQuery{
		UserID: user.ID, From: from, To: to,
	})
	if err != nil {
		writeDomainError(w, "Failed to query time entries", err)
		return
	}

	writeJSON(w, http.StatusOK, toTimeEntryDTOs(entries))
}

// PostTimeEntries registers a batch of hours and recomputes overtime for
// every touched date. All-or-nothing: a locked task or invalid value
// rejects the whole batch.
// POST /api/user/TimeEntries
func (h *Handler) PostTimeEntries(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var body []CreateTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "At least one time entry is required", nil)
		return
	}

	inputs := make([]overtime.EntryInput, 0, len(body))
	for _, req := range body {
		date, err := timesheet.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		inputs = append(inputs, overtime.EntryInput{
			Date: date, TaskID: req.TaskID, Value: req.Value,
		})
	}

	saved, err := h.Overtime.Upsert(r.Context(), user.ID, inputs)
	if err != nil {
		writeDomainError(w, "Failed to save time entries", err)
		return
	}

	writeJSON(w, http.StatusOK, toTimeEntryDTOs(saved))
}

// GetEarnedOvertime returns the cached overtime rows.
// GET /api/user/EarnedOvertime?fromDate=&toDate=
func (h *Handler) GetEarnedOvertime(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	from, to, ok := dateRange(w, r, "fromDate", "toDate")
	if !ok {
		return
	}

	rows, err := h.Overtime.Earned(r.Context(), user.ID, from, to)
	if err != nil {
		writeDomainError(w, "Failed to query earned overtime", err)
		return
	}

	writeJSON(w, http.StatusOK, toEarnedOvertimeDTOs(rows))
}

// =============================================================================
// PROFILE AND TOKEN ENDPOINTS
// =============================================================================

// GetProfile returns the authenticated user and the employment rate in
// force today.
// GET /api/user/Profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	rates, err := h.Store.EmploymentRates(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, "Failed to query employment rates", err)
		return
	}
	rate, err := timesheet.EmploymentRateAt(rates, h.now())
	if err != nil {
		writeDomainError(w, "Ambiguous employment rate configuration", err)
		return
	}

	dto := ProfileDTO{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		StartDate:      user.StartDate.String(),
		EmploymentRate: rate,
	}
	if user.EndDate != nil {
		end := user.EndDate.String()
		dto.EndDate = &end
	}
	writeJSON(w, http.StatusOK, dto)
}

// PostAccessToken mints a personal access token for the caller.
// POST /api/user/AccessToken
func (h *Handler) PostAccessToken(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var body CreateAccessTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token := sqlite.AccessToken{
		Token:        uuid.NewString(),
		UserID:       user.ID,
		FriendlyName: body.FriendlyName,
		ExpiresAt:    time.Now().Add(accessTokenLifetime),
		CreatedAt:    time.Now(),
	}
	if err := h.Store.CreateAccessToken(r.Context(), token); err != nil {
		writeDomainError(w, "Failed to create access token", err)
		return
	}

	writeJSON(w, http.StatusOK, AccessTokenDTO{
		Token:        token.Token,
		FriendlyName: token.FriendlyName,
		ExpiresAt:    token.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// DeleteAccessToken revokes one of the caller's tokens.
// DELETE /api/user/AccessToken
func (h *Handler) DeleteAccessToken(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var body DeleteAccessTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if body.Token == "" {
		writeError(w, http.StatusBadRequest, "Token is required", nil)
		return
	}

	if err := h.Store.DeleteAccessToken(r.Context(), user.ID, body.Token); err != nil {
		writeDomainError(w, "Failed to revoke access token", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CALENDAR ENDPOINTS
// =============================================================================

// GetRedDays returns the red days in an inclusive year range.
// GET /api/RedDays?fromYear=&toYear=
func (h *Handler) GetRedDays(w http.ResponseWriter, r *http.Request) {
	fromYear, err := strconv.Atoi(r.URL.Query().Get("fromYear"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid fromYear", err)
		return
	}
	toYear, err := strconv.Atoi(r.URL.Query().Get("toYear"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid toYear", err)
		return
	}

	days := h.Calendar.RedDays(fromYear, toYear)
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.String())
	}
	writeJSON(w, http.StatusOK, out)
}

// Healthz reports liveness. No auth.
// GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// dateRange parses two required YYYY-MM-DD query parameters. On failure it
// writes the 400 itself and returns ok=false.
func dateRange(w http.ResponseWriter, r *http.Request, fromParam, toParam string) (timesheet.Date, timesheet.Date, bool) {
	from, err := timesheet.ParseDate(r.URL.Query().Get(fromParam))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+fromParam+" format (use YYYY-MM-DD)", err)
		return timesheet.Date{}, timesheet.Date{}, false
	}
	to, err := timesheet.ParseDate(r.URL.Query().Get(toParam))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+toParam+" format (use YYYY-MM-DD)", err)
		return timesheet.Date{}, timesheet.Date{}, false
	}
	return from, to, true
}

// writeDomainError classifies a domain error into an HTTP status.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case timesheet.IsLocked(err):
		writeError(w, http.StatusConflict, message, err)
	case timesheet.IsValidation(err), errors.Is(err, timesheet.ErrNoCompensationRate):
		writeError(w, http.StatusBadRequest, message, err)
	case timesheet.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
