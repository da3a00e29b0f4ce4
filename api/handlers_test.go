package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SSotonass/alvtime/api"
	"github.com/SSotonass/alvtime/calendar"
	"github.com/SSotonass/alvtime/store/sqlite"
	"github.com/SSotonass/alvtime/timesheet"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const (
	taskBillable  = 1
	taskInternal  = 2
	taskSick      = 12
	taskPaidLeave = 13
)

type testServer struct {
	router http.Handler
	store  *sqlite.Store
	token  string
}

func newTestServer(t *testing.T) *testServer {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.SaveUser(ctx, timesheet.User{
		ID: 1, Name: "Kari Nordmann", Email: "kari@example.com",
		StartDate: timesheet.NewDate(2019, time.January, 1),
	}))

	epoch := timesheet.NewDate(2019, time.January, 1)
	for _, task := range []timesheet.Task{
		{ID: taskBillable, Name: "Development", CustomerName: "Evil Corp"},
		{ID: taskInternal, Name: "Internal work", CustomerName: "Alv"},
		{ID: taskSick, Name: "Sick leave", CustomerName: "Alv"},
		{ID: taskPaidLeave, Name: "Paid holiday", CustomerName: "Alv"},
		{ID: 50, Name: "Closed project", Locked: true},
	} {
		require.NoError(t, store.SaveTask(ctx, task))
		require.NoError(t, store.SaveCompensationRate(ctx, timesheet.CompensationRate{
			TaskID: task.ID, Value: decimal.NewFromInt(1), FromDate: epoch,
		}))
	}

	opts := timesheet.Options{
		SickDaysTask:      taskSick,
		PaidHolidayTask:   taskPaidLeave,
		UnpaidHolidayTask: 14,
		CompanyName:       "alv",
	}
	handler := api.NewHandler(store, calendar.New(), opts)

	auth := &api.Authenticator{Secret: []byte("test-secret"), Users: store}
	token, err := auth.IssueToken(1, time.Hour)
	require.NoError(t, err)

	return &testServer{
		router: api.NewRouter(handler, auth),
		store:  store,
		token:  token,
	}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

func TestAPI_MissingToken_Unauthorized(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user/Profile", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_GarbageToken_Unauthorized(t *testing.T) {
	srv := newTestServer(t)
	srv.token = "not-a-real-credential"

	rec := srv.do(t, http.MethodGet, "/api/user/Profile", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_PersonalAccessToken_ResolvesUser(t *testing.T) {
	// GIVEN: A PAT created over the API with a JWT
	// WHEN: The PAT itself is used as the bearer credential
	// THEN: Requests resolve to the same user

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/user/AccessToken", `{"friendlyName":"ci script"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[struct {
		Token string `json:"token"`
	}](t, rec)
	require.NotEmpty(t, created.Token)

	srv.token = created.Token
	rec = srv.do(t, http.MethodGet, "/api/user/Profile", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	profile := decode[struct {
		ID int `json:"id"`
	}](t, rec)
	assert.Equal(t, 1, profile.ID)
}

func TestAPI_RevokedToken_Unauthorized(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/user/AccessToken", `{"friendlyName":"temp"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[struct {
		Token string `json:"token"`
	}](t, rec)

	rec = srv.do(t, http.MethodDelete, "/api/user/AccessToken", `{"token":"`+created.Token+`"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	srv.token = created.Token
	rec = srv.do(t, http.MethodGet, "/api/user/Profile", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_Healthz_NoAuth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// =============================================================================
// TIME ENTRIES AND OVERTIME
// =============================================================================

func TestAPI_PostTimeEntries_RecomputesOvertime(t *testing.T) {
	// GIVEN: 9.5 hours posted on a Monday
	// WHEN: Earned overtime is queried back
	// THEN: One 2h row at rate 1

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/user/TimeEntries",
		`[{"date":"2021-12-13","taskId":1,"value":9.5}]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet,
		"/api/user/EarnedOvertime?fromDate=2021-12-13&toDate=2021-12-13", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rows := decode[[]struct {
		Date             string          `json:"date"`
		Value            decimal.Decimal `json:"value"`
		CompensationRate decimal.Decimal `json:"compensationRate"`
	}](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "2021-12-13", rows[0].Date)
	assert.True(t, rows[0].Value.Equal(decimal.NewFromInt(2)))
}

func TestAPI_PostTimeEntries_LockedTask_Conflict(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/user/TimeEntries",
		`[{"date":"2021-12-13","taskId":50,"value":7.5}]`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_PostTimeEntries_InvalidGranularity_BadRequest(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/user/TimeEntries",
		`[{"date":"2021-12-13","taskId":1,"value":7.3}]`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GetTimeEntries_RoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/user/TimeEntries",
		`[{"date":"2021-12-13","taskId":1,"value":7.5},{"date":"2021-12-14","taskId":2,"value":5}]`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet,
		"/api/user/TimeEntries?fromDateInclusive=2021-12-13&toDateInclusive=2021-12-14", "")
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decode[[]struct {
		Date   string `json:"date"`
		TaskID int    `json:"taskId"`
	}](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, "2021-12-13", entries[0].Date)
	assert.Equal(t, "2021-12-14", entries[1].Date)
}

// =============================================================================
// OVERVIEWS
// =============================================================================

func TestAPI_AbsenceOverview(t *testing.T) {
	// GIVEN: Three consecutive sick days inside the queried window
	// THEN: One group of 3 used days out of the 12 entitled

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/user/TimeEntries",
		`[{"date":"2021-03-01","taskId":12,"value":7.5},
		  {"date":"2021-03-02","taskId":12,"value":7.5},
		  {"date":"2021-03-03","taskId":12,"value":7.5}]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/user/AbsenceOverview?intervalStart=2021-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	overview := decode[struct {
		EntitledSickDays int `json:"entitledSickDays"`
		UsedSickDays     int `json:"usedSickDays"`
	}](t, rec)
	assert.Equal(t, 12, overview.EntitledSickDays)
	assert.Equal(t, 3, overview.UsedSickDays)
}

func TestAPI_InvoiceRate(t *testing.T) {
	// GIVEN: 6h billable and 1.5h internal on one Monday
	// THEN: Invoice rate 0.8 for that day

	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/user/TimeEntries",
		`[{"date":"2021-12-13","taskId":1,"value":6},
		  {"date":"2021-12-13","taskId":2,"value":1.5}]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet,
		"/api/user/InvoiceRate?fromDate=2021-12-13&toDate=2021-12-13", "")
	require.Equal(t, http.StatusOK, rec.Code)

	bucket := decode[struct {
		InvoiceRate decimal.Decimal `json:"invoiceRate"`
	}](t, rec)
	assert.True(t, bucket.InvoiceRate.Equal(decimal.NewFromFloat(0.8)),
		"got %s", bucket.InvoiceRate)
}

func TestAPI_InvoiceStatistics_InvalidPeriod(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet,
		"/api/user/InvoiceStatistics?fromDate=2021-12-01&toDate=2021-12-31&period=fortnightly", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_RedDays(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/RedDays?fromYear=2022&toYear=2022", "")
	require.Equal(t, http.StatusOK, rec.Code)

	days := decode[[]string](t, rec)
	assert.Len(t, days, 10)
	assert.Contains(t, days, "2022-05-17")
	assert.Contains(t, days, "2022-04-14")
}

func TestAPI_RedDays_MissingYears_BadRequest(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/RedDays", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
