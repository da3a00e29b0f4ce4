package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SSotonass/alvtime/store/sqlite"
	"github.com/SSotonass/alvtime/timesheet"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.SaveUser(ctx, timesheet.User{
		ID:        1,
		Name:      "Kari Nordmann",
		Email:     "kari@example.com",
		StartDate: timesheet.NewDate(2020, time.January, 1),
	}))
	require.NoError(t, store.SaveTask(ctx, timesheet.Task{
		ID: 10, Name: "Development", Project: "Platform", CustomerName: "Evil Corp",
	}))
	require.NoError(t, store.SaveTask(ctx, timesheet.Task{
		ID: 11, Name: "Archived", Locked: true,
	}))
	return store
}

func d(year int, month time.Month, day int) timesheet.Date {
	return timesheet.NewDate(year, month, day)
}

// =============================================================================
// ENTRY UPSERT TESTS
// =============================================================================

func TestStore_UpsertEntry_InsertThenUpdate(t *testing.T) {
	// GIVEN: A clean store
	// WHEN: Registering hours twice for the same (user, date, task)
	// THEN: One row exists holding the latest value

	store := newTestStore(t)
	ctx := context.Background()
	day := d(2022, time.March, 7)

	first, err := store.UpsertEntry(ctx, 1, day, 10, decimal.NewFromFloat(7.5))
	require.NoError(t, err)
	assert.True(t, first.Value.Equal(decimal.NewFromFloat(7.5)))

	second, err := store.UpsertEntry(ctx, 1, day, 10, decimal.NewFromFloat(5))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "update should reuse the existing row")

	entries, err := store.Entries(ctx, timesheet.EntryQuery{UserID: 1, From: day, To: day})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Value.Equal(decimal.NewFromFloat(5)))
}

func TestStore_UpsertEntry_UnknownTask(t *testing.T) {
	store := newTestStore(t)

	_, err := store.UpsertEntry(context.Background(), 1, d(2022, time.March, 7), 999, decimal.NewFromFloat(1))

	assert.ErrorIs(t, err, timesheet.ErrTaskNotFound)
}

func TestStore_UpsertEntry_LockedTask_Rejected(t *testing.T) {
	// GIVEN: Task 11 is locked
	// WHEN: Registering hours against it
	// THEN: The write is rejected with a locked error naming the task

	store := newTestStore(t)

	_, err := store.UpsertEntry(context.Background(), 1, d(2022, time.March, 7), 11, decimal.NewFromFloat(1))

	require.Error(t, err)
	var lockErr *timesheet.LockedError
	require.ErrorAs(t, err, &lockErr)
	assert.Equal(t, 11, lockErr.TaskID)
	assert.ErrorIs(t, err, timesheet.ErrTaskLocked)
}

func TestStore_UpsertEntry_LockedEntry_Rejected(t *testing.T) {
	// GIVEN: An entry in a closed period
	// WHEN: Trying to change its value
	// THEN: The update is rejected and the stored value is untouched

	store := newTestStore(t)
	ctx := context.Background()
	day := d(2022, time.January, 3)

	entry, err := store.UpsertEntry(ctx, 1, day, 10, decimal.NewFromFloat(7.5))
	require.NoError(t, err)
	require.NoError(t, store.LockEntry(ctx, entry.ID))

	_, err = store.UpsertEntry(ctx, 1, day, 10, decimal.NewFromFloat(2))

	var lockErr *timesheet.LockedError
	require.ErrorAs(t, err, &lockErr)
	assert.Equal(t, entry.ID, lockErr.EntryID)
	assert.ErrorIs(t, err, timesheet.ErrEntryLocked)

	entries, err := store.Entries(ctx, timesheet.EntryQuery{UserID: 1, From: day, To: day})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Value.Equal(decimal.NewFromFloat(7.5)))
}

func TestStore_EntriesWithCustomer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := d(2022, time.March, 7)

	_, err := store.UpsertEntry(ctx, 1, day, 10, decimal.NewFromFloat(7.5))
	require.NoError(t, err)

	entries, err := store.EntriesWithCustomer(ctx, timesheet.EntryQuery{UserID: 1, From: day, To: day})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Evil Corp", entries[0].CustomerName)
}

// =============================================================================
// TRANSACTION TESTS
// =============================================================================

func TestStore_WithTx_RollsBackOnError(t *testing.T) {
	// GIVEN: A transaction that writes an entry and overtime, then fails
	// WHEN: WithTx returns the error
	// THEN: Neither write is visible afterwards

	store := newTestStore(t)
	ctx := context.Background()
	day := d(2022, time.March, 7)
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx timesheet.Store) error {
		if _, err := tx.UpsertEntry(ctx, 1, day, 10, decimal.NewFromFloat(9)); err != nil {
			return err
		}
		if err := tx.StoreOvertime(ctx, []timesheet.EarnedOvertime{
			{UserID: 1, Date: day, Value: decimal.NewFromFloat(1.5), CompensationRate: decimal.NewFromInt(1)},
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	entries, err := store.Entries(ctx, timesheet.EntryQuery{UserID: 1, From: day, To: day})
	require.NoError(t, err)
	assert.Empty(t, entries, "entry should have rolled back")

	overtime, err := store.EarnedOvertime(ctx, 1, day, day)
	require.NoError(t, err)
	assert.Empty(t, overtime, "overtime should have rolled back")
}

func TestStore_WithTx_CommitsOnSuccess(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := d(2022, time.March, 7)

	err := store.WithTx(ctx, func(tx timesheet.Store) error {
		_, err := tx.UpsertEntry(ctx, 1, day, 10, decimal.NewFromFloat(9))
		return err
	})
	require.NoError(t, err)

	entries, err := store.Entries(ctx, timesheet.EntryQuery{UserID: 1, From: day, To: day})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// =============================================================================
// OVERTIME ROW TESTS
// =============================================================================

func TestStore_DeleteOvertimeOnDate_OnlyTouchesThatDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	monday := d(2022, time.March, 7)
	tuesday := d(2022, time.March, 8)

	require.NoError(t, store.StoreOvertime(ctx, []timesheet.EarnedOvertime{
		{UserID: 1, Date: monday, Value: decimal.NewFromFloat(1.5), CompensationRate: decimal.NewFromInt(1)},
		{UserID: 1, Date: tuesday, Value: decimal.NewFromFloat(2), CompensationRate: decimal.NewFromInt(1)},
	}))

	require.NoError(t, store.DeleteOvertimeOnDate(ctx, 1, monday))

	remaining, err := store.EarnedOvertime(ctx, 1, monday, tuesday)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.True(t, remaining[0].Date.Equal(tuesday))
}

// =============================================================================
// USER AND TOKEN TESTS
// =============================================================================

func TestStore_UserByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.UserByID(context.Background(), 42)

	assert.ErrorIs(t, err, timesheet.ErrUserNotFound)
}

func TestStore_UserByAccessToken(t *testing.T) {
	// GIVEN: One valid and one expired token for the same user
	// WHEN: Resolving each
	// THEN: Only the valid one yields the user

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.CreateAccessToken(ctx, sqlite.AccessToken{
		Token: "valid", UserID: 1, FriendlyName: "laptop",
		ExpiresAt: now.Add(24 * time.Hour), CreatedAt: now,
	}))
	require.NoError(t, store.CreateAccessToken(ctx, sqlite.AccessToken{
		Token: "stale", UserID: 1, FriendlyName: "old laptop",
		ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-48 * time.Hour),
	}))

	user, err := store.UserByAccessToken(ctx, "valid")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)

	_, err = store.UserByAccessToken(ctx, "stale")
	assert.ErrorIs(t, err, timesheet.ErrUserNotFound)

	require.NoError(t, store.DeleteAccessToken(ctx, 1, "valid"))
	_, err = store.UserByAccessToken(ctx, "valid")
	assert.ErrorIs(t, err, timesheet.ErrUserNotFound)
}

func TestStore_EmploymentRates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmploymentRate(ctx, timesheet.EmploymentRate{
		UserID: 1, Rate: decimal.NewFromFloat(0.8),
		FromDate: d(2021, time.January, 1), ToDate: d(2021, time.December, 31),
	}))

	rates, err := store.EmploymentRates(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.True(t, rates[0].Rate.Equal(decimal.NewFromFloat(0.8)))
}
