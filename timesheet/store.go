/*
store.go - Persistence interfaces consumed by the calculators

PURPOSE:
  Defines the boundary between the calculation logic and the database.
  Calculators never touch SQL; they pull entries through these interfaces
  and, for the overtime recompute, run a delete-then-recreate sequence
  inside WithTx.

KEY INTERFACES:
  EntryStore:    Time entry queries and upserts (the only durable input)
  OvertimeStore: The earned-overtime cache (derived, delete+reinsert)
  RateStore:     Compensation rate lookup
  Store:         All of the above, as one unit for transactional use
  TxStore:       Store plus WithTx for atomic recompute
  UserStore:     User directory and personal access tokens

ATOMICITY:
  The overtime recompute (delete rows for a date, recompute, reinsert) MUST
  run inside WithTx so a failure mid-sequence leaves no hours silently lost
  and no reader observes the deleted-but-not-recreated state.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store

SEE ALSO:
  - overtime: the only writer through these interfaces
*/
package timesheet

import (
	"context"

	"github.com/shopspring/decimal"
)

// EntryQuery filters time entries. TaskID nil means all tasks.
type EntryQuery struct {
	UserID int
	TaskID *int
	From   Date
	To     Date
}

// EntryStore holds raw date/task/value records per user.
type EntryStore interface {
	// Entries returns matching entries ordered by date ascending.
	Entries(ctx context.Context, q EntryQuery) ([]TimeEntry, error)

	// EntriesWithCustomer returns matching entries joined with the customer
	// name of each entry's task.
	EntriesWithCustomer(ctx context.Context, q EntryQuery) ([]EntryWithCustomer, error)

	// UpsertEntry inserts or updates the entry for (user, date, task).
	// Fails with a LockedError when the task is locked, or when updating an
	// entry that is itself locked.
	UpsertEntry(ctx context.Context, userID int, date Date, taskID int, value decimal.Decimal) (TimeEntry, error)
}

// OvertimeStore persists the derived overtime cache.
type OvertimeStore interface {
	// EarnedOvertime returns overtime rows in [from, to] ordered by date.
	EarnedOvertime(ctx context.Context, userID int, from, to Date) ([]EarnedOvertime, error)

	// StoreOvertime inserts overtime rows.
	StoreOvertime(ctx context.Context, rows []EarnedOvertime) error

	// DeleteOvertimeOnDate removes all overtime rows for (user, date).
	DeleteOvertimeOnDate(ctx context.Context, userID int, date Date) error
}

// RateStore exposes compensation rate configuration.
type RateStore interface {
	// CompensationRates returns every configured rate.
	CompensationRates(ctx context.Context) ([]CompensationRate, error)
}

// Store bundles the interfaces the overtime recompute needs as one unit.
type Store interface {
	EntryStore
	OvertimeStore
	RateStore
}

// TxStore wraps Store with transaction support. If fn returns an error the
// transaction rolls back; otherwise it commits.
type TxStore interface {
	Store

	WithTx(ctx context.Context, fn func(Store) error) error
}

// UserStore is the user directory.
type UserStore interface {
	// UserByID returns the user or ErrUserNotFound.
	UserByID(ctx context.Context, id int) (User, error)

	// UserByAccessToken resolves a personal access token to its owner, or
	// ErrUserNotFound when the token is unknown or expired.
	UserByAccessToken(ctx context.Context, token string) (User, error)

	// EmploymentRates returns all employment rates for a user.
	EmploymentRates(ctx context.Context, userID int) ([]EmploymentRate, error)
}
