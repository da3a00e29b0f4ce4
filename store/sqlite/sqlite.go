/*
Package sqlite provides the SQLite-backed implementation of the timesheet
storage interfaces.

PURPOSE:
  Implements timesheet.EntryStore, OvertimeStore, RateStore, TxStore and
  UserStore on database/sql + go-sqlite3. In production the same patterns
  apply to a server database - only SQL dialect details differ.

KEY TABLES:
  users:              Employee directory (hire/end dates)
  tasks:              Bookable activities (locked flag, customer)
  time_entries:       The durable input; unique per (user, date, task)
  compensation_rates: Per-task overtime multipliers over time
  earned_overtime:    Derived cache, deleted and recreated per (user, date)
  employment_rates:   Part-time fractions per date interval
  access_tokens:      Personal access tokens

LOCKING RULES (enforced here, surfaced as timesheet.LockedError):
  - Inserting an entry against a locked task fails
  - Updating an entry whose task is locked fails
  - Updating an entry that is itself locked fails

TRANSACTIONS:
  WithTx runs a function against a store view bound to one database
  transaction. The overtime recompute depends on this for its
  delete-then-recreate atomicity.

WAL MODE:
  The database opens with WAL for concurrent readers; a sync.RWMutex
  serializes writers.

USAGE:
  store, err := sqlite.New("./alvtime.db")   // or ":memory:"

SEE ALSO:
  - timesheet/store.go: interface definitions
  - overtime: the transactional consumer
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/SSotonass/alvtime/timesheet"
)

// Store implements all timesheet storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		project TEXT NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL DEFAULT '',
		locked BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		date TEXT NOT NULL,
		task_id INTEGER NOT NULL REFERENCES tasks(id),
		value TEXT NOT NULL,
		locked BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE(user_id, date, task_id)
	);

	CREATE INDEX IF NOT EXISTS idx_entries_user_date
		ON time_entries(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_entries_user_task_date
		ON time_entries(user_id, task_id, date);

	CREATE TABLE IF NOT EXISTS compensation_rates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id INTEGER NOT NULL REFERENCES tasks(id),
		value TEXT NOT NULL,
		from_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rates_task
		ON compensation_rates(task_id, from_date DESC);

	CREATE TABLE IF NOT EXISTS earned_overtime (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		date TEXT NOT NULL,
		value TEXT NOT NULL,
		compensation_rate TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_overtime_user_date
		ON earned_overtime(user_id, date);

	CREATE TABLE IF NOT EXISTS employment_rates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		rate TEXT NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS access_tokens (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		friendly_name TEXT NOT NULL DEFAULT '',
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tokens_user
		ON access_tokens(user_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// querier abstracts *sql.DB and *sql.Tx so the same query code serves both
// the store and its transactional view.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// ENTRY STORE (timesheet.EntryStore interface)
// =============================================================================

// Entries returns matching entries ordered by date ascending.
func (s *Store) Entries(ctx context.Context, q timesheet.EntryQuery) ([]timesheet.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entries(ctx, s.db, q)
}

func entries(ctx context.Context, db querier, q timesheet.EntryQuery) ([]timesheet.TimeEntry, error) {
	query := `
		SELECT id, user_id, date, task_id, value, locked
		FROM time_entries
		WHERE user_id = ? AND date >= ? AND date <= ?
	`
	args := []any{q.UserID, q.From.String(), q.To.String()}
	if q.TaskID != nil {
		query += " AND task_id = ?"
		args = append(args, *q.TaskID)
	}
	query += " ORDER BY date ASC, task_id ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var result []timesheet.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// EntriesWithCustomer returns entries joined with each task's customer name.
func (s *Store) EntriesWithCustomer(ctx context.Context, q timesheet.EntryQuery) ([]timesheet.EntryWithCustomer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entriesWithCustomer(ctx, s.db, q)
}

func entriesWithCustomer(ctx context.Context, db querier, q timesheet.EntryQuery) ([]timesheet.EntryWithCustomer, error) {
	query := `
		SELECT e.id, e.user_id, e.date, e.task_id, e.value, e.locked, t.customer_name
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		WHERE e.user_id = ? AND e.date >= ? AND e.date <= ?
	`
	args := []any{q.UserID, q.From.String(), q.To.String()}
	if q.TaskID != nil {
		query += " AND e.task_id = ?"
		args = append(args, *q.TaskID)
	}
	query += " ORDER BY e.date ASC, e.task_id ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries with customer: %w", err)
	}
	defer rows.Close()

	var result []timesheet.EntryWithCustomer
	for rows.Next() {
		var (
			e        timesheet.TimeEntry
			dateStr  string
			value    string
			customer string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &dateStr, &e.TaskID, &value, &e.Locked, &customer); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.Date = mustDate(dateStr)
		e.Value = mustDecimal(value)
		result = append(result, timesheet.EntryWithCustomer{TimeEntry: e, CustomerName: customer})
	}
	return result, rows.Err()
}

// UpsertEntry inserts or updates the entry for (user, date, task). Locked
// tasks reject both; locked entries reject updates.
func (s *Store) UpsertEntry(ctx context.Context, userID int, date timesheet.Date, taskID int, value decimal.Decimal) (timesheet.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertEntry(ctx, s.db, userID, date, taskID, value)
}

func upsertEntry(ctx context.Context, db querier, userID int, date timesheet.Date, taskID int, value decimal.Decimal) (timesheet.TimeEntry, error) {
	var taskLocked bool
	err := db.QueryRowContext(ctx, "SELECT locked FROM tasks WHERE id = ?", taskID).Scan(&taskLocked)
	if errors.Is(err, sql.ErrNoRows) {
		return timesheet.TimeEntry{}, fmt.Errorf("task %d: %w", taskID, timesheet.ErrTaskNotFound)
	}
	if err != nil {
		return timesheet.TimeEntry{}, err
	}
	if taskLocked {
		return timesheet.TimeEntry{}, &timesheet.LockedError{TaskID: taskID}
	}

	var (
		existingID     int64
		existingLocked bool
	)
	err = db.QueryRowContext(ctx,
		"SELECT id, locked FROM time_entries WHERE user_id = ? AND date = ? AND task_id = ?",
		userID, date.String(), taskID,
	).Scan(&existingID, &existingLocked)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := db.ExecContext(ctx,
			"INSERT INTO time_entries (user_id, date, task_id, value) VALUES (?, ?, ?, ?)",
			userID, date.String(), taskID, value.String(),
		)
		if err != nil {
			return timesheet.TimeEntry{}, fmt.Errorf("failed to insert entry: %w", err)
		}
		id, _ := res.LastInsertId()
		return timesheet.TimeEntry{ID: id, UserID: userID, Date: date, TaskID: taskID, Value: value}, nil

	case err != nil:
		return timesheet.TimeEntry{}, err

	case existingLocked:
		return timesheet.TimeEntry{}, &timesheet.LockedError{TaskID: taskID, EntryID: existingID}

	default:
		if _, err := db.ExecContext(ctx,
			"UPDATE time_entries SET value = ? WHERE id = ?",
			value.String(), existingID,
		); err != nil {
			return timesheet.TimeEntry{}, fmt.Errorf("failed to update entry: %w", err)
		}
		return timesheet.TimeEntry{ID: existingID, UserID: userID, Date: date, TaskID: taskID, Value: value}, nil
	}
}

// LockEntry marks an entry as belonging to a closed period (admin path).
func (s *Store) LockEntry(ctx context.Context, entryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "UPDATE time_entries SET locked = TRUE WHERE id = ?", entryID)
	return err
}

// =============================================================================
// OVERTIME STORE (timesheet.OvertimeStore interface)
// =============================================================================

// EarnedOvertime returns the cached overtime rows in [from, to].
func (s *Store) EarnedOvertime(ctx context.Context, userID int, from, to timesheet.Date) ([]timesheet.EarnedOvertime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return earnedOvertime(ctx, s.db, userID, from, to)
}

func earnedOvertime(ctx context.Context, db querier, userID int, from, to timesheet.Date) ([]timesheet.EarnedOvertime, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, date, value, compensation_rate
		FROM earned_overtime
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, id ASC
	`, userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime: %w", err)
	}
	defer rows.Close()

	var result []timesheet.EarnedOvertime
	for rows.Next() {
		var (
			ot      timesheet.EarnedOvertime
			dateStr string
			value   string
			rate    string
		)
		if err := rows.Scan(&ot.ID, &ot.UserID, &dateStr, &value, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan overtime: %w", err)
		}
		ot.Date = mustDate(dateStr)
		ot.Value = mustDecimal(value)
		ot.CompensationRate = mustDecimal(rate)
		result = append(result, ot)
	}
	return result, rows.Err()
}

// StoreOvertime inserts overtime rows.
func (s *Store) StoreOvertime(ctx context.Context, rows []timesheet.EarnedOvertime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storeOvertime(ctx, s.db, rows)
}

func storeOvertime(ctx context.Context, db querier, rows []timesheet.EarnedOvertime) error {
	for _, ot := range rows {
		_, err := db.ExecContext(ctx,
			"INSERT INTO earned_overtime (user_id, date, value, compensation_rate) VALUES (?, ?, ?, ?)",
			ot.UserID, ot.Date.String(), ot.Value.String(), ot.CompensationRate.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to store overtime: %w", err)
		}
	}
	return nil
}

// DeleteOvertimeOnDate removes all overtime rows for (user, date).
func (s *Store) DeleteOvertimeOnDate(ctx context.Context, userID int, date timesheet.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteOvertimeOnDate(ctx, s.db, userID, date)
}

func deleteOvertimeOnDate(ctx context.Context, db querier, userID int, date timesheet.Date) error {
	_, err := db.ExecContext(ctx,
		"DELETE FROM earned_overtime WHERE user_id = ? AND date = ?",
		userID, date.String(),
	)
	return err
}

// =============================================================================
// RATE STORE (timesheet.RateStore interface)
// =============================================================================

// CompensationRates returns every configured compensation rate.
func (s *Store) CompensationRates(ctx context.Context) ([]timesheet.CompensationRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return compensationRates(ctx, s.db)
}

func compensationRates(ctx context.Context, db querier) ([]timesheet.CompensationRate, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT task_id, value, from_date FROM compensation_rates ORDER BY task_id ASC, from_date ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	var result []timesheet.CompensationRate
	for rows.Next() {
		var (
			r       timesheet.CompensationRate
			value   string
			dateStr string
		)
		if err := rows.Scan(&r.TaskID, &value, &dateStr); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		r.Value = mustDecimal(value)
		r.FromDate = mustDate(dateStr)
		result = append(result, r)
	}
	return result, rows.Err()
}

// =============================================================================
// TRANSACTIONAL STORE (timesheet.TxStore interface)
// =============================================================================

// WithTx runs fn against a store view bound to one database transaction.
// An error from fn rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(timesheet.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) Entries(ctx context.Context, q timesheet.EntryQuery) ([]timesheet.TimeEntry, error) {
	return entries(ctx, ts.tx, q)
}

func (ts *txStore) EntriesWithCustomer(ctx context.Context, q timesheet.EntryQuery) ([]timesheet.EntryWithCustomer, error) {
	return entriesWithCustomer(ctx, ts.tx, q)
}

func (ts *txStore) UpsertEntry(ctx context.Context, userID int, date timesheet.Date, taskID int, value decimal.Decimal) (timesheet.TimeEntry, error) {
	return upsertEntry(ctx, ts.tx, userID, date, taskID, value)
}

func (ts *txStore) EarnedOvertime(ctx context.Context, userID int, from, to timesheet.Date) ([]timesheet.EarnedOvertime, error) {
	return earnedOvertime(ctx, ts.tx, userID, from, to)
}

func (ts *txStore) StoreOvertime(ctx context.Context, rows []timesheet.EarnedOvertime) error {
	return storeOvertime(ctx, ts.tx, rows)
}

func (ts *txStore) DeleteOvertimeOnDate(ctx context.Context, userID int, date timesheet.Date) error {
	return deleteOvertimeOnDate(ctx, ts.tx, userID, date)
}

func (ts *txStore) CompensationRates(ctx context.Context) ([]timesheet.CompensationRate, error) {
	return compensationRates(ctx, ts.tx)
}

// =============================================================================
// USER STORE (timesheet.UserStore interface)
// =============================================================================

// UserByID returns the user or timesheet.ErrUserNotFound.
func (s *Store) UserByID(ctx context.Context, id int) (timesheet.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, start_date, end_date FROM users WHERE id = ?", id))
}

// UserByAccessToken resolves an unexpired personal access token.
func (s *Store) UserByAccessToken(ctx context.Context, token string) (timesheet.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanUser(s.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.email, u.start_date, u.end_date
		FROM access_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = ? AND t.expires_at > ?
	`, token, time.Now().UTC().Format(time.RFC3339)))
}

// EmploymentRates returns all employment rates for a user.
func (s *Store) EmploymentRates(ctx context.Context, userID int) ([]timesheet.EmploymentRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, rate, from_date, to_date FROM employment_rates WHERE user_id = ? ORDER BY from_date ASC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employment rates: %w", err)
	}
	defer rows.Close()

	var result []timesheet.EmploymentRate
	for rows.Next() {
		var (
			r       timesheet.EmploymentRate
			rate    string
			fromStr string
			toStr   string
		)
		if err := rows.Scan(&r.UserID, &rate, &fromStr, &toStr); err != nil {
			return nil, fmt.Errorf("failed to scan employment rate: %w", err)
		}
		r.Rate = mustDecimal(rate)
		r.FromDate = mustDate(fromStr)
		r.ToDate = mustDate(toStr)
		result = append(result, r)
	}
	return result, rows.Err()
}

// =============================================================================
// ACCESS TOKENS
// =============================================================================

// AccessToken is a stored personal access token.
type AccessToken struct {
	Token        string
	UserID       int
	FriendlyName string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// CreateAccessToken stores a personal access token.
func (s *Store) CreateAccessToken(ctx context.Context, t AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO access_tokens (token, user_id, friendly_name, expires_at, created_at) VALUES (?, ?, ?, ?, ?)",
		t.Token, t.UserID, t.FriendlyName,
		t.ExpiresAt.UTC().Format(time.RFC3339),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteAccessToken revokes a token belonging to the user.
func (s *Store) DeleteAccessToken(ctx context.Context, userID int, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM access_tokens WHERE token = ? AND user_id = ?", token, userID)
	return err
}

// =============================================================================
// ADMIN / SEED WRITES
// =============================================================================

// SaveUser inserts or updates a user.
func (s *Store) SaveUser(ctx context.Context, u timesheet.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var endDate *string
	if u.EndDate != nil {
		str := u.EndDate.String()
		endDate = &str
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			start_date = excluded.start_date,
			end_date = excluded.end_date
	`, u.ID, u.Name, u.Email, u.StartDate.String(), endDate)
	return err
}

// SaveTask inserts or updates a task.
func (s *Store) SaveTask(ctx context.Context, t timesheet.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, name, project, customer_name, locked)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			project = excluded.project,
			customer_name = excluded.customer_name,
			locked = excluded.locked
	`, t.ID, t.Name, t.Project, t.CustomerName, t.Locked)
	return err
}

// SaveCompensationRate appends a compensation rate.
func (s *Store) SaveCompensationRate(ctx context.Context, r timesheet.CompensationRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO compensation_rates (task_id, value, from_date) VALUES (?, ?, ?)",
		r.TaskID, r.Value.String(), r.FromDate.String())
	return err
}

// SaveEmploymentRate appends an employment rate interval.
func (s *Store) SaveEmploymentRate(ctx context.Context, r timesheet.EmploymentRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO employment_rates (user_id, rate, from_date, to_date) VALUES (?, ?, ?, ?)",
		r.UserID, r.Rate.String(), r.FromDate.String(), r.ToDate.String())
	return err
}

// CountUsers reports how many users exist (used to decide seeding).
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(rows rowScanner) (timesheet.TimeEntry, error) {
	var (
		e       timesheet.TimeEntry
		dateStr string
		value   string
	)
	if err := rows.Scan(&e.ID, &e.UserID, &dateStr, &e.TaskID, &value, &e.Locked); err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}
	e.Date = mustDate(dateStr)
	e.Value = mustDecimal(value)
	return e, nil
}

func scanUser(row *sql.Row) (timesheet.User, error) {
	var (
		u        timesheet.User
		startStr string
		endStr   sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &startStr, &endStr)
	if errors.Is(err, sql.ErrNoRows) {
		return u, timesheet.ErrUserNotFound
	}
	if err != nil {
		return u, err
	}
	u.StartDate = mustDate(startStr)
	if endStr.Valid {
		end := mustDate(endStr.String)
		u.EndDate = &end
	}
	return u, nil
}

func mustDate(s string) timesheet.Date {
	d, _ := timesheet.ParseDate(s)
	return d
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
