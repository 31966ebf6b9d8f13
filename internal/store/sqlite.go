package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"

	"github.com/openwager/engine/internal/wager"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite implements the DB interface on a single SQLite file. WAL mode
// plus immediate transactions keep writers serialized without readers
// blocking; contention surfaces as ErrStorageConflict for the caller to
// retry.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and creates if missing) the database at path. Pass
// ":memory:" for an ephemeral database in tests.
func NewSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf(
		"file:%s?_txlock=immediate&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single writer connection sidesteps SQLITE_BUSY between our own
	// transactions; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Migrate brings the schema to the latest version.
func (s *SQLite) Migrate() error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Tx is a handle to an open immediate transaction. All mutating ledger
// and seed-chain operations go through it.
type Tx struct {
	tx *sql.Tx
}

// Tx runs fn inside a single immediate transaction. The transaction is
// rolled back when fn returns an error and committed otherwise. Storage
// level failures are mapped to the retryable sentinels.
func (s *SQLite) Tx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapStorageErr(err)
	}

	if err := fn(ctx, &Tx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = multierr.Append(err, fmt.Errorf("rollback failed: %w", rbErr))
		}
		return mapStorageErr(err)
	}
	if err := tx.Commit(); err != nil {
		return mapStorageErr(err)
	}
	return nil
}

// mapStorageErr translates driver-level failures into the retryable
// sentinels. Domain errors pass through untouched.
func mapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", wager.ErrStorageTimeout, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") {
		return fmt.Errorf("%w: %v", wager.ErrStorageConflict, err)
	}
	return err
}

// isUniqueViolation reports whether err is a unique index violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}

// --- users ---

const userColumns = "id, balance_cents, created_at"

func scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.BalanceCents, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wager.ErrUserNotFound
		}
		return nil, mapStorageErr(err)
	}
	return &u, nil
}

func (s *SQLite) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

func (s *SQLite) CreateUser(ctx context.Context, user *User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, balance_cents, created_at) VALUES (?, ?, ?)",
		user.ID, user.BalanceCents, user.CreatedAt,
	)
	return mapStorageErr(err)
}

// User loads an account inside the transaction.
func (t *Tx) User(ctx context.Context, id string) (*User, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// AddBalance applies a signed delta to the user's balance. A debit that
// would go negative fails the CHECK constraint and is reported as
// ErrInsufficientBalance.
func (t *Tx) AddBalance(ctx context.Context, userID string, deltaCents int64) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE users SET balance_cents = balance_cents + ? WHERE id = ?",
		deltaCents, userID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "CHECK constraint failed") {
			return wager.ErrInsufficientBalance
		}
		return mapStorageErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapStorageErr(err)
	}
	if n == 0 {
		return wager.ErrUserNotFound
	}
	return nil
}

// --- seed states ---

const seedColumns = "id, user_id, server_seed, server_seed_hash, client_seed, nonce, revealed, created_at, rotated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSeedState(row rowScanner) (*SeedState, error) {
	var st SeedState
	var revealed int
	var rotatedAt sql.NullTime
	err := row.Scan(
		&st.ID, &st.UserID, &st.ServerSeed, &st.ServerSeedHash, &st.ClientSeed,
		&st.Nonce, &revealed, &st.CreatedAt, &rotatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wager.ErrSeedNotFound
		}
		return nil, mapStorageErr(err)
	}
	st.Revealed = revealed == 1
	if rotatedAt.Valid {
		st.RotatedAt = &rotatedAt.Time
	}
	return &st, nil
}

func (s *SQLite) GetSeedState(ctx context.Context, id string) (*SeedState, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+seedColumns+" FROM seed_states WHERE id = ?", id)
	return scanSeedState(row)
}

// ActiveSeedState returns the user's current (unrevealed) seed state.
func (s *SQLite) ActiveSeedState(ctx context.Context, userID string) (*SeedState, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+seedColumns+" FROM seed_states WHERE user_id = ? AND revealed = 0", userID)
	return scanSeedState(row)
}

// SeedStateByHash resolves a published commitment hash back to its row.
func (s *SQLite) SeedStateByHash(ctx context.Context, userID, hash string) (*SeedState, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+seedColumns+" FROM seed_states WHERE user_id = ? AND server_seed_hash = ? ORDER BY created_at DESC LIMIT 1",
		userID, hash)
	return scanSeedState(row)
}

func (t *Tx) SeedState(ctx context.Context, id string) (*SeedState, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT "+seedColumns+" FROM seed_states WHERE id = ?", id)
	return scanSeedState(row)
}

func (t *Tx) ActiveSeedState(ctx context.Context, userID string) (*SeedState, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT "+seedColumns+" FROM seed_states WHERE user_id = ? AND revealed = 0", userID)
	return scanSeedState(row)
}

func (t *Tx) InsertSeedState(ctx context.Context, st *SeedState) error {
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO seed_states (id, user_id, server_seed, server_seed_hash, client_seed, nonce, revealed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		st.ID, st.UserID, st.ServerSeed, st.ServerSeedHash, st.ClientSeed, st.Nonce, st.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: user already has a current seed state", wager.ErrStorageConflict)
	}
	return mapStorageErr(err)
}

// RevealSeedState marks the state rotated away; its server seed is
// public from this point on.
func (t *Tx) RevealSeedState(ctx context.Context, id string, at time.Time) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE seed_states SET revealed = 1, rotated_at = ? WHERE id = ? AND revealed = 0",
		at, id,
	)
	if err != nil {
		return mapStorageErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapStorageErr(err)
	}
	if n == 0 {
		return wager.ErrSeedNotFound
	}
	return nil
}

// NextNonce atomically advances the seed state's wager counter and
// returns the consumed value. The first wager on a fresh seed gets 1.
func (t *Tx) NextNonce(ctx context.Context, seedStateID string) (uint64, error) {
	var nonce uint64
	err := t.tx.QueryRowContext(ctx,
		"UPDATE seed_states SET nonce = nonce + 1 WHERE id = ? RETURNING nonce",
		seedStateID,
	).Scan(&nonce)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, wager.ErrSeedNotFound
		}
		return 0, mapStorageErr(err)
	}
	return nonce, nil
}

// --- wagers ---

const wagerColumns = "id, user_id, game, bet_amount_cents, payout_amount_cents, active, nonce_used, seed_state_id, state, created_at, settled_at"

func scanWager(row rowScanner) (*wager.Wager, error) {
	var w wager.Wager
	var active int
	var state sql.NullString
	var settledAt sql.NullTime
	err := row.Scan(
		&w.ID, &w.UserID, &w.Game, &w.BetAmountCents, &w.PayoutAmountCents,
		&active, &w.NonceUsed, &w.SeedStateID, &state, &w.CreatedAt, &settledAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wager.ErrWagerNotFound
		}
		return nil, mapStorageErr(err)
	}
	w.Active = active == 1
	if state.Valid {
		w.State = []byte(state.String)
	}
	if settledAt.Valid {
		w.SettledAt = &settledAt.Time
	}
	return &w, nil
}

func (s *SQLite) GetWager(ctx context.Context, id string) (*wager.Wager, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+wagerColumns+" FROM wagers WHERE id = ?", id)
	return scanWager(row)
}

func (s *SQLite) GetActiveWager(ctx context.Context, userID string) (*wager.Wager, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+wagerColumns+" FROM wagers WHERE user_id = ? AND active = 1", userID)
	return scanWager(row)
}

func (t *Tx) WagerByID(ctx context.Context, id string) (*wager.Wager, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT "+wagerColumns+" FROM wagers WHERE id = ?", id)
	return scanWager(row)
}

func (t *Tx) ActiveWager(ctx context.Context, userID string) (*wager.Wager, error) {
	row := t.tx.QueryRowContext(ctx,
		"SELECT "+wagerColumns+" FROM wagers WHERE user_id = ? AND active = 1", userID)
	return scanWager(row)
}

func (t *Tx) InsertWager(ctx context.Context, w *wager.Wager) error {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	active := 0
	if w.Active {
		active = 1
	}
	var state any
	if len(w.State) > 0 {
		state = string(w.State)
	}
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO wagers (id, user_id, game, bet_amount_cents, payout_amount_cents, active, nonce_used, seed_state_id, state, created_at, settled_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.Game, w.BetAmountCents, w.PayoutAmountCents,
		active, w.NonceUsed, w.SeedStateID, state, w.CreatedAt, w.SettledAt,
	)
	if isUniqueViolation(err) {
		if strings.Contains(err.Error(), "wagers.user_id") {
			return wager.ErrActiveWagerExists
		}
		return fmt.Errorf("%w: %v", wager.ErrStorageConflict, err)
	}
	return mapStorageErr(err)
}

// UpdateWager persists the mutable wager fields: accumulated bet, game
// state, payout, active flag and settlement time.
func (t *Tx) UpdateWager(ctx context.Context, w *wager.Wager) error {
	active := 0
	if w.Active {
		active = 1
	}
	var state any
	if len(w.State) > 0 {
		state = string(w.State)
	}
	res, err := t.tx.ExecContext(ctx,
		`UPDATE wagers SET bet_amount_cents = ?, payout_amount_cents = ?, active = ?, state = ?, settled_at = ?
		 WHERE id = ?`,
		w.BetAmountCents, w.PayoutAmountCents, active, state, w.SettledAt, w.ID,
	)
	if err != nil {
		return mapStorageErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapStorageErr(err)
	}
	if n == 0 {
		return wager.ErrWagerNotFound
	}
	return nil
}

// ListWagers retrieves settled and active wagers with pagination and
// optional game filtering, newest first.
func (s *SQLite) ListWagers(ctx context.Context, query WagersQuery) (*WagersList, error) {
	where := "WHERE user_id = ?"
	args := []any{query.UserID}
	if query.Game != "" {
		where += " AND game = ?"
		args = append(args, query.Game)
	}

	var totalCount int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM wagers "+where, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", mapStorageErr(err))
	}

	if query.PerPage <= 0 {
		query.PerPage = 50
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	totalPages := (totalCount + query.PerPage - 1) / query.PerPage
	offset := (query.Page - 1) * query.PerPage

	args = append(args, query.PerPage, offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+wagerColumns+" FROM wagers "+where+" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query wagers: %w", mapStorageErr(err))
	}
	defer rows.Close()

	var wagers []wager.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wagers: %w", mapStorageErr(err))
	}

	return &WagersList{
		Wagers:     wagers,
		TotalCount: totalCount,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: totalPages,
	}, nil
}
