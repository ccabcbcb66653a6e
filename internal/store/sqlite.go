package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/theycallmerubik/ReservReminder/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// RegisterIfAbsent inserts a new Active user iff no row with chatID exists.
// The primary-key conflict target guarantees at most one insert even under
// concurrent registration of the same chat id.
func (r *SQLiteRepo) RegisterIfAbsent(ctx context.Context, chatID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (chat_id, snooze, created_at)
		VALUES (?, 0, ?)
		ON CONFLICT(chat_id) DO NOTHING`,
		chatID, time.Now().UTC().Unix(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetUser returns the registry row for chatID or ErrNotFound.
func (r *SQLiteRepo) GetUser(ctx context.Context, chatID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chat_id, snooze, created_at
		FROM users
		WHERE chat_id = ?`,
		chatID,
	)

	var (
		chatIDOut int64
		snoozeInt int
		createdAt int64
	)
	if err := row.Scan(&chatIDOut, &snoozeInt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &domain.User{
		ChatID:    chatIDOut,
		State:     snoozeToState(snoozeInt),
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}

// ListActive returns every chat id whose snooze flag is clear.
func (r *SQLiteRepo) ListActive(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id
		FROM users
		WHERE snooze = 0`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetSnooze writes the snooze flag for a user.
func (r *SQLiteRepo) SetSnooze(ctx context.Context, chatID int64, state domain.SnoozeState) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET snooze = ?
		WHERE chat_id = ?`,
		stateToSnooze(state), chatID,
	)
	return err
}

// ResetAllActive clears the snooze flag on every row.
func (r *SQLiteRepo) ResetAllActive(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET snooze = 0`)
	return err
}

// Remove deletes the row for chatID. Deleting an absent row is not an error.
func (r *SQLiteRepo) Remove(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE chat_id = ?`, chatID)
	return err
}

func stateToSnooze(s domain.SnoozeState) int {
	if s == domain.Snoozed {
		return 1
	}
	return 0
}

func snoozeToState(v int) domain.SnoozeState {
	if v != 0 {
		return domain.Snoozed
	}
	return domain.Active
}
