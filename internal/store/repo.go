package store

import (
	"context"
	"errors"

	"github.com/theycallmerubik/ReservReminder/internal/domain"
)

// ErrNotFound is returned when no user row exists for the requested chat id.
var ErrNotFound = errors.New("store: user not found")

// Repo defines storage operations for the recipient registry.
type Repo interface {
	// RegisterIfAbsent inserts a new Active user unless the row already
	// exists. It reports whether a row was created. Concurrent calls for the
	// same chat id insert at most one row.
	RegisterIfAbsent(ctx context.Context, chatID int64) (created bool, err error)
	// GetUser returns the user or ErrNotFound.
	GetUser(ctx context.Context, chatID int64) (*domain.User, error)
	// ListActive returns a snapshot of chat ids eligible for delivery.
	ListActive(ctx context.Context) ([]int64, error)
	// SetSnooze writes the snooze state unconditionally; rewriting the
	// current value is a harmless no-op.
	SetSnooze(ctx context.Context, chatID int64, state domain.SnoozeState) error
	// ResetAllActive flips every row back to Active for the new week.
	ResetAllActive(ctx context.Context) error
	// Remove permanently deletes the row. The user has to /start again.
	Remove(ctx context.Context, chatID int64) error
	Close() error
}
