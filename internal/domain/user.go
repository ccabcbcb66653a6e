package domain

import "time"

// SnoozeState says whether a user receives reminders this week.
type SnoozeState int

const (
	// Active users are eligible for reminder delivery.
	Active SnoozeState = iota
	// Snoozed users confirmed their reservation and are muted until the weekly reset.
	Snoozed
)

func (s SnoozeState) String() string {
	if s == Snoozed {
		return "snoozed"
	}
	return "active"
}

// User is one registered reminder recipient.
type User struct {
	ChatID    int64
	State     SnoozeState
	CreatedAt time.Time // UTC
}
