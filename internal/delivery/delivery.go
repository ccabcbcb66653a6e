// Package delivery abstracts the messaging transport: sending a text with an
// optional inline action row to one recipient, and editing a sent message
// later. Implementations classify transport failures so callers can tell a
// permanently unreachable recipient from a transient hiccup.
package delivery

import "errors"

// FailureKind classifies a delivery failure.
type FailureKind int

const (
	// FailureOther covers everything the transport could not classify.
	FailureOther FailureKind = iota
	// FailureRecipientUnreachable means the recipient is permanently gone
	// (blocked the bot or deleted the chat). The registry row may be dropped.
	FailureRecipientUnreachable
	// FailureTransient covers rate limits and upstream outages.
	FailureTransient
)

func (k FailureKind) String() string {
	switch k {
	case FailureRecipientUnreachable:
		return "recipient_unreachable"
	case FailureTransient:
		return "transient"
	default:
		return "other"
	}
}

// Error wraps a transport error with its failure classification.
type Error struct {
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	return "delivery " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err, FailureOther when err carries none.
func KindOf(err error) FailureKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return FailureOther
}

// MessageRef identifies a previously delivered message for later edits.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Action is one inline button attached to a message. Token is the opaque
// callback payload the transport echoes back when the button is clicked.
type Action struct {
	Label string
	Token string
}

// Callback tokens understood by the update router.
const (
	TokenSnooze       = "snooze"
	TokenRevertSnooze = "revert_snooze"
	TokenConfirm      = "confirm"
	TokenDelay        = "delay"
	TokenSendNow      = "send_now"
)

// Gateway delivers and edits messages for a single recipient.
type Gateway interface {
	Send(recipient int64, text string, actions ...Action) (MessageRef, error)
	Edit(ref MessageRef, text string, actions ...Action) error
}
