package broadcast

import (
	"context"

	"github.com/theycallmerubik/ReservReminder/internal/delivery"
)

// Weekly reminder payloads.
const (
	updatedListText = "The menu for next week is up on the reservation site ✅\n" +
		"Don't forget to reserve your meals for next week ❗️"
	midweekText = "Don't forget to reserve next week's meals ❗️"
	finalText   = "Last hours to reserve for next week ⚠️\n" +
		"Don't forget to reserve next week's meals ❗️"
)

// SnoozeAction is the inline button that mutes reminders for the week.
func SnoozeAction() delivery.Action {
	return delivery.Action{Label: "✅ I reserved", Token: delivery.TokenSnooze}
}

// SendWeeklyUpdate announces the refreshed menu to the active set. Fired when
// the admin confirms the site update, or by the external trigger's path via
// the mid-week reminder. The snooze button rides along so users can mute the
// rest of the week.
func (e *Engine) SendWeeklyUpdate(ctx context.Context) error {
	return e.Broadcast(ctx, updatedListText, SnoozeAction())
}

// SendMidweekReminder nudges the active set, plain text.
func (e *Engine) SendMidweekReminder(ctx context.Context) error {
	return e.Broadcast(ctx, midweekText)
}

// SendFinalReminder sends the last-call reminder to the active set and
// mirrors it to the given group chats with no snooze filtering.
func (e *Engine) SendFinalReminder(ctx context.Context, groups ...int64) error {
	err := e.Broadcast(ctx, finalText)
	e.Notify(finalText, groups...)
	return err
}
