package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/theycallmerubik/ReservReminder/internal/admin"
	"github.com/theycallmerubik/ReservReminder/internal/delivery"
	"github.com/theycallmerubik/ReservReminder/internal/domain"
	"github.com/theycallmerubik/ReservReminder/internal/snooze"
	"github.com/theycallmerubik/ReservReminder/internal/store"
)

// callbackHandler reacts to one inline-button token.
type callbackHandler func(ctx context.Context, chatID int64, ref delivery.MessageRef)

// Router wires Telegram updates to the command handlers and the two state
// machines (snooze, admin confirmation) behind a token dispatch table.
type Router struct {
	bot       *tgbotapi.BotAPI
	log       *zap.Logger
	repo      store.Repo
	callbacks map[string]callbackHandler
}

// NewRouter builds the router and its callback dispatch table.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, machine *snooze.Machine, workflow *admin.Workflow) *Router {
	r := &Router{bot: bot, log: log, repo: repo}
	r.callbacks = map[string]callbackHandler{
		delivery.TokenSnooze: func(ctx context.Context, chatID int64, ref delivery.MessageRef) {
			machine.Apply(ctx, ref, chatID, domain.Snoozed)
		},
		delivery.TokenRevertSnooze: func(ctx context.Context, chatID int64, ref delivery.MessageRef) {
			machine.Apply(ctx, ref, chatID, domain.Active)
		},
		delivery.TokenConfirm: func(ctx context.Context, _ int64, ref delivery.MessageRef) {
			workflow.Confirm(ctx, ref)
		},
		delivery.TokenDelay: func(_ context.Context, _ int64, ref delivery.MessageRef) {
			workflow.Delay(ref)
		},
		delivery.TokenSendNow: func(ctx context.Context, _ int64, ref delivery.MessageRef) {
			workflow.SendNow(ctx, ref)
		},
	}
	return r
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		switch {
		case strings.HasPrefix(text, "/start"):
			r.handleStart(ctx, chatID, msg.From)
		case strings.HasPrefix(text, "/help"):
			r.handleHelp(chatID)
		default:
			// Free-form text has no meaning for this bot.
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil {
			return
		}
		handler, ok := r.callbacks[cb.Data]
		if !ok {
			// Unknown callback — ignore silently
			return
		}
		_ = r.answerCallback(cb.ID)
		ref := delivery.MessageRef{ChatID: cb.Message.Chat.ID, MessageID: cb.Message.MessageID}
		handler(ctx, cb.Message.Chat.ID, ref)
	}
}

func (r *Router) answerCallback(id string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, ""))
	return err
}

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}
