package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/theycallmerubik/ReservReminder/internal/delivery"
)

// BotGateway implements delivery.Gateway on top of the Bot API client.
type BotGateway struct {
	bot *tgbotapi.BotAPI
	log *zap.Logger
}

func NewGateway(bot *tgbotapi.BotAPI, log *zap.Logger) *BotGateway {
	return &BotGateway{bot: bot, log: log}
}

// Send delivers a text message, with the actions rendered as one inline row.
func (g *BotGateway) Send(recipient int64, text string, actions ...delivery.Action) (delivery.MessageRef, error) {
	msg := tgbotapi.NewMessage(recipient, text)
	if kb := inlineRow(actions); kb != nil {
		msg.ReplyMarkup = *kb
	}
	sent, err := g.bot.Send(msg)
	if err != nil {
		return delivery.MessageRef{}, classify(err)
	}
	return delivery.MessageRef{ChatID: recipient, MessageID: sent.MessageID}, nil
}

// Edit rewrites a previously sent message's text and buttons.
func (g *BotGateway) Edit(ref delivery.MessageRef, text string, actions ...delivery.Action) error {
	if kb := inlineRow(actions); kb != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(ref.ChatID, ref.MessageID, text, *kb)
		if _, err := g.bot.Send(edit); err != nil {
			return classify(err)
		}
		return nil
	}
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	if _, err := g.bot.Send(edit); err != nil {
		return classify(err)
	}
	return nil
}

func inlineRow(actions []delivery.Action) *tgbotapi.InlineKeyboardMarkup {
	if len(actions) == 0 {
		return nil
	}
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, a := range actions {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Token))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(row)
	return &kb
}

// classify maps Bot API errors onto the delivery failure taxonomy. A 403
// means the user blocked the bot or deleted the chat; that recipient is gone
// for good. Rate limits and upstream errors are transient.
func classify(err error) error {
	if apiErr, ok := err.(*tgbotapi.Error); ok {
		switch {
		case apiErr.Code == 403:
			return &delivery.Error{Kind: delivery.FailureRecipientUnreachable, Err: err}
		case apiErr.Code == 429 || apiErr.Code >= 500:
			return &delivery.Error{Kind: delivery.FailureTransient, Err: err}
		}
	}
	return &delivery.Error{Kind: delivery.FailureOther, Err: err}
}
