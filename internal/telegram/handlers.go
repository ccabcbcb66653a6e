package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (r *Router) handleStart(ctx context.Context, chatID int64, from *tgbotapi.User) {
	created, err := r.repo.RegisterIfAbsent(ctx, chatID)
	if err != nil {
		r.log.Error("register user failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, registrationFailedText)
		return
	}
	if !created {
		r.sendText(chatID, alreadyRegisteredText)
		return
	}

	name := "there"
	if from != nil && from.FirstName != "" {
		name = from.FirstName
	}
	r.log.Info("user registered", zap.Int64("chatID", chatID))
	r.sendText(chatID, fmt.Sprintf(welcomeFmt, name))
}

func (r *Router) handleHelp(chatID int64) {
	r.sendText(chatID, helpText)
}
