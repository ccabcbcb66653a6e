// Package broadcast fans one reminder out to every active recipient.
package broadcast

import (
	"context"

	"go.uber.org/zap"

	"github.com/theycallmerubik/ReservReminder/internal/delivery"
)

// Registry is the storage subset the engine needs.
type Registry interface {
	ListActive(ctx context.Context) ([]int64, error)
	Remove(ctx context.Context, chatID int64) error
}

// Engine sends one message to all non-snoozed users and drops recipients the
// transport reports as permanently unreachable.
type Engine struct {
	gw  delivery.Gateway
	reg Registry
	log *zap.Logger
}

func New(gw delivery.Gateway, reg Registry, log *zap.Logger) *Engine {
	return &Engine{gw: gw, reg: reg, log: log}
}

// Broadcast delivers text to a snapshot of the active set. Each recipient is
// handled independently: an unreachable one is removed from the registry, any
// other failure is logged, and the batch always continues.
func (e *Engine) Broadcast(ctx context.Context, text string, actions ...delivery.Action) error {
	ids, err := e.reg.ListActive(ctx)
	if err != nil {
		e.log.Error("list active recipients failed", zap.Error(err))
		return err
	}

	for _, id := range ids {
		if _, err := e.gw.Send(id, text, actions...); err != nil {
			e.handleSendFailure(ctx, id, err)
		}
	}

	e.log.Info("broadcast complete", zap.Int("recipients", len(ids)))
	return nil
}

func (e *Engine) handleSendFailure(ctx context.Context, chatID int64, err error) {
	switch delivery.KindOf(err) {
	case delivery.FailureRecipientUnreachable:
		e.log.Warn("recipient unreachable, removing from registry",
			zap.Int64("chatID", chatID), zap.Error(err))
		if rmErr := e.reg.Remove(ctx, chatID); rmErr != nil {
			e.log.Error("remove unreachable recipient failed",
				zap.Int64("chatID", chatID), zap.Error(rmErr))
		}
	case delivery.FailureTransient:
		e.log.Warn("transient delivery failure",
			zap.Int64("chatID", chatID), zap.Error(err))
	default:
		e.log.Error("delivery failed",
			zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// Notify mirrors text to a fixed recipient list, bypassing the registry.
// Group chats are not registry rows, so failures here only get logged.
func (e *Engine) Notify(text string, ids ...int64) {
	for _, id := range ids {
		if _, err := e.gw.Send(id, text); err != nil {
			e.log.Warn("group notify failed", zap.Int64("chatID", id), zap.Error(err))
		}
	}
}
