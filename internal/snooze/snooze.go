// Package snooze implements the per-user Active⇄Snoozed state machine driven
// by the reminder message's inline buttons.
package snooze

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/theycallmerubik/ReservReminder/internal/delivery"
	"github.com/theycallmerubik/ReservReminder/internal/domain"
	"github.com/theycallmerubik/ReservReminder/internal/store"
)

const (
	snoozedText       = "Reminders are paused for this week. 😊"
	resumedText       = "Reminders are back on for this week. 😊"
	alreadyOffText    = "Reminders are already paused for this week."
	alreadyOnText     = "Reminders are already on for this week."
	retryText         = "Something went wrong. Please try again."
	notRegisteredText = "You are not registered yet. Send /start to join the reminder list."
)

// Registry is the storage subset the machine needs.
type Registry interface {
	GetUser(ctx context.Context, chatID int64) (*domain.User, error)
	SetSnooze(ctx context.Context, chatID int64, state domain.SnoozeState) error
}

// Machine applies snooze transitions and keeps the originating message's
// button in sync with the stored state.
type Machine struct {
	reg Registry
	gw  delivery.Gateway
	log *zap.Logger
}

func NewMachine(reg Registry, gw delivery.Gateway, log *zap.Logger) *Machine {
	return &Machine{reg: reg, gw: gw, log: log}
}

// Apply moves chatID to target and re-renders the message the click came
// from. A click that matches the current state only edits in an "already"
// notice; storage is left untouched. A failed edit after a successful state
// write does not roll the state back.
func (m *Machine) Apply(ctx context.Context, ref delivery.MessageRef, chatID int64, target domain.SnoozeState) {
	u, err := m.reg.GetUser(ctx, chatID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Row vanished, e.g. removed after an unreachable delivery.
			m.sendFallback(chatID, notRegisteredText)
			return
		}
		m.log.Error("read snooze state failed", zap.Int64("chatID", chatID), zap.Error(err))
		m.sendFallback(chatID, retryText)
		return
	}

	if u.State == target {
		if err := m.gw.Edit(ref, alreadyText(target), toggleAction(target)); err != nil {
			m.log.Warn("edit on repeated click failed", zap.Int64("chatID", chatID), zap.Error(err))
			m.sendFallback(chatID, retryText)
		}
		return
	}

	if err := m.reg.SetSnooze(ctx, chatID, target); err != nil {
		m.log.Error("persist snooze state failed", zap.Int64("chatID", chatID), zap.Error(err))
		m.sendFallback(chatID, retryText)
		return
	}
	m.log.Info("snooze state changed",
		zap.Int64("chatID", chatID), zap.String("state", target.String()))

	if err := m.gw.Edit(ref, ackText(target), toggleAction(target)); err != nil {
		// The state change already stands; only the rendering failed.
		m.log.Warn("edit after state change failed", zap.Int64("chatID", chatID), zap.Error(err))
		m.sendFallback(chatID, retryText)
	}
}

func (m *Machine) sendFallback(chatID int64, text string) {
	if _, err := m.gw.Send(chatID, text); err != nil {
		m.log.Warn("fallback send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func ackText(s domain.SnoozeState) string {
	if s == domain.Snoozed {
		return snoozedText
	}
	return resumedText
}

func alreadyText(s domain.SnoozeState) string {
	if s == domain.Snoozed {
		return alreadyOffText
	}
	return alreadyOnText
}

// toggleAction returns the button that moves the user out of state s.
func toggleAction(s domain.SnoozeState) delivery.Action {
	if s == domain.Snoozed {
		return delivery.Action{Label: "Turn reminders back on", Token: delivery.TokenRevertSnooze}
	}
	return delivery.Action{Label: "✅ I reserved", Token: delivery.TokenSnooze}
}
