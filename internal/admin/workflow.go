// Package admin runs the weekly confirmation gate in front of the Monday
// broadcast: the admin is asked whether the reservation site has been
// updated, and the reminder only goes out once they say yes.
package admin

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theycallmerubik/ReservReminder/internal/delivery"
)

// State of the confirmation session.
type State int

const (
	// StateIdle means no session is live.
	StateIdle State = iota
	// StateAwaitingConfirmation: the prompt is out, nothing clicked yet.
	StateAwaitingConfirmation
	// StateDelayed: the admin deferred; the escalation timer is armed.
	StateDelayed
	// StateResolved: the broadcast went out. Terminal.
	StateResolved
)

const (
	promptText  = "Has the food reservation site been updated? 🍽"
	waitingText = "Waiting for the site to be updated. ⏳"
	sentAckText = "Weekly reminder sent to everyone. ✅"
)

// Broadcaster triggers the weekly reminder fan-out once the admin confirms.
type Broadcaster interface {
	SendWeeklyUpdate(ctx context.Context) error
}

type session struct {
	id    uuid.UUID
	state State
	timer *time.Timer
}

// Workflow holds at most one live confirmation session. Sessions are
// in-memory only; a restart drops an in-flight one and the next weekly
// trigger starts over.
type Workflow struct {
	gw         delivery.Gateway
	engine     Broadcaster
	log        *zap.Logger
	adminID    int64
	retryAfter time.Duration

	// afterFunc is swapped out in tests for a controllable timer.
	afterFunc func(d time.Duration, f func()) *time.Timer

	mu   sync.Mutex
	sess *session
}

func New(gw delivery.Gateway, engine Broadcaster, log *zap.Logger, adminID int64, retryAfter time.Duration) *Workflow {
	return &Workflow{
		gw:         gw,
		engine:     engine,
		log:        log,
		adminID:    adminID,
		retryAfter: retryAfter,
		afterFunc:  time.AfterFunc,
	}
}

// Begin opens a new confirmation session, superseding any unresolved one so
// two escalation timers can never be armed at once.
func (w *Workflow) Begin() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.beginLocked()
}

func (w *Workflow) beginLocked() {
	if w.sess != nil && w.sess.timer != nil {
		w.sess.timer.Stop()
	}

	if _, err := w.gw.Send(w.adminID, promptText, confirmAction(), delayAction()); err != nil {
		w.log.Error("send confirmation prompt failed", zap.Error(err))
		w.sess = nil
		return
	}
	w.sess = &session{id: uuid.New(), state: StateAwaitingConfirmation}
	w.log.Info("confirmation session opened", zap.String("session", w.sess.id.String()))
}

// Confirm handles the admin's "yes, send it" click on the prompt at ref.
func (w *Workflow) Confirm(ctx context.Context, ref delivery.MessageRef) {
	if ref.ChatID != w.adminID {
		return
	}
	w.mu.Lock()
	s := w.sess
	if s == nil || s.state == StateResolved {
		w.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = StateResolved
	id := s.id
	w.mu.Unlock()

	w.resolve(ctx, ref, id)
}

// Delay handles the "not updated yet" click: the prompt turns into a waiting
// notice with a send-now button, and the escalation timer starts.
func (w *Workflow) Delay(ref delivery.MessageRef) {
	if ref.ChatID != w.adminID {
		return
	}
	w.mu.Lock()
	s := w.sess
	if s == nil || s.state != StateAwaitingConfirmation {
		w.mu.Unlock()
		return
	}
	s.state = StateDelayed
	id := s.id
	s.timer = w.afterFunc(w.retryAfter, func() { w.escalate(id) })
	w.mu.Unlock()

	if err := w.gw.Edit(ref, waitingText, sendNowAction()); err != nil {
		w.log.Warn("edit to waiting notice failed", zap.Error(err))
	}
	w.log.Info("confirmation delayed", zap.String("session", id.String()),
		zap.Duration("retryAfter", w.retryAfter))
}

// SendNow handles the click that cuts the wait short.
func (w *Workflow) SendNow(ctx context.Context, ref delivery.MessageRef) {
	if ref.ChatID != w.adminID {
		return
	}
	w.mu.Lock()
	s := w.sess
	if s == nil || s.state != StateDelayed {
		w.mu.Unlock()
		return
	}
	if s.timer != nil {
		// Stopping an already-fired timer is a safe no-op.
		s.timer.Stop()
		s.timer = nil
	}
	s.state = StateResolved
	id := s.id
	w.mu.Unlock()

	w.resolve(ctx, ref, id)
}

// escalate runs when the escalation timer fires: re-send the prompt and start
// waiting for the admin again. Stale callbacks from superseded or resolved
// sessions fall through.
func (w *Workflow) escalate(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.sess
	if s == nil || s.id != id || s.state != StateDelayed {
		return
	}
	w.log.Info("confirmation still pending, re-prompting", zap.String("session", id.String()))
	w.beginLocked()
}

func (w *Workflow) resolve(ctx context.Context, ref delivery.MessageRef, id uuid.UUID) {
	if err := w.gw.Edit(ref, sentAckText); err != nil {
		w.log.Warn("edit to acknowledgment failed", zap.Error(err))
	}
	if err := w.engine.SendWeeklyUpdate(ctx); err != nil {
		w.log.Error("weekly update broadcast failed", zap.Error(err))
	}
	w.log.Info("confirmation session resolved", zap.String("session", id.String()))
}

// CurrentState reports the live session's state, StateIdle when none.
func (w *Workflow) CurrentState() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sess == nil {
		return StateIdle
	}
	return w.sess.state
}

func confirmAction() delivery.Action {
	return delivery.Action{Label: "✅ Yes, send the reminder", Token: delivery.TokenConfirm}
}

func delayAction() delivery.Action {
	return delivery.Action{Label: "❌ Not updated yet", Token: delivery.TokenDelay}
}

func sendNowAction() delivery.Action {
	return delivery.Action{Label: "Send it now", Token: delivery.TokenSendNow}
}
