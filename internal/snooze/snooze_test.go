package snooze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/theycallmerubik/ReservReminder/internal/delivery"
	"github.com/theycallmerubik/ReservReminder/internal/domain"
	"github.com/theycallmerubik/ReservReminder/internal/store"
)

type fakeRegistry struct {
	states map[int64]domain.SnoozeState
	writes int
	setErr error
}

func (f *fakeRegistry) GetUser(_ context.Context, chatID int64) (*domain.User, error) {
	s, ok := f.states[chatID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &domain.User{ChatID: chatID, State: s}, nil
}

func (f *fakeRegistry) SetSnooze(_ context.Context, chatID int64, state domain.SnoozeState) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.writes++
	f.states[chatID] = state
	return nil
}

type edit struct {
	ref     delivery.MessageRef
	text    string
	actions []delivery.Action
}

type fakeGateway struct {
	edits   []edit
	sends   []string
	editErr error
}

func (f *fakeGateway) Send(_ int64, text string, _ ...delivery.Action) (delivery.MessageRef, error) {
	f.sends = append(f.sends, text)
	return delivery.MessageRef{}, nil
}

func (f *fakeGateway) Edit(ref delivery.MessageRef, text string, actions ...delivery.Action) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, edit{ref: ref, text: text, actions: actions})
	return nil
}

func newMachine(reg *fakeRegistry, gw *fakeGateway) *Machine {
	return NewMachine(reg, gw, zap.NewNop())
}

var ref = delivery.MessageRef{ChatID: 5, MessageID: 77}

func TestApply_SnoozeTransition(t *testing.T) {
	reg := &fakeRegistry{states: map[int64]domain.SnoozeState{5: domain.Active}}
	gw := &fakeGateway{}
	newMachine(reg, gw).Apply(context.Background(), ref, 5, domain.Snoozed)

	if reg.states[5] != domain.Snoozed {
		t.Fatal("state should be snoozed")
	}
	if len(gw.edits) != 1 {
		t.Fatalf("want 1 edit, got %d", len(gw.edits))
	}
	e := gw.edits[0]
	if e.text != snoozedText {
		t.Fatalf("unexpected ack text %q", e.text)
	}
	if len(e.actions) != 1 || e.actions[0].Token != delivery.TokenRevertSnooze {
		t.Fatalf("snoozed message should carry the revert button, got %v", e.actions)
	}
}

func TestApply_RevertTransition(t *testing.T) {
	reg := &fakeRegistry{states: map[int64]domain.SnoozeState{5: domain.Snoozed}}
	gw := &fakeGateway{}
	newMachine(reg, gw).Apply(context.Background(), ref, 5, domain.Active)

	if reg.states[5] != domain.Active {
		t.Fatal("state should be active")
	}
	e := gw.edits[0]
	if e.text != resumedText {
		t.Fatalf("unexpected ack text %q", e.text)
	}
	if len(e.actions) != 1 || e.actions[0].Token != delivery.TokenSnooze {
		t.Fatalf("active message should carry the snooze button, got %v", e.actions)
	}
}

func TestApply_RepeatedClickIsIdempotent(t *testing.T) {
	reg := &fakeRegistry{states: map[int64]domain.SnoozeState{5: domain.Snoozed}}
	gw := &fakeGateway{}
	newMachine(reg, gw).Apply(context.Background(), ref, 5, domain.Snoozed)

	if reg.writes != 0 {
		t.Fatalf("repeated click must not write, got %d writes", reg.writes)
	}
	if len(gw.edits) != 1 {
		t.Fatalf("want 1 edit, got %d", len(gw.edits))
	}
	e := gw.edits[0]
	if !strings.Contains(e.text, "already") {
		t.Fatalf("want the already-notice, got %q", e.text)
	}
	// The button must still lead out of the current state.
	if len(e.actions) != 1 || e.actions[0].Token != delivery.TokenRevertSnooze {
		t.Fatalf("button mis-rendered on repeated click: %v", e.actions)
	}
}

func TestApply_EditFailureKeepsState(t *testing.T) {
	reg := &fakeRegistry{states: map[int64]domain.SnoozeState{5: domain.Active}}
	gw := &fakeGateway{editErr: errors.New("message to edit not found")}
	newMachine(reg, gw).Apply(context.Background(), ref, 5, domain.Snoozed)

	if reg.states[5] != domain.Snoozed {
		t.Fatal("state change must survive a failed edit")
	}
	if len(gw.sends) != 1 || gw.sends[0] != retryText {
		t.Fatalf("want the retry prompt, got %v", gw.sends)
	}
}

func TestApply_StoreFailureSkipsEdit(t *testing.T) {
	reg := &fakeRegistry{
		states: map[int64]domain.SnoozeState{5: domain.Active},
		setErr: errors.New("db locked"),
	}
	gw := &fakeGateway{}
	newMachine(reg, gw).Apply(context.Background(), ref, 5, domain.Snoozed)

	if reg.states[5] != domain.Active {
		t.Fatal("state must stay active when the write fails")
	}
	if len(gw.edits) != 0 {
		t.Fatalf("no edit expected after a failed write, got %d", len(gw.edits))
	}
	if len(gw.sends) != 1 || gw.sends[0] != retryText {
		t.Fatalf("want the retry prompt, got %v", gw.sends)
	}
}

func TestApply_UnknownUserIsPromptedToStart(t *testing.T) {
	reg := &fakeRegistry{states: map[int64]domain.SnoozeState{}}
	gw := &fakeGateway{}
	newMachine(reg, gw).Apply(context.Background(), ref, 5, domain.Snoozed)

	if len(gw.sends) != 1 || gw.sends[0] != notRegisteredText {
		t.Fatalf("want re-register prompt, got %v", gw.sends)
	}
	if len(gw.edits) != 0 {
		t.Fatalf("no edit expected for unknown user, got %d", len(gw.edits))
	}
}
