package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/theycallmerubik/ReservReminder/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRegisterIfAbsent_CreatesOnce(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	created, err := repo.RegisterIfAbsent(ctx, 42)
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if !created {
		t.Fatal("first register should create a row")
	}

	created, err = repo.RegisterIfAbsent(ctx, 42)
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if created {
		t.Fatal("second register must not create a second row")
	}

	u, err := repo.GetUser(ctx, 42)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.State != domain.Active {
		t.Fatalf("new user should be active, got %s", u.State)
	}
}

func TestRegisterIfAbsent_KeepsExistingState(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if _, err := repo.RegisterIfAbsent(ctx, 7); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := repo.SetSnooze(ctx, 7, domain.Snoozed); err != nil {
		t.Fatalf("set snooze: %v", err)
	}

	// Re-running /start must never overwrite the snooze flag.
	if _, err := repo.RegisterIfAbsent(ctx, 7); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	u, err := repo.GetUser(ctx, 7)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.State != domain.Snoozed {
		t.Fatalf("re-register overwrote snooze state, got %s", u.State)
	}
}

func TestSetSnooze_GatesListActive(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		if _, err := repo.RegisterIfAbsent(ctx, id); err != nil {
			t.Fatalf("register %d: %v", id, err)
		}
	}
	if err := repo.SetSnooze(ctx, 2, domain.Snoozed); err != nil {
		t.Fatalf("snooze: %v", err)
	}

	ids, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("want 2 active users, got %d (%v)", len(ids), ids)
	}
	for _, id := range ids {
		if id == 2 {
			t.Fatal("snoozed user must not be listed as active")
		}
	}

	if err := repo.SetSnooze(ctx, 2, domain.Active); err != nil {
		t.Fatalf("unsnooze: %v", err)
	}
	ids, err = repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("want 3 active users after unsnooze, got %d", len(ids))
	}
}

func TestResetAllActive(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for _, id := range []int64{10, 11, 12} {
		if _, err := repo.RegisterIfAbsent(ctx, id); err != nil {
			t.Fatalf("register %d: %v", id, err)
		}
		if err := repo.SetSnooze(ctx, id, domain.Snoozed); err != nil {
			t.Fatalf("snooze %d: %v", id, err)
		}
	}

	if err := repo.ResetAllActive(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	ids, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("reset should re-activate everyone, got %d of 3", len(ids))
	}
}

func TestRemove(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if _, err := repo.RegisterIfAbsent(ctx, 99); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := repo.Remove(ctx, 99); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := repo.GetUser(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after remove, got %v", err)
	}

	// Removing an already absent row stays quiet.
	if err := repo.Remove(ctx, 99); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}
