package authority

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLockoutFlow(t *testing.T) {
	store := NewMemoryLockoutStore()
	ctx := context.Background()
	email := "hacker@example.com"

	l := NewLockout(store, 3, 1*time.Second, 10*time.Minute)

	for i := 0; i < 3; i++ {
		l.fail(ctx, email)
	}

	locked, _, _ := store.IsLocked(ctx, email)
	if !locked {
		t.Fatal("account should be locked after 3 failures")
	}

	var le *LockedError
	if err := l.check(ctx, email); !errors.As(err, &le) {
		t.Fatalf("expected LockedError, got %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	if locked, _, _ := store.IsLocked(ctx, email); locked {
		t.Error("lock should expire")
	}
	if err := l.check(ctx, email); err != nil {
		t.Errorf("expected unlocked after expiry, got %v", err)
	}
}

func TestLoginLockout(t *testing.T) {
	store := newMockStore()
	seedAdmin(t, store)
	a := newTestAuthority(store)
	a.SetLockout(NewLockout(NewMemoryLockoutStore(), 2, time.Minute, time.Minute))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := a.Login(ctx, "admin@admin.com", "wrong"); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("attempt %d: expected ErrAuthentication, got %v", i, err)
		}
	}

	// Even the correct password is rejected while locked.
	var le *LockedError
	if _, err := a.Login(ctx, "admin@admin.com", "Admin123!"); !errors.As(err, &le) {
		t.Fatalf("expected LockedError, got %v", err)
	}
}

func TestLockoutClearsOnSuccess(t *testing.T) {
	store := newMockStore()
	seedAdmin(t, store)
	a := newTestAuthority(store)
	lockStore := NewMemoryLockoutStore()
	a.SetLockout(NewLockout(lockStore, 3, time.Minute, time.Minute))
	ctx := context.Background()

	if _, err := a.Login(ctx, "admin@admin.com", "wrong"); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if _, err := a.Login(ctx, "admin@admin.com", "Admin123!"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// The failure counter resets on success.
	count, err := lockStore.RecordFailure(ctx, "admin@admin.com", time.Minute)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected counter reset to 1, got %d", count)
	}
}
