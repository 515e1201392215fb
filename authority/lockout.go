package authority

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// LockoutStore defines the storage for tracking login failures and lockouts.
type LockoutStore interface {
	// RecordFailure increments the failure count for the identifier.
	// ttl defines how long this failure record should be kept.
	RecordFailure(ctx context.Context, identifier string, ttl time.Duration) (int, error)

	// ClearFailures resets the failure count for the identifier.
	ClearFailures(ctx context.Context, identifier string) error

	// Lock locks the identifier for the given duration.
	Lock(ctx context.Context, identifier string, duration time.Duration) error

	// IsLocked checks if the identifier is currently locked.
	// Returns true and the expiry time if locked.
	IsLocked(ctx context.Context, identifier string) (bool, time.Time, error)
}

// LockedError is returned by Login while an email is locked out.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account is locked until %s", e.Until.Format(time.RFC822))
}

// Lockout adds brute-force protection to Login: after MaxFailures failed
// attempts within FailureWindow, further attempts for that email are
// rejected for LockDuration without consulting the credential store.
type Lockout struct {
	Store         LockoutStore
	MaxFailures   int
	LockDuration  time.Duration
	FailureWindow time.Duration
}

func NewLockout(store LockoutStore, maxFailures int, lockDuration, failureWindow time.Duration) *Lockout {
	return &Lockout{
		Store:         store,
		MaxFailures:   maxFailures,
		LockDuration:  lockDuration,
		FailureWindow: failureWindow,
	}
}

func (l *Lockout) check(ctx context.Context, email string) error {
	locked, until, err := l.Store.IsLocked(ctx, email)
	if err != nil {
		return fmt.Errorf("lockout check failed: %v", err)
	}
	if locked {
		return &LockedError{Until: until}
	}
	return nil
}

func (l *Lockout) fail(ctx context.Context, email string) {
	count, err := l.Store.RecordFailure(ctx, email, l.FailureWindow)
	if err != nil {
		return
	}
	if count >= l.MaxFailures {
		_ = l.Store.Lock(ctx, email, l.LockDuration)
	}
}

func (l *Lockout) clear(ctx context.Context, email string) {
	_ = l.Store.ClearFailures(ctx, email)
}

// -- Memory Implementation --

type memRecord struct {
	failures    int
	failExp     time.Time
	lockedUntil time.Time
}

type MemoryLockoutStore struct {
	mu    sync.Mutex
	items map[string]*memRecord
}

func NewMemoryLockoutStore() *MemoryLockoutStore {
	return &MemoryLockoutStore{
		items: make(map[string]*memRecord),
	}
}

func (s *MemoryLockoutStore) getRecord(id string) *memRecord {
	if r, ok := s.items[id]; ok {
		return r
	}
	r := &memRecord{}
	s.items[id] = r
	return r
}

func (s *MemoryLockoutStore) RecordFailure(ctx context.Context, identifier string, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.getRecord(identifier)
	now := time.Now()

	if now.After(r.failExp) {
		r.failures = 0
	}

	r.failures++
	r.failExp = now.Add(ttl)

	return r.failures, nil
}

func (s *MemoryLockoutStore) ClearFailures(ctx context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, identifier)
	return nil
}

func (s *MemoryLockoutStore) Lock(ctx context.Context, identifier string, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.getRecord(identifier)
	r.lockedUntil = time.Now().Add(duration)
	return nil
}

func (s *MemoryLockoutStore) IsLocked(ctx context.Context, identifier string) (bool, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.items[identifier]; ok {
		if time.Now().Before(r.lockedUntil) {
			return true, r.lockedUntil, nil
		}
	}
	return false, time.Time{}, nil
}
