package security

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// LoginAttemptTracker keeps per-identity failed-login counters and
// lockout timestamps in memory. State lives for the lifetime of the
// process; a restart clears it, which is acceptable for a single
// backend instance.
//
// Callers must check IsLockedOut before verifying credentials, and
// call RecordAttempt only with a real verification outcome.
type LoginAttemptTracker struct {
	mu          sync.Mutex
	attempts    map[uuid.UUID]*attemptState
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

type attemptState struct {
	count       int
	lockedUntil time.Time
}

func NewLoginAttemptTracker(maxAttempts int, lockout time.Duration) *LoginAttemptTracker {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if lockout <= 0 {
		lockout = 15 * time.Minute
	}
	return &LoginAttemptTracker{
		attempts:    make(map[uuid.UUID]*attemptState),
		maxAttempts: maxAttempts,
		lockout:     lockout,
		now:         time.Now,
	}
}

// SetClock overrides the tracker's time source. Test use only.
func (t *LoginAttemptTracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// RecordAttempt records the outcome of a processed login attempt.
// A successful attempt clears any state for the identity. A failed
// attempt increments the counter, starting the lockout window once the
// counter reaches the configured maximum. It returns false only when
// the identity is already inside an active lockout window, in which
// case the counter is not incremented.
func (t *LoginAttemptTracker) RecordAttempt(id uuid.UUID, success bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if success {
		delete(t.attempts, id)
		return true
	}

	now := t.now()
	state, ok := t.attempts[id]
	if !ok {
		state = &attemptState{}
		t.attempts[id] = state
	}

	if !state.lockedUntil.IsZero() && now.Before(state.lockedUntil) {
		return false
	}

	state.count++
	if state.count >= t.maxAttempts {
		state.lockedUntil = now.Add(t.lockout)
	}
	return true
}

// IsLockedOut reports whether the identity is inside an active lockout
// window.
func (t *LoginAttemptTracker) IsLockedOut(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.attempts[id]
	if !ok || state.lockedUntil.IsZero() {
		return false
	}
	return t.now().Before(state.lockedUntil)
}

// FailedAttempts returns the current failure count for an identity.
func (t *LoginAttemptTracker) FailedAttempts(id uuid.UUID) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state, ok := t.attempts[id]; ok {
		return state.count
	}
	return 0
}
