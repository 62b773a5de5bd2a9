package security

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func trackerAt(start time.Time) (*LoginAttemptTracker, *time.Time) {
	current := start
	tracker := NewLoginAttemptTracker(5, 15*time.Minute)
	tracker.SetClock(func() time.Time { return current })
	return tracker, &current
}

func TestLoginAttemptTracker_LockoutAfterMaxFailures(t *testing.T) {
	tracker, _ := trackerAt(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	id := uuid.New()

	for i := 0; i < 4; i++ {
		if !tracker.RecordAttempt(id, false) {
			t.Fatalf("attempt %d: expected attempt to be processed", i+1)
		}
		if tracker.IsLockedOut(id) {
			t.Fatalf("attempt %d: expected no lockout yet", i+1)
		}
	}

	// 5th failure triggers the lockout but is still processed.
	if !tracker.RecordAttempt(id, false) {
		t.Fatal("5th attempt: expected attempt to be processed")
	}
	if !tracker.IsLockedOut(id) {
		t.Fatal("expected lockout after 5 failures")
	}
}

func TestLoginAttemptTracker_NoIncrementWhileLocked(t *testing.T) {
	tracker, _ := trackerAt(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	id := uuid.New()

	for i := 0; i < 5; i++ {
		tracker.RecordAttempt(id, false)
	}
	if got := tracker.FailedAttempts(id); got != 5 {
		t.Fatalf("expected 5 failures, got %d", got)
	}

	if tracker.RecordAttempt(id, false) {
		t.Error("expected attempt to be rejected while locked")
	}
	if got := tracker.FailedAttempts(id); got != 5 {
		t.Errorf("expected counter to stay at 5, got %d", got)
	}
}

func TestLoginAttemptTracker_LockoutExpires(t *testing.T) {
	tracker, current := trackerAt(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	id := uuid.New()

	for i := 0; i < 5; i++ {
		tracker.RecordAttempt(id, false)
	}
	if !tracker.IsLockedOut(id) {
		t.Fatal("expected lockout")
	}

	*current = current.Add(14 * time.Minute)
	if !tracker.IsLockedOut(id) {
		t.Error("expected lockout to still hold after 14 minutes")
	}

	*current = current.Add(2 * time.Minute)
	if tracker.IsLockedOut(id) {
		t.Error("expected lockout to expire after 16 minutes")
	}
	if !tracker.RecordAttempt(id, false) {
		t.Error("expected attempts to be processed again once the window passed")
	}
}

func TestLoginAttemptTracker_SuccessClearsState(t *testing.T) {
	tracker, _ := trackerAt(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	id := uuid.New()

	for i := 0; i < 3; i++ {
		tracker.RecordAttempt(id, false)
	}
	if !tracker.RecordAttempt(id, true) {
		t.Fatal("expected success to be processed")
	}
	if got := tracker.FailedAttempts(id); got != 0 {
		t.Errorf("expected counter reset, got %d", got)
	}
	if tracker.IsLockedOut(id) {
		t.Error("expected no lockout after success")
	}
}

func TestLoginAttemptTracker_IdentitiesAreIndependent(t *testing.T) {
	tracker, _ := trackerAt(time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))
	locked := uuid.New()
	other := uuid.New()

	for i := 0; i < 5; i++ {
		tracker.RecordAttempt(locked, false)
	}
	if !tracker.IsLockedOut(locked) {
		t.Fatal("expected lockout")
	}
	if tracker.IsLockedOut(other) {
		t.Error("expected other identity to be unaffected")
	}
}

func TestLoginAttemptTracker_ConcurrentFailuresAreCounted(t *testing.T) {
	tracker := NewLoginAttemptTracker(100, 15*time.Minute)
	id := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.RecordAttempt(id, false)
		}()
	}
	wg.Wait()

	if got := tracker.FailedAttempts(id); got != 50 {
		t.Errorf("expected 50 recorded failures, got %d", got)
	}
}
