// Package lockout implements the sliding-window brute-force lockout used
// by both the per-account and per-source-address login tiers. The state
// transitions are pure functions over a Record; the Tracker pairs them
// with a Store that guarantees per-key atomic read-modify-write.
package lockout

import "time"

// Policy holds the lockout tunables of one tier.
type Policy struct {
	// MaxAttempts is the failure count that triggers a lock.
	MaxAttempts int
	// Window is how long a failure streak stays fresh; a failure older
	// than this resets the count before the next increment.
	Window time.Duration
	// LockDuration is how long a triggered lock lasts.
	LockDuration time.Duration
}

// DefaultPolicy returns the production lockout policy: 5 failures within
// 15 minutes lock the key for 30 minutes.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  5,
		Window:       15 * time.Minute,
		LockDuration: 30 * time.Minute,
	}
}

// Record is the persisted lockout state of one key. Records are created
// lazily on the first observed attempt and are never hard-deleted.
type Record struct {
	Key           string
	FailureCount  int
	LastFailureAt time.Time
	LockedUntil   *time.Time
}

// Decision is the outcome of a status query or a recorded attempt.
type Decision struct {
	Locked            bool
	JustLocked        bool
	MinutesRemaining  int
	AttemptsRemaining int
}

// Status evaluates the record read-only. A nil record means the key has
// never failed and is clear. Lock expiry is evaluated lazily against now.
func Status(rec *Record, now time.Time, p Policy) Decision {
	if rec != nil && rec.LockedUntil != nil && now.Before(*rec.LockedUntil) {
		return Decision{
			Locked:           true,
			MinutesRemaining: minutesRemaining(*rec.LockedUntil, now),
		}
	}
	remaining := p.MaxAttempts
	if rec != nil && !stale(rec, now, p) {
		remaining = max(0, p.MaxAttempts-rec.FailureCount)
	}
	return Decision{AttemptsRemaining: remaining}
}

// ApplyFailure applies one failed attempt to the record in place.
//
// A record locked with time left is reported as-is without incrementing.
// An expired lock is cleared first. A failure streak older than the
// window resets before the increment. Reaching the threshold locks the
// key for the policy's lock duration.
func ApplyFailure(rec *Record, now time.Time, p Policy) Decision {
	if rec.LockedUntil != nil {
		if now.Before(*rec.LockedUntil) {
			return Decision{
				Locked:           true,
				MinutesRemaining: minutesRemaining(*rec.LockedUntil, now),
			}
		}
		rec.FailureCount = 0
		rec.LockedUntil = nil
	}

	if stale(rec, now, p) {
		rec.FailureCount = 0
	}

	rec.FailureCount++
	rec.LastFailureAt = now

	if rec.FailureCount >= p.MaxAttempts {
		until := now.Add(p.LockDuration)
		rec.LockedUntil = &until
		return Decision{
			Locked:           true,
			JustLocked:       true,
			MinutesRemaining: minutesRemaining(until, now),
		}
	}

	return Decision{AttemptsRemaining: p.MaxAttempts - rec.FailureCount}
}

// ApplySuccess resets the record unconditionally: count to zero, lock
// cleared, whatever the current state.
func ApplySuccess(rec *Record, now time.Time) {
	rec.FailureCount = 0
	rec.LastFailureAt = now
	rec.LockedUntil = nil
}

func stale(rec *Record, now time.Time, p Policy) bool {
	return !rec.LastFailureAt.IsZero() && now.Sub(rec.LastFailureAt) > p.Window
}

// minutesRemaining is the ceiling of the time left, in whole minutes.
func minutesRemaining(until, now time.Time) int {
	left := until.Sub(now)
	if left <= 0 {
		return 0
	}
	return int((left + time.Minute - 1) / time.Minute)
}
