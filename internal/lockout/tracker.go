package lockout

import (
	"context"
	"time"
)

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Store persists one Record per key. Mutate must be atomic per key: two
// concurrent calls for the same key serialize, and a find-or-create on
// first sight of a key must not produce duplicate records.
type Store interface {
	// Find returns the record for key, or nil if the key has never been seen.
	Find(ctx context.Context, key string) (*Record, error)

	// Mutate runs fn under a per-key lock against the current record,
	// creating an empty record first if absent, and persists the result.
	Mutate(ctx context.Context, key string, fn func(*Record)) (*Record, error)
}

// Tracker is one lockout tier: a policy plus its keyed record store.
type Tracker struct {
	store  Store
	policy Policy
	clock  Clock
}

// NewTracker creates a tier over the given store and policy.
func NewTracker(store Store, policy Policy) *Tracker {
	return &Tracker{store: store, policy: policy, clock: realClock{}}
}

// WithClock replaces the tracker's clock; intended for tests.
func (t *Tracker) WithClock(clock Clock) *Tracker {
	t.clock = clock
	return t
}

// Status reports the key's current state without mutating it.
func (t *Tracker) Status(ctx context.Context, key string) (Decision, error) {
	rec, err := t.store.Find(ctx, key)
	if err != nil {
		return Decision{}, err
	}
	return Status(rec, t.clock.Now(), t.policy), nil
}

// RecordFailure durably applies one failed attempt to the key.
func (t *Tracker) RecordFailure(ctx context.Context, key string) (Decision, error) {
	var d Decision
	_, err := t.store.Mutate(ctx, key, func(rec *Record) {
		d = ApplyFailure(rec, t.clock.Now(), t.policy)
	})
	if err != nil {
		return Decision{}, err
	}
	return d, nil
}

// RecordSuccess durably resets the key to clear.
func (t *Tracker) RecordSuccess(ctx context.Context, key string) error {
	_, err := t.store.Mutate(ctx, key, func(rec *Record) {
		ApplySuccess(rec, t.clock.Now())
	})
	return err
}
