// Package lock provides per-user locking so that messages of one user are
// processed one at a time while different users proceed in parallel.
package lock

import (
	"context"
	"fmt"
	"sync"
)

// entry is a one-slot semaphore shared by the holder and all waiters of a user.
type entry struct {
	slot chan struct{}
	refs int
}

// UserLock hands out per-user locks. Entries are removed once nobody
// holds or waits for them, so memory stays proportional to active users.
type UserLock struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{
		entries: make(map[int64]*entry),
	}
}

func (ul *UserLock) acquire(userID int64) *entry {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	e, ok := ul.entries[userID]
	if !ok {
		e = &entry{slot: make(chan struct{}, 1)}
		ul.entries[userID] = e
	}
	e.refs++
	return e
}

func (ul *UserLock) release(userID int64, e *entry) {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(ul.entries, userID)
	}
}

// Lock blocks until the user's lock is held or ctx is done.
func (ul *UserLock) Lock(ctx context.Context, userID int64) error {
	e := ul.acquire(userID)

	select {
	case e.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		ul.release(userID, e)
		return fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
	}
}

// TryLock acquires the lock only if it is free.
func (ul *UserLock) TryLock(userID int64) bool {
	e := ul.acquire(userID)

	select {
	case e.slot <- struct{}{}:
		return true
	default:
		ul.release(userID, e)
		return false
	}
}

// Unlock releases the user's lock. Unlocking a lock that is not held is a no-op.
func (ul *UserLock) Unlock(userID int64) {
	ul.mu.Lock()
	e, ok := ul.entries[userID]
	ul.mu.Unlock()
	if !ok {
		return
	}

	select {
	case <-e.slot:
		ul.release(userID, e)
	default:
	}
}

// WithLock runs fn while holding the user's lock.
func (ul *UserLock) WithLock(ctx context.Context, userID int64, fn func() error) error {
	if err := ul.Lock(ctx, userID); err != nil {
		return err
	}
	defer ul.Unlock(userID)
	return fn()
}

// IsLocked is a point-in-time check.
func (ul *UserLock) IsLocked(userID int64) bool {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	e, ok := ul.entries[userID]
	return ok && len(e.slot) == 1
}

// Len returns the number of users that currently hold or wait for a lock.
func (ul *UserLock) Len() int {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	return len(ul.entries)
}
