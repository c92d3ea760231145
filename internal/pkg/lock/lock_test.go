package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestWithLockSerializesProperty checks that read-modify-write sequences under
// the same user lock behave like sequential execution.
func TestWithLockSerializesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")
		numOps := rapid.IntRange(2, 30).Draw(t, "numOps")
		attempts := rapid.SliceOfN(rapid.IntRange(0, 3), numOps, numOps).Draw(t, "attempts")

		ul := NewUserLock()
		ctx := context.Background()

		total := 0
		expected := 0
		for _, a := range attempts {
			expected += a
		}

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, a := range attempts {
			go func(delta int) {
				defer wg.Done()
				_ = ul.WithLock(ctx, userID, func() error {
					current := total
					total = current + delta
					return nil
				})
			}(a)
		}
		wg.Wait()

		if total != expected {
			t.Fatalf("expected %d, got %d", expected, total)
		}
		if ul.Len() != 0 {
			t.Fatalf("expected no entries after all operations, got %d", ul.Len())
		}
	})
}

// TestMultipleUsersIndependentProperty checks per-user counters under concurrency.
func TestMultipleUsersIndependentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numUsers := rapid.IntRange(2, 10).Draw(t, "numUsers")
		opsPerUser := rapid.IntRange(5, 20).Draw(t, "opsPerUser")

		ul := NewUserLock()
		ctx := context.Background()
		counters := make([]int, numUsers)

		var wg sync.WaitGroup
		wg.Add(numUsers * opsPerUser)
		for u := 0; u < numUsers; u++ {
			for j := 0; j < opsPerUser; j++ {
				go func(idx int) {
					defer wg.Done()
					if err := ul.Lock(ctx, int64(idx+1)); err != nil {
						return
					}
					defer ul.Unlock(int64(idx + 1))
					counters[idx]++
				}(u)
			}
		}
		wg.Wait()

		for u, c := range counters {
			if c != opsPerUser {
				t.Fatalf("user %d: expected %d, got %d", u+1, opsPerUser, c)
			}
		}
	})
}

func TestLock_ContextCancelledWhileHeld(t *testing.T) {
	ul := NewUserLock()
	require.NoError(t, ul.Lock(context.Background(), 1))
	assert.True(t, ul.IsLocked(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := ul.Lock(ctx, 1)
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	ul.Unlock(1)
	assert.False(t, ul.IsLocked(1))
	assert.Zero(t, ul.Len())
}

func TestLock_OtherUserNotBlocked(t *testing.T) {
	ul := NewUserLock()
	require.NoError(t, ul.Lock(context.Background(), 1))
	defer ul.Unlock(1)

	assert.True(t, ul.TryLock(2))
	ul.Unlock(2)
	assert.False(t, ul.TryLock(1))
}

func TestTryLock_OneWinner(t *testing.T) {
	ul := NewUserLock()

	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if ul.TryLock(42) {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	ul.Unlock(42)
	assert.Zero(t, ul.Len())
}

func TestUnlock_NotHeldIsNoop(t *testing.T) {
	ul := NewUserLock()
	ul.Unlock(7)
	assert.Zero(t, ul.Len())

	require.NoError(t, ul.Lock(context.Background(), 7))
	ul.Unlock(7)
	ul.Unlock(7)
	assert.True(t, ul.TryLock(7))
}
