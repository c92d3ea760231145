package bot

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"mini-games-bot/internal/config"
)

// scriptedFetch replays a fixed sequence of responses and records requested offsets.
type scriptedFetch struct {
	mu      sync.Mutex
	offsets []int
	steps   []fetchStep
}

type fetchStep struct {
	updates []tele.Update
	err     error
}

func (s *scriptedFetch) fetch(_ *tele.Bot, offset int, _ time.Duration) ([]tele.Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offsets = append(s.offsets, offset)
	if len(s.steps) == 0 {
		return nil, nil
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step.updates, step.err
}

func (s *scriptedFetch) requested() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.offsets...)
}

func runPoller(p *Poller) (chan tele.Update, chan struct{}, chan struct{}) {
	dest := make(chan tele.Update, 16)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		p.Poll(nil, dest, stop)
		close(done)
	}()
	return dest, stop, done
}

func receive(t *testing.T, dest chan tele.Update) tele.Update {
	t.Helper()
	select {
	case upd := <-dest:
		return upd
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return tele.Update{}
	}
}

func TestPoller_AdvancesOffset(t *testing.T) {
	script := &scriptedFetch{steps: []fetchStep{
		{updates: []tele.Update{{ID: 5}, {ID: 6}}},
	}}
	p := &Poller{IdleDelay: time.Millisecond, fetch: script.fetch}

	dest, stop, done := runPoller(p)

	assert.Equal(t, 5, receive(t, dest).ID)
	assert.Equal(t, 6, receive(t, dest).ID)

	require.Eventually(t, func() bool { return len(script.requested()) >= 2 }, 2*time.Second, time.Millisecond)
	close(stop)
	<-done

	offsets := script.requested()
	assert.Equal(t, 1, offsets[0])
	assert.Equal(t, 7, offsets[1])
	assert.Equal(t, 6, p.LastUpdateID)
}

func TestPoller_RetriesAfterError(t *testing.T) {
	script := &scriptedFetch{steps: []fetchStep{
		{err: errors.New("network down")},
		{updates: []tele.Update{{ID: 1}}},
	}}
	p := &Poller{RetryDelay: 5 * time.Millisecond, IdleDelay: time.Millisecond, fetch: script.fetch}

	dest, stop, done := runPoller(p)

	assert.Equal(t, 1, receive(t, dest).ID)
	close(stop)
	<-done

	offsets := script.requested()
	require.GreaterOrEqual(t, len(offsets), 2)
	// The failed request does not move the cursor.
	assert.Equal(t, 1, offsets[0])
	assert.Equal(t, 1, offsets[1])
}

func TestPoller_StopInterruptsRetryDelay(t *testing.T) {
	script := &scriptedFetch{steps: []fetchStep{{err: errors.New("boom")}}}
	p := &Poller{RetryDelay: time.Hour, fetch: script.fetch}

	_, stop, done := runPoller(p)

	require.Eventually(t, func() bool { return len(script.requested()) == 1 }, 2*time.Second, time.Millisecond)
	close(stop)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestPoller_StoppedBeforeStart(t *testing.T) {
	script := &scriptedFetch{}
	p := &Poller{fetch: script.fetch}

	stop := make(chan struct{})
	close(stop)
	p.Poll(nil, make(chan tele.Update), stop)

	assert.Empty(t, script.requested())
}

func TestNewPoller(t *testing.T) {
	p := NewPoller(nil)
	assert.Equal(t, DefaultPollTimeout, p.Timeout)
	assert.Equal(t, DefaultRetryDelay, p.RetryDelay)
	assert.Equal(t, DefaultIdleDelay, p.IdleDelay)
	assert.NotNil(t, p.fetch)

	p = NewPoller(&config.BotConfig{
		PollTimeout: 10 * time.Second,
		RetryDelay:  time.Second,
		IdleDelay:   100 * time.Millisecond,
	})
	assert.Equal(t, 10*time.Second, p.Timeout)
	assert.Equal(t, time.Second, p.RetryDelay)
	assert.Equal(t, 100*time.Millisecond, p.IdleDelay)
}

func TestWait(t *testing.T) {
	stop := make(chan struct{})
	assert.True(t, wait(stop, 0))
	assert.True(t, wait(stop, time.Millisecond))

	close(stop)
	assert.False(t, wait(stop, time.Hour))
}
