package winevent

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/threadglue/internal/thread/backend"
	"github.com/kolkov/threadglue/internal/thread/goroutine"
)

func mustCond(t *testing.T) *cond {
	t.Helper()
	c, err := newCond()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Destroy() })
	return c
}

// waitForWaiters blocks until n threads are registered on c.
func waitForWaiters(t *testing.T, c *cond, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		w, _ := c.counts()
		return w == n
	}, time.Second, time.Millisecond, "expected %d waiters", n)
}

// TestCondSignalWithoutWaiters tests that the event does not store a signal
// nobody is waiting for.
func TestCondSignalWithoutWaiters(t *testing.T) {
	t.Parallel()

	c := mustCond(t)
	var mu sync.Mutex

	require.NoError(t, c.Signal())
	require.NoError(t, c.Signal())
	w, tk := c.counts()
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, tk)

	mu.Lock()
	woke, err := c.Wait(&mu, 30*time.Millisecond, nil)
	mu.Unlock()

	require.NoError(t, err)
	assert.False(t, woke)
}

// TestCondSignalWakesWaiter tests the basic rendezvous.
func TestCondSignalWakesWaiter(t *testing.T) {
	t.Parallel()

	c := mustCond(t)
	var mu sync.Mutex
	result := make(chan bool, 1)

	go func() {
		mu.Lock()
		woke, err := c.Wait(&mu, -1, nil)
		assert.NoError(t, err)
		assert.False(t, mu.TryLock(), "mutex must be held on return")
		mu.Unlock()
		result <- woke
	}()

	waitForWaiters(t, c, 1)
	require.NoError(t, c.Signal())
	assert.True(t, <-result)

	w, tk := c.counts()
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, tk)
}

// TestCondBackToBackSignals tests that two signals issued before either
// waiter runs release both, although the auto-reset event collapses them.
func TestCondBackToBackSignals(t *testing.T) {
	t.Parallel()

	c := mustCond(t)
	var mu sync.Mutex
	var wg sync.WaitGroup
	woken := make(chan bool, 2)

	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			woke, err := c.Wait(&mu, time.Second, nil)
			mu.Unlock()
			assert.NoError(t, err)
			woken <- woke
		}()
	}
	waitForWaiters(t, c, 2)

	mu.Lock()
	require.NoError(t, c.Signal())
	require.NoError(t, c.Signal())
	require.NoError(t, c.Signal()) // third has no uncovered waiter
	_, tk := c.counts()
	assert.Equal(t, 2, tk)
	mu.Unlock()

	wg.Wait()
	close(woken)
	for woke := range woken {
		assert.True(t, woke)
	}
}

// TestCondTimeout tests timed waits against wall time.
func TestCondTimeout(t *testing.T) {
	t.Parallel()

	c := mustCond(t)
	var mu sync.Mutex

	const timeout = 50 * time.Millisecond
	mu.Lock()
	start := time.Now()
	woke, err := c.Wait(&mu, timeout, nil)
	elapsed := time.Since(start)
	assert.False(t, mu.TryLock(), "mutex must be held after a timeout")
	mu.Unlock()

	require.NoError(t, err)
	assert.False(t, woke)
	assert.GreaterOrEqual(t, elapsed, timeout)
}

// TestCondSignalTimeoutRace tests that a timeout never consumes a signal
// meant for another waiter and never leaves one behind.
func TestCondSignalTimeoutRace(t *testing.T) {
	t.Parallel()

	for i := range 50 {
		c := mustCond(t)
		var mu sync.Mutex
		short := make(chan bool, 1)
		long := make(chan bool, 1)

		go func() {
			mu.Lock()
			woke, _ := c.Wait(&mu, 300*time.Millisecond, nil)
			mu.Unlock()
			long <- woke
		}()
		waitForWaiters(t, c, 1)

		go func() {
			mu.Lock()
			woke, _ := c.Wait(&mu, 20*time.Millisecond, nil)
			mu.Unlock()
			short <- woke
		}()
		waitForWaiters(t, c, 2)

		// Land the signal around the short waiter's deadline.
		time.Sleep(time.Duration(15+i%10) * time.Millisecond)
		require.NoError(t, c.Signal())

		s, l := <-short, <-long
		assert.True(t, s != l, "iteration %d: exactly one waiter must wake (short=%v long=%v)", i, s, l)

		w, tk := c.counts()
		require.Equal(t, 0, w)
		require.Equal(t, 0, tk, "no ticket may outlive its waiters")

		mu.Lock()
		woke, err := c.Wait(&mu, 0, nil)
		mu.Unlock()
		require.NoError(t, err)
		assert.False(t, woke, "iteration %d: stale signal left in the event", i)
	}
}

// TestCondDestroy tests use after destroy reporting.
func TestCondDestroy(t *testing.T) {
	t.Parallel()

	c, err := newCond()
	require.NoError(t, err)
	require.NoError(t, c.Destroy())
	assert.ErrorIs(t, c.Destroy(), backend.ErrDestroyed)
	assert.ErrorIs(t, c.Signal(), backend.ErrDestroyed)

	var mu sync.Mutex
	mu.Lock()
	_, err = c.Wait(&mu, 0, nil)
	mu.Unlock()
	assert.ErrorIs(t, err, backend.ErrDestroyed)
}

// TestBackendCancelUnsupported tests the declared capability gap.
func TestBackendCancelUnsupported(t *testing.T) {
	t.Parallel()

	b := New()
	assert.Equal(t, "winevent", b.Name())
	assert.False(t, b.CancelSupported())

	ctx := goroutine.New(1)
	err := b.Cancel(ctx)
	assert.True(t, errors.Is(err, errors.ErrUnsupported))
	assert.False(t, ctx.CancelRequested(), "target must be left untouched")
	assert.NoError(t, b.TestCancel(ctx))

	done := make(chan struct{})
	close(done)
	assert.NoError(t, b.Await(done, ctx))
}

// faultyEvent is an auto-reset event whose Set can be made to fail. A waiter
// that consumes the signal blocks on hold before returning.
type faultyEvent struct {
	sets     chan struct{}
	received chan struct{}
	hold     chan struct{}
	failSet  atomic.Bool
}

var errInjected = errors.New("injected set failure")

func newFaultyEvent() *faultyEvent {
	return &faultyEvent{
		sets:     make(chan struct{}, 1),
		received: make(chan struct{}, 1),
		hold:     make(chan struct{}),
	}
}

func (f *faultyEvent) Set() error {
	if f.failSet.Load() {
		return errInjected
	}
	select {
	case f.sets <- struct{}{}:
	default:
	}
	return nil
}

func (f *faultyEvent) Reset() error {
	select {
	case <-f.sets:
	default:
	}
	return nil
}

func (f *faultyEvent) Wait(timeout time.Duration) (bool, error) {
	select {
	case <-f.sets:
		f.received <- struct{}{}
		<-f.hold
		return true, nil
	case <-time.After(timeout):
		return false, nil
	}
}

func (f *faultyEvent) Close() error { return nil }

// TestCondRearmFailureKeepsWakeup tests that a waiter which consumed a ticket
// reports the wakeup even when handing the event on fails, and that the
// failure surfaces on the next Signal.
func TestCondRearmFailureKeepsWakeup(t *testing.T) {
	t.Parallel()

	ev := newFaultyEvent()
	c := &cond{ev: ev}
	var mu sync.Mutex

	type outcome struct {
		woke bool
		err  error
	}
	results := make(chan outcome, 2)
	for range 2 {
		go func() {
			mu.Lock()
			woke, err := c.Wait(&mu, 500*time.Millisecond, nil)
			mu.Unlock()
			results <- outcome{woke, err}
		}()
	}

	waitForWaiters(t, c, 2)
	require.NoError(t, c.Signal())
	require.NoError(t, c.Signal())
	<-ev.received

	ev.failSet.Store(true)
	close(ev.hold)

	for range 2 {
		r := <-results
		require.NoError(t, r.err)
		assert.True(t, r.woke)
	}

	err := c.Signal()
	require.ErrorIs(t, err, ErrRearm)
	require.ErrorIs(t, err, errInjected)

	mu.Lock()
	woke, err := c.Wait(&mu, time.Millisecond, nil)
	assert.False(t, mu.TryLock(), "mutex must be held on return")
	mu.Unlock()
	assert.False(t, woke)
	require.ErrorIs(t, err, ErrRearm)
}
