package thread

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNilEntry(t *testing.T) {
	t.Parallel()

	th, err := Create(nil, nil)
	assert.Nil(t, th)
	require.ErrorIs(t, err, ErrSpawn)
	require.ErrorIs(t, err, ErrNilEntry)
	assert.Equal(t, CodeSpawn, Code(err))
}

// TestConcurrentCreateJoin creates N threads from N goroutines; every handle
// is distinct and joins exactly once.
func TestConcurrentCreateJoin(t *testing.T) {
	t.Parallel()

	const n = 64

	handles := make([]*Thread, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			th, err := Create(func(arg any) any { return arg }, i)
			assert.NoError(t, err)
			handles[i] = th
		}()
	}
	wg.Wait()

	ids := make(map[uint64]bool, n)
	for i, th := range handles {
		require.NotNil(t, th)
		assert.False(t, ids[th.ID()], "duplicate id %d", th.ID())
		ids[th.ID()] = true

		v, err := th.Join()
		require.NoError(t, err)
		assert.Equal(t, i, v)

		_, err = th.Join()
		require.ErrorIs(t, err, ErrJoin)
		require.ErrorIs(t, err, ErrNotJoinable)
		assert.Equal(t, CodeJoin, Code(err))

		require.NoError(t, th.Free())
	}
	assert.Len(t, ids, n)
}

// TestJoinRoundTrip joins threads returning pointer-sized values.
func TestJoinRoundTrip(t *testing.T) {
	t.Parallel()

	type payload struct{ n int }
	p := &payload{n: 7}

	tcs := map[string]any{
		"nil":         nil,
		"pointer":     p,
		"max uintptr": ^uintptr(0),
		"negative":    int64(-1),
		"string":      "value",
	}

	for name, want := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			th, err := Create(func(arg any) any { return arg }, want)
			require.NoError(t, err)
			got, err := th.Join()
			require.NoError(t, err)
			assert.Equal(t, want, got)
			require.NoError(t, th.Free())
		})
	}

	th, err := Create(func(any) any { return p }, nil)
	require.NoError(t, err)
	got, err := th.Join()
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	th, err := Create(func(any) any { return nil }, nil)
	require.NoError(t, err)
	assert.NotZero(t, th.ID())
	assert.Equal(t, "thread "+itoa(th.ID()), th.String())
	_, err = th.Join()
	require.NoError(t, err)
	require.NoError(t, th.Free())

	var nilThread *Thread
	assert.Equal(t, "thread <nil>", nilThread.String())
}

func TestIsAlive(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	th, err := Create(func(any) any {
		<-release
		return nil
	}, nil)
	require.NoError(t, err)

	assert.True(t, th.IsAlive())
	close(release)
	_, err = th.Join()
	require.NoError(t, err)
	assert.False(t, th.IsAlive())
	require.NoError(t, th.Free())

	var nilThread *Thread
	assert.False(t, nilThread.IsAlive())
}

func TestDetach(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	th, err := Create(func(any) any {
		<-release
		return nil
	}, nil)
	require.NoError(t, err)

	require.NoError(t, th.Detach())
	require.NoError(t, th.Detach(), "second detach is a no-op")

	_, err = th.Join()
	require.ErrorIs(t, err, ErrJoin)
	require.ErrorIs(t, err, ErrNotJoinable)

	close(release)
	require.NoError(t, th.Free())
	require.ErrorIs(t, th.Detach(), ErrInvalidHandle)
}

func TestFree(t *testing.T) {
	t.Parallel()

	th, err := Create(func(any) any { return 1 }, nil)
	require.NoError(t, err)
	require.NoError(t, th.Free())

	err = th.Free()
	require.ErrorIs(t, err, ErrJoin)
	require.ErrorIs(t, err, ErrInvalidHandle)

	_, err = th.Join()
	require.ErrorIs(t, err, ErrInvalidHandle)

	err = th.Cancel()
	require.ErrorIs(t, err, ErrCancel)
	require.ErrorIs(t, err, ErrInvalidHandle)
	assert.Equal(t, CodeCancel, Code(err))
}

func TestNilHandle(t *testing.T) {
	t.Parallel()

	var th *Thread

	_, err := th.Join()
	require.ErrorIs(t, err, ErrInvalidHandle)
	require.ErrorIs(t, th.Detach(), ErrInvalidHandle)
	require.ErrorIs(t, th.Free(), ErrInvalidHandle)
	require.ErrorIs(t, th.Cancel(), ErrCancel)
}

func TestSelfJoin(t *testing.T) {
	t.Parallel()

	handle := make(chan *Thread, 1)
	th, err := Create(func(any) any {
		_, err := (<-handle).Join()
		return err
	}, nil)
	require.NoError(t, err)
	handle <- th

	v, err := th.Join()
	require.NoError(t, err)
	joinErr, ok := v.(error)
	require.True(t, ok)
	require.ErrorIs(t, joinErr, ErrJoin)
	require.ErrorIs(t, joinErr, ErrDeadlock)
	require.NoError(t, th.Free())
}

func TestConcurrentJoinOnlyOneWins(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	th, err := Create(func(any) any {
		<-release
		return "done"
	}, nil)
	require.NoError(t, err)

	const joiners = 4
	errs := make(chan error, joiners)
	for range joiners {
		go func() {
			_, err := th.Join()
			errs <- err
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(release)

	succeeded := 0
	for range joiners {
		if err := <-errs; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrNotJoinable)
		}
	}
	assert.Equal(t, 1, succeeded)
	require.NoError(t, th.Free())
}

// TestThreadLimit changes process-wide state and must not run in parallel.
func TestThreadLimit(t *testing.T) {
	lib.setMaxThreads(2)
	t.Cleanup(func() { lib.setMaxThreads(0) })

	release := make(chan struct{})
	block := func(any) any {
		<-release
		return nil
	}

	a, err := Create(block, nil)
	require.NoError(t, err)
	b, err := Create(block, nil)
	require.NoError(t, err)

	_, err = Create(block, nil)
	require.ErrorIs(t, err, ErrSpawn)
	require.ErrorIs(t, err, ErrThreadLimit)
	assert.Equal(t, int64(2), GetInfo().MaxThreads)

	close(release)
	for _, th := range []*Thread{a, b} {
		_, err := th.Join()
		require.NoError(t, err)
		require.NoError(t, th.Free())
	}

	c, err := Create(func(any) any { return nil }, nil)
	require.NoError(t, err, "slots are returned when threads exit")
	_, err = c.Join()
	require.NoError(t, err)
}

func TestCode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  error
		want int
	}{
		"nil":       {nil, CodeOK},
		"spawn":     {wrap(ErrSpawn, ErrNilEntry), CodeSpawn},
		"join":      {wrap(ErrJoin, ErrDeadlock), CodeJoin},
		"cancel":    {wrap(ErrCancel, errors.ErrUnsupported), CodeCancel},
		"signal":    {wrap(ErrSignal, ErrNotInitialized), CodeSignal},
		"timed out": {ErrTimedOut, CodeTimedOut},
		"foreign":   {errors.New("boom"), CodeUnknown},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Code(tc.err))
		})
	}
}

func TestGetInfo(t *testing.T) {
	t.Parallel()

	info := GetInfo()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.Backend)
	assert.Equal(t, lib.backend.CancelSupported(), info.CancelSupported)
}

func itoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}
