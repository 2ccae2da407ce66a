package thread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMutexStress increments a shared counter from 8 threads.
func TestMutexStress(t *testing.T) {
	t.Parallel()

	const (
		threads    = 8
		increments = 10000
	)

	m := NewMutex()
	defer m.Destroy()
	counter := 0

	handles := make([]*Thread, threads)
	for i := range handles {
		th, err := Create(func(any) any {
			for range increments / threads {
				m.Lock()
				counter++
				m.Unlock()
			}
			return nil
		}, nil)
		require.NoError(t, err)
		handles[i] = th
	}
	for _, th := range handles {
		_, err := th.Join()
		require.NoError(t, err)
		require.NoError(t, th.Free())
	}

	assert.Equal(t, increments, counter)
}

// TestMutexBlocksUntilUnlock checks B's Lock returns only after A's Unlock.
func TestMutexBlocksUntilUnlock(t *testing.T) {
	t.Parallel()

	var m Mutex
	m.Init()
	m.Lock()

	var unlockedAt time.Time
	acquiredAt := make(chan time.Time, 1)
	th, err := Create(func(any) any {
		m.Lock()
		acquiredAt <- time.Now()
		m.Unlock()
		return nil
	}, nil)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	select {
	case <-acquiredAt:
		t.Fatal("lock acquired while held")
	default:
	}
	unlockedAt = time.Now()
	m.Unlock()

	got := <-acquiredAt
	assert.False(t, got.Before(unlockedAt))
	_, err = th.Join()
	require.NoError(t, err)
	require.NoError(t, th.Free())
	m.Destroy()
}

func TestMutexTryLock(t *testing.T) {
	t.Parallel()

	m := NewMutex()
	require.True(t, m.TryLock())
	assert.False(t, m.TryLock())
	m.Unlock()
	assert.True(t, m.TryLock())
	m.Unlock()
}
