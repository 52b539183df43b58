package tunnel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSyncPair_WaitTimeoutExpires(t *testing.T) {
	p := NewSyncPair()
	p.Lock()
	defer p.Unlock()

	start := time.Now()
	remaining, err := p.WaitTimeout(context.Background(), 5*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), remaining, "a full timeout must report zero remaining")
	require.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestSyncPair_BroadcastCutsWaitShort(t *testing.T) {
	p := NewSyncPair()

	got := make(chan time.Duration, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Lock()
		defer p.Unlock()
		remaining, err := p.WaitTimeout(context.Background(), time.Second)
		require.NoError(t, err)
		got <- remaining
	}()

	time.Sleep(10 * time.Millisecond) // let the waiter park
	p.Lock()
	p.Broadcast()
	p.Unlock()
	wg.Wait()

	remaining := <-got
	require.Greater(t, remaining, time.Duration(0), "an early wake must report unexpired time")
	require.Less(t, remaining, time.Second)
}

func TestSyncPair_GenerationAdvancesPerBroadcast(t *testing.T) {
	p := NewSyncPair()
	p.Lock()
	defer p.Unlock()

	require.Equal(t, uint64(0), p.Gen())
	p.Broadcast()
	p.Broadcast()
	require.Equal(t, uint64(2), p.Gen())
}

func TestSyncPair_WaitPastReturnsOnceGenerationPassed(t *testing.T) {
	p := NewSyncPair()

	// Waiter parks until generation exceeds 0.
	done := make(chan error, 1)
	go func() {
		p.Lock()
		defer p.Unlock()
		done <- p.WaitPast(context.Background(), 0)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("WaitPast returned before any broadcast")
	default:
	}

	p.Lock()
	p.Broadcast()
	p.Unlock()
	require.NoError(t, <-done)

	// A waiter that missed the broadcast returns immediately.
	p.Lock()
	require.NoError(t, p.WaitPast(context.Background(), 0))
	p.Unlock()
}

func TestSyncPair_CancellationReacquiresLock(t *testing.T) {
	p := NewSyncPair()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		p.Lock()
		// The deferred Unlock must find the lock held even on the
		// cancellation path.
		defer p.Unlock()
		_, err := p.WaitTimeout(ctx, time.Second)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// The lock must be free again afterwards.
	p.Lock()
	p.Unlock()
}

func TestSyncPair_BroadcastWakesAllWaiters(t *testing.T) {
	p := NewSyncPair()

	const waiters = 5
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Lock()
			defer p.Unlock()
			remaining, err := p.WaitTimeout(context.Background(), time.Second)
			require.NoError(t, err)
			require.Greater(t, remaining, time.Duration(0))
		}()
	}

	time.Sleep(20 * time.Millisecond)
	p.Lock()
	p.Broadcast()
	p.Unlock()
	wg.Wait()
}
