package tunnel

import (
	"context"
	"sync"
	"time"
)

// SyncPair couples a preemptive gate's mutual-exclusion lock with its
// preemption broadcast. The gate constructs and owns the pair; every
// vehicle admitted through the gate holds a non-owning reference
// (attached via Vehicle.AttachSync) and coordinates its crossing
// through it.
//
// Broadcast wakes all waiters by closing the current generation channel
// and installing a fresh one, and bumps a generation counter so a waiter
// can tell "the broadcast that woke me" apart from "the one I am still
// waiting for". sync.Cond is deliberately not used here: it has no timed
// wait, and waking waiters on a timer with Broadcast would be
// indistinguishable from a real preemption signal.
//
// Wait and WaitTimeout have monitor semantics: the caller must hold the
// lock; the wait releases it, blocks, and re-acquires it before
// returning — on every path, including cancellation, so a deferred
// Unlock in the caller stays correct.
type SyncPair struct {
	mu  sync.Mutex
	gen uint64
	ch  chan struct{}
}

// NewSyncPair creates a sync pair with no waiters.
func NewSyncPair() *SyncPair {
	return &SyncPair{ch: make(chan struct{})}
}

// Lock acquires the shared lock, blocking until it is available.
func (p *SyncPair) Lock() { p.mu.Lock() }

// Unlock releases the shared lock.
func (p *SyncPair) Unlock() { p.mu.Unlock() }

// Gen returns the current broadcast generation. Caller must hold the lock.
func (p *SyncPair) Gen() uint64 { return p.gen }

// Broadcast wakes every current waiter and advances the generation.
// Caller must hold the lock.
func (p *SyncPair) Broadcast() {
	p.gen++
	close(p.ch)
	p.ch = make(chan struct{})
}

// WaitPast blocks until the broadcast generation exceeds since, then
// returns with the lock held. It re-checks the generation on every wake,
// so a waiter that was blocked while several broadcasts fired returns
// immediately. Caller must hold the lock.
func (p *SyncPair) WaitPast(ctx context.Context, since uint64) error {
	for p.gen <= since {
		ch := p.ch
		p.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			p.mu.Lock()
			return ctx.Err()
		}
		p.mu.Lock()
	}
	return nil
}

// WaitTimeout waits for a broadcast for at most d. It returns the
// unexpired portion of d if a broadcast arrived first, or zero if the
// full timeout elapsed. Caller must hold the lock.
//
// The remainder is measured at the instant the broadcast arrives, before
// the lock is re-acquired. Time spent blocked behind the broadcasting
// occupant (which may hold the lock for its whole crossing) therefore
// never counts against the returned remainder.
func (p *SyncPair) WaitTimeout(ctx context.Context, d time.Duration) (time.Duration, error) {
	ch := p.ch
	p.mu.Unlock()
	defer p.mu.Lock()

	timer := time.NewTimer(d)
	defer timer.Stop()

	start := time.Now()
	select {
	case <-ch:
		remaining := d - time.Since(start)
		if remaining < 0 {
			remaining = 0
		}
		return remaining, nil
	case <-timer.C:
		return 0, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
