package tunnel

import "sync"

// PreemptiveGate admits vehicles into a wrapped tunnel and arms them for
// preemption: every admitted vehicle gets a non-owning reference to the
// gate's SyncPair before it starts crossing, switching its occupation to
// the preemptive protocol.
//
// Normal vehicles go through the wrapped tunnel's capacity rules. An
// ambulance bypasses them entirely — being admitted alongside the current
// occupants is exactly what preemption means. At most one ambulance is
// admitted at a time; a second one busy-waits at the gate until the first
// has exited.
type PreemptiveGate struct {
	name   string
	tunnel Tunnel
	sync   *SyncPair

	mu        sync.Mutex
	ambulance *Vehicle
}

// NewPreemptiveGate creates a preemptive gate in front of the given
// tunnel. The gate constructs and owns the shared SyncPair.
func NewPreemptiveGate(name string, inner Tunnel) *PreemptiveGate {
	return &PreemptiveGate{
		name:   name,
		tunnel: inner,
		sync:   NewSyncPair(),
	}
}

// Name returns the name of this gate
func (g *PreemptiveGate) Name() string { return g.name }

// Sync returns the gate-owned shared lock/broadcast pair.
func (g *PreemptiveGate) Sync() *SyncPair { return g.sync }

// TryEnter admits the vehicle and attaches the gate's sync pair to it.
func (g *PreemptiveGate) TryEnter(v *Vehicle) bool {
	if v.Kind().Emergency() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.ambulance != nil {
			return false
		}
		g.ambulance = v
		v.AttachSync(g.sync)
		return true
	}

	if !g.tunnel.TryEnter(v) {
		return false
	}
	v.AttachSync(g.sync)
	return true
}

// Exit releases the vehicle's occupancy.
func (g *PreemptiveGate) Exit(v *Vehicle) {
	if v.Kind().Emergency() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.ambulance == v {
			g.ambulance = nil
		}
		return
	}
	g.tunnel.Exit(v)
}
