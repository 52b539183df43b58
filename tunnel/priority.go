package tunnel

import "sync"

// PriorityGate admits waiting vehicles in priority order. It wraps a set
// of tunnels: a vehicle gets through only when no higher-priority vehicle
// is also waiting at the gate and one of the wrapped tunnels has room.
// Equal-priority waiters race; whichever polls first wins.
type PriorityGate struct {
	name    string
	tunnels []Tunnel

	mu       sync.Mutex
	waiting  waitQueue
	admitted map[*Vehicle]Tunnel
}

// NewPriorityGate creates a gate in front of the given tunnels.
func NewPriorityGate(name string, tunnels []Tunnel) *PriorityGate {
	return &PriorityGate{
		name:     name,
		tunnels:  tunnels,
		admitted: make(map[*Vehicle]Tunnel),
	}
}

// Name returns the name of this gate
func (g *PriorityGate) Name() string { return g.name }

// TryEnter registers the vehicle as a waiter on first call, then admits
// it only if its priority matches the current maximum among waiters and
// an inner tunnel accepts it.
func (g *PriorityGate) TryEnter(v *Vehicle) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.waiting.Add(v)
	if v.Priority() < g.waiting.MaxPriority() {
		return false
	}
	for _, t := range g.tunnels {
		if t.TryEnter(v) {
			g.waiting.Remove(v)
			g.admitted[v] = t
			return true
		}
	}
	return false
}

// Exit releases the vehicle from the inner tunnel it was admitted to.
func (g *PriorityGate) Exit(v *Vehicle) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t, ok := g.admitted[v]; ok {
		delete(g.admitted, v)
		t.Exit(v)
	}
}

// Waiting returns the number of vehicles currently waiting at the gate.
func (g *PriorityGate) Waiting() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.waiting.Len()
}
