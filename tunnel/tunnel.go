package tunnel

import "sync"

// Tunnel is an admission gate deciding tunnel occupancy. TryEnter is
// non-blocking and may be called repeatedly; Exit must be called exactly
// once per successful admission.
type Tunnel interface {
	Name() string
	TryEnter(v *Vehicle) bool
	Exit(v *Vehicle)
}

// DefaultMaxCars is the car capacity of a BasicTunnel when none is given.
const DefaultMaxCars = 3

// BasicTunnel enforces the classic occupancy rules: up to MaxCars cars at
// a time or a single sled, with every occupant travelling the same
// direction. An ambulance counts as a car for capacity purposes.
type BasicTunnel struct {
	name    string
	maxCars int

	mu        sync.Mutex
	occupants map[VehicleKey]struct{}
	cars      int
	sleds     int
	direction Direction
}

// NewBasicTunnel creates a tunnel with the given car capacity.
// A capacity < 1 falls back to DefaultMaxCars.
func NewBasicTunnel(name string, maxCars int) *BasicTunnel {
	if maxCars < 1 {
		maxCars = DefaultMaxCars
	}
	return &BasicTunnel{
		name:      name,
		maxCars:   maxCars,
		occupants: make(map[VehicleKey]struct{}),
	}
}

// Name returns the name of this tunnel
func (t *BasicTunnel) Name() string { return t.name }

// TryEnter attempts to admit the vehicle. It never blocks; a refusal is
// idempotent and the caller is expected to retry.
func (t *BasicTunnel) TryEnter(v *Vehicle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.occupants[v.Key()]; ok {
		return false
	}
	if t.cars+t.sleds > 0 && v.Direction() != t.direction {
		return false
	}

	switch v.Kind() {
	case KindSled:
		if t.cars > 0 || t.sleds > 0 {
			return false
		}
		t.sleds++
	default:
		if t.sleds > 0 || t.cars >= t.maxCars {
			return false
		}
		t.cars++
	}

	t.direction = v.Direction()
	t.occupants[v.Key()] = struct{}{}
	return true
}

// Exit releases the vehicle's occupancy. Calling Exit for a vehicle that
// is not an occupant is a contract violation and is ignored.
func (t *BasicTunnel) Exit(v *Vehicle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.occupants[v.Key()]; !ok {
		return
	}
	delete(t.occupants, v.Key())
	if v.Kind() == KindSled {
		t.sleds--
	} else {
		t.cars--
	}
}

// Occupancy returns the current number of occupants.
func (t *BasicTunnel) Occupancy() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cars + t.sleds
}
