package tunnel

import (
	"context"
	"fmt"
	"log"
	"time"
)

// DefaultTimeUnit is the real-time length of one simulated time unit.
// A crossing spans (10 - speed) * 100 time units.
const DefaultTimeUnit = time.Millisecond

// CrossingDuration returns how long a vehicle with the given speed
// occupies a tunnel: (10 - speed) * 100 units. Faster vehicles spend
// less time in the tunnel.
func CrossingDuration(speed int, unit time.Duration) time.Duration {
	return time.Duration((10-speed)*100) * unit
}

// VehicleKey identifies a vehicle for use as a map key. Speed and
// priority are part of identity on purpose: the scheduling fields can be
// mutated while the vehicle is used as a key, and two snapshots with
// different scheduling state must not collide.
type VehicleKey struct {
	Name      string
	Direction Direction
	Speed     int
	Priority  int
}

// Vehicle is a single-use actor that crosses exactly one tunnel and then
// terminates. Construct it with NewVehicle, add candidate tunnels, and
// hand Run to a goroutine. All configuration (tunnels, speed, priority,
// time unit) must happen before Run starts.
type Vehicle struct {
	name      string
	direction Direction
	kind      Kind
	speed     int
	priority  int
	unit      time.Duration
	tunnels   []Tunnel
	log       *EventLog

	// Shared lock/broadcast pair, attached by a preemptive gate at
	// admission time. Nil means the simple (non-preemptive) crossing.
	sync *SyncPair
}

// NewVehicle creates a vehicle with priority 0 and a speed obtained from
// the given provider (the kind's default provider when speeds is nil).
// A speed outside [0, 9] is a configuration error and fails construction.
func NewVehicle(name string, direction Direction, kind Kind, speeds SpeedProvider, eventLog *EventLog) (*Vehicle, error) {
	if speeds == nil {
		speeds = kind.DefaultSpeedProvider()
	}
	speed := speeds.DefaultSpeed()
	if speed < 0 || speed > 9 {
		return nil, ErrInvalidSpeed(speed)
	}
	if eventLog == nil {
		eventLog = NewEventLog()
	}
	return &Vehicle{
		name:      name,
		direction: direction,
		kind:      kind,
		speed:     speed,
		priority:  0,
		unit:      DefaultTimeUnit,
		log:       eventLog,
	}, nil
}

// Name returns the name of this vehicle
func (v *Vehicle) Name() string { return v.name }

// Direction returns the direction of this vehicle
func (v *Vehicle) Direction() Direction { return v.direction }

// Kind returns the kind of this vehicle
func (v *Vehicle) Kind() Kind { return v.kind }

// Speed returns the speed of this vehicle
func (v *Vehicle) Speed() int { return v.speed }

// Priority returns the priority of this vehicle
func (v *Vehicle) Priority() int { return v.priority }

// Log returns the vehicle's event log.
func (v *Vehicle) Log() *EventLog { return v.log }

func (v *Vehicle) String() string {
	return fmt.Sprintf("%s %s %s", v.direction, v.kind, v.name)
}

// SetSpeed sets the vehicle's speed. The new value must lie in [0, 9];
// on violation the vehicle is left unchanged.
func (v *Vehicle) SetSpeed(speed int) error {
	if speed < 0 || speed > 9 {
		return ErrInvalidSpeed(speed)
	}
	v.speed = speed
	return nil
}

// SetPriority sets the vehicle's priority. The new value must lie in
// [0, 4]; on violation the vehicle is left unchanged.
func (v *Vehicle) SetPriority(priority int) error {
	if priority < 0 || priority > 4 {
		return ErrInvalidPriority(priority)
	}
	v.priority = priority
	return nil
}

// SetTimeUnit overrides the real-time length of one simulated time unit.
// Useful for compressing wall time in tests and fast simulations.
func (v *Vehicle) SetTimeUnit(unit time.Duration) error {
	if unit <= 0 {
		return ErrInvalidConfig("time unit must be > 0")
	}
	v.unit = unit
	return nil
}

// AddTunnel appends a candidate tunnel the vehicle may attempt.
func (v *Vehicle) AddTunnel(t Tunnel) {
	v.tunnels = append(v.tunnels, t)
}

// AddTunnels appends a collection of candidate tunnels in order.
func (v *Vehicle) AddTunnels(ts []Tunnel) {
	v.tunnels = append(v.tunnels, ts...)
}

// AttachSync hands the vehicle a non-owning reference to its gate's
// shared lock/broadcast pair, switching the crossing to the preemptive
// protocol. Called by preemptive gates at admission time.
func (v *Vehicle) AttachSync(p *SyncPair) {
	v.sync = p
}

// Equal reports whether two vehicles have the same name, direction,
// speed, and priority.
func (v *Vehicle) Equal(o *Vehicle) bool {
	if o == nil {
		return false
	}
	return v.Key() == o.Key()
}

// Key returns the vehicle's comparable identity snapshot.
func (v *Vehicle) Key() VehicleKey {
	return VehicleKey{
		Name:      v.name,
		Direction: v.direction,
		Speed:     v.speed,
		Priority:  v.priority,
	}
}

// Run drives the vehicle's single crossing: spin over the candidate
// tunnels, in the order they were added, until one admits the vehicle;
// cross it; exit; record COMPLETE. The admission loop is a pure
// busy-wait — a vehicle that is never admitted spins until ctx is
// cancelled.
//
// Run must be called at most once.
func (v *Vehicle) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, t := range v.tunnels {
			if !t.TryEnter(v) {
				continue
			}
			v.log.Add(v, EventTypeEnter)
			err := v.occupy(ctx)
			t.Exit(v)
			v.log.Add(v, EventTypeExit)
			if err != nil {
				v.log.Add(v, EventTypeInterrupted)
				return err
			}
			v.log.Add(v, EventTypeComplete)
			return nil
		}
	}
}

// occupy simulates the time spent inside the tunnel. With no sync pair
// attached the vehicle simply sleeps out its crossing; cancellation is
// logged and swallowed, ending the occupation early but still completing
// the crossing. With a sync pair attached the preemptive protocol
// applies.
func (v *Vehicle) occupy(ctx context.Context) error {
	crossing := CrossingDuration(v.speed, v.unit)

	if v.sync == nil {
		timer := time.NewTimer(crossing)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			log.Printf("vehicle %s: crossing cut short: %v", v.name, ctx.Err())
		}
		return nil
	}
	return v.occupyPreemptive(ctx, crossing)
}

// occupyPreemptive crosses under the shared lock/broadcast pair.
//
// An ambulance announces its arrival to every waiter, crosses for its
// full duration while holding the gate lock (so its crossing is never
// itself preempted), then announces its departure so preempted vehicles
// can resume.
//
// A normal vehicle counts its crossing down with timed waits. A wake
// before the countdown expires means an ambulance announced itself: the
// vehicle yields until the matching departure broadcast has fired, then
// resumes the countdown from exactly the time that remained at the
// interruption. Only an expired countdown completes the crossing; the
// remainder returned by each wait is authoritative for the next
// iteration.
//
// Cancellation while blocked abandons the crossing: a diagnostic naming
// the vehicle is logged, the lock is released, and the error is
// returned. Other vehicles are unaffected.
func (v *Vehicle) occupyPreemptive(ctx context.Context, crossing time.Duration) error {
	v.sync.Lock()
	defer v.sync.Unlock()

	if v.kind.Emergency() {
		v.log.Add(v, EventTypePreemptStart)
		v.sync.Broadcast()

		timer := time.NewTimer(crossing)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			log.Printf("interrupted vehicle %s: %v", v.name, ctx.Err())
			return ctx.Err()
		}

		v.sync.Broadcast()
		v.log.Add(v, EventTypePreemptEnd)
		return nil
	}

	remaining := crossing
	for remaining > 0 {
		since := v.sync.Gen()
		left, err := v.sync.WaitTimeout(ctx, remaining)
		if err != nil {
			log.Printf("interrupted vehicle %s: %v", v.name, err)
			return err
		}
		if left == 0 {
			// Countdown expired through elapsed wait time: done.
			return nil
		}
		// Woken by the arrival broadcast (generation since+1). Yield
		// until the matching departure broadcast (since+2) has fired.
		if err := v.sync.WaitPast(ctx, since+1); err != nil {
			log.Printf("interrupted vehicle %s: %v", v.name, err)
			return err
		}
		remaining = left
	}
	return nil
}
