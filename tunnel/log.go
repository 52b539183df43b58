package tunnel

import "sync"

// EventLog records vehicle lifecycle events in the order they happen.
// Safe for concurrent use by every vehicle goroutine in a scenario.
type EventLog struct {
	mu      sync.Mutex
	events  []Event
	nextSeq int

	// OnEvent, when set, is invoked for every recorded event while the
	// log's lock is held (so callbacks observe events in sequence order).
	// Keep it fast. Set it before the scenario starts.
	OnEvent func(Event)
}

// NewEventLog creates an empty event log
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Add records an event for the given vehicle.
func (l *EventLog) Add(v *Vehicle, et EventType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := Event{
		Seq:       l.nextSeq,
		Vehicle:   v.Name(),
		Direction: v.Direction(),
		Kind:      v.Kind(),
		Type:      et,
	}
	l.nextSeq++
	l.events = append(l.events, e)
	if l.OnEvent != nil {
		l.OnEvent(e)
	}
}

// Events returns a copy of all recorded events.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of recorded events.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Count returns the number of recorded events of the given type.
func (l *EventLog) Count(et EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Type == et {
			n++
		}
	}
	return n
}

// CountVehicle returns the number of events of the given type recorded
// for the named vehicle.
func (l *EventLog) CountVehicle(name string, et EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Vehicle == name && e.Type == et {
			n++
		}
	}
	return n
}
