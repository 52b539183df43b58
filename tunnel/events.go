package tunnel

import (
	"encoding/json"
	"fmt"
)

// EventType represents the type of vehicle lifecycle event
type EventType int

const (
	EventTypeEnter EventType = iota
	EventTypeExit
	EventTypeComplete
	EventTypeInterrupted
	EventTypePreemptStart
	EventTypePreemptEnd
)

func (et EventType) String() string {
	switch et {
	case EventTypeEnter:
		return "enter"
	case EventTypeExit:
		return "exit"
	case EventTypeComplete:
		return "complete"
	case EventTypeInterrupted:
		return "interrupted"
	case EventTypePreemptStart:
		return "preempt_start"
	case EventTypePreemptEnd:
		return "preempt_end"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for EventType
func (et EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(et.String())
}

// Event is one record in a scenario's event log.
type Event struct {
	Seq       int       `json:"seq"`
	Vehicle   string    `json:"vehicle"`
	Direction Direction `json:"direction"`
	Kind      Kind      `json:"kind"`
	Type      EventType `json:"type"`
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s %s %s)", e.Type, e.Direction, e.Kind, e.Vehicle)
}
