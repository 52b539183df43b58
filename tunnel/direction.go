package tunnel

import (
	"encoding/json"
	"fmt"
)

// Direction is the side of the tunnel a vehicle approaches from
type Direction int

const (
	DirectionNorth Direction = iota
	DirectionSouth
)

// String returns the string representation of Direction
func (d Direction) String() string {
	switch d {
	case DirectionNorth:
		return "north"
	case DirectionSouth:
		return "south"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// Opposite returns the other side of the tunnel
func (d Direction) Opposite() Direction {
	if d == DirectionNorth {
		return DirectionSouth
	}
	return DirectionNorth
}

// ParseDirection parses a string into a Direction
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "north":
		return DirectionNorth, nil
	case "south":
		return DirectionSouth, nil
	default:
		return DirectionNorth, fmt.Errorf("invalid direction: %s (must be 'north' or 'south')", s)
	}
}

// MarshalJSON implements json.Marshaler for Direction
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler for Direction
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
