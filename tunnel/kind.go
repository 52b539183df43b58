package tunnel

import (
	"encoding/json"
	"fmt"
)

// Kind tags the vehicle variant. Ambulances are the privileged kind whose
// arrival preempts the occupants of a preemptive tunnel.
type Kind int

const (
	KindCar Kind = iota
	KindSled
	KindAmbulance
)

// Default speeds per kind, used when no SpeedProvider is injected.
const (
	DefaultCarSpeed       = 5
	DefaultSledSpeed      = 2
	DefaultAmbulanceSpeed = 8
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindCar:
		return "car"
	case KindSled:
		return "sled"
	case KindAmbulance:
		return "ambulance"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Emergency reports whether this kind is allowed to preempt occupants.
func (k Kind) Emergency() bool {
	return k == KindAmbulance
}

// DefaultSpeedProvider returns the stock SpeedProvider for the kind.
func (k Kind) DefaultSpeedProvider() SpeedProvider {
	switch k {
	case KindSled:
		return FixedSpeed(DefaultSledSpeed)
	case KindAmbulance:
		return FixedSpeed(DefaultAmbulanceSpeed)
	default:
		return FixedSpeed(DefaultCarSpeed)
	}
}

// ParseKind parses a string into a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "car":
		return KindCar, nil
	case "sled":
		return KindSled, nil
	case "ambulance":
		return KindAmbulance, nil
	default:
		return KindCar, fmt.Errorf("invalid kind: %s (must be 'car', 'sled', or 'ambulance')", s)
	}
}

// MarshalJSON implements json.Marshaler for Kind
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler for Kind
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
