package tunnel

import (
	"encoding/json"
	"fmt"
	"time"
)

// SchedulerMode represents the scheduling policy of a scenario
type SchedulerMode int

const (
	SchedulerBasic      SchedulerMode = iota // Busy-wait admission, simple sleep crossing
	SchedulerPriority                        // Priority-ordered admission
	SchedulerPreemptive                      // Priority admission with ambulance preemption
)

// String returns the string representation of SchedulerMode
func (sm SchedulerMode) String() string {
	switch sm {
	case SchedulerBasic:
		return "basic"
	case SchedulerPriority:
		return "priority"
	case SchedulerPreemptive:
		return "preemptive"
	default:
		return "unknown"
	}
}

// ParseSchedulerMode parses a string into SchedulerMode
func ParseSchedulerMode(s string) (SchedulerMode, error) {
	switch s {
	case "basic":
		return SchedulerBasic, nil
	case "priority":
		return SchedulerPriority, nil
	case "preemptive":
		return SchedulerPreemptive, nil
	default:
		return SchedulerBasic, fmt.Errorf("invalid scheduler mode: %s (must be 'basic', 'priority', or 'preemptive')", s)
	}
}

// MarshalJSON implements json.Marshaler for SchedulerMode
func (sm SchedulerMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(sm.String())
}

// UnmarshalJSON implements json.Unmarshaler for SchedulerMode
func (sm *SchedulerMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseSchedulerMode(s)
	if err != nil {
		return err
	}
	*sm = parsed
	return nil
}

// ScenarioConfig holds all scenario parameters
type ScenarioConfig struct {
	Scheduler SchedulerMode `json:"scheduler"` // Scheduling policy

	// Topology
	NumTunnels int `json:"numTunnels"` // Number of tunnels (preemptive mode requires exactly 1)
	MaxCars    int `json:"maxCars"`    // Car capacity per tunnel

	// Traffic
	NumCars       int `json:"numCars"`
	NumSleds      int `json:"numSleds"`
	NumAmbulances int `json:"numAmbulances"` // Only meaningful in preemptive mode

	// Speed sampling bounds for cars and sleds (ambulances use the
	// fixed ambulance default)
	MinSpeed int `json:"minSpeed"`
	MaxSpeed int `json:"maxSpeed"`

	// Simulation control
	RandomSeed int64 `json:"randomSeed"` // Random seed for reproducibility (0 = time-based)
	TimeUnitUs int   `json:"timeUnitUs"` // Real-time length of one simulated time unit, in microseconds
}

// DefaultConfig returns a small ready-to-run scenario
func DefaultConfig() ScenarioConfig {
	return ScenarioConfig{
		Scheduler:     SchedulerBasic,
		NumTunnels:    2,
		MaxCars:       DefaultMaxCars,
		NumCars:       8,
		NumSleds:      2,
		NumAmbulances: 0,
		MinSpeed:      0,
		MaxSpeed:      9,
		RandomSeed:    0,
		TimeUnitUs:    1000, // 1ms per time unit
	}
}

// Validate checks if configuration values are reasonable
func (c *ScenarioConfig) Validate() error {
	if c.NumTunnels < 1 {
		return ErrInvalidConfig("numTunnels must be >= 1")
	}
	if c.Scheduler == SchedulerPreemptive && c.NumTunnels != 1 {
		return ErrInvalidConfig("preemptive scheduler requires exactly 1 tunnel")
	}
	if c.MaxCars < 1 {
		return ErrInvalidConfig("maxCars must be >= 1")
	}
	if c.NumCars < 0 || c.NumSleds < 0 || c.NumAmbulances < 0 {
		return ErrInvalidConfig("vehicle counts must be >= 0")
	}
	if c.NumCars+c.NumSleds+c.NumAmbulances == 0 {
		return ErrInvalidConfig("at least one vehicle is required")
	}
	if c.NumAmbulances > 0 && c.Scheduler != SchedulerPreemptive {
		return ErrInvalidConfig("ambulances require the preemptive scheduler")
	}
	if c.MinSpeed < 0 || c.MaxSpeed > 9 || c.MinSpeed > c.MaxSpeed {
		return ErrInvalidConfig("speed bounds must satisfy 0 <= minSpeed <= maxSpeed <= 9")
	}
	if c.TimeUnitUs < 1 {
		return ErrInvalidConfig("timeUnitUs must be >= 1")
	}
	return nil
}

// TimeUnit returns the configured time unit as a time.Duration.
func (c *ScenarioConfig) TimeUnit() time.Duration {
	return time.Duration(c.TimeUnitUs) * time.Microsecond
}
