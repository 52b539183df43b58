package tunnel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
}

func TestConfigValidate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ScenarioConfig)
	}{
		{"no tunnels", func(c *ScenarioConfig) { c.NumTunnels = 0 }},
		{"preemptive needs one tunnel", func(c *ScenarioConfig) {
			c.Scheduler = SchedulerPreemptive
			c.NumTunnels = 2
		}},
		{"zero capacity", func(c *ScenarioConfig) { c.MaxCars = 0 }},
		{"negative cars", func(c *ScenarioConfig) { c.NumCars = -1 }},
		{"no vehicles", func(c *ScenarioConfig) { c.NumCars, c.NumSleds = 0, 0 }},
		{"ambulances without preemption", func(c *ScenarioConfig) { c.NumAmbulances = 1 }},
		{"inverted speed bounds", func(c *ScenarioConfig) { c.MinSpeed, c.MaxSpeed = 7, 3 }},
		{"speed out of range", func(c *ScenarioConfig) { c.MaxSpeed = 10 }},
		{"zero time unit", func(c *ScenarioConfig) { c.TimeUnitUs = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(&config)
			require.Error(t, config.Validate())
		})
	}
}

func TestSchedulerMode_ParseAndJSON(t *testing.T) {
	for _, mode := range []SchedulerMode{SchedulerBasic, SchedulerPriority, SchedulerPreemptive} {
		parsed, err := ParseSchedulerMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, parsed)
	}
	_, err := ParseSchedulerMode("bogus")
	require.Error(t, err)

	var config ScenarioConfig
	require.NoError(t, json.Unmarshal([]byte(`{"scheduler":"preemptive","numTunnels":1,"maxCars":3,"numCars":1,"maxSpeed":9,"timeUnitUs":1000}`), &config))
	require.Equal(t, SchedulerPreemptive, config.Scheduler)
}

func TestDirectionAndKind_Parse(t *testing.T) {
	d, err := ParseDirection("south")
	require.NoError(t, err)
	require.Equal(t, DirectionSouth, d)
	require.Equal(t, DirectionNorth, d.Opposite())
	_, err = ParseDirection("east")
	require.Error(t, err)

	k, err := ParseKind("ambulance")
	require.NoError(t, err)
	require.True(t, k.Emergency())
	require.False(t, KindSled.Emergency())
	_, err = ParseKind("train")
	require.Error(t, err)
}
