package tunnel

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
)

// Scenario wires vehicles and gates together from a config and runs
// every vehicle to completion, one goroutine per vehicle.
type Scenario struct {
	config   ScenarioConfig
	log      *EventLog
	vehicles []*Vehicle
	tunnels  []Tunnel
}

// NewScenario builds the tunnels and vehicles described by the config.
func NewScenario(config ScenarioConfig) (*Scenario, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	seed := config.RandomSeed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Scenario{
		config: config,
		log:    NewEventLog(),
	}
	s.tunnels = buildTunnels(config)

	speeds := NewUniformSpeed(config.MinSpeed, config.MaxSpeed, seed)
	spawn := func(n int, kind Kind, sp SpeedProvider) error {
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("%s-%d", kind, i)
			dir := DirectionNorth
			if len(s.vehicles)%2 == 1 {
				dir = DirectionSouth
			}
			v, err := NewVehicle(name, dir, kind, sp, s.log)
			if err != nil {
				return err
			}
			if err := v.SetTimeUnit(config.TimeUnit()); err != nil {
				return err
			}
			if config.Scheduler == SchedulerPriority {
				if err := v.SetPriority(rng.Intn(5)); err != nil {
					return err
				}
			}
			v.AddTunnels(s.tunnels)
			s.vehicles = append(s.vehicles, v)
		}
		return nil
	}

	if err := spawn(config.NumCars, KindCar, speeds); err != nil {
		return nil, err
	}
	if err := spawn(config.NumSleds, KindSled, speeds); err != nil {
		return nil, err
	}
	if err := spawn(config.NumAmbulances, KindAmbulance, nil); err != nil {
		return nil, err
	}
	return s, nil
}

func buildTunnels(config ScenarioConfig) []Tunnel {
	inner := make([]Tunnel, config.NumTunnels)
	for i := range inner {
		inner[i] = NewBasicTunnel(fmt.Sprintf("tunnel-%d", i), config.MaxCars)
	}

	switch config.Scheduler {
	case SchedulerPriority:
		return []Tunnel{NewPriorityGate("priority-gate", inner)}
	case SchedulerPreemptive:
		return []Tunnel{NewPreemptiveGate("preemptive-gate", inner[0])}
	default:
		return inner
	}
}

// Config returns the scenario configuration.
func (s *Scenario) Config() ScenarioConfig { return s.config }

// Log returns the scenario's event log.
func (s *Scenario) Log() *EventLog { return s.log }

// Vehicles returns the scenario's vehicles.
func (s *Scenario) Vehicles() []*Vehicle { return s.vehicles }

// Run starts every vehicle and blocks until all have terminated. Cancel
// ctx to bound the run: vehicles stuck in the admission busy-wait or
// blocked mid-crossing abandon their crossing and return.
func (s *Scenario) Run(ctx context.Context) *Stats {
	var wg sync.WaitGroup
	for _, v := range s.vehicles {
		wg.Add(1)
		go func(v *Vehicle) {
			defer wg.Done()
			// A cancelled vehicle either never entered (no events at
			// all) or recorded an interruption; the log has the story.
			_ = v.Run(ctx)
		}(v)
	}
	wg.Wait()
	return s.Stats()
}

// Stats summarizes the run so far.
func (s *Scenario) Stats() *Stats {
	return ComputeStats(s.log, len(s.vehicles))
}
