package tunnel

import "math/rand"

// SpeedProvider supplies a vehicle's speed at construction time.
// Implementations must return a value between 0 and 9 (inclusive); higher
// numbers mean a faster vehicle and therefore a shorter crossing.
type SpeedProvider interface {
	DefaultSpeed() int
}

// FixedSpeed is a SpeedProvider that always returns the same speed.
type FixedSpeed int

func (f FixedSpeed) DefaultSpeed() int { return int(f) }

// UniformSpeed samples speeds uniformly from [Min, Max].
type UniformSpeed struct {
	Min int
	Max int
	rng *rand.Rand
}

// NewUniformSpeed creates a uniform speed provider with a specific seed.
// A seed of 0 uses a time-based seed (not reproducible).
func NewUniformSpeed(min, max int, seed int64) *UniformSpeed {
	var rng *rand.Rand
	if seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	} else {
		rng = rand.New(rand.NewSource(seed))
	}
	return &UniformSpeed{Min: min, Max: max, rng: rng}
}

func (u *UniformSpeed) DefaultSpeed() int {
	if u.Min >= u.Max {
		return u.Min
	}
	return u.Min + u.rng.Intn(u.Max-u.Min+1)
}
