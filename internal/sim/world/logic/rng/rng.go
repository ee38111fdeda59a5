// Package rng is the session's only source of randomness.
//
// A Rand is a splitmix64 counter stream keyed by a 32-bit seed. Two instances
// built from the same seed and driven by the same call sequence produce
// identical outputs; the full state is two integers so saves can carry it.
package rng

import "reckoning.game/internal/sim/world/logic/mathx"

const golden = 0x9e3779b97f4a7c15

type Rand struct {
	seed  int32
	state uint64
	calls uint64
}

// State is the persisted form of a Rand.
type State struct {
	Seed  int32  `json:"seed"`
	Calls uint64 `json:"calls"`
}

func New(seed int32) *Rand {
	return &Rand{seed: seed, state: mathx.Mix64(uint64(uint32(seed)))}
}

func (r *Rand) Seed() int32   { return r.seed }
func (r *Rand) Calls() uint64 { return r.calls }

func (r *Rand) State() State { return State{Seed: r.seed, Calls: r.calls} }

// Restore rebuilds the stream position described by s.
func Restore(s State) *Rand {
	r := New(s.Seed)
	r.state += golden * s.Calls
	r.calls = s.Calls
	return r
}

// Next returns a float in [0,1).
func (r *Rand) Next() float64 {
	r.state += golden
	r.calls++
	return float64(mathx.Mix64(r.state)>>11) / (1 << 53)
}

func (r *Rand) InRange(min, max float64) float64 {
	return min + r.Next()*(max-min)
}

// Int returns an int in [0,n). It returns 0 for n <= 0 without consuming a draw.
func (r *Rand) Int(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(r.Next() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
