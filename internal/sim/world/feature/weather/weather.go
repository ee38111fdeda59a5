// Package weather is the weather state machine. It draws only from the
// session rng so a seed fully determines the forecast.
package weather

import (
	"math"

	"reckoning.game/internal/sim/world/logic/rng"
)

type Kind string

const (
	Clear Kind = "CLEAR"
	Rain  Kind = "RAIN"
	Fog   Kind = "FOG"
	Snow  Kind = "SNOW"
	Storm Kind = "STORM"
)

type Weight struct {
	Kind   Kind
	Weight float64
}

// Table holds the transition weights. They sum to 1.
var Table = []Weight{
	{Clear, 0.5},
	{Rain, 0.2},
	{Fog, 0.15},
	{Snow, 0.1},
	{Storm, 0.05},
}

const (
	minIntensity = 0.3
	maxIntensity = 1.0
	minDuration  = 60.0
	maxDuration  = 300.0
)

type State struct {
	Kind      Kind    `json:"kind"`
	Intensity float64 `json:"intensity"`
	Remaining float64 `json:"remaining"`
	WindSpeed float64 `json:"wind_speed"`
	WindAngle float64 `json:"wind_angle"`
}

func Initial() State {
	return State{Kind: Clear, Intensity: 0.5, Remaining: 300}
}

func Valid(k Kind) bool {
	for _, w := range Table {
		if w.Kind == k {
			return true
		}
	}
	return false
}

// Choose maps a single draw in [0,1) onto Table by cumulative weight.
func Choose(draw float64) Kind {
	var total float64
	for _, w := range Table {
		total += w.Weight
	}
	target := draw * total
	var acc float64
	for _, w := range Table {
		acc += w.Weight
		if target < acc {
			return w.Kind
		}
	}
	return Clear
}

// Step advances s by dt seconds. changed is true when a transition fired.
func Step(s State, dt float64, r *rng.Rand) (State, bool) {
	s.Remaining -= dt
	if s.Remaining <= 0 {
		return Transition(r), true
	}
	s.WindAngle = math.Mod(s.WindAngle+(r.Next()-0.5)*0.2*dt, 2*math.Pi)
	if s.WindAngle < 0 {
		s.WindAngle += 2 * math.Pi
	}
	s.WindSpeed = math.Max(0, s.WindSpeed+(r.Next()-0.5)*dt)
	return s, false
}

// Transition draws a fresh weather state.
func Transition(r *rng.Rand) State {
	return Force(r, Choose(r.Next()))
}

// Force draws intensity, duration and wind for a given kind.
func Force(r *rng.Rand, kind Kind) State {
	s := State{Kind: kind}
	s.Intensity = r.InRange(minIntensity, maxIntensity)
	s.Remaining = r.InRange(minDuration, maxDuration)
	switch kind {
	case Storm:
		s.WindSpeed = r.InRange(3, 6)
	case Rain:
		s.WindSpeed = r.InRange(1, 3)
	default:
		s.WindSpeed = r.Next()
	}
	s.WindAngle = r.Next() * 2 * math.Pi
	return s
}
