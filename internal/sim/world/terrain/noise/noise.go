// Package noise implements seeded coherent value noise and its fractal sum.
package noise

import (
	"math"

	"reckoning.game/internal/sim/world/logic/mathx"
)

// octaveSeedStride decorrelates successive octaves of one FBM call.
const octaveSeedStride = 1013

// Value2D returns smooth lattice value noise in [-1,1].
func Value2D(x, z float64, seed int64) float64 {
	if !mathx.Finite(x) || !mathx.Finite(z) {
		return 0
	}
	fx := math.Floor(x)
	fz := math.Floor(z)
	xi := mathx.FloorInt(fx)
	zi := mathx.FloorInt(fz)
	u := fade(x - fx)
	v := fade(z - fz)

	n00 := lattice(seed, xi, zi)
	n10 := lattice(seed, xi+1, zi)
	n01 := lattice(seed, xi, zi+1)
	n11 := lattice(seed, xi+1, zi+1)

	nx0 := n00 + (n10-n00)*u
	nx1 := n01 + (n11-n01)*u
	return nx0 + (nx1-nx0)*v
}

// FBM sums octaves of Value2D. Octave i samples at lacunarity^i and weighs
// by (1/lacunarity)^i; the sum is normalized so the result stays in [-1,1].
func FBM(x, z float64, octaves int, lacunarity float64, seedOffset int64) float64 {
	if octaves <= 0 {
		return 0
	}
	if !mathx.Finite(lacunarity) || lacunarity <= 1 {
		lacunarity = 2
	}
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * Value2D(x*freq, z*freq, seedOffset+int64(i)*octaveSeedStride)
		norm += amp
		amp /= lacunarity
		freq *= lacunarity
	}
	return sum / norm
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lattice(seed int64, x, z int) float64 {
	h := mathx.Hash2(seed, x, z)
	return float64(h>>11)/(1<<53)*2 - 1
}
