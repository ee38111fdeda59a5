// Package gen samples terrain height and biome for any (x,z) from the
// session seed. Every function here is pure: terrain, spawning and the
// player's ground height all call it independently and must agree.
package gen

import (
	"math"

	"reckoning.game/internal/sim/world/terrain/noise"
)

type Biome string

const (
	BiomeBeach     Biome = "BEACH"
	BiomeWetland   Biome = "WETLAND"
	BiomeRocky     Biome = "ROCKY"
	BiomeForest    Biome = "FOREST"
	BiomeAlpine    Biome = "ALPINE"
	BiomeGrassland Biome = "GRASSLAND"
)

// Biomes lists every classification in a stable order.
var Biomes = []Biome{BiomeBeach, BiomeWetland, BiomeRocky, BiomeForest, BiomeAlpine, BiomeGrassland}

const DefaultWaterLevel = -0.5

type layer struct {
	freq       float64
	octaves    int
	lacunarity float64
	seedOffset int64
	amp        float64
}

// Relief layers: macro relief, large-scale swell, fine detail.
var reliefLayers = [...]layer{
	{freq: 0.02, octaves: 6, lacunarity: 2.2, seedOffset: 0, amp: 8},
	{freq: 0.008, octaves: 4, lacunarity: 2.0, seedOffset: 100, amp: 12},
	{freq: 0.1, octaves: 2, lacunarity: 3.0, seedOffset: 300, amp: 1.5},
}

var (
	biomeLayer    = layer{freq: 0.03, octaves: 3, lacunarity: 2.0, seedOffset: 500}
	moistureLayer = layer{freq: 0.05, octaves: 2, lacunarity: 2.0, seedOffset: 600}
)

type Params struct {
	WaterLevel float64

	RiverCenterZ   float64
	RiverMeander   float64
	RiverFrequency float64
	RiverHalfWidth float64
	RiverDepth     float64
}

func DefaultParams() Params {
	return Params{
		WaterLevel:     DefaultWaterLevel,
		RiverCenterZ:   10,
		RiverMeander:   15,
		RiverFrequency: 0.05,
		RiverHalfWidth: 20,
		RiverDepth:     4,
	}
}

type TerrainSample struct {
	Height float64 `json:"height"`
	Biome  Biome   `json:"biome"`
}

type Sampler struct {
	seed int64
	p    Params
}

func New(seed int32, p Params) *Sampler {
	if p.RiverHalfWidth <= 0 {
		p.RiverHalfWidth = DefaultParams().RiverHalfWidth
	}
	return &Sampler{seed: int64(seed), p: p}
}

func (s *Sampler) Params() Params { return s.p }

func (s *Sampler) sample(l layer, x, z float64) float64 {
	return noise.FBM(x*l.freq, z*l.freq, l.octaves, l.lacunarity, s.seed+l.seedOffset)
}

// Height is never below the water level.
func (s *Sampler) Height(x, z float64) float64 {
	var h float64
	for _, l := range reliefLayers {
		h += s.sample(l, x, z) * l.amp
	}
	h += s.RiverCarve(x, z)
	if h < s.p.WaterLevel || math.IsNaN(h) {
		h = s.p.WaterLevel
	}
	return h
}

// RiverCarve is the (non-positive) depth of the meandering river channel at (x,z).
func (s *Sampler) RiverCarve(x, z float64) float64 {
	center := s.p.RiverCenterZ - math.Sin(x*s.p.RiverFrequency)*s.p.RiverMeander
	dist := math.Abs(z - center)
	falloff := 1 - dist/s.p.RiverHalfWidth
	if !(falloff > 0) {
		return 0
	}
	return -s.p.RiverDepth * falloff
}

func (s *Sampler) BiomeAt(x, z float64) Biome {
	return s.classify(x, z, s.Height(x, z))
}

func (s *Sampler) Sample(x, z float64) TerrainSample {
	h := s.Height(x, z)
	return TerrainSample{Height: h, Biome: s.classify(x, z, h)}
}

// SurfaceY is the standing height for an entity at (x,z).
func (s *Sampler) SurfaceY(x, z float64) float64 {
	return math.Max(0.5, s.Height(x, z)+0.5)
}

func (s *Sampler) classify(x, z, h float64) Biome {
	water := s.p.WaterLevel
	if h < water+0.5 {
		return BiomeBeach
	}
	moisture := s.sample(moistureLayer, x, z)
	if h < water+2 && moisture > 0.3 {
		return BiomeWetland
	}
	b := s.sample(biomeLayer, x, z)
	switch {
	case b > 0.6:
		return BiomeRocky
	case b > 0.3:
		return BiomeForest
	case h > reliefLayers[0].amp*1.2:
		return BiomeAlpine
	default:
		return BiomeGrassland
	}
}
