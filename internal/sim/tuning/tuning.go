package tuning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Difficulty string

const (
	Easy      Difficulty = "EASY"
	Normal    Difficulty = "NORMAL"
	Hard      Difficulty = "HARD"
	Legendary Difficulty = "LEGENDARY"
)

// Multiplier scales enemy health and damage.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case Easy:
		return 0.75
	case Hard:
		return 1.5
	case Legendary:
		return 2.0
	default:
		return 1.0
	}
}

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Normal, Hard, Legendary:
		return true
	}
	return false
}

// Next cycles EASY -> NORMAL -> HARD -> LEGENDARY -> EASY.
func (d Difficulty) Next() Difficulty {
	switch d {
	case Easy:
		return Normal
	case Normal:
		return Hard
	case Hard:
		return Legendary
	default:
		return Easy
	}
}

type Tuning struct {
	TickRateHz     int        `yaml:"tick_rate_hz"`
	TimeScale      float64    `yaml:"time_scale"`
	MaxStepSeconds float64    `yaml:"max_step_seconds"`
	WorldBound     float64    `yaml:"world_bound"`
	Difficulty     Difficulty `yaml:"difficulty"`

	SaveEveryTicks int `yaml:"save_every_ticks"`

	Player  PlayerTuning  `yaml:"player"`
	Combat  CombatTuning  `yaml:"combat"`
	Enemies EnemyTuning   `yaml:"enemies"`
	Quests  QuestTuning   `yaml:"quests"`
	Events  EventTuning   `yaml:"events"`
	Terrain TerrainTuning `yaml:"terrain"`
}

type PlayerTuning struct {
	Speed                 float64 `yaml:"speed"`
	AttackCooldownSeconds float64 `yaml:"attack_cooldown_seconds"`
}

type CombatTuning struct {
	BaseDamage  float64 `yaml:"base_damage"`
	LevelBonus  float64 `yaml:"level_bonus"`
	AttackRange float64 `yaml:"attack_range"`
}

type EnemyTuning struct {
	MinCount           int     `yaml:"min_count"`
	ExtraCount         int     `yaml:"extra_count"`
	SpawnExtent        float64 `yaml:"spawn_extent"`
	DetectRange        float64 `yaml:"detect_range"`
	AttackRange        float64 `yaml:"attack_range"`
	HitIntervalSeconds float64 `yaml:"hit_interval_seconds"`
	WanderRadius       float64 `yaml:"wander_radius"`
	StateTimerMin      float64 `yaml:"state_timer_min"`
	StateTimerMax      float64 `yaml:"state_timer_max"`
}

type QuestTuning struct {
	CheckEverySeconds float64 `yaml:"check_every_seconds"`
	MaxActive         int     `yaml:"max_active"`
}

type EventTuning struct {
	EverySeconds float64 `yaml:"every_seconds"`
}

type TerrainTuning struct {
	WaterLevel     float64 `yaml:"water_level"`
	RiverCenterZ   float64 `yaml:"river_center_z"`
	RiverMeander   float64 `yaml:"river_meander"`
	RiverFrequency float64 `yaml:"river_frequency"`
	RiverHalfWidth float64 `yaml:"river_half_width"`
	RiverDepth     float64 `yaml:"river_depth"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:     60,
		TimeScale:      60,
		MaxStepSeconds: 0.25,
		WorldBound:     95,
		Difficulty:     Normal,
		SaveEveryTicks: 3600,
		Player: PlayerTuning{
			Speed:                 8,
			AttackCooldownSeconds: 0.5,
		},
		Combat: CombatTuning{
			BaseDamage:  10,
			LevelBonus:  2,
			AttackRange: 3,
		},
		Enemies: EnemyTuning{
			MinCount:           10,
			ExtraCount:         6,
			SpawnExtent:        180,
			DetectRange:        20,
			AttackRange:        2,
			HitIntervalSeconds: 1,
			WanderRadius:       10,
			StateTimerMin:      2,
			StateTimerMax:      5,
		},
		Quests: QuestTuning{
			CheckEverySeconds: 2,
			MaxActive:         1,
		},
		Events: EventTuning{
			EverySeconds: 10,
		},
		Terrain: TerrainTuning{
			WaterLevel:     -0.5,
			RiverCenterZ:   10,
			RiverMeander:   15,
			RiverFrequency: 0.05,
			RiverHalfWidth: 20,
			RiverDepth:     4,
		},
	}
}

// Digest is the sha256 of the canonical JSON encoding of t. Clients use it
// to tell whether two runs share tuning.
func (t Tuning) Digest() string {
	b, _ := json.Marshal(t)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Load overlays tuning.yaml on top of Defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Difficulty = Difficulty(strings.ToUpper(strings.TrimSpace(string(t.Difficulty))))
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	positive := map[string]float64{
		"tick_rate_hz":                 float64(t.TickRateHz),
		"time_scale":                   t.TimeScale,
		"max_step_seconds":             t.MaxStepSeconds,
		"world_bound":                  t.WorldBound,
		"player.speed":                 t.Player.Speed,
		"combat.attack_range":          t.Combat.AttackRange,
		"enemies.spawn_extent":         t.Enemies.SpawnExtent,
		"enemies.hit_interval_seconds": t.Enemies.HitIntervalSeconds,
		"enemies.state_timer_max":      t.Enemies.StateTimerMax,
		"quests.check_every_seconds":   t.Quests.CheckEverySeconds,
		"events.every_seconds":         t.Events.EverySeconds,
		"terrain.river_half_width":     t.Terrain.RiverHalfWidth,
	}
	for name, v := range positive {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be positive, got %v", name, v)
		}
	}
	if t.Enemies.MinCount <= 0 {
		return fmt.Errorf("enemies.min_count must be positive")
	}
	if t.Enemies.ExtraCount < 0 {
		return fmt.Errorf("enemies.extra_count must be >= 0")
	}
	if t.Enemies.StateTimerMin < 0 || t.Enemies.StateTimerMin > t.Enemies.StateTimerMax {
		return fmt.Errorf("enemies.state_timer_min must be in [0, state_timer_max]")
	}
	if t.Enemies.AttackRange >= t.Enemies.DetectRange {
		return fmt.Errorf("enemies.attack_range must be below detect_range")
	}
	if t.Quests.MaxActive < 0 {
		return fmt.Errorf("quests.max_active must be >= 0")
	}
	if !t.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", t.Difficulty)
	}
	return nil
}
