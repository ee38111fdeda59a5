package world

import (
	"reckoning.game/internal/sim/world/feature/clock"
	"reckoning.game/internal/sim/world/feature/weather"
	"reckoning.game/internal/sim/world/kernel/model"
	"reckoning.game/internal/sim/world/terrain/gen"
)

// Snapshot is a read-only copy of the world after a tick. It shares no
// memory with the world.
type Snapshot struct {
	Tick       uint64 `json:"tick"`
	Digest     string `json:"digest"`
	Phase      Phase  `json:"phase"`
	Seed       int32  `json:"seed"`
	Difficulty string `json:"difficulty"`

	Player   model.Player    `json:"player"`
	Biome    gen.Biome       `json:"biome"`
	Time     clock.TimeOfDay `json:"time"`
	DayPhase clock.Phase     `json:"day_phase"`
	Weather  weather.State   `json:"weather"`
	Enemies  []model.Enemy   `json:"enemies"`
	Quests   []model.Quest   `json:"quests"`

	EnemiesDefeated  int     `json:"enemies_defeated"`
	QuestsCompleted  int     `json:"quests_completed"`
	DistanceTraveled float64 `json:"distance_traveled"`
	SimSeconds       float64 `json:"sim_seconds"`
	AttackCooldown   float64 `json:"attack_cooldown"`

	// Anomalies counts clamped deltas and discarded inputs.
	Anomalies uint64 `json:"anomalies"`

	Events []GameEvent `json:"events,omitempty"`
}

func (w *World) Snapshot() Snapshot { return w.snapshotWithDigest(w.stateDigest()) }

func (w *World) snapshotWithDigest(digest string) Snapshot {
	return Snapshot{
		Tick:             w.tick,
		Digest:           digest,
		Phase:            w.phase,
		Seed:             w.seed,
		Difficulty:       string(w.tune.Difficulty),
		Player:           w.player,
		Biome:            w.biome,
		Time:             w.clock,
		DayPhase:         w.clock.Phase(),
		Weather:          w.weather,
		Enemies:          append([]model.Enemy(nil), w.enemies...),
		Quests:           append([]model.Quest(nil), w.quests.Active...),
		EnemiesDefeated:  w.enemiesDefeated,
		QuestsCompleted:  w.questsCompleted,
		DistanceTraveled: w.distanceTraveled,
		SimSeconds:       w.simSeconds,
		AttackCooldown:   w.attackCooldown,
		Anomalies:        w.anomalies,
		Events:           append([]GameEvent(nil), w.events...),
	}
}
