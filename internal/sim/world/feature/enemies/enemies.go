package enemies

import (
	"math"

	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world/kernel/model"
	"reckoning.game/internal/sim/world/logic/mathx"
	"reckoning.game/internal/sim/world/logic/rng"
)

// Ground returns the height an entity stands at for (x, z).
type Ground func(x, z float64) float64

type Config struct {
	MinCount      int
	ExtraCount    int
	SpawnExtent   float64
	WorldBound    float64
	DetectRange   float64
	AttackRange   float64
	HitInterval   float64
	WanderRadius  float64
	StateTimerMin float64
	StateTimerMax float64

	// Multiplier scales kind health and damage at spawn.
	Multiplier float64
}

func ConfigFromTuning(t tuning.Tuning) Config {
	return Config{
		MinCount:      t.Enemies.MinCount,
		ExtraCount:    t.Enemies.ExtraCount,
		SpawnExtent:   t.Enemies.SpawnExtent,
		WorldBound:    t.WorldBound,
		DetectRange:   t.Enemies.DetectRange,
		AttackRange:   t.Enemies.AttackRange,
		HitInterval:   t.Enemies.HitIntervalSeconds,
		WanderRadius:  t.Enemies.WanderRadius,
		StateTimerMin: t.Enemies.StateTimerMin,
		StateTimerMax: t.Enemies.StateTimerMax,
		Multiplier:    t.Difficulty.Multiplier(),
	}
}

// Spawn places the initial enemy population. It draws from its own stream
// keyed by seed so the layout does not depend on anything else in the session.
func Spawn(seed int32, kinds []catalogs.EnemyKind, ground Ground, cfg Config) []model.Enemy {
	if len(kinds) == 0 {
		return nil
	}
	r := rng.New(seed)
	count := cfg.MinCount + r.Int(cfg.ExtraCount)
	mult := cfg.Multiplier
	if !(mult > 0) || !mathx.Finite(mult) {
		mult = 1
	}
	out := make([]model.Enemy, 0, count)
	for i := 0; i < count; i++ {
		k := kinds[r.Int(len(kinds))]
		x := (r.Next() - 0.5) * cfg.SpawnExtent
		z := (r.Next() - 0.5) * cfg.SpawnExtent
		x = mathx.Clamp(x, -cfg.WorldBound, cfg.WorldBound)
		z = mathx.Clamp(z, -cfg.WorldBound, cfg.WorldBound)
		pos := model.Vec3{X: x, Y: ground(x, z), Z: z}
		hp := k.Health * mult
		out = append(out, model.Enemy{
			ID:         i,
			Kind:       k.ID,
			Pos:        pos,
			Speed:      k.Speed,
			Damage:     k.Damage * mult,
			XP:         k.XP,
			Health:     hp,
			MaxHealth:  hp,
			State:      model.EnemyWandering,
			Target:     pos,
			StateTimer: r.Next() * cfg.StateTimerMax,
		})
	}
	return out
}

// Update advances one enemy by dt and returns the damage it dealt to the
// player this step. Defeated enemies are left untouched.
func Update(e *model.Enemy, player model.Vec3, dt float64, r *rng.Rand, ground Ground, cfg Config) float64 {
	if e == nil || !e.Alive() {
		return 0
	}
	d := e.Pos.DistTo(player)
	e.StateTimer -= dt
	if e.AttackCooldown > 0 {
		e.AttackCooldown -= dt
	}

	switch {
	case d < cfg.AttackRange:
		e.State = model.EnemyAttacking
	case d < cfg.DetectRange:
		e.State = model.EnemyChasing
	case e.StateTimer <= 0:
		if e.State == model.EnemyIdle {
			e.State = model.EnemyWandering
		} else {
			e.State = model.EnemyIdle
		}
		e.StateTimer = r.InRange(cfg.StateTimerMin, cfg.StateTimerMax)
		if e.State == model.EnemyWandering {
			e.Target = model.Vec3{
				X: e.Pos.X + (r.Next()-0.5)*2*cfg.WanderRadius,
				Y: e.Pos.Y,
				Z: e.Pos.Z + (r.Next()-0.5)*2*cfg.WanderRadius,
			}
		}
	}

	switch e.State {
	case model.EnemyChasing:
		moveToward(e, player, dt, ground, cfg)
	case model.EnemyWandering:
		moveToward(e, e.Target, dt, ground, cfg)
	case model.EnemyAttacking:
		if e.AttackCooldown <= 0 {
			e.AttackCooldown = cfg.HitInterval
			return e.Damage
		}
	}
	return 0
}

func moveToward(e *model.Enemy, dst model.Vec3, dt float64, ground Ground, cfg Config) {
	dx, dz := e.Pos.DirXZ(dst)
	if dx == 0 && dz == 0 {
		return
	}
	step := e.Speed * dt
	if rem := math.Hypot(dst.X-e.Pos.X, dst.Z-e.Pos.Z); step > rem {
		step = rem
	}
	e.Pos.X = mathx.Clamp(e.Pos.X+dx*step, -cfg.WorldBound, cfg.WorldBound)
	e.Pos.Z = mathx.Clamp(e.Pos.Z+dz*step, -cfg.WorldBound, cfg.WorldBound)
	e.Pos.Y = ground(e.Pos.X, e.Pos.Z)
}

// Prune drops defeated enemies, keeping order.
func Prune(list []model.Enemy) []model.Enemy {
	out := list[:0]
	for _, e := range list {
		if e.Alive() {
			out = append(out, e)
		}
	}
	return out
}
