package combat

import (
	"math"

	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world/kernel/model"
)

type Resolver struct {
	BaseDamage float64
	LevelBonus float64
	Range      float64
}

func NewResolver(t tuning.Tuning) Resolver {
	return Resolver{
		BaseDamage: t.Combat.BaseDamage,
		LevelBonus: t.Combat.LevelBonus,
		Range:      t.Combat.AttackRange,
	}
}

// AttackCommand is a resolved player attack. The world applies it to the
// enemy with TargetID.
type AttackCommand struct {
	TargetID int
	Damage   float64
}

// Reward is paid exactly once per defeated enemy.
type Reward struct {
	XP   int
	Gold int
}

func (r Resolver) Damage(level int) float64 {
	return r.BaseDamage + float64(level)*r.LevelBonus
}

// Attack picks the nearest living enemy within range. Ties go to the lower
// index so the choice is stable.
func (r Resolver) Attack(player model.Vec3, level int, enemies []model.Enemy) (AttackCommand, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i := range enemies {
		e := &enemies[i]
		if !e.Alive() {
			continue
		}
		d := e.Pos.DistTo(player)
		if d > r.Range || d >= bestDist {
			continue
		}
		best, bestDist = i, d
	}
	if best < 0 {
		return AttackCommand{}, false
	}
	return AttackCommand{TargetID: enemies[best].ID, Damage: r.Damage(level)}, true
}

// DamageEnemy applies amount to e. The reward is returned only on the call
// that defeats it; later calls change nothing.
func DamageEnemy(e *model.Enemy, amount float64) (Reward, bool) {
	if e == nil || !e.Alive() || e.Rewarded {
		return Reward{}, false
	}
	if !(amount > 0) || math.IsInf(amount, 0) {
		return Reward{}, false
	}
	e.Health -= amount
	if e.Health > 0 {
		return Reward{}, false
	}
	e.Health = 0
	e.Rewarded = true
	return Reward{XP: e.XP, Gold: e.XP / 2}, true
}

// DamagePlayer clamps health at zero and reports true only on the hit that
// takes it from positive to zero.
func DamagePlayer(h *model.Gauge, amount float64) bool {
	if h == nil || !(amount > 0) || math.IsInf(amount, 0) {
		return false
	}
	if h.Current <= 0 {
		return false
	}
	h.Add(-amount)
	return h.Current <= 0
}

// GainExperience adds XP and applies every level-up it pays for. It returns
// the number of levels gained.
func GainExperience(s *model.PlayerStats, amount int) int {
	if amount <= 0 {
		return 0
	}
	s.Experience += amount
	gained := 0
	for s.ExpToNext > 0 && s.Experience >= s.ExpToNext {
		s.Experience -= s.ExpToNext
		s.Level++
		next := int(math.Floor(float64(s.ExpToNext) * 1.5))
		if next <= s.ExpToNext {
			next = s.ExpToNext + 1
		}
		s.ExpToNext = next
		gained++
	}
	return gained
}
