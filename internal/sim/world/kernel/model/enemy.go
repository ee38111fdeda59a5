package model

type EnemyState string

const (
	EnemyIdle      EnemyState = "IDLE"
	EnemyWandering EnemyState = "WANDERING"
	EnemyChasing   EnemyState = "CHASING"
	EnemyAttacking EnemyState = "ATTACKING"
)

// Enemy is one hostile entity. Kind stats are copied in at spawn (after the
// difficulty multiplier) so the enemy is self-contained in saves.
type Enemy struct {
	ID     int     `json:"id"`
	Kind   string  `json:"kind"`
	Pos    Vec3    `json:"pos"`
	Speed  float64 `json:"speed"`
	Damage float64 `json:"damage"`
	XP     int     `json:"xp"`

	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`

	State          EnemyState `json:"state"`
	Target         Vec3       `json:"target"`
	StateTimer     float64    `json:"state_timer"`
	AttackCooldown float64    `json:"attack_cooldown"`

	// Rewarded is set once the defeat reward has been paid out.
	Rewarded bool `json:"rewarded"`
}

func (e *Enemy) Alive() bool { return e.Health > 0 }
