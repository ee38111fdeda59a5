package model

// Gauge is a bounded, regenerating resource (health, stamina).
// Invariant: 0 <= Current <= Maximum.
type Gauge struct {
	Current   float64 `json:"current"`
	Maximum   float64 `json:"maximum"`
	RegenRate float64 `json:"regen_rate"`
}

func (g *Gauge) Add(amount float64) {
	g.Current += amount
	if g.Current > g.Maximum {
		g.Current = g.Maximum
	}
	if g.Current < 0 {
		g.Current = 0
	}
}

func (g *Gauge) Regen(dt float64) {
	if g.Current <= 0 {
		return
	}
	g.Add(g.RegenRate * dt)
}

type PlayerStats struct {
	Gold       int `json:"gold"`
	Score      int `json:"score"`
	Level      int `json:"level"`
	Experience int `json:"experience"`
	ExpToNext  int `json:"exp_to_next"`
	Mana       int `json:"mana"`
	MaxMana    int `json:"max_mana"`
}

type Player struct {
	Pos     Vec3        `json:"pos"`
	Health  Gauge       `json:"health"`
	Stamina Gauge       `json:"stamina"`
	Stats   PlayerStats `json:"stats"`
}

const (
	BaseMaxHealth      = 100
	MaxHealthPerLevel  = 10
	InitialExpToNext   = 100
	HealthRegenPerSec  = 0.5
	StaminaRegenPerSec = 10
	InitialMana        = 50
)

func NewPlayer() Player {
	return Player{
		Health:  Gauge{Current: BaseMaxHealth, Maximum: BaseMaxHealth, RegenRate: HealthRegenPerSec},
		Stamina: Gauge{Current: 100, Maximum: 100, RegenRate: StaminaRegenPerSec},
		Stats: PlayerStats{
			Level:     1,
			ExpToNext: InitialExpToNext,
			Mana:      InitialMana,
			MaxMana:   InitialMana,
		},
	}
}

// MaxHealthForLevel is the health ceiling at the given level.
func MaxHealthForLevel(level int) float64 {
	if level < 1 {
		level = 1
	}
	return float64(BaseMaxHealth + (level-1)*MaxHealthPerLevel)
}
