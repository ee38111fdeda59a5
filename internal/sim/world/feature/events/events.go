package events

import (
	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/world/logic/rng"
)

// Target is the slice of world state an event may touch.
type Target interface {
	Gold() int
	AddGold(amount int)
	LoseGold(amount int)
	Heal(amount float64)
	ForceWeather(kind string)
}

// Outcome records what an applied event did.
type Outcome struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Effect  catalogs.EffectKind `json:"effect"`
	Amount  int                 `json:"amount,omitempty"`
	Weather string              `json:"weather,omitempty"`
}

// Roll draws once and walks the table by cumulative chance. Unclaimed mass
// means no event.
func Roll(defs []catalogs.EventDef, r *rng.Rand) (catalogs.EventDef, bool) {
	roll := r.Next()
	cum := 0.0
	for _, d := range defs {
		cum += d.Chance
		if roll < cum {
			return d, true
		}
	}
	return catalogs.EventDef{}, false
}

func Apply(d catalogs.EventDef, t Target, r *rng.Rand) Outcome {
	out := Outcome{ID: d.ID, Name: d.Name, Effect: d.Effect}
	switch d.Effect {
	case catalogs.EffectAddGold:
		out.Amount = d.Min + r.Int(d.Spread)
		t.AddGold(out.Amount)
	case catalogs.EffectLoseGold:
		loss := d.Min + r.Int(d.Spread)
		if g := t.Gold(); loss > g {
			loss = g
		}
		if loss < 0 {
			loss = 0
		}
		out.Amount = loss
		t.LoseGold(loss)
	case catalogs.EffectHeal:
		out.Amount = d.Amount
		t.Heal(float64(d.Amount))
	case catalogs.EffectForceWeather:
		out.Weather = d.Weather
		t.ForceWeather(d.Weather)
	}
	return out
}
