package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Catalogs is the static content a world is built from. Order inside each
// catalog is significant: spawning indexes enemy kinds by position and the
// random-event walk accumulates chances in file order.
type Catalogs struct {
	Enemies EnemyCatalog
	Events  EventCatalog
}

type EnemyCatalog struct {
	Kinds  []EnemyKind
	ByID   map[string]EnemyKind
	Digest string
}

type EnemyKind struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Speed  float64 `json:"speed"`
	Damage float64 `json:"damage"`
	Health float64 `json:"health"`
	XP     int     `json:"xp"`
}

type EventCatalog struct {
	Events []EventDef
	ByID   map[string]EventDef
	Digest string
}

type EffectKind string

const (
	EffectAddGold      EffectKind = "ADD_GOLD"
	EffectLoseGold     EffectKind = "LOSE_GOLD"
	EffectHeal         EffectKind = "HEAL"
	EffectForceWeather EffectKind = "FORCE_WEATHER"
)

type EventDef struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Chance      float64    `json:"chance"`
	Effect      EffectKind `json:"effect"`

	// Amount for HEAL; [Min, Min+Spread) for gold effects.
	Amount  int    `json:"amount,omitempty"`
	Min     int    `json:"min,omitempty"`
	Spread  int    `json:"spread,omitempty"`
	Weather string `json:"weather,omitempty"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadEnemies(filepath.Join(configDir, "enemies.json"), &c.Enemies); err != nil {
		return nil, err
	}
	if err := loadEvents(filepath.Join(configDir, "events.json"), &c.Events); err != nil {
		return nil, err
	}
	return &c, nil
}

// Defaults returns the built-in content, identical to configs/*.json.
func Defaults() *Catalogs {
	var c Catalogs
	raw, _ := json.Marshal(defaultEnemies)
	_ = indexEnemies(raw, defaultEnemies, &c.Enemies)
	raw, _ = json.Marshal(defaultEvents)
	_ = indexEvents(raw, defaultEvents, &c.Events)
	return &c
}

var defaultEnemies = []EnemyKind{
	{ID: "SLIME", Name: "Slime", Speed: 2, Damage: 5, Health: 20, XP: 10},
	{ID: "GOBLIN", Name: "Goblin", Speed: 4, Damage: 8, Health: 30, XP: 20},
	{ID: "ORC", Name: "Orc", Speed: 3, Damage: 15, Health: 50, XP: 35},
	{ID: "WRAITH", Name: "Wraith", Speed: 5, Damage: 12, Health: 25, XP: 30},
	{ID: "WOLF", Name: "Wolf", Speed: 6, Damage: 10, Health: 35, XP: 25},
}

// sudden_storm pins STORM rather than drawing a random change. Bandit losses
// lower gold but not score.
var defaultEvents = []EventDef{
	{ID: "gold_find", Name: "Lucky Find", Description: "You found some gold on the ground!", Chance: 0.05, Effect: EffectAddGold, Min: 10, Spread: 50},
	{ID: "health_shrine", Name: "Ancient Shrine", Description: "You feel a surge of vitality.", Chance: 0.03, Effect: EffectHeal, Amount: 30},
	{ID: "sudden_storm", Name: "Sudden Storm", Description: "The weather turns for the worse!", Chance: 0.02, Effect: EffectForceWeather, Weather: "STORM"},
	{ID: "bandit_ambush", Name: "Bandit Ambush", Description: "Bandits stole some of your gold!", Chance: 0.02, Effect: EffectLoseGold, Min: 20, Spread: 30},
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadEnemies(path string, out *EnemyCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var kinds []EnemyKind
	if err := json.Unmarshal(raw, &kinds); err != nil {
		return fmt.Errorf("enemies.json: %w", err)
	}
	if err := indexEnemies(raw, kinds, out); err != nil {
		return fmt.Errorf("enemies.json: %w", err)
	}
	return nil
}

func indexEnemies(raw []byte, kinds []EnemyKind, out *EnemyCatalog) error {
	if len(kinds) == 0 {
		return fmt.Errorf("no enemy kinds")
	}
	out.Kinds = kinds
	out.ByID = make(map[string]EnemyKind, len(kinds))
	for _, k := range kinds {
		if k.ID == "" {
			return fmt.Errorf("empty id")
		}
		if _, dup := out.ByID[k.ID]; dup {
			return fmt.Errorf("duplicate id %s", k.ID)
		}
		if k.Health <= 0 || k.Speed < 0 || k.Damage < 0 || k.XP < 0 {
			return fmt.Errorf("%s: invalid stats", k.ID)
		}
		out.ByID[k.ID] = k
	}
	out.Digest = sha256Hex(raw)
	return nil
}

func loadEvents(path string, out *EventCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		// Allow missing: a world without random events is valid.
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			out.ByID = map[string]EventDef{}
			return nil
		}
		return err
	}
	var defs []EventDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("events.json: %w", err)
	}
	if err := indexEvents(raw, defs, out); err != nil {
		return fmt.Errorf("events.json: %w", err)
	}
	return nil
}

func indexEvents(raw []byte, defs []EventDef, out *EventCatalog) error {
	out.Events = defs
	out.ByID = make(map[string]EventDef, len(defs))
	var total float64
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("empty id")
		}
		if _, dup := out.ByID[d.ID]; dup {
			return fmt.Errorf("duplicate id %s", d.ID)
		}
		if d.Chance < 0 || d.Chance > 1 {
			return fmt.Errorf("%s: chance %v outside [0,1]", d.ID, d.Chance)
		}
		switch d.Effect {
		case EffectAddGold, EffectLoseGold, EffectHeal, EffectForceWeather:
		default:
			return fmt.Errorf("%s: unknown effect %q", d.ID, d.Effect)
		}
		total += d.Chance
		out.ByID[d.ID] = d
	}
	if total > 1+1e-9 {
		return fmt.Errorf("chances sum to %v (> 1)", total)
	}
	out.Digest = sha256Hex(raw)
	return nil
}
