package world

import (
	"fmt"

	"reckoning.game/internal/persistence/snapshot"
	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world/feature/clock"
	"reckoning.game/internal/sim/world/feature/quests"
	"reckoning.game/internal/sim/world/feature/weather"
	"reckoning.game/internal/sim/world/kernel/model"
	"reckoning.game/internal/sim/world/logic/mathx"
	"reckoning.game/internal/sim/world/logic/rng"
	"reckoning.game/internal/sim/world/terrain/gen"
)

// ExportSave captures the full session, rng position included, so a world
// restored from it continues exactly as this one would.
func (w *World) ExportSave() snapshot.SaveV1 {
	p := w.player
	s := snapshot.SaveV1{
		Header:     snapshot.Header{Version: snapshot.Version, RunID: w.cfg.RunID, Tick: w.tick},
		Seed:       w.seed,
		Difficulty: string(w.tune.Difficulty),
		Phase:      string(w.phase),
		Biome:      string(w.biome),
		Player: snapshot.PlayerV1{
			Pos:        p.Pos.ToArray(),
			Health:     gaugeV1(p.Health),
			Stamina:    gaugeV1(p.Stamina),
			Gold:       p.Stats.Gold,
			Score:      p.Stats.Score,
			Level:      p.Stats.Level,
			Experience: p.Stats.Experience,
			ExpToNext:  p.Stats.ExpToNext,
			Mana:       p.Stats.Mana,
			MaxMana:    p.Stats.MaxMana,
		},
		World: snapshot.WorldV1{
			SimSeconds:       w.simSeconds,
			EnemiesDefeated:  w.enemiesDefeated,
			QuestsCompleted:  w.questsCompleted,
			DistanceTraveled: w.distanceTraveled,
			AttackCooldown:   w.attackCooldown,
			QuestTimer:       w.questTimer,
			EventTimer:       w.eventTimer,
			Anomalies:        w.anomalies,
		},
		Time: snapshot.TimeV1{Hour: w.clock.Hour, Day: w.clock.Day},
		Weather: snapshot.WeatherV1{
			Kind:      string(w.weather.Kind),
			Intensity: w.weather.Intensity,
			Remaining: w.weather.Remaining,
			WindSpeed: w.weather.WindSpeed,
			WindAngle: w.weather.WindAngle,
		},
		Quests:  make([]snapshot.QuestV1, 0, len(w.quests.Active)),
		Enemies: make([]snapshot.EnemyV1, 0, len(w.enemies)),
		RNG:     snapshot.RNGV1(w.rng.State()),
	}
	for _, q := range w.quests.Active {
		s.Quests = append(s.Quests, snapshot.QuestV1{
			ID:          q.ID,
			Kind:        string(q.Kind),
			Description: q.Description,
			Target:      q.Target,
			Current:     q.Current,
			RewardGold:  q.RewardGold,
			RewardXP:    q.RewardXP,
		})
	}
	for _, e := range w.enemies {
		s.Enemies = append(s.Enemies, snapshot.EnemyV1{
			ID:             e.ID,
			Kind:           e.Kind,
			Pos:            e.Pos.ToArray(),
			Speed:          e.Speed,
			Damage:         e.Damage,
			XP:             e.XP,
			Health:         e.Health,
			MaxHealth:      e.MaxHealth,
			State:          string(e.State),
			Target:         e.Target.ToArray(),
			StateTimer:     e.StateTimer,
			AttackCooldown: e.AttackCooldown,
		})
	}
	return s
}

func gaugeV1(g model.Gauge) snapshot.GaugeV1 {
	return snapshot.GaugeV1{Current: g.Current, Maximum: g.Maximum, RegenRate: g.RegenRate}
}

func gaugeFromV1(g snapshot.GaugeV1) model.Gauge {
	return model.Gauge{Current: g.Current, Maximum: g.Maximum, RegenRate: g.RegenRate}
}

// ImportSave replaces the session state with s. The save is validated in
// full first; on error the world is left untouched.
func (w *World) ImportSave(s snapshot.SaveV1) error {
	st, err := w.decodeSave(s)
	if err != nil {
		return &snapshot.DecodeError{Stage: "validate", Err: err}
	}
	w.apply(st)
	return nil
}

// restored is a fully decoded save, ready to swap in.
type restored struct {
	tick    uint64
	phase   Phase
	player  model.Player
	biome   gen.Biome
	clock   clock.TimeOfDay
	weather weather.State
	enemies []model.Enemy
	quests  quests.Log
	rng     *rng.Rand

	simSeconds       float64
	attackCooldown   float64
	questTimer       float64
	eventTimer       float64
	enemiesDefeated  int
	questsCompleted  int
	distanceTraveled float64
	anomalies        uint64
}

func (w *World) decodeSave(s snapshot.SaveV1) (restored, error) {
	var r restored
	if err := snapshot.Validate(s); err != nil {
		return r, err
	}
	if s.Seed != w.seed {
		return r, fmt.Errorf("seed %d does not match world seed %d", s.Seed, w.seed)
	}
	if tuning.Difficulty(s.Difficulty) != w.tune.Difficulty {
		return r, fmt.Errorf("difficulty %q does not match world difficulty %q", s.Difficulty, w.tune.Difficulty)
	}
	switch Phase(s.Phase) {
	case PhasePlaying, PhasePaused, PhaseDefeated:
		r.phase = Phase(s.Phase)
	default:
		return r, fmt.Errorf("unknown phase %q", s.Phase)
	}
	if !weather.Valid(weather.Kind(s.Weather.Kind)) {
		return r, fmt.Errorf("unknown weather %q", s.Weather.Kind)
	}
	if !validBiome(gen.Biome(s.Biome)) {
		return r, fmt.Errorf("unknown biome %q", s.Biome)
	}
	if (r.phase == PhaseDefeated) != (s.Player.Health.Current <= 0) {
		return r, fmt.Errorf("phase %s inconsistent with health %v", s.Phase, s.Player.Health.Current)
	}

	var corrected uint64
	p := s.Player
	r.player = model.Player{
		Pos:     w.clampToWorld(model.Vec3FromArray(p.Pos), &corrected),
		Health:  gaugeFromV1(p.Health),
		Stamina: gaugeFromV1(p.Stamina),
		Stats: model.PlayerStats{
			Gold:       p.Gold,
			Score:      p.Score,
			Level:      p.Level,
			Experience: p.Experience,
			ExpToNext:  p.ExpToNext,
			Mana:       p.Mana,
			MaxMana:    p.MaxMana,
		},
	}
	for _, qv := range s.Quests {
		kind := model.QuestKind(qv.Kind)
		if !validQuestKind(kind) {
			return r, fmt.Errorf("quest %s: unknown kind %q", qv.ID, qv.Kind)
		}
		q := model.Quest{
			ID:          qv.ID,
			Kind:        kind,
			Description: qv.Description,
			Target:      qv.Target,
			Current:     qv.Current,
			RewardGold:  qv.RewardGold,
			RewardXP:    qv.RewardXP,
		}
		if err := r.quests.Add(q); err != nil {
			return r, err
		}
	}
	r.enemies = make([]model.Enemy, 0, len(s.Enemies))
	for _, ev := range s.Enemies {
		if _, ok := w.catalogs.Enemies.ByID[ev.Kind]; !ok {
			return r, fmt.Errorf("enemy %d: unknown kind %q", ev.ID, ev.Kind)
		}
		state := model.EnemyState(ev.State)
		switch state {
		case model.EnemyIdle, model.EnemyWandering, model.EnemyChasing, model.EnemyAttacking:
		default:
			return r, fmt.Errorf("enemy %d: unknown state %q", ev.ID, ev.State)
		}
		r.enemies = append(r.enemies, model.Enemy{
			ID:             ev.ID,
			Kind:           ev.Kind,
			Pos:            w.clampToWorld(model.Vec3FromArray(ev.Pos), &corrected),
			Speed:          ev.Speed,
			Damage:         ev.Damage,
			XP:             ev.XP,
			Health:         ev.Health,
			MaxHealth:      ev.MaxHealth,
			State:          state,
			Target:         model.Vec3FromArray(ev.Target),
			StateTimer:     ev.StateTimer,
			AttackCooldown: ev.AttackCooldown,
		})
	}

	r.tick = s.Header.Tick
	r.biome = gen.Biome(s.Biome)
	r.clock = clock.TimeOfDay{Hour: s.Time.Hour, Day: s.Time.Day}
	r.weather = weather.State{
		Kind:      weather.Kind(s.Weather.Kind),
		Intensity: s.Weather.Intensity,
		Remaining: s.Weather.Remaining,
		WindSpeed: s.Weather.WindSpeed,
		WindAngle: s.Weather.WindAngle,
	}
	r.rng = rng.Restore(rng.State(s.RNG))
	r.simSeconds = s.World.SimSeconds
	r.attackCooldown = s.World.AttackCooldown
	r.questTimer = s.World.QuestTimer
	r.eventTimer = s.World.EventTimer
	r.enemiesDefeated = s.World.EnemiesDefeated
	r.questsCompleted = s.World.QuestsCompleted
	r.distanceTraveled = s.World.DistanceTraveled
	r.anomalies = s.World.Anomalies + corrected
	return r, nil
}

// clampToWorld pulls an out-of-bounds position back inside the world and
// onto the terrain. Positions already inside are returned untouched.
func (w *World) clampToWorld(v model.Vec3, corrected *uint64) model.Vec3 {
	bound := w.tune.WorldBound
	x := mathx.Clamp(v.X, -bound, bound)
	z := mathx.Clamp(v.Z, -bound, bound)
	if x == v.X && z == v.Z {
		return v
	}
	*corrected++
	return model.Vec3{X: x, Y: w.terrain.SurfaceY(x, z), Z: z}
}

func (w *World) apply(r restored) {
	w.tick = r.tick
	w.phase = r.phase
	w.player = r.player
	w.biome = r.biome
	w.clock = r.clock
	w.weather = r.weather
	w.enemies = r.enemies
	w.quests = r.quests
	w.rng = r.rng
	w.simSeconds = r.simSeconds
	w.attackCooldown = r.attackCooldown
	w.questTimer = r.questTimer
	w.eventTimer = r.eventTimer
	w.enemiesDefeated = r.enemiesDefeated
	w.questsCompleted = r.questsCompleted
	w.distanceTraveled = r.distanceTraveled
	w.anomalies = r.anomalies
	w.events = w.events[:0]
	w.currentTick.Store(w.tick)
	w.publishMetrics()
}

// Restore builds a world from a save under the given tuning and catalogs.
func Restore(cfg WorldConfig, cats *catalogs.Catalogs, s snapshot.SaveV1) (*World, error) {
	cfg.Seed = int64(s.Seed)
	if cfg.RunID == "" {
		cfg.RunID = s.Header.RunID
	}
	if d := tuning.Difficulty(s.Difficulty); d.Valid() {
		cfg.Tuning.Difficulty = d
	}
	w, err := New(cfg, cats)
	if err != nil {
		return nil, err
	}
	if err := w.ImportSave(s); err != nil {
		return nil, err
	}
	return w, nil
}

func validBiome(b gen.Biome) bool {
	for _, v := range gen.Biomes {
		if v == b {
			return true
		}
	}
	return false
}

func validQuestKind(k model.QuestKind) bool {
	for _, v := range model.QuestKinds {
		if v == k {
			return true
		}
	}
	return false
}
