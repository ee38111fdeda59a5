package world

import (
	"math"
	"strconv"

	"reckoning.game/internal/sim/world/feature/clock"
	"reckoning.game/internal/sim/world/feature/combat"
	"reckoning.game/internal/sim/world/feature/enemies"
	"reckoning.game/internal/sim/world/feature/events"
	"reckoning.game/internal/sim/world/feature/quests"
	"reckoning.game/internal/sim/world/feature/weather"
	"reckoning.game/internal/sim/world/kernel/model"
	"reckoning.game/internal/sim/world/logic/mathx"
)

const enemyDefeatScore = 10

// Tick advances the world by dt seconds under in and returns the resulting
// snapshot. Bad deltas and inputs are clamped and counted, never returned.
// Paused and defeated worlds do not advance.
func (w *World) Tick(dt float64, in Input) Snapshot {
	w.events = w.events[:0]
	if w.phase != PhasePlaying {
		return w.Snapshot()
	}
	before := w.anomalies
	dt = w.sanitizeDelta(dt)
	in = w.sanitizeInput(in)

	w.stepSystems(dt, in)

	nowTick := w.tick
	w.tick++
	w.currentTick.Store(w.tick)
	digest := w.stateDigest()
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{Tick: nowTick, DT: dt, Input: in, Anomalies: w.anomalies - before, Digest: digest})
	}
	if w.eventLogger != nil {
		for _, ev := range w.events {
			_ = w.eventLogger.WriteEvent(ev)
		}
	}
	w.maybeEmitSave()
	w.publishMetrics()
	return w.snapshotWithDigest(digest)
}

func (w *World) sanitizeDelta(dt float64) float64 {
	switch {
	case !mathx.Finite(dt) || dt < 0:
		w.anomalies++
		return 0
	case dt > w.tune.MaxStepSeconds:
		w.anomalies++
		return w.tune.MaxStepSeconds
	}
	return dt
}

func (w *World) sanitizeInput(in Input) Input {
	if !mathx.Finite(in.MoveX) || !mathx.Finite(in.MoveZ) {
		w.anomalies++
		in.MoveX, in.MoveZ = 0, 0
	}
	// Already-normalized vectors may exceed 1 by an ulp; leave those alone so
	// replaying a logged input reproduces it exactly.
	if l := math.Hypot(in.MoveX, in.MoveZ); l > 1+1e-9 {
		in.MoveX /= l
		in.MoveZ /= l
	}
	return in
}

// stepSystems runs one step in fixed order:
// clock -> weather -> player -> enemies -> combat -> cleanup -> quests -> events.
func (w *World) stepSystems(dt float64, in Input) {
	w.simSeconds += dt
	w.systemClock(dt)
	w.systemWeather(dt)
	w.systemPlayer(dt, in)
	w.systemEnemies(dt)
	if w.phase == PhasePlaying {
		w.systemCombat(dt, in)
	}
	w.enemies = enemies.Prune(w.enemies)
	if w.phase == PhasePlaying {
		w.systemQuests(dt)
		w.systemEvents(dt)
	}
}

func (w *World) systemClock(dt float64) {
	prevDay := w.clock.Day
	w.clock = clock.Advance(w.clock, dt, w.tune.TimeScale)
	if w.clock.Day != prevDay {
		w.emit(EventDayStarted, "", float64(w.clock.Day), "")
	}
}

func (w *World) systemWeather(dt float64) {
	next, changed := weather.Step(w.weather, dt, w.rng)
	w.weather = next
	if changed {
		w.emit(EventWeatherChanged, "", next.Intensity, string(next.Kind))
	}
}

func (w *World) systemPlayer(dt float64, in Input) {
	p := &w.player
	if in.MoveX != 0 || in.MoveZ != 0 {
		step := w.tune.Player.Speed * dt
		bound := w.tune.WorldBound
		x := mathx.Clamp(p.Pos.X+in.MoveX*step, -bound, bound)
		z := mathx.Clamp(p.Pos.Z+in.MoveZ*step, -bound, bound)
		moved := math.Hypot(x-p.Pos.X, z-p.Pos.Z)
		p.Pos.X, p.Pos.Z = x, z
		p.Pos.Y = w.terrain.SurfaceY(x, z)
		if moved > 0 {
			w.distanceTraveled += moved
			w.progressQuests(model.QuestTravelDistance, moved)
		}
	}
	p.Health.Regen(dt)
	p.Stamina.Regen(dt)

	if b := w.terrain.BiomeAt(p.Pos.X, p.Pos.Z); b != w.biome {
		w.biome = b
		w.emit(EventBiomeChanged, "", 0, string(b))
	}
}

func (w *World) systemEnemies(dt float64) {
	for i := range w.enemies {
		e := &w.enemies[i]
		dmg := enemies.Update(e, w.player.Pos, dt, w.rng, w.terrain.SurfaceY, w.enemyCfg)
		if dmg > 0 {
			w.damagePlayer(dmg, enemySubject(e.ID))
		}
		if w.phase == PhaseDefeated {
			return
		}
	}
}

// damagePlayer reports the health actually lost, which is less than amount
// when the hit overkills.
func (w *World) damagePlayer(amount float64, source string) {
	before := w.player.Health.Current
	defeated := combat.DamagePlayer(&w.player.Health, amount)
	lost := before - w.player.Health.Current
	if lost <= 0 {
		return
	}
	w.emit(EventPlayerDamaged, source, lost, "")
	if defeated {
		w.phase = PhaseDefeated
		w.emit(EventPlayerDefeated, source, 0, "")
	}
}

func (w *World) systemCombat(dt float64, in Input) {
	if w.attackCooldown > 0 {
		w.attackCooldown = math.Max(0, w.attackCooldown-dt)
	}
	if !in.Attack || w.attackCooldown > 0 {
		return
	}
	w.attackCooldown = w.tune.Player.AttackCooldownSeconds
	cmd, ok := w.resolver.Attack(w.player.Pos, w.player.Stats.Level, w.enemies)
	if !ok {
		return
	}
	w.applyAttack(cmd)
}

// applyAttack resolves an AttackCommand against the enemy set.
func (w *World) applyAttack(cmd combat.AttackCommand) {
	for i := range w.enemies {
		e := &w.enemies[i]
		if e.ID != cmd.TargetID {
			continue
		}
		reward, defeated := combat.DamageEnemy(e, cmd.Damage)
		w.emit(EventEnemyDamaged, enemySubject(e.ID), cmd.Damage, e.Kind)
		if defeated {
			w.onEnemyDefeated(e, reward)
		}
		return
	}
}

func (w *World) onEnemyDefeated(e *model.Enemy, reward combat.Reward) {
	w.enemiesDefeated++
	w.player.Stats.Score += enemyDefeatScore
	w.emit(EventEnemyDefeated, enemySubject(e.ID), float64(reward.XP), e.Kind)
	w.addGold(reward.Gold)
	w.gainExperience(reward.XP)
	w.progressQuests(model.QuestDefeatEnemies, 1)
}

func (w *World) systemQuests(dt float64) {
	w.questTimer += dt
	every := w.tune.Quests.CheckEverySeconds
	if w.questTimer < every {
		return
	}
	w.questTimer -= every
	if w.quests.Len() >= w.tune.Quests.MaxActive {
		return
	}
	q := quests.Generate(w.player.Stats.Level, int32(w.rng.Int(math.MaxInt32)))
	if err := w.quests.Add(q); err != nil {
		return
	}
	w.emit(EventQuestStarted, q.ID, float64(q.Target), q.Description)
}

// progressQuests credits gameplay toward active quests and pays out the
// ones that complete.
func (w *World) progressQuests(kind model.QuestKind, amount float64) {
	for _, q := range w.quests.Progress(kind, amount) {
		w.questsCompleted++
		w.emit(EventQuestCompleted, q.ID, float64(q.RewardGold), q.Description)
		w.addGold(q.RewardGold)
		w.gainExperience(q.RewardXP)
	}
}

func (w *World) systemEvents(dt float64) {
	w.eventTimer += dt
	every := w.tune.Events.EverySeconds
	if w.eventTimer < every {
		return
	}
	w.eventTimer -= every
	def, ok := events.Roll(w.catalogs.Events.Events, w.rng)
	if !ok {
		return
	}
	out := events.Apply(def, eventTarget{w}, w.rng)
	w.emit(EventRandom, out.ID, float64(out.Amount), string(out.Effect))
}

func (w *World) addGold(amount int) {
	if amount <= 0 {
		return
	}
	w.player.Stats.Gold += amount
	w.player.Stats.Score += amount
	w.progressQuests(model.QuestCollectGold, float64(amount))
}

func (w *World) gainExperience(amount int) {
	levels := combat.GainExperience(&w.player.Stats, amount)
	if levels == 0 {
		return
	}
	w.player.Health.Maximum = model.MaxHealthForLevel(w.player.Stats.Level)
	w.emit(EventLevelUp, "", float64(w.player.Stats.Level), "")
}

// eventTarget is the world as seen by random events.
type eventTarget struct{ w *World }

func (t eventTarget) Gold() int          { return t.w.player.Stats.Gold }
func (t eventTarget) AddGold(amount int) { t.w.addGold(amount) }
func (t eventTarget) Heal(amount float64) {
	t.w.player.Health.Add(amount)
}

// LoseGold takes gold only. Score is a running total of gold earned and
// keeps what a bandit steals.
func (t eventTarget) LoseGold(amount int) {
	g := &t.w.player.Stats.Gold
	*g -= amount
	if *g < 0 {
		*g = 0
	}
}

// ForceWeather sets the named kind, so sudden_storm always brings STORM.
// An unknown kind falls back to a random transition.
func (t eventTarget) ForceWeather(kind string) {
	k := weather.Kind(kind)
	if weather.Valid(k) {
		t.w.weather = weather.Force(t.w.rng, k)
	} else {
		t.w.weather = weather.Transition(t.w.rng)
	}
	t.w.emit(EventWeatherChanged, "", t.w.weather.Intensity, string(t.w.weather.Kind))
}

func enemySubject(id int) string { return "E" + strconv.Itoa(id) }

var _ events.Target = eventTarget{}
