package world

import (
	"crypto/sha256"
	"encoding/hex"

	dc "reckoning.game/internal/sim/world/io/digestcodec"
	"reckoning.game/internal/sim/world/kernel/model"
)

// StateDigest hashes the complete simulation state, rng position included.
// Two worlds with equal digests evolve identically under equal input.
func (w *World) StateDigest() string { return w.stateDigest() }

func (w *World) stateDigest() string {
	h := sha256.New()
	var tmp [8]byte

	w.digestHeader(h, &tmp)
	w.digestPlayer(h, &tmp)
	w.digestEnvironment(h, &tmp)
	w.digestEnemies(h, &tmp)
	w.digestQuests(h, &tmp)

	return hex.EncodeToString(h.Sum(nil))
}

func (w *World) digestHeader(h dc.Writer, tmp *[8]byte) {
	dc.WriteU64(h, tmp, w.tick)
	dc.WriteI64(h, tmp, int64(w.seed))
	dc.WriteString(h, tmp, string(w.phase))
	dc.WriteString(h, tmp, string(w.tune.Difficulty))
	st := w.rng.State()
	dc.WriteU64(h, tmp, st.Calls)
	dc.WriteF64(h, tmp, w.simSeconds)
	dc.WriteF64(h, tmp, w.attackCooldown)
	dc.WriteF64(h, tmp, w.questTimer)
	dc.WriteF64(h, tmp, w.eventTimer)
	dc.WriteU64(h, tmp, uint64(w.enemiesDefeated))
	dc.WriteU64(h, tmp, uint64(w.questsCompleted))
	dc.WriteF64(h, tmp, w.distanceTraveled)
	dc.WriteU64(h, tmp, w.anomalies)
}

func (w *World) digestPlayer(h dc.Writer, tmp *[8]byte) {
	p := w.player
	digestVec(h, tmp, p.Pos)
	for _, g := range []model.Gauge{p.Health, p.Stamina} {
		dc.WriteF64(h, tmp, g.Current)
		dc.WriteF64(h, tmp, g.Maximum)
		dc.WriteF64(h, tmp, g.RegenRate)
	}
	s := p.Stats
	for _, v := range []int{s.Gold, s.Score, s.Level, s.Experience, s.ExpToNext, s.Mana, s.MaxMana} {
		dc.WriteI64(h, tmp, int64(v))
	}
	dc.WriteString(h, tmp, string(w.biome))
}

func (w *World) digestEnvironment(h dc.Writer, tmp *[8]byte) {
	dc.WriteF64(h, tmp, w.clock.Hour)
	dc.WriteU64(h, tmp, uint64(w.clock.Day))
	wt := w.weather
	dc.WriteString(h, tmp, string(wt.Kind))
	dc.WriteF64(h, tmp, wt.Intensity)
	dc.WriteF64(h, tmp, wt.Remaining)
	dc.WriteF64(h, tmp, wt.WindSpeed)
	dc.WriteF64(h, tmp, wt.WindAngle)
}

func (w *World) digestEnemies(h dc.Writer, tmp *[8]byte) {
	dc.WriteU64(h, tmp, uint64(len(w.enemies)))
	for _, e := range w.enemies {
		dc.WriteI64(h, tmp, int64(e.ID))
		dc.WriteString(h, tmp, e.Kind)
		digestVec(h, tmp, e.Pos)
		dc.WriteF64(h, tmp, e.Speed)
		dc.WriteF64(h, tmp, e.Damage)
		dc.WriteI64(h, tmp, int64(e.XP))
		dc.WriteF64(h, tmp, e.Health)
		dc.WriteF64(h, tmp, e.MaxHealth)
		dc.WriteString(h, tmp, string(e.State))
		digestVec(h, tmp, e.Target)
		dc.WriteF64(h, tmp, e.StateTimer)
		dc.WriteF64(h, tmp, e.AttackCooldown)
		dc.WriteBool(h, e.Rewarded)
	}
}

func (w *World) digestQuests(h dc.Writer, tmp *[8]byte) {
	dc.WriteU64(h, tmp, uint64(len(w.quests.Active)))
	for _, q := range w.quests.Active {
		dc.WriteString(h, tmp, q.ID)
		dc.WriteString(h, tmp, string(q.Kind))
		dc.WriteI64(h, tmp, int64(q.Target))
		dc.WriteF64(h, tmp, q.Current)
		dc.WriteI64(h, tmp, int64(q.RewardGold))
		dc.WriteI64(h, tmp, int64(q.RewardXP))
		dc.WriteBool(h, q.Completed)
	}
}

func digestVec(h dc.Writer, tmp *[8]byte, v model.Vec3) {
	dc.WriteF64(h, tmp, v.X)
	dc.WriteF64(h, tmp, v.Y)
	dc.WriteF64(h, tmp, v.Z)
}
