package worldtest

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"reckoning.game/internal/persistence/snapshot"
	"reckoning.game/internal/protocol"
	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	world "reckoning.game/internal/sim/world"
)

const Step = 1.0 / 60

// Harness is a small black-box test helper for driving a world via exported APIs:
// - Step()/StepFor() advance through StepOnce()
// - Save()/Resume() go through real save files
// - Check() asserts the invariants every snapshot must hold
//
// It intentionally avoids touching world internals so tests can live outside the world package.
type Harness struct {
	T    *testing.T
	Cats *catalogs.Catalogs
	Tune tuning.Tuning
	W    *world.World

	last world.Snapshot
}

func NewHarness(t *testing.T, seed int64) *Harness {
	t.Helper()
	return NewHarnessWithTuning(t, seed, tuning.Defaults())
}

func NewHarnessWithTuning(t *testing.T, seed int64, tune tuning.Tuning) *Harness {
	t.Helper()
	cats := catalogs.Defaults()
	w, err := world.New(world.WorldConfig{RunID: "worldtest", Seed: seed, Tuning: tune}, cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return &Harness{T: t, Cats: cats, Tune: tune, W: w, last: w.Snapshot()}
}

// Step advances one tick and checks invariants.
func (h *Harness) Step(in world.Input) world.Snapshot {
	h.T.Helper()
	_, _ = h.W.StepOnce(Step, in)
	h.last = h.W.Snapshot()
	h.Check(h.last)
	return h.last
}

// StepFor advances n ticks with input chosen per tick.
func (h *Harness) StepFor(n int, input func(i int) world.Input) world.Snapshot {
	h.T.Helper()
	for i := 0; i < n; i++ {
		h.Step(input(i))
	}
	return h.last
}

func (h *Harness) Last() world.Snapshot { return h.last }

// Save writes the current session to a save file under dir.
func (h *Harness) Save(dir string) string {
	h.T.Helper()
	s := h.W.ExportSave()
	path := filepath.Join(dir, snapshot.FileName(s.Header.Tick))
	if err := snapshot.WriteSave(path, s); err != nil {
		h.T.Fatalf("WriteSave: %v", err)
	}
	return path
}

// Resume builds a new harness from a save file.
func (h *Harness) Resume(path string) *Harness {
	h.T.Helper()
	s, err := snapshot.ReadSave(path)
	if err != nil {
		h.T.Fatalf("ReadSave: %v", err)
	}
	w, err := world.Restore(world.WorldConfig{Tuning: h.Tune}, h.Cats, s)
	if err != nil {
		h.T.Fatalf("Restore: %v", err)
	}
	return &Harness{T: h.T, Cats: h.Cats, Tune: h.Tune, W: w, last: w.Snapshot()}
}

// Check fails the test if s breaks a world invariant.
func (h *Harness) Check(s world.Snapshot) {
	h.T.Helper()
	p := s.Player
	bound := h.Tune.WorldBound
	if p.Health.Current < 0 || p.Health.Current > p.Health.Maximum {
		h.T.Fatalf("tick %d: health %v outside [0,%v]", s.Tick, p.Health.Current, p.Health.Maximum)
	}
	if p.Stamina.Current < 0 || p.Stamina.Current > p.Stamina.Maximum {
		h.T.Fatalf("tick %d: stamina %v outside [0,%v]", s.Tick, p.Stamina.Current, p.Stamina.Maximum)
	}
	if math.Abs(p.Pos.X) > bound || math.Abs(p.Pos.Z) > bound {
		h.T.Fatalf("tick %d: player out of bounds %+v", s.Tick, p.Pos)
	}
	if p.Stats.Gold < 0 || p.Stats.Level < 1 || p.Stats.Experience < 0 || p.Stats.Experience >= p.Stats.ExpToNext {
		h.T.Fatalf("tick %d: bad stats %+v", s.Tick, p.Stats)
	}
	if s.Time.Hour < 0 || s.Time.Hour >= 24 || s.Time.Day < 1 {
		h.T.Fatalf("tick %d: bad time %+v", s.Tick, s.Time)
	}
	if s.Weather.Intensity < 0 || s.Weather.Intensity > 1 {
		h.T.Fatalf("tick %d: bad weather %+v", s.Tick, s.Weather)
	}
	if len(s.Quests) > h.Tune.Quests.MaxActive {
		h.T.Fatalf("tick %d: %d active quests", s.Tick, len(s.Quests))
	}
	for _, q := range s.Quests {
		if q.Target <= 0 || q.Current < 0 || q.Current >= float64(q.Target) {
			h.T.Fatalf("tick %d: bad quest %+v", s.Tick, q)
		}
	}
	for _, e := range s.Enemies {
		if e.Health <= 0 || e.Health > e.MaxHealth {
			h.T.Fatalf("tick %d: bad enemy %+v", s.Tick, e)
		}
		if math.Abs(e.Pos.X) > bound || math.Abs(e.Pos.Z) > bound {
			h.T.Fatalf("tick %d: enemy out of bounds %+v", s.Tick, e.Pos)
		}
	}
	if (s.Phase == world.PhaseDefeated) != (p.Health.Current <= 0) {
		h.T.Fatalf("tick %d: phase %s with health %v", s.Tick, s.Phase, p.Health.Current)
	}
}

// StateJSON renders the current snapshot as the STATE wire message.
func (h *Harness) StateJSON() protocol.StateMsg {
	h.T.Helper()
	b, err := json.Marshal(world.StateMsg(h.last))
	if err != nil {
		h.T.Fatalf("marshal STATE: %v", err)
	}
	var msg protocol.StateMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		h.T.Fatalf("unmarshal STATE: %v", err)
	}
	return msg
}

// Wander is a deterministic input script that sweeps the map and attacks
// periodically.
func Wander(i int) world.Input {
	return world.Input{
		MoveX:  math.Sin(float64(i) * 0.013),
		MoveZ:  math.Cos(float64(i) * 0.007),
		Attack: i%10 == 0,
	}
}

// Idle sends no input.
func Idle(int) world.Input { return world.Input{} }
