package main

import (
	"bytes"
	"strings"
	"testing"

	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world"
)

func newHeadlessWorld(t *testing.T, seed int64) *world.World {
	t.Helper()
	w, err := world.New(world.WorldConfig{RunID: "headless", Seed: seed, Tuning: tuning.Defaults()}, catalogs.Defaults())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func TestRun_ScriptsAreDeterministic(t *testing.T) {
	for name, in := range scripts {
		a := run(newHeadlessWorld(t, 77), 900, in)
		b := run(newHeadlessWorld(t, 77), 900, in)
		if a.Digest != b.Digest || a.Tick != b.Tick {
			t.Fatalf("%s: runs diverged at tick %d/%d", name, a.Tick, b.Tick)
		}
	}
}

func TestRun_StopsOnDefeatOrCount(t *testing.T) {
	s := run(newHeadlessWorld(t, 5), 120, scripts["idle"])
	if s.Phase == world.PhasePlaying && s.Tick != 120 {
		t.Fatalf("expected 120 ticks, got %d", s.Tick)
	}
	if s.Phase == world.PhaseDefeated && s.Tick > 120 {
		t.Fatalf("ran past the limit: %d", s.Tick)
	}
}

func TestHunt_ChasesThenAttacks(t *testing.T) {
	w := newHeadlessWorld(t, 5)
	s := w.Snapshot()
	if len(s.Enemies) == 0 {
		t.Fatalf("expected spawned enemies")
	}
	s.Enemies = s.Enemies[:1]
	s.Enemies[0].Pos = s.Player.Pos
	s.Enemies[0].Pos.X += 10
	if in := hunt(0, s); in.Attack || in.MoveX < 0.99 {
		t.Fatalf("expected a chase toward +x, got %+v", in)
	}
	s.Enemies[0].Pos.X = s.Player.Pos.X + 1
	if in := hunt(0, s); !in.Attack {
		t.Fatalf("expected an attack, got %+v", in)
	}
}

func TestPrintSummary(t *testing.T) {
	s := run(newHeadlessWorld(t, 3), 60, scripts["wander"])
	var buf bytes.Buffer
	printSummary(&buf, s)
	out := buf.String()
	if !strings.Contains(out, "tick=60 ") || !strings.Contains(out, "digest="+s.Digest) {
		t.Fatalf("unexpected summary:\n%s", out)
	}
}
