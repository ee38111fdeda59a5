package main

import (
	"errors"
	"testing"

	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world"
)

type collect struct{ entries []world.TickLogEntry }

func (c *collect) WriteTick(e world.TickLogEntry) error {
	c.entries = append(c.entries, e)
	return nil
}

func newReplayWorld(t *testing.T) *world.World {
	t.Helper()
	w, err := world.New(world.WorldConfig{RunID: "replay", Seed: 21, Tuning: tuning.Defaults()}, catalogs.Defaults())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func record(t *testing.T, n int) ([]world.TickLogEntry, string) {
	t.Helper()
	w := newReplayWorld(t)
	c := &collect{}
	w.SetTickLogger(c)
	for i := 0; i < n; i++ {
		w.Tick(1.0/60, world.Input{MoveX: 0.6, MoveZ: -0.3, Attack: i%15 == 0})
	}
	return c.entries, w.StateDigest()
}

func TestReplay_MatchesRecordedRun(t *testing.T) {
	entries, want := record(t, 240)
	w := newReplayWorld(t)
	checked, err := replay(w, entries, 0)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if checked != 240 || w.StateDigest() != want {
		t.Fatalf("checked=%d digest match=%v", checked, w.StateDigest() == want)
	}
}

func TestReplay_StopsAtTick(t *testing.T) {
	entries, _ := record(t, 100)
	w := newReplayWorld(t)
	checked, err := replay(w, entries, 49)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if checked != 50 || w.CurrentTick() != 50 {
		t.Fatalf("checked=%d tick=%d", checked, w.CurrentTick())
	}
}

func TestReplay_SkipsEarlierAndRejectsGaps(t *testing.T) {
	entries, _ := record(t, 60)
	w := newReplayWorld(t)
	if _, err := replay(w, entries[:20], 0); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if checked, err := replay(w, entries, 0); err != nil || checked != 40 {
		t.Fatalf("expected 40 checked after skipping, got %d err=%v", checked, err)
	}

	w2 := newReplayWorld(t)
	if _, err := replay(w2, entries[5:], 0); err == nil {
		t.Fatalf("expected gap error")
	}
}

func TestReplay_ReportsDivergence(t *testing.T) {
	entries, _ := record(t, 30)
	entries[10].Input.MoveX = -1
	w := newReplayWorld(t)
	_, err := replay(w, entries, 0)
	var mm *world.DigestMismatchError
	if !errors.As(err, &mm) || mm.Tick != 10 {
		t.Fatalf("expected mismatch at tick 10, got %v", err)
	}
}
