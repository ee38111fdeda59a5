package combat

import (
	"testing"

	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world/kernel/model"
)

func enemyAt(id int, x float64, hp float64) model.Enemy {
	return model.Enemy{ID: id, Kind: "SLIME", Pos: model.Vec3{X: x}, Health: hp, MaxHealth: hp, XP: 25}
}

func TestAttack_NearestInRange(t *testing.T) {
	r := NewResolver(tuning.Defaults())
	list := []model.Enemy{enemyAt(0, 2.5, 10), enemyAt(1, 1, 10), enemyAt(2, 0.5, 0), enemyAt(3, 10, 10)}
	cmd, ok := r.Attack(model.Vec3{}, 3, list)
	if !ok {
		t.Fatalf("expected a target")
	}
	if cmd.TargetID != 1 {
		t.Fatalf("expected nearest living enemy 1, got %d", cmd.TargetID)
	}
	if cmd.Damage != 16 {
		t.Fatalf("expected 10+3*2=16, got %v", cmd.Damage)
	}
}

func TestAttack_NothingInRange(t *testing.T) {
	r := NewResolver(tuning.Defaults())
	if _, ok := r.Attack(model.Vec3{}, 1, []model.Enemy{enemyAt(0, 3.5, 10)}); ok {
		t.Fatalf("expected no target")
	}
	if _, ok := r.Attack(model.Vec3{}, 1, nil); ok {
		t.Fatalf("expected no target on empty set")
	}
}

func TestDamageEnemy_RewardOnce(t *testing.T) {
	e := enemyAt(0, 0, 20)
	if _, ok := DamageEnemy(&e, 12); ok {
		t.Fatalf("not yet defeated")
	}
	rw, ok := DamageEnemy(&e, 12)
	if !ok {
		t.Fatalf("expected defeat")
	}
	if rw.XP != 25 || rw.Gold != 12 {
		t.Fatalf("unexpected reward %+v", rw)
	}
	if e.Health != 0 {
		t.Fatalf("expected health clamped to 0, got %v", e.Health)
	}
	for i := 0; i < 3; i++ {
		if _, ok := DamageEnemy(&e, 50); ok {
			t.Fatalf("reward granted twice")
		}
	}
	if e.Health != 0 {
		t.Fatalf("health changed after defeat: %v", e.Health)
	}
}

func TestDamagePlayer_DefeatSignalOnce(t *testing.T) {
	h := model.Gauge{Current: 10, Maximum: 100}
	if !DamagePlayer(&h, 15) {
		t.Fatalf("expected defeat signal")
	}
	if h.Current != 0 {
		t.Fatalf("expected 0 health, got %v", h.Current)
	}
	if DamagePlayer(&h, 15) {
		t.Fatalf("defeat signalled twice")
	}
	if h.Current != 0 {
		t.Fatalf("health went negative: %v", h.Current)
	}
}

func TestDamagePlayer_NonDefeating(t *testing.T) {
	h := model.Gauge{Current: 50, Maximum: 100}
	if DamagePlayer(&h, 20) {
		t.Fatalf("unexpected defeat")
	}
	if h.Current != 30 {
		t.Fatalf("expected 30, got %v", h.Current)
	}
}

func TestGainExperience_LevelCurve(t *testing.T) {
	s := model.NewPlayer().Stats
	if n := GainExperience(&s, 250); n != 2 {
		t.Fatalf("expected 2 level-ups, got %d", n)
	}
	// 100 -> 150 -> 225; 250-100-150 = 0
	if s.Level != 3 || s.ExpToNext != 225 || s.Experience != 0 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestGainExperience_Monotonic(t *testing.T) {
	s := model.NewPlayer().Stats
	prevLevel, prevNext := s.Level, s.ExpToNext
	for i := 0; i < 200; i++ {
		GainExperience(&s, 37)
		if s.Level < prevLevel || s.ExpToNext < prevNext {
			t.Fatalf("curve regressed at step %d: %+v", i, s)
		}
		if s.Experience < 0 || s.Experience >= s.ExpToNext {
			t.Fatalf("experience out of range: %+v", s)
		}
		prevLevel, prevNext = s.Level, s.ExpToNext
	}
	if s.Level <= 1 {
		t.Fatalf("expected some level-ups")
	}
}
