package enemies

import (
	"testing"

	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world/kernel/model"
	"reckoning.game/internal/sim/world/logic/rng"
)

func flat(x, z float64) float64 { return 0.5 }

func testConfig() Config { return ConfigFromTuning(tuning.Defaults()) }

func TestSpawn_Seed42Count(t *testing.T) {
	cats := catalogs.Defaults()
	list := Spawn(42, cats.Enemies.Kinds, flat, testConfig())
	if len(list) < 10 || len(list) > 15 {
		t.Fatalf("expected 10..15 enemies, got %d", len(list))
	}
	for i, e := range list {
		if e.ID != i {
			t.Fatalf("id mismatch at %d: %d", i, e.ID)
		}
		if e.State != model.EnemyWandering {
			t.Fatalf("expected initial WANDERING, got %s", e.State)
		}
		if e.Pos.X < -95 || e.Pos.X > 95 || e.Pos.Z < -95 || e.Pos.Z > 95 {
			t.Fatalf("spawned out of bounds: %+v", e.Pos)
		}
		if e.Health != e.MaxHealth || e.Health <= 0 {
			t.Fatalf("bad health %v/%v", e.Health, e.MaxHealth)
		}
	}
}

func TestSpawn_Deterministic(t *testing.T) {
	kinds := catalogs.Defaults().Enemies.Kinds
	a := Spawn(7, kinds, flat, testConfig())
	b := Spawn(7, kinds, flat, testConfig())
	if len(a) != len(b) {
		t.Fatalf("count mismatch %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("enemy %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSpawn_DifficultyScalesHealthAndDamage(t *testing.T) {
	kinds := catalogs.Defaults().Enemies.Kinds
	base := Spawn(3, kinds, flat, testConfig())
	cfg := testConfig()
	cfg.Multiplier = tuning.Legendary.Multiplier()
	hard := Spawn(3, kinds, flat, cfg)
	for i := range base {
		if hard[i].MaxHealth != base[i].MaxHealth*2 || hard[i].Damage != base[i].Damage*2 {
			t.Fatalf("expected doubled stats: %+v vs %+v", hard[i], base[i])
		}
	}
}

func newEnemy(pos model.Vec3) model.Enemy {
	return model.Enemy{ID: 1, Kind: "GOBLIN", Pos: pos, Speed: 4, Damage: 8, XP: 20, Health: 30, MaxHealth: 30, State: model.EnemyWandering, Target: pos, StateTimer: 3}
}

func TestUpdate_AttackCadence(t *testing.T) {
	cfg := testConfig()
	r := rng.New(1)
	e := newEnemy(model.Vec3{X: 1, Y: 0.5})
	player := model.Vec3{Y: 0.5}

	total := 0.0
	hits := 0
	for i := 0; i < 60; i++ { // one second at 60 Hz
		if dmg := Update(&e, player, 1.0/60, r, flat, cfg); dmg > 0 {
			total += dmg
			hits++
		}
	}
	if e.State != model.EnemyAttacking {
		t.Fatalf("expected ATTACKING, got %s", e.State)
	}
	if hits != 1 || total != 8 {
		t.Fatalf("expected one hit of 8 in the first second, got %d hits / %v", hits, total)
	}
	if e.Pos.X != 1 {
		t.Fatalf("attacking enemy should hold position, got %+v", e.Pos)
	}
}

func TestUpdate_ChaseMovesTowardPlayer(t *testing.T) {
	cfg := testConfig()
	r := rng.New(1)
	e := newEnemy(model.Vec3{X: 10, Y: 0.5})
	player := model.Vec3{Y: 0.5}
	before := e.Pos.DistTo(player)
	Update(&e, player, 0.5, r, flat, cfg)
	if e.State != model.EnemyChasing {
		t.Fatalf("expected CHASING, got %s", e.State)
	}
	if got := e.Pos.DistTo(player); got >= before {
		t.Fatalf("expected distance to shrink: %v -> %v", before, got)
	}
}

func TestUpdate_TimerTogglesIdleWander(t *testing.T) {
	cfg := testConfig()
	r := rng.New(1)
	e := newEnemy(model.Vec3{X: 80, Y: 0.5, Z: 80})
	e.StateTimer = 0.01
	Update(&e, model.Vec3{}, 0.1, r, flat, cfg)
	if e.State != model.EnemyIdle {
		t.Fatalf("expected IDLE, got %s", e.State)
	}
	if e.StateTimer < cfg.StateTimerMin || e.StateTimer >= cfg.StateTimerMax {
		t.Fatalf("timer out of range: %v", e.StateTimer)
	}
	e.StateTimer = 0
	Update(&e, model.Vec3{}, 0.1, r, flat, cfg)
	if e.State != model.EnemyWandering {
		t.Fatalf("expected WANDERING, got %s", e.State)
	}
	if d := e.Target.Sub(model.Vec3{X: 80, Y: 0.5, Z: 80}); d.X < -10 || d.X > 10 || d.Z < -10 || d.Z > 10 {
		t.Fatalf("wander target too far: %+v", e.Target)
	}
}

func TestUpdate_ClampsToBounds(t *testing.T) {
	cfg := testConfig()
	r := rng.New(1)
	e := newEnemy(model.Vec3{X: 94.9, Y: 0.5})
	e.Target = model.Vec3{X: 200, Y: 0.5}
	e.Speed = 100
	Update(&e, model.Vec3{X: -90}, 1, r, flat, cfg)
	if e.Pos.X > 95 {
		t.Fatalf("expected clamp to 95, got %v", e.Pos.X)
	}
}

func TestUpdate_SkipsDefeated(t *testing.T) {
	e := newEnemy(model.Vec3{X: 1})
	e.Health = 0
	if dmg := Update(&e, model.Vec3{}, 1, rng.New(1), flat, testConfig()); dmg != 0 {
		t.Fatalf("defeated enemy dealt damage")
	}
	if e.State != model.EnemyWandering {
		t.Fatalf("defeated enemy changed state")
	}
}

func TestPrune(t *testing.T) {
	list := []model.Enemy{{ID: 0, Health: 1}, {ID: 1}, {ID: 2, Health: 5}}
	got := Prune(list)
	if len(got) != 2 || got[0].ID != 0 || got[1].ID != 2 {
		t.Fatalf("unexpected prune result: %+v", got)
	}
}
