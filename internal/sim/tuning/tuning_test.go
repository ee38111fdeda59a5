package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoad_RepoTuning(t *testing.T) {
	got, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != Defaults() {
		t.Fatalf("configs/tuning.yaml drifted from Defaults():\n%+v\n%+v", got, Defaults())
	}
}

func TestLoad_OverlayAndNormalize(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("difficulty: hard\nenemies:\n  detect_range: 30\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Difficulty != Hard {
		t.Fatalf("expected HARD, got %q", got.Difficulty)
	}
	if got.Enemies.DetectRange != 30 {
		t.Fatalf("expected detect_range 30, got %v", got.Enemies.DetectRange)
	}
	if got.Enemies.AttackRange != Defaults().Enemies.AttackRange {
		t.Fatalf("unset field lost its default")
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	_ = os.WriteFile(p, []byte("tick_rate_hz: 0\n"), 0o644)
	if _, err := Load(p); err == nil {
		t.Fatalf("expected validation error")
	}
	_ = os.WriteFile(p, []byte("difficulty: nightmare\n"), 0o644)
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unknown difficulty error")
	}
}

func TestDifficultyCycle(t *testing.T) {
	d := Normal
	want := []Difficulty{Hard, Legendary, Easy, Normal}
	for _, w := range want {
		d = d.Next()
		if d != w {
			t.Fatalf("expected %s, got %s", w, d)
		}
	}
	if Legendary.Multiplier() <= Hard.Multiplier() || Easy.Multiplier() >= Normal.Multiplier() {
		t.Fatalf("multipliers not ordered")
	}
}

func TestDigest_TracksValues(t *testing.T) {
	a, b := Defaults(), Defaults()
	if a.Digest() != b.Digest() {
		t.Fatalf("digest not stable")
	}
	b.Difficulty = Hard
	if a.Digest() == b.Digest() {
		t.Fatalf("digest ignores difficulty")
	}
}
