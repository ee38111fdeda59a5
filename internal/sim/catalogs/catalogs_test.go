package catalogs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_RepoConfigs(t *testing.T) {
	c, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d := Defaults()
	if len(c.Enemies.Kinds) != len(d.Enemies.Kinds) {
		t.Fatalf("enemy kinds: file=%d defaults=%d", len(c.Enemies.Kinds), len(d.Enemies.Kinds))
	}
	for i, k := range c.Enemies.Kinds {
		if k != d.Enemies.Kinds[i] {
			t.Fatalf("enemy kind %d differs: %+v vs %+v", i, k, d.Enemies.Kinds[i])
		}
	}
	if len(c.Events.Events) != len(d.Events.Events) {
		t.Fatalf("events: file=%d defaults=%d", len(c.Events.Events), len(d.Events.Events))
	}
	for i, e := range c.Events.Events {
		if e != d.Events.Events[i] {
			t.Fatalf("event %d differs: %+v vs %+v", i, e, d.Events.Events[i])
		}
	}
	if c.Enemies.Digest == "" || c.Events.Digest == "" {
		t.Fatalf("missing digests")
	}
}

func TestLoad_MissingEventsAllowed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "enemies.json"), []byte(`[{"id":"SLIME","name":"Slime","speed":2,"damage":5,"health":20,"xp":10}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Events.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(c.Events.Events))
	}
}

func TestLoad_RejectsBadChances(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "enemies.json"), []byte(`[{"id":"SLIME","speed":2,"damage":5,"health":20,"xp":10}]`), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "events.json"), []byte(`[
	  {"id":"a","chance":0.7,"effect":"HEAL","amount":1},
	  {"id":"b","chance":0.7,"effect":"HEAL","amount":1}
	]`), 0o644)
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for chances > 1")
	}
}

func TestLoad_RejectsDuplicateEnemy(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "enemies.json"), []byte(`[
	  {"id":"SLIME","speed":2,"damage":5,"health":20,"xp":10},
	  {"id":"SLIME","speed":2,"damage":5,"health":20,"xp":10}
	]`), 0o644)
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
