package archive

import (
	"os"
	"path/filepath"
	"testing"

	"reckoning.game/internal/persistence/snapshot"
)

func TestArchiveRunEnd_CopiesDefeatSave(t *testing.T) {
	runDir := t.TempDir()
	src := filepath.Join(runDir, "saves", "0000000000000042.save.zst")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatalf("mkdir saves: %v", err)
	}
	want := []byte("dummy")
	if err := os.WriteFile(src, want, 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	s := snapshot.SaveV1{
		Header: snapshot.Header{Version: 1, RunID: "r1", Tick: 42},
		Seed:   7,
		Phase:  "DEFEATED",
		Player: snapshot.PlayerV1{Level: 3, Score: 120},
		Time:   snapshot.TimeV1{Day: 2},
	}
	archivedPath, ok, err := ArchiveRunEnd(runDir, src, s)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !ok {
		t.Fatalf("expected archived=true")
	}

	got, err := os.ReadFile(archivedPath)
	if err != nil {
		t.Fatalf("read archived: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("archived content mismatch: got=%q want=%q", string(got), string(want))
	}

	meta, err := ReadMeta(archivedPath)
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	if meta.RunID != "r1" || meta.EndTick != 42 || meta.Score != 120 || meta.Day != 2 {
		t.Fatalf("unexpected meta %+v", meta)
	}
}

func TestArchiveRunEnd_IgnoresLiveRun(t *testing.T) {
	_, ok, err := ArchiveRunEnd(t.TempDir(), "/nope", snapshot.SaveV1{Phase: "PLAYING"})
	if err != nil || ok {
		t.Fatalf("expected no archive, ok=%v err=%v", ok, err)
	}
}
