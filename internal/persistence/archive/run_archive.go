// Package archive keeps the final save of every finished run.
package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"reckoning.game/internal/persistence/snapshot"
)

type RunArchiveMeta struct {
	RunID           string `json:"run_id"`
	EndTick         uint64 `json:"end_tick"`
	Seed            int32  `json:"seed"`
	Difficulty      string `json:"difficulty"`
	Save            string `json:"save"`
	CreatedAt       string `json:"created_at"`
	Day             uint32 `json:"day"`
	Level           int    `json:"level"`
	Score           int    `json:"score"`
	Gold            int    `json:"gold"`
	EnemiesDefeated int    `json:"enemies_defeated"`
	QuestsCompleted int    `json:"quests_completed"`
}

// ArchiveRunEnd copies the save of a defeated player into
// `runDir/archives/end_<tick>/` next to a meta.json summary.
// It returns (archivedPath, archived=true) when the save ends the run.
func ArchiveRunEnd(runDir, savePath string, s snapshot.SaveV1) (archivedPath string, archived bool, err error) {
	if s.Phase != "DEFEATED" {
		return "", false, nil
	}

	archiveDir := filepath.Join(runDir, "archives", fmt.Sprintf("end_%016d", s.Header.Tick))
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", false, err
	}

	dst := filepath.Join(archiveDir, filepath.Base(savePath))
	if err := copyFile(savePath, dst); err != nil {
		return "", false, err
	}

	meta := RunArchiveMeta{
		RunID:           s.Header.RunID,
		EndTick:         s.Header.Tick,
		Seed:            s.Seed,
		Difficulty:      s.Difficulty,
		Save:            filepath.Base(dst),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339Nano),
		Day:             s.Time.Day,
		Level:           s.Player.Level,
		Score:           s.Player.Score,
		Gold:            s.Player.Gold,
		EnemiesDefeated: s.World.EnemiesDefeated,
		QuestsCompleted: s.World.QuestsCompleted,
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", false, err
	}
	if err := os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644); err != nil {
		return "", false, err
	}
	return dst, true, nil
}

// ReadMeta loads the summary written next to an archived save.
func ReadMeta(archivedPath string) (RunArchiveMeta, error) {
	var m RunArchiveMeta
	b, err := os.ReadFile(filepath.Join(filepath.Dir(archivedPath), "meta.json"))
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(b, &m)
	return m, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
