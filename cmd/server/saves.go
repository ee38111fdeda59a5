package main

import (
	"context"
	"log"
	"path/filepath"
	"sync/atomic"

	"reckoning.game/internal/persistence/archive"
	"reckoning.game/internal/persistence/snapshot"
)

const savesDir = "saves"

type saveRecorder interface {
	RecordSave(path string, s snapshot.SaveV1)
}

// saveWriter persists saves handed over by the world's save sink.
type saveWriter struct {
	runDir string
	logger *log.Logger
	index  saveRecorder

	written  atomic.Uint64
	failed   atomic.Uint64
	archived atomic.Uint64
}

func (sw *saveWriter) run(ctx context.Context, ch <-chan snapshot.SaveV1) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-ch:
			sw.write(s)
		}
	}
}

func (sw *saveWriter) write(s snapshot.SaveV1) {
	path := filepath.Join(sw.runDir, savesDir, snapshot.FileName(s.Header.Tick))
	if err := snapshot.WriteSave(path, s); err != nil {
		sw.failed.Add(1)
		sw.logger.Printf("save write: %v", err)
		return
	}
	sw.written.Add(1)
	if sw.index != nil {
		sw.index.RecordSave(path, s)
	}

	archivedPath, ok, err := archive.ArchiveRunEnd(sw.runDir, path, s)
	if err != nil {
		sw.logger.Printf("archive run end: %v", err)
		return
	}
	if ok {
		sw.archived.Add(1)
		sw.logger.Printf("run ended at tick=%d score=%d; archived %s", s.Header.Tick, s.Player.Score, archivedPath)
	}
}
