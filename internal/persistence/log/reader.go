package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"reckoning.game/internal/sim/world"
)

// ReadTicks returns every tick entry logged under runDir in write order.
func ReadTicks(runDir string) ([]world.TickLogEntry, error) {
	var out []world.TickLogEntry
	err := scanSegments(tickStream(runDir), func(line []byte) error {
		var e world.TickLogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

// ReadEvents returns every game event logged under runDir in write order.
func ReadEvents(runDir string) ([]world.GameEvent, error) {
	var out []world.GameEvent
	err := scanSegments(eventStream(runDir), func(line []byte) error {
		var e world.GameEvent
		if err := json.Unmarshal(line, &e); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

// scanSegments feeds each line of every segment in s to fn, oldest first.
func scanSegments(s stream, fn func(line []byte) error) error {
	paths, err := s.segments()
	if err != nil {
		return err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()

	for _, p := range paths {
		if err := scanFile(dec, p, fn); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
	}
	return nil
}

func scanFile(dec *zstd.Decoder, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := dec.Reset(bufio.NewReader(f)); err != nil {
		return err
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		if err := fn(sc.Bytes()); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return sc.Err()
}
