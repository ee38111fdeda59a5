package world

import "fmt"

// DigestMismatchError reports the first replayed tick whose digest differs
// from the logged one.
type DigestMismatchError struct {
	Tick uint64
	Want string
	Got  string
}

func (e *DigestMismatchError) Error() string {
	return fmt.Sprintf("digest mismatch at tick %d: want %s got %s", e.Tick, e.Want, e.Got)
}

// ReplayTick re-applies one logged step and checks the resulting digest.
// Entries must be fed in order starting at the world's current tick.
func (w *World) ReplayTick(e TickLogEntry) (Snapshot, error) {
	if e.Tick != w.tick {
		return Snapshot{}, fmt.Errorf("replay: entry tick %d, world at tick %d", e.Tick, w.tick)
	}
	if w.phase == PhasePaused {
		w.phase = PhasePlaying
	}
	w.anomalies += e.Anomalies
	snap := w.Tick(e.DT, e.Input)
	if e.Digest != "" && snap.Digest != e.Digest {
		return snap, &DigestMismatchError{Tick: e.Tick, Want: e.Digest, Got: snap.Digest}
	}
	return snap, nil
}
