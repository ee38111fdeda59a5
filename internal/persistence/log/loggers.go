package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"reckoning.game/internal/sim/world"
)

// segmentWriter appends one JSON value per line to the stream's segment for
// the current UTC hour. Each Write is flushed through the zstd frame so a
// crashed run loses at most the line in flight.
type segmentWriter struct {
	s   stream
	now func() time.Time

	mu   sync.Mutex
	path string
	f    *os.File
	enc  *zstd.Encoder
	buf  *bufio.Writer
	lines *json.Encoder
}

func newSegmentWriter(s stream) *segmentWriter {
	return &segmentWriter{s: s, now: time.Now}
}

func (w *segmentWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if path := w.s.segment(w.now()); path != w.path {
		if err := w.open(path); err != nil {
			return err
		}
	}
	if err := w.lines.Encode(v); err != nil {
		return err
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *segmentWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.release()
}

// open switches to path, appending a new zstd frame when the file exists.
func (w *segmentWriter) open(path string) error {
	if err := w.release(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.path, w.f, w.enc = path, f, enc
	w.buf = bufio.NewWriterSize(enc, 64*1024)
	w.lines = json.NewEncoder(w.buf)
	return nil
}

func (w *segmentWriter) release() error {
	if w.f == nil {
		return nil
	}
	err := errors.Join(w.buf.Flush(), w.enc.Close(), w.f.Close())
	w.path, w.f, w.enc, w.buf, w.lines = "", nil, nil, nil, nil
	return err
}

// TickLogger writes one compressed JSONL entry per simulated tick.
type TickLogger struct{ w *segmentWriter }

func NewTickLogger(runDir string) *TickLogger {
	return &TickLogger{w: newSegmentWriter(tickStream(runDir))}
}

func (l *TickLogger) WriteTick(v world.TickLogEntry) error { return l.w.Write(v) }
func (l *TickLogger) Close() error                         { return l.w.Close() }

// EventLogger writes gameplay events as compressed JSONL.
type EventLogger struct{ w *segmentWriter }

func NewEventLogger(runDir string) *EventLogger {
	return &EventLogger{w: newSegmentWriter(eventStream(runDir))}
}

func (l *EventLogger) WriteEvent(v world.GameEvent) error { return l.w.Write(v) }
func (l *EventLogger) Close() error                       { return l.w.Close() }

var (
	_ world.TickLogger  = (*TickLogger)(nil)
	_ world.EventLogger = (*EventLogger)(nil)
)
