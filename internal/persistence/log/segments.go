package log

import (
	"path/filepath"
	"sort"
	"time"
)

const (
	TicksDir  = "ticks"
	EventsDir = "events"

	segmentExt    = ".jsonl.zst"
	segmentLayout = "2006-01-02-15"
)

// stream is one family of hourly segments: <dir>/<name>-YYYY-MM-DD-HH.jsonl.zst.
// Segment names sort chronologically.
type stream struct {
	dir  string
	name string
}

func tickStream(runDir string) stream  { return stream{dir: filepath.Join(runDir, TicksDir), name: TicksDir} }
func eventStream(runDir string) stream { return stream{dir: filepath.Join(runDir, EventsDir), name: EventsDir} }

func (s stream) segment(t time.Time) string {
	return filepath.Join(s.dir, s.name+"-"+t.UTC().Format(segmentLayout)+segmentExt)
}

// segments lists the stream's files oldest first.
func (s stream) segments() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, s.name+"-*"+segmentExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
