package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"reckoning.game/internal/persistence/snapshot"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		case "save":
			saveCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

type runSummary struct {
	RunID      string `json:"run_id"`
	LatestSave string `json:"latest_save,omitempty"`
	Tick       uint64 `json:"tick"`
	Phase      string `json:"phase,omitempty"`
	Score      int    `json:"score"`
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	_ = fs.Parse(args)

	runs, err := listRuns(filepath.Join(*dataDir, "runs"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, r := range runs {
		printJSON(os.Stdout, r)
	}
}

// listRuns summarizes every run directory by its latest save.
func listRuns(base string) ([]runSummary, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}
	var out []runSummary
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		r := runSummary{RunID: e.Name()}
		if p := snapshot.LatestSave(filepath.Join(base, e.Name(), "saves")); p != "" {
			r.LatestSave = filepath.Base(p)
			if s, err := snapshot.ReadSave(p); err == nil {
				r.Tick = s.Header.Tick
				r.Phase = s.Phase
				r.Score = s.Player.Score
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RunID < out[j].RunID })
	return out, nil
}

func saveCmd(args []string) {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	path := fs.String("path", "", "save path")
	_ = fs.Parse(args)
	if *path == "" {
		fmt.Fprintln(os.Stderr, "missing -path")
		os.Exit(2)
	}
	s, err := snapshot.ReadSave(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read save:", err)
		os.Exit(1)
	}
	printJSON(os.Stdout, s)
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
