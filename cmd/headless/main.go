package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"reckoning.game/internal/persistence/snapshot"
	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world"
)

func main() {
	var (
		ticks      = flag.Int("ticks", 3600, "ticks to simulate")
		seed       = flag.Int64("seed", 1337, "world seed")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		difficulty = flag.String("difficulty", "", "override tuning difficulty")
		script     = flag.String("script", "wander", "input script: idle, wander, hunter")
		savePath   = flag.String("save_out", "", "write the final state as a save (optional)")
		asJSON     = flag.Bool("json", false, "print the final STATE message as JSON")
	)
	flag.Parse()

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		tune = tuning.Defaults()
	}
	if d := tuning.Difficulty(strings.ToUpper(strings.TrimSpace(*difficulty))); d != "" {
		if !d.Valid() {
			fmt.Fprintln(os.Stderr, "unknown difficulty:", *difficulty)
			os.Exit(2)
		}
		tune.Difficulty = d
	}
	in, ok := scripts[*script]
	if !ok {
		fmt.Fprintln(os.Stderr, "unknown script:", *script)
		os.Exit(2)
	}

	w, err := world.New(world.WorldConfig{RunID: "headless", Seed: *seed, Tuning: tune}, cats)
	if err != nil {
		fmt.Fprintln(os.Stderr, "world:", err)
		os.Exit(1)
	}
	snap := run(w, *ticks, in)

	if *savePath != "" {
		if err := snapshot.WriteSave(*savePath, w.ExportSave()); err != nil {
			fmt.Fprintln(os.Stderr, "write save:", err)
			os.Exit(1)
		}
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(world.StateMsg(snap))
		return
	}
	printSummary(os.Stdout, snap)
}

// script maps a tick index and the last snapshot to the next input.
type script func(i int, s world.Snapshot) world.Input

var scripts = map[string]script{
	"idle": func(int, world.Snapshot) world.Input { return world.Input{} },
	"wander": func(i int, _ world.Snapshot) world.Input {
		return world.Input{
			MoveX:  math.Sin(float64(i) * 0.01),
			MoveZ:  math.Cos(float64(i) * 0.013),
			Attack: i%30 == 0,
		}
	},
	"hunter": hunt,
}

// hunt chases the nearest enemy and attacks when it is close.
func hunt(_ int, s world.Snapshot) world.Input {
	if len(s.Enemies) == 0 {
		return world.Input{}
	}
	p := s.Player.Pos
	best := math.Inf(1)
	var dx, dz float64
	for _, e := range s.Enemies {
		ex, ez := e.Pos.X-p.X, e.Pos.Z-p.Z
		if d := math.Hypot(ex, ez); d < best {
			best, dx, dz = d, ex, ez
		}
	}
	if best < 2 {
		return world.Input{Attack: true}
	}
	return world.Input{MoveX: dx / best, MoveZ: dz / best}
}

// run steps w at the tuning's tick rate until n ticks pass or the player falls.
func run(w *world.World, n int, in script) world.Snapshot {
	dt := 1.0 / float64(w.Tuning().TickRateHz)
	s := w.Snapshot()
	for i := 0; i < n && s.Phase == world.PhasePlaying; i++ {
		s = w.Tick(dt, in(i, s))
	}
	return s
}

func printSummary(out io.Writer, s world.Snapshot) {
	fmt.Fprintf(out, "tick=%d phase=%s digest=%s\n", s.Tick, s.Phase, s.Digest)
	fmt.Fprintf(out, "player pos=(%.2f,%.2f,%.2f) hp=%.1f/%.1f stamina=%.1f level=%d xp=%d gold=%d score=%d\n",
		s.Player.Pos.X, s.Player.Pos.Y, s.Player.Pos.Z,
		s.Player.Health.Current, s.Player.Health.Maximum, s.Player.Stamina.Current,
		s.Player.Stats.Level, s.Player.Stats.Experience, s.Player.Stats.Gold, s.Player.Stats.Score)
	fmt.Fprintf(out, "world day=%d hour=%.2f weather=%s biome=%s enemies=%d defeated=%d quests_done=%d distance=%.1f anomalies=%d\n",
		s.Time.Day, s.Time.Hour, s.Weather.Kind, s.Biome, len(s.Enemies), s.EnemiesDefeated, s.QuestsCompleted, s.DistanceTraveled, s.Anomalies)
}
