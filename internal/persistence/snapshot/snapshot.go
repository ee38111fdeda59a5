// Package snapshot reads and writes session saves: a JSON header line
// followed by the JSON body, both inside one zstd stream.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

const fileSuffix = ".save.zst"

type Header struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	Tick    uint64 `json:"tick"`
}

type SaveV1 struct {
	Header Header `json:"header"`

	Seed       int32  `json:"seed"`
	Difficulty string `json:"difficulty"`
	Phase      string `json:"phase"`
	Biome      string `json:"biome"`

	Player  PlayerV1  `json:"player"`
	World   WorldV1   `json:"world"`
	Time    TimeV1    `json:"time"`
	Weather WeatherV1 `json:"weather"`
	Quests  []QuestV1 `json:"quests"`
	Enemies []EnemyV1 `json:"enemies"`
	RNG     RNGV1     `json:"rng"`
}

type GaugeV1 struct {
	Current   float64 `json:"current"`
	Maximum   float64 `json:"maximum"`
	RegenRate float64 `json:"regen_rate"`
}

type PlayerV1 struct {
	Pos        [3]float64 `json:"pos"`
	Health     GaugeV1    `json:"health"`
	Stamina    GaugeV1    `json:"stamina"`
	Gold       int        `json:"gold"`
	Score      int        `json:"score"`
	Level      int        `json:"level"`
	Experience int        `json:"experience"`
	ExpToNext  int        `json:"exp_to_next"`
	Mana       int        `json:"mana"`
	MaxMana    int        `json:"max_mana"`
}

// WorldV1 carries counters and the in-flight timers that make a resume exact.
type WorldV1 struct {
	SimSeconds       float64 `json:"sim_seconds"`
	EnemiesDefeated  int     `json:"enemies_defeated"`
	QuestsCompleted  int     `json:"quests_completed"`
	DistanceTraveled float64 `json:"distance_traveled"`
	AttackCooldown   float64 `json:"attack_cooldown"`
	QuestTimer       float64 `json:"quest_timer"`
	EventTimer       float64 `json:"event_timer"`
	Anomalies        uint64  `json:"anomalies"`
}

type TimeV1 struct {
	Hour float64 `json:"hour"`
	Day  uint32  `json:"day"`
}

type WeatherV1 struct {
	Kind      string  `json:"kind"`
	Intensity float64 `json:"intensity"`
	Remaining float64 `json:"remaining"`
	WindSpeed float64 `json:"wind_speed"`
	WindAngle float64 `json:"wind_angle"`
}

type QuestV1 struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Target      int     `json:"target"`
	Current     float64 `json:"current"`
	RewardGold  int     `json:"reward_gold"`
	RewardXP    int     `json:"reward_xp"`
}

type EnemyV1 struct {
	ID             int        `json:"id"`
	Kind           string     `json:"kind"`
	Pos            [3]float64 `json:"pos"`
	Speed          float64    `json:"speed"`
	Damage         float64    `json:"damage"`
	XP             int        `json:"xp"`
	Health         float64    `json:"health"`
	MaxHealth      float64    `json:"max_health"`
	State          string     `json:"state"`
	Target         [3]float64 `json:"target"`
	StateTimer     float64    `json:"state_timer"`
	AttackCooldown float64    `json:"attack_cooldown"`
}

type RNGV1 struct {
	Seed  int32  `json:"seed"`
	Calls uint64 `json:"calls"`
}

// DecodeError reports where a save failed to load. Stage is one of open,
// decompress, header, body or validate.
type DecodeError struct {
	Path  string
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("save %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("save %s (%s): %v", e.Stage, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func FileName(tick uint64) string { return strconv.FormatUint(tick, 10) + fileSuffix }

func WriteSave(path string, s SaveV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Encode(f, s); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func Encode(w io.Writer, s SaveV1) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, _ := json.Marshal(s.Header)
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if err := json.NewEncoder(bw).Encode(&s); err != nil {
		_ = enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func ReadSave(path string) (SaveV1, error) {
	f, err := os.Open(path)
	if err != nil {
		return SaveV1{}, &DecodeError{Path: path, Stage: "open", Err: err}
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
		}
		return SaveV1{}, err
	}
	return s, nil
}

// Decode reads and validates one save. Every failure is a *DecodeError.
func Decode(r io.Reader) (SaveV1, error) {
	var s SaveV1
	dec, err := zstd.NewReader(r)
	if err != nil {
		return s, &DecodeError{Stage: "decompress", Err: err}
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return s, &DecodeError{Stage: "decompress", Err: err}
	}
	line, body, ok := bytes.Cut(raw, []byte{'\n'})
	if !ok {
		return s, &DecodeError{Stage: "header", Err: errors.New("missing header line")}
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return s, &DecodeError{Stage: "header", Err: err}
	}
	if h.Version != Version {
		return s, &DecodeError{Stage: "header", Err: fmt.Errorf("unsupported version %d", h.Version)}
	}
	d := json.NewDecoder(bytes.NewReader(body))
	d.DisallowUnknownFields()
	if err := d.Decode(&s); err != nil {
		return SaveV1{}, &DecodeError{Stage: "body", Err: err}
	}
	if s.Header != h {
		return SaveV1{}, &DecodeError{Stage: "header", Err: errors.New("header line does not match body")}
	}
	if err := Validate(s); err != nil {
		return SaveV1{}, &DecodeError{Stage: "validate", Err: err}
	}
	return s, nil
}

// Validate checks the structural invariants of a save. It does not know
// about catalogs; the world checks kinds on import.
func Validate(s SaveV1) error {
	if s.Header.Version != Version {
		return fmt.Errorf("header.version: want %d, got %d", Version, s.Header.Version)
	}
	if s.RNG.Seed != s.Seed {
		return fmt.Errorf("rng.seed %d does not match seed %d", s.RNG.Seed, s.Seed)
	}
	p := s.Player
	for i, v := range p.Pos {
		if !finite(v) {
			return fmt.Errorf("player.pos[%d] not finite", i)
		}
	}
	if err := checkGauge("player.health", p.Health); err != nil {
		return err
	}
	if err := checkGauge("player.stamina", p.Stamina); err != nil {
		return err
	}
	if p.Level < 1 || p.ExpToNext <= 0 || p.Experience < 0 || p.Gold < 0 {
		return fmt.Errorf("player stats out of range: level=%d exp=%d/%d gold=%d", p.Level, p.Experience, p.ExpToNext, p.Gold)
	}
	if !(s.Time.Hour >= 0 && s.Time.Hour < 24) || s.Time.Day < 1 {
		return fmt.Errorf("time out of range: hour=%v day=%d", s.Time.Hour, s.Time.Day)
	}
	wt := s.Weather
	if wt.Kind == "" {
		return errors.New("weather.kind empty")
	}
	if !(wt.Intensity >= 0 && wt.Intensity <= 1) || !(wt.Remaining >= 0) || !(wt.WindSpeed >= 0) || !finite(wt.Remaining) || !finite(wt.WindSpeed) || !finite(wt.WindAngle) {
		return fmt.Errorf("weather out of range: %+v", wt)
	}
	wv := s.World
	for name, v := range map[string]float64{
		"world.sim_seconds":       wv.SimSeconds,
		"world.distance_traveled": wv.DistanceTraveled,
		"world.attack_cooldown":   wv.AttackCooldown,
		"world.quest_timer":       wv.QuestTimer,
		"world.event_timer":       wv.EventTimer,
	} {
		if !finite(v) || v < 0 {
			return fmt.Errorf("%s out of range: %v", name, v)
		}
	}
	seen := map[string]bool{}
	for i, q := range s.Quests {
		if q.ID == "" || seen[q.ID] {
			return fmt.Errorf("quests[%d]: missing or duplicate id %q", i, q.ID)
		}
		seen[q.ID] = true
		if q.Target <= 0 || !(q.Current >= 0) || q.Current >= float64(q.Target) {
			return fmt.Errorf("quests[%d]: progress %v/%d out of range", i, q.Current, q.Target)
		}
	}
	ids := map[int]bool{}
	for i, e := range s.Enemies {
		if ids[e.ID] {
			return fmt.Errorf("enemies[%d]: duplicate id %d", i, e.ID)
		}
		ids[e.ID] = true
		if !(e.Health > 0) || e.Health > e.MaxHealth || !finite(e.MaxHealth) {
			return fmt.Errorf("enemies[%d]: health %v/%v out of range", i, e.Health, e.MaxHealth)
		}
		for j := 0; j < 3; j++ {
			if !finite(e.Pos[j]) || !finite(e.Target[j]) {
				return fmt.Errorf("enemies[%d]: position not finite", i)
			}
		}
		if !finite(e.StateTimer) || !finite(e.AttackCooldown) || !(e.Speed >= 0) || !(e.Damage >= 0) {
			return fmt.Errorf("enemies[%d]: timers or stats out of range", i)
		}
	}
	return nil
}

func checkGauge(name string, g GaugeV1) error {
	if !finite(g.Current) || !finite(g.Maximum) || !finite(g.RegenRate) {
		return fmt.Errorf("%s not finite", name)
	}
	if g.Current < 0 || g.Current > g.Maximum {
		return fmt.Errorf("%s %v outside [0, %v]", name, g.Current, g.Maximum)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// LatestSave returns the highest-tick save in dir, or "" when there is none.
func LatestSave(dir string) string {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestTick uint64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		tick, err := strconv.ParseUint(strings.TrimSuffix(name, fileSuffix), 10, 64)
		if err != nil {
			continue
		}
		if best == "" || tick > bestTick {
			bestTick = tick
			best = filepath.Join(dir, name)
		}
	}
	return best
}
