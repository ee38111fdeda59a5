// Package indexdb keeps a queryable SQLite index of a run next to its JSONL
// logs. The logs remain the source of truth; the index may drop rows when the
// writer falls behind.
package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"reckoning.game/internal/persistence/snapshot"
	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world"
)

const schemaVersion = "1"

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropTick  atomic.Uint64
	dropEvent atomic.Uint64
	dropSave  atomic.Uint64
}

type Stats struct {
	QueueDepth     int    `json:"queue_depth"`
	QueueCapacity  int    `json:"queue_capacity"`
	DropTickTotal  uint64 `json:"drop_tick_total"`
	DropEventTotal uint64 `json:"drop_event_total"`
	DropSaveTotal  uint64 `json:"drop_save_total"`
}

type reqKind int

const (
	reqTick reqKind = iota + 1
	reqEvent
	reqSave
)

type req struct {
	kind reqKind

	tick  world.TickLogEntry
	event world.GameEvent
	save  saveRow
}

type saveRow struct {
	Tick       uint64
	Path       string
	Seed       int32
	Phase      string
	Level      int
	Score      int
	Enemies    int
	Quests     int
	RecordedAt string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	return openSQLite(path, 65536)
}

func openSQLite(path string, queue int) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, queue),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			started_at TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			resumed_tick INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			tick INTEGER PRIMARY KEY,
			dt REAL NOT NULL,
			move_x REAL NOT NULL,
			move_z REAL NOT NULL,
			attack INTEGER NOT NULL,
			digest TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS game_events (
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			subject TEXT,
			amount REAL NOT NULL,
			detail TEXT,
			PRIMARY KEY (tick, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_game_events_kind_tick ON game_events(kind, tick);`,
		`CREATE TABLE IF NOT EXISTS saves (
			tick INTEGER PRIMARY KEY,
			path TEXT NOT NULL,
			seed INTEGER NOT NULL,
			phase TEXT NOT NULL,
			level INTEGER NOT NULL,
			score INTEGER NOT NULL,
			enemies INTEGER NOT NULL,
			quests INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	_, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version',?)`, schemaVersion)
	return err
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:     len(s.ch),
		QueueCapacity:  cap(s.ch),
		DropTickTotal:  s.dropTick.Load(),
		DropEventTotal: s.dropEvent.Load(),
		DropSaveTotal:  s.dropSave.Load(),
	}
}

func (s *SQLiteIndex) enqueue(r req, drops *atomic.Uint64) {
	select {
	case s.ch <- r:
	default:
		// Drop if the indexer falls behind; JSONL logs remain the source of truth.
		drops.Add(1)
	}
}

func (s *SQLiteIndex) WriteTick(entry world.TickLogEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	s.enqueue(req{kind: reqTick, tick: entry}, &s.dropTick)
	return nil
}

func (s *SQLiteIndex) WriteEvent(ev world.GameEvent) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	s.enqueue(req{kind: reqEvent, event: ev}, &s.dropEvent)
	return nil
}

func (s *SQLiteIndex) RecordSave(path string, sv snapshot.SaveV1) {
	if s == nil || s.closed.Load() {
		return
	}
	r := saveRow{
		Tick:       sv.Header.Tick,
		Path:       path,
		Seed:       sv.Seed,
		Phase:      sv.Phase,
		Level:      sv.Player.Level,
		Score:      sv.Player.Score,
		Enemies:    len(sv.Enemies),
		Quests:     len(sv.Quests),
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	s.enqueue(req{kind: reqSave, save: r}, &s.dropSave)
}

// RecordRun notes a server start against this run. resumedTick is 0 for a
// fresh run.
func (s *SQLiteIndex) RecordRun(runID string, seed int32, difficulty string, resumedTick uint64) error {
	if s == nil {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO runs(started_at,run_id,seed,difficulty,resumed_tick) VALUES(?,?,?,?,?)`,
		time.Now().UTC().Format(time.RFC3339Nano), runID, seed, difficulty, int64(resumedTick),
	)
	return err
}

// UpsertCatalogs stores the catalogs and the tuning the run was started with.
// Raw config files are stored when present; otherwise the canonical JSON.
func (s *SQLiteIndex) UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	read := func(file string, fallback any) []byte {
		if configDir != "" {
			if b, err := os.ReadFile(filepath.Join(configDir, file)); err == nil {
				return b
			}
		}
		b, _ := json.Marshal(fallback)
		return b
	}
	rows := []kv{
		{name: "enemies", digest: cats.Enemies.Digest, json: read("enemies.json", cats.Enemies.Kinds)},
		{name: "events", digest: cats.Events.Digest, json: read("events.json", cats.Events.Events)},
	}
	{
		// Tuning: store the values we actually apply (canonical JSON).
		b, _ := json.Marshal(tune)
		rows = append(rows, kv{name: "tuning", digest: tune.Digest(), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// TickDigest returns the digest indexed for tick, if any.
func (s *SQLiteIndex) TickDigest(ctx context.Context, tick uint64) (string, bool, error) {
	var d string
	err := s.db.QueryRowContext(ctx, `SELECT digest FROM ticks WHERE tick=?`, int64(tick)).Scan(&d)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return d, true, nil
}

// EventCounts returns the number of indexed events per kind.
func (s *SQLiteIndex) EventCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM game_events GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[kind] = n
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	// Prepared statements (on db; executed within tx).
	insertTick, _ := s.db.Prepare(`INSERT OR REPLACE INTO ticks(tick,dt,move_x,move_z,attack,digest) VALUES(?,?,?,?,?,?)`)
	insertEvent, _ := s.db.Prepare(`INSERT OR REPLACE INTO game_events(tick,seq,kind,subject,amount,detail) VALUES(?,?,?,?,?,?)`)
	insertSave, _ := s.db.Prepare(`INSERT OR REPLACE INTO saves(tick,path,seed,phase,level,score,enemies,quests,recorded_at) VALUES(?,?,?,?,?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertTick, insertEvent, insertSave} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second

		lastEventTick uint64
		eventSeq      int
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) {
		if st == nil || tx == nil {
			return
		}
		if _, err := tx.Stmt(st).Exec(args...); err != nil {
			rollback()
			return
		}
		opCount++
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqTick:
			t := r.tick
			exec(insertTick, int64(t.Tick), t.DT, t.Input.MoveX, t.Input.MoveZ, boolInt(t.Input.Attack), t.Digest)

		case reqEvent:
			ev := r.event
			if ev.Tick != lastEventTick {
				lastEventTick = ev.Tick
				eventSeq = 0
			}
			seq := eventSeq
			eventSeq++
			exec(insertEvent, int64(ev.Tick), seq, string(ev.Kind), ev.Subject, ev.Amount, ev.Detail)

		case reqSave:
			sv := r.save
			exec(insertSave, int64(sv.Tick), sv.Path, sv.Seed, sv.Phase, sv.Level, sv.Score, sv.Enemies, sv.Quests, sv.RecordedAt)
		}
		if tx != nil && (len(s.ch) == 0 || opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var (
	_ world.TickLogger  = (*SQLiteIndex)(nil)
	_ world.EventLogger = (*SQLiteIndex)(nil)
)
