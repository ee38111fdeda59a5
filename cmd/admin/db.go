package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	runID := fs.String("run", "", "run id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	kind := fs.String("kind", "", "event kind filter (events)")
	_ = fs.Parse(args)

	q := "saves"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*runID) == "" {
			fmt.Fprintln(os.Stderr, "missing -run or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "runs", *runID, "index.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := runQuery(db, os.Stdout, q, *limit, *kind); err != nil {
		fmt.Fprintln(os.Stderr, q+":", err)
		os.Exit(1)
	}
}

func runQuery(db *sql.DB, out io.Writer, q string, limit int, kind string) error {
	if limit <= 0 {
		limit = 20
	}
	switch q {
	case "runs":
		return queryRuns(db, out)
	case "saves":
		return querySaves(db, out, limit)
	case "events":
		return queryEvents(db, out, limit, kind)
	case "event_counts":
		return queryEventCounts(db, out)
	case "ticks":
		return queryTicks(db, out, limit)
	case "catalogs":
		return queryCatalogs(db, out)
	default:
		return fmt.Errorf("unknown query %q (runs, saves, events, event_counts, ticks, catalogs)", q)
	}
}

func queryRuns(db *sql.DB, out io.Writer) error {
	rows, err := db.Query(`SELECT started_at,run_id,seed,difficulty,resumed_tick FROM runs ORDER BY started_at`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r struct {
			StartedAt   string `json:"started_at"`
			RunID       string `json:"run_id"`
			Seed        int64  `json:"seed"`
			Difficulty  string `json:"difficulty"`
			ResumedTick int64  `json:"resumed_tick"`
		}
		if err := rows.Scan(&r.StartedAt, &r.RunID, &r.Seed, &r.Difficulty, &r.ResumedTick); err != nil {
			return err
		}
		printJSON(out, r)
	}
	return rows.Err()
}

func querySaves(db *sql.DB, out io.Writer, limit int) error {
	rows, err := db.Query(`SELECT tick,path,seed,phase,level,score,enemies,quests FROM saves ORDER BY tick DESC LIMIT ?`, limit)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r struct {
			Tick    int64  `json:"tick"`
			Path    string `json:"path"`
			Seed    int64  `json:"seed"`
			Phase   string `json:"phase"`
			Level   int    `json:"level"`
			Score   int    `json:"score"`
			Enemies int    `json:"enemies"`
			Quests  int    `json:"quests"`
		}
		if err := rows.Scan(&r.Tick, &r.Path, &r.Seed, &r.Phase, &r.Level, &r.Score, &r.Enemies, &r.Quests); err != nil {
			return err
		}
		printJSON(out, r)
	}
	return rows.Err()
}

func queryEvents(db *sql.DB, out io.Writer, limit int, kind string) error {
	query := `SELECT tick,seq,kind,subject,amount,detail FROM game_events`
	qargs := []any{}
	if kind != "" {
		query += ` WHERE kind=?`
		qargs = append(qargs, kind)
	}
	query += ` ORDER BY tick DESC, seq DESC LIMIT ?`
	qargs = append(qargs, limit)

	rows, err := db.Query(query, qargs...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r struct {
			Tick    int64   `json:"tick"`
			Seq     int     `json:"seq"`
			Kind    string  `json:"kind"`
			Subject string  `json:"subject"`
			Amount  float64 `json:"amount"`
			Detail  string  `json:"detail"`
		}
		if err := rows.Scan(&r.Tick, &r.Seq, &r.Kind, &r.Subject, &r.Amount, &r.Detail); err != nil {
			return err
		}
		printJSON(out, r)
	}
	return rows.Err()
}

func queryEventCounts(db *sql.DB, out io.Writer) error {
	rows, err := db.Query(`SELECT kind,COUNT(*) FROM game_events GROUP BY kind ORDER BY kind`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r struct {
			Kind  string `json:"kind"`
			Count int    `json:"count"`
		}
		if err := rows.Scan(&r.Kind, &r.Count); err != nil {
			return err
		}
		printJSON(out, r)
	}
	return rows.Err()
}

func queryTicks(db *sql.DB, out io.Writer, limit int) error {
	rows, err := db.Query(`SELECT tick,dt,move_x,move_z,attack,digest FROM ticks ORDER BY tick DESC LIMIT ?`, limit)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r struct {
			Tick   int64   `json:"tick"`
			DT     float64 `json:"dt"`
			MoveX  float64 `json:"move_x"`
			MoveZ  float64 `json:"move_z"`
			Attack bool    `json:"attack"`
			Digest string  `json:"digest"`
		}
		var attack int
		if err := rows.Scan(&r.Tick, &r.DT, &r.MoveX, &r.MoveZ, &attack, &r.Digest); err != nil {
			return err
		}
		r.Attack = attack != 0
		printJSON(out, r)
	}
	return rows.Err()
}

func queryCatalogs(db *sql.DB, out io.Writer) error {
	rows, err := db.Query(`SELECT name,digest FROM catalogs ORDER BY name`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r struct {
			Name   string `json:"name"`
			Digest string `json:"digest"`
		}
		if err := rows.Scan(&r.Name, &r.Digest); err != nil {
			return err
		}
		printJSON(out, r)
	}
	return rows.Err()
}
