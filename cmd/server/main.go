package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"reckoning.game/internal/persistence/indexdb"
	persistlog "reckoning.game/internal/persistence/log"
	"reckoning.game/internal/persistence/snapshot"
	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world"
	"reckoning.game/internal/transport/observer"
	"reckoning.game/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		runID      = flag.String("run", "", "run id (default: new uuid; an existing run resumes from its latest save)")
		seed       = flag.Int64("seed", 1337, "world seed (used only when starting a fresh run)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		difficulty = flag.String("difficulty", "", "override tuning difficulty (EASY, NORMAL, HARD, LEGENDARY)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite index (ticks, events, catalogs, save metadata)")
		withPprof  = flag.Bool("pprof", false, "serve /debug/pprof on loopback")

		savePath   = flag.String("save", "", "path to a save to load (optional)")
		loadLatest = flag.Bool("load_latest_save", true, "load the run's latest save if present (when -save is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	id := strings.TrimSpace(*runID)
	if id == "" {
		id = uuid.NewString()
	}
	runDir := filepath.Join(*dataDir, "runs", id)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		logger.Fatalf("create run dir: %v", err)
	}

	saveToLoad := strings.TrimSpace(*savePath)
	if saveToLoad == "" && *loadLatest {
		saveToLoad = snapshot.LatestSave(filepath.Join(runDir, savesDir))
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}
	if d := tuning.Difficulty(strings.ToUpper(strings.TrimSpace(*difficulty))); d != "" {
		if !d.Valid() {
			logger.Fatalf("unknown difficulty %q", *difficulty)
		}
		tune.Difficulty = d
	}

	cfg := world.WorldConfig{RunID: id, Seed: *seed, Tuning: tune}
	var w *world.World
	if saveToLoad != "" {
		s, err := snapshot.ReadSave(saveToLoad)
		if err != nil {
			logger.Fatalf("read save: %v", err)
		}
		w, err = world.Restore(cfg, cats, s)
		if err != nil {
			logger.Fatalf("restore save: %v", err)
		}
		logger.Printf("resumed run=%s from save=%s tick=%d", id, filepath.Base(saveToLoad), w.CurrentTick())
	} else {
		w, err = world.New(cfg, cats)
		if err != nil {
			logger.Fatalf("world: %v", err)
		}
		logger.Printf("new run=%s seed=%d difficulty=%s", id, w.Seed(), tune.Difficulty)
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(runDir, "index.sqlite"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.RecordRun(id, w.Seed(), string(tune.Difficulty), w.CurrentTick()); err != nil {
			logger.Printf("index: record run: %v", err)
		}
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
	}

	tickLog := persistlog.NewTickLogger(runDir)
	eventLog := persistlog.NewEventLogger(runDir)
	defer tickLog.Close()
	defer eventLog.Close()
	if idx != nil {
		w.SetTickLogger(multiTickLogger{a: tickLog, b: idx})
		w.SetEventLogger(multiEventLogger{a: eventLog, b: idx})
	} else {
		w.SetTickLogger(tickLog)
		w.SetEventLogger(eventLog)
	}

	saveCh := make(chan snapshot.SaveV1, 2)
	w.SetSaveSink(saveCh)
	sw := &saveWriter{runDir: runDir, logger: logger}
	if idx != nil {
		sw.index = idx
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", metricsHandler(w, idx, sw))
	obsSrv := observer.NewServer(w, logger)
	mux.HandleFunc("/v1/state", obsSrv.StateHandler())
	mux.HandleFunc("/v1/observe", obsSrv.WSHandler())
	mux.HandleFunc("/v1/ws", ws.NewServer(w, logger).Handler())
	if *withPprof {
		mux.HandleFunc("/debug/pprof/", loopbackOnly(pprof.Index))
		mux.HandleFunc("/debug/pprof/cmdline", loopbackOnly(pprof.Cmdline))
		mux.HandleFunc("/debug/pprof/profile", loopbackOnly(pprof.Profile))
		mux.HandleFunc("/debug/pprof/symbol", loopbackOnly(pprof.Symbol))
		mux.HandleFunc("/debug/pprof/trace", loopbackOnly(pprof.Trace))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := w.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		sw.run(gctx, saveCh)
		return nil
	})
	g.Go(func() error {
		logger.Printf("listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		return srv.Shutdown(ctx2)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("server: %v", err)
	}
	logger.Printf("stopped run=%s tick=%d", id, w.CurrentTick())
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func loopbackOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		h(rw, r)
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}

type multiTickLogger struct {
	a world.TickLogger
	b world.TickLogger
}

func (m multiTickLogger) WriteTick(e world.TickLogEntry) error {
	err := m.a.WriteTick(e)
	if m.b != nil {
		_ = m.b.WriteTick(e)
	}
	return err
}

type multiEventLogger struct {
	a world.EventLogger
	b world.EventLogger
}

func (m multiEventLogger) WriteEvent(e world.GameEvent) error {
	err := m.a.WriteEvent(e)
	if m.b != nil {
		_ = m.b.WriteEvent(e)
	}
	return err
}
