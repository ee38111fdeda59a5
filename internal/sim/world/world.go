package world

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"reckoning.game/internal/persistence/snapshot"
	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world/feature/clock"
	"reckoning.game/internal/sim/world/feature/combat"
	"reckoning.game/internal/sim/world/feature/enemies"
	"reckoning.game/internal/sim/world/feature/quests"
	"reckoning.game/internal/sim/world/feature/weather"
	"reckoning.game/internal/sim/world/kernel/model"
	"reckoning.game/internal/sim/world/logic/rng"
	"reckoning.game/internal/sim/world/terrain/gen"
)

var ErrInvalidSeed = errors.New("invalid seed")

type WorldConfig struct {
	// RunID names this session in logs, saves and the index.
	RunID  string
	Seed   int64
	Tuning tuning.Tuning
}

type Phase string

const (
	PhasePlaying  Phase = "PLAYING"
	PhasePaused   Phase = "PAUSED"
	PhaseDefeated Phase = "DEFEATED"
)

// Input is one step's worth of player intent.
type Input struct {
	MoveX  float64 `json:"move_x"`
	MoveZ  float64 `json:"move_z"`
	Attack bool    `json:"attack,omitempty"`
}

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the goroutine driving Tick (or Run).
type World struct {
	cfg      WorldConfig
	tune     tuning.Tuning
	catalogs *catalogs.Catalogs

	seed     int32
	terrain  *gen.Sampler
	rng      *rng.Rand
	enemyCfg enemies.Config
	resolver combat.Resolver

	tick  uint64
	phase Phase

	player  model.Player
	biome   gen.Biome
	clock   clock.TimeOfDay
	weather weather.State
	enemies []model.Enemy
	quests  quests.Log

	simSeconds       float64
	attackCooldown   float64
	questTimer       float64
	eventTimer       float64
	enemiesDefeated  int
	questsCompleted  int
	distanceTraveled float64
	anomalies        uint64

	// Events emitted by the tick in progress.
	events []GameEvent

	// Optional loggers (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	eventLogger EventLogger

	// Optional save sink (may be nil). Save writing should be off-thread.
	saveSink chan<- snapshot.SaveV1

	// Run loop plumbing; unused when the world is driven through Tick directly.
	inbox    chan InputEnvelope
	attach   chan AttachRequest
	leave    chan string
	stateReq chan StateRequest
	stop     chan struct{}
	client   *clientState

	currentTick atomic.Uint64
	metrics     atomic.Value
}

func New(cfg WorldConfig, cats *catalogs.Catalogs) (*World, error) {
	if cfg.Seed < math.MinInt32 || cfg.Seed > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d outside int32", ErrInvalidSeed, cfg.Seed)
	}
	if cats == nil || len(cats.Enemies.Kinds) == 0 {
		return nil, errors.New("world: enemy catalog is empty")
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("world: tuning: %w", err)
	}
	seed := int32(cfg.Seed)
	t := cfg.Tuning
	w := &World{
		cfg:      cfg,
		tune:     t,
		catalogs: cats,
		seed:     seed,
		terrain:  gen.New(seed, terrainParams(t)),
		rng:      rng.New(seed),
		enemyCfg: enemies.ConfigFromTuning(t),
		resolver: combat.NewResolver(t),
		phase:    PhasePlaying,
		player:   model.NewPlayer(),
		clock:    clock.Start(),
		weather:  weather.Initial(),
		inbox:    make(chan InputEnvelope, 1024),
		attach:   make(chan AttachRequest, 8),
		leave:    make(chan string, 8),
		stateReq: make(chan StateRequest, 64),
		stop:     make(chan struct{}),
	}
	w.player.Pos.Y = w.terrain.SurfaceY(0, 0)
	w.biome = w.terrain.BiomeAt(0, 0)
	w.enemies = enemies.Spawn(seed, cats.Enemies.Kinds, w.terrain.SurfaceY, w.enemyCfg)
	w.publishMetrics()
	return w, nil
}

func terrainParams(t tuning.Tuning) gen.Params {
	return gen.Params{
		WaterLevel:     t.Terrain.WaterLevel,
		RiverCenterZ:   t.Terrain.RiverCenterZ,
		RiverMeander:   t.Terrain.RiverMeander,
		RiverFrequency: t.Terrain.RiverFrequency,
		RiverHalfWidth: t.Terrain.RiverHalfWidth,
		RiverDepth:     t.Terrain.RiverDepth,
	}
}

func (w *World) SetTickLogger(l TickLogger)            { w.tickLogger = l }
func (w *World) SetEventLogger(l EventLogger)          { w.eventLogger = l }
func (w *World) SetSaveSink(ch chan<- snapshot.SaveV1) { w.saveSink = ch }

func (w *World) RunID() string                { return w.cfg.RunID }
func (w *World) Seed() int32                  { return w.seed }
func (w *World) Tuning() tuning.Tuning        { return w.tune }
func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }
func (w *World) Phase() Phase                 { return w.phase }

// Terrain exposes the sampler the world uses so renderers and tools see the
// same heights as the simulation.
func (w *World) Terrain() *gen.Sampler { return w.terrain }

// CurrentTick is safe to call from any goroutine.
func (w *World) CurrentTick() uint64 { return w.currentTick.Load() }

// Pause freezes the simulation; Tick returns the snapshot unchanged.
func (w *World) Pause() {
	if w.phase == PhasePlaying {
		w.phase = PhasePaused
		w.publishMetrics()
	}
}

func (w *World) Resume() {
	if w.phase == PhasePaused {
		w.phase = PhasePlaying
		w.publishMetrics()
	}
}
