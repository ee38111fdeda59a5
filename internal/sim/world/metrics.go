package world

import "time"

type WorldMetrics struct {
	Tick         uint64  `json:"tick"`
	Phase        Phase   `json:"phase"`
	Enemies      int     `json:"enemies"`
	ActiveQuests int     `json:"active_quests"`
	Anomalies    uint64  `json:"anomalies"`
	Client       bool    `json:"client_attached"`
	InboxDepth   int     `json:"inbox_depth"`
	StepMS       float64 `json:"step_ms"`
}

// Metrics is safe to call from any goroutine.
func (w *World) Metrics() WorldMetrics {
	if v, ok := w.metrics.Load().(WorldMetrics); ok {
		return v
	}
	return WorldMetrics{}
}

func (w *World) publishMetrics() {
	prev := w.Metrics()
	w.metrics.Store(WorldMetrics{
		Tick:         w.tick,
		Phase:        w.phase,
		Enemies:      len(w.enemies),
		ActiveQuests: w.quests.Len(),
		Anomalies:    w.anomalies,
		Client:       w.client != nil,
		InboxDepth:   len(w.inbox),
		StepMS:       prev.StepMS,
	})
}

func (w *World) recordStep(d time.Duration) {
	m := w.Metrics()
	m.StepMS = float64(d.Microseconds()) / 1000.0
	w.metrics.Store(m)
}

// maybeEmitSave hands a save to the sink every save_every_ticks ticks and
// once more on the tick the player is defeated.
func (w *World) maybeEmitSave() {
	if w.saveSink == nil {
		return
	}
	every := uint64(w.tune.SaveEveryTicks)
	onCadence := every != 0 && w.tick%every == 0
	if !onCadence && w.phase != PhaseDefeated {
		return
	}
	select {
	case w.saveSink <- w.ExportSave():
	default:
		// Drop save if sink is backed up.
	}
}
