package main

import (
	"fmt"
	"net/http"

	"reckoning.game/internal/persistence/indexdb"
	"reckoning.game/internal/sim/world"
)

// metricsHandler writes a minimal Prometheus text exposition.
func metricsHandler(w *world.World, idx *indexdb.SQLiteIndex, sw *saveWriter) http.HandlerFunc {
	runID := w.RunID()
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		m := w.Metrics()
		tick := w.CurrentTick()
		if m.Tick != 0 {
			tick = m.Tick
		}

		fmt.Fprintf(rw, "# HELP reckoning_world_tick Current world tick.\n")
		fmt.Fprintf(rw, "# TYPE reckoning_world_tick gauge\n")
		fmt.Fprintf(rw, "reckoning_world_tick{run=%q} %d\n", runID, tick)

		fmt.Fprintf(rw, "# HELP reckoning_world_phase Current phase (1 for the active one).\n")
		fmt.Fprintf(rw, "# TYPE reckoning_world_phase gauge\n")
		for _, p := range []world.Phase{world.PhasePlaying, world.PhasePaused, world.PhaseDefeated} {
			v := 0
			if m.Phase == p {
				v = 1
			}
			fmt.Fprintf(rw, "reckoning_world_phase{run=%q,phase=%q} %d\n", runID, p, v)
		}

		fmt.Fprintf(rw, "# HELP reckoning_world_enemies Live enemies.\n")
		fmt.Fprintf(rw, "# TYPE reckoning_world_enemies gauge\n")
		fmt.Fprintf(rw, "reckoning_world_enemies{run=%q} %d\n", runID, m.Enemies)

		fmt.Fprintf(rw, "# HELP reckoning_world_active_quests Active quests.\n")
		fmt.Fprintf(rw, "# TYPE reckoning_world_active_quests gauge\n")
		fmt.Fprintf(rw, "reckoning_world_active_quests{run=%q} %d\n", runID, m.ActiveQuests)

		fmt.Fprintf(rw, "# HELP reckoning_world_anomalies_total Clamped deltas and rejected inputs.\n")
		fmt.Fprintf(rw, "# TYPE reckoning_world_anomalies_total counter\n")
		fmt.Fprintf(rw, "reckoning_world_anomalies_total{run=%q} %d\n", runID, m.Anomalies)

		client := 0
		if m.Client {
			client = 1
		}
		fmt.Fprintf(rw, "# HELP reckoning_world_client_attached Whether a client session is attached.\n")
		fmt.Fprintf(rw, "# TYPE reckoning_world_client_attached gauge\n")
		fmt.Fprintf(rw, "reckoning_world_client_attached{run=%q} %d\n", runID, client)

		fmt.Fprintf(rw, "# HELP reckoning_world_inbox_depth Input channel backlog.\n")
		fmt.Fprintf(rw, "# TYPE reckoning_world_inbox_depth gauge\n")
		fmt.Fprintf(rw, "reckoning_world_inbox_depth{run=%q} %d\n", runID, m.InboxDepth)

		fmt.Fprintf(rw, "# HELP reckoning_world_step_ms Last tick step duration in milliseconds.\n")
		fmt.Fprintf(rw, "# TYPE reckoning_world_step_ms gauge\n")
		fmt.Fprintf(rw, "reckoning_world_step_ms{run=%q} %.3f\n", runID, m.StepMS)

		if sw != nil {
			fmt.Fprintf(rw, "# HELP reckoning_saves_total Saves handled by the writer.\n")
			fmt.Fprintf(rw, "# TYPE reckoning_saves_total counter\n")
			fmt.Fprintf(rw, "reckoning_saves_total{run=%q,result=%q} %d\n", runID, "written", sw.written.Load())
			fmt.Fprintf(rw, "reckoning_saves_total{run=%q,result=%q} %d\n", runID, "failed", sw.failed.Load())
			fmt.Fprintf(rw, "reckoning_saves_total{run=%q,result=%q} %d\n", runID, "archived", sw.archived.Load())
		}

		if idx != nil {
			st := idx.Stats()
			fmt.Fprintf(rw, "# HELP reckoning_index_queue_depth Pending index writes.\n")
			fmt.Fprintf(rw, "# TYPE reckoning_index_queue_depth gauge\n")
			fmt.Fprintf(rw, "reckoning_index_queue_depth{run=%q} %d\n", runID, st.QueueDepth)
			fmt.Fprintf(rw, "reckoning_index_queue_capacity{run=%q} %d\n", runID, st.QueueCapacity)

			fmt.Fprintf(rw, "# HELP reckoning_index_dropped_total Index writes dropped on a full queue.\n")
			fmt.Fprintf(rw, "# TYPE reckoning_index_dropped_total counter\n")
			fmt.Fprintf(rw, "reckoning_index_dropped_total{run=%q,kind=%q} %d\n", runID, "tick", st.DropTickTotal)
			fmt.Fprintf(rw, "reckoning_index_dropped_total{run=%q,kind=%q} %d\n", runID, "event", st.DropEventTotal)
			fmt.Fprintf(rw, "reckoning_index_dropped_total{run=%q,kind=%q} %d\n", runID, "save", st.DropSaveTotal)
		}
	}
}
