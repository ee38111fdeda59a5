package world

import (
	"context"
	"encoding/json"
	"time"

	"reckoning.game/internal/protocol"
)

// InputEnvelope is one client input routed into the world loop.
type InputEnvelope struct {
	SessionID string
	Seq       uint64
	Input     Input
	Control   string
}

type AttachRequest struct {
	SessionID string
	Out       chan []byte
	Resp      chan AttachResponse
}

type AttachResponse struct {
	Welcome protocol.WelcomeMsg
	// ErrCode is set when the attach was refused.
	ErrCode string
}

// StateRequest asks the loop for a snapshot between ticks.
type StateRequest struct {
	Resp chan Snapshot
}

type clientState struct {
	SessionID string
	Out       chan []byte
	LastSeq   uint64

	defeatSent bool
}

func (w *World) Inbox() chan<- InputEnvelope        { return w.inbox }
func (w *World) Attach() chan<- AttachRequest       { return w.attach }
func (w *World) Leave() chan<- string               { return w.leave }
func (w *World) StateRequests() chan<- StateRequest { return w.stateReq }

// Run drives the world at the tuned tick rate with a fixed step of
// 1/tick_rate_hz seconds until ctx is done or Stop is called. Inputs that
// arrive between ticks are merged: the latest move wins and any attack counts.
func (w *World) Run(ctx context.Context) error {
	rate := w.tune.TickRateHz
	interval := time.Second / time.Duration(rate)
	dt := 1.0 / float64(rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending Input
	var controls []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.attach:
			w.handleAttach(req)
		case id := <-w.leave:
			w.handleLeave(id)
		case req := <-w.stateReq:
			req.Resp <- w.Snapshot()
		case env := <-w.inbox:
			if w.client == nil || env.SessionID != w.client.SessionID {
				continue
			}
			if env.Seq > w.client.LastSeq {
				w.client.LastSeq = env.Seq
			}
			if w.phase == PhaseDefeated {
				w.notifyDefeated()
				continue
			}
			if env.Control != "" {
				controls = append(controls, env.Control)
				continue
			}
			pending.MoveX, pending.MoveZ = env.Input.MoveX, env.Input.MoveZ
			pending.Attack = pending.Attack || env.Input.Attack
		case <-ticker.C:
			for _, c := range controls {
				w.applyControl(c)
			}
			controls = controls[:0]
			start := time.Now()
			snap := w.Tick(dt, pending)
			w.recordStep(time.Since(start))
			pending.Attack = false
			w.broadcast(snap)
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// RequestSnapshot asks the running loop for a snapshot taken between ticks.
func (w *World) RequestSnapshot(ctx context.Context) (Snapshot, error) {
	req := StateRequest{Resp: make(chan Snapshot, 1)}
	select {
	case w.stateReq <- req:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case s := <-req.Resp:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// StepOnce advances the world by a single tick using the same ordering
// semantics as Run. It is primarily intended for deterministic replays/tests.
func (w *World) StepOnce(dt float64, in Input) (tick uint64, digest string) {
	tick = w.tick
	snap := w.Tick(dt, in)
	return tick, snap.Digest
}

func (w *World) applyControl(c string) {
	switch c {
	case protocol.ControlPause:
		w.Pause()
	case protocol.ControlResume:
		w.Resume()
	}
}

func (w *World) handleAttach(req AttachRequest) {
	if req.Out == nil || req.SessionID == "" {
		if req.Resp != nil {
			req.Resp <- AttachResponse{ErrCode: protocol.ErrBadRequest}
		}
		return
	}
	if w.client != nil {
		if req.Resp != nil {
			req.Resp <- AttachResponse{ErrCode: protocol.ErrWorldBusy}
		}
		return
	}
	w.client = &clientState{SessionID: req.SessionID, Out: req.Out}
	if req.Resp != nil {
		req.Resp <- AttachResponse{Welcome: w.welcome(req.SessionID)}
	}
	w.publishMetrics()
}

func (w *World) handleLeave(sessionID string) {
	if w.client != nil && w.client.SessionID == sessionID {
		w.client = nil
		w.publishMetrics()
	}
}

func (w *World) welcome(sessionID string) protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		RunID:           w.cfg.RunID,
		SessionID:       sessionID,
		WorldParams: protocol.WorldParams{
			TickRateHz: w.tune.TickRateHz,
			Seed:       w.seed,
			Difficulty: string(w.tune.Difficulty),
			TimeScale:  w.tune.TimeScale,
			WorldBound: w.tune.WorldBound,
		},
		Catalogs: protocol.CatalogDigests{
			EnemiesDigest: w.catalogs.Enemies.Digest,
			EventsDigest:  w.catalogs.Events.Digest,
			TuningDigest:  w.tune.Digest(),
		},
	}
}

func (w *World) broadcast(snap Snapshot) {
	cl := w.client
	if cl == nil {
		return
	}
	msg := StateMsg(snap)
	msg.LastInputSeq = cl.LastSeq
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	sendLatest(cl.Out, b)
}

// notifyDefeated tells the client once that its inputs are being ignored.
func (w *World) notifyDefeated() {
	cl := w.client
	if cl == nil || cl.defeatSent {
		return
	}
	b, err := json.Marshal(protocol.NewError(protocol.ErrWorldDefeated, "player defeated; inputs are ignored"))
	if err != nil {
		return
	}
	cl.defeatSent = true
	sendLatest(cl.Out, b)
}

// sendLatest never blocks the loop: when the client queue is full the oldest
// frame is dropped.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
