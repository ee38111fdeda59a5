package world_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"reckoning.game/internal/persistence/snapshot"
	"reckoning.game/internal/protocol"
	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world"
	"reckoning.game/internal/sim/world/mocks"
)

func newWorld(t *testing.T, tune tuning.Tuning) *world.World {
	t.Helper()
	w, err := world.New(world.WorldConfig{RunID: "loop", Seed: 42, Tuning: tune}, catalogs.Defaults())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func TestTick_WritesLogs(t *testing.T) {
	ctrl := gomock.NewController(t)
	ticks := mocks.NewMockTickLogger(ctrl)
	evs := mocks.NewMockEventLogger(ctrl)

	w := newWorld(t, tuning.Defaults())
	w.SetTickLogger(ticks)
	w.SetEventLogger(evs)

	var seen []world.TickLogEntry
	ticks.EXPECT().WriteTick(gomock.Any()).DoAndReturn(func(e world.TickLogEntry) error {
		seen = append(seen, e)
		return nil
	}).Times(3)
	evs.EXPECT().WriteEvent(gomock.Any()).Return(nil).AnyTimes()

	var last world.Snapshot
	for i := 0; i < 3; i++ {
		last = w.Tick(1.0/60, world.Input{MoveX: 1})
	}
	if len(seen) != 3 || seen[0].Tick != 0 || seen[2].Tick != 2 {
		t.Fatalf("unexpected tick log %+v", seen)
	}
	if seen[2].Digest != last.Digest {
		t.Fatalf("logged digest does not match snapshot")
	}
}

func TestTick_PausedWritesNoLogs(t *testing.T) {
	ctrl := gomock.NewController(t)
	ticks := mocks.NewMockTickLogger(ctrl)
	w := newWorld(t, tuning.Defaults())
	w.SetTickLogger(ticks)
	w.Pause()

	ticks.EXPECT().WriteTick(gomock.Any()).Times(0)
	w.Tick(1.0/60, world.Input{})
}

func TestTick_EmitsSaves(t *testing.T) {
	tune := tuning.Defaults()
	tune.SaveEveryTicks = 5
	w := newWorld(t, tune)
	sink := make(chan snapshot.SaveV1, 4)
	w.SetSaveSink(sink)

	for i := 0; i < 10; i++ {
		w.Tick(1.0/60, world.Input{})
	}
	if len(sink) != 2 {
		t.Fatalf("expected 2 saves, got %d", len(sink))
	}
	if s := <-sink; s.Header.Tick != 5 {
		t.Fatalf("expected save at tick 5, got %d", s.Header.Tick)
	}
}

func TestRun_AttachInputAndState(t *testing.T) {
	w := newWorld(t, tuning.Defaults())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	out := make(chan []byte, 8)
	resp := make(chan world.AttachResponse, 1)
	w.Attach() <- world.AttachRequest{SessionID: "s1", Out: out, Resp: resp}
	ar := <-resp
	if ar.ErrCode != "" || ar.Welcome.SessionID != "s1" || ar.Welcome.WorldParams.Seed != 42 {
		t.Fatalf("unexpected attach response %+v", ar)
	}

	busy := make(chan world.AttachResponse, 1)
	w.Attach() <- world.AttachRequest{SessionID: "s2", Out: make(chan []byte, 1), Resp: busy}
	if r := <-busy; r.ErrCode != protocol.ErrWorldBusy {
		t.Fatalf("expected %s, got %+v", protocol.ErrWorldBusy, r)
	}

	w.Inbox() <- world.InputEnvelope{SessionID: "s1", Seq: 7, Input: world.Input{MoveX: 1}}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case b := <-out:
			var msg protocol.StateMsg
			if err := json.Unmarshal(b, &msg); err != nil {
				t.Fatalf("decode state: %v", err)
			}
			if msg.Type != protocol.TypeState {
				t.Fatalf("unexpected type %q", msg.Type)
			}
			if msg.LastInputSeq < 7 {
				continue
			}
			req := world.StateRequest{Resp: make(chan world.Snapshot, 1)}
			w.StateRequests() <- req
			if s := <-req.Resp; s.Player.Pos.X <= 0 {
				t.Fatalf("input not applied: %+v", s.Player.Pos)
			}
			cancel()
			<-done
			return
		case <-deadline:
			t.Fatalf("no state with acknowledged input")
		}
	}
}

func TestRun_PauseControl(t *testing.T) {
	w := newWorld(t, tuning.Defaults())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	resp := make(chan world.AttachResponse, 1)
	w.Attach() <- world.AttachRequest{SessionID: "s1", Out: make(chan []byte, 1), Resp: resp}
	<-resp
	w.Inbox() <- world.InputEnvelope{SessionID: "s1", Seq: 1, Control: protocol.ControlPause}

	deadline := time.Now().Add(5 * time.Second)
	for {
		req := world.StateRequest{Resp: make(chan world.Snapshot, 1)}
		w.StateRequests() <- req
		if s := <-req.Resp; s.Phase == world.PhasePaused {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("world never paused")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
