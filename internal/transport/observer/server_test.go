package observer

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"reckoning.game/internal/protocol"
	"reckoning.game/internal/sim/catalogs"
	"reckoning.game/internal/sim/tuning"
	"reckoning.game/internal/sim/world"
)

func runningWorld(t *testing.T) *world.World {
	t.Helper()
	w, err := world.New(world.WorldConfig{RunID: "obs", Seed: 7, Tuning: tuning.Defaults()}, catalogs.Defaults())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = w.Run(ctx) }()
	return w
}

func TestStateHandler(t *testing.T) {
	s := NewServer(runningWorld(t), log.New(io.Discard, "", 0))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	req.RemoteAddr = "127.0.0.1:5000"
	s.StateHandler()(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var msg protocol.StateMsg
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != protocol.TypeState || len(msg.Digest) != 64 {
		t.Fatalf("unexpected state %+v", msg)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	req.RemoteAddr = "10.0.0.8:5000"
	s.StateHandler()(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestWSHandler_Streams(t *testing.T) {
	s := NewServer(runningWorld(t), log.New(io.Discard, "", 0))
	srv := httptest.NewServer(s.WSHandler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"?hz=30", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var prev uint64
	for i := 0; i < 3; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg protocol.StateMsg
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if i > 0 && msg.Tick <= prev {
			t.Fatalf("tick did not advance: %d after %d", msg.Tick, prev)
		}
		prev = msg.Tick
	}
}

func TestParseHz(t *testing.T) {
	if parseHz("") != defaultHz || parseHz("-3") != defaultHz || parseHz("500") != maxHz || parseHz("5") != 5 {
		t.Fatalf("parseHz bounds wrong")
	}
}
