package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"
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

func startServer(t *testing.T) string {
	t.Helper()
	w, err := world.New(world.WorldConfig{RunID: "ws", Seed: 42, Tuning: tuning.Defaults()}, catalogs.Defaults())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()

	srv := httptest.NewServer(NewServer(w, log.New(io.Discard, "", 0)).Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readBase(t *testing.T, conn *websocket.Conn) (protocol.BaseMessage, []byte) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	base, err := protocol.DecodeBase(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return base, b
}

func hello() protocol.HelloMsg {
	return protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, ClientName: "test"}
}

func TestHandler_HelloInputState(t *testing.T) {
	url := startServer(t)
	conn := dial(t, url)
	send(t, conn, hello())

	base, b := readBase(t, conn)
	if base.Type != protocol.TypeWelcome {
		t.Fatalf("expected WELCOME, got %s", base.Type)
	}
	var welcome protocol.WelcomeMsg
	_ = json.Unmarshal(b, &welcome)
	if welcome.SessionID == "" || welcome.WorldParams.Seed != 42 || welcome.Catalogs.TuningDigest == "" {
		t.Fatalf("unexpected welcome %+v", welcome)
	}

	send(t, conn, protocol.InputMsg{Type: protocol.TypeInput, ProtocolVersion: protocol.Version, Seq: 9, Move: [2]float64{1, 0}})
	for i := 0; i < 200; i++ {
		base, b := readBase(t, conn)
		if base.Type != protocol.TypeState {
			continue
		}
		var st protocol.StateMsg
		_ = json.Unmarshal(b, &st)
		if st.LastInputSeq == 9 {
			return
		}
	}
	t.Fatalf("input never acknowledged")
}

func TestHandler_SecondSessionBusy(t *testing.T) {
	url := startServer(t)
	first := dial(t, url)
	send(t, first, hello())
	if base, _ := readBase(t, first); base.Type != protocol.TypeWelcome {
		t.Fatalf("expected WELCOME, got %s", base.Type)
	}

	second := dial(t, url)
	send(t, second, hello())
	base, b := readBase(t, second)
	var em protocol.ErrorMsg
	_ = json.Unmarshal(b, &em)
	if base.Type != protocol.TypeError || em.Code != protocol.ErrWorldBusy {
		t.Fatalf("expected %s, got %s", protocol.ErrWorldBusy, b)
	}
}

func TestHandler_RejectsBadVersion(t *testing.T) {
	url := startServer(t)
	conn := dial(t, url)
	send(t, conn, protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: "9.9"})
	_, b := readBase(t, conn)
	var em protocol.ErrorMsg
	_ = json.Unmarshal(b, &em)
	if em.Code != protocol.ErrProtoVersion {
		t.Fatalf("expected %s, got %s", protocol.ErrProtoVersion, b)
	}
}

func TestDecodeInput(t *testing.T) {
	cases := []struct {
		raw  string
		code string
	}{
		{`{"type":"INPUT","protocol_version":"1.0","seq":1,"move":[0.5,0.5],"attack":true}`, ""},
		{`{"type":"INPUT","protocol_version":"1.0","seq":2,"move":[0,0],"control":"PAUSE"}`, ""},
		{`not json`, protocol.ErrProtoBadRequest},
		{`{"type":"HELLO","protocol_version":"1.0"}`, protocol.ErrProtoUnsupported},
		{`{"type":"INPUT","protocol_version":"2.0","seq":1,"move":[0,0]}`, protocol.ErrProtoVersion},
		{`{"type":"INPUT","protocol_version":"1.0","seq":1,"move":"up"}`, protocol.ErrBadRequest},
		{`{"type":"INPUT","protocol_version":"1.0","seq":1,"move":[0,0],"control":"JUMP"}`, protocol.ErrBadRequest},
	}
	for _, c := range cases {
		env, code, _ := decodeInput([]byte(c.raw))
		if code != c.code {
			t.Fatalf("%s: code=%q want %q", c.raw, code, c.code)
		}
		if code == "" && env.Seq == 1 && (!env.Input.Attack || env.Input.MoveX != 0.5) {
			t.Fatalf("%s: decoded %+v", c.raw, env)
		}
	}
}
