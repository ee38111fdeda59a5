// Package observer serves read-only views of the running world to local
// tools: a one-shot state endpoint and a sampled STATE stream.
package observer

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"reckoning.game/internal/sim/world"
)

const (
	defaultHz = 10
	maxHz     = 60
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	return &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// StateHandler returns the current STATE message as JSON.
func (s *Server) StateHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		snap, err := s.world.RequestSnapshot(ctx)
		if err != nil {
			http.Error(rw, "world not responding", http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(world.StateMsg(snap))
	}
}

// WSHandler streams STATE messages at ?hz= (default 10, max 60). Ticks in
// between are skipped.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		hz := parseHz(r.URL.Query().Get("hz"))

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Reader goroutine: observers send nothing; a read error means gone.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(time.Second / time.Duration(hz))
		defer ticker.Stop()
		var lastTick uint64
		sent := false
		for {
			select {
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
				return
			case <-ticker.C:
			}
			if sent && s.world.CurrentTick() == lastTick {
				continue
			}
			rctx, rcancel := context.WithTimeout(ctx, time.Second)
			snap, err := s.world.RequestSnapshot(rctx)
			rcancel()
			if err != nil {
				continue
			}
			b, err := json.Marshal(world.StateMsg(snap))
			if err != nil {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
			lastTick, sent = snap.Tick, true
		}
	}
}

func parseHz(v string) int {
	hz, err := strconv.Atoi(v)
	if err != nil || hz <= 0 {
		return defaultHz
	}
	if hz > maxHz {
		return maxHz
	}
	return hz
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
