package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"reckoning.game/internal/protocol"
)

// attackReach stays under the default player attack range.
const attackReach = 1.8

func main() {
	var (
		url   = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name  = flag.String("name", "bot", "client name")
		every = flag.Uint64("log_every", 600, "log a status line every N ticks")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	var seq uint64
	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME run=%s session=%s seed=%d difficulty=%s", w.RunID, w.SessionID, w.WorldParams.Seed, w.WorldParams.Difficulty)

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				continue
			}
			logger.Printf("ERROR %s: %s", e.Code, e.Message)
			if e.Code == protocol.ErrWorldDefeated || e.Code == protocol.ErrWorldBusy {
				return
			}

		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			if *every > 0 && st.Tick%*every == 0 {
				logger.Printf("tick=%d hp=%.0f/%.0f lvl=%d gold=%d score=%d enemies=%d weather=%s",
					st.Tick, st.Player.Health, st.Player.MaxHealth, st.Player.Level, st.Player.Gold, st.Player.Score, len(st.Enemies), st.World.Weather)
			}
			if st.Phase != "PLAYING" {
				continue
			}
			seq++
			in := steer(st)
			in.Seq = seq
			if err := conn.WriteJSON(in); err != nil {
				return
			}
		}
	}
}

// steer walks toward the nearest enemy and swings once it is in reach.
// With no enemies left it heads for the origin.
func steer(st protocol.StateMsg) protocol.InputMsg {
	in := protocol.InputMsg{Type: protocol.TypeInput, ProtocolVersion: protocol.Version}

	px, pz := st.Player.Pos[0], st.Player.Pos[2]
	tx, tz := 0.0, 0.0
	best := math.Inf(1)
	for _, e := range st.Enemies {
		d := math.Hypot(e.Pos[0]-px, e.Pos[2]-pz)
		if d < best {
			best = d
			tx, tz = e.Pos[0], e.Pos[2]
		}
	}

	dx, dz := tx-px, tz-pz
	if n := math.Hypot(dx, dz); n > 1e-6 {
		in.Move = [2]float64{dx / n, dz / n}
	}
	if best <= attackReach {
		in.Attack = true
		in.Move = [2]float64{}
	}
	return in
}
