package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"reckoning.game/internal/protocol"
	"reckoning.game/internal/sim/world"
)

const outQueue = 8

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	s := &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID, out := s.handshake(r.Context(), conn)
		if sessionID == "" {
			return
		}
		s.log.Printf("session %s attached", sessionID)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		errOut := make(chan []byte, 4)

		// Writer goroutine.
		go func() {
			for {
				var b []byte
				select {
				case <-ctx.Done():
					return
				case b = <-errOut:
				case b = <-out:
				}
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			env, code, why := decodeInput(msg)
			if code != "" {
				queueError(errOut, code, why)
				continue
			}
			env.SessionID = sessionID
			select {
			case s.world.Inbox() <- env:
			case <-ctx.Done():
			}
		}

		s.leave(sessionID)
		s.log.Printf("session %s detached", sessionID)
	}
}

// decodeInput turns one client frame into an envelope, or an error code and
// message to report back.
func decodeInput(msg []byte) (world.InputEnvelope, string, string) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return world.InputEnvelope{}, protocol.ErrProtoBadRequest, "malformed message"
	}
	if base.Type != protocol.TypeInput {
		return world.InputEnvelope{}, protocol.ErrProtoUnsupported, "unexpected type " + base.Type
	}
	if !protocol.SupportedVersion(base.ProtocolVersion) {
		return world.InputEnvelope{}, protocol.ErrProtoVersion, "unsupported protocol_version"
	}
	var in protocol.InputMsg
	if err := json.Unmarshal(msg, &in); err != nil {
		return world.InputEnvelope{}, protocol.ErrBadRequest, "bad INPUT"
	}
	switch in.Control {
	case "", protocol.ControlPause, protocol.ControlResume:
	default:
		return world.InputEnvelope{}, protocol.ErrBadRequest, "unknown control " + in.Control
	}
	return world.InputEnvelope{
		Seq:     in.Seq,
		Input:   world.Input{MoveX: in.Move[0], MoveZ: in.Move[1], Attack: in.Attack},
		Control: in.Control,
	}, "", ""
}

func (s *Server) handshake(ctx context.Context, conn *websocket.Conn) (sessionID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		reject(conn, protocol.ErrProtoBadRequest, "expected HELLO")
		return "", nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		reject(conn, protocol.ErrProtoBadRequest, "bad HELLO")
		return "", nil
	}
	if !protocol.SupportedVersion(hello.ProtocolVersion) {
		reject(conn, protocol.ErrProtoVersion, "bad protocol_version")
		return "", nil
	}

	out = make(chan []byte, outQueue)
	respCh := make(chan world.AttachResponse, 1)
	req := world.AttachRequest{SessionID: uuid.NewString(), Out: out, Resp: respCh}

	hctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	select {
	case s.world.Attach() <- req:
	case <-hctx.Done():
		reject(conn, protocol.ErrInternal, "world not responding")
		return "", nil
	}
	var resp world.AttachResponse
	select {
	case resp = <-respCh:
	case <-hctx.Done():
		reject(conn, protocol.ErrInternal, "world not responding")
		return "", nil
	}
	if resp.ErrCode != "" {
		reject(conn, resp.ErrCode, "attach refused")
		return "", nil
	}

	if err := writeJSON(conn, resp.Welcome); err != nil {
		s.leave(req.SessionID)
		return "", nil
	}
	return resp.Welcome.SessionID, out
}

func (s *Server) leave(sessionID string) {
	select {
	case s.world.Leave() <- sessionID:
	case <-time.After(time.Second):
		// World loop is stopping; nothing else to do.
	}
}

func queueError(ch chan []byte, code, message string) {
	b, err := json.Marshal(protocol.NewError(code, message))
	if err != nil {
		return
	}
	select {
	case ch <- b:
	default:
	}
}

// reject sends an ERROR frame and closes the connection.
func reject(conn *websocket.Conn, code, message string) {
	_ = writeJSON(conn, protocol.NewError(code, message))
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, code), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
