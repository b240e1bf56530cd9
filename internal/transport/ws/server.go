package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bedrockdescent.io/internal/protocol"
	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/world"
)

// Server attaches websocket sessions to one running World. Every session
// receives STATE frames; only the first connected session may send INPUT and
// START until it disconnects.
type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader

	mu         sync.Mutex
	controller string
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

		sessionID, out := s.handshake(conn)
		if sessionID == "" {
			return
		}
		defer s.release(sessionID)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s.world.Subscribe() <- world.SubscribeRequest{ID: sessionID, Out: out}

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
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
			if code, text := s.handleMessage(sessionID, msg); code != "" {
				if b, err := json.Marshal(protocol.NewError(code, text)); err == nil {
					select {
					case out <- b:
					default:
					}
				}
			}
		}

		// Cleanup.
		s.world.Unsubscribe() <- sessionID
		if s.log != nil {
			s.log.Printf("session %s closed", sessionID)
		}
	}
}

// handleMessage routes one client message. A non-empty code is reported back as ERROR.
func (s *Server) handleMessage(sessionID string, msg []byte) (code, text string) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return protocol.ErrProtoBadRequest, "invalid json"
	}
	if base.ProtocolVersion != protocol.Version {
		return protocol.ErrProtoVersion, "bad protocol_version"
	}
	switch base.Type {
	case protocol.TypeInput:
		var in protocol.InputMsg
		if err := json.Unmarshal(msg, &in); err != nil {
			return protocol.ErrProtoBadRequest, "invalid INPUT"
		}
		if !s.isController(sessionID) {
			return protocol.ErrWorldBusy, "another session controls this world"
		}
		cmdIn := InputFromMsg(in)
		s.world.Inbox() <- world.Command{Input: &cmdIn}
	case protocol.TypeStart:
		if !s.isController(sessionID) {
			return protocol.ErrWorldBusy, "another session controls this world"
		}
		s.world.Inbox() <- world.Command{Start: true}
	default:
		return protocol.ErrProtoBadRequest, "unexpected message type " + base.Type
	}
	return "", ""
}

// InputFromMsg converts the wire form; unknown craft names become no request.
func InputFromMsg(m protocol.InputMsg) world.Input {
	return world.Input{
		Axis:       m.Axis,
		Jump:       m.Jump,
		MouseX:     m.MouseX,
		MouseY:     m.MouseY,
		MouseDown:  m.MouseDown,
		Craft:      model.ParseCraftKind(m.Craft),
		CraftPanel: m.CraftPanel,
	}
}

func (s *Server) claim(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controller == "" {
		s.controller = sessionID
	}
	return s.controller == sessionID
}

func (s *Server) isController(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller == sessionID
}

func (s *Server) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controller == sessionID {
		s.controller = ""
	}
}

func (s *Server) handshake(conn *websocket.Conn) (sessionID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}

	maxQ := hello.Capabilities.MaxQueue
	if maxQ <= 0 {
		maxQ = 8
	}
	if maxQ > 64 {
		maxQ = 64
	}
	out = make(chan []byte, maxQ)

	sessionID = uuid.NewString()
	controller := s.claim(sessionID)

	cfg := s.world.Tuning()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		Controller:      controller,
		WorldParams: protocol.WorldParams{
			TickRateHz:   cfg.TickRateHz,
			TileSize:     cfg.World.TileSize,
			Width:        cfg.World.Width,
			Height:       cfg.World.Height,
			BedrockStart: cfg.World.BedrockStart,
		},
		Digests: protocol.Digests{
			RecipesDigest: s.world.Catalogs().Recipes.Digest,
			TuningDigest:  cfg.Digest(),
		},
	}
	if err := writeJSON(conn, welcome); err != nil {
		s.release(sessionID)
		return "", nil
	}
	if s.log != nil {
		s.log.Printf("session %s joined name=%q controller=%v", sessionID, hello.ClientName, controller)
	}
	return sessionID, out
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
