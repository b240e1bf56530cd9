package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"bedrockdescent.io/internal/protocol"
	"bedrockdescent.io/internal/sim/world"
)

func main() {
	var (
		url    = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name   = flag.String("name", "bot", "client name")
		rounds = flag.Int("rounds", 0, "stop after this many finished rounds (0 = forever)")
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
		Capabilities:    protocol.HelloCapabilities{MaxQueue: 8},
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	var (
		b        *digger
		finished int
	)
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
			logger.Printf("WELCOME session=%s controller=%v tick_rate=%d world=%dx%d", w.SessionID, w.Controller, w.WorldParams.TickRateHz, w.WorldParams.Width, w.WorldParams.Height)
			if !w.Controller {
				logger.Printf("world already has a controller; watching only")
			}
			b = newDigger(float64(w.WorldParams.TileSize), w.Controller)

		case protocol.TypeState:
			if b == nil {
				continue
			}
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			var s world.Snapshot
			if err := json.Unmarshal(st.State, &s); err != nil {
				continue
			}
			if b.finished(s) {
				finished++
				logger.Printf("round %d %s at %dm tool=%s health=%d", s.Stats.Round, s.Mode, s.DepthMeters, s.Tool, s.Health)
				if *rounds > 0 && finished >= *rounds {
					return
				}
			}
			for _, out := range b.next(s) {
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			}

		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err == nil {
				logger.Printf("ERROR %s: %s", e.Code, e.Message)
			}
		}
	}
}
