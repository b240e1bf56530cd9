package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"bedrockdescent.io/internal/protocol"
	"bedrockdescent.io/internal/sim/catalogs"
	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/tuning"
	"bedrockdescent.io/internal/sim/world"
)

func startServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	w, err := world.New(tuning.Defaults(), catalogs.Defaults())
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	srv := httptest.NewServer(NewServer(w, nil).Handler())
	return srv, func() {
		srv.Close()
		cancel()
		<-done
	}
}

func dial(t *testing.T, srv *httptest.Server, name string) (*websocket.Conn, protocol.WelcomeMsg) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	hello := protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, ClientName: name}
	if err := conn.WriteJSON(hello); err != nil {
		t.Fatalf("hello: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var welcome protocol.WelcomeMsg
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if welcome.Type != protocol.TypeWelcome || welcome.SessionID == "" {
		t.Fatalf("unexpected welcome: %+v", welcome)
	}
	return conn, welcome
}

// readUntil reads frames until match returns true or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(base protocol.BaseMessage, raw []byte) bool) []byte {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		base, err := protocol.DecodeBase(raw)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if match(base, raw) {
			return raw
		}
	}
	t.Fatalf("no matching frame before deadline")
	return nil
}

func TestServer_ControllerStartsRound(t *testing.T) {
	srv, stop := startServer(t)
	defer stop()

	conn, welcome := dial(t, srv, "player")
	defer conn.Close()
	if !welcome.Controller {
		t.Fatalf("first session should control the world")
	}
	if welcome.WorldParams.BedrockStart != 126 || welcome.Digests.TuningDigest == "" {
		t.Fatalf("welcome params: %+v", welcome)
	}

	if err := conn.WriteJSON(protocol.StartMsg{Type: protocol.TypeStart, ProtocolVersion: protocol.Version}); err != nil {
		t.Fatalf("start: %v", err)
	}
	readUntil(t, conn, func(base protocol.BaseMessage, raw []byte) bool {
		if base.Type != protocol.TypeState {
			return false
		}
		var st protocol.StateMsg
		if err := json.Unmarshal(raw, &st); err != nil {
			t.Fatalf("state: %v", err)
		}
		var snap world.Snapshot
		if err := json.Unmarshal(st.State, &snap); err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		return snap.Mode == model.ModePlaying
	})
}

func TestServer_SecondSessionIsSpectator(t *testing.T) {
	srv, stop := startServer(t)
	defer stop()

	first, _ := dial(t, srv, "player")
	defer first.Close()
	second, welcome := dial(t, srv, "watcher")
	defer second.Close()
	if welcome.Controller {
		t.Fatalf("second session must not control the world")
	}

	in := protocol.InputMsg{Type: protocol.TypeInput, ProtocolVersion: protocol.Version, Axis: 1}
	if err := second.WriteJSON(in); err != nil {
		t.Fatalf("input: %v", err)
	}
	raw := readUntil(t, second, func(base protocol.BaseMessage, _ []byte) bool {
		return base.Type == protocol.TypeError
	})
	var e protocol.ErrorMsg
	_ = json.Unmarshal(raw, &e)
	if e.Code != protocol.ErrWorldBusy {
		t.Fatalf("expected busy error, got %+v", e)
	}
}

func TestServer_RejectsBadVersion(t *testing.T) {
	srv, stop := startServer(t)
	defer stop()

	conn, _ := dial(t, srv, "player")
	defer conn.Close()
	if err := conn.WriteJSON(protocol.StartMsg{Type: protocol.TypeStart, ProtocolVersion: "0.1"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw := readUntil(t, conn, func(base protocol.BaseMessage, _ []byte) bool {
		return base.Type == protocol.TypeError
	})
	var e protocol.ErrorMsg
	_ = json.Unmarshal(raw, &e)
	if e.Code != protocol.ErrProtoVersion {
		t.Fatalf("expected version error, got %+v", e)
	}
}

func TestInputFromMsg(t *testing.T) {
	in := InputFromMsg(protocol.InputMsg{Axis: -1, MouseDown: true, Craft: "iron", CraftPanel: true})
	if in.Axis != -1 || !in.MouseDown || in.Craft != model.CraftIron || !in.CraftPanel {
		t.Fatalf("unexpected input: %+v", in)
	}
	if InputFromMsg(protocol.InputMsg{Craft: "gold"}).Craft != model.CraftNone {
		t.Fatalf("unknown craft should map to none")
	}
}
