package hub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"arenafall/server/internal/geom"
	"arenafall/server/internal/sim"
	"arenafall/server/internal/world"
)

func newTestHub(t *testing.T) (*Hub, *sim.Loop) {
	t.Helper()
	level := world.BuiltinArena()
	w := world.New(world.DefaultConfig(), level, zerolog.Nop())
	loop := sim.NewLoop(w, sim.LoopConfig{}, sim.LoopHooks{})
	return New(loop, level, zerolog.Nop()), loop
}

func dialTestServer(t *testing.T, srv *httptest.Server) (*websocket.Conn, welcomeMessage) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	var welcome welcomeMessage
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	return conn, welcome
}

func TestDecodeCommand(t *testing.T) {
	cases := []struct {
		msgType string
		want    world.CommandType
	}{
		{"fire", world.CommandFire},
		{"rocket", world.CommandFireRocket},
		{"reload", world.CommandReload},
		{"restart", world.CommandRestart},
	}
	for _, tc := range cases {
		cmd, ok := decodeCommand(clientMessage{Type: tc.msgType})
		if !ok {
			t.Errorf("decodeCommand(%q) rejected", tc.msgType)
			continue
		}
		if cmd.Type != tc.want {
			t.Errorf("decodeCommand(%q) = %v, want %v", tc.msgType, cmd.Type, tc.want)
		}
	}
}

func TestDecodeCommandInput(t *testing.T) {
	msg := clientMessage{
		Type:       "input",
		Forward:    true,
		Jump:       true,
		YawDelta:   0.5,
		PitchDelta: -0.25,
	}
	cmd, ok := decodeCommand(msg)
	if !ok {
		t.Fatal("input message rejected")
	}
	if cmd.Type != world.CommandInput || cmd.Input == nil {
		t.Fatalf("decoded command = %+v", cmd)
	}
	if !cmd.Input.Forward || !cmd.Input.Jump || cmd.Input.Back {
		t.Fatalf("key states lost: %+v", cmd.Input)
	}
	if cmd.Input.YawDelta != 0.5 || cmd.Input.PitchDelta != -0.25 {
		t.Fatalf("look deltas lost: %+v", cmd.Input)
	}
}

func TestDecodeCommandRejectsUnknown(t *testing.T) {
	if _, ok := decodeCommand(clientMessage{Type: "teleport"}); ok {
		t.Fatal("unknown message type accepted")
	}
}

func TestFirstJoinerPilotsLaterJoinersObserve(t *testing.T) {
	h, _ := newTestHub(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	first, w1 := dialTestServer(t, srv)
	defer first.Close()
	second, w2 := dialTestServer(t, srv)
	defer second.Close()

	if !w1.Pilot {
		t.Fatal("first joiner did not get the pilot seat")
	}
	if w2.Pilot {
		t.Fatal("second joiner also claims the pilot seat")
	}
	if w1.Level == "" || len(w1.Colliders) == 0 {
		t.Fatalf("welcome missing level data: %+v", w1)
	}
	if w1.SessionID == w2.SessionID {
		t.Fatal("session ids collided")
	}
}

func TestPilotInputReachesQueue(t *testing.T) {
	h, loop := newTestHub(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	pilot, _ := dialTestServer(t, srv)
	defer pilot.Close()

	if err := pilot.WriteJSON(clientMessage{Type: "fire"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for loop.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("pilot command never reached the queue")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestObserverInputIgnored(t *testing.T) {
	h, loop := newTestHub(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	pilot, _ := dialTestServer(t, srv)
	defer pilot.Close()
	observer, _ := dialTestServer(t, srv)
	defer observer.Close()

	if err := observer.WriteJSON(clientMessage{Type: "fire"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if got := loop.Pending(); got != 0 {
		t.Fatalf("observer command reached the queue: %d pending", got)
	}
}

func TestPilotPromotionOnDisconnect(t *testing.T) {
	h, _ := newTestHub(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	pilot, _ := dialTestServer(t, srv)
	successor, w2 := dialTestServer(t, srv)
	defer successor.Close()

	pilot.Close()

	deadline := time.Now().Add(time.Second)
	for !h.isPilot(w2.SessionID) {
		if time.Now().After(deadline) {
			t.Fatal("remaining subscriber never promoted to pilot")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSetLevelUpdatesWelcomeAndNotifiesClients(t *testing.T) {
	h, _ := newTestHub(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	existing, w1 := dialTestServer(t, srv)
	defer existing.Close()
	if w1.Level != "arena" {
		t.Fatalf("initial welcome level = %q", w1.Level)
	}

	replacement := world.NewLevel("replacement")
	replacement.AddCollider(
		geom.Vec3{X: -1, Y: 0, Z: -1}, geom.Vec3{X: 1, Y: 2, Z: 1}, false, nil)
	h.SetLevel(replacement)

	// The connected client is told the geometry changed.
	existing.SetReadDeadline(time.Now().Add(time.Second))
	var msg levelMessage
	if err := existing.ReadJSON(&msg); err != nil {
		t.Fatalf("read level update: %v", err)
	}
	if msg.Type != "level" || msg.Level != "replacement" {
		t.Fatalf("level update = %+v", msg)
	}
	if len(msg.Colliders) != 1 {
		t.Fatalf("level update carries %d colliders, want 1", len(msg.Colliders))
	}

	// A joiner after the swap is welcomed with the new level.
	late, w2 := dialTestServer(t, srv)
	defer late.Close()
	if w2.Level != "replacement" {
		t.Fatalf("post-swap welcome level = %q, want replacement", w2.Level)
	}
	if len(w2.Colliders) != 1 {
		t.Fatalf("post-swap welcome carries %d colliders, want 1", len(w2.Colliders))
	}
}

func TestBroadcastDeliversState(t *testing.T) {
	h, loop := newTestHub(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	conn, _ := dialTestServer(t, srv)
	defer conn.Close()

	result := loop.Advance(time.Now(), 1.0/60)
	h.Broadcast(result.Snapshot)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg stateMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read state: %v", err)
	}
	if msg.Type != "state" {
		t.Fatalf("message type = %q, want state", msg.Type)
	}
	if msg.Tick != result.Snapshot.Tick {
		t.Fatalf("broadcast tick = %d, want %d", msg.Tick, result.Snapshot.Tick)
	}
}
