package hub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"arenafall/server/internal/sim"
	"arenafall/server/internal/world"
)

const writeWait = 10 * time.Second

// Hub fans simulation snapshots out to websocket subscribers and feeds their
// decoded input back into the loop. Exactly one subscriber pilots the
// player; later joiners observe.
type Hub struct {
	loop     *sim.Loop
	level    *world.Level
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[string]*subscriber
	pilotID     string
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// New builds a hub over the given loop and static level.
func New(loop *sim.Loop, level *world.Level, logger zerolog.Logger) *Hub {
	return &Hub{
		loop:   loop,
		level:  level,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		subscribers: make(map[string]*subscriber),
	}
}

type welcomeMessage struct {
	Type      string           `json:"type"`
	SessionID string           `json:"sessionId"`
	Pilot     bool             `json:"pilot"`
	Level     string           `json:"level"`
	Colliders []world.Collider `json:"colliders"`
}

type stateMessage struct {
	Type       string `json:"type"`
	world.Snapshot
	ServerTime int64 `json:"serverTime"`
}

type levelMessage struct {
	Type      string           `json:"type"`
	Level     string           `json:"level"`
	Colliders []world.Collider `json:"colliders"`
}

type clientMessage struct {
	Type string `json:"type"`

	Forward bool `json:"forward"`
	Back    bool `json:"back"`
	Left    bool `json:"left"`
	Right   bool `json:"right"`
	Jump    bool `json:"jump"`

	YawDelta   float64 `json:"yawDelta"`
	PitchDelta float64 `json:"pitchDelta"`
}

// HandleWS upgrades the connection, assigns a session, and pumps client
// messages into the command queue until the socket closes.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sessionID := uuid.NewString()
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	pilot := h.pilotID == ""
	if pilot {
		h.pilotID = sessionID
	}
	h.subscribers[sessionID] = sub
	level := h.level
	h.mu.Unlock()

	welcome := welcomeMessage{
		Type:      "welcome",
		SessionID: sessionID,
		Pilot:     pilot,
		Level:     level.Name,
		Colliders: level.Colliders(),
	}
	if err := sub.write(welcome); err != nil {
		h.logger.Warn().Err(err).Str("session", sessionID).Msg("failed to send welcome")
		h.drop(sessionID)
		return
	}

	h.logger.Info().Str("session", sessionID).Bool("pilot", pilot).Msg("client joined")
	go h.readLoop(sessionID, sub)
}

func (h *Hub) readLoop(sessionID string, sub *subscriber) {
	defer h.drop(sessionID)
	for {
		_, data, err := sub.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug().Err(err).Str("session", sessionID).Msg("bad client message")
			continue
		}
		if !h.isPilot(sessionID) {
			continue
		}
		if cmd, ok := decodeCommand(msg); ok {
			h.loop.Enqueue(cmd)
		}
	}
}

func decodeCommand(msg clientMessage) (world.Command, bool) {
	switch msg.Type {
	case "input":
		return world.Command{
			Type: world.CommandInput,
			Input: &world.InputCommand{
				Forward:    msg.Forward,
				Back:       msg.Back,
				Left:       msg.Left,
				Right:      msg.Right,
				Jump:       msg.Jump,
				YawDelta:   msg.YawDelta,
				PitchDelta: msg.PitchDelta,
			},
		}, true
	case "fire":
		return world.Command{Type: world.CommandFire}, true
	case "rocket":
		return world.Command{Type: world.CommandFireRocket}, true
	case "reload":
		return world.Command{Type: world.CommandReload}, true
	case "restart":
		return world.Command{Type: world.CommandRestart}, true
	}
	return world.Command{}, false
}

func (h *Hub) isPilot(sessionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pilotID == sessionID
}

func (h *Hub) drop(sessionID string) {
	h.mu.Lock()
	sub, ok := h.subscribers[sessionID]
	if ok {
		delete(h.subscribers, sessionID)
	}
	if h.pilotID == sessionID {
		// Promote any remaining subscriber to pilot.
		h.pilotID = ""
		for id := range h.subscribers {
			h.pilotID = id
			break
		}
	}
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
		h.logger.Info().Str("session", sessionID).Msg("client left")
	}
}

// SetLevel swaps the level served to new joiners and pushes the replacement
// geometry to every connected client, keeping their rendering in sync with
// what the simulation now collides against.
func (h *Hub) SetLevel(level *world.Level) {
	if level == nil {
		return
	}
	h.mu.Lock()
	h.level = level
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	msg := levelMessage{Type: "level", Level: level.Name, Colliders: level.Colliders()}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal level message")
		return
	}
	for id, sub := range subs {
		if err := sub.writeRaw(data); err != nil {
			h.logger.Warn().Err(err).Str("session", id).Msg("failed to send level update")
			h.drop(id)
		}
	}
}

// Broadcast sends the latest snapshot to every subscriber, dropping the ones
// whose sockets fail.
func (h *Hub) Broadcast(snapshot world.Snapshot) {
	msg := stateMessage{Type: "state", Snapshot: snapshot, ServerTime: time.Now().UnixMilli()}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal state message")
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.writeRaw(data); err != nil {
			h.logger.Warn().Err(err).Str("session", id).Msg("failed to send update")
			h.drop(id)
		}
	}
}

func (s *subscriber) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.writeRaw(data)
}

func (s *subscriber) writeRaw(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
