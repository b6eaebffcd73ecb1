package world

import (
	"math/rand"

	"github.com/rs/zerolog"

	"arenafall/server/internal/geom"
)

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandInput      CommandType = "Input"
	CommandFire       CommandType = "Fire"
	CommandFireRocket CommandType = "FireRocket"
	CommandReload     CommandType = "Reload"
	CommandRestart    CommandType = "Restart"
	CommandSwapLevel  CommandType = "SwapLevel"
)

// Command represents an intent captured for processing on the next tick.
// SwapLevel carries the replacement registry so a live-reloaded level file
// takes effect inside the tick, never concurrently with it.
type Command struct {
	OriginTick uint64
	Type       CommandType
	Input      *InputCommand
	Level      *Level
}

// InputCommand carries the decoded key states and mouse deltas for one tick.
// Jump is a held level; the locomotion code edge-triggers it so holding the
// key cannot chain jumps.
type InputCommand struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Jump    bool

	YawDelta   float64
	PitchDelta float64
}

// Notification is a transient UI message with timer-driven expiry.
type Notification struct {
	ID   uint64 `json:"id"`
	Text string `json:"text"`
}

// World owns the authoritative simulation state. All mutation happens inside
// Step on the caller's goroutine; nothing here locks.
type World struct {
	config Config
	level  *Level
	seed   string
	logger zerolog.Logger

	player      *playerState
	agents      []*agentState
	projectiles []*projectileState
	pickups     []*pickupState
	particles   []*particleState

	agentJumpRNG *rand.Rand
	dropRNG      *rand.Rand
	spawnRNG     *rand.Rand
	fxRNG        *rand.Rand

	timers        []deferred
	epoch         uint64
	notifications []Notification

	nextNotificationID uint64
	nextAgentID        uint64
	nextPickupID       uint64
	nextProjectileID   uint64
	nextParticleID     uint64

	elapsed     float64
	currentTick uint64
	wavePending bool
	gameOver    bool
}

// New constructs a world over the given static level. The level registry is
// read-only from here on.
func New(cfg Config, level *Level, logger zerolog.Logger) *World {
	normalized := cfg.normalized()
	if level == nil {
		level = BuiltinArena()
	}
	w := &World{
		config: normalized,
		level:  level,
		seed:   normalized.Seed,
		logger: logger,
	}
	w.resetSession()
	return w
}

// Level exposes the static collider registry.
func (w *World) Level() *Level {
	return w.level
}

// GameOver reports whether the session has ended.
func (w *World) GameOver() bool {
	return w.gameOver
}

// Reset starts a fresh session. The timer epoch advances so any deferred
// action scheduled before the reset (a mid-flight reload, the next wave
// spawn) is discarded instead of mutating the new session.
func (w *World) Reset() {
	w.resetSession()
}

func (w *World) resetSession() {
	w.epoch++
	w.timers = w.timers[:0]
	w.notifications = w.notifications[:0]

	w.agentJumpRNG = w.subsystemRNG("agents.jump")
	w.dropRNG = w.subsystemRNG("pickups.drop")
	w.spawnRNG = w.subsystemRNG("waves.ring")
	w.fxRNG = w.subsystemRNG("particles")

	w.player = newPlayerState(geom.Vec3{X: 0, Y: playerEyeHeight, Z: -10})
	w.agents = w.agents[:0]
	w.projectiles = w.projectiles[:0]
	w.pickups = w.pickups[:0]
	w.particles = w.particles[:0]
	w.gameOver = false
	w.wavePending = false

	w.schedule(1.0, func(w *World) { w.startWave(1) })
	w.logger.Info().Str("level", w.level.Name).Str("seed", w.seed).Msg("session started")
}

// pushNotification appends a transient message and schedules its expiry.
func (w *World) pushNotification(text string) {
	w.nextNotificationID++
	id := w.nextNotificationID
	w.notifications = append(w.notifications, Notification{ID: id, Text: text})
	w.schedule(notificationSeconds, func(w *World) { w.removeNotification(id) })
}

func (w *World) removeNotification(id uint64) {
	for i, n := range w.notifications {
		if n.ID == id {
			w.notifications = append(w.notifications[:i], w.notifications[i+1:]...)
			return
		}
	}
}
