package world

import (
	"testing"

	"github.com/rs/zerolog"

	"arenafall/server/internal/geom"
)

// newTestWorld builds a world over the given level with a quiet logger. A nil
// level means an empty flat plane at floor height, which keeps locomotion
// tests free of arena geometry.
func newTestWorld(t *testing.T, level *Level) *World {
	t.Helper()
	if level == nil {
		level = NewLevel("flat")
	}
	return New(DefaultConfig(), level, zerolog.Nop())
}

// clearTimers discards pending deferred work, including the initial wave
// spawn, so a test can run the clock forward without agents appearing.
func (w *World) clearTimers() {
	w.timers = w.timers[:0]
}

// stepIdle advances n ticks with no commands at the nominal tick delta.
func stepIdle(w *World, n int) {
	for i := 0; i < n; i++ {
		w.Step(w.currentTick+1, 1.0/tickRate, nil)
	}
}

// stepWith advances one tick carrying the given commands.
func stepWith(w *World, commands ...Command) {
	w.Step(w.currentTick+1, 1.0/tickRate, commands)
}

func holdInput(input InputCommand) Command {
	in := input
	return Command{Type: CommandInput, Input: &in}
}

func placePlayer(w *World, feet geom.Vec3) {
	w.player.pos = geom.Vec3{X: feet.X, Y: feet.Y + playerEyeHeight, Z: feet.Z}
	w.player.vel = geom.Vec3{}
}
