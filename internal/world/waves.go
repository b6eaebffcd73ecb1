package world

import (
	"fmt"
	"math"

	"arenafall/server/internal/geom"
)

// startWave spawns the hostiles for wave n on a ring around the arena
// center. Spawn positions come from the seeded wave RNG so a fixed seed
// reproduces the exact layout.
func (w *World) startWave(n int) {
	if w.gameOver {
		return
	}
	w.player.wave = n
	w.wavePending = false
	count := w.config.BaseAgents + (n-1)*w.config.AgentsPerWave

	for i := 0; i < count; i++ {
		angle := w.spawnRNG.Float64() * 2 * math.Pi
		radius := spawnRingMin + w.spawnRNG.Float64()*(spawnRingMax-spawnRingMin)
		x := geom.Clamp(math.Sin(angle)*radius, -worldHalf+2, worldHalf-2)
		z := geom.Clamp(math.Cos(angle)*radius, -worldHalf+2, worldHalf-2)
		y := w.level.GroundHeightAt(x, z)
		w.spawnAgentAt(geom.Vec3{X: x, Y: y, Z: z})
	}

	w.pushNotification(fmt.Sprintf("Wave %d", n))
	w.logger.Info().Int("wave", n).Int("agents", count).Msg("wave spawned")
}

// checkWaveCleared schedules the next wave once the field is empty. The
// deferred spawn re-checks state when it fires, and a session reset
// invalidates it through the timer epoch.
func (w *World) checkWaveCleared() {
	if w.gameOver || w.wavePending || w.player.wave == 0 {
		return
	}
	if len(w.agents) > 0 {
		return
	}
	w.wavePending = true
	next := w.player.wave + 1
	w.pushNotification(fmt.Sprintf("Wave %d cleared", w.player.wave))
	w.schedule(w.config.WaveDelay, func(w *World) {
		if w.gameOver {
			w.wavePending = false
			return
		}
		w.startWave(next)
	})
}
