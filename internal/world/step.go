package world

// Step advances the simulation by one tick, applying all staged commands.
// Order mirrors the host frame loop contract: input, player locomotion,
// agents, effects, projectiles, then timers and wave bookkeeping. Delta is
// clamped so a frame hitch never destabilizes the integration.
func (w *World) Step(tick uint64, dt float64, commands []Command) {
	if dt <= 0 {
		dt = 1.0 / float64(tickRate)
	}
	if dt > maxDelta {
		dt = maxDelta
	}

	w.currentTick = tick
	w.elapsed += dt

	for _, cmd := range commands {
		switch cmd.Type {
		case CommandInput:
			if cmd.Input == nil {
				continue
			}
			w.player.applyLook(cmd.Input.YawDelta, cmd.Input.PitchDelta)
			held := *cmd.Input
			held.YawDelta = 0
			held.PitchDelta = 0
			w.player.input = held
		case CommandFire:
			w.player.fireQueued = true
		case CommandFireRocket:
			w.player.rocketQueued = true
		case CommandReload:
			w.player.reloadQueued = true
		case CommandRestart:
			if w.gameOver {
				w.Reset()
			}
		case CommandSwapLevel:
			if cmd.Level != nil {
				w.level = cmd.Level
				w.resetSession()
			}
		}
	}

	w.stepPlayer(dt)

	// Weapon actions run after locomotion so the shot uses this tick's aim.
	if w.player.fireQueued {
		w.player.fireQueued = false
		w.fireHitscan()
	}
	if w.player.rocketQueued {
		w.player.rocketQueued = false
		w.fireRocket()
	}
	if w.player.reloadQueued {
		w.player.reloadQueued = false
		w.beginReload()
	}

	// Snapshot the agent list: splash kills during iteration must not let a
	// dead agent re-enter its own update, and spawns from timers must wait.
	agents := w.agents
	for _, a := range agents {
		if a.dead || a.health <= 0 {
			continue
		}
		w.stepAgent(a, dt)
	}

	w.stepPickups(dt)
	w.stepParticles(dt)
	w.stepProjectiles(dt)

	w.pruneDeadAgents()
	w.drainTimers()
	w.checkWaveCleared()
}

// Elapsed returns the simulation clock in seconds.
func (w *World) Elapsed() float64 {
	return w.elapsed
}

// CurrentTick returns the last tick Step processed.
func (w *World) CurrentTick() uint64 {
	return w.currentTick
}
