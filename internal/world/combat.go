package world

import "arenafall/server/internal/geom"

// fireHitscan resolves one instant-hit shot. Preconditions (ammo, reload,
// rate of fire) failing are silent no-ops; the tracer is spawned on every
// shot that actually fires.
func (w *World) fireHitscan() {
	p := w.player
	if p.health <= 0 {
		return
	}
	if p.magazine <= 0 || p.reloading {
		return
	}
	if w.elapsed-p.lastShotAt < hitscanInterval {
		return
	}
	p.lastShotAt = w.elapsed
	p.magazine--

	origin := p.eye()
	dir := p.viewDirection()

	var best *agentState
	bestDist := hitscanRange
	for _, a := range w.agents {
		if a.dead || a.health <= 0 {
			continue
		}
		min, max := a.bounds(a.pos)
		if d, ok := geom.RayBoxDistance(origin, dir, min, max, hitscanRange); ok && d <= bestDist {
			bestDist = d
			best = a
		}
	}

	end := origin.Add(dir.Scale(hitscanRange))
	if best != nil {
		end = origin.Add(dir.Scale(bestDist))
		w.spawnBlood(end)
		w.applyAgentDamage(best, hitscanDamage)
	}
	w.spawnTracer(origin, end)

	if p.magazine == 0 && p.reserve > 0 {
		w.beginReload()
	}
}

// beginReload starts a timed reload. Once started it always completes; the
// completion callback re-checks the counters rather than assuming the state
// it saw at schedule time, and a session reset invalidates it via the epoch.
func (w *World) beginReload() {
	p := w.player
	if p.reloading || p.magazine >= magazineSize || p.reserve <= 0 {
		return
	}
	p.reloading = true
	w.schedule(reloadSeconds, func(w *World) {
		p := w.player
		p.reloading = false
		deficit := magazineSize - p.magazine
		if deficit <= 0 || p.reserve <= 0 {
			return
		}
		transfer := deficit
		if transfer > p.reserve {
			transfer = p.reserve
		}
		p.magazine += transfer
		p.reserve -= transfer
	})
}

// fireRocket spawns a kinetic projectile along the view ray, gated by its own
// cooldown.
func (w *World) fireRocket() {
	p := w.player
	if p.health <= 0 {
		return
	}
	if w.elapsed-p.lastRocketAt < rocketCooldown {
		return
	}
	p.lastRocketAt = w.elapsed
	w.spawnRocket(p.eye(), p.viewDirection().Scale(rocketSpeed))
}

// applyAgentDamage lowers agent health and routes lethal hits through the
// single kill path so score and drops are never double counted.
func (w *World) applyAgentDamage(a *agentState, amount float64) {
	if a == nil || a.dead || amount <= 0 {
		return
	}
	a.health -= amount
	if a.health <= 0 {
		a.health = 0
		w.killAgent(a)
	}
}

// killAgent awards score, rolls the pickup drop, and marks the agent for
// removal at the end of the tick. Guarded so splash plus hitscan in the same
// tick cannot count a kill twice.
func (w *World) killAgent(a *agentState) {
	if a == nil || a.dead {
		return
	}
	a.dead = true
	w.player.score += killScore
	if w.dropRNG.Float64() < w.config.DropChance {
		kind := PickupHealth
		if w.dropRNG.Float64() < 0.5 {
			kind = PickupAmmo
		}
		w.spawnPickup(a.pos, kind)
	}
	w.logger.Debug().Str("agent", a.ID).Int("score", w.player.score).Msg("agent killed")
}

// pruneDeadAgents removes defeated agents after all updates for the tick so
// an agent dying mid-iteration never re-enters its own update.
func (w *World) pruneDeadAgents() {
	alive := w.agents[:0]
	for _, a := range w.agents {
		if a.dead {
			continue
		}
		alive = append(alive, a)
	}
	w.agents = alive
}
