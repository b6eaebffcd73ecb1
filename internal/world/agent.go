package world

import (
	"fmt"
	"math"

	"arenafall/server/internal/geom"
)

// agentState is one hostile. There is a single agent variant, so behavior is
// a plain per-tick update over the record rather than anything dispatched.
type agentState struct {
	ID  string
	pos geom.Vec3 // feet position
	vel geom.Vec3
	yaw float64

	health       float64
	grounded     bool
	jumpCooldown float64
	lastAttackAt float64

	dead bool
}

func (a *agentState) bounds(pos geom.Vec3) (geom.Vec3, geom.Vec3) {
	return geom.Vec3{X: pos.X - agentRadius, Y: pos.Y, Z: pos.Z - agentRadius},
		geom.Vec3{X: pos.X + agentRadius, Y: pos.Y + agentHeight, Z: pos.Z + agentRadius}
}

func (a *agentState) eye() geom.Vec3 {
	return geom.Vec3{X: a.pos.X, Y: a.pos.Y + agentEyeHeight, Z: a.pos.Z}
}

func (w *World) spawnAgentAt(pos geom.Vec3) *agentState {
	w.nextAgentID++
	agent := &agentState{
		ID:           fmt.Sprintf("agent-%d", w.nextAgentID),
		pos:          pos,
		health:       agentMaxHealth,
		lastAttackAt: -attackCooldown,
	}
	w.agents = append(w.agents, agent)
	return agent
}

// livingAgents counts agents still in play this tick.
func (w *World) livingAgents() int {
	count := 0
	for _, a := range w.agents {
		if !a.dead && a.health > 0 {
			count++
		}
	}
	return count
}

// stepAgent advances one hostile: face and chase the player, jump over
// obstacles or up to a raised player, integrate with per-axis collision, snap
// to the height field, and register a melee attack when range, cooldown, and
// line of sight all allow it.
func (w *World) stepAgent(a *agentState, dt float64) {
	player := w.player
	toPlayer := geom.Vec3{X: player.pos.X - a.pos.X, Z: player.pos.Z - a.pos.Z}
	dist := math.Hypot(toPlayer.X, toPlayer.Z)

	if dist > faceEpsilon {
		a.yaw = math.Atan2(toPlayer.X, toPlayer.Z)
	}

	if dist > meleeRange {
		dir := toPlayer.Normalize()
		a.vel.X = dir.X * agentSpeed
		a.vel.Z = dir.Z * agentSpeed
	} else {
		a.vel.X *= horizontalDamping
		a.vel.Z *= horizontalDamping
	}

	a.jumpCooldown -= dt
	if a.grounded && a.jumpCooldown <= 0 {
		jump := player.feetY() > a.pos.Y+agentAboveGap
		if !jump && w.probeBlocked(a) {
			jump = true
		}
		if !jump && w.agentJumpRNG.Float64() < agentJumpChance {
			jump = true
		}
		if jump {
			a.vel.Y = agentJumpImpulse
			a.grounded = false
			a.jumpCooldown = agentJumpCooldown
		}
	}

	a.vel.Y -= playerGravity * dt

	tryX := a.pos
	tryX.X += a.vel.X * dt
	min, max := a.bounds(tryX)
	if w.level.FirstObstacleCollider(min, max) != nil {
		a.vel.X = 0
	} else {
		a.pos.X = tryX.X
	}

	tryZ := a.pos
	tryZ.Z += a.vel.Z * dt
	min, max = a.bounds(tryZ)
	if w.level.FirstObstacleCollider(min, max) != nil {
		a.vel.Z = 0
	} else {
		a.pos.Z = tryZ.Z
	}

	groundH := w.level.GroundHeightAt(a.pos.X, a.pos.Z)
	if a.vel.Y <= 0 && a.pos.Y <= groundH+groundSnapTol {
		a.pos.Y = groundH
		a.vel.Y = 0
		a.grounded = true
	} else {
		a.pos.Y += a.vel.Y * dt
		a.grounded = false
		if a.vel.Y <= 0 && a.pos.Y <= groundH+groundSnapTol {
			a.pos.Y = groundH
			a.vel.Y = 0
			a.grounded = true
		}
	}

	if a.pos.Y < floorLevel {
		a.pos.Y = floorLevel
		a.vel.Y = 0
		a.grounded = true
	}

	a.pos.X = geom.Clamp(a.pos.X, -worldHalf+agentRadius, worldHalf-agentRadius)
	a.pos.Z = geom.Clamp(a.pos.Z, -worldHalf+agentRadius, worldHalf-agentRadius)

	// Melee, gated by range, cooldown, and sight.
	if dist <= meleeRange && w.elapsed-a.lastAttackAt >= attackCooldown {
		if w.hasLineOfSight(a.eye(), player.torso()) {
			a.lastAttackAt = w.elapsed
			w.damagePlayer(meleeDamage)
		}
	}
}

// probeBlocked checks a short ray's worth of volume ahead of the agent at
// foot height for a wall or cover box.
func (w *World) probeBlocked(a *agentState) bool {
	sinYaw, cosYaw := math.Sin(a.yaw), math.Cos(a.yaw)
	probe := geom.Vec3{
		X: a.pos.X + sinYaw*agentProbeAhead,
		Y: a.pos.Y,
		Z: a.pos.Z + cosYaw*agentProbeAhead,
	}
	min := geom.Vec3{X: probe.X - agentRadius, Y: probe.Y + 0.1, Z: probe.Z - agentRadius}
	max := geom.Vec3{X: probe.X + agentRadius, Y: probe.Y + 1.0, Z: probe.Z + agentRadius}
	return w.level.FirstObstacleCollider(min, max) != nil
}

// hasLineOfSight reports whether the segment from eye to target clears every
// non-ground collider. Each box gets a slab test bounded to the segment.
func (w *World) hasLineOfSight(from, to geom.Vec3) bool {
	delta := to.Sub(from)
	dist := delta.Length()
	if dist == 0 {
		return true
	}
	dir := delta.Scale(1 / dist)
	for i := range w.level.colliders {
		c := &w.level.colliders[i]
		if c.Ground {
			continue
		}
		if geom.RayHitsBox(from, dir, c.Min, c.Max, dist) {
			return false
		}
	}
	return true
}
