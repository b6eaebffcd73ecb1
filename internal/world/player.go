package world

import (
	"math"

	"arenafall/server/internal/geom"
)

// playerState is the single controllable entity. Position is the camera
// anchor; feet sit playerEyeHeight below it.
type playerState struct {
	pos geom.Vec3
	vel geom.Vec3

	yaw   float64
	pitch float64

	grounded    bool
	doubleJump  bool
	jumpLatched bool

	health    float64
	magazine  int
	reserve   int
	reloading bool

	lastShotAt   float64
	lastRocketAt float64
	flashActive  bool

	score int
	wave  int

	input InputCommand

	fireQueued   bool
	rocketQueued bool
	reloadQueued bool
}

func newPlayerState(spawn geom.Vec3) *playerState {
	return &playerState{
		pos:          spawn,
		health:       playerMaxHealth,
		magazine:     magazineSize,
		reserve:      reserveMax,
		lastShotAt:   -hitscanInterval,
		lastRocketAt: -rocketCooldown,
	}
}

// viewDirection derives the aim ray from yaw then pitch; roll is always zero
// and pitch never leaks into horizontal movement.
func (p *playerState) viewDirection() geom.Vec3 {
	cosPitch := math.Cos(p.pitch)
	return geom.Vec3{
		X: math.Sin(p.yaw) * cosPitch,
		Y: math.Sin(p.pitch),
		Z: math.Cos(p.yaw) * cosPitch,
	}
}

// eye returns the ray origin for weapons and sight checks.
func (p *playerState) eye() geom.Vec3 {
	return p.pos
}

// torso returns the point agents test sight against.
func (p *playerState) torso() geom.Vec3 {
	return geom.Vec3{X: p.pos.X, Y: p.pos.Y - 0.5, Z: p.pos.Z}
}

// feetY returns the elevation of the player's feet.
func (p *playerState) feetY() float64 {
	return p.pos.Y - playerEyeHeight
}

func (p *playerState) bounds(pos geom.Vec3) (geom.Vec3, geom.Vec3) {
	feet := pos.Y - playerEyeHeight
	return geom.Vec3{X: pos.X - playerRadius, Y: feet, Z: pos.Z - playerRadius},
		geom.Vec3{X: pos.X + playerRadius, Y: feet + playerEyeHeight + 0.1, Z: pos.Z + playerRadius}
}

// applyLook integrates mouse deltas. Pitch is clamped short of the poles.
func (p *playerState) applyLook(yawDelta, pitchDelta float64) {
	p.yaw += yawDelta
	p.pitch = geom.Clamp(p.pitch+pitchDelta, -math.Pi/2+0.01, math.Pi/2-0.01)
}

// stepPlayer advances locomotion one tick: input-derived horizontal velocity
// with damping glide, edge-triggered double jump, gravity, per-axis collision
// with revert, height-field ground snap, world floor and bounds, then pickup
// collection.
func (w *World) stepPlayer(dt float64) {
	p := w.player
	if p.health <= 0 {
		return
	}

	// Movement basis comes from yaw only.
	sinYaw, cosYaw := math.Sin(p.yaw), math.Cos(p.yaw)
	forward := geom.Vec3{X: sinYaw, Z: cosYaw}
	right := geom.Vec3{X: cosYaw, Z: -sinYaw}

	var dir geom.Vec3
	if p.input.Forward {
		dir = dir.Add(forward)
	}
	if p.input.Back {
		dir = dir.Sub(forward)
	}
	if p.input.Right {
		dir = dir.Add(right)
	}
	if p.input.Left {
		dir = dir.Sub(right)
	}
	if dir.X != 0 || dir.Z != 0 {
		dir = dir.Normalize()
		p.vel.X = dir.X * playerSpeed
		p.vel.Z = dir.Z * playerSpeed
	} else {
		p.vel.X *= horizontalDamping
		p.vel.Z *= horizontalDamping
	}

	// Jump input is consumed on the press edge.
	if p.input.Jump {
		if !p.jumpLatched {
			if p.grounded {
				p.vel.Y = playerJumpImpulse
				p.grounded = false
				p.doubleJump = true
				p.jumpLatched = true
			} else if p.doubleJump {
				p.vel.Y = playerJumpImpulse
				p.doubleJump = false
				p.jumpLatched = true
			}
		}
	} else {
		p.jumpLatched = false
	}

	p.vel.Y -= playerGravity * dt

	// X then Z independently so sliding along a wall works while the other
	// axis is blocked.
	tryX := p.pos
	tryX.X += p.vel.X * dt
	min, max := p.bounds(tryX)
	if w.level.FirstBlockingCollider(min, max, true) != nil {
		p.vel.X = 0
	} else {
		p.pos.X = tryX.X
	}

	tryZ := p.pos
	tryZ.Z += p.vel.Z * dt
	min, max = p.bounds(tryZ)
	if w.level.FirstBlockingCollider(min, max, true) != nil {
		p.vel.Z = 0
	} else {
		p.pos.Z = tryZ.Z
	}

	// Vertical: the height field wins when falling onto a surface.
	groundH := w.level.GroundHeightAt(p.pos.X, p.pos.Z)
	if p.vel.Y <= 0 && p.feetY() <= groundH+groundSnapTol {
		p.pos.Y = groundH + playerEyeHeight
		p.vel.Y = 0
		p.grounded = true
	} else {
		tryY := p.pos
		tryY.Y += p.vel.Y * dt
		min, max = p.bounds(tryY)
		if w.level.FirstBlockingCollider(min, max, true) != nil {
			p.vel.Y = 0
		} else {
			p.pos.Y = tryY.Y
		}
		p.grounded = false

		// Catch stepping onto a surface within the same tick.
		if p.vel.Y <= 0 && p.feetY() <= groundH+groundSnapTol {
			p.pos.Y = groundH + playerEyeHeight
			p.vel.Y = 0
			p.grounded = true
		}
	}

	// World floor behaves like a ground collider.
	if p.feetY() < floorLevel {
		p.pos.Y = floorLevel + playerEyeHeight
		p.vel.Y = 0
		p.grounded = true
	}

	p.pos.X = geom.Clamp(p.pos.X, -worldHalf+playerRadius, worldHalf-playerRadius)
	p.pos.Z = geom.Clamp(p.pos.Z, -worldHalf+playerRadius, worldHalf-playerRadius)

	w.collectPickups()
}

// damagePlayer applies melee or splash damage and handles defeat.
func (w *World) damagePlayer(amount float64) {
	p := w.player
	if p.health <= 0 || amount <= 0 {
		return
	}
	p.health -= amount
	p.flashActive = true
	w.schedule(damageFlashLife, func(w *World) {
		// The flag may already be cleared by a reset or a later flash.
		w.player.flashActive = false
	})
	if p.health <= 0 {
		p.health = 0
		w.gameOver = true
		w.pushNotification("Game over")
		w.logger.Info().Int("score", p.score).Int("wave", p.wave).Msg("player defeated")
	}
}
