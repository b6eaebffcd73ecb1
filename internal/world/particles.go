package world

import (
	"fmt"

	"arenafall/server/internal/geom"
)

// particleKind selects the life decay rate and removal rule for an effect.
type particleKind string

const (
	particleBlood     particleKind = "blood"
	particleTracer    particleKind = "tracer"
	particleExplosion particleKind = "explosion"
)

// particleState is a short-lived visual with no gameplay effect. Blood
// integrates a velocity under its own gravity constant; tracers and
// explosion puffs are pure life countdowns.
type particleState struct {
	ID   string
	kind particleKind
	pos  geom.Vec3
	vel  geom.Vec3
	life float64

	// tracer endpoints
	from geom.Vec3
	to   geom.Vec3
}

func (w *World) addParticle(p *particleState) *particleState {
	w.nextParticleID++
	p.ID = fmt.Sprintf("fx-%d", w.nextParticleID)
	w.particles = append(w.particles, p)
	return p
}

func (w *World) spawnBlood(at geom.Vec3) {
	rng := w.fxRNG
	for i := 0; i < 6; i++ {
		w.addParticle(&particleState{
			kind: particleBlood,
			pos:  at,
			vel: geom.Vec3{
				X: (rng.Float64() - 0.5) * 6,
				Y: rng.Float64() * 4,
				Z: (rng.Float64() - 0.5) * 6,
			},
			life: bloodLife,
		})
	}
}

func (w *World) spawnTracer(from, to geom.Vec3) {
	w.addParticle(&particleState{
		kind: particleTracer,
		pos:  from,
		from: from,
		to:   to,
		life: tracerLife,
	})
}

func (w *World) spawnExplosion(at geom.Vec3) {
	w.addParticle(&particleState{
		kind: particleExplosion,
		pos:  at,
		life: explosionLife,
	})
}

// stepParticles decays every effect and removes the expired ones. Blood is
// additionally culled once it falls below the world floor plane.
func (w *World) stepParticles(dt float64) {
	live := w.particles[:0]
	for _, p := range w.particles {
		switch p.kind {
		case particleBlood:
			p.vel.Y -= particleGravity * dt
			p.pos = p.pos.Add(p.vel.Scale(dt))
			p.life -= bloodDecayRate * dt
			if p.life <= 0 || p.pos.Y < floorLevel {
				continue
			}
		case particleTracer:
			p.life -= tracerDecayRate * dt
			if p.life <= 0 {
				continue
			}
		case particleExplosion:
			p.life -= explosionDecayRate * dt
			if p.life <= 0 {
				continue
			}
		}
		live = append(live, p)
	}
	w.particles = live
}

// particleOpacity fades an effect out as its life runs down.
func particleOpacity(p *particleState) float64 {
	return geom.Clamp(p.life, 0, 1)
}

// particleScale grows explosion puffs as they age; other kinds keep unit
// scale.
func particleScale(p *particleState) float64 {
	if p.kind != particleExplosion {
		return 1
	}
	return 1 + (explosionLife-geom.Clamp(p.life, 0, explosionLife))*explosionGrowth
}
