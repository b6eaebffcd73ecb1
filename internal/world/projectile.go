package world

import (
	"fmt"

	"arenafall/server/internal/geom"
)

// projectileState is a rocket in flight.
type projectileState struct {
	ID        string
	pos       geom.Vec3
	vel       geom.Vec3
	travelled float64
	done      bool
}

func (w *World) spawnRocket(origin, velocity geom.Vec3) *projectileState {
	w.nextProjectileID++
	rocket := &projectileState{
		ID:  fmt.Sprintf("rocket-%d", w.nextProjectileID),
		pos: origin,
		vel: velocity,
	}
	w.projectiles = append(w.projectiles, rocket)
	return rocket
}

// stepProjectiles advances each rocket and detonates on the first of:
// static-collider impact, proximity to a living agent, or max travel.
// The displacement is swept against the level rather than sampled at the
// endpoint, so a clamped delta large enough to cross a thin wall in one
// tick still registers the impact. The final step is truncated so a rocket
// never overshoots its range.
func (w *World) stepProjectiles(dt float64) {
	for _, rocket := range w.projectiles {
		if rocket.done {
			continue
		}
		step := rocket.vel.Length() * dt
		if remaining := rocketMaxTravel - rocket.travelled; step > remaining {
			step = remaining
		}
		if step > 0 {
			dir := rocket.vel.Normalize()
			if dist, hit := w.staticHitDistance(rocket.pos, dir, step); hit {
				rocket.pos = rocket.pos.Add(dir.Scale(dist))
				rocket.travelled += dist
				w.detonate(rocket)
				continue
			}
			rocket.pos = rocket.pos.Add(dir.Scale(step))
			rocket.travelled += step
		}

		proximity := false
		for _, a := range w.agents {
			if a.dead || a.health <= 0 {
				continue
			}
			center := geom.Vec3{X: a.pos.X, Y: a.pos.Y + agentHeight/2, Z: a.pos.Z}
			if rocket.pos.Dist(center) <= rocketProximity {
				proximity = true
				break
			}
		}
		if proximity || rocket.travelled >= rocketMaxTravel {
			w.detonate(rocket)
		}
	}

	live := w.projectiles[:0]
	for _, rocket := range w.projectiles {
		if !rocket.done {
			live = append(live, rocket)
		}
	}
	w.projectiles = live
}

// staticHitDistance sweeps the rocket's padded hull from origin along dir
// for up to maxDist and returns the entry distance of the nearest collider.
// Padding is applied by inflating each box, so the sweep reduces to a slab
// test against the segment.
func (w *World) staticHitDistance(origin, dir geom.Vec3, maxDist float64) (float64, bool) {
	pad := geom.Vec3{X: rocketHullPad, Y: rocketHullPad, Z: rocketHullPad}
	best := maxDist
	found := false
	for i := range w.level.colliders {
		c := &w.level.colliders[i]
		if dist, ok := geom.RayBoxDistance(origin, dir, c.Min.Sub(pad), c.Max.Add(pad), best); ok {
			best = dist
			found = true
		}
	}
	return best, found
}

// detonate applies distance-weighted splash damage around the rocket and
// removes it. Agents at the blast center take full damage, agents at the
// radius edge approach zero.
func (w *World) detonate(rocket *projectileState) {
	if rocket.done {
		return
	}
	rocket.done = true
	w.spawnExplosion(rocket.pos)

	for _, a := range w.agents {
		if a.dead || a.health <= 0 {
			continue
		}
		center := geom.Vec3{X: a.pos.X, Y: a.pos.Y + agentHeight/2, Z: a.pos.Z}
		dist := rocket.pos.Dist(center)
		if dist >= blastRadius {
			continue
		}
		damage := blastMaxDamage * (1 - dist/blastRadius)
		if damage <= 0 {
			continue
		}
		w.applyAgentDamage(a, damage)
	}
}
