package world

import (
	"math"
	"testing"

	"arenafall/server/internal/geom"
)

func runRocketToDetonation(t *testing.T, w *World) {
	t.Helper()
	for i := 0; i < 600; i++ {
		if len(w.projectiles) == 0 {
			return
		}
		w.stepProjectiles(1.0 / tickRate)
	}
	t.Fatal("rocket never detonated")
}

func TestSplashDamageFalloff(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	center := w.spawnAgentAt(geom.Vec3{X: 0, Y: 0, Z: 0})
	mid := w.spawnAgentAt(geom.Vec3{X: blastRadius / 2, Y: 0, Z: 0})
	edge := w.spawnAgentAt(geom.Vec3{X: blastRadius, Y: 0, Z: 0})

	rocket := w.spawnRocket(geom.Vec3{X: 0, Y: agentHeight / 2, Z: 0}, geom.Vec3{})
	w.detonate(rocket)

	if !center.dead {
		t.Fatal("agent at blast center survived full damage")
	}
	wantMid := agentMaxHealth - blastMaxDamage/2
	if math.Abs(mid.health-wantMid) > 1e-9 {
		t.Fatalf("mid agent health = %v, want %v", mid.health, wantMid)
	}
	if edge.health != agentMaxHealth {
		t.Fatalf("agent at blast edge took damage: %v", edge.health)
	}
	if center.health >= mid.health {
		t.Fatal("damage did not decrease with distance")
	}
}

func TestDetonateIsIdempotent(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()
	a := w.spawnAgentAt(geom.Vec3{X: 2, Y: 0, Z: 0})

	rocket := w.spawnRocket(geom.Vec3{X: 0, Y: agentHeight / 2, Z: 0}, geom.Vec3{})
	w.detonate(rocket)
	healthAfterFirst := a.health
	w.detonate(rocket)

	if a.health != healthAfterFirst {
		t.Fatal("second detonation applied damage again")
	}
}

func TestRocketDetonatesOnWall(t *testing.T) {
	l := NewLevel("wall")
	l.AddCollider(geom.Vec3{X: -3, Y: 0, Z: 10}, geom.Vec3{X: 3, Y: 4, Z: 11}, false, nil)
	w := newTestWorld(t, l)
	w.clearTimers()
	behind := w.spawnAgentAt(geom.Vec3{X: 0, Y: 0, Z: 11 + blastRadius + 2})

	w.spawnRocket(geom.Vec3{X: 0, Y: 1.5, Z: 0}, geom.Vec3{Z: rocketSpeed})
	runRocketToDetonation(t, w)

	if behind.health != agentMaxHealth {
		t.Fatalf("agent beyond the blast radius took damage: %v", behind.health)
	}
	explosions := 0
	for _, p := range w.particles {
		if p.kind == particleExplosion {
			explosions++
		}
	}
	if explosions != 1 {
		t.Fatalf("explosion count = %d, want 1", explosions)
	}
}

func TestRocketDetonatesOnProximity(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()
	target := w.spawnAgentAt(geom.Vec3{X: 0, Y: 0, Z: 20})

	w.spawnRocket(geom.Vec3{X: 0, Y: agentHeight / 2, Z: 0}, geom.Vec3{Z: rocketSpeed})
	runRocketToDetonation(t, w)

	if target.health == agentMaxHealth {
		t.Fatal("proximity detonation dealt no damage")
	}
}

func TestRocketExpiresAtMaxTravel(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()
	// Far beyond max travel plus the blast radius: must stay untouched.
	distant := w.spawnAgentAt(geom.Vec3{X: 0, Y: 0, Z: rocketMaxTravel + blastRadius + 20})

	w.spawnRocket(geom.Vec3{X: 0, Y: agentHeight / 2, Z: 0}, geom.Vec3{Z: rocketSpeed})
	runRocketToDetonation(t, w)

	if distant.health != agentMaxHealth {
		t.Fatalf("agent beyond max travel took damage: %v", distant.health)
	}

	// The terminal explosion sits at the range limit, not beyond it.
	for _, p := range w.particles {
		if p.kind == particleExplosion {
			if p.pos.Z > rocketMaxTravel+1e-6 {
				t.Fatalf("rocket overshot max travel: z=%v", p.pos.Z)
			}
			if p.pos.Z < rocketMaxTravel-1 {
				t.Fatalf("rocket expired early: z=%v", p.pos.Z)
			}
			return
		}
	}
	t.Fatal("no terminal explosion found")
}

func TestRocketDoesNotTunnelThinWallAtClampedDelta(t *testing.T) {
	l := NewLevel("thin")
	l.AddCollider(geom.Vec3{X: -3, Y: 0, Z: 10}, geom.Vec3{X: 3, Y: 4, Z: 10.3}, false, nil)
	w := newTestWorld(t, l)
	w.clearTimers()
	behind := w.spawnAgentAt(geom.Vec3{X: 0, Y: 0, Z: 30})

	w.spawnRocket(geom.Vec3{X: 0, Y: 1.5, Z: 0}, geom.Vec3{Z: rocketSpeed})

	// At the clamped delta the rocket covers five meters per tick, far more
	// than the wall is thick.
	for i := 0; i < 100 && len(w.projectiles) > 0; i++ {
		w.stepProjectiles(maxDelta)
	}
	if len(w.projectiles) != 0 {
		t.Fatal("rocket never detonated")
	}

	if behind.health != agentMaxHealth {
		t.Fatalf("agent behind the wall took damage: %v", behind.health)
	}
	for _, p := range w.particles {
		if p.kind == particleExplosion {
			if p.pos.Z > 10.3 {
				t.Fatalf("rocket passed through the wall: detonation at z=%v", p.pos.Z)
			}
			return
		}
	}
	t.Fatal("no explosion recorded")
}

func TestRocketStepTruncatedAtRangeBoundary(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	rocket := w.spawnRocket(geom.Vec3{}, geom.Vec3{Z: rocketSpeed})
	rocket.travelled = rocketMaxTravel - 0.1
	rocket.pos = geom.Vec3{Z: rocketMaxTravel - 0.1}

	w.stepProjectiles(1.0 / tickRate) // full step would be ~0.83

	if rocket.travelled > rocketMaxTravel+1e-9 {
		t.Fatalf("travelled %v past the range limit", rocket.travelled)
	}
	if !rocket.done {
		t.Fatal("rocket at range limit did not detonate")
	}
}
