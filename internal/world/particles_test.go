package world

import (
	"testing"

	"arenafall/server/internal/geom"
)

func countKind(w *World, kind particleKind) int {
	n := 0
	for _, p := range w.particles {
		if p.kind == kind {
			n++
		}
	}
	return n
}

func TestTracerDecaysAndExpires(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	w.spawnTracer(geom.Vec3{}, geom.Vec3{Z: 50})
	if countKind(w, particleTracer) != 1 {
		t.Fatal("tracer not spawned")
	}

	// Tracers burn out in roughly a ninth of a second.
	for i := 0; i < 20; i++ {
		w.stepParticles(1.0 / tickRate)
	}
	if countKind(w, particleTracer) != 0 {
		t.Fatal("tracer outlived its decay")
	}
}

func TestBloodFallsAndIsCulledAtFloor(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	w.spawnBlood(geom.Vec3{X: 0, Y: 0.5, Z: 0})
	if countKind(w, particleBlood) != 6 {
		t.Fatalf("blood burst = %d particles, want 6", countKind(w, particleBlood))
	}

	// Gravity drags every droplet below the floor well inside its lifetime.
	for i := 0; i < 120; i++ {
		w.stepParticles(1.0 / tickRate)
	}
	if countKind(w, particleBlood) != 0 {
		t.Fatalf("%d blood particles survived", countKind(w, particleBlood))
	}
}

func TestExplosionGrowsWhileFading(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	w.spawnExplosion(geom.Vec3{})
	fx := w.particles[0]

	scale0 := particleScale(fx)
	opacity0 := particleOpacity(fx)
	w.stepParticles(1.0 / tickRate)

	if particleScale(fx) <= scale0 {
		t.Fatal("explosion did not grow")
	}
	if particleOpacity(fx) >= opacity0 {
		t.Fatal("explosion did not fade")
	}
}

func TestNonExplosionKeepsUnitScale(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()

	w.spawnTracer(geom.Vec3{}, geom.Vec3{Z: 10})
	w.stepParticles(1.0 / tickRate)
	if len(w.particles) == 0 {
		t.Fatal("tracer expired in one tick")
	}
	if particleScale(w.particles[0]) != 1 {
		t.Fatalf("tracer scale = %v, want 1", particleScale(w.particles[0]))
	}
}

func TestNotificationExpires(t *testing.T) {
	w := newTestWorld(t, nil)
	w.clearTimers()
	stepIdle(w, 1)

	w.pushNotification("hello")
	if len(w.notifications) != 1 {
		t.Fatal("notification not stored")
	}

	stepIdle(w, int(notificationSeconds*tickRate)+5)
	if len(w.notifications) != 0 {
		t.Fatal("notification never expired")
	}
}
