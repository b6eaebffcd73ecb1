package world

import (
	"fmt"
	"math"

	"arenafall/server/internal/geom"
)

// PickupKind identifies what a dropped pickup restores.
type PickupKind string

const (
	PickupHealth PickupKind = "health"
	PickupAmmo   PickupKind = "ammo"
)

// pickupState is a collectible left behind by a defeated agent.
type pickupState struct {
	ID       string
	pos      geom.Vec3
	kind     PickupKind
	bobPhase float64
}

func (w *World) spawnPickup(pos geom.Vec3, kind PickupKind) *pickupState {
	w.nextPickupID++
	pickup := &pickupState{
		ID:   fmt.Sprintf("pickup-%d", w.nextPickupID),
		pos:  geom.Vec3{X: pos.X, Y: pos.Y + 0.5, Z: pos.Z},
		kind: kind,
	}
	w.pickups = append(w.pickups, pickup)
	return pickup
}

// stepPickups advances the idle bob animation phase.
func (w *World) stepPickups(dt float64) {
	for _, pickup := range w.pickups {
		pickup.bobPhase += pickupBobRate * dt
		if pickup.bobPhase > 2*math.Pi {
			pickup.bobPhase -= 2 * math.Pi
		}
	}
}

// collectPickups applies and removes every pickup within reach of the
// player. Grants are capped at their maximums.
func (w *World) collectPickups() {
	if len(w.pickups) == 0 {
		return
	}
	p := w.player
	remaining := w.pickups[:0]
	for _, pickup := range w.pickups {
		if p.pos.Dist(pickup.pos) > pickupRadius {
			remaining = append(remaining, pickup)
			continue
		}
		switch pickup.kind {
		case PickupHealth:
			p.health = math.Min(playerMaxHealth, p.health+healthPickupGain)
			w.pushNotification("+Health")
		case PickupAmmo:
			p.reserve = min(reserveMax, p.reserve+ammoPickupGain)
			w.pushNotification("+Ammo")
		}
		w.logger.Debug().Str("pickup", pickup.ID).Str("kind", string(pickup.kind)).Msg("pickup collected")
	}
	w.pickups = remaining
}
