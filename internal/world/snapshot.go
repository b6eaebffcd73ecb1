package world

import "arenafall/server/internal/geom"

// PlayerView is the broadcast copy of the player plus the HUD fields the UI
// collaborator consumes.
type PlayerView struct {
	Position  geom.Vec3 `json:"position"`
	Yaw       float64   `json:"yaw"`
	Pitch     float64   `json:"pitch"`
	Health    float64   `json:"health"`
	Magazine  int       `json:"magazine"`
	Reserve   int       `json:"reserve"`
	Reloading bool      `json:"reloading"`
	Grounded  bool      `json:"grounded"`
	Flash     bool      `json:"flash"`
	Score     int       `json:"score"`
	Wave      int       `json:"wave"`
}

// AgentView is the broadcast copy of one hostile.
type AgentView struct {
	ID       string    `json:"id"`
	Position geom.Vec3 `json:"position"`
	Yaw      float64   `json:"yaw"`
	Health   float64   `json:"health"`
}

// ProjectileView is the broadcast copy of a rocket in flight.
type ProjectileView struct {
	ID       string    `json:"id"`
	Position geom.Vec3 `json:"position"`
}

// PickupView is the broadcast copy of a collectible.
type PickupView struct {
	ID       string     `json:"id"`
	Kind     PickupKind `json:"kind"`
	Position geom.Vec3  `json:"position"`
	BobPhase float64    `json:"bobPhase"`
}

// ParticleView carries enough for a renderer to draw an effect: position or
// tracer endpoints plus opacity/scale derived from remaining life.
type ParticleView struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	Position geom.Vec3 `json:"position"`
	From     geom.Vec3 `json:"from"`
	To       geom.Vec3 `json:"to"`
	Opacity  float64   `json:"opacity"`
	Scale    float64   `json:"scale"`
}

// Snapshot is a copy of everything a client renders for one tick.
type Snapshot struct {
	Tick          uint64           `json:"tick"`
	Player        PlayerView       `json:"player"`
	Agents        []AgentView      `json:"agents"`
	Projectiles   []ProjectileView `json:"projectiles"`
	Pickups       []PickupView     `json:"pickups"`
	Particles     []ParticleView   `json:"particles"`
	Notifications []Notification   `json:"notifications"`
	GameOver      bool             `json:"gameOver"`
}

// Snapshot copies the world state into broadcast-friendly structs. Nothing
// in the returned value aliases simulation state.
func (w *World) Snapshot() Snapshot {
	p := w.player
	snap := Snapshot{
		Tick: w.currentTick,
		Player: PlayerView{
			Position:  p.pos,
			Yaw:       p.yaw,
			Pitch:     p.pitch,
			Health:    p.health,
			Magazine:  p.magazine,
			Reserve:   p.reserve,
			Reloading: p.reloading,
			Grounded:  p.grounded,
			Flash:     p.flashActive,
			Score:     p.score,
			Wave:      p.wave,
		},
		Agents:        make([]AgentView, 0, len(w.agents)),
		Projectiles:   make([]ProjectileView, 0, len(w.projectiles)),
		Pickups:       make([]PickupView, 0, len(w.pickups)),
		Particles:     make([]ParticleView, 0, len(w.particles)),
		Notifications: append([]Notification(nil), w.notifications...),
		GameOver:      w.gameOver,
	}
	for _, a := range w.agents {
		if a.dead {
			continue
		}
		snap.Agents = append(snap.Agents, AgentView{ID: a.ID, Position: a.pos, Yaw: a.yaw, Health: a.health})
	}
	for _, rocket := range w.projectiles {
		snap.Projectiles = append(snap.Projectiles, ProjectileView{ID: rocket.ID, Position: rocket.pos})
	}
	for _, pickup := range w.pickups {
		snap.Pickups = append(snap.Pickups, PickupView{ID: pickup.ID, Kind: pickup.kind, Position: pickup.pos, BobPhase: pickup.bobPhase})
	}
	for _, fx := range w.particles {
		snap.Particles = append(snap.Particles, ParticleView{
			ID:       fx.ID,
			Kind:     string(fx.kind),
			Position: fx.pos,
			From:     fx.from,
			To:       fx.to,
			Opacity:  particleOpacity(fx),
			Scale:    particleScale(fx),
		})
	}
	return snap
}
