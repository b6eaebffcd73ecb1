package world

import (
	"fmt"

	"arenafall/server/internal/geom"
)

// RampProfile interpolates a walkable height along the z axis of a collider.
// HeightAtMinZ and HeightAtMaxZ are the surface elevations at the two ends.
type RampProfile struct {
	MinZ         float64 `json:"minZ" yaml:"minZ"`
	MaxZ         float64 `json:"maxZ" yaml:"maxZ"`
	HeightAtMinZ float64 `json:"heightAtMinZ" yaml:"heightAtMinZ"`
	HeightAtMaxZ float64 `json:"heightAtMaxZ" yaml:"heightAtMaxZ"`
}

// Collider is an axis-aligned box registered at level construction and
// immutable afterwards. Ramp colliders keep a generous vertical extent so
// they still block when a caller does not skip them; walkable standing on a
// ramp goes through GroundHeightAt instead.
type Collider struct {
	Min    geom.Vec3    `json:"min"`
	Max    geom.Vec3    `json:"max"`
	Ground bool         `json:"ground"`
	Ramp   *RampProfile `json:"ramp,omitempty"`
}

// Level owns the static collider registry. Construction-time only; nothing
// removes colliders once the world is running.
type Level struct {
	Name      string
	colliders []Collider
}

// NewLevel returns an empty named level.
func NewLevel(name string) *Level {
	return &Level{Name: name, colliders: make([]Collider, 0, 16)}
}

// AddCollider appends one immutable collider to the registry.
func (l *Level) AddCollider(min, max geom.Vec3, ground bool, ramp *RampProfile) {
	l.colliders = append(l.colliders, Collider{Min: min, Max: max, Ground: ground, Ramp: ramp})
}

// Colliders exposes the registry read-only; callers must not mutate entries.
func (l *Level) Colliders() []Collider {
	return l.colliders
}

// GroundHeightAt returns the highest walkable surface elevation under (x, z),
// or the world floor when nothing is below. Flat colliders contribute their
// top face; ramps contribute the interpolated slope height so feet track the
// incline continuously instead of stair-stepping against the ramp's box.
func (l *Level) GroundHeightAt(x, z float64) float64 {
	height := floorLevel
	for i := range l.colliders {
		c := &l.colliders[i]
		if !geom.BoxContainsXZ(c.Min, c.Max, x, z) {
			continue
		}
		candidate := c.Max.Y
		if c.Ramp != nil {
			span := c.Ramp.MaxZ - c.Ramp.MinZ
			if span <= 0 {
				continue
			}
			t := geom.Clamp((z-c.Ramp.MinZ)/span, 0, 1)
			candidate = c.Ramp.HeightAtMinZ + t*(c.Ramp.HeightAtMaxZ-c.Ramp.HeightAtMinZ)
		}
		if candidate > height {
			height = candidate
		}
	}
	return height
}

// FirstBlockingCollider scans the registry in insertion order and returns the
// first collider strictly overlapping the query bounds on all three axes.
// With ignoreRamps set, ramp colliders never block; callers resolving
// horizontal motion or free-fall rely on the height field for ramps instead.
// When several colliders overlap the bounds the insertion order decides;
// levels are validated overlap-free at load so nothing depends on the pick.
func (l *Level) FirstBlockingCollider(boundsMin, boundsMax geom.Vec3, ignoreRamps bool) *Collider {
	for i := range l.colliders {
		c := &l.colliders[i]
		if ignoreRamps && c.Ramp != nil {
			continue
		}
		if geom.BoxesOverlap(boundsMin, boundsMax, c.Min, c.Max) {
			return c
		}
	}
	return nil
}

// FirstObstacleCollider is the agent-movement variant: ramps are handled by
// the height field and ground slabs are floor, not walls, so both are skipped.
func (l *Level) FirstObstacleCollider(boundsMin, boundsMax geom.Vec3) *Collider {
	for i := range l.colliders {
		c := &l.colliders[i]
		if c.Ramp != nil || c.Ground {
			continue
		}
		if geom.BoxesOverlap(boundsMin, boundsMax, c.Min, c.Max) {
			return c
		}
	}
	return nil
}

// Validate checks the construction invariants: min < max per axis, ramp
// z-spans ordered, and no two non-ground colliders overlapping. Overlap is
// reported because FirstBlockingCollider's result would otherwise depend on
// insertion order.
func (l *Level) Validate() error {
	for i := range l.colliders {
		c := &l.colliders[i]
		if c.Min.X >= c.Max.X || c.Min.Y >= c.Max.Y || c.Min.Z >= c.Max.Z {
			return fmt.Errorf("collider %d: min must be strictly below max on every axis", i)
		}
		if c.Ramp != nil && c.Ramp.MinZ >= c.Ramp.MaxZ {
			return fmt.Errorf("collider %d: ramp minZ must be below maxZ", i)
		}
	}
	for i := range l.colliders {
		for j := i + 1; j < len(l.colliders); j++ {
			a, b := &l.colliders[i], &l.colliders[j]
			if a.Ground || b.Ground {
				continue
			}
			if geom.BoxesOverlap(a.Min, a.Max, b.Min, b.Max) {
				return fmt.Errorf("colliders %d and %d overlap; blocking resolution would be insertion-order dependent", i, j)
			}
		}
	}
	return nil
}

// BuiltinArena constructs the default level: a ground slab, perimeter walls,
// two raised platforms with ramps up to them, and scattered cover boxes.
func BuiltinArena() *Level {
	l := NewLevel("arena")

	// Ground slab just below the walkable plane.
	l.AddCollider(geom.Vec3{X: -worldHalf, Y: -1, Z: -worldHalf}, geom.Vec3{X: worldHalf, Y: 0, Z: worldHalf}, true, nil)

	// Perimeter walls.
	l.AddCollider(geom.Vec3{X: -worldHalf, Y: 0, Z: worldHalf - 1}, geom.Vec3{X: worldHalf, Y: 6, Z: worldHalf}, false, nil)
	l.AddCollider(geom.Vec3{X: -worldHalf, Y: 0, Z: -worldHalf}, geom.Vec3{X: worldHalf, Y: 6, Z: -worldHalf + 1}, false, nil)
	l.AddCollider(geom.Vec3{X: worldHalf - 1, Y: 0, Z: -worldHalf + 1}, geom.Vec3{X: worldHalf, Y: 6, Z: worldHalf - 1}, false, nil)
	l.AddCollider(geom.Vec3{X: -worldHalf, Y: 0, Z: -worldHalf + 1}, geom.Vec3{X: -worldHalf + 1, Y: 6, Z: worldHalf - 1}, false, nil)

	// Raised platforms.
	l.AddCollider(geom.Vec3{X: 10, Y: 0, Z: 10}, geom.Vec3{X: 20, Y: 3, Z: 20}, true, nil)
	l.AddCollider(geom.Vec3{X: -22, Y: 0, Z: -18}, geom.Vec3{X: -12, Y: 2.5, Z: -8}, true, nil)

	// Ramps onto the platforms. Vertical extent covers base to top-of-rise
	// plus a pad so the box still blocks when not explicitly skipped.
	l.AddCollider(geom.Vec3{X: 12, Y: 0, Z: 4}, geom.Vec3{X: 18, Y: 3.5, Z: 10},
		false, &RampProfile{MinZ: 4, MaxZ: 10, HeightAtMinZ: 0, HeightAtMaxZ: 3})
	l.AddCollider(geom.Vec3{X: -20, Y: 0, Z: -8}, geom.Vec3{X: -14, Y: 3, Z: -2},
		false, &RampProfile{MinZ: -8, MaxZ: -2, HeightAtMinZ: 2.5, HeightAtMaxZ: 0})

	// Cover boxes.
	l.AddCollider(geom.Vec3{X: -4, Y: 0, Z: 6}, geom.Vec3{X: -1, Y: 1.5, Z: 9}, false, nil)
	l.AddCollider(geom.Vec3{X: 4, Y: 0, Z: -10}, geom.Vec3{X: 7, Y: 1.5, Z: -7}, false, nil)
	l.AddCollider(geom.Vec3{X: -14, Y: 0, Z: 14}, geom.Vec3{X: -10, Y: 2, Z: 17}, false, nil)
	l.AddCollider(geom.Vec3{X: 22, Y: 0, Z: -20}, geom.Vec3{X: 26, Y: 2, Z: -16}, false, nil)

	return l
}
