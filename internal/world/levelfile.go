package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"arenafall/server/internal/geom"
)

// LevelDocument is the on-disk shape of a level. The same struct feeds the
// JSON-schema generator used to validate designer-authored files.
type LevelDocument struct {
	Name      string             `yaml:"name" json:"name" jsonschema:"required,description=Display name of the level"`
	Colliders []ColliderDocument `yaml:"colliders" json:"colliders" jsonschema:"required,description=Static axis-aligned colliders"`
}

// ColliderDocument is one collider entry in a level file.
type ColliderDocument struct {
	Min    [3]float64   `yaml:"min" json:"min" jsonschema:"required,description=Minimum corner (x y z)"`
	Max    [3]float64   `yaml:"max" json:"max" jsonschema:"required,description=Maximum corner (x y z)"`
	Ground bool         `yaml:"ground,omitempty" json:"ground,omitempty" jsonschema:"description=Walkable floor rather than a wall"`
	Ramp   *RampProfile `yaml:"ramp,omitempty" json:"ramp,omitempty" jsonschema:"description=Height interpolation along z for sloped surfaces"`
}

// LoadLevel reads and validates a YAML level document.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level file: %w", err)
	}
	var doc LevelDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse level file: %w", err)
	}
	return buildLevel(doc)
}

func buildLevel(doc LevelDocument) (*Level, error) {
	name := doc.Name
	if name == "" {
		name = "unnamed"
	}
	level := NewLevel(name)
	for _, c := range doc.Colliders {
		level.AddCollider(
			geom.Vec3{X: c.Min[0], Y: c.Min[1], Z: c.Min[2]},
			geom.Vec3{X: c.Max[0], Y: c.Max[1], Z: c.Max[2]},
			c.Ground,
			c.Ramp,
		)
	}
	if err := level.Validate(); err != nil {
		return nil, fmt.Errorf("level %q: %w", name, err)
	}
	return level, nil
}
