package world

import "strings"

const defaultWorldSeed = "arena"

// Config captures the tunables used when constructing a world.
type Config struct {
	Seed          string  `json:"seed"`
	BaseAgents    int     `json:"baseAgents"`
	AgentsPerWave int     `json:"agentsPerWave"`
	WaveDelay     float64 `json:"waveDelay"`
	DropChance    float64 `json:"dropChance"`
}

// normalized returns a config with defaults applied.
func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultWorldSeed
	}
	if normalized.BaseAgents <= 0 {
		normalized.BaseAgents = 3
	}
	if normalized.AgentsPerWave < 0 {
		normalized.AgentsPerWave = 0
	}
	if normalized.WaveDelay <= 0 {
		normalized.WaveDelay = 3.0
	}
	if normalized.DropChance <= 0 || normalized.DropChance > 1 {
		normalized.DropChance = 0.3
	}
	return normalized
}

// DefaultConfig enables the standard wave pacing and the default seed.
func DefaultConfig() Config {
	return Config{
		Seed:          defaultWorldSeed,
		BaseAgents:    3,
		AgentsPerWave: 2,
		WaveDelay:     3.0,
		DropChance:    0.3,
	}
}
