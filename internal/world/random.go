package world

import (
	"hash/fnv"
	"math/rand"
)

// DeterministicSeedValue hashes a root seed and subsystem label into a
// non-zero source seed so every subsystem draws from an independent stream.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG builds a seeded generator for the given subsystem.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}

func (w *World) subsystemRNG(label string) *rand.Rand {
	return NewDeterministicRNG(w.seed, label)
}
