package sim

import (
	"hash/fnv"
	"math/rand"
)

// Source produces uniform draws in [0, 1).
// *rand.Rand satisfies it; tests inject scripted sequences.
type Source interface {
	Float64() float64
}

// drawIndex maps a uniform draw onto [0, n). Draws at or above 1.0 clamp to n-1.
func drawIndex(src Source, n int) int {
	idx := int(src.Float64() * float64(n))
	if idx >= n {
		return n - 1
	}
	if idx < 0 {
		return 0
	}
	return idx
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible combat run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce identical statistics.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemMatrix is the RNG subsystem for attack-probability matrix generation.
	// Uses master seed directly.
	SubsystemMatrix = "matrix"

	// SubsystemCombat is the RNG subsystem for attacker and defender draws.
	SubsystemCombat = "combat"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemMatrix: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Keeping matrix and combat draws on separate streams means a change in how
// many draws one consumes does not shift the other.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemMatrix {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
