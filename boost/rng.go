package boost

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// RunKey uniquely identifies a reproducible training or CV run. Two runs
// with the same RunKey and identical configuration MUST produce identical
// fold partitions and replay curves.
type RunKey int64

// RNG subsystem names. Fold shuffling uses the master seed directly so a
// plain --seed keeps producing the partitions callers already depend on;
// every other subsystem derives an isolated stream.
const (
	subsystemFolds = "folds"
)

// subsystemCurve returns the RNG subsystem for one (label, metric) replay
// curve, so adding a curve never perturbs the noise of the others.
func subsystemCurve(label, metric string) string {
	return fmt.Sprintf("curve_%s-%s", label, metric)
}

// partitionedRNG hands out deterministically seeded, isolated RNG streams
// per subsystem.
//
// Derivation: the folds subsystem uses the master seed directly; all other
// subsystems use masterSeed XOR fnv1a64(subsystemName).
//
// Not safe for concurrent use.
type partitionedRNG struct {
	key        RunKey
	subsystems map[string]*rand.Rand
}

func newPartitionedRNG(key RunKey) *partitionedRNG {
	return &partitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// forSubsystem returns the cached RNG for the named subsystem, creating it
// on first use. Never returns nil.
func (p *partitionedRNG) forSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == subsystemFolds {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
