// Package random provides the injectable random source used by combat.
//
// Every source is seeded explicitly so a combat can be replayed exactly.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source is the randomness a combat consumes.
type Source interface {
	// Float64Between returns a uniform value in [lo, hi).
	Float64Between(lo, hi float64) float64
	// Intn returns a uniform value in [0, n). n must be positive.
	Intn(n int) int
}

// Rand is a seeded math/rand backed Source. It is not safe for concurrent
// use; give every combat its own.
type Rand struct {
	r *rand.Rand
}

func New(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

func (s *Rand) Float64Between(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

func (s *Rand) Intn(n int) int { return s.r.Intn(n) }

// Int63 returns a non-negative value, used to derive child seeds.
func (s *Rand) Int63() int64 { return s.r.Int63() }

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
