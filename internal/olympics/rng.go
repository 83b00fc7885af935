package olympics

import "math/rand/v2"

// RandomSource supplies the uniform draw used when activating a power-up.
// Tests inject a seeded source so selection can be asserted without pinning
// a specific draw order into the engine.
type RandomSource interface {
	IntN(n int) int
}

type defaultRNG struct{}

func (defaultRNG) IntN(n int) int { return rand.IntN(n) }

// DefaultRNG returns the process-wide math/rand/v2 source.
func DefaultRNG() RandomSource { return defaultRNG{} }

type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns a reproducible source for tests and simulations.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) IntN(n int) int { return s.r.IntN(n) }
