package sim

import "math/rand"

// Source supplies the uniform randomness behind market fluctuation. It is
// injected into the state so turns replay deterministically under test
// with a fixed seed or a scripted stub.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

type seededSource struct {
	r *rand.Rand
}

// NewSource returns a seeded pseudorandom source.
func NewSource(seed int64) Source {
	return &seededSource{r: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Float64() float64 {
	return s.r.Float64()
}
