package glauber

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Uniform draws numbers uniformly distributed in [0, 1).
type Uniform interface {
	Uniform() float64
}

// Random is the per-run random source. It is created once per run and
// handed to the components that sample.
type Random struct {
	src     rand.Source
	uniform distuv.Uniform
}

func NewRandom(seed uint64) *Random {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Random{
		src:     src,
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

func (r *Random) Uniform() float64 {
	return r.uniform.Rand()
}

func (r *Random) Source() rand.Source {
	return r.src
}
