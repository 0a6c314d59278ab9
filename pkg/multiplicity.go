package glauber

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// MultiplicityModel computes the multiplicity used for weighting and
// re-weighting an event.
type MultiplicityModel interface {
	Multiplicity(evt *Event) float64
}

// TreeMultiplicity takes the multiplicity stored with the event.
type TreeMultiplicity struct{}

func (TreeMultiplicity) Multiplicity(evt *Event) float64 {
	return evt.Multiplicity
}

// NegativeBinomial is the two-component particle production model: each of
// (1-x)*Npart/2 + x*Ncoll sources emits a number of particles following a
// negative binomial distribution with mean Npp and shape K.
type NegativeBinomial struct {
	Npp float64
	K   float64
	X   float64
	src rand.Source
}

func NewNegativeBinomial(npp float64, k float64, x float64, src rand.Source) *NegativeBinomial {
	return &NegativeBinomial{Npp: npp, K: k, X: x, src: src}
}

func (nb *NegativeBinomial) Sources(npart float64, ncoll float64) float64 {
	return (1.0-nb.X)*npart/2.0 + nb.X*ncoll
}

// Draw samples one source as a Poisson with a Gamma distributed mean.
func (nb *NegativeBinomial) Draw() float64 {
	if nb.Npp <= 0 {
		return 0
	}
	gamma := distuv.Gamma{Alpha: nb.K, Beta: nb.K / nb.Npp, Src: nb.src}
	lambda := gamma.Rand()
	if lambda <= 0 {
		return 0
	}
	poisson := distuv.Poisson{Lambda: lambda, Src: nb.src}
	return poisson.Rand()
}

// GetMultiplicity sums the draws of every source. The fractional part of
// the number of sources adds one more source with that probability.
func (nb *NegativeBinomial) GetMultiplicity(npart float64, ncoll float64) float64 {
	sources := nb.Sources(npart, ncoll)
	n := int(math.Floor(sources))
	if frac := sources - float64(n); frac > 0 {
		uniform := distuv.Uniform{Min: 0, Max: 1, Src: nb.src}
		if uniform.Rand() < frac {
			n++
		}
	}
	multiplicity := 0.0
	for i := 0; i < n; i++ {
		multiplicity += nb.Draw()
	}
	return multiplicity
}

// NegativeBinomialMultiplicity recomputes the multiplicity from Npart and
// Ncoll with the negative binomial parameters of one centrality.
type NegativeBinomialMultiplicity struct {
	model *NegativeBinomial
}

func NewNegativeBinomialMultiplicity(c *Centrality, src rand.Source) *NegativeBinomialMultiplicity {
	return &NegativeBinomialMultiplicity{model: NewNegativeBinomial(c.Npp, c.K, c.X, src)}
}

func (m *NegativeBinomialMultiplicity) Multiplicity(evt *Event) float64 {
	return m.model.GetMultiplicity(float64(evt.Npart), float64(evt.Ncoll))
}
