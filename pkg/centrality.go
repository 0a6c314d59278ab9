package glauber

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	NCentralityBins  = 16
	centralityWidth  = 5.0
	centralityMaxPct = 80.0
	nCentralities    = 3
)

// Reweighter returns the acceptance probability of an event with the given
// multiplicity.
type Reweighter interface {
	Reweight(multiplicity float64) float64
}

// ConstantReweighting accepts every event with the same probability.
type ConstantReweighting float64

func (c ConstantReweighting) Reweight(float64) float64 {
	return float64(c)
}

// ReweightingParameters describes the low multiplicity efficiency correction
//
//	w(m) = p0 + p1/(p2*m + p3) + p4*(p2*m + p3)
//
// clamped to [0, 1]. Events at or above MultiplicityCap are always kept.
type ReweightingParameters struct {
	Par             [5]float64
	ParError        [2]float64
	MultiplicityCap float64
}

func (r ReweightingParameters) Reweight(multiplicity float64) float64 {
	if multiplicity >= r.MultiplicityCap {
		return 1.0
	}
	x := r.Par[2]*multiplicity + r.Par[3]
	if x == 0 {
		return 1.0
	}
	weight := r.Par[0] + r.Par[1]/x + r.Par[4]*x
	if weight < 0 {
		return 0
	}
	if weight > 1 {
		return 1
	}
	return weight
}

// shift moves p0 and p1 by the given number of standard deviations.
func (r ReweightingParameters) shift(sigmaP0, sigmaP1 float64) ReweightingParameters {
	r.Par[0] += sigmaP0 * r.ParError[0]
	r.Par[1] += sigmaP1 * r.ParError[1]
	return r
}

type CentralityParameters struct {
	Npp         float64
	K           float64
	X           float64
	NppError    float64
	XError      float64
	Cuts        []float64
	Reweighting ReweightingParameters
}

type Centrality struct {
	Npp         float64
	K           float64
	X           float64
	Cuts        []float64 // lower multiplicity edge per bin, 75-80% first
	Reweighting Reweighter
}

func (c *Centrality) GetReweighting(multiplicity float64) float64 {
	if c.Reweighting == nil {
		return 1.0
	}
	return c.Reweighting.Reweight(multiplicity)
}

// CentralityBin returns the index of the 5% bin containing the multiplicity,
// 0 for 75-80% up to 15 for 0-5%, or -1 for events beyond 80%.
func (c *Centrality) CentralityBin(multiplicity float64) int {
	bin := -1
	for i, cut := range c.Cuts {
		if multiplicity < cut {
			break
		}
		bin = i
	}
	return bin
}

// BinRange returns the centrality percentile range of a bin index.
func BinRange(bin int) (float64, float64) {
	high := centralityMaxPct - centralityWidth*float64(bin)
	return high - centralityWidth, high
}

type CentralityMaker struct {
	system       string
	centralities [nCentralities]*Centrality
}

// NewCentralityMaker builds the centrality model of a collision system
// such as "AuAu_200GeV" from the built-in parameter tables.
func NewCentralityMaker(system string) (*CentralityMaker, error) {
	for name, params := range builtinCentralityParameters {
		if strings.EqualFold(name, system) {
			return NewCentralityMakerFromParameters(name, params), nil
		}
	}
	return nil, &ErrUnknownSystem{System: system}
}

// NewCentralityMakerFromParameters derives the small/large n_pp centralities
// from the errors of the default negative binomial parameters.
func NewCentralityMakerFromParameters(system string, params CentralityParameters) *CentralityMaker {
	m := &CentralityMaker{system: system}
	variations := [nCentralities]struct{ npp, x float64 }{
		{0, 0},
		{-params.NppError, params.XError},
		{params.NppError, -params.XError},
	}
	for i, v := range variations {
		m.centralities[i] = &Centrality{
			Npp:         params.Npp + v.npp,
			K:           params.K,
			X:           params.X + v.x,
			Cuts:        slices.Clone(params.Cuts),
			Reweighting: params.Reweighting,
		}
	}
	return m
}

func (m *CentralityMaker) System() string {
	return m.system
}

// GetCentrality returns the centrality of index 0 (default), 1 (small n_pp,
// large x) or 2 (large n_pp, small x).
func (m *CentralityMaker) GetCentrality(id int) *Centrality {
	if id < 0 || id >= nCentralities {
		panic(fmt.Sprintf("centrality id out of range: %d", id))
	}
	return m.centralities[id]
}

func (m *CentralityMaker) CentralityBin(multiplicity float64) int {
	return m.GetCentrality(DefaultCentralityID).CentralityBin(multiplicity)
}

// SetReweighting replaces the re-weighting of every centrality.
func (m *CentralityMaker) SetReweighting(r Reweighter) {
	for _, c := range m.centralities {
		c.Reweighting = r
	}
}

// ApplyVariation adapts the model to a systematic variation type. Types not
// listed below leave it untouched.
func (m *CentralityMaker) ApplyVariation(typ string) error {
	if !ValidType(typ) {
		return &ErrUnknownType{Type: typ}
	}
	for _, c := range m.centralities {
		switch typ {
		case "lowrw", "highrw":
			params, ok := c.Reweighting.(ReweightingParameters)
			if !ok {
				continue
			}
			sigma := 2.0
			if typ == "highrw" {
				sigma = -2.0
			}
			c.Reweighting = params.shift(sigma, -sigma)
		case "smallTotal":
			c.Cuts = scaleCuts(c.Cuts, 0.95)
		case "largeTotal":
			c.Cuts = scaleCuts(c.Cuts, 1.05)
		}
	}
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Centrality for %s set up for type %s (%s)", m.system, typ, TypeDescription(typ))
		logger.Info(message, "centrality")
	}
	return nil
}

// scaleCuts moves every cut to the multiplicity found at its percentile
// times factor, interpolating linearly between neighbouring cuts.
func scaleCuts(cuts []float64, factor float64) []float64 {
	if len(cuts) < 2 {
		return slices.Clone(cuts)
	}
	scaled := make([]float64, len(cuts))
	for i := range cuts {
		_, high := BinRange(i)
		scaled[i] = cutAtPercentile(cuts, high*factor)
	}
	return scaled
}

func cutAtPercentile(cuts []float64, pct float64) float64 {
	// cut i sits at percentile 80-5i, decreasing with i
	pos := (centralityMaxPct - pct) / centralityWidth
	i := int(pos)
	if i < 0 {
		i = 0
	}
	if i > len(cuts)-2 {
		i = len(cuts) - 2
	}
	frac := pos - float64(i)
	return cuts[i] + frac*(cuts[i+1]-cuts[i])
}

var builtinCentralityParameters = map[string]CentralityParameters{
	"AuAu_200GeV": {
		Npp: 2.38, K: 2.00, X: 0.13, NppError: 0.05, XError: 0.01,
		Cuts: []float64{10, 15, 21, 30, 42, 56, 73, 95, 121, 152, 188, 230, 279, 335, 399, 472},
		Reweighting: ReweightingParameters{
			Par:             [5]float64{1.0, -4.0, 1.0, 5.0, 0.0},
			ParError:        [2]float64{0.01, 0.30},
			MultiplicityCap: 400,
		},
	},
	"AuAu_62GeV": {
		Npp: 1.58, K: 2.00, X: 0.12, NppError: 0.04, XError: 0.01,
		Cuts: []float64{7, 10, 14, 20, 28, 38, 50, 65, 83, 104, 128, 157, 190, 228, 272, 322},
		Reweighting: ReweightingParameters{
			Par:             [5]float64{1.0, -3.0, 1.0, 4.0, 0.0},
			ParError:        [2]float64{0.01, 0.25},
			MultiplicityCap: 300,
		},
	},
	"AuAu_39GeV": {
		Npp: 1.52, K: 2.00, X: 0.12, NppError: 0.04, XError: 0.01,
		Cuts: []float64{6, 9, 13, 18, 25, 34, 45, 58, 74, 93, 115, 141, 171, 205, 244, 289},
		Reweighting: ReweightingParameters{
			Par:             [5]float64{1.0, -2.5, 1.0, 4.0, 0.0},
			ParError:        [2]float64{0.01, 0.25},
			MultiplicityCap: 250,
		},
	},
	"CuCu_200GeV": {
		Npp: 2.38, K: 2.00, X: 0.13, NppError: 0.05, XError: 0.01,
		Cuts: []float64{4, 6, 8, 11, 15, 20, 26, 34, 43, 54, 67, 82, 99, 118, 140, 165},
		Reweighting: ReweightingParameters{
			Par:             [5]float64{1.0, -1.5, 1.0, 3.0, 0.0},
			ParError:        [2]float64{0.01, 0.20},
			MultiplicityCap: 150,
		},
	},
}
