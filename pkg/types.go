package glauber

import "golang.org/x/exp/slices"

type variationType struct {
	name        string
	description string
}

// Systematic variations of the Glauber model, in production order.
var variationTypes = []variationType{
	{"default", "default"},
	{"small", "small R, large d"},
	{"large", "large R, small d"},
	{"smallXsec", "small #sigma_{NN}"},
	{"largeXsec", "large #sigma_{NN}"},
	{"gauss", "gaussian overlap"},
	{"smallNpp", "small n_{pp}, large x"},
	{"largeNpp", "large n_{pp}, small x"},
	{"smallTotal", "-5% total cross section"},
	{"largeTotal", "+5% total cross section"},
	{"lowrw", "+2(-2) sigma p0 (p1) parameter for re-weighting"},
	{"highrw", "-2(+2) sigma p0 (p1) parameter for re-weighting"},
}

func TypeNames() []string {
	names := make([]string, len(variationTypes))
	for i, t := range variationTypes {
		names[i] = t.name
	}
	return names
}

func ValidType(name string) bool {
	return slices.Contains(TypeNames(), name)
}

// TypeDescription returns the human readable description of a variation
// type, or an empty string for unknown types.
func TypeDescription(name string) string {
	i := slices.IndexFunc(variationTypes, func(t variationType) bool { return t.name == name })
	if i < 0 {
		return ""
	}
	return variationTypes[i].description
}
