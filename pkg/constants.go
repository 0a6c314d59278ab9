package glauber

const (
	// Fields at or below this value were not computed for the event.
	Sentinel = -9999.0

	// Re-weighting and the x-axis always use the default centrality.
	DefaultCentralityID = 0

	impactParameterBin = 200
	impactParameterMax = 20.0
	npartBin           = 500
	npartMax           = 500.0
	ncollBin           = 1600
	ncollMax           = 1600.0
	multiplicityBin    = 1000
	multiplicityMax    = 1000.0

	areaBin = 100
	areaMin = 0.0
	areaMax = 50.0

	eccBin = 100
	eccMin = -1.0
	eccMax = 1.0
)

func available(value float64) bool {
	return value > Sentinel
}
