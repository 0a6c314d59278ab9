package glauber

type Event struct {
	B            float64
	Npart        int
	Ncoll        int
	Multiplicity float64
	AreaRP       float64
	AreaPP       float64
	EccRP2       float64
	EccRP2M      float64
	EccPP2       float64
	EccPP2M      float64
	EccPP3       float64
	EccPP3M      float64
	EccPP4       float64
	EccPP4M      float64
}

const nOrders = 3

// Participant plane eccentricities, index 0..2 for orders 2..4.
var participantPlaneOrders = [nOrders]struct {
	order    int
	base     func(*Event) float64
	modified func(*Event) float64
}{
	{2, func(e *Event) float64 { return e.EccPP2 }, func(e *Event) float64 { return e.EccPP2M }},
	{3, func(e *Event) float64 { return e.EccPP3 }, func(e *Event) float64 { return e.EccPP3M }},
	{4, func(e *Event) float64 { return e.EccPP4 }, func(e *Event) float64 { return e.EccPP4M }},
}

// UnavailableEvent returns an event with every optional geometry field set
// to the sentinel.
func UnavailableEvent() Event {
	return Event{
		AreaRP:  Sentinel,
		AreaPP:  Sentinel,
		EccRP2:  Sentinel,
		EccRP2M: Sentinel,
		EccPP2:  Sentinel,
		EccPP2M: Sentinel,
		EccPP3:  Sentinel,
		EccPP3M: Sentinel,
		EccPP4:  Sentinel,
		EccPP4M: Sentinel,
	}
}
