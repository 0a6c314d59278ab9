package glauber

import (
	"fmt"

	"go-hep.org/x/hep/hbook"
)

// memorySource serves events kept in memory, one slice per file name.
type memorySource struct {
	files   map[string][]Event
	opened  []string
	closed  int
	events  []Event
	current Event
}

func newMemorySource(files map[string][]Event) *memorySource {
	return &memorySource{files: files}
}

func (s *memorySource) Open(filename string) error {
	events, ok := s.files[filename]
	if !ok {
		return &ErrOpenFile{Filename: filename, Err: fmt.Errorf("no such file")}
	}
	s.events = events
	s.opened = append(s.opened, filename)
	return nil
}

func (s *memorySource) Entries() int64 {
	return int64(len(s.events))
}

func (s *memorySource) GetEntry(i int64) error {
	if i < 0 || i >= int64(len(s.events)) {
		return fmt.Errorf("entry %d out of range", i)
	}
	s.current = s.events[i]
	return nil
}

func (s *memorySource) Clear() {
	s.current = Event{}
}

func (s *memorySource) Event() *Event {
	return &s.current
}

func (s *memorySource) Close() error {
	s.closed++
	s.events = nil
	return nil
}

type memoryOutput struct {
	histograms []string
	graphs     []string
	opened     int
	closed     int
}

func (o *memoryOutput) opener() OutputOpener {
	return func(filename string) (Output, error) {
		o.opened++
		return o, nil
	}
}

func (o *memoryOutput) WriteHistogram(h *hbook.H1D) error {
	o.histograms = append(o.histograms, ObjectName(h.Annotation()))
	return nil
}

func (o *memoryOutput) WriteGraph(g *hbook.S2D) error {
	o.graphs = append(o.graphs, ObjectName(g.Annotation()))
	return nil
}

func (o *memoryOutput) Close() error {
	o.closed++
	return nil
}

type fixedUniform float64

func (f fixedUniform) Uniform() float64 {
	return float64(f)
}

// normalEvent returns an event with every field available and in range.
func normalEvent(b float64, multiplicity float64) Event {
	return Event{
		B:            b,
		Npart:        200,
		Ncoll:        600,
		Multiplicity: multiplicity,
		AreaRP:       20,
		AreaPP:       18,
		EccRP2:       0.1,
		EccRP2M:      0.12,
		EccPP2:       0.2,
		EccPP2M:      0.22,
		EccPP3:       0.15,
		EccPP3M:      0.16,
		EccPP4:       0.1,
		EccPP4M:      0.11,
	}
}

func sentinelGeometryEvent(b float64, multiplicity float64) Event {
	evt := UnavailableEvent()
	evt.B = b
	evt.Npart = 10
	evt.Ncoll = 12
	evt.Multiplicity = multiplicity
	return evt
}

func approxEqual(a float64, b float64, tolerance float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}
