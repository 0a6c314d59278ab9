package rootwriter

import (
	"errors"
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/hbook"
	"golang.org/x/exp/slices"

	glauber "github.com/glauber-mc/glauber_go/pkg"
)

// Writer stores histograms (TH1D) and graphs (TGraphAsymmErrors) of one
// analysis run in a ROOT file, sorted by name.
type Writer struct {
	File     *groot.File
	Filename string

	histograms map[string]*hbook.H1D
	graphs     map[string]*hbook.S2D
}

func NewWriter(filename string) (*Writer, error) {
	f, err := groot.Create(filename)
	if err != nil {
		return nil, &glauber.ErrOpenFile{Filename: filename, Err: err}
	}
	return &Writer{
		File:       f,
		Filename:   filename,
		histograms: make(map[string]*hbook.H1D),
		graphs:     make(map[string]*hbook.S2D),
	}, nil
}

func (w *Writer) WriteHistogram(h *hbook.H1D) error {
	name := glauber.ObjectName(h.Annotation())
	if name == "" {
		return fmt.Errorf("histogram without name")
	}
	w.histograms[name] = h
	return nil
}

func (w *Writer) WriteGraph(g *hbook.S2D) error {
	name := glauber.ObjectName(g.Annotation())
	if name == "" {
		return fmt.Errorf("graph without name")
	}
	w.graphs[name] = g
	return nil
}

func sortedNames[T any](objects map[string]T) []string {
	names := make([]string, 0, len(objects))
	for name := range objects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (w *Writer) Close() error {
	var errs []error

	for _, name := range sortedNames(w.histograms) {
		if err := w.File.Put(name, rhist.NewH1DFrom(w.histograms[name])); err != nil {
			errs = append(errs, fmt.Errorf("error writing histogram %s: %w", name, err))
		}
	}
	for _, name := range sortedNames(w.graphs) {
		if err := w.File.Put(name, rhist.NewGraphAsymmErrorsFrom(w.graphs[name])); err != nil {
			errs = append(errs, fmt.Errorf("error writing graph %s: %w", name, err))
		}
	}
	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file %s: %w", w.Filename, err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Open is an OutputOpener for ROOT files.
func Open() glauber.OutputOpener {
	return func(filename string) (glauber.Output, error) {
		w, err := NewWriter(filename)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}
