package h5writer

import (
	"errors"
	"fmt"

	"github.com/jmbenlloch/go-hdf5"
	"go-hep.org/x/hep/hbook"
	"golang.org/x/exp/slices"

	glauber "github.com/glauber-mc/glauber_go/pkg"
)

// Writer stores histograms and graphs of one analysis run in an HDF5 file.
// Objects are kept in memory and written sorted by name on Close.
type Writer struct {
	File             *hdf5.File
	Filename         string
	RunGroup         *hdf5.Group
	HistogramGroup   *hdf5.Group
	GraphGroup       *hdf5.Group
	IndexTable       *hdf5.Dataset
	CompressionLevel int

	histograms map[string]*hbook.H1D
	graphs     map[string]*hbook.S2D
	index      []IndexHDF5
}

func NewWriter(filename string, compressionLevel int) (*Writer, error) {
	writer := &Writer{
		Filename:         filename,
		CompressionLevel: compressionLevel,
		histograms:       make(map[string]*hbook.H1D),
		graphs:           make(map[string]*hbook.S2D),
	}

	var err error
	writer.File, err = openFile(filename)
	if err != nil {
		return nil, &glauber.ErrOpenFile{Filename: filename, Err: err}
	}
	if err := writer.createLayout(); err != nil {
		writer.closeHandles()
		return nil, err
	}
	return writer, nil
}

func (w *Writer) createLayout() error {
	var err error
	w.RunGroup, err = createGroup(w.File, "Run")
	if err != nil {
		return err
	}
	w.HistogramGroup, err = createGroup(w.File, "Histograms")
	if err != nil {
		return err
	}
	w.GraphGroup, err = createGroup(w.File, "Graphs")
	if err != nil {
		return err
	}
	w.IndexTable, err = createTable(w.RunGroup, "index", IndexHDF5{}, w.CompressionLevel)
	return err
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

func histogramBins(h *hbook.H1D) []BinHDF5 {
	// The array MUST be allocated at creation, if not, HDF5 will panic
	bins := make([]BinHDF5, len(h.Binning.Bins))
	for i, bin := range h.Binning.Bins {
		bins[i] = BinHDF5{
			xlow:    bin.Range.Min,
			xhigh:   bin.Range.Max,
			entries: bin.Entries(),
			sumw:    bin.SumW(),
			sumw2:   bin.SumW2(),
		}
	}
	return bins
}

func graphPoints(g *hbook.S2D) []PointHDF5 {
	points := make([]PointHDF5, g.Len())
	for i := range points {
		p := g.Point(i)
		points[i] = PointHDF5{
			x:        p.X,
			xErrLow:  p.ErrX.Min,
			xErrHigh: p.ErrX.Max,
			y:        p.Y,
			yErrLow:  p.ErrY.Min,
			yErrHigh: p.ErrY.Max,
		}
	}
	return points
}

func (w *Writer) writeObjects() error {
	names := make([]string, 0, len(w.histograms))
	for name := range w.histograms {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		h := w.histograms[name]
		bins := histogramBins(h)
		if err := writeTable(w, w.HistogramGroup, name, BinHDF5{}, &bins); err != nil {
			return err
		}
		w.index = append(w.index, IndexHDF5{
			name:  convertToHdf5String(name),
			title: convertToHdf5Title(glauber.ObjectTitle(h.Annotation())),
			kind:  KindHistogram,
		})
	}

	names = names[:0]
	for name := range w.graphs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		g := w.graphs[name]
		points := graphPoints(g)
		if err := writeTable(w, w.GraphGroup, name, PointHDF5{}, &points); err != nil {
			return err
		}
		w.index = append(w.index, IndexHDF5{
			name:  convertToHdf5String(name),
			title: convertToHdf5Title(glauber.ObjectTitle(g.Annotation())),
			kind:  KindGraph,
		})
	}
	return writeArrayToTable(w.IndexTable, &w.index, 0)
}

func writeTable[T any](w *Writer, group *hdf5.Group, name string, datatype T, data *[]T) error {
	dset, err := createTable(group, name, datatype, w.CompressionLevel)
	if err != nil {
		return err
	}
	if err := writeArrayToTable(dset, data, 0); err != nil {
		dset.Close()
		return fmt.Errorf("error writing table %s: %w", name, err)
	}
	return dset.Close()
}

func (w *Writer) Close() error {
	var errs []error

	if err := w.writeObjects(); err != nil {
		errs = append(errs, err)
	}
	if err := w.closeHandles(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (w *Writer) closeHandles() error {
	var errs []error

	if w.IndexTable != nil {
		if err := w.IndexTable.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing index table: %w", err))
		}
	}
	if w.RunGroup != nil {
		if err := w.RunGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run group: %w", err))
		}
	}
	if w.HistogramGroup != nil {
		if err := w.HistogramGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing histogram group: %w", err))
		}
	}
	if w.GraphGroup != nil {
		if err := w.GraphGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing graph group: %w", err))
		}
	}
	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}
	return errors.Join(errs...)
}

// Open is an OutputOpener for HDF5 files.
func Open(compressionLevel int) glauber.OutputOpener {
	return func(filename string) (glauber.Output, error) {
		w, err := NewWriter(filename, compressionLevel)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}
