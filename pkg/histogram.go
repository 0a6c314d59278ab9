package glauber

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/hbook"
)

// Accumulator is one booked quantity of the analysis.
type Accumulator interface {
	Name() string
	SetTableDirectory(dir string)
	SetOutput(out Output)
	SetXaxis(evt *Event, centrality *CentralityMaker, typ string)
	Fill(value float64, weight float64)
	Finish(typ string) error
	Table() Table
	Graphs() []*hbook.S2D
}

type profileBin struct {
	entries int64
	sumW    float64
	sumW2   float64
	sumWY   float64
	sumWY2  float64
	sumWY4  float64
}

func (b *profileBin) fill(y float64, w float64) {
	y2 := y * y
	b.entries++
	b.sumW += w
	b.sumW2 += w * w
	b.sumWY += w * y
	b.sumWY2 += w * y2
	b.sumWY4 += w * y2 * y2
}

// effEntries is the effective number of entries of weighted fills.
func (b *profileBin) effEntries() float64 {
	if b.sumW2 == 0 {
		return 0
	}
	return b.sumW * b.sumW / b.sumW2
}

// moment returns the weighted mean of y^n for n = 1, 2, 4.
func (b *profileBin) moment(n int) float64 {
	if b.sumW == 0 {
		return 0
	}
	switch n {
	case 1:
		return b.sumWY / b.sumW
	case 2:
		return b.sumWY2 / b.sumW
	case 4:
		return b.sumWY4 / b.sumW
	}
	panic(fmt.Sprintf("unsupported moment %d", n))
}

func (b *profileBin) meanError() float64 {
	neff := b.effEntries()
	if neff <= 0 {
		return 0
	}
	mean := b.moment(1)
	variance := b.moment(2) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance / neff)
}

// HistogramMaker accumulates the distribution of one quantity together with
// its weighted average in each centrality bin.
type HistogramMaker struct {
	name   string
	title  string
	xTitle string
	nbins  int
	xmin   float64
	xmax   float64

	hist          *hbook.H1D
	bins          [NCentralityBins]profileBin
	centralityBin int
	entries       int64
	sumW          float64

	tableDir string
	output   Output
	table    Table
	graphs   []*hbook.S2D
}

func NewHistogramMaker(name string, title string, xTitle string, nbins int, xmin float64, xmax float64) *HistogramMaker {
	hist := hbook.NewH1D(nbins, xmin, xmax)
	hist.Annotation()["name"] = name
	hist.Annotation()["title"] = fmt.Sprintf("%s;%s", title, xTitle)
	return &HistogramMaker{
		name:          name,
		title:         title,
		xTitle:        xTitle,
		nbins:         nbins,
		xmin:          xmin,
		xmax:          xmax,
		hist:          hist,
		centralityBin: -1,
	}
}

func (h *HistogramMaker) Name() string {
	return h.name
}

func (h *HistogramMaker) SetTableDirectory(dir string) {
	h.tableDir = dir
}

func (h *HistogramMaker) SetOutput(out Output) {
	h.output = out
}

// SetXaxis selects the centrality bin filled by the next calls to Fill.
func (h *HistogramMaker) SetXaxis(evt *Event, centrality *CentralityMaker, typ string) {
	h.centralityBin = centrality.CentralityBin(evt.Multiplicity)
}

// Fill adds weight at value. Values outside [xmin, xmax] are dropped, xmax
// itself goes to the last bin.
func (h *HistogramMaker) Fill(value float64, weight float64) {
	if value < h.xmin || value > h.xmax {
		return
	}
	h.entries++
	h.sumW += weight
	x := value
	if x == h.xmax {
		x = math.Nextafter(h.xmax, h.xmin)
	}
	h.hist.Fill(x, weight)
	if h.centralityBin >= 0 && h.centralityBin < NCentralityBins {
		h.bins[h.centralityBin].fill(value, weight)
	}
}

func (h *HistogramMaker) Entries() int64 {
	return h.entries
}

func (h *HistogramMaker) SumW() float64 {
	return h.sumW
}

func (h *HistogramMaker) Histogram() *hbook.H1D {
	return h.hist
}

func (h *HistogramMaker) Table() Table {
	return h.table
}

func (h *HistogramMaker) Graphs() []*hbook.S2D {
	return h.graphs
}

// Finish converts the weighted sums into averages per centrality bin, then
// writes the table and stores the histogram and graph into the output.
func (h *HistogramMaker) Finish(typ string) error {
	return h.finish(typ, nil)
}

// column is an extra per-bin quantity with its uncertainty. ok is false when
// the quantity is undefined for the bin.
type column struct {
	name  string
	value func(b *profileBin) (v float64, err float64, ok bool)
}

func (h *HistogramMaker) finish(typ string, extra []column) error {
	columns := []string{"centMin", "centMax", "entries", "mean", "error"}
	for _, c := range extra {
		columns = append(columns, c.name, c.name+"Error")
	}
	h.table = Table{
		Name:    h.name,
		Type:    typ,
		Title:   fmt.Sprintf("%s (%s)", h.xTitle, TypeDescription(typ)),
		Columns: columns,
	}

	points := make([][]hbook.Point2D, len(extra)+1)
	for i := range h.bins {
		b := &h.bins[i]
		if b.sumW == 0 {
			continue
		}
		centMin, centMax := BinRange(i)
		x := (centMin + centMax) / 2
		errX := hbook.Range{Min: x - centMin, Max: centMax - x}

		mean, meanErr := b.moment(1), b.meanError()
		row := []float64{centMin, centMax, float64(b.entries), mean, meanErr}
		points[0] = append(points[0], hbook.Point2D{X: x, Y: mean, ErrX: errX, ErrY: hbook.Range{Min: meanErr, Max: meanErr}})
		for j, c := range extra {
			v, e, ok := c.value(b)
			if !ok {
				row = append(row, 0, 0)
				continue
			}
			row = append(row, v, e)
			points[j+1] = append(points[j+1], hbook.Point2D{X: x, Y: v, ErrX: errX, ErrY: hbook.Range{Min: e, Max: e}})
		}
		h.table.Rows = append(h.table.Rows, row)
	}

	h.graphs = h.graphs[:0]
	names := []string{h.name}
	for _, c := range extra {
		names = append(names, h.name+"_"+c.name)
	}
	for i, pts := range points {
		g := hbook.NewS2D(pts...)
		g.Annotation()["name"] = fmt.Sprintf("g%s_%s", names[i], typ)
		g.Annotation()["title"] = fmt.Sprintf("%s;centrality (%%);%s", h.table.Title, h.xTitle)
		h.graphs = append(h.graphs, g)
	}

	h.hist.Annotation()["name"] = fmt.Sprintf("h%s_%s", h.name, typ)

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Finish %s: %d entries, %d centrality bins", h.name, h.entries, len(h.table.Rows))
		logger.Info(message, "histogram")
	}

	if h.tableDir != "" {
		if err := WriteTable(h.tableDir, h.table); err != nil {
			return fmt.Errorf("error writing table for %s: %w", h.name, err)
		}
	}
	if h.output == nil {
		return nil
	}
	if err := h.output.WriteHistogram(h.hist); err != nil {
		return fmt.Errorf("error writing histogram %s: %w", h.name, err)
	}
	for _, g := range h.graphs {
		if err := h.output.WriteGraph(g); err != nil {
			return fmt.Errorf("error writing graph %s: %w", ObjectName(g.Annotation()), err)
		}
	}
	return nil
}

// CumulantHistogramMaker adds the two and four particle cumulants of the
// eccentricity to the per-centrality averages.
type CumulantHistogramMaker struct {
	*HistogramMaker
}

func NewCumulantHistogramMaker(name string, title string, xTitle string, nbins int, xmin float64, xmax float64) *CumulantHistogramMaker {
	return &CumulantHistogramMaker{
		HistogramMaker: NewHistogramMaker(name, title, xTitle, nbins, xmin, xmax),
	}
}

func (h *CumulantHistogramMaker) Finish(typ string) error {
	return h.finish(typ, []column{
		{name: "2", value: cumulant2},
		{name: "4", value: cumulant4},
	})
}

// cumulant2 is sqrt(<e^2>) with the error propagated from the spread of e^2.
func cumulant2(b *profileBin) (float64, float64, bool) {
	e2 := b.moment(2)
	if e2 <= 0 {
		return 0, 0, false
	}
	value := math.Sqrt(e2)
	neff := b.effEntries()
	if neff <= 0 {
		return value, 0, true
	}
	variance := b.moment(4) - e2*e2
	if variance < 0 {
		variance = 0
	}
	return value, math.Sqrt(variance/neff) / (2 * value), true
}

// cumulant4 is (2<e^2>^2 - <e^4>)^(1/4), undefined when the radicand is
// not positive.
func cumulant4(b *profileBin) (float64, float64, bool) {
	e2 := b.moment(2)
	e4 := b.moment(4)
	radicand := 2*e2*e2 - e4
	if radicand <= 0 {
		return 0, 0, false
	}
	return math.Pow(radicand, 0.25), 0, true
}
