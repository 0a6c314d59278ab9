package glauber

import (
	"fmt"
	"path/filepath"
	"strings"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"
)

// SaveGraphPlots draws every non-empty graph into a PNG file named after
// the graph.
func SaveGraphPlots(dir string, graphs []*hbook.S2D) error {
	for _, g := range graphs {
		if g.Len() == 0 {
			continue
		}
		name := ObjectName(g.Annotation())
		p := hplot.New()
		p.Title.Text = name
		p.X.Label.Text = "centrality (%)"
		yLabel := ObjectTitle(g.Annotation())
		if i := strings.LastIndex(yLabel, ";"); i >= 0 {
			yLabel = yLabel[i+1:]
		}
		p.Y.Label.Text = yLabel

		s := hplot.NewS2D(g, hplot.WithYErrBars(true))
		p.Add(s)
		p.Add(hplot.NewGrid())

		path := filepath.Join(dir, name+".png")
		if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
			return fmt.Errorf("error saving plot %s: %w", path, err)
		}
	}
	return nil
}
