package glauber

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go-hep.org/x/hep/hbook"
)

// Output is the container file of one run. Implementations keep the objects
// and write them sorted by name on Close.
type Output interface {
	WriteHistogram(h *hbook.H1D) error
	WriteGraph(g *hbook.S2D) error
	Close() error
}

type OutputOpener func(filename string) (Output, error)

// Table is the per-centrality summary of one accumulator.
type Table struct {
	Name    string
	Type    string
	Title   string
	Columns []string
	Rows    [][]float64
}

func (t Table) FileName() string {
	return fmt.Sprintf("table_%s_%s_vs_centrality.txt", t.Name, t.Type)
}

// WriteTable stores the table as tab separated text in dir.
func WriteTable(dir string, t Table) error {
	path := filepath.Join(dir, t.FileName())
	fp, err := os.Create(path)
	if err != nil {
		return &ErrOpenFile{Filename: path, Err: err}
	}
	defer fp.Close()

	w := csv.NewWriter(fp)
	w.Comma = '\t'

	header := append([]string{}, t.Columns...)
	if len(header) > 0 {
		header[0] = "# " + header[0]
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := make([]string, 0, len(row))
		for _, v := range row {
			record = append(record, strconv.FormatFloat(v, 'g', 6, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return fp.Close()
}

// ObjectName returns the name annotation of a histogram or graph.
func ObjectName(ann hbook.Annotation) string {
	name, _ := ann["name"].(string)
	return name
}

func ObjectTitle(ann hbook.Annotation) string {
	title, _ := ann["title"].(string)
	return title
}
