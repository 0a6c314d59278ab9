package glauber

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"
)

// EventSource gives sequential or random access to the events of one input
// file at a time.
type EventSource interface {
	Open(filename string) error
	Entries() int64
	GetEntry(i int64) error
	Clear()
	Event() *Event
	Close() error
}

const treeChunkSize = 4096

// treeRow mirrors the branches of a Glauber tree.
type treeRow struct {
	B            float64 `groot:"b"`
	Npart        int32   `groot:"npart"`
	Ncoll        int32   `groot:"ncoll"`
	Multiplicity float64 `groot:"mult"`
	AreaRP       float64 `groot:"sRP"`
	AreaPP       float64 `groot:"sPP"`
	EccRP2       float64 `groot:"eccRP2"`
	EccRP2M      float64 `groot:"eccRP2M"`
	EccPP2       float64 `groot:"eccPP2"`
	EccPP2M      float64 `groot:"eccPP2M"`
	EccPP3       float64 `groot:"eccPP3"`
	EccPP3M      float64 `groot:"eccPP3M"`
	EccPP4       float64 `groot:"eccPP4"`
	EccPP4M      float64 `groot:"eccPP4M"`
}

func (r *treeRow) readVars() []rtree.ReadVar {
	return []rtree.ReadVar{
		{Name: "b", Value: &r.B},
		{Name: "npart", Value: &r.Npart},
		{Name: "ncoll", Value: &r.Ncoll},
		{Name: "mult", Value: &r.Multiplicity},
		{Name: "sRP", Value: &r.AreaRP},
		{Name: "sPP", Value: &r.AreaPP},
		{Name: "eccRP2", Value: &r.EccRP2},
		{Name: "eccRP2M", Value: &r.EccRP2M},
		{Name: "eccPP2", Value: &r.EccPP2},
		{Name: "eccPP2M", Value: &r.EccPP2M},
		{Name: "eccPP3", Value: &r.EccPP3},
		{Name: "eccPP3M", Value: &r.EccPP3M},
		{Name: "eccPP4", Value: &r.EccPP4},
		{Name: "eccPP4M", Value: &r.EccPP4M},
	}
}

// writeVars lists the branches of a Glauber tree bound to r, used to
// produce input files.
func (r *treeRow) writeVars() []rtree.WriteVar {
	rvars := r.readVars()
	wvars := make([]rtree.WriteVar, len(rvars))
	for i, v := range rvars {
		wvars[i] = rtree.WriteVar{Name: v.Name, Value: v.Value}
	}
	return wvars
}

func (r *treeRow) event() Event {
	return Event{
		B:            r.B,
		Npart:        int(r.Npart),
		Ncoll:        int(r.Ncoll),
		Multiplicity: r.Multiplicity,
		AreaRP:       r.AreaRP,
		AreaPP:       r.AreaPP,
		EccRP2:       r.EccRP2,
		EccRP2M:      r.EccRP2M,
		EccPP2:       r.EccPP2,
		EccPP2M:      r.EccPP2M,
		EccPP3:       r.EccPP3,
		EccPP3M:      r.EccPP3M,
		EccPP4:       r.EccPP4,
		EccPP4M:      r.EccPP4M,
	}
}

func rowFromEvent(evt Event) treeRow {
	return treeRow{
		B:            evt.B,
		Npart:        int32(evt.Npart),
		Ncoll:        int32(evt.Ncoll),
		Multiplicity: evt.Multiplicity,
		AreaRP:       evt.AreaRP,
		AreaPP:       evt.AreaPP,
		EccRP2:       evt.EccRP2,
		EccRP2M:      evt.EccRP2M,
		EccPP2:       evt.EccPP2,
		EccPP2M:      evt.EccPP2M,
		EccPP3:       evt.EccPP3,
		EccPP3M:      evt.EccPP3M,
		EccPP4:       evt.EccPP4,
		EccPP4M:      evt.EccPP4M,
	}
}

// GlauberTree reads events from a ROOT tree. Entries are loaded in chunks
// so that GetEntry in increasing order touches each basket once.
type GlauberTree struct {
	treeName string
	filename string
	file     *groot.File
	tree     rtree.Tree
	entries  int64

	first   int64
	buffer  []Event
	current Event
}

func NewGlauberTree(treeName string) *GlauberTree {
	return &GlauberTree{treeName: treeName}
}

func (t *GlauberTree) Open(filename string) error {
	f, err := groot.Open(filename)
	if err != nil {
		return &ErrOpenFile{Filename: filename, Err: err}
	}
	obj, err := f.Get(t.treeName)
	if err != nil {
		f.Close()
		return &ErrReadTree{TreeName: t.treeName, Err: err}
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		f.Close()
		return &ErrReadTree{TreeName: t.treeName, Err: fmt.Errorf("object is a %T, not a tree", obj)}
	}
	t.filename = filename
	t.file = f
	t.tree = tree
	t.entries = tree.Entries()
	t.first = 0
	t.buffer = t.buffer[:0]

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Opened %s: %d entries in tree %s", filename, t.entries, t.treeName)
		logger.Info(message, "tree")
	}
	return nil
}

func (t *GlauberTree) Entries() int64 {
	return t.entries
}

func (t *GlauberTree) GetEntry(i int64) error {
	if i < 0 || i >= t.entries {
		return &ErrReadTree{TreeName: t.treeName, Err: fmt.Errorf("entry %d out of range [0, %d)", i, t.entries)}
	}
	if i < t.first || i >= t.first+int64(len(t.buffer)) {
		if err := t.load(i); err != nil {
			return err
		}
	}
	t.current = t.buffer[i-t.first]
	return nil
}

func (t *GlauberTree) load(begin int64) error {
	end := begin + treeChunkSize
	if end > t.entries {
		end = t.entries
	}

	var row treeRow
	r, err := rtree.NewReader(t.tree, row.readVars(), rtree.WithRange(begin, end))
	if err != nil {
		return &ErrReadTree{TreeName: t.treeName, Err: err}
	}
	defer r.Close()

	t.buffer = t.buffer[:0]
	err = r.Read(func(ctx rtree.RCtx) error {
		t.buffer = append(t.buffer, row.event())
		return nil
	})
	if err != nil {
		return &ErrReadTree{TreeName: t.treeName, Err: err}
	}
	t.first = begin
	return nil
}

func (t *GlauberTree) Clear() {
	t.current = Event{}
}

func (t *GlauberTree) Event() *Event {
	return &t.current
}

func (t *GlauberTree) Close() error {
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	t.tree = nil
	t.entries = 0
	t.buffer = t.buffer[:0]
	if err != nil {
		return fmt.Errorf("error closing %s: %w", t.filename, err)
	}
	return nil
}

// WriteGlauberTree stores events as a Glauber tree in a new ROOT file.
func WriteGlauberTree(filename string, treeName string, events []Event) error {
	f, err := groot.Create(filename)
	if err != nil {
		return &ErrOpenFile{Filename: filename, Err: err}
	}
	defer f.Close()

	var row treeRow
	w, err := rtree.NewWriter(f, treeName, row.writeVars())
	if err != nil {
		return &ErrReadTree{TreeName: treeName, Err: err}
	}
	for _, evt := range events {
		row = rowFromEvent(evt)
		if _, err := w.Write(); err != nil {
			w.Close()
			return fmt.Errorf("error writing event to %s: %w", filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("error closing tree %s: %w", treeName, err)
	}
	return f.Close()
}
