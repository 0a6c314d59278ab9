package glauber

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestMaker(t *testing.T, files map[string][]Event, random Uniform) (*AnalysisMaker, *memorySource, *memoryOutput) {
	t.Helper()
	centrality, err := NewCentralityMaker("AuAu_200GeV")
	if err != nil {
		t.Fatalf("error building centrality: %v", err)
	}
	source := newMemorySource(files)
	output := &memoryOutput{}
	maker, err := NewAnalysisMaker("default", source, centrality, random, output.opener())
	if err != nil {
		t.Fatalf("error building maker: %v", err)
	}
	return maker, source, output
}

func TestNewAnalysisMakerUnknownType(t *testing.T) {
	centrality, _ := NewCentralityMaker("AuAu_200GeV")
	_, err := NewAnalysisMaker("gray", newMemorySource(nil), centrality, NewRandom(1), (&memoryOutput{}).opener())
	var typeErr *ErrUnknownType
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestThreeEventScenario(t *testing.T) {
	files := map[string][]Event{
		"a.root": {
			normalEvent(2.0, 450),
			sentinelGeometryEvent(8.0, 120),
			normalEvent(5.0, 300),
		},
	}
	maker, _, output := newTestMaker(t, files, NewRandom(1))
	maker.UnitWeightOn()
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := maker.RunFile("a.root"); err != nil {
		t.Fatalf("RunFile: %v", err)
	}

	if maker.NEvents() != 3 {
		t.Fatalf("expected 3 events, got %d", maker.NEvents())
	}
	if n := maker.areaRP.Entries(); n != 2 {
		t.Errorf("expected 2 AreaRP entries, got %d", n)
	}
	if w := maker.areaRP.SumW(); w != 2 {
		t.Errorf("expected AreaRP sum of weights 2, got %v", w)
	}
	if n := maker.impactParameter.Entries(); n != 3 {
		t.Errorf("expected 3 ImpactParameter entries, got %d", n)
	}
	if w := maker.impactParameter.SumW(); w != 3 {
		t.Errorf("expected ImpactParameter sum of weights 3, got %v", w)
	}
	if err := maker.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if output.closed != 1 {
		t.Errorf("expected output closed once, got %d", output.closed)
	}
}

func TestSentinelSkipsOnlyThatQuantity(t *testing.T) {
	evt := normalEvent(3.0, 200)
	evt.AreaPP = Sentinel
	evt.EccPP3M = Sentinel - 1
	maker, _, _ := newTestMaker(t, map[string][]Event{"a.root": {evt}}, NewRandom(1))
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := maker.RunFile("a.root"); err != nil {
		t.Fatalf("RunFile: %v", err)
	}

	if n := maker.areaPP.Entries(); n != 0 {
		t.Errorf("expected no AreaPP entries, got %d", n)
	}
	if n := maker.eccPPM[1].Entries(); n != 0 {
		t.Errorf("expected no EccPPM_1 entries, got %d", n)
	}
	if n := maker.areaRP.Entries(); n != 1 {
		t.Errorf("expected 1 AreaRP entry, got %d", n)
	}
	if n := maker.eccPP[1].Entries(); n != 1 {
		t.Errorf("expected 1 EccPP_1 entry, got %d", n)
	}
}

func TestWeights(t *testing.T) {
	events := []Event{normalEvent(1.0, 100), normalEvent(2.0, 250)}

	maker, _, _ := newTestMaker(t, map[string][]Event{"a.root": events}, NewRandom(1))
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := maker.RunFile("a.root"); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if w := maker.areaRP.SumW(); w != 350 {
		t.Errorf("expected multiplicity weighted AreaRP sum 350, got %v", w)
	}
	if w := maker.eccPP[0].SumW(); w != 350 {
		t.Errorf("expected multiplicity weighted EccPP_0 sum 350, got %v", w)
	}
	if w := maker.npart.SumW(); w != 2 {
		t.Errorf("expected unit weighted Npart sum 2, got %v", w)
	}

	unit, _, _ := newTestMaker(t, map[string][]Event{"a.root": events}, NewRandom(1))
	unit.UnitWeightOn()
	if err := unit.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := unit.RunFile("a.root"); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if w := unit.areaRP.SumW(); w != 2 {
		t.Errorf("expected unit weighted AreaRP sum 2, got %v", w)
	}
}

func TestReweighting(t *testing.T) {
	events := make([]Event, 50)
	for i := range events {
		events[i] = normalEvent(float64(i%20), float64(20+i))
	}
	files := map[string][]Event{"a.root": events}

	tests := []struct {
		name        string
		reweighting bool
		probability float64
		random      Uniform
		expected    int
	}{
		{"disabled", false, 0, NewRandom(3), 50},
		{"probability one", true, 1, NewRandom(3), 50},
		{"probability zero", true, 0, NewRandom(3), 0},
		{"above sample", true, 0.6, fixedUniform(0.5), 50},
		{"below sample", true, 0.4, fixedUniform(0.5), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maker, _, _ := newTestMaker(t, files, tt.random)
			maker.centrality.SetReweighting(ConstantReweighting(tt.probability))
			if tt.reweighting {
				maker.ReweightingOn()
			}
			if err := maker.Init("out.h5", t.TempDir()); err != nil {
				t.Fatalf("Init: %v", err)
			}
			if err := maker.RunFile("a.root"); err != nil {
				t.Fatalf("RunFile: %v", err)
			}
			if maker.NEvents() != tt.expected {
				t.Errorf("expected %d accepted events, got %d", tt.expected, maker.NEvents())
			}
			if n := maker.impactParameter.Entries(); n != int64(tt.expected) {
				t.Errorf("expected %d ImpactParameter entries, got %d", tt.expected, n)
			}
		})
	}
}

func TestFlagsIgnoredAfterStart(t *testing.T) {
	events := []Event{normalEvent(1.0, 100), normalEvent(2.0, 250)}
	maker, _, _ := newTestMaker(t, map[string][]Event{"a.root": events, "b.root": events}, NewRandom(1))
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := maker.RunFile("a.root"); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	maker.UnitWeightOn()
	maker.centrality.SetReweighting(ConstantReweighting(0))
	maker.ReweightingOn()
	if err := maker.RunFile("b.root"); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if maker.NEvents() != 4 {
		t.Errorf("expected 4 events, got %d", maker.NEvents())
	}
	if w := maker.areaRP.SumW(); w != 700 {
		t.Errorf("expected multiplicity weights to stay on, got sum %v", w)
	}
}

func TestRunFileList(t *testing.T) {
	files := map[string][]Event{
		"first.root":  {normalEvent(1.0, 100), normalEvent(2.0, 200)},
		"second.root": {normalEvent(3.0, 300)},
	}
	maker, source, _ := newTestMaker(t, files, NewRandom(1))
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	list := filepath.Join(t.TempDir(), "input.list")
	if err := os.WriteFile(list, []byte("first.root\nsecond.root\n"), 0o644); err != nil {
		t.Fatalf("error writing list: %v", err)
	}
	if err := maker.Run(list); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(source.opened) != 2 || source.opened[0] != "first.root" || source.opened[1] != "second.root" {
		t.Errorf("unexpected file order: %v", source.opened)
	}
	if source.closed != 2 {
		t.Errorf("expected every file closed, got %d", source.closed)
	}
	if maker.NEvents() != 3 {
		t.Errorf("expected 3 events, got %d", maker.NEvents())
	}
}

func TestRunMissingList(t *testing.T) {
	maker, _, _ := newTestMaker(t, nil, NewRandom(1))
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	err := maker.Run(filepath.Join(t.TempDir(), "missing.list"))
	var openErr *ErrOpenFile
	if !errors.As(err, &openErr) {
		t.Fatalf("expected ErrOpenFile, got %v", err)
	}
}

func TestRunFileMissingInput(t *testing.T) {
	maker, _, _ := newTestMaker(t, nil, NewRandom(1))
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var openErr *ErrOpenFile
	if err := maker.RunFile("missing.root"); !errors.As(err, &openErr) {
		t.Fatalf("expected ErrOpenFile, got %v", err)
	}
}

func TestInitMissingTableDirectory(t *testing.T) {
	maker, _, output := newTestMaker(t, nil, NewRandom(1))
	err := maker.Init("out.h5", filepath.Join(t.TempDir(), "nope"))
	var dirErr *ErrMissingDirectory
	if !errors.As(err, &dirErr) {
		t.Fatalf("expected ErrMissingDirectory, got %v", err)
	}
	if output.opened != 0 {
		t.Errorf("output should not be opened, opened %d times", output.opened)
	}
}

func TestInitOutputError(t *testing.T) {
	centrality, _ := NewCentralityMaker("AuAu_200GeV")
	failing := func(filename string) (Output, error) {
		return nil, errors.New("read-only file system")
	}
	maker, err := NewAnalysisMaker("default", newMemorySource(nil), centrality, NewRandom(1), failing)
	if err != nil {
		t.Fatalf("error building maker: %v", err)
	}
	err = maker.Init("/readonly/out.h5", t.TempDir())
	var openErr *ErrOpenFile
	if !errors.As(err, &openErr) {
		t.Fatalf("expected ErrOpenFile, got %v", err)
	}
	if openErr.Filename != "/readonly/out.h5" {
		t.Errorf("unexpected file name in error: %s", openErr.Filename)
	}
}

func TestInitTwice(t *testing.T) {
	maker, _, output := newTestMaker(t, nil, NewRandom(1))
	dir := t.TempDir()
	if err := maker.Init("out.h5", dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	booked := len(maker.Accumulators())
	if err := maker.Init("other.h5", dir); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if output.opened != 1 {
		t.Errorf("expected the output to be opened once, got %d", output.opened)
	}
	if len(maker.Accumulators()) != booked {
		t.Errorf("accumulators booked again: %d != %d", len(maker.Accumulators()), booked)
	}
}

func TestFinishWritesSortedObjects(t *testing.T) {
	dir := t.TempDir()
	maker, _, output := newTestMaker(t, map[string][]Event{"a.root": {normalEvent(1.0, 480)}}, NewRandom(1))
	if err := maker.Init("out.h5", dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := maker.RunFile("a.root"); err != nil {
		t.Fatalf("RunFile: %v", err)
	}

	accumulators := maker.Accumulators()
	if len(accumulators) != 14 {
		t.Fatalf("expected 14 accumulators, got %d", len(accumulators))
	}
	for i := 1; i < len(accumulators); i++ {
		if accumulators[i-1].Name() > accumulators[i].Name() {
			t.Errorf("accumulators not sorted: %s before %s", accumulators[i-1].Name(), accumulators[i].Name())
		}
	}

	if err := maker.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if output.closed != 1 {
		t.Errorf("expected output closed once, got %d", output.closed)
	}
	if len(output.histograms) != 14 {
		t.Errorf("expected 14 histograms, got %d", len(output.histograms))
	}
	if output.histograms[0] != "hAreaPP_default" {
		t.Errorf("unexpected first histogram %s", output.histograms[0])
	}
	// 6 plain accumulators with one graph, 8 cumulant ones with three
	if len(output.graphs) != 6+8*3 {
		t.Errorf("expected %d graphs, got %d", 6+8*3, len(output.graphs))
	}

	for _, table := range maker.Tables() {
		if _, err := os.Stat(filepath.Join(dir, table.FileName())); err != nil {
			t.Errorf("missing table file for %s: %v", table.Name, err)
		}
	}
}

func TestFinishWithoutInit(t *testing.T) {
	maker, _, _ := newTestMaker(t, nil, NewRandom(1))
	if err := maker.Finish(); err == nil {
		t.Fatalf("expected an error when finishing before Init")
	}
}

func TestMultiplicityModelUsedForWeights(t *testing.T) {
	maker, _, _ := newTestMaker(t, map[string][]Event{"a.root": {normalEvent(1.0, 100)}}, NewRandom(1))
	maker.SetMultiplicityModel(constantMultiplicity(42))
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := maker.RunFile("a.root"); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if w := maker.areaRP.SumW(); w != 42 {
		t.Errorf("expected weight from the multiplicity model, got %v", w)
	}
	if maker.mult.Entries() != 1 {
		t.Errorf("expected 1 Multiplicity entry, got %d", maker.mult.Entries())
	}
}

type constantMultiplicity float64

func (c constantMultiplicity) Multiplicity(*Event) float64 {
	return float64(c)
}

func TestXaxisFollowsMultiplicityModel(t *testing.T) {
	// tree multiplicity 12 is 75-80%, the model's 450 is 0-5%
	maker, _, _ := newTestMaker(t, map[string][]Event{"a.root": {normalEvent(1.0, 12)}}, NewRandom(1))
	maker.SetMultiplicityModel(constantMultiplicity(450))
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := maker.RunFile("a.root"); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if err := maker.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	rows := maker.areaRP.Table().Rows
	if len(rows) != 1 {
		t.Fatalf("expected 1 centrality row, got %v", rows)
	}
	if rows[0][0] != 0 || rows[0][1] != 5 {
		t.Errorf("expected the 0-5%% bin, got [%v, %v]", rows[0][0], rows[0][1])
	}
}

func TestRunFileWithoutEntries(t *testing.T) {
	maker, source, _ := newTestMaker(t, map[string][]Event{"empty.root": {}}, NewRandom(1))
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := maker.RunFile("empty.root"); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if maker.NEvents() != 0 {
		t.Errorf("expected no events, got %d", maker.NEvents())
	}
	if source.closed != 1 {
		t.Errorf("expected the file closed once, got %d", source.closed)
	}
}

func TestAbortClosesOutput(t *testing.T) {
	maker, _, output := newTestMaker(t, nil, NewRandom(1))
	if err := maker.Init("out.h5", t.TempDir()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := maker.RunFile("missing.root"); err == nil {
		t.Fatalf("expected an error for a missing input")
	}
	if err := maker.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if output.closed != 1 {
		t.Errorf("expected output closed once, got %d", output.closed)
	}
	if len(output.histograms) != 0 {
		t.Errorf("aborted run should not write histograms, got %v", output.histograms)
	}
	if err := maker.Abort(); err != nil {
		t.Fatalf("second Abort: %v", err)
	}
	if output.closed != 1 {
		t.Errorf("second Abort closed the output again")
	}
}
