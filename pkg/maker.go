package glauber

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/slices"
)

// AnalysisMaker runs the event loop of one variation type: it reads Glauber
// events, applies the optional re-weighting and fills every accumulator.
type AnalysisMaker struct {
	typ            string
	outputFileName string
	tableDir       string

	tree         EventSource
	centrality   *CentralityMaker
	random       Uniform
	multiplicity MultiplicityModel
	openOutput   OutputOpener
	output       Output

	unitWeight  bool
	reweighting bool
	started     bool
	nevents     int

	impactParameter *HistogramMaker
	npart           *HistogramMaker
	ncoll           *HistogramMaker
	mult            *HistogramMaker
	areaRP          *HistogramMaker
	areaPP          *HistogramMaker
	eccRP           *CumulantHistogramMaker
	eccRPM          *CumulantHistogramMaker
	eccPP           [nOrders]*CumulantHistogramMaker
	eccPPM          [nOrders]*CumulantHistogramMaker

	accumulators []Accumulator
}

func NewAnalysisMaker(typ string, tree EventSource, centrality *CentralityMaker, random Uniform, openOutput OutputOpener) (*AnalysisMaker, error) {
	if !ValidType(typ) {
		return nil, &ErrUnknownType{Type: typ}
	}
	return &AnalysisMaker{
		typ:          typ,
		tree:         tree,
		centrality:   centrality,
		random:       random,
		multiplicity: TreeMultiplicity{},
		openOutput:   openOutput,
	}, nil
}

// UnitWeightOn switches area and eccentricity fills from multiplicity
// weights (particle-wise average) to unit weights (event-wise average).
func (m *AnalysisMaker) UnitWeightOn() {
	if m.started {
		logger.Error("unit weight can't be changed once the event loop has started")
		return
	}
	m.unitWeight = true
}

// ReweightingOn enables the rejection of events by the re-weighting of the
// default centrality.
func (m *AnalysisMaker) ReweightingOn() {
	if m.started {
		logger.Error("re-weighting can't be changed once the event loop has started")
		return
	}
	m.reweighting = true
}

func (m *AnalysisMaker) SetMultiplicityModel(model MultiplicityModel) {
	if m.started {
		logger.Error("multiplicity model can't be changed once the event loop has started")
		return
	}
	m.multiplicity = model
}

func (m *AnalysisMaker) NEvents() int {
	return m.nevents
}

func (m *AnalysisMaker) Accumulators() []Accumulator {
	return m.accumulators
}

// Init opens the output and books the accumulators. It does nothing when
// the output is already open.
func (m *AnalysisMaker) Init(outputFileName string, tableDir string) error {
	if m.output != nil {
		return nil
	}

	info, err := os.Stat(tableDir)
	if err != nil {
		return &ErrMissingDirectory{Dirname: tableDir, Err: err}
	}
	if !info.IsDir() {
		return &ErrMissingDirectory{Dirname: tableDir, Err: errors.New("not a directory")}
	}

	output, err := m.openOutput(outputFileName)
	if err != nil {
		var openErr *ErrOpenFile
		if errors.As(err, &openErr) {
			return err
		}
		return &ErrOpenFile{Filename: outputFileName, Err: err}
	}
	m.output = output
	m.outputFileName = outputFileName
	m.tableDir = tableDir

	title := m.typ
	m.impactParameter = NewHistogramMaker("ImpactParameter", title, "impact parameter b (fm)", impactParameterBin, 0.0, impactParameterMax)
	m.npart = NewHistogramMaker("Npart", title, "N_{part}", npartBin, 0.0, npartMax)
	m.ncoll = NewHistogramMaker("Ncoll", title, "N_{coll}", ncollBin, 0.0, ncollMax)
	m.mult = NewHistogramMaker("Multiplicity", title, "Multiplicity", multiplicityBin, 0.0, multiplicityMax)

	m.areaRP = NewHistogramMaker("AreaRP", title, "#LTS_{RP}#GT", areaBin, areaMin, areaMax)
	m.areaPP = NewHistogramMaker("AreaPP", title, "#LTS_{PP}#GT", areaBin, areaMin, areaMax)

	m.eccRP = NewCumulantHistogramMaker("EccRP", title, "#LT#varepsilon_{RP}#GT", eccBin, eccMin, eccMax)
	m.eccRPM = NewCumulantHistogramMaker("EccRPM", title, "#LT#varepsilon_{RP}#GT", eccBin, eccMin, eccMax)
	for io, o := range participantPlaneOrders {
		xTitle := fmt.Sprintf("#LT#varepsilon_{PP,%d}#GT", o.order)
		m.eccPP[io] = NewCumulantHistogramMaker(fmt.Sprintf("EccPP_%d", io), title, xTitle, eccBin/2, 0.0, eccMax)
		m.eccPPM[io] = NewCumulantHistogramMaker(fmt.Sprintf("EccPPM_%d", io), title, xTitle, eccBin/2, 0.0, eccMax)
	}

	m.accumulators = []Accumulator{
		m.impactParameter, m.npart, m.ncoll, m.mult,
		m.areaRP, m.areaPP, m.eccRP, m.eccRPM,
	}
	for io := range participantPlaneOrders {
		m.accumulators = append(m.accumulators, m.eccPP[io], m.eccPPM[io])
	}
	m.sortAccumulators()

	for _, a := range m.accumulators {
		a.SetTableDirectory(tableDir)
		a.SetOutput(output)
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Output %s opened, %d accumulators booked for type %s", outputFileName, len(m.accumulators), m.typ)
		logger.Info(message, "maker")
	}
	return nil
}

func (m *AnalysisMaker) sortAccumulators() {
	slices.SortFunc(m.accumulators, func(a, b Accumulator) int {
		switch {
		case a.Name() < b.Name():
			return -1
		case a.Name() > b.Name():
			return 1
		}
		return 0
	})
}

// Make processes the current event of the tree and reports whether it was
// accepted.
func (m *AnalysisMaker) Make() bool {
	m.started = true
	evt := m.tree.Event()

	multiplicity := m.multiplicity.Multiplicity(evt)

	if m.reweighting {
		reweighting := m.centrality.GetCentrality(DefaultCentralityID).GetReweighting(multiplicity)
		if m.random.Uniform() > reweighting {
			return false
		}
	}

	// the x-axis follows the multiplicity of the active model
	xevt := *evt
	xevt.Multiplicity = multiplicity
	for _, a := range m.accumulators {
		a.SetXaxis(&xevt, m.centrality, m.typ)
	}

	weight := multiplicity
	if m.unitWeight {
		weight = 1.0
	}

	// event-wise quantities always get unit weight
	m.impactParameter.Fill(evt.B, 1.0)
	m.npart.Fill(float64(evt.Npart), 1.0)
	m.ncoll.Fill(float64(evt.Ncoll), 1.0)
	m.mult.Fill(multiplicity, 1.0)

	fillAvailable(m.areaRP, evt.AreaRP, weight)
	fillAvailable(m.areaPP, evt.AreaPP, weight)

	fillAvailable(m.eccRP, evt.EccRP2, weight)
	fillAvailable(m.eccRPM, evt.EccRP2M, weight)

	for io, o := range participantPlaneOrders {
		fillAvailable(m.eccPP[io], o.base(evt), weight)
		fillAvailable(m.eccPPM[io], o.modified(evt), weight)
	}
	return true
}

func fillAvailable(a Accumulator, value float64, weight float64) {
	if available(value) {
		a.Fill(value, weight)
	}
}

// RunFile processes every entry of one input file.
func (m *AnalysisMaker) RunFile(inputFileName string) error {
	if err := m.tree.Open(inputFileName); err != nil {
		return err
	}

	nevents := m.tree.Entries()
	accepted := 0
	for ievent := int64(0); ievent < nevents; ievent++ {
		m.tree.Clear()
		if err := m.tree.GetEntry(ievent); err != nil {
			m.tree.Close()
			return fmt.Errorf("error reading entry %d of %s: %w", ievent, inputFileName, err)
		}
		if m.Make() {
			m.nevents++
			accepted++
		}
		if configuration.Verbosity > 2 {
			message := fmt.Sprintf("Event %d of %s processed", ievent, inputFileName)
			logger.Info(message, "maker")
		}
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("%s: %d entries, %d accepted", inputFileName, nevents, accepted)
		logger.Info(message, "maker")
	}
	return m.tree.Close()
}

// Run processes every file of a list, one path per line, in order.
func (m *AnalysisMaker) Run(inputFileList string) error {
	fin, err := os.Open(inputFileList)
	if err != nil {
		return &ErrOpenFile{Filename: inputFileList, Err: err}
	}
	defer fin.Close()

	scanner := bufio.NewScanner(fin)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		if err := m.RunFile(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading file list %s: %w", inputFileList, err)
	}
	return nil
}

// Finish finalizes every accumulator then writes and closes the output. It
// must be called once, after the last event.
func (m *AnalysisMaker) Finish() error {
	if m.output == nil {
		return fmt.Errorf("output is not open, Init must be called first")
	}

	m.sortAccumulators()
	var errs []error
	for _, a := range m.accumulators {
		if err := a.Finish(m.typ); err != nil {
			errs = append(errs, err)
		}
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Closing %s after %d accepted events", m.outputFileName, m.nevents)
		logger.Info(message, "maker")
	}
	if err := m.output.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing output %s: %w", m.outputFileName, err))
	}
	m.output = nil
	return errors.Join(errs...)
}

// Abort closes the output without finishing the accumulators, leaving a
// partial file. It does nothing when the output is not open.
func (m *AnalysisMaker) Abort() error {
	if m.output == nil {
		return nil
	}
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Aborting %s after %d accepted events", m.outputFileName, m.nevents)
		logger.Info(message, "maker")
	}
	err := m.output.Close()
	m.output = nil
	if err != nil {
		return fmt.Errorf("error closing output %s: %w", m.outputFileName, err)
	}
	return nil
}

// Tables returns the per-centrality tables of every accumulator, valid
// after Finish.
func (m *AnalysisMaker) Tables() []Table {
	tables := make([]Table, 0, len(m.accumulators))
	for _, a := range m.accumulators {
		tables = append(tables, a.Table())
	}
	return tables
}
