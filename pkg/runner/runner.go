package runner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	glauber "github.com/glauber-mc/glauber_go/pkg"
	"github.com/glauber-mc/glauber_go/pkg/h5writer"
	"github.com/glauber-mc/glauber_go/pkg/rootwriter"
)

type Result struct {
	Type       string
	OutputFile string
	NEvents    int
	Duration   time.Duration
}

// FileForType inserts the variation type before the extension of path.
func FileForType(path string, typ string) string {
	if path == "" {
		return ""
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + typ + ext
}

func OutputOpener(config glauber.Configuration) (glauber.OutputOpener, error) {
	switch config.OutputFormat.Code {
	case glauber.OutputHDF5:
		return h5writer.Open(config.CompressionLevel), nil
	case glauber.OutputROOT:
		return rootwriter.Open(), nil
	}
	return nil, fmt.Errorf("invalid output format: %s", config.OutputFormat)
}

// CentralityMaker reads the centrality parameters of the configured system
// from the database, or from the built-in tables when no_db is set.
func CentralityMaker(config glauber.Configuration) (*glauber.CentralityMaker, error) {
	if config.NoDB {
		return glauber.NewCentralityMaker(config.System)
	}
	dbConn, err := glauber.ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	if err != nil {
		return nil, fmt.Errorf("error connection to database: %w", err)
	}
	defer dbConn.Close()
	return glauber.LoadCentralityMaker(dbConn, config.System)
}

// Run performs the full analysis of one variation type. With perType set,
// the output and xlsx file names get the type as suffix.
func Run(config glauber.Configuration, typ string, perType bool) (Result, error) {
	start := time.Now()
	result := Result{Type: typ, OutputFile: config.FileOut}
	if perType {
		result.OutputFile = FileForType(config.FileOut, typ)
	}

	centrality, err := CentralityMaker(config)
	if err != nil {
		return result, err
	}
	if err := centrality.ApplyVariation(typ); err != nil {
		return result, err
	}

	opener, err := OutputOpener(config)
	if err != nil {
		return result, err
	}

	random := glauber.NewRandom(config.Seed)
	tree := glauber.NewGlauberTree(config.TreeName)
	maker, err := glauber.NewAnalysisMaker(typ, tree, centrality, random, opener)
	if err != nil {
		return result, err
	}
	if config.MultiplicityModel == glauber.MultiplicityFromNegativeBinomial {
		model := glauber.NewNegativeBinomialMultiplicity(centrality.GetCentrality(glauber.DefaultCentralityID), random.Source())
		maker.SetMultiplicityModel(model)
	}
	if config.UnitWeight {
		maker.UnitWeightOn()
	}
	if config.Reweighting {
		maker.ReweightingOn()
	}

	if err := maker.Init(result.OutputFile, config.TableDir); err != nil {
		return result, err
	}

	if config.FileList != "" {
		err = maker.Run(config.FileList)
	} else {
		err = maker.RunFile(config.FileIn)
	}
	if err != nil {
		return result, errors.Join(err, maker.Abort())
	}

	if err := maker.Finish(); err != nil {
		return result, err
	}
	result.NEvents = maker.NEvents()

	if config.XLSXFile != "" {
		xlsxFile := config.XLSXFile
		if perType {
			xlsxFile = FileForType(xlsxFile, typ)
		}
		if err := glauber.SaveTablesToXLSX(xlsxFile, typ, result.NEvents, maker.Tables()); err != nil {
			return result, fmt.Errorf("error saving xlsx tables: %w", err)
		}
	}

	if config.PlotDir != "" {
		for _, a := range maker.Accumulators() {
			if err := glauber.SaveGraphPlots(config.PlotDir, a.Graphs()); err != nil {
				return result, err
			}
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
