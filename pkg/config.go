package glauber

import (
	"encoding/json"
	"fmt"
	"os"
)

type Configuration struct {
	Verbosity         int          `json:"verbosity"`
	Type              string       `json:"type"`
	Types             []string     `json:"types"`
	System            string       `json:"system"`
	FileIn            string       `json:"file_in"`
	FileList          string       `json:"file_list"`
	FileOut           string       `json:"file_out"`
	TableDir          string       `json:"table_dir"`
	TreeName          string       `json:"tree_name"`
	UnitWeight        bool         `json:"unit_weight"`
	Reweighting       bool         `json:"reweighting"`
	Seed              uint64       `json:"seed"`
	MultiplicityModel string       `json:"multiplicity_model"`
	OutputFormat      OutputFormat `json:"output_format"`
	CompressionLevel  int          `json:"compression_level"`
	PlotDir           string       `json:"plot_dir"`
	XLSXFile          string       `json:"xlsx_file"`
	NoDB              bool         `json:"no_db"`
	Host              string       `json:"host"`
	User              string       `json:"user"`
	Passwd            string       `json:"pass"`
	DBName            string       `json:"dbname"`
	NumWorkers        int          `json:"num_workers"`
	ProfileDir        string       `json:"profile_dir"`
}

const (
	MultiplicityFromTree             = "tree"
	MultiplicityFromNegativeBinomial = "nbd"
)

var configuration = DefaultConfiguration()

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

func DefaultConfiguration() Configuration {
	var config Configuration

	config.Verbosity = 0
	config.Type = "default"
	config.Types = TypeNames()
	config.System = "AuAu_200GeV"
	config.TableDir = "./table"
	config.TreeName = "tree"
	config.UnitWeight = false
	config.Reweighting = false
	config.Seed = 1
	config.MultiplicityModel = MultiplicityFromTree
	config.OutputFormat = OutputFormat{Name: "hdf5", Code: OutputHDF5}
	config.CompressionLevel = 4
	config.NoDB = true
	config.Host = "localhost"
	config.User = "glauber"
	config.Passwd = "readonly"
	config.DBName = "Glauber"
	config.NumWorkers = 1
	return config
}

func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

// Validate reports the first configuration error that would make a run
// abort later on.
func (c Configuration) Validate() error {
	if !ValidType(c.Type) {
		return &ErrUnknownType{Type: c.Type}
	}
	for _, t := range c.Types {
		if !ValidType(t) {
			return &ErrUnknownType{Type: t}
		}
	}
	switch c.MultiplicityModel {
	case MultiplicityFromTree, MultiplicityFromNegativeBinomial:
	default:
		return fmt.Errorf("invalid multiplicity model: %s", c.MultiplicityModel)
	}
	if c.OutputFormat.String() == "UNKNOWN" {
		return fmt.Errorf("invalid output format code: %d", c.OutputFormat.Code)
	}
	if c.FileIn == "" && c.FileList == "" {
		return fmt.Errorf("no input: set file_in or file_list")
	}
	return nil
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Type: %s", config.Type), "config")
	logger.Info(fmt.Sprintf("Types: %v", config.Types), "config")
	logger.Info(fmt.Sprintf("System: %s", config.System), "config")
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File list: %s", config.FileList), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Table dir: %s", config.TableDir), "config")
	logger.Info(fmt.Sprintf("Tree name: %s", config.TreeName), "config")
	logger.Info(fmt.Sprintf("Unit weight: %t", config.UnitWeight), "config")
	logger.Info(fmt.Sprintf("Reweighting: %t", config.Reweighting), "config")
	logger.Info(fmt.Sprintf("Seed: %d", config.Seed), "config")
	logger.Info(fmt.Sprintf("Multiplicity model: %s", config.MultiplicityModel), "config")
	logger.Info(fmt.Sprintf("Output format: %s", config.OutputFormat), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Plot dir: %s", config.PlotDir), "config")
	logger.Info(fmt.Sprintf("XLSX file: %s", config.XLSXFile), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
}
