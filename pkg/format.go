package glauber

import (
	"encoding/json"
	"fmt"
)

type OutputFormatCode int

const (
	OutputHDF5 OutputFormatCode = iota
	OutputROOT
)

// OutputFormat selects the container file written by a run. It appears in
// the configuration as "hdf5" or "root".
type OutputFormat struct {
	Name string
	Code OutputFormatCode
}

var outputFormatStrings = []string{
	"hdf5",
	"root",
}

func (f OutputFormat) String() string {
	if f.Code < OutputHDF5 || f.Code > OutputROOT {
		return "UNKNOWN"
	}
	return outputFormatStrings[f.Code]
}

func (f OutputFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *OutputFormat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, v := range outputFormatStrings {
		if v == s {
			*f = OutputFormat{Name: s, Code: OutputFormatCode(i)}
			return nil
		}
	}
	return fmt.Errorf("invalid OutputFormat: %s", s)
}
