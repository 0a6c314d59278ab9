package h5writer

import (
	"fmt"

	"github.com/jmbenlloch/go-hdf5"
)

type BinHDF5 struct {
	xlow    float64
	xhigh   float64
	entries int64
	sumw    float64
	sumw2   float64
}

type PointHDF5 struct {
	x        float64
	xErrLow  float64
	xErrHigh float64
	y        float64
	yErrLow  float64
	yErrHigh float64
}

type IndexHDF5 struct {
	name  [STRLEN]byte
	title [TITLELEN]byte
	kind  int32
}

const (
	STRLEN   = 32
	TITLELEN = 128

	KindHistogram = 1
	KindGraph     = 2
)

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func convertToHdf5Title(s string) [TITLELEN]byte {
	var byteArray [TITLELEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func openFile(fname string) (*hdf5.File, error) {
	return hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}, compressionLevel int) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	file_space, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer file_space.Close()

	// create property list
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	chunks := []uint{1024}
	plist.SetChunk(chunks)
	plist.SetDeflate(compressionLevel)

	// create the memory data type
	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, file_space, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

// writeArrayToTable appends data after the first offset rows of dataset.
func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, offset int) error {
	length := uint(len(*data))
	if length == 0 {
		return nil
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	// extend
	rowsInTable := uint(offset)
	newsize := []uint{rowsInTable + length}
	if err := dataset.Resize(newsize); err != nil {
		return fmt.Errorf("error resizing table: %w", err)
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{rowsInTable}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return err
	}

	return dataset.WriteSubset(data, dataspace, filespace)
}
