package glauber

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrMissingDirectory is returned when the table directory does not exist.
type ErrMissingDirectory struct {
	Dirname string
	Err     error
}

func (e *ErrMissingDirectory) Error() string {
	return fmt.Sprintf("can't find directory %q: %v", e.Dirname, e.Err)
}

func (e *ErrMissingDirectory) Unwrap() error {
	return e.Err
}

// ErrUnknownType represents a variation type outside the fixed table.
type ErrUnknownType struct {
	Type string
}

func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown variation type %q", e.Type)
}

// ErrUnknownSystem represents a collision system without centrality parameters.
type ErrUnknownSystem struct {
	System string
}

func (e *ErrUnknownSystem) Error() string {
	return fmt.Sprintf("unknown collision system %q", e.System)
}

// ErrReadTree represents an error when reading entries of an event tree.
type ErrReadTree struct {
	TreeName string
	Err      error
}

func (e *ErrReadTree) Error() string {
	return fmt.Sprintf("error reading tree %q: %v", e.TreeName, e.Err)
}

func (e *ErrReadTree) Unwrap() error {
	return e.Err
}
