package compiler

import "errors"

var (
	// ErrUnsupportedSyntax is returned for files using a presence dialect
	ErrUnsupportedSyntax = errors.New("unsupported syntax, please use proto3")
	ErrNilGenerator      = errors.New("generator cannot be nil")
)

// FileError attributes a fatal compilation error to the file that caused it
type FileError struct {
	File string
	Err  error
}

// Error implements the error interface
func (e *FileError) Error() string {
	return e.File + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Err
}

// RenderFailure records a file whose output could not be rendered. It does
// not stop the compilation of other files.
type RenderFailure struct {
	File string
	Err  error
}

// Error implements the error interface
func (f RenderFailure) Error() string {
	return f.File + ": " + f.Err.Error()
}
