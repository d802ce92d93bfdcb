package storage

import (
	"errors"
	"fmt"
)

// ErrIO matches every *IOError via errors.Is
var ErrIO = errors.New("log file I/O failed")

// IOError reports a failed open, write, flush or rename of a log file.
// The in-memory log is not rolled back when one is returned.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrIO) true for any IOError
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func ioErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}
