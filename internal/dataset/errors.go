package dataset

import (
	"errors"
	"fmt"
)

// ErrEmpty indicates the input has no header or no data rows.
var ErrEmpty = errors.New("dataset is empty")

// DataLoadError reports that the input table could not be loaded: missing,
// unreadable, malformed or empty.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	if e == nil {
		return "data load failed"
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

func loadErr(path string, err error) error {
	var dle *DataLoadError
	if errors.As(err, &dle) {
		return err
	}
	return &DataLoadError{Path: path, Err: err}
}
