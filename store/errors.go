package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned by a Backend that has never been written to.
	ErrNoData = errors.New("no data")

	// ErrWrite marks a failed collection write.
	ErrWrite = errors.New("storage write failed")
)

// WriteError reports a failed whole-collection write. The collection on the
// backend is left as it was before the call.
type WriteError struct {
	Location string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Location, e.Err)
}

func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Err} }
