package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLoad matches every LoadError.
	ErrLoad = errors.New("catalog load failed")
	// ErrNoSources signals that none of the configured sources could be read.
	ErrNoSources = errors.New("no readable nutrient source")
	// ErrNoRows signals that the readable sources produced no usable rows.
	ErrNoRows = errors.New("catalog has no rows")
)

// LoadError is fatal at startup: without a catalog no request can be served.
type LoadError struct {
	Reason error
	Causes []error
}

func (e *LoadError) Error() string {
	if len(e.Causes) == 0 {
		return fmt.Sprintf("%s: %v", ErrLoad, e.Reason)
	}
	msgs := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		msgs[i] = c.Error()
	}
	return fmt.Sprintf("%s: %v (%s)", ErrLoad, e.Reason, strings.Join(msgs, "; "))
}

func (e *LoadError) Unwrap() []error {
	return append([]error{ErrLoad, e.Reason}, e.Causes...)
}
