package gapminder

import (
	"errors"
	"fmt"
)

// Domain errors for dataset and interaction handling.
var (
	// ErrDataUnavailable indicates the dataset could not be fetched or parsed.
	ErrDataUnavailable = errors.New("gapminder: dataset unavailable")

	// ErrUnknownYear indicates a year that is not present in the dataset.
	ErrUnknownYear = errors.New("gapminder: year not in dataset")

	// ErrMalformedClick indicates a click payload without a usable label.
	ErrMalformedClick = errors.New("gapminder: click payload carries no label")
)

// LoadError wraps a dataset failure with the source and the step that failed.
// It always matches ErrDataUnavailable under errors.Is.
type LoadError struct {
	Source string
	Op     string
	Err    error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s", ErrDataUnavailable, e.Op)
	if e.Source != "" {
		base += fmt.Sprintf(" (source=%s)", e.Source)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrDataUnavailable
}
