package dataset

import "github.com/youralert/youralert/golib/errors"

var (
	// ErrDatasetNotFound is returned by Load when the resource does not exist
	ErrDatasetNotFound = errors.Sentinel("dataset not found")
	// ErrInsufficientData is returned when more examples are requested than are available
	ErrInsufficientData = errors.Sentinel("not enough examples")
	// ErrDegenerateLabels is returned when a set of examples cannot represent both classes
	ErrDegenerateLabels = errors.Sentinel("examples do not cover both classes")
)
