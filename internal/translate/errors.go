package translate

import "errors"

var (
	// ErrInvalidDateTime is returned when timestamp parsing fails.
	ErrInvalidDateTime = errors.New("invalid datetime format")

	// ErrUnsupportedFilter is returned when a filter cannot be expressed for a catalog.
	ErrUnsupportedFilter = errors.New("unsupported filter expression")

	// ErrUnsupportedValue is returned when a catalog property value has an unexpected type.
	ErrUnsupportedValue = errors.New("unsupported property value")
)
