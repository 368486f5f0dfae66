package engine

import "errors"

var (
	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrNoPartitions indicates a system tree without any known partition.
	ErrNoPartitions = errors.New("no partitions found")
)
