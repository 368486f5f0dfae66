package blobs

import (
	"errors"
	"fmt"
)

// ErrShadowedPartition indicates a system file under a directory named after
// another partition. Its source path would collide with that partition's files.
var ErrShadowedPartition = errors.New("system path shadows a partition")

// ClassificationError reports a blob that doesn't fit the device layout model.
// These are fatal: the layout needs a filter or a manual override.
type ClassificationError struct {
	Path string
	Rule string
	Err  error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("%s: %v (rule %s)", e.Path, e.Err, e.Rule)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
