package soong

import "errors"

// Causes of a *blobs.ClassificationError raised during module synthesis.
var (
	// ErrUnknownArtifactKind indicates no module kind matches a blob.
	ErrUnknownArtifactKind = errors.New("unknown artifact kind")

	// ErrUnexpectedInstallDir indicates a blob is outside the directory its rule requires.
	ErrUnexpectedInstallDir = errors.New("unexpected install directory")

	// ErrUnknownLibDir indicates a shared library outside lib/ and lib64/.
	ErrUnknownLibDir = errors.New("unknown library directory")
)
