package engine

import (
	"github.com/danieljhkim/vendorgen/internal/config"
)

// GenerateRequest represents one generation run for a device.
type GenerateRequest struct {
	// Config is the merged device config
	Config *config.DeviceConfig

	// StockRoot is the extracted stock system, one directory per partition
	StockRoot string

	// ReferenceRoot is the reference build's product output directory.
	// Exactly one of ReferenceRoot, StatePath and FileListPath is used.
	ReferenceRoot string

	// StatePath is a snapshot of the reference build, used as the diff reference
	StatePath string

	// FileListPath is an existing proprietary-files.txt used instead of diffing
	FileListPath string

	// ModuleInfoPath is the reference build's module-info.json. When empty,
	// the snapshot's module index is used if it has one.
	ModuleInfoPath string

	// OutDir is the build root the vendor tree is written under
	OutDir string

	// RunID identifies the run in logs; generated when empty
	RunID string

	// DryRun plans without writing anything
	DryRun bool
}

// DiffRequest represents a request to diff a stock tree against a reference.
type DiffRequest struct {
	StockRoot     string
	ReferenceRoot string
	StatePath     string

	// Files and Partitions filter what is compared (nil keeps everything)
	Files      *config.Filters
	Partitions *config.Filters
}

// ListRequest represents a request to list the files of a system tree.
type ListRequest struct {
	Root       string
	Files      *config.Filters
	Partitions *config.Filters
}

// ResolveOverridesRequest represents a standalone override resolution.
type ResolveOverridesRequest struct {
	// OverridesPath lists installed output paths, one per line
	OverridesPath string

	// ModuleInfoPath is the reference build's module-info.json
	ModuleInfoPath string

	// ProprietaryDir excludes modules generated into it, if set
	ProprietaryDir string
}

// CollectStateRequest represents a request to snapshot a reference build.
type CollectStateRequest struct {
	Device string

	// ReferenceRoot is the reference build's product output directory
	ReferenceRoot string

	// ModuleInfoPath defaults to module-info.json in ReferenceRoot, if present
	ModuleInfoPath string

	// OutPath is where the snapshot is written
	OutPath string
}
