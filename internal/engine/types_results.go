package engine

import (
	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/makefile"
	"github.com/danieljhkim/vendorgen/internal/partition"
	"github.com/danieljhkim/vendorgen/internal/planner"
	"github.com/danieljhkim/vendorgen/internal/soong"
)

// GenerateResult represents the outcome of a generation run.
type GenerateResult struct {
	RunID  string `json:"runId"`
	Device string `json:"device"`

	// Entries are the blobs left after override resolution
	Entries []blobs.Entry `json:"entries"`

	// NamedModules are the synthesized module declarations
	NamedModules []soong.Module `json:"namedModules"`

	// CopyRules are the PRODUCT_COPY_FILES rules
	CopyRules []makefile.CopyRule `json:"copyRules"`

	// Symlinks are declared at build time instead of copied
	Symlinks []makefile.Symlink `json:"symlinks"`

	// AlreadyBuilt are reference build modules that provide diffed files
	AlreadyBuilt []string `json:"alreadyBuiltModuleNames"`

	// StillMissing are installed paths no reference module provides
	StillMissing []string `json:"stillMissingPaths"`

	// Conflicts records module naming decisions
	Conflicts []planner.Conflict `json:"conflicts"`

	// Written lists the files written, relative to the output directory
	Written []string `json:"written,omitempty"`

	// CopyStats is set when blobs were copied
	CopyStats *blobs.CopyStats `json:"copyStats,omitempty"`
}

// DiffResult represents the per-partition differences of two systems.
type DiffResult struct {
	Partitions []blobs.PartitionDiff `json:"partitions"`
}

// MissingCount returns the number of files missing across partitions.
func (r *DiffResult) MissingCount() int {
	n := 0
	for _, d := range r.Partitions {
		n += len(d.Missing)
	}
	return n
}

// PartitionFiles is the file list of one partition.
type PartitionFiles struct {
	Partition partition.Partition `json:"partition"`
	Files     []string            `json:"files"`
}

// ListResult represents the filtered files of a system tree.
type ListResult struct {
	Partitions []PartitionFiles `json:"partitions"`
}

// ResolveOverridesResult represents the outcome of override resolution.
type ResolveOverridesResult struct {
	soong.OverrideModules
}

// CollectStateResult summarizes a written snapshot.
type CollectStateResult struct {
	Path       string                `json:"path"`
	Partitions []partition.Partition `json:"partitions"`
	Files      int                   `json:"files"`
	Modules    int                   `json:"modules"`
}
