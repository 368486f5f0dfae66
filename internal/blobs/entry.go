// Package blobs models proprietary files ("blobs") found in a stock system
// and decides how each one must be handed to the build system.
//
// Key responsibilities:
//   - Entry identity (partition, sub-partition path, source path key)
//   - Classification between the module backend and plain file copies
//   - Partition listing and stock-vs-reference diffing
//   - proprietary-files.txt parsing and serialization
//   - Copying blobs into the generated vendor tree
package blobs

import (
	"path"
	"strings"

	"github.com/danieljhkim/vendorgen/internal/partition"
)

// Directory and extension names that drive classification.
const (
	BinDir     = "bin"
	LibDir32   = "lib"
	LibDir64   = "lib64"
	EtcDir     = "etc"
	DspDir     = "dsp"
	PrivAppDir = "priv-app"

	ExtSharedObject = ".so"
	ExtApp          = ".apk"
	ExtJar          = ".jar"
	ExtApex         = ".apex"
	ExtXML          = ".xml"
	ExtScript       = ".sh"
)

// Entry is the identity and build metadata of one blob.
type Entry struct {
	// Partition the file is installed to
	Partition partition.Partition `json:"partition"`

	// Path is relative to the partition root
	Path string `json:"path"`

	// SrcPath is the flat key derived from Partition and Path
	SrcPath string `json:"srcPath"`

	// DiskSrcPath overrides where the file is read from on the host
	DiskSrcPath string `json:"diskSrcPath,omitempty"`

	IsPresigned       bool `json:"isPresigned,omitempty"`
	IsNamedDependency bool `json:"isNamedDependency,omitempty"`
	DisableSoong      bool `json:"disableSoong,omitempty"`
}

// NewEntry creates an entry for a file in the given partition.
func NewEntry(p partition.Partition, subPath string) Entry {
	return Entry{
		Partition: p,
		Path:      subPath,
		SrcPath:   partition.PartPathToSrcPath(p, subPath),
	}
}

// EntryFromSrcPath creates an entry from a source path key.
func EntryFromSrcPath(srcPath string) Entry {
	p, subPath := partition.SrcPathToPartPath(srcPath)
	return Entry{
		Partition: p,
		Path:      subPath,
		SrcPath:   srcPath,
	}
}

// EntryFromCombinedPath creates an entry from a partition-prefixed listing path.
// System files under a directory named after an extended partition are
// rejected, since their source path would read back as that partition.
func EntryFromCombinedPath(combined string) (Entry, error) {
	p, subPath, err := partition.SplitCombinedPath(combined)
	if err != nil {
		return Entry{}, err
	}
	if p == partition.System {
		first, _, _ := strings.Cut(subPath, "/")
		if partition.Partition(first).IsExtended() {
			return Entry{}, &ClassificationError{
				Path: combined,
				Rule: "system path under " + first + "/",
				Err:  ErrShadowedPartition,
			}
		}
	}
	return NewEntry(p, subPath), nil
}

// Ext returns the file extension including the dot.
func (e Entry) Ext() string {
	return path.Ext(e.Path)
}

// Filename returns the final path segment.
func (e Entry) Filename() string {
	return path.Base(e.Path)
}

// CombinedPath returns the partition-prefixed path, as installed.
func (e Entry) CombinedPath() string {
	return partition.CombinedPath(e.Partition, e.Path)
}

// PathParts splits the sub-partition path into segments.
func (e Entry) PathParts() []string {
	return strings.Split(e.Path, "/")
}

// NeedsModuleBackend reports whether an entry must be declared as a build
// module rather than copied. The rules are a priority list and are evaluated
// in order.
func NeedsModuleBackend(entry Entry, ext string) bool {
	// Paths already special-cased elsewhere, e.g. flattened APEX contents
	if entry.DisableSoong {
		return false
	}

	// Explicit operator override
	if entry.IsNamedDependency {
		return true
	}

	// ELF files need stripping and ABI metadata
	if strings.HasPrefix(entry.Path, BinDir+"/") || ext == ExtSharedObject {
		return true
	}

	// Build-time processing: signing, dex, XML/vintf handling
	if ext == ExtApp || ext == ExtJar || isEtcXML(entry, ext) {
		return true
	}

	// APEX overrides must interact with the built system
	if ext == ExtApex {
		return true
	}

	return false
}

// isEtcXML matches XML configuration under etc/. Vintf manifest fragments
// (etc/vintf/manifest/) are the case that can't be copied verbatim.
func isEtcXML(entry Entry, ext string) bool {
	return ext == ExtXML && strings.HasPrefix(entry.Path, EtcDir+"/")
}
