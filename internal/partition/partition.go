// Package partition models Android system partitions and the flat source
// path keys used to identify files across the generation pipeline.
//
// A source path ("srcPath") is the partition-relative path prefixed with the
// partition name, except for the system partition whose paths are used
// verbatim. A combined path always carries the partition prefix and is what
// tree listings and reference build outputs use.
package partition

import (
	"fmt"
	"strings"
)

// Partition is an Android system partition name.
type Partition string

// Known partitions.
const (
	System     Partition = "system"
	SystemExt  Partition = "system_ext"
	Product    Partition = "product"
	Vendor     Partition = "vendor"
	ODM        Partition = "odm"
	VendorDLKM Partition = "vendor_dlkm"
	ODMDLKM    Partition = "odm_dlkm"
)

// Extended lists every partition except system, in listing order.
var Extended = []Partition{SystemExt, Product, Vendor, ODM, VendorDLKM, ODMDLKM}

// All lists every partition, system first.
var All = append([]Partition{System}, Extended...)

// String returns the partition name.
func (p Partition) String() string {
	return string(p)
}

// IsExtended reports whether p prefixes its source paths with its own name.
func (p Partition) IsExtended() bool {
	for _, ext := range Extended {
		if p == ext {
			return true
		}
	}
	return false
}

// Parse returns the partition with the given name.
func Parse(name string) (Partition, error) {
	for _, p := range All {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown partition %q", name)
}

// PartPathToSrcPath converts a partition and sub-partition path to a source path.
func PartPathToSrcPath(p Partition, path string) string {
	if p.IsExtended() {
		return string(p) + "/" + path
	}
	return path
}

// SrcPathToPartPath splits a source path into its partition and
// sub-partition path. Paths that don't start with an extended partition
// belong to system.
func SrcPathToPartPath(srcPath string) (Partition, string) {
	first, rest, found := strings.Cut(srcPath, "/")
	if found {
		if p := Partition(first); p.IsExtended() {
			return p, rest
		}
	}
	return System, srcPath
}

// CombinedPath joins a partition and sub-partition path the way partition
// trees are laid out on disk.
func CombinedPath(p Partition, path string) string {
	return string(p) + "/" + path
}

// SplitCombinedPath is the inverse of CombinedPath.
func SplitCombinedPath(combined string) (Partition, string, error) {
	first, rest, found := strings.Cut(combined, "/")
	if !found || rest == "" {
		return "", "", fmt.Errorf("invalid combined path %q: missing partition prefix", combined)
	}
	p, err := Parse(first)
	if err != nil {
		return "", "", fmt.Errorf("invalid combined path %q: %w", combined, err)
	}
	return p, rest, nil
}
