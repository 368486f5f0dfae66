package blobs

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/danieljhkim/vendorgen/internal/fsops"
	"github.com/danieljhkim/vendorgen/internal/partition"
)

// KeepFunc decides whether a combined path survives listing filters.
type KeepFunc func(combinedPath string) bool

// Lister enumerates the files of one system (stock or reference build).
type Lister interface {
	// ListPartition returns sorted combined paths, or ok=false if the
	// partition does not exist in this system.
	ListPartition(p partition.Partition) (files []string, ok bool, err error)
}

// TreeLister lists partitions from an extracted or mounted system tree.
type TreeLister struct {
	FS   fsops.FS
	Root string
	Keep KeepFunc
}

// NewTreeLister creates a TreeLister rooted at root.
func NewTreeLister(fs fsops.FS, root string, keep KeepFunc) *TreeLister {
	return &TreeLister{FS: fs, Root: root, Keep: keep}
}

// ListPartition implements Lister.
func (l *TreeLister) ListPartition(p partition.Partition) ([]string, bool, error) {
	return ListPart(l.FS, p, l.Root, l.Keep)
}

// PartitionRoot returns the directory holding a partition's files, unwrapping
// system-as-root layouts (system/system).
func PartitionRoot(fs fsops.FS, p partition.Partition, root string) (string, bool, error) {
	partRoot := filepath.Join(root, p.String())
	exists, err := fs.Exists(partRoot)
	if err != nil {
		return "", false, fmt.Errorf("failed to check %s: %w", partRoot, err)
	}
	if !exists {
		return "", false, nil
	}

	if p == partition.System {
		nested := filepath.Join(partRoot, "system")
		nestedExists, err := fs.Exists(nested)
		if err != nil {
			return "", false, fmt.Errorf("failed to check %s: %w", nested, err)
		}
		if nestedExists {
			partRoot = nested
		}
	}
	return partRoot, true, nil
}

// ListPart lists a partition under root as sorted combined paths. A nil keep
// function keeps every file.
func ListPart(fs fsops.FS, p partition.Partition, root string, keep KeepFunc) ([]string, bool, error) {
	partRoot, ok, err := PartitionRoot(fs, p, root)
	if err != nil || !ok {
		return nil, ok, err
	}

	// Listing relative to the parent keeps the partition name as prefix
	files, err := fs.ListFiles(partRoot, filepath.Dir(partRoot))
	if err != nil {
		return nil, false, err
	}

	return FilterPaths(files, keep), true, nil
}

// FilterPaths applies keep and returns a sorted copy.
func FilterPaths(files []string, keep KeepFunc) []string {
	kept := make([]string, 0, len(files))
	for _, f := range files {
		if keep == nil || keep(f) {
			kept = append(kept, f)
		}
	}
	sort.Strings(kept)
	return kept
}

// DiffLists returns the files in stock that are absent from ref, sorted.
func DiffLists(ref, stock []string) []string {
	refSet := make(map[string]struct{}, len(ref))
	for _, f := range ref {
		refSet[f] = struct{}{}
	}

	missing := []string{}
	for _, f := range stock {
		if _, ok := refSet[f]; !ok {
			missing = append(missing, f)
		}
	}
	sort.Strings(missing)
	return missing
}

// PartitionDiff is the file-level difference of one partition.
type PartitionDiff struct {
	Partition partition.Partition `json:"partition"`

	// Missing files exist in stock but not in the reference build
	Missing []string `json:"missing"`

	// Added files exist only in the reference build
	Added []string `json:"added"`
}

// DiffPartitions compares every partition of stock against reference.
// Partitions absent from either system are not applicable and are skipped.
func DiffPartitions(stock, reference Lister) ([]PartitionDiff, error) {
	var diffs []PartitionDiff
	for _, p := range partition.All {
		stockFiles, ok, err := stock.ListPartition(p)
		if err != nil {
			return nil, fmt.Errorf("failed to list stock %s: %w", p, err)
		}
		if !ok {
			continue
		}

		refFiles, ok, err := reference.ListPartition(p)
		if err != nil {
			return nil, fmt.Errorf("failed to list reference %s: %w", p, err)
		}
		if !ok {
			continue
		}

		diffs = append(diffs, PartitionDiff{
			Partition: p,
			Missing:   DiffLists(refFiles, stockFiles),
			Added:     DiffLists(stockFiles, refFiles),
		})
	}
	return diffs, nil
}

// MissingEntries converts the missing files of every diff into entries keyed
// by combined path.
func MissingEntries(diffs []PartitionDiff) (map[string]Entry, error) {
	entries := make(map[string]Entry)
	for _, d := range diffs {
		for _, combined := range d.Missing {
			entry, err := EntryFromCombinedPath(combined)
			if err != nil {
				return nil, err
			}
			if entry.Partition != d.Partition {
				return nil, fmt.Errorf("path %s listed under partition %s", combined, d.Partition)
			}
			entries[combined] = entry
		}
	}
	return entries, nil
}
