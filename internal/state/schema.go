package state

import (
	"sort"
	"time"

	"github.com/danieljhkim/vendorgen/internal/partition"
	"github.com/danieljhkim/vendorgen/internal/soong"
)

// Version is the snapshot format version. Snapshots of other versions must be
// collected again.
const Version = 1

// SystemState is a snapshot of a reference build.
type SystemState struct {
	// Device is the device the build was made for
	Device string `json:"device"`

	// CollectedAt is when the snapshot was taken
	CollectedAt time.Time `json:"collectedAt"`

	// PartitionFiles maps each present partition to its sorted combined paths
	PartitionFiles map[partition.Partition][]string `json:"partitionFiles"`

	// ModuleIndex is the build's module-info.json, if it was collected
	ModuleIndex soong.ModuleIndex `json:"moduleIndex,omitempty"`
}

// NewSystemState creates an empty snapshot.
func NewSystemState(device string, collectedAt time.Time) *SystemState {
	return &SystemState{
		Device:         device,
		CollectedAt:    collectedAt,
		PartitionFiles: make(map[partition.Partition][]string),
	}
}

// SetPartition records the file list of a partition.
func (s *SystemState) SetPartition(p partition.Partition, files []string) {
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)
	s.PartitionFiles[p] = sorted
}

// ListPartition returns the recorded files of a partition, making a snapshot
// usable as the reference side of a diff.
func (s *SystemState) ListPartition(p partition.Partition) ([]string, bool, error) {
	files, ok := s.PartitionFiles[p]
	return files, ok, nil
}

// Partitions returns the recorded partitions in canonical order.
func (s *SystemState) Partitions() []partition.Partition {
	var parts []partition.Partition
	for _, p := range partition.All {
		if _, ok := s.PartitionFiles[p]; ok {
			parts = append(parts, p)
		}
	}
	return parts
}

// FileCount returns the number of files across all partitions.
func (s *SystemState) FileCount() int {
	n := 0
	for _, files := range s.PartitionFiles {
		n += len(files)
	}
	return n
}
