// Package engine provides the core business logic for vendorgen operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// the blob pipeline. It enumerates and diffs system trees, resolves overrides
// against the reference build, plans modules and copy rules, and writes the
// vendor tree.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Generate: One full generation run for a device
//   - DiffFiles/ListFiles: File enumeration and partition diffs
//   - ResolveOverrides: Standalone override resolution
//   - CollectState: Reference build snapshots
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/config"
	"github.com/danieljhkim/vendorgen/internal/fsops"
	"github.com/danieljhkim/vendorgen/internal/hash"
	"github.com/danieljhkim/vendorgen/internal/logging"
	"github.com/danieljhkim/vendorgen/internal/partition"
	"github.com/danieljhkim/vendorgen/internal/state"
)

// Engine orchestrates all vendorgen operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs         fsops.FS
	hasher     hash.Hasher
	stateStore state.StateStore
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a new Engine with the given dependencies. A nil logger
// falls back to slog.Default.
func New(
	fs fsops.FS,
	hasher hash.Hasher,
	stateStore state.StateStore,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		fs:         fs,
		hasher:     hasher,
		stateStore: stateStore,
		logger:     logging.Ensure(logger).With("component", "engine"),
		now:        time.Now,
	}
}

// keepFunc combines the built-in ignore rules with a files filter.
func keepFunc(files *config.Filters) blobs.KeepFunc {
	return func(combinedPath string) bool {
		if !config.BuiltinKeep(combinedPath) {
			return false
		}
		return files == nil || files.Keep(combinedPath)
	}
}

// selectPartitions returns the partitions kept by a partitions filter.
func selectPartitions(filter *config.Filters) []partition.Partition {
	var parts []partition.Partition
	for _, p := range partition.All {
		if filter == nil || filter.Keep(p.String()) {
			parts = append(parts, p)
		}
	}
	return parts
}

// partitionLister hides partitions excluded by configuration and stops
// listing once ctx is done.
type partitionLister struct {
	blobs.Lister
	ctx     context.Context
	allowed map[partition.Partition]bool
}

func newPartitionLister(ctx context.Context, l blobs.Lister, parts []partition.Partition) *partitionLister {
	allowed := make(map[partition.Partition]bool, len(parts))
	for _, p := range parts {
		allowed[p] = true
	}
	return &partitionLister{Lister: l, ctx: ctx, allowed: allowed}
}

func (l *partitionLister) ListPartition(p partition.Partition) ([]string, bool, error) {
	if err := l.ctx.Err(); err != nil {
		return nil, false, err
	}
	if !l.allowed[p] {
		return nil, false, nil
	}
	return l.Lister.ListPartition(p)
}
