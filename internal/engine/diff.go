package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/partition"
)

// DiffFiles compares a stock tree against a reference tree or snapshot.
func (e *Engine) DiffFiles(ctx context.Context, req *DiffRequest) (*DiffResult, error) {
	stockRoot, err := e.resolveDir(req.StockRoot, "stock root")
	if err != nil {
		return nil, err
	}

	var reference blobs.Lister
	switch {
	case req.StatePath != "":
		snapshot, err := e.stateStore.Load(req.StatePath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: state %s", ErrNotFound, req.StatePath)
			}
			return nil, err
		}
		reference = snapshot
	default:
		refRoot, err := e.resolveDir(req.ReferenceRoot, "reference root")
		if err != nil {
			return nil, err
		}
		reference = blobs.NewTreeLister(e.fs, refRoot, keepFunc(req.Files))
	}

	parts := selectPartitions(req.Partitions)
	stock := newPartitionLister(ctx, blobs.NewTreeLister(e.fs, stockRoot, keepFunc(req.Files)), parts)

	diffs, err := blobs.DiffPartitions(stock, reference)
	if err != nil {
		return nil, err
	}
	if len(diffs) == 0 {
		return nil, fmt.Errorf("%w: stock %s and reference share no partition", ErrNoPartitions, stockRoot)
	}

	e.logger.Debug("diffed partitions", "partitions", len(diffs))
	return &DiffResult{Partitions: diffs}, nil
}

// ListFiles lists the filtered files of every partition of a tree.
func (e *Engine) ListFiles(ctx context.Context, req *ListRequest) (*ListResult, error) {
	root, err := e.resolveDir(req.Root, "system root")
	if err != nil {
		return nil, err
	}

	lister := newPartitionLister(ctx, blobs.NewTreeLister(e.fs, root, keepFunc(req.Files)), selectPartitions(req.Partitions))
	result := &ListResult{Partitions: []PartitionFiles{}}
	for _, p := range partition.All {
		files, ok, err := lister.ListPartition(p)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", p, err)
		}
		if !ok {
			continue
		}
		result.Partitions = append(result.Partitions, PartitionFiles{Partition: p, Files: files})
	}

	if len(result.Partitions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPartitions, root)
	}
	return result, nil
}
