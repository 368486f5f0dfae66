package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/config"
	"github.com/danieljhkim/vendorgen/internal/partition"
	"github.com/danieljhkim/vendorgen/internal/soong"
	"github.com/danieljhkim/vendorgen/internal/state"
)

// moduleInfoName is the module index file in a product output directory.
const moduleInfoName = "module-info.json"

// CollectState snapshots a reference build so later runs can diff against it.
func (e *Engine) CollectState(ctx context.Context, req *CollectStateRequest) (*CollectStateResult, error) {
	if req.Device == "" || req.OutPath == "" {
		return nil, fmt.Errorf("%w: device and output path are required", ErrValidation)
	}
	root, err := e.resolveDir(req.ReferenceRoot, "reference root")
	if err != nil {
		return nil, err
	}

	snapshot := state.NewSystemState(req.Device, e.now().UTC())
	lister := blobs.NewTreeLister(e.fs, root, config.BuiltinKeep)
	for _, p := range partition.All {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, ok, err := lister.ListPartition(p)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", p, err)
		}
		if ok {
			snapshot.SetPartition(p, files)
		}
	}
	if len(snapshot.PartitionFiles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPartitions, root)
	}

	infoPath := req.ModuleInfoPath
	if infoPath == "" {
		candidate := filepath.Join(root, moduleInfoName)
		if exists, err := e.fs.Exists(candidate); err == nil && exists {
			infoPath = candidate
		}
	}
	if infoPath != "" {
		index, err := soong.LoadModuleIndex(e.fs, infoPath)
		if err != nil {
			return nil, err
		}
		snapshot.ModuleIndex = index
	}

	if err := e.stateStore.Save(req.OutPath, snapshot); err != nil {
		return nil, err
	}

	e.logger.Info("collected state",
		"device", req.Device,
		"partitions", len(snapshot.PartitionFiles),
		"files", snapshot.FileCount(),
		"modules", len(snapshot.ModuleIndex))
	return &CollectStateResult{
		Path:       req.OutPath,
		Partitions: snapshot.Partitions(),
		Files:      snapshot.FileCount(),
		Modules:    len(snapshot.ModuleIndex),
	}, nil
}
