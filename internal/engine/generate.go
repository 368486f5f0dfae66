package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/config"
	"github.com/danieljhkim/vendorgen/internal/makefile"
	"github.com/danieljhkim/vendorgen/internal/planner"
	"github.com/danieljhkim/vendorgen/internal/soong"
)

// Output file names inside the vendor tree.
const (
	FileListName        = "proprietary-files.txt"
	BlueprintName       = "Android.bp"
	DeviceMakefileName  = "device-vendor.mk"
	ModulesMakefileName = "Android.mk"
)

// Generate runs the blob pipeline for one device: diff, override
// resolution, planning and, unless DryRun is set, writing the vendor tree.
func (e *Engine) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if req.Config == nil {
		return nil, fmt.Errorf("%w: config is required", ErrValidation)
	}
	cfg := req.Config

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := e.logger.With("device", cfg.Device.Name, "run", runID)

	stockRoot, err := e.resolveDir(req.StockRoot, "stock root")
	if err != nil {
		return nil, err
	}

	entries, index, err := e.collectEntries(ctx, req, stockRoot)
	if err != nil {
		return nil, err
	}
	markEntries(cfg, entries)
	log.Info("collected blobs", "entries", len(entries))

	result := &GenerateResult{
		RunID:        runID,
		Device:       cfg.Device.Name,
		AlreadyBuilt: []string{},
		StillMissing: []string{},
	}

	if cfg.Generate.Overrides && index != nil {
		var overrides soong.OverrideModules
		entries, overrides = applyOverrides(cfg, entries, index)
		result.AlreadyBuilt = overrides.Modules
		result.StillMissing = overrides.MissingPaths
		log.Info("resolved overrides",
			"modules", len(overrides.Modules),
			"built_paths", len(overrides.BuiltPaths),
			"missing_paths", len(overrides.MissingPaths))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, symlinks, err := e.splitSymlinks(entries, stockRoot)
	if err != nil {
		return nil, err
	}

	plan, err := planner.BuildPlan(files, cfg.Device.Vendor, cfg.ProprietaryDir())
	if err != nil {
		return nil, fmt.Errorf("failed to plan %s: %w", cfg.Device.Name, err)
	}
	logConflicts(log, plan.Conflicts)

	result.Entries = entries
	result.NamedModules = plan.Modules
	result.CopyRules = plan.CopyRules()
	result.Symlinks = symlinks
	result.Conflicts = plan.Conflicts
	log.Info("planned build",
		"modules", len(plan.Modules),
		"copy_rules", len(plan.Copies),
		"covered", len(plan.Covered),
		"symlinks", len(symlinks))

	if req.DryRun {
		return result, nil
	}

	if err := e.writeTree(ctx, log, req, stockRoot, plan, result); err != nil {
		return nil, err
	}
	return result, nil
}

// collectEntries returns the blobs of a run and the reference module index,
// if one is available.
func (e *Engine) collectEntries(ctx context.Context, req *GenerateRequest, stockRoot string) ([]blobs.Entry, soong.ModuleIndex, error) {
	var index soong.ModuleIndex
	if req.ModuleInfoPath != "" {
		loaded, err := soong.LoadModuleIndex(e.fs, req.ModuleInfoPath)
		if err != nil {
			return nil, nil, err
		}
		index = loaded
	}

	if req.FileListPath != "" {
		data, err := e.fs.ReadFile(req.FileListPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read file list: %w", err)
		}
		entries, err := blobs.ParseFileList(string(data))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrValidation, req.FileListPath, err)
		}
		return entries, index, nil
	}

	var reference blobs.Lister
	switch {
	case req.StatePath != "":
		snapshot, err := e.stateStore.Load(req.StatePath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil, fmt.Errorf("%w: state %s", ErrNotFound, req.StatePath)
			}
			return nil, nil, err
		}
		if index == nil && len(snapshot.ModuleIndex) > 0 {
			index = snapshot.ModuleIndex
		}
		reference = snapshot

	case req.ReferenceRoot != "":
		refRoot, err := e.resolveDir(req.ReferenceRoot, "reference root")
		if err != nil {
			return nil, nil, err
		}
		reference = blobs.NewTreeLister(e.fs, refRoot, config.BuiltinKeep)

	default:
		return nil, nil, fmt.Errorf("%w: a reference root, state or file list is required", ErrValidation)
	}

	cfg := req.Config
	parts := selectPartitions(&cfg.Filters.Partitions)
	stock := newPartitionLister(ctx, blobs.NewTreeLister(e.fs, stockRoot, keepFunc(&cfg.Filters.Files)), parts)

	diffs, err := blobs.DiffPartitions(stock, reference)
	if err != nil {
		return nil, nil, err
	}
	if len(diffs) == 0 {
		return nil, nil, fmt.Errorf("%w: stock %s and reference share no partition", ErrNoPartitions, stockRoot)
	}

	missing, err := blobs.MissingEntries(diffs)
	if err != nil {
		return nil, nil, err
	}
	entries := make([]blobs.Entry, 0, len(missing))
	for _, entry := range missing {
		entries = append(entries, entry)
	}
	blobs.SortBySrcPath(entries)
	return entries, index, nil
}

// markEntries applies the named dependency and presigned filters.
func markEntries(cfg *config.DeviceConfig, entries []blobs.Entry) {
	for i := range entries {
		entry := &entries[i]
		if cfg.Filters.DepFiles.Keep(entry.SrcPath) {
			entry.IsNamedDependency = true
		}
		if cfg.Generate.Presigned && entry.Ext() == blobs.ExtApp && cfg.Filters.Presigned.Keep(entry.SrcPath) {
			entry.IsPresigned = true
		}
	}
}

// applyOverrides drops entries the reference build already installs.
func applyOverrides(cfg *config.DeviceConfig, entries []blobs.Entry, index soong.ModuleIndex) ([]blobs.Entry, soong.OverrideModules) {
	soong.RemoveSelfModules(index, cfg.ProprietaryDir())

	paths := make([]string, len(entries))
	for i, entry := range entries {
		paths[i] = installedPath(cfg.Device.Name, entry.CombinedPath())
	}
	overrides := soong.FindOverrideModules(paths, index)

	built := make(map[string]bool, len(overrides.BuiltPaths))
	for _, p := range overrides.BuiltPaths {
		built[p] = true
	}

	remaining := make([]blobs.Entry, 0, len(entries))
	for i, entry := range entries {
		if !built[paths[i]] {
			remaining = append(remaining, entry)
		}
	}
	return remaining, overrides
}

// splitSymlinks separates entries that are symlinks on the stock system.
// Those are recreated at build time and are neither planned nor copied.
func (e *Engine) splitSymlinks(entries []blobs.Entry, stockRoot string) ([]blobs.Entry, []makefile.Symlink, error) {
	kept := make([]blobs.Entry, 0, len(entries))
	symlinks := []makefile.Symlink{}
	for _, entry := range entries {
		readPath, err := blobs.ReadPath(e.fs, entry, stockRoot)
		if err != nil {
			return nil, nil, err
		}
		info, err := e.fs.Lstat(readPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil, fmt.Errorf("%w: blob %s", ErrNotFound, entry.SrcPath)
			}
			return nil, nil, fmt.Errorf("failed to stat %s: %w", readPath, err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			kept = append(kept, entry)
			continue
		}

		target, err := e.fs.Readlink(readPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read link %s: %w", readPath, err)
		}
		symlinks = append(symlinks, makefile.Symlink{
			LinkPartition: entry.Partition,
			LinkSubpath:   entry.Path,
			TargetPath:    target,
		})
	}
	return kept, symlinks, nil
}

func logConflicts(log *slog.Logger, conflicts []planner.Conflict) {
	for _, c := range conflicts {
		switch c.Resolution {
		case planner.ResolutionEject:
			log.Warn("library exists in another partition, copying instead", "path", c.Path, "module", c.Existing)
		case planner.ResolutionRename:
			log.Debug("renamed module", "path", c.Path, "from", c.Existing, "to", c.Incoming)
		}
	}
}

// writeTree writes the vendor tree of a planned run under req.OutDir.
func (e *Engine) writeTree(ctx context.Context, log *slog.Logger, req *GenerateRequest, stockRoot string, plan *planner.Plan, result *GenerateResult) error {
	if req.OutDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrValidation)
	}
	outDir, err := filepath.Abs(req.OutDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	cfg := req.Config
	propRel := cfg.ProprietaryDir()
	vendorRel := filepath.ToSlash(filepath.Dir(propRel))

	packages := append(plan.Packages(), result.AlreadyBuilt...)
	if len(result.Symlinks) > 0 {
		packages = append(packages, makefile.SymlinkModule)
	}
	sort.Strings(packages)

	files := []struct {
		rel     string
		content string
	}{
		{vendorRel + "/" + FileListName, blobs.SerializeFileList(result.Entries)},
		{propRel + "/" + BlueprintName, soong.SerializeBlueprint(plan.Modules, true)},
		{vendorRel + "/" + DeviceMakefileName, makefile.SerializeDeviceMakefile(makefile.DeviceMakefile{
			Namespaces:   append([]string{propRel}, cfg.Platform.Namespaces...),
			CopyFiles:    result.CopyRules,
			Packages:     packages,
			MissingPaths: result.StillMissing,
		})},
		{vendorRel + "/" + ModulesMakefileName, makefile.SerializeModulesMakefile(makefile.ModulesMakefile{
			Device:   cfg.Device.Name,
			Vendor:   cfg.Device.Vendor,
			Symlinks: result.Symlinks,
		})},
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(outDir, filepath.FromSlash(f.rel))
		if err := e.fs.AtomicWrite(path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.rel, err)
		}
		result.Written = append(result.Written, f.rel)
	}

	if !cfg.Generate.Files {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stats, err := blobs.CopyBlobs(e.fs, e.hasher, result.Entries, stockRoot, filepath.Join(outDir, filepath.FromSlash(propRel)))
	if err != nil {
		return fmt.Errorf("failed to copy blobs: %w", err)
	}
	result.CopyStats = stats
	log.Info("copied blobs",
		"copied", stats.Copied,
		"patched", stats.Patched,
		"unchanged", stats.Unchanged,
		"symlinks", len(stats.Symlinks))
	return nil
}
