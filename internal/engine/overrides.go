package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/danieljhkim/vendorgen/internal/soong"
)

// ResolveOverrides resolves a list of installed paths against the reference
// build's module index.
func (e *Engine) ResolveOverrides(ctx context.Context, req *ResolveOverridesRequest) (*ResolveOverridesResult, error) {
	if req.OverridesPath == "" || req.ModuleInfoPath == "" {
		return nil, fmt.Errorf("%w: overrides list and module info are required", ErrValidation)
	}

	data, err := e.fs.ReadFile(req.OverridesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides list: %w", err)
	}
	paths := parsePathList(string(data))

	index, err := soong.LoadModuleIndex(e.fs, req.ModuleInfoPath)
	if err != nil {
		return nil, err
	}
	if req.ProprietaryDir != "" {
		soong.RemoveSelfModules(index, req.ProprietaryDir)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	overrides := soong.FindOverrideModules(paths, index)
	e.logger.Info("resolved overrides",
		"paths", len(paths),
		"modules", len(overrides.Modules),
		"missing_paths", len(overrides.MissingPaths))
	return &ResolveOverridesResult{OverrideModules: overrides}, nil
}

// parsePathList returns the non-empty, non-comment lines of a list.
func parsePathList(list string) []string {
	var paths []string
	for _, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	return paths
}
