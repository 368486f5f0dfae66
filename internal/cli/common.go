package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/vendorgen/internal/config"
	"github.com/danieljhkim/vendorgen/internal/engine"
	"github.com/danieljhkim/vendorgen/internal/fsops"
	"github.com/danieljhkim/vendorgen/internal/hash"
	"github.com/danieljhkim/vendorgen/internal/logging"
	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/state"
)

// session holds what a command needs to run and report.
type session struct {
	eng    *engine.Engine
	fs     fsops.FS
	paths  *config.Paths
	logger *slog.Logger
	out    io.Writer
	json   bool
}

// newSession creates an engine with real implementations of all dependencies.
// Logs go to stderr so stdout stays parseable.
func newSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	mode := logging.ModeCLI
	if opts.jsonOutput {
		mode = logging.ModeJSON
	}
	logger := logging.New(mode, cmd.ErrOrStderr(), level)

	fs := fsops.NewRealFS()
	hasher := hash.NewSHA256Hasher()
	stateStore := state.NewFileStateStore(fs, hasher)

	return &session{
		eng:    engine.New(fs, hasher, stateStore, logger),
		fs:     fs,
		paths:  paths,
		logger: logger,
		out:    cmd.OutOrStdout(),
		json:   opts.jsonOutput,
	}, nil
}

// moduleInfoIn returns the module-info.json of a product output directory,
// or "" if it has none.
func (s *session) moduleInfoIn(productOut string) string {
	if productOut == "" {
		return ""
	}
	candidate := filepath.Join(productOut, "module-info.json")
	if exists, err := s.fs.Exists(candidate); err != nil || !exists {
		return ""
	}
	return candidate
}

// loadSingleConfig loads a config that must describe exactly one device.
func loadSingleConfig(path string) (*config.DeviceConfig, error) {
	configs, err := config.LoadDeviceConfigs(path)
	if err != nil {
		return nil, err
	}
	if len(configs) != 1 {
		return nil, fmt.Errorf("%s describes %d devices, expected one", path, len(configs))
	}
	return configs[0], nil
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatError formats an error for display. Classification failures name
// the offending path and rule.
func FormatError(err error) string {
	var classErr *blobs.ClassificationError
	if errors.As(err, &classErr) {
		return errorColor.Sprintf("Error: %v\n  path: %s\n  rule: %s", err, classErr.Path, classErr.Rule)
	}
	return errorColor.Sprintf("Error: %v", err)
}
