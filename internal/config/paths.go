// Package config manages vendorgen configuration and filesystem paths.
//
// Device configs are YAML files describing one device, or a list of device
// config files. Paths locate vendorgen's own data, which can be customized
// via environment variables. The default root is ~/.vendorgen/ containing
// state/ snapshots of reference builds.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by vendorgen.
type Paths struct {
	// Root is the base directory for all vendorgen data (default: ~/.vendorgen)
	Root string

	// States is the directory containing reference build snapshots
	States string
}

// DefaultPaths returns the default paths for vendorgen.
// Paths can be overridden with environment variables:
// - VENDORGEN_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("VENDORGEN_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".vendorgen")
	}

	return &Paths{
		Root:   root,
		States: filepath.Join(root, "state"),
	}, nil
}

// StatePath returns the snapshot file of a device.
func (p *Paths) StatePath(device string) string {
	return filepath.Join(p.States, device+".json.zst")
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.States,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
