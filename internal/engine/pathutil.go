package engine

import (
	"fmt"
	"path/filepath"
)

// resolveDir cleans a user-provided directory path and checks it exists.
func (e *Engine) resolveDir(userPath, what string) (string, error) {
	if userPath == "" {
		return "", fmt.Errorf("%w: %s is required", ErrValidation, what)
	}

	abs, err := filepath.Abs(userPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s %q: %w", what, userPath, err)
	}

	exists, err := e.fs.Exists(abs)
	if err != nil {
		return "", fmt.Errorf("failed to check %s %q: %w", what, abs, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %s %q", ErrNotFound, what, abs)
	}
	return abs, nil
}

// installedPath is where the reference build installs a combined path,
// as recorded in module-info.json.
func installedPath(device, combinedPath string) string {
	return "out/target/product/" + device + "/" + combinedPath
}
