package soong

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"github.com/danieljhkim/vendorgen/internal/fsops"
)

// ModuleInfo is one record of the reference build's module-info.json.
type ModuleInfo struct {
	Class      []string `json:"class"`
	Path       []string `json:"path"`
	Installed  []string `json:"installed"`
	ModuleName string   `json:"module_name"`
}

// ModuleIndex maps module keys to their build records. Keys may carry an
// architecture suffix when the build produces separate 32 and 64-bit variants.
type ModuleIndex map[string]ModuleInfo

// ParseModuleIndex decodes module-info.json.
func ParseModuleIndex(data []byte) (ModuleIndex, error) {
	var index ModuleIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse module info: %w", err)
	}
	if index == nil {
		index = ModuleIndex{}
	}
	return index, nil
}

// LoadModuleIndex reads and parses a module-info.json file.
func LoadModuleIndex(fs fsops.FS, path string) (ModuleIndex, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module info %s: %w", path, err)
	}
	return ParseModuleIndex(data)
}

// RemoveSelfModules drops modules defined in proprietaryDir, which are the
// ones a previous generation run produced.
func RemoveSelfModules(index ModuleIndex, proprietaryDir string) {
	for key, info := range index {
		if slices.Contains(info.Path, proprietaryDir) {
			delete(index, key)
		}
	}
}

// Keys returns the module keys in sorted order.
func (idx ModuleIndex) Keys() []string {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
