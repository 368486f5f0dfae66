package soong

import (
	"sort"
)

// OverrideModules is the result of matching paths against a module index.
type OverrideModules struct {
	// Modules are the names to add to the package list, sorted. Names built
	// for only one architecture carry a ":32" or ":64" qualifier.
	Modules []string `json:"modules"`

	// BuiltPaths were matched to a module
	BuiltPaths []string `json:"builtPaths"`

	// MissingPaths have no module and must be shipped as blobs
	MissingPaths []string `json:"missingPaths"`
}

type indexedModule struct {
	key  string
	info ModuleInfo
}

// variantArch reports the architecture a module key is restricted to, or ""
// for keys that cover the default multilib. The build system names
// single-arch variants "<module_name>_32" and "<module_name>_64".
func variantArch(key string, info ModuleInfo) Multilib {
	switch key {
	case info.ModuleName + "_32":
		return Multilib32
	case info.ModuleName + "_64":
		return Multilib64
	}
	return ""
}

// FindOverrideModules resolves installed output paths to the modules of the
// reference build that already produce them.
func FindOverrideModules(paths []string, index ModuleIndex) OverrideModules {
	byPath := make(map[string]indexedModule)
	for _, key := range index.Keys() {
		info := index[key]
		for _, p := range info.Installed {
			if _, ok := byPath[p]; !ok {
				byPath[p] = indexedModule{key: key, info: info}
			}
		}
	}

	built := make(map[string]struct{})
	only32 := make(map[string]struct{})
	only64 := make(map[string]struct{})
	result := OverrideModules{
		BuiltPaths:   []string{},
		MissingPaths: []string{},
	}

	for _, p := range paths {
		m, ok := byPath[p]
		if !ok {
			result.MissingPaths = append(result.MissingPaths, p)
			continue
		}

		result.BuiltPaths = append(result.BuiltPaths, p)
		switch variantArch(m.key, m.info) {
		case Multilib32:
			only32[m.info.ModuleName] = struct{}{}
		case Multilib64:
			only64[m.info.ModuleName] = struct{}{}
		default:
			built[m.info.ModuleName] = struct{}{}
		}
	}

	for name := range only32 {
		if _, ok := only64[name]; ok {
			built[name] = struct{}{}
			continue
		}
		built[name+":"+string(Multilib32)] = struct{}{}
	}
	for name := range only64 {
		if _, ok := only32[name]; ok {
			continue
		}
		built[name+":"+string(Multilib64)] = struct{}{}
	}

	result.Modules = make([]string, 0, len(built))
	for name := range built {
		result.Modules = append(result.Modules, name)
	}
	sort.Strings(result.Modules)
	sort.Strings(result.BuiltPaths)
	sort.Strings(result.MissingPaths)
	return result
}
