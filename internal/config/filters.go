package config

import (
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"
)

// FilterMode selects whether matching values are kept or dropped.
type FilterMode string

const (
	FilterInclude FilterMode = "include"
	FilterExclude FilterMode = "exclude"
)

// Filters is a set of string matchers. In include mode only matching values
// are kept; in exclude mode matching values are dropped.
type Filters struct {
	Mode      FilterMode `yaml:"mode"`
	Match     []string   `yaml:"match"`
	Prefix    []string   `yaml:"prefix"`
	Suffix    []string   `yaml:"suffix"`
	Substring []string   `yaml:"substring"`
	Regex     []string   `yaml:"regex"`

	compiled []*regexp.Regexp
}

// Compile validates the mode and compiles the regular expressions. It must be
// called before Keep when Regex is set.
func (f *Filters) Compile() error {
	switch f.Mode {
	case FilterInclude, FilterExclude:
	default:
		return fmt.Errorf("invalid filter mode %q", f.Mode)
	}

	f.compiled = make([]*regexp.Regexp, 0, len(f.Regex))
	for _, pattern := range f.Regex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid filter regex %q: %w", pattern, err)
		}
		f.compiled = append(f.compiled, re)
	}
	return nil
}

// Matches reports whether any matcher accepts value.
func (f *Filters) Matches(value string) bool {
	if slices.Contains(f.Match, value) {
		return true
	}
	for _, p := range f.Prefix {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	for _, s := range f.Suffix {
		if strings.HasSuffix(value, s) {
			return true
		}
	}
	for _, s := range f.Substring {
		if strings.Contains(value, s) {
			return true
		}
	}
	for _, re := range f.compiled {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// Keep applies the filter mode to Matches.
func (f *Filters) Keep(value string) bool {
	if f.Mode == FilterInclude {
		return f.Matches(value)
	}
	return !f.Matches(value)
}

// Empty reports whether no matchers are configured.
func (f *Filters) Empty() bool {
	return len(f.Match)+len(f.Prefix)+len(f.Suffix)+len(f.Substring)+len(f.Regex) == 0
}

// Directories directly under a partition root that never hold blobs.
var ignoredDirs = map[string]bool{
	"fonts": true,
	"media": true,
}

// Extensions of build byproducts regenerated by the build.
var ignoredExts = map[string]bool{
	".art":  true,
	".odex": true,
	".vdex": true,
	".prof": true,
}

// Prefixes of paths handled outside the blob pipeline.
var ignoredPrefixes = []string{
	"system/overlay/",
	"system_ext/overlay/",
	"product/overlay/",
	"vendor/overlay/",
	"vendor/lib/modules",
	"vendor_dlkm/",
	"odm/lib/modules",
	"odm_dlkm/",
}

// BuiltinKeep drops combined paths that are never blobs: resources, dexopt
// artifacts, overlays and kernel modules.
func BuiltinKeep(combinedPath string) bool {
	parts := strings.Split(combinedPath, "/")
	if len(parts) > 1 && ignoredDirs[parts[1]] {
		return false
	}
	if ignoredExts[path.Ext(combinedPath)] {
		return false
	}
	for _, p := range ignoredPrefixes {
		if strings.HasPrefix(combinedPath, p) {
			return false
		}
	}
	return true
}
