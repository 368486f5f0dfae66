package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigType is the top-level kind of a config file.
type ConfigType string

const (
	TypeDevice     ConfigType = "device"
	TypeDeviceList ConfigType = "device-list"
)

// ErrInvalidConfig indicates a config that loads but doesn't validate.
var ErrInvalidConfig = errors.New("invalid config")

// DeviceConfig is the merged configuration of one device.
type DeviceConfig struct {
	Device   DeviceInfo     `yaml:"device"`
	Platform PlatformConfig `yaml:"platform"`
	Generate GenerateConfig `yaml:"generate"`
	Filters  FilterGroups   `yaml:"filters"`

	// Path is the file the config was loaded from
	Path string `yaml:"-"`
}

// DeviceInfo identifies the device and the vendor that owns its blobs.
type DeviceInfo struct {
	Name   string `yaml:"name"`
	Vendor string `yaml:"vendor"`
}

// PlatformConfig describes the platform tree the vendor tree is built in.
type PlatformConfig struct {
	// Namespaces are extra Soong namespaces the device makefile imports
	Namespaces []string `yaml:"namespaces"`
}

// GenerateConfig toggles optional generation steps.
type GenerateConfig struct {
	// Overrides resolves blobs against modules of the reference build
	Overrides bool `yaml:"overrides"`

	// Presigned marks APKs matched by the presigned filter
	Presigned bool `yaml:"presigned"`

	// Files copies the blobs into the vendor tree
	Files bool `yaml:"files"`
}

// FilterGroups holds the filters applied at each stage.
type FilterGroups struct {
	// Files selects which combined paths are considered at all
	Files Filters `yaml:"files"`

	// Presigned selects APK source paths that keep their signature
	Presigned Filters `yaml:"presigned"`

	// DepFiles selects source paths that are named dependencies
	DepFiles Filters `yaml:"dep_files"`

	// Partitions selects which partitions are diffed
	Partitions Filters `yaml:"partitions"`
}

// ProprietaryDir is the vendor tree directory relative to the build root.
func (c *DeviceConfig) ProprietaryDir() string {
	return fmt.Sprintf("vendor/%s/%s/proprietary", c.Device.Vendor, c.Device.Name)
}

// Validate checks required fields and compiles filters.
func (c *DeviceConfig) Validate() error {
	for field, value := range map[string]string{
		"device.name":   c.Device.Name,
		"device.vendor": c.Device.Vendor,
	} {
		if value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, field)
		}
		if strings.ContainsAny(value, "/\\") || value == "." || value == ".." {
			return fmt.Errorf("%w: %s %q is not a valid directory name", ErrInvalidConfig, field, value)
		}
	}

	groups := map[string]*Filters{
		"files":      &c.Filters.Files,
		"presigned":  &c.Filters.Presigned,
		"dep_files":  &c.Filters.DepFiles,
		"partitions": &c.Filters.Partitions,
	}
	for name, f := range groups {
		if err := f.Compile(); err != nil {
			return fmt.Errorf("%w: filters.%s: %v", ErrInvalidConfig, name, err)
		}
	}
	return nil
}

func emptyFilters(mode FilterMode) map[string]any {
	return map[string]any{
		"mode":      string(mode),
		"match":     []any{},
		"prefix":    []any{},
		"suffix":    []any{},
		"substring": []any{},
		"regex":     []any{},
	}
}

func defaultConfig() map[string]any {
	return map[string]any{
		"type": string(TypeDevice),
		"platform": map[string]any{
			"namespaces": []any{},
		},
		"generate": map[string]any{
			"overrides": true,
			"presigned": true,
			"files":     true,
		},
		"filters": map[string]any{
			"files":      emptyFilters(FilterExclude),
			"presigned":  emptyFilters(FilterInclude),
			"dep_files":  emptyFilters(FilterInclude),
			"partitions": emptyFilters(FilterExclude),
		},
	}
}

// mergeValues overlays b onto a. Maps merge recursively, lists concatenate
// and anything else is replaced.
func mergeValues(a, b any) any {
	if b == nil {
		return a
	}

	switch bv := b.(type) {
	case map[string]any:
		av, ok := a.(map[string]any)
		if !ok {
			return bv
		}
		for k, v := range bv {
			av[k] = mergeValues(av[k], v)
		}
		return av
	case []any:
		if av, ok := a.([]any); ok {
			return append(av, bv...)
		}
		return bv
	}
	return b
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// loadOverlays appends path and everything it includes to overlays, includes
// first, so later overlays take precedence.
func loadOverlays(path string, overlays []map[string]any, visiting map[string]bool) ([]map[string]any, error) {
	if visiting[path] {
		return nil, fmt.Errorf("%w: include cycle at %s", ErrInvalidConfig, path)
	}
	visiting[path] = true
	defer delete(visiting, path)

	doc, err := readYAML(path)
	if err != nil {
		return nil, err
	}

	if raw, ok := doc["includes"]; ok {
		includes, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: includes in %s must be a list", ErrInvalidConfig, path)
		}
		for _, inc := range includes {
			rel, ok := inc.(string)
			if !ok {
				return nil, fmt.Errorf("%w: include %v in %s is not a path", ErrInvalidConfig, inc, path)
			}
			incPath := rel
			if !filepath.IsAbs(incPath) {
				incPath = filepath.Join(filepath.Dir(path), rel)
			}
			overlays, err = loadOverlays(incPath, overlays, visiting)
			if err != nil {
				return nil, err
			}
		}
		delete(doc, "includes")
	}

	return append(overlays, doc), nil
}

// loadMerged loads a config file with its includes on top of the defaults.
func loadMerged(path string) (map[string]any, error) {
	overlays, err := loadOverlays(path, nil, make(map[string]bool))
	if err != nil {
		return nil, err
	}

	merged := defaultConfig()
	for _, overlay := range overlays {
		merged = mergeValues(merged, overlay).(map[string]any)
	}
	return merged, nil
}

// decodeStrict converts a merged document into out, rejecting unknown keys.
func decodeStrict(doc map[string]any, out any, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode merged config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

// NewDeviceConfig returns the default config of a device.
func NewDeviceConfig(name, vendor string) (*DeviceConfig, error) {
	doc := defaultConfig()
	doc["device"] = map[string]any{"name": name, "vendor": vendor}
	return parseDevice(doc, "")
}

func loadDevice(path string) (*DeviceConfig, error) {
	merged, err := loadMerged(path)
	if err != nil {
		return nil, err
	}
	return parseDevice(merged, path)
}

func parseDevice(merged map[string]any, path string) (*DeviceConfig, error) {
	if t, _ := merged["type"].(string); t != string(TypeDevice) {
		return nil, fmt.Errorf("%w: %s has type %q, expected %q", ErrInvalidConfig, path, t, TypeDevice)
	}
	delete(merged, "type")

	var cfg DeviceConfig
	if err := decodeStrict(merged, &cfg, path); err != nil {
		return nil, err
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

type deviceList struct {
	Devices []string `yaml:"devices"`
}

// LoadDeviceConfigs loads a device config, or every device of a device-list
// config. Device paths in a list are relative to the list file.
func LoadDeviceConfigs(path string) ([]*DeviceConfig, error) {
	merged, err := loadMerged(path)
	if err != nil {
		return nil, err
	}

	t, _ := merged["type"].(string)
	switch ConfigType(t) {
	case TypeDevice:
		cfg, err := parseDevice(merged, path)
		if err != nil {
			return nil, err
		}
		return []*DeviceConfig{cfg}, nil

	case TypeDeviceList:
		var list deviceList
		if err := decodeStrict(map[string]any{"devices": merged["devices"]}, &list, path); err != nil {
			return nil, err
		}
		if len(list.Devices) == 0 {
			return nil, fmt.Errorf("%w: %s lists no devices", ErrInvalidConfig, path)
		}

		configs := make([]*DeviceConfig, 0, len(list.Devices))
		for _, dev := range list.Devices {
			devPath := dev
			if !filepath.IsAbs(devPath) {
				devPath = filepath.Join(filepath.Dir(path), dev)
			}
			cfg, err := loadDevice(devPath)
			if err != nil {
				return nil, err
			}
			configs = append(configs, cfg)
		}
		return configs, nil
	}

	return nil, fmt.Errorf("%w: %s has unknown type %q", ErrInvalidConfig, path, t)
}
