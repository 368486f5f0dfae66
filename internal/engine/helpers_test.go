package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/vendorgen/internal/config"
	"github.com/danieljhkim/vendorgen/internal/fsops"
	"github.com/danieljhkim/vendorgen/internal/hash"
	"github.com/danieljhkim/vendorgen/internal/logging"
	"github.com/danieljhkim/vendorgen/internal/state"
)

// mockStateStore keeps snapshots in memory.
type mockStateStore struct {
	states map[string]*state.SystemState
}

func newMockStateStore() *mockStateStore {
	return &mockStateStore{states: make(map[string]*state.SystemState)}
}

func (m *mockStateStore) Load(path string) (*state.SystemState, error) {
	s, ok := m.states[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return s, nil
}

func (m *mockStateStore) Save(path string, s *state.SystemState) error {
	m.states[path] = s
	return nil
}

func newTestEngine(store state.StateStore) *Engine {
	e := New(fsops.NewRealFS(), hash.NewSHA256Hasher(), store, logging.Discard())
	e.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	return e
}

// writeTree creates files under root. Paths are slash separated.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

func symlink(t *testing.T, root, rel, target string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", rel, err)
	}
	if err := os.Symlink(target, path); err != nil {
		t.Fatalf("failed to symlink %s: %v", rel, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func testConfig(t *testing.T) *config.DeviceConfig {
	t.Helper()
	cfg, err := config.NewDeviceConfig("raven", "acme")
	if err != nil {
		t.Fatalf("NewDeviceConfig failed: %v", err)
	}
	return cfg
}

const moduleInfoJSON = `{
  "libbuilt": {
    "class": ["SHARED_LIBRARIES"],
    "path": ["hardware/acme/libbuilt"],
    "installed": ["out/target/product/raven/vendor/lib64/libbuilt.so"],
    "module_name": "libbuilt"
  },
  "libstale": {
    "class": ["SHARED_LIBRARIES"],
    "path": ["vendor/acme/raven/proprietary"],
    "installed": ["out/target/product/raven/vendor/lib64/libfoo.so"],
    "module_name": "libstale"
  }
}`

// stockFixture lays out a stock system with a vendor partition worth of
// blobs and a system partition the reference lacks.
func stockFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"vendor/lib/libfoo.so":              "foo32",
		"vendor/lib64/libfoo.so":            "foo64",
		"vendor/lib64/libref.so":            "ref",
		"vendor/lib64/libbuilt.so":          "built",
		"vendor/etc/permissions/bar.xml":    `<?xml version="2.0" encoding="utf-8"?><permissions/>`,
		"vendor/bin/bazd":                   "baz",
		"vendor/firmware/a.bin":             "fw",
		"vendor/fonts/ignored.ttf":          "font",
		"vendor/lib64/libfoo.odex":          "odex",
		"system/system/app/Stock/Stock.apk": "apk",
	})
	symlink(t, root, "vendor/etc/link.conf", "/vendor/etc/real.conf")
	return root
}

func referenceFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"vendor/lib64/libref.so": "ref",
		"module-info.json":       moduleInfoJSON,
	})
	return root
}
