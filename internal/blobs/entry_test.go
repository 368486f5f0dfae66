package blobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/vendorgen/internal/partition"
)

func TestNewEntry(t *testing.T) {
	e := NewEntry(partition.Vendor, "lib64/hw/foo.so")
	assert.Equal(t, "vendor/lib64/hw/foo.so", e.SrcPath)
	assert.Equal(t, "vendor/lib64/hw/foo.so", e.CombinedPath())
	assert.Equal(t, ".so", e.Ext())
	assert.Equal(t, "foo.so", e.Filename())
	assert.Equal(t, []string{"lib64", "hw", "foo.so"}, e.PathParts())

	sys := NewEntry(partition.System, "bin/tool")
	assert.Equal(t, "bin/tool", sys.SrcPath)
	assert.Equal(t, "system/bin/tool", sys.CombinedPath())
}

func TestEntryFromCombinedPath(t *testing.T) {
	e, err := EntryFromCombinedPath("product/priv-app/A/A.apk")
	require.NoError(t, err)
	assert.Equal(t, partition.Product, e.Partition)
	assert.Equal(t, "priv-app/A/A.apk", e.Path)
	assert.Equal(t, "product/priv-app/A/A.apk", e.SrcPath)

	_, err = EntryFromCombinedPath("nonsense")
	assert.Error(t, err)

	sys, err := EntryFromCombinedPath("system/system_ext/bin/x")
	assert.ErrorIs(t, err, ErrShadowedPartition)
	assert.Empty(t, sys.SrcPath)

	// A nested "system" directory doesn't collide with any partition
	nested, err := EntryFromCombinedPath("system/system/bin/x")
	require.NoError(t, err)
	assert.Equal(t, "system/bin/x", nested.SrcPath)
}

func TestNeedsModuleBackend(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{name: "shared object", entry: NewEntry(partition.Vendor, "lib64/libfoo.so"), want: true},
		{name: "binary without extension", entry: NewEntry(partition.Vendor, "bin/hw/daemon"), want: true},
		{name: "script in bin", entry: NewEntry(partition.Vendor, "bin/init.sh"), want: true},
		{name: "app", entry: NewEntry(partition.Product, "app/A/A.apk"), want: true},
		{name: "jar", entry: NewEntry(partition.SystemExt, "framework/x.jar"), want: true},
		{name: "vintf manifest", entry: NewEntry(partition.Vendor, "etc/vintf/manifest/foo.xml"), want: true},
		{name: "etc xml", entry: NewEntry(partition.Vendor, "etc/permissions/p.xml"), want: true},
		{name: "apex", entry: NewEntry(partition.Vendor, "apex/com.vendor.x.apex"), want: true},
		{name: "plain config", entry: NewEntry(partition.Vendor, "etc/init/foo.rc"), want: false},
		{name: "xml outside etc", entry: NewEntry(partition.Vendor, "firmware/cfg.xml"), want: false},
		{name: "firmware blob", entry: NewEntry(partition.Vendor, "firmware/a.bin"), want: false},
		{name: "dsp blob", entry: NewEntry(partition.Vendor, "dsp/cdsp/a.so.1"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsModuleBackend(tt.entry, tt.entry.Ext()))
		})
	}
}

func TestNeedsModuleBackendPrecedence(t *testing.T) {
	// disableSoong beats everything, including named dependencies
	e := NewEntry(partition.Vendor, "lib64/libfoo.so")
	e.DisableSoong = true
	e.IsNamedDependency = true
	assert.False(t, NeedsModuleBackend(e, e.Ext()))

	// named dependency forces the module backend for otherwise-copied files
	rc := NewEntry(partition.Vendor, "etc/init/foo.rc")
	rc.IsNamedDependency = true
	assert.True(t, NeedsModuleBackend(rc, rc.Ext()))

	// presigned never changes classification
	cfg := NewEntry(partition.Vendor, "etc/a.conf")
	cfg.IsPresigned = true
	assert.False(t, NeedsModuleBackend(cfg, cfg.Ext()))
}
