package soong

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/partition"
)

func TestSerializeDualArchLibrary(t *testing.T) {
	lib32 := blobs.NewEntry(partition.Vendor, "lib/libfoo.so")
	lib64 := blobs.NewEntry(partition.Vendor, "lib64/libfoo.so")
	m := synth(t, lib64, lib32)

	want := `cc_prebuilt_library_shared {
    name: "libfoo",
    owner: "acme",
    strip: {
        none: true,
    },
    target: {
        android_arm: {
            srcs: ["vendor/lib/libfoo.so"],
        },
        android_arm64: {
            srcs: ["vendor/lib64/libfoo.so"],
        },
    },
    compile_multilib: "both",
    check_elf_files: false,
    prefer: true,
    soc_specific: true,
}`
	assert.Equal(t, want, SerializeModule(m))
}

func TestSerializeApp(t *testing.T) {
	m := synth(t, blobs.NewEntry(partition.Product, "priv-app/Foo/Foo.apk"))

	want := `android_app_import {
    name: "Foo",
    owner: "acme",
    apk: "product/priv-app/Foo/Foo.apk",
    certificate: "platform",
    privileged: true,
    dex_preopt: {
        enabled: false,
    },
    product_specific: true,
}`
	assert.Equal(t, want, SerializeModule(m))
}

func TestSerializeBlueprint(t *testing.T) {
	modules := []Module{
		synth(t, blobs.NewEntry(partition.Vendor, "etc/sub/foo.xml")),
		synth(t, blobs.NewEntry(partition.System, "framework/bar.jar")),
	}

	bp := SerializeBlueprint(modules, true)
	require.True(t, strings.HasPrefix(bp, BlueprintHeader+"\n\nsoong_namespace {\n}\n"))
	assert.Contains(t, bp, "prebuilt_etc_xml {\n    name: \"foo\",")
	assert.Contains(t, bp, "    sub_dir: \"sub\",\n")
	assert.Contains(t, bp, "dex_import {\n    name: \"bar\",\n    owner: \"acme\",\n    jars: [\"framework/bar.jar\"],\n}\n")

	plain := SerializeBlueprint(nil, false)
	assert.Equal(t, BlueprintHeader+"\n", plain)
}
