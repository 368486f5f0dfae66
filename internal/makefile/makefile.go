// Package makefile renders the Make side of a vendor tree: PRODUCT_COPY_FILES
// rules for blobs that don't need a module, the device makefile that pulls in
// packages and namespaces, and build-time symlink declarations.
package makefile

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/partition"
)

// Header is the first line of every generated makefile.
const Header = "# Generated by vendorgen; do not edit"

const contSeparator = " \\\n    "

// CopyRule copies one file from the vendor tree into the product output.
type CopyRule struct {
	// Src is relative to the build root
	Src string `json:"src"`

	// Dest is a make expression rooted at the partition output variable
	Dest string `json:"dest"`
}

// String formats the rule as a PRODUCT_COPY_FILES item.
func (r CopyRule) String() string {
	return r.Src + ":" + r.Dest
}

// PartitionOutPath returns the make expression for a path inside a partition
// of the product output.
func PartitionOutPath(p partition.Partition, subPath string) string {
	return fmt.Sprintf("$(TARGET_COPY_OUT_%s)/%s", strings.ToUpper(string(p)), subPath)
}

// BlobToFileCopy builds the copy rule for an entry stored under proprietaryDir.
func BlobToFileCopy(entry blobs.Entry, proprietaryDir string) CopyRule {
	return CopyRule{
		Src:  path.Join(proprietaryDir, entry.SrcPath),
		Dest: PartitionOutPath(entry.Partition, entry.Path),
	}
}

// DeviceMakefile is the product makefile included by the device tree.
type DeviceMakefile struct {
	Namespaces []string
	CopyFiles  []CopyRule
	Packages   []string

	// MissingPaths are listed as comments for the operator
	MissingPaths []string
}

// SerializeDeviceMakefile renders a DeviceMakefile. Empty sections are omitted.
func SerializeDeviceMakefile(mk DeviceMakefile) string {
	blocks := []string{Header}

	blocks = addContBlock(blocks, "PRODUCT_SOONG_NAMESPACES", mk.Namespaces)

	copyFiles := make([]string, len(mk.CopyFiles))
	for i, rule := range mk.CopyFiles {
		copyFiles[i] = rule.String()
	}
	blocks = addContBlock(blocks, "PRODUCT_COPY_FILES", copyFiles)
	blocks = addContBlock(blocks, "PRODUCT_PACKAGES", mk.Packages)

	if comment := MissingPathsComment(mk.MissingPaths); comment != "" {
		blocks = append(blocks, comment)
	}
	return finishBlocks(blocks)
}

// MissingPathsComment lists override paths that no module provides.
func MissingPathsComment(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	lines := make([]string, 0, len(paths)+1)
	lines = append(lines, "# Missing paths:")
	for _, p := range paths {
		lines = append(lines, "# "+p)
	}
	return strings.Join(lines, "\n")
}

// Symlink is a link created in the product output at build time.
type Symlink struct {
	LinkPartition partition.Partition `json:"linkPartition"`
	LinkSubpath   string              `json:"linkSubpath"`
	TargetPath    string              `json:"targetPath"`
}

// ModulesMakefile is the Android.mk of a vendor tree.
type ModulesMakefile struct {
	Device   string
	Vendor   string
	Symlinks []Symlink
}

// SymlinkModule is the module that creates all declared symlinks.
const SymlinkModule = "device_symlinks"

// SerializeModulesMakefile renders the Android.mk, guarded by the device
// name so other devices sharing the tree are unaffected.
func SerializeModulesMakefile(mk ModulesMakefile) string {
	blocks := []string{
		Header,
		"LOCAL_PATH := $(call my-dir)",
		fmt.Sprintf("ifeq ($(TARGET_DEVICE),%s)", mk.Device),
	}

	if len(mk.Symlinks) > 0 {
		mkdirs := make(map[string]struct{})
		var links []string
		for _, link := range mk.Symlinks {
			dest := fmt.Sprintf("$(PRODUCT_OUT)/%s/%s", link.LinkPartition, link.LinkSubpath)
			mkdirs[fmt.Sprintf("mkdir -p %s;", path.Dir(dest))] = struct{}{}
			links = append(links, fmt.Sprintf("ln -sf %s %s;", link.TargetPath, dest))
		}
		dirs := make([]string, 0, len(mkdirs))
		for d := range mkdirs {
			dirs = append(dirs, d)
		}
		sort.Strings(dirs)

		blocks = append(blocks, fmt.Sprintf(`include $(CLEAR_VARS)
LOCAL_MODULE := %s
LOCAL_MODULE_CLASS := ETC
LOCAL_MODULE_TAGS := optional
LOCAL_MODULE_OWNER := %s
LOCAL_MODULE_PATH := $(TARGET_OUT_VENDOR_ETC)
LOCAL_MODULE_STEM := .%s
LOCAL_SRC_FILES := Android.mk
LOCAL_POST_INSTALL_CMD := \
    %s \
    %s \
    rm -f $(TARGET_OUT_VENDOR_ETC)/.%s
include $(BUILD_PREBUILT)`,
			SymlinkModule, mk.Vendor, SymlinkModule,
			strings.Join(dirs, contSeparator),
			strings.Join(links, contSeparator),
			SymlinkModule))
	}

	blocks = append(blocks, "endif")
	return finishBlocks(blocks)
}

func addContBlock(blocks []string, variable string, items []string) []string {
	if len(items) == 0 {
		return blocks
	}
	return append(blocks, variable+" +="+contSeparator+strings.Join(items, contSeparator))
}

func finishBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n") + "\n"
}
