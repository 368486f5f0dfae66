package planner

import (
	"errors"
	"reflect"
	"testing"

	"github.com/danieljhkim/vendorgen/internal/blobs"
	"github.com/danieljhkim/vendorgen/internal/partition"
	"github.com/danieljhkim/vendorgen/internal/soong"
)

const propDir = "vendor/acme/dev/proprietary"

func entries(p partition.Partition, paths ...string) []blobs.Entry {
	out := make([]blobs.Entry, len(paths))
	for i, path := range paths {
		out[i] = blobs.NewEntry(p, path)
	}
	return out
}

func moduleByName(t *testing.T, plan *Plan, name string) soong.Module {
	t.Helper()
	for _, m := range plan.Modules {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("module %q not in plan: %v", name, plan.Packages())
	return soong.Module{}
}

func TestBuildPlan_Conservation(t *testing.T) {
	in := entries(partition.Vendor, "lib/foo.so", "lib64/foo.so", "etc/bar.xml", "bin/baz")

	plan, err := BuildPlan(in, "acme", propDir)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	if got := plan.Packages(); !reflect.DeepEqual(got, []string{"bar", "baz", "foo"}) {
		t.Errorf("unexpected packages: %v", got)
	}
	if len(plan.Copies) != 0 {
		t.Errorf("expected no copy rules, got %v", plan.Copies)
	}
	if len(plan.Covered) != 1 || plan.Covered[0].SrcPath != "vendor/lib64/foo.so" {
		t.Errorf("expected lib64 twin to be covered, got %v", plan.Covered)
	}

	foo := moduleByName(t, plan, "foo")
	if !foo.IsDualArch() {
		t.Errorf("expected foo to be dual-arch, got %+v", foo.SharedLibrary)
	}
	if bar := moduleByName(t, plan, "bar"); bar.Kind != soong.KindEtcXML {
		t.Errorf("expected bar to be %s, got %s", soong.KindEtcXML, bar.Kind)
	}
	if baz := moduleByName(t, plan, "baz"); baz.Kind != soong.KindExecutable {
		t.Errorf("expected baz to be %s, got %s", soong.KindExecutable, baz.Kind)
	}

	if accounted := len(plan.Modules) + len(plan.Copies) + len(plan.Covered); accounted != len(in) {
		t.Errorf("expected %d entries accounted for, got %d", len(in), accounted)
	}
}

func TestBuildPlan_RenameDeterminism(t *testing.T) {
	orders := [][]string{
		{"bin/x", "etc/x.xml"},
		{"etc/x.xml", "bin/x"},
	}

	for _, order := range orders {
		plan, err := BuildPlan(entries(partition.Vendor, order...), "acme", propDir)
		if err != nil {
			t.Fatalf("BuildPlan failed: %v", err)
		}

		if len(plan.Modules) != 2 {
			t.Fatalf("expected 2 modules, got %d", len(plan.Modules))
		}
		if plan.Modules[0].Name != "x" || plan.Modules[0].Kind != soong.KindExecutable {
			t.Errorf("expected executable x first, got %s %s", plan.Modules[0].Kind, plan.Modules[0].Name)
		}
		if plan.Modules[1].Name != "x__2" || plan.Modules[1].Kind != soong.KindEtcXML {
			t.Errorf("expected etc xml x__2 second, got %s %s", plan.Modules[1].Kind, plan.Modules[1].Name)
		}
		if !plan.HasConflicts() || plan.Conflicts[0].Resolution != ResolutionRename {
			t.Errorf("expected a rename conflict, got %v", plan.Conflicts)
		}
	}
}

func TestBuildPlan_NamedDependencyKeepsName(t *testing.T) {
	in := entries(partition.Vendor, "bin/a/tool", "bin/b/tool")
	in[1].IsNamedDependency = true

	plan, err := BuildPlan(in, "acme", propDir)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	tool := moduleByName(t, plan, "tool")
	if tool.Executable.Srcs[0] != "vendor/bin/b/tool" {
		t.Errorf("expected named dependency to own tool, got %v", tool.Executable.Srcs)
	}
	renamed := moduleByName(t, plan, "tool__2")
	if renamed.Executable.Stem != "tool" {
		t.Errorf("expected renamed module to keep stem tool, got %q", renamed.Executable.Stem)
	}
}

func TestBuildPlan_UniqueNames(t *testing.T) {
	in := entries(partition.Vendor,
		"bin/x", "bin/a/x", "bin/b/x", "etc/x.xml", "etc/a/x.xml",
		"lib/x.so", "lib64/x.so", "framework/x.jar",
	)
	// Occupies the name the first rename would pick
	in = append(in, blobs.NewEntry(partition.Vendor, "bin/x__2"))

	plan, err := BuildPlan(in, "acme", propDir)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, m := range plan.Modules {
		if seen[m.Name] {
			t.Errorf("duplicate module name %s", m.Name)
		}
		seen[m.Name] = true
	}
	if accounted := len(plan.Modules) + len(plan.Copies) + len(plan.Covered); accounted != len(in) {
		t.Errorf("expected %d entries accounted for, got %d", len(in), accounted)
	}
}

func TestBuildPlan_CrossPartitionTwinEjected(t *testing.T) {
	in := append(
		entries(partition.ODM, "lib/libfoo.so", "lib64/libfoo.so"),
		entries(partition.Vendor, "lib64/libfoo.so")...,
	)

	plan, err := BuildPlan(in, "acme", propDir)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	if len(plan.Modules) != 1 {
		t.Fatalf("expected 1 module, got %v", plan.Packages())
	}
	if len(plan.Copies) != 1 || plan.Copies[0].SrcPath != "vendor/lib64/libfoo.so" {
		t.Fatalf("expected vendor library to be ejected, got %v", plan.Copies)
	}

	rules := plan.CopyRules()
	want := propDir + "/vendor/lib64/libfoo.so:$(TARGET_COPY_OUT_VENDOR)/lib64/libfoo.so"
	if rules[0].String() != want {
		t.Errorf("expected rule %s, got %s", want, rules[0].String())
	}

	var ejected bool
	for _, c := range plan.Conflicts {
		if c.Resolution == ResolutionEject && c.Path == "vendor/lib64/libfoo.so" {
			ejected = true
		}
	}
	if !ejected {
		t.Errorf("expected eject conflict, got %v", plan.Conflicts)
	}
}

func TestBuildPlan_RenamedPairStaysMerged(t *testing.T) {
	in := entries(partition.Vendor, "bin/x", "lib/x.so", "lib64/x.so")

	plan, err := BuildPlan(in, "acme", propDir)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	if got := plan.Packages(); !reflect.DeepEqual(got, []string{"x", "x__2"}) {
		t.Fatalf("unexpected packages: %v", got)
	}
	if lib := moduleByName(t, plan, "x__2"); !lib.IsDualArch() {
		t.Errorf("expected x__2 to be dual-arch, got %+v", lib.SharedLibrary)
	}
	if len(plan.Covered) != 1 || plan.Covered[0].SrcPath != "vendor/lib64/x.so" {
		t.Errorf("expected lib64 twin to be covered, got %v", plan.Covered)
	}
}

func TestBuildPlan_SameFilenameOtherDirRenamed(t *testing.T) {
	in := entries(partition.Vendor, "lib/libfoo.so", "lib64/libfoo.so", "lib64/hw/libfoo.so")

	plan, err := BuildPlan(in, "acme", propDir)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	hw := moduleByName(t, plan, "libfoo__2")
	if hw.SharedLibrary.RelativeInstallPath != "hw" {
		t.Errorf("expected hw library to be renamed, got %+v", hw.SharedLibrary)
	}
	if hw.SharedLibrary.Stem != "libfoo" {
		t.Errorf("expected stem libfoo, got %q", hw.SharedLibrary.Stem)
	}
}

func TestBuildPlan_CopyRules(t *testing.T) {
	in := entries(partition.Vendor, "firmware/a.bin", "etc/init/foo.rc")
	in = append(in, blobs.NewEntry(partition.Vendor, "bin/disabled"))
	in[2].DisableSoong = true

	plan, err := BuildPlan(in, "acme", propDir)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}

	if len(plan.Modules) != 0 {
		t.Errorf("expected no modules, got %v", plan.Packages())
	}
	if len(plan.Copies) != 3 {
		t.Errorf("expected 3 copies, got %d", len(plan.Copies))
	}
}

func TestBuildPlan_ClassificationErrorAborts(t *testing.T) {
	in := entries(partition.Vendor, "bin/ok", "framework/libbad.so")

	_, err := BuildPlan(in, "acme", propDir)
	if !errors.Is(err, soong.ErrUnknownLibDir) {
		t.Fatalf("expected ErrUnknownLibDir, got %v", err)
	}
}

func TestSortForNaming(t *testing.T) {
	in := entries(partition.Vendor, "etc/a.xml", "bin/z", "bin/b")
	in[2].IsNamedDependency = true

	SortForNaming(in)

	var got []string
	for _, e := range in {
		got = append(got, e.SrcPath)
	}
	want := []string{"vendor/bin/b", "vendor/bin/z", "vendor/etc/a.xml"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
