package engine

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestResolveOverrides(t *testing.T) {
	ref := referenceFixture(t)
	listPath := filepath.Join(t.TempDir(), "overrides.txt")
	writeTree(t, filepath.Dir(listPath), map[string]string{
		"overrides.txt": "# installed paths\n" +
			"out/target/product/raven/vendor/lib64/libbuilt.so\n" +
			"\n" +
			"out/target/product/raven/vendor/lib64/libfoo.so\n",
	})

	eng := newTestEngine(newMockStateStore())
	result, err := eng.ResolveOverrides(context.Background(), &ResolveOverridesRequest{
		OverridesPath:  listPath,
		ModuleInfoPath: filepath.Join(ref, "module-info.json"),
	})
	if err != nil {
		t.Fatalf("ResolveOverrides failed: %v", err)
	}
	if !reflect.DeepEqual(result.Modules, []string{"libbuilt", "libstale"}) {
		t.Errorf("unexpected modules: %v", result.Modules)
	}
	if len(result.MissingPaths) != 0 {
		t.Errorf("expected no missing paths, got %v", result.MissingPaths)
	}

	result, err = eng.ResolveOverrides(context.Background(), &ResolveOverridesRequest{
		OverridesPath:  listPath,
		ModuleInfoPath: filepath.Join(ref, "module-info.json"),
		ProprietaryDir: "vendor/acme/raven/proprietary",
	})
	if err != nil {
		t.Fatalf("ResolveOverrides failed: %v", err)
	}
	if !reflect.DeepEqual(result.Modules, []string{"libbuilt"}) {
		t.Errorf("expected generated modules to be ignored, got %v", result.Modules)
	}
	if !reflect.DeepEqual(result.MissingPaths, []string{"out/target/product/raven/vendor/lib64/libfoo.so"}) {
		t.Errorf("unexpected missing paths: %v", result.MissingPaths)
	}
}

func TestResolveOverrides_Validation(t *testing.T) {
	_, err := newTestEngine(newMockStateStore()).ResolveOverrides(context.Background(), &ResolveOverridesRequest{
		OverridesPath: "overrides.txt",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestParsePathList(t *testing.T) {
	got := parsePathList("a\n  # comment\n\n b \n")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("unexpected paths: %v", got)
	}
}
