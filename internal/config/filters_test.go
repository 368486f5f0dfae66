package config

import (
	"testing"
)

func TestFilters_Keep(t *testing.T) {
	exclude := Filters{
		Mode:      FilterExclude,
		Match:     []string{"vendor/etc/exact.conf"},
		Prefix:    []string{"vendor/app/"},
		Suffix:    []string{".bak"},
		Substring: []string{"/debug/"},
		Regex:     []string{`^odm/.*\.txt$`},
	}
	if err := exclude.Compile(); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	tests := []struct {
		value string
		want  bool
	}{
		{"vendor/etc/exact.conf", false},
		{"vendor/app/Foo/Foo.apk", false},
		{"vendor/lib/libfoo.so.bak", false},
		{"vendor/lib/debug/libfoo.so", false},
		{"odm/etc/notes.txt", false},
		{"vendor/etc/notes.txt", true},
		{"vendor/lib64/libfoo.so", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := exclude.Keep(tt.value); got != tt.want {
				t.Errorf("exclude Keep(%q) = %v, want %v", tt.value, got, tt.want)
			}

			include := exclude
			include.Mode = FilterInclude
			if got := include.Keep(tt.value); got == tt.want {
				t.Errorf("include Keep(%q) = %v, want %v", tt.value, got, !tt.want)
			}
		})
	}
}

func TestFilters_Empty(t *testing.T) {
	include := Filters{Mode: FilterInclude}
	if err := include.Compile(); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !include.Empty() {
		t.Error("expected filters to be empty")
	}
	if include.Keep("anything") {
		t.Error("empty include filter should keep nothing")
	}

	exclude := Filters{Mode: FilterExclude}
	if !exclude.Keep("anything") {
		t.Error("empty exclude filter should keep everything")
	}
}

func TestFilters_CompileErrors(t *testing.T) {
	bad := Filters{Mode: "maybe"}
	if err := bad.Compile(); err == nil {
		t.Error("expected error for invalid mode")
	}

	badRegex := Filters{Mode: FilterExclude, Regex: []string{"("}}
	if err := badRegex.Compile(); err == nil {
		t.Error("expected error for invalid regex")
	}
}

func TestBuiltinKeep(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"vendor/lib64/libfoo.so", true},
		{"system/fonts/Roboto.ttf", false},
		{"product/media/bootanimation.zip", false},
		{"system/framework/oat/arm64/services.odex", false},
		{"system/framework/boot.art", false},
		{"vendor/overlay/Foo.apk", false},
		{"vendor/lib/modules/foo.ko", false},
		{"vendor_dlkm/lib/modules/foo.ko", false},
		{"vendor/etc/media/foo.xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := BuiltinKeep(tt.path); got != tt.want {
				t.Errorf("BuiltinKeep(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
