package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateRelPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{
			name:      "valid relative path",
			path:      "vendor/lib64/libfoo.so",
			wantError: false,
		},
		{
			name:      "valid single file",
			path:      "build.prop",
			wantError: false,
		},
		{
			name:      "empty path",
			path:      "",
			wantError: true,
		},
		{
			name:      "current directory",
			path:      ".",
			wantError: true,
		},
		{
			name:      "absolute path",
			path:      "/etc/hosts",
			wantError: true,
		},
		{
			name:      "parent directory traversal",
			path:      "../etc/hosts",
			wantError: true,
		},
		{
			name:      "traversal in middle",
			path:      "vendor/../../../etc/hosts",
			wantError: true,
		},
		{
			name:      "bare parent",
			path:      "..",
			wantError: true,
		},
		{
			name:      "path with dot prefix",
			path:      ".hidden/file.txt",
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelPath(tt.path)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateRelPath(%q) error = %v, wantError %v", tt.path, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_ListFiles(t *testing.T) {
	tmpDir := t.TempDir()
	fs := NewRealFS()

	mustWrite(t, filepath.Join(tmpDir, "vendor", "lib64", "libfoo.so"), "elf")
	mustWrite(t, filepath.Join(tmpDir, "vendor", "etc", "a.xml"), "<a/>")
	mustWrite(t, filepath.Join(tmpDir, "vendor", "bin", "tool"), "elf")
	if err := os.MkdirAll(filepath.Join(tmpDir, "vendor", "empty"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.Symlink("/vendor/bin/tool", filepath.Join(tmpDir, "vendor", "bin", "tool-link")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	files, err := fs.ListFiles(filepath.Join(tmpDir, "vendor"), tmpDir)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	want := []string{
		"vendor/bin/tool",
		"vendor/bin/tool-link",
		"vendor/etc/a.xml",
		"vendor/lib64/libfoo.so",
	}
	if len(files) != len(want) {
		t.Fatalf("ListFiles = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestRealFS_ListFilesMissingRoot(t *testing.T) {
	fs := NewRealFS()
	if _, err := fs.ListFiles(filepath.Join(t.TempDir(), "nope"), t.TempDir()); err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	tmpDir := t.TempDir()
	fs := NewRealFS()
	path := filepath.Join(tmpDir, "out", "Android.bp")

	if err := fs.AtomicWrite(path, []byte("soong_namespace {\n}\n"), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "soong_namespace {\n}\n" {
		t.Fatalf("unexpected content %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestRealFS_CopyFile(t *testing.T) {
	tmpDir := t.TempDir()
	fs := NewRealFS()
	src := filepath.Join(tmpDir, "src", "bin", "tool")
	dst := filepath.Join(tmpDir, "dst", "proprietary", "bin", "tool")

	mustWrite(t, src, "binary")
	if err := os.Chmod(src, 0755); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}

	if err := fs.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}

	if err := fs.CopyFile(filepath.Join(tmpDir, "src"), dst); err == nil {
		t.Fatalf("expected error copying a directory")
	}
}

func TestRealFS_Exists(t *testing.T) {
	tmpDir := t.TempDir()
	fs := NewRealFS()

	link := filepath.Join(tmpDir, "dangling")
	if err := os.Symlink(filepath.Join(tmpDir, "missing"), link); err != nil {
		t.Fatalf("symlink failed: %v", err)
	}

	exists, err := fs.Exists(link)
	if err != nil || !exists {
		t.Fatalf("dangling symlink should exist: %v, %v", exists, err)
	}

	exists, err = fs.Exists(filepath.Join(tmpDir, "missing"))
	if err != nil || exists {
		t.Fatalf("missing path should not exist: %v, %v", exists, err)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
