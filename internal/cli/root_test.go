package cli

import (
	"bytes"
	"strings"
	"testing"
)

// run executes a fresh command tree and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("VENDORGEN_ROOT", t.TempDir())

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"vendorgen", "Generation:", "generate", "collect-state"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected help to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { version = "dev" })

	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", out)
	}

	out, _, err = run(t, "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", out)
	}
}

func TestSetVersion_IgnoresEmpty(t *testing.T) {
	t.Cleanup(func() { version = "dev" })
	SetVersion("")
	if version != "dev" {
		t.Errorf("SetVersion(\"\") changed version to %q", version)
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	if _, _, err := run(t, "invalid-command"); err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{
		"generate", "diff-files", "list-files", "resolve-overrides",
		"collect-state", "version", "completion",
	} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := root.Find([]string{name})
			if err != nil {
				t.Fatalf("Find(%q) error = %v", name, err)
			}
			if sub.Name() != name {
				t.Errorf("Find(%q) returned %q", name, sub.Name())
			}
		})
	}
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "list-files", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "unknown log level") {
		t.Errorf("expected log level error, got %v", err)
	}
}
