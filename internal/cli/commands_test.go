package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

// runCommand executes the CLI with captured stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := Run(context.Background(), append([]string{"rulesync"}, args...))

	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close pipe writer: %v", closeErr)
	}
	os.Stdout = old

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("failed to read captured output: %v", copyErr)
	}
	return buf.String(), runErr
}

func TestInstallCommand_NewRuleSet(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFile(t, source, "languages/go.md", "go rules")
	writeFile(t, source, "general.md", "general rules")

	output, err := runCommand(t,
		"install", "--source", source, "--dest", dest, "--strategy", "skip")
	if err != nil {
		t.Fatalf("install failed: %v\n%s", err, output)
	}

	if !strings.Contains(output, "Installed: 2") {
		t.Errorf("unexpected summary:\n%s", output)
	}
	data, err := os.ReadFile(filepath.Join(dest, "languages", "go.md"))
	if err != nil {
		t.Fatalf("installed rule missing: %v", err)
	}
	if string(data) != "go rules" {
		t.Errorf("installed content = %q", data)
	}
}

func TestInstallCommand_AliasCleanupScenario(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFile(t, source, "languages/go.md", "A")
	writeFile(t, dest, "languages/go.md", "B")
	writeFile(t, dest, "languages/golang.md", "A")

	output, err := runCommand(t,
		"install", "--source", source, "--dest", dest,
		"--strategy", "overwrite", "--cleanup-aliases")
	if err != nil {
		t.Fatalf("install failed: %v\n%s", err, output)
	}

	data, err := os.ReadFile(filepath.Join(dest, "languages", "go.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "A" {
		t.Errorf("go.md content = %q, want decided content", data)
	}
	if _, err := os.Stat(filepath.Join(dest, "languages", "golang.md")); !os.IsNotExist(err) {
		t.Error("alias duplicate golang.md should be removed")
	}
	if !strings.Contains(output, "Removed:   1") {
		t.Errorf("unexpected summary:\n%s", output)
	}
}

func TestInstallCommand_DryRun(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFile(t, source, "go.md", "go rules")

	output, err := runCommand(t,
		"install", "--source", source, "--dest", dest, "--strategy", "skip", "--dry-run")
	if err != nil {
		t.Fatalf("install failed: %v\n%s", err, output)
	}

	if !strings.Contains(output, "Dry run") {
		t.Errorf("expected dry-run notice:\n%s", output)
	}
	if _, err := os.Stat(filepath.Join(dest, "go.md")); !os.IsNotExist(err) {
		t.Error("dry run wrote to destination")
	}
}

func TestInstallCommand_RunFromCacheKeepsSourceIntact(t *testing.T) {
	cacheRoot := t.TempDir()
	dest := t.TempDir()
	source := filepath.Join(cacheRoot, "myrules")
	writeFile(t, source, "ruleset.toml",
		"name = \"myrules\"\ncommand = \"commands/install-rules.md\"\n")
	writeFile(t, source, "commands/install-rules.md", "entry command")
	writeFile(t, source, "go.md", "go rules")

	output, err := runCommand(t,
		"install", "--source", source, "--dest", dest,
		"--cache-root", cacheRoot, "--strategy", "skip")
	if err != nil {
		t.Fatalf("install failed: %v\n%s", err, output)
	}

	if _, err := os.ReadFile(filepath.Join(dest, "go.md")); err != nil {
		t.Errorf("rule not installed: %v", err)
	}
	// The command entry file is not a rule.
	if _, err := os.Stat(filepath.Join(dest, "commands", "install-rules.md")); !os.IsNotExist(err) {
		t.Error("entry command file was installed as a rule")
	}
	// Self-destruct never reaches into the source tree.
	if _, err := os.Stat(filepath.Join(source, "commands", "install-rules.md")); err != nil {
		t.Errorf("entry file removed from the source directory: %v", err)
	}
}

func TestInstallCommand_MissingSourceFails(t *testing.T) {
	_, err := runCommand(t,
		"install", "--source", filepath.Join(t.TempDir(), "absent"),
		"--dest", t.TempDir(), "--strategy", "skip")
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestInstallCommand_UnknownStrategyFails(t *testing.T) {
	_, err := runCommand(t,
		"install", "--source", t.TempDir(), "--dest", t.TempDir(),
		"--strategy", "replace")
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestStatusCommand(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	writeFile(t, source, "new.md", "new")
	writeFile(t, source, "same.md", "same")
	writeFile(t, source, "changed.md", "source")
	writeFile(t, dest, "same.md", "same")
	writeFile(t, dest, "changed.md", "dest")

	output, err := runCommand(t, "status", "--source", source, "--dest", dest)
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, output)
	}

	if !strings.Contains(output, "1 new, 1 unchanged, 1 conflicting") {
		t.Errorf("unexpected status output:\n%s", output)
	}
}

func TestStatusCommand_EmptySourceFails(t *testing.T) {
	_, err := runCommand(t, "status", "--source", t.TempDir(), "--dest", t.TempDir())
	if err == nil {
		t.Fatal("expected error for empty rule set")
	}
}
