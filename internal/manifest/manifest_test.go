package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/rulesync/internal/model"
	"github.com/klauern/rulesync/internal/scan"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, scan.ManifestName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
name = "rulesync"
command = "commands/install-rules.md"
layout = "flatten"

[[alias]]
old = "languages/py.md"
new = "languages/python.md"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m == nil {
		t.Fatal("Load() returned nil manifest")
	}

	if m.Name != "rulesync" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.Command != "commands/install-rules.md" {
		t.Errorf("Command = %q", m.Command)
	}
	if m.LayoutMode() != model.LayoutFlatten {
		t.Errorf("LayoutMode() = %q, want flatten", m.LayoutMode())
	}
	if len(m.Aliases) != 1 || m.Aliases[0].New != "languages/python.md" {
		t.Errorf("Aliases = %+v", m.Aliases)
	}
}

func TestLoad_MissingManifestIsNotAnError(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil manifest, got %+v", m)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "name = [unclosed")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestManifest_LayoutMode_UnknownIsEmpty(t *testing.T) {
	m := &Manifest{Layout: "mirror"}
	if got := m.LayoutMode(); got != "" {
		t.Errorf("LayoutMode() = %q, want empty", got)
	}

	var nilManifest *Manifest
	if got := nilManifest.LayoutMode(); got != "" {
		t.Errorf("nil manifest LayoutMode() = %q, want empty", got)
	}
}
