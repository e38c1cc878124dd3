package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/rulesync/internal/model"
)

// writeFile creates a file with parent directories under root.
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

func findEntry(t *testing.T, entries []Entry, path string) Entry {
	t.Helper()
	for _, e := range entries {
		if e.Rule.Path == path {
			return e
		}
	}
	t.Fatalf("no entry for %q in %d entries", path, len(entries))
	return Entry{}
}

func TestScanner_Scan_Classifications(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()

	writeFile(t, source, "languages/go.md", "go rules")
	writeFile(t, source, "languages/python.md", "python rules")
	writeFile(t, source, "general.md", "general rules")
	writeFile(t, dest, "languages/python.md", "python rules")
	writeFile(t, dest, "general.md", "old general rules")

	entries, err := New(model.LayoutPreserve).Scan(source, dest)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if e := findEntry(t, entries, "languages/go.md"); e.Classification != model.ClassNew {
		t.Errorf("go.md classified %q, want new", e.Classification)
	}
	if e := findEntry(t, entries, "languages/python.md"); e.Classification != model.ClassUnchanged {
		t.Errorf("python.md classified %q, want unchanged", e.Classification)
	}
	e := findEntry(t, entries, "general.md")
	if e.Classification != model.ClassConflict {
		t.Errorf("general.md classified %q, want conflict", e.Classification)
	}
	if string(e.DestContent) != "old general rules" {
		t.Errorf("conflict entry missing destination content: %q", e.DestContent)
	}
}

func TestScanner_Scan_MissingDestinationIsEmpty(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "go.md", "go rules")

	entries, err := New(model.LayoutPreserve).Scan(source, filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Classification != model.ClassNew {
		t.Errorf("classified %q, want new", entries[0].Classification)
	}
}

func TestScanner_Scan_MissingSourceIsFatal(t *testing.T) {
	_, err := New(model.LayoutPreserve).Scan(filepath.Join(t.TempDir(), "absent"), t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestScanner_Scan_FlattenLayout(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()

	writeFile(t, source, "languages/go.md", "go rules")
	writeFile(t, dest, "go.md", "go rules")

	entries, err := New(model.LayoutFlatten).Scan(source, dest)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	e := findEntry(t, entries, "languages/go.md")
	if e.Classification != model.ClassUnchanged {
		t.Errorf("classified %q, want unchanged against flattened path", e.Classification)
	}
	if e.DestPath != filepath.Join(dest, "go.md") {
		t.Errorf("DestPath = %q, want flattened root path", e.DestPath)
	}
}

func TestScanner_Scan_FlattenCollision(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "backend/style.md", "backend")
	writeFile(t, source, "frontend/style.md", "frontend")

	entries, err := New(model.LayoutFlatten).Scan(source, t.TempDir())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	var failed int
	for _, e := range entries {
		if e.Err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly one collision failure, got %d", failed)
	}
}

func TestScanner_Scan_UnreadableFileBecomesFailedEntry(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions do not apply to root")
	}

	source := t.TempDir()
	writeFile(t, source, "readable.md", "fine")
	writeFile(t, source, "locked.md", "secret")
	if err := os.Chmod(filepath.Join(source, "locked.md"), 0o000); err != nil {
		t.Fatal(err)
	}

	entries, err := New(model.LayoutPreserve).Scan(source, t.TempDir())
	if err != nil {
		t.Fatalf("unreadable file must not abort the scan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if e := findEntry(t, entries, "locked.md"); e.Err == nil {
		t.Error("unreadable file should carry a per-file error")
	}
	if e := findEntry(t, entries, "readable.md"); e.Err != nil || e.Classification != model.ClassNew {
		t.Errorf("readable sibling affected by unreadable file: err=%v class=%q", e.Err, e.Classification)
	}
}

func TestScanner_Scan_ExcludedFileSkipped(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, "commands/install-rules.md", "entry command")
	writeFile(t, source, "go.md", "go rules")

	entries, err := New(model.LayoutPreserve, "commands/install-rules.md").Scan(source, t.TempDir())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected excluded file to be skipped, got %d entries", len(entries))
	}
	if entries[0].Rule.Path != "go.md" {
		t.Errorf("unexpected entry %q", entries[0].Rule.Path)
	}
}

func TestScanner_Scan_SkipsManifest(t *testing.T) {
	source := t.TempDir()
	writeFile(t, source, ManifestName, "name = \"rules\"")
	writeFile(t, source, "go.md", "go rules")

	entries, err := New(model.LayoutPreserve).Scan(source, t.TempDir())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected manifest to be skipped, got %d entries", len(entries))
	}
	if entries[0].Rule.Path != "go.md" {
		t.Errorf("unexpected entry %q", entries[0].Rule.Path)
	}
}

func TestNew_InvalidLayoutFallsBackToPreserve(t *testing.T) {
	s := New(model.LayoutMode("bogus"))
	if s.Layout() != model.LayoutPreserve {
		t.Errorf("Layout() = %q, want preserve", s.Layout())
	}
}
