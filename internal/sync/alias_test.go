package sync

import (
	"testing"

	"github.com/klauern/rulesync/internal/model"
)

func TestDetectAliasConflicts(t *testing.T) {
	table := []model.AliasPair{
		{Old: "languages/golang.md", New: "languages/go.md"},
		{Old: "languages/node.md", New: "languages/javascript.md"},
	}

	t.Run("old in dest and new in source is a finding", func(t *testing.T) {
		dest := t.TempDir()
		writeFile(t, dest, "languages/golang.md", "old content")

		source := map[string]bool{"languages/go.md": true}
		findings := DetectAliasConflicts(source, dest, model.LayoutPreserve, table)
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(findings))
		}
		if findings[0].Pair.Old != "languages/golang.md" {
			t.Errorf("unexpected pair %+v", findings[0].Pair)
		}
	})

	t.Run("no finding without old name in dest", func(t *testing.T) {
		source := map[string]bool{"languages/go.md": true}
		findings := DetectAliasConflicts(source, t.TempDir(), model.LayoutPreserve, table)
		if len(findings) != 0 {
			t.Errorf("expected no findings, got %d", len(findings))
		}
	})

	t.Run("no finding without new name in source", func(t *testing.T) {
		dest := t.TempDir()
		writeFile(t, dest, "languages/golang.md", "old content")

		findings := DetectAliasConflicts(map[string]bool{}, dest, model.LayoutPreserve, table)
		if len(findings) != 0 {
			t.Errorf("expected no findings, got %d", len(findings))
		}
	})

	t.Run("pairs evaluated independently", func(t *testing.T) {
		dest := t.TempDir()
		writeFile(t, dest, "languages/golang.md", "old go")
		writeFile(t, dest, "languages/node.md", "old node")

		source := map[string]bool{
			"languages/go.md":         true,
			"languages/javascript.md": true,
		}
		findings := DetectAliasConflicts(source, dest, model.LayoutPreserve, table)
		if len(findings) != 2 {
			t.Errorf("expected 2 findings, got %d", len(findings))
		}
	})

	t.Run("flatten layout matches flattened old path", func(t *testing.T) {
		dest := t.TempDir()
		writeFile(t, dest, "golang.md", "old content")

		source := map[string]bool{"languages/go.md": true}
		findings := DetectAliasConflicts(source, dest, model.LayoutFlatten, table)
		if len(findings) != 1 {
			t.Errorf("expected flattened old path to match, got %d findings", len(findings))
		}
	})
}
