// Package scan walks a source rule set and classifies each rule file
// against a destination directory.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/klauern/rulesync/internal/logging"
	"github.com/klauern/rulesync/internal/model"
)

// ManifestName is the optional rule-set manifest file at the source root.
// It describes the rule set and is never installed as a rule.
const ManifestName = "ruleset.toml"

// Entry is one scanned rule file together with its classification and
// resolved destination path.
type Entry struct {
	// Rule is the source rule file snapshot.
	Rule model.RuleFile

	// Classification is the rule's status against the destination.
	Classification model.Classification

	// DestPath is the absolute destination path under the active layout.
	DestPath string

	// DestContent holds the destination file's bytes, or nil when absent.
	DestContent []byte

	// Err records a per-file scan failure (unreadable source file,
	// flatten collision). Failed entries carry no classification.
	Err error
}

// Scanner produces a classified snapshot of a source rule set.
type Scanner struct {
	layout  model.LayoutMode
	exclude map[string]bool
}

// New creates a Scanner for the given layout mode. An invalid or empty
// mode falls back to preserve. The exclude paths name source-relative
// files that are not rules (e.g. the manifest's command entry file) and
// are left out of the scan like the manifest itself.
func New(layout model.LayoutMode, exclude ...string) *Scanner {
	if !layout.IsValid() {
		layout = model.LayoutPreserve
	}
	s := &Scanner{layout: layout, exclude: make(map[string]bool, len(exclude))}
	for _, rel := range exclude {
		if rel == "" {
			continue
		}
		s.exclude[path.Clean(filepath.ToSlash(rel))] = true
	}
	return s
}

// Layout returns the scanner's layout mode.
func (s *Scanner) Layout() model.LayoutMode {
	return s.layout
}

// Scan walks sourceDir recursively and classifies every file against
// destDir. The destination may be absent (treated as empty). An
// unreadable sourceDir is fatal; an unreadable individual file becomes a
// failed entry and does not abort the scan.
func (s *Scanner) Scan(sourceDir, destDir string) ([]Entry, error) {
	defer logging.Timer("scan")()

	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("source directory unreadable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %q is not a directory", sourceDir)
	}

	var entries []Entry
	claimed := make(map[string]string) // dest rel path -> source rel path

	walkErr := filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == sourceDir {
				return err
			}
			// Unreadable subtree: record and keep walking siblings.
			rel, relErr := filepath.Rel(sourceDir, p)
			if relErr != nil {
				rel = p
			}
			entries = append(entries, Entry{
				Rule: model.RuleFile{Path: filepath.ToSlash(rel)},
				Err:  fmt.Errorf("failed to read %q: %w", p, err),
			})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if rel == ManifestName {
			logging.Debug("skipping rule-set manifest", logging.Path(p))
			return nil
		}
		if s.exclude[rel] {
			logging.Debug("skipping excluded file", logging.Path(p))
			return nil
		}

		entries = append(entries, s.scanFile(p, rel, destDir, claimed))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("source directory unreadable: %w", walkErr)
	}

	logging.Debug("scan completed",
		logging.Path(sourceDir),
		logging.Count(len(entries)),
	)

	return entries, nil
}

// scanFile reads and classifies a single source file.
func (s *Scanner) scanFile(absPath, rel, destDir string, claimed map[string]string) Entry {
	entry := Entry{Rule: model.RuleFile{Path: rel}}

	// #nosec G304 - absPath comes from walking the caller-provided source dir
	content, err := os.ReadFile(absPath)
	if err != nil {
		entry.Err = fmt.Errorf("failed to read source file %q: %w", absPath, err)
		logging.Warn("skipping unreadable source file",
			logging.Rule(rel),
			logging.Err(err),
		)
		return entry
	}
	entry.Rule.Content = content
	if info, err := os.Stat(absPath); err == nil {
		entry.Rule.ModifiedAt = info.ModTime()
	}

	destRel := s.layout.DestRelPath(rel)
	if prior, ok := claimed[destRel]; ok {
		entry.Err = fmt.Errorf("flatten collision: %q and %q both map to %q", prior, rel, destRel)
		logging.Warn("flatten collision",
			logging.Rule(rel),
			logging.Path(destRel),
		)
		return entry
	}
	claimed[destRel] = rel

	entry.DestPath = filepath.Join(destDir, filepath.FromSlash(destRel))

	// #nosec G304 - destination path is derived from the caller-provided root
	destContent, err := os.ReadFile(entry.DestPath)
	switch {
	case err == nil:
		entry.DestContent = destContent
	case os.IsNotExist(err):
		// Absent destination file, classified as new below.
	default:
		entry.Err = fmt.Errorf("failed to read destination file %q: %w", entry.DestPath, err)
		return entry
	}

	entry.Classification = model.Classify(content, entry.DestContent)

	logging.Debug("classified rule",
		logging.Rule(rel),
		logging.Operation(string(entry.Classification)),
	)

	return entry
}
