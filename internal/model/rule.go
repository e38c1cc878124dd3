// Package model defines the core types shared across rulesync.
package model

import (
	"bytes"
	"path"
	"time"
)

// RuleFile is a single reference document tracked by relative path and
// content. The relative path is its identity; two rule files are equal
// iff their byte content is identical.
type RuleFile struct {
	// Path is the slash-separated path relative to the rule-set root
	// (e.g. "languages/python.md").
	Path string

	// Content is a read-only snapshot of the file's bytes taken at the
	// start of a run.
	Content []byte

	// ModifiedAt is the source file's modification time.
	ModifiedAt time.Time
}

// Name returns the base name of the rule file.
func (r RuleFile) Name() string {
	return path.Base(r.Path)
}

// Equal reports whether the other rule file has identical byte content.
func (r RuleFile) Equal(other RuleFile) bool {
	return bytes.Equal(r.Content, other.Content)
}

// Classification is the status of a source rule file relative to the
// destination directory.
type Classification string

const (
	// ClassNew indicates the rule is absent from the destination.
	ClassNew Classification = "new"

	// ClassUnchanged indicates the destination holds byte-identical content.
	ClassUnchanged Classification = "unchanged"

	// ClassConflict indicates the destination holds differing content.
	ClassConflict Classification = "conflict"
)

// Classify determines the classification of source content against the
// destination. destContent is nil when the destination file is absent.
func Classify(sourceContent, destContent []byte) Classification {
	if destContent == nil {
		return ClassNew
	}
	if bytes.Equal(sourceContent, destContent) {
		return ClassUnchanged
	}
	return ClassConflict
}

// String returns the string representation of the classification.
func (c Classification) String() string {
	return string(c)
}

// LayoutMode controls how source relative paths map to destination paths.
type LayoutMode string

const (
	// LayoutPreserve mirrors the source directory structure into the
	// destination.
	LayoutPreserve LayoutMode = "preserve"

	// LayoutFlatten writes every rule file directly under the destination
	// root using its base name.
	LayoutFlatten LayoutMode = "flatten"
)

// IsValid returns true if the layout mode is recognized.
func (m LayoutMode) IsValid() bool {
	return m == LayoutPreserve || m == LayoutFlatten
}

// String returns the string representation of the layout mode.
func (m LayoutMode) String() string {
	return string(m)
}

// DestRelPath maps a source relative path to its destination relative
// path under this layout mode.
func (m LayoutMode) DestRelPath(rel string) string {
	if m == LayoutFlatten {
		return path.Base(rel)
	}
	return rel
}
