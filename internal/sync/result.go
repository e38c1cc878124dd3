package sync

import (
	"fmt"
	"strings"

	"github.com/klauern/rulesync/internal/model"
)

// Action represents the terminal outcome for a rule file during apply.
type Action string

const (
	// ActionInstalled indicates the source content was written (new or
	// overwritten file).
	ActionInstalled Action = "installed"

	// ActionMerged indicates the merged union of both versions was written.
	ActionMerged Action = "merged"

	// ActionSkipped indicates a conflict was left untouched.
	ActionSkipped Action = "skipped"

	// ActionUnchanged indicates the destination already held identical
	// content and no I/O was performed.
	ActionUnchanged Action = "unchanged"

	// ActionRemoved indicates an approved alias duplicate was deleted
	// from the destination.
	ActionRemoved Action = "removed"

	// ActionFailed indicates an error occurred processing the file.
	ActionFailed Action = "failed"
)

// FileResult is the outcome of processing a single rule file.
type FileResult struct {
	// Path is the rule's source-relative path ("" for alias removals,
	// which are destination-only).
	Path string

	// DestPath is the destination path the action targeted.
	DestPath string

	// Classification is the rule's scan classification, when it has one.
	Classification model.Classification

	// Decision is the conflict decision that was applied, if any.
	Decision model.Decision

	// Action is the terminal outcome.
	Action Action

	// Message provides additional context about the action.
	Message string

	// Err contains any error that occurred during processing.
	Err error
}

// Report summarizes one synchronization run. It is built incrementally
// during apply, shown to the user once, and never persisted.
type Report struct {
	// SourceDir is the scanned rule-set root.
	SourceDir string

	// DestDir is the destination rules directory.
	DestDir string

	// Layout is the layout mode the run used.
	Layout model.LayoutMode

	// DryRun indicates no changes were made.
	DryRun bool

	// Files holds the outcome of every processed file.
	Files []FileResult

	// SelfDestructed indicates the invoking entry file was removed from
	// the plugin cache at the end of the run.
	SelfDestructed bool
}

// Installed returns files whose source content was written.
func (r *Report) Installed() []FileResult { return r.filterByAction(ActionInstalled) }

// Merged returns files whose merged content was written.
func (r *Report) Merged() []FileResult { return r.filterByAction(ActionMerged) }

// Skipped returns conflicting files that were left untouched.
func (r *Report) Skipped() []FileResult { return r.filterByAction(ActionSkipped) }

// Unchanged returns files that needed no I/O.
func (r *Report) Unchanged() []FileResult { return r.filterByAction(ActionUnchanged) }

// Removed returns alias duplicates deleted from the destination.
func (r *Report) Removed() []FileResult { return r.filterByAction(ActionRemoved) }

// Failed returns files that could not be processed.
func (r *Report) Failed() []FileResult { return r.filterByAction(ActionFailed) }

func (r *Report) filterByAction(action Action) []FileResult {
	var filtered []FileResult
	for _, fr := range r.Files {
		if fr.Action == action {
			filtered = append(filtered, fr)
		}
	}
	return filtered
}

// Success returns true if no file failed.
func (r *Report) Success() bool {
	return len(r.Failed()) == 0
}

// TotalProcessed returns the number of files the run touched or examined.
func (r *Report) TotalProcessed() int {
	return len(r.Files)
}

// TotalChanged returns the number of files written or removed.
func (r *Report) TotalChanged() int {
	return len(r.Installed()) + len(r.Merged()) + len(r.Removed())
}

// Summary returns a human-readable summary of the run.
func (r *Report) Summary() string {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("Dry run - no changes made\n")
	}

	sb.WriteString(fmt.Sprintf("Installed rules from %s to %s (%s layout)\n",
		r.SourceDir, r.DestDir, r.Layout))

	sb.WriteString(fmt.Sprintf("  Installed: %d\n", len(r.Installed())))
	sb.WriteString(fmt.Sprintf("  Merged:    %d\n", len(r.Merged())))
	sb.WriteString(fmt.Sprintf("  Unchanged: %d\n", len(r.Unchanged())))
	sb.WriteString(fmt.Sprintf("  Skipped:   %d\n", len(r.Skipped())))
	sb.WriteString(fmt.Sprintf("  Removed:   %d\n", len(r.Removed())))
	sb.WriteString(fmt.Sprintf("  Failed:    %d\n", len(r.Failed())))

	if !r.Success() {
		sb.WriteString("\nErrors:\n")
		for _, f := range r.Failed() {
			name := f.Path
			if name == "" {
				name = f.DestPath
			}
			sb.WriteString(fmt.Sprintf("  - %s: %v\n", name, f.Err))
		}
	}

	return sb.String()
}
