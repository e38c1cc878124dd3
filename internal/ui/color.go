// Package ui provides terminal output utilities for rulesync.
package ui

import (
	"github.com/fatih/color"
)

// Color functions for styled output.
var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()

	// Header is used for prompt and section headers (bold cyan).
	Header = color.New(color.FgCyan, color.Bold).SprintFunc()
	// Bold is used for emphasis.
	Bold = color.New(color.Bold).SprintFunc()
)

// Status symbols prefixed to per-file output lines.
const (
	SymbolApplied  = "✓"
	SymbolFailed   = "✗"
	SymbolConflict = "⚠"
	SymbolSkipped  = "-"
)

// Applied marks a rule that was written or cleaned up (green check).
func Applied(msg string) string {
	if msg == "" {
		return green(SymbolApplied)
	}
	return green(SymbolApplied) + " " + msg
}

// Failed marks a rule that could not be processed (red cross).
func Failed(msg string) string {
	if msg == "" {
		return red(SymbolFailed)
	}
	return red(SymbolFailed) + " " + msg
}

// Conflicting marks a rule that needs a decision (yellow warning).
func Conflicting(msg string) string {
	if msg == "" {
		return yellow(SymbolConflict)
	}
	return yellow(SymbolConflict) + " " + msg
}

// Skipped marks a rule left untouched (faint dash).
func Skipped(msg string) string {
	if msg == "" {
		return dim(SymbolSkipped)
	}
	return dim(SymbolSkipped) + " " + msg
}

// DisableColors disables all color output, for piped output or the
// --no-color flag.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}
