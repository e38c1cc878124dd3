package sync

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauern/rulesync/internal/logging"
	"github.com/klauern/rulesync/internal/model"
	"github.com/klauern/rulesync/internal/scan"
)

// Conflict describes a rule file whose destination content differs from
// the source and needs an explicit decision.
type Conflict struct {
	// Rule is the incoming source rule file.
	Rule model.RuleFile

	// DestPath is the absolute destination path of the existing file.
	DestPath string

	// DestContent is the existing destination content.
	DestContent []byte
}

// DecisionProvider supplies the external decisions the synchronizer must
// not guess: one decision per conflicting rule file, and approval for
// each alias cleanup. Implementations are synchronous; the interactive
// layer wraps prompting behind this interface.
type DecisionProvider interface {
	// ResolveConflicts returns decisions keyed by the rule's relative
	// path. A missing key blocks only that file (it is skipped).
	ResolveConflicts(conflicts []Conflict) (map[string]model.Decision, error)

	// ApproveAliasCleanups returns approval keyed by the old relative
	// path. Unapproved findings are left in place.
	ApproveAliasCleanups(findings []AliasFinding) (map[string]bool, error)
}

// Options configures a single installation run.
type Options struct {
	// SourceDir is the rule-set root to install from.
	SourceDir string

	// DestDir is the destination rules directory.
	DestDir string

	// Layout controls destination path mapping (default: preserve).
	Layout model.LayoutMode

	// DryRun previews the run without writing or removing anything.
	DryRun bool

	// Aliases overrides the alias table. Nil means the built-in table.
	Aliases []model.AliasPair

	// Exclude names source-relative files that are not rules and must
	// not be installed (e.g. the manifest's command entry file).
	Exclude []string

	// Progress, when set, is called after each file is processed.
	Progress func(done, total int)
}

// Synchronizer reconciles a source rule set with a destination rule
// directory under explicit user control.
type Synchronizer struct {
	merger   *Merger
	provider DecisionProvider
}

// New creates a Synchronizer. The provider may be nil, in which case
// every conflict is skipped for want of a decision.
func New(provider DecisionProvider) *Synchronizer {
	return &Synchronizer{
		merger:   NewMerger(),
		provider: provider,
	}
}

// Install runs one synchronization: scan, decide, apply, alias cleanup.
// Only an unreadable source directory is fatal; every other failure is
// recorded per-file in the report. No write happens before the scan and
// all decisions have completed.
func (s *Synchronizer) Install(opts Options) (*Report, error) {
	defer logging.Timer("install")()

	layout := opts.Layout
	if !layout.IsValid() {
		layout = model.LayoutPreserve
	}

	report := &Report{
		SourceDir: opts.SourceDir,
		DestDir:   opts.DestDir,
		Layout:    layout,
		DryRun:    opts.DryRun,
	}

	scanner := scan.New(layout, opts.Exclude...)
	entries, err := scanner.Scan(opts.SourceDir, opts.DestDir)
	if err != nil {
		logging.Error("scan failed",
			logging.Path(opts.SourceDir),
			logging.Err(err),
		)
		return report, err
	}

	logging.Debug("starting install",
		logging.Operation("install"),
		logging.Path(opts.DestDir),
		logging.Count(len(entries)),
		slog.Bool("dry_run", opts.DryRun),
	)

	sourcePaths := make(map[string]bool, len(entries))
	var conflicts []Conflict
	for _, entry := range entries {
		if entry.Err != nil {
			continue
		}
		sourcePaths[entry.Rule.Path] = true
		if entry.Classification == model.ClassConflict {
			conflicts = append(conflicts, Conflict{
				Rule:        entry.Rule,
				DestPath:    entry.DestPath,
				DestContent: entry.DestContent,
			})
		}
	}

	aliasTable := opts.Aliases
	if aliasTable == nil {
		aliasTable = model.DefaultAliases()
	}
	findings := DetectAliasConflicts(sourcePaths, opts.DestDir, layout, aliasTable)

	decisions := s.resolveConflicts(conflicts)

	total := len(entries) + len(findings)
	done := 0
	progress := func() {
		done++
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
	}

	for _, entry := range entries {
		report.Files = append(report.Files, s.applyEntry(entry, decisions, opts.DryRun))
		progress()
	}

	for _, fr := range s.cleanupAliases(findings, opts.DryRun) {
		report.Files = append(report.Files, fr)
		progress()
	}

	logging.Debug("install completed",
		logging.Operation("install"),
		logging.Count(report.TotalChanged()),
	)

	return report, nil
}

// resolveConflicts asks the provider for decisions. Provider errors
// degrade to missing decisions: the affected files are skipped, never
// written.
func (s *Synchronizer) resolveConflicts(conflicts []Conflict) map[string]model.Decision {
	if len(conflicts) == 0 || s.provider == nil {
		return map[string]model.Decision{}
	}

	decisions, err := s.provider.ResolveConflicts(conflicts)
	if err != nil {
		logging.Warn("conflict resolution aborted, skipping undecided files",
			logging.Count(len(conflicts)),
			logging.Err(err),
		)
		return map[string]model.Decision{}
	}
	if decisions == nil {
		return map[string]model.Decision{}
	}
	return decisions
}

// applyEntry carries a single scanned rule to its terminal state.
func (s *Synchronizer) applyEntry(entry scan.Entry, decisions map[string]model.Decision, dryRun bool) FileResult {
	result := FileResult{
		Path:           entry.Rule.Path,
		DestPath:       entry.DestPath,
		Classification: entry.Classification,
	}

	if entry.Err != nil {
		result.Action = ActionFailed
		result.Err = entry.Err
		return result
	}

	switch entry.Classification {
	case model.ClassUnchanged:
		result.Action = ActionUnchanged
		result.Message = "destination already up to date"
		return result

	case model.ClassNew:
		result.Decision = model.DecisionOverwrite
		return s.write(result, entry.Rule.Content, "installed new rule", ActionInstalled, dryRun)

	case model.ClassConflict:
		decision, ok := decisions[entry.Rule.Path]
		if !ok || !decision.IsValid() {
			result.Action = ActionSkipped
			result.Message = "no decision provided"
			return result
		}
		result.Decision = decision

		switch decision {
		case model.DecisionSkip:
			result.Action = ActionSkipped
			result.Message = "kept destination version"
			return result
		case model.DecisionMerge:
			merged := s.merger.Merge(entry.DestContent, entry.Rule.Content)
			return s.write(result, merged, "merged with destination version", ActionMerged, dryRun)
		default:
			return s.write(result, entry.Rule.Content, "overwrote destination version", ActionInstalled, dryRun)
		}
	}

	result.Action = ActionFailed
	result.Err = fmt.Errorf("rule %q was never classified", entry.Rule.Path)
	return result
}

// write stores content at the result's destination path, creating parent
// directories as needed. Write failures are per-file and non-fatal.
func (s *Synchronizer) write(result FileResult, content []byte, message string, action Action, dryRun bool) FileResult {
	result.Message = message

	if dryRun {
		result.Action = action
		return result
	}

	if err := os.MkdirAll(filepath.Dir(result.DestPath), 0o750); err != nil {
		result.Action = ActionFailed
		result.Err = fmt.Errorf("failed to create destination directory: %w", err)
		logging.Error("destination write failed",
			logging.Rule(result.Path),
			logging.Path(result.DestPath),
			logging.Err(err),
		)
		return result
	}

	// #nosec G306 - rule files should be readable
	if err := os.WriteFile(result.DestPath, content, 0o644); err != nil {
		result.Action = ActionFailed
		result.Err = fmt.Errorf("failed to write destination file: %w", err)
		logging.Error("destination write failed",
			logging.Rule(result.Path),
			logging.Path(result.DestPath),
			logging.Err(err),
		)
		return result
	}

	logging.Debug("wrote rule file",
		logging.Rule(result.Path),
		logging.Path(result.DestPath),
		logging.Decision(string(result.Decision)),
	)

	result.Action = action
	return result
}

// cleanupAliases removes approved alias duplicates from the destination.
// Nothing is removed without explicit approval from the provider.
func (s *Synchronizer) cleanupAliases(findings []AliasFinding, dryRun bool) []FileResult {
	if len(findings) == 0 || s.provider == nil {
		return nil
	}

	approved, err := s.provider.ApproveAliasCleanups(findings)
	if err != nil {
		logging.Warn("alias cleanup approval aborted, leaving duplicates in place",
			logging.Count(len(findings)),
			logging.Err(err),
		)
		return nil
	}

	var results []FileResult
	for _, finding := range findings {
		if !approved[finding.Pair.Old] {
			continue
		}

		result := FileResult{
			DestPath: finding.DestPath,
			Message:  fmt.Sprintf("duplicate of %s", finding.Pair.New),
		}

		if dryRun {
			result.Action = ActionRemoved
			results = append(results, result)
			continue
		}

		if err := os.Remove(finding.DestPath); err != nil {
			result.Action = ActionFailed
			result.Err = fmt.Errorf("failed to remove alias duplicate: %w", err)
			logging.Error("alias removal failed",
				logging.Path(finding.DestPath),
				logging.Err(err),
			)
		} else {
			result.Action = ActionRemoved
			logging.Debug("removed alias duplicate",
				logging.Path(finding.DestPath),
			)
		}
		results = append(results, result)
	}

	return results
}
