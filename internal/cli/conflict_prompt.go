package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/klauern/rulesync/internal/model"
	"github.com/klauern/rulesync/internal/sync"
	"github.com/klauern/rulesync/internal/ui"
	"github.com/klauern/rulesync/internal/ui/tui"
)

// ConflictResolver prompts the user for decisions on standard input.
// It is the fallback decision provider when no terminal is attached.
type ConflictResolver struct {
	reader *bufio.Reader
}

// NewConflictResolver creates an interactive conflict resolver reading
// from stdin.
func NewConflictResolver() *ConflictResolver {
	return &ConflictResolver{
		reader: bufio.NewReader(os.Stdin),
	}
}

// newConflictResolverWithReader creates a resolver with a custom reader.
func newConflictResolverWithReader(r io.Reader) *ConflictResolver {
	return &ConflictResolver{
		reader: bufio.NewReader(r),
	}
}

// ResolveConflicts prompts the user for each conflict in turn.
// Files the user declines to decide on stay undecided and are skipped.
func (cr *ConflictResolver) ResolveConflicts(conflicts []sync.Conflict) (map[string]model.Decision, error) {
	decisions := make(map[string]model.Decision, len(conflicts))

	fmt.Printf("\n%d rule(s) conflict with existing files.\n\n", len(conflicts))

	for i, conflict := range conflicts {
		fmt.Println(ui.Header(fmt.Sprintf("--- Conflict %d of %d: %s ---", i+1, len(conflicts), conflict.Rule.Path)))
		fmt.Printf("Source: %d bytes, destination: %d bytes (%s)\n",
			len(conflict.Rule.Content), len(conflict.DestContent), conflict.DestPath)

		decision, err := cr.promptDecision(conflict)
		if err != nil {
			return decisions, fmt.Errorf("failed to get decision for %s: %w", conflict.Rule.Path, err)
		}
		decisions[conflict.Rule.Path] = decision

		fmt.Printf("%s\n\n", ui.Applied(fmt.Sprintf("%s: %s", conflict.Rule.Path, decision)))
	}

	return decisions, nil
}

// promptDecision asks the user to choose a decision for one conflict.
func (cr *ConflictResolver) promptDecision(conflict sync.Conflict) (model.Decision, error) {
	fmt.Println("\nHow would you like to resolve this conflict?")
	fmt.Println("  1. Overwrite (use source version)")
	fmt.Println("  2. Skip (keep destination version)")
	fmt.Println("  3. Merge (keep unique content from both)")
	fmt.Println("  4. Show source content")
	fmt.Println("  5. Show destination content")
	fmt.Print("\nEnter choice [1-5]: ")

	for {
		response, err := cr.reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		response = strings.TrimSpace(response)
		choice, err := strconv.Atoi(response)
		if err != nil || choice < 1 || choice > 5 {
			fmt.Print("Invalid choice. Enter 1-5: ")
			continue
		}

		switch choice {
		case 1:
			return model.DecisionOverwrite, nil
		case 2:
			return model.DecisionSkip, nil
		case 3:
			return model.DecisionMerge, nil
		case 4:
			cr.showFullContent("SOURCE", string(conflict.Rule.Content))
			fmt.Print("\nEnter choice [1-5]: ")
		case 5:
			cr.showFullContent("DESTINATION", string(conflict.DestContent))
			fmt.Print("\nEnter choice [1-5]: ")
		}
	}
}

// showFullContent displays the full content of a version.
func (cr *ConflictResolver) showFullContent(label, content string) {
	fmt.Printf("\n=== %s CONTENT ===\n", label)
	fmt.Println(strings.Repeat("-", 50))

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		fmt.Printf("%4d | %s\n", i+1, line)
	}

	fmt.Println(strings.Repeat("-", 50))
}

// ApproveAliasCleanups asks the user to confirm each alias removal.
func (cr *ConflictResolver) ApproveAliasCleanups(findings []sync.AliasFinding) (map[string]bool, error) {
	approved := make(map[string]bool, len(findings))

	for _, finding := range findings {
		fmt.Printf("\n%s is an old name for %s.\n", finding.Pair.Old, ui.Bold(finding.Pair.New))
		fmt.Printf("Remove %s? [y/N]: ", finding.DestPath)

		response, err := cr.reader.ReadString('\n')
		if err != nil {
			return approved, fmt.Errorf("failed to read input: %w", err)
		}

		response = strings.ToLower(strings.TrimSpace(response))
		approved[finding.Pair.Old] = response == "y" || response == "yes"
	}

	return approved, nil
}

// InteractiveProvider resolves conflicts through the BubbleTea picker
// when a terminal is attached and falls back to numbered stdin prompts
// otherwise. Alias cleanups always use the plain prompt.
type InteractiveProvider struct {
	resolver *ConflictResolver
}

// NewInteractiveProvider creates the default interactive decision
// provider.
func NewInteractiveProvider() *InteractiveProvider {
	return &InteractiveProvider{resolver: NewConflictResolver()}
}

// ResolveConflicts implements sync.DecisionProvider.
func (p *InteractiveProvider) ResolveConflicts(conflicts []sync.Conflict) (map[string]model.Decision, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return p.resolver.ResolveConflicts(conflicts)
	}

	picker := tui.NewConflictList(conflicts)
	final, err := tui.Run(picker)
	if err != nil {
		return nil, fmt.Errorf("conflict picker failed: %w", err)
	}

	m, ok := final.(*tui.ConflictListModel)
	if !ok {
		return nil, fmt.Errorf("unexpected conflict picker model type %T", final)
	}

	result := m.Result()
	if !result.Accepted {
		// Aborted picker: no decisions, every conflict is skipped.
		return map[string]model.Decision{}, nil
	}
	return result.Decisions, nil
}

// ApproveAliasCleanups implements sync.DecisionProvider.
func (p *InteractiveProvider) ApproveAliasCleanups(findings []sync.AliasFinding) (map[string]bool, error) {
	return p.resolver.ApproveAliasCleanups(findings)
}

// FixedProvider applies one decision to every conflict without
// prompting. Used by the --strategy flag and config default.
type FixedProvider struct {
	// Decision is applied to all conflicts.
	Decision model.Decision

	// CleanupAliases approves every alias removal when true.
	CleanupAliases bool
}

// ResolveConflicts implements sync.DecisionProvider.
func (p *FixedProvider) ResolveConflicts(conflicts []sync.Conflict) (map[string]model.Decision, error) {
	decisions := make(map[string]model.Decision, len(conflicts))
	for _, c := range conflicts {
		decisions[c.Rule.Path] = p.Decision
	}
	return decisions, nil
}

// ApproveAliasCleanups implements sync.DecisionProvider.
func (p *FixedProvider) ApproveAliasCleanups(findings []sync.AliasFinding) (map[string]bool, error) {
	approved := make(map[string]bool, len(findings))
	for _, f := range findings {
		approved[f.Pair.Old] = p.CleanupAliases
	}
	return approved, nil
}
