package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/rulesync/internal/model"
	"github.com/klauern/rulesync/internal/sync"
)

// ConflictListResult contains the outcome of the conflict picker.
type ConflictListResult struct {
	// Accepted is true when the user confirmed their decisions.
	Accepted bool

	// Decisions maps rule paths to the chosen decision. Only meaningful
	// when Accepted is true.
	Decisions map[string]model.Decision
}

// conflictListKeyMap defines the key bindings for the conflict picker.
type conflictListKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Cycle     key.Binding
	Overwrite key.Binding
	Skip      key.Binding
	Merge     key.Binding
	All       key.Binding
	Confirm   key.Binding
	Quit      key.Binding
}

func defaultConflictListKeyMap() conflictListKeyMap {
	return conflictListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Cycle: key.NewBinding(
			key.WithKeys(" ", "tab"),
			key.WithHelp("space/tab", "cycle decision"),
		),
		Overwrite: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "overwrite"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Merge: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "merge"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apply current decision to all"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "confirm"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "abort"),
		),
	}
}

// ConflictListModel is a BubbleTea model that lets the user pick a
// decision for each conflicting rule file.
type ConflictListModel struct {
	conflicts []sync.Conflict
	decisions []model.Decision
	table     table.Model
	keys      conflictListKeyMap
	titler    cases.Caser
	result    ConflictListResult
	done      bool
}

// NewConflictList creates the conflict picker. Every conflict starts at
// skip so that confirming without changes never loses destination
// content.
func NewConflictList(conflicts []sync.Conflict) *ConflictListModel {
	m := &ConflictListModel{
		conflicts: conflicts,
		decisions: make([]model.Decision, len(conflicts)),
		keys:      defaultConflictListKeyMap(),
		titler:    cases.Title(language.English),
	}
	for i := range m.decisions {
		m.decisions[i] = model.DecisionSkip
	}

	columns := []table.Column{
		{Title: "Rule", Width: 40},
		{Title: "Destination", Width: 14},
		{Title: "Decision", Width: 12},
	}

	m.table = table.New(
		table.WithColumns(columns),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(min(len(conflicts)+1, 12)),
	)

	return m
}

// Result returns the outcome after the program has finished.
func (m *ConflictListModel) Result() ConflictListResult {
	return m.result
}

// Init implements tea.Model.
func (m *ConflictListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ConflictListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.done = true
		m.result = ConflictListResult{Accepted: false}
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Confirm):
		decisions := make(map[string]model.Decision, len(m.conflicts))
		for i, c := range m.conflicts {
			decisions[c.Rule.Path] = m.decisions[i]
		}
		m.done = true
		m.result = ConflictListResult{Accepted: true, Decisions: decisions}
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Cycle):
		m.setDecision(m.table.Cursor(), nextDecision(m.currentDecision()))

	case key.Matches(keyMsg, m.keys.Overwrite):
		m.setDecision(m.table.Cursor(), model.DecisionOverwrite)

	case key.Matches(keyMsg, m.keys.Skip):
		m.setDecision(m.table.Cursor(), model.DecisionSkip)

	case key.Matches(keyMsg, m.keys.Merge):
		m.setDecision(m.table.Cursor(), model.DecisionMerge)

	case key.Matches(keyMsg, m.keys.All):
		current := m.currentDecision()
		for i := range m.decisions {
			m.decisions[i] = current
		}
		m.table.SetRows(m.rows())

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *ConflictListModel) View() string {
	if m.done {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Styles.Title.Render(fmt.Sprintf("%d rule(s) conflict with existing files", len(m.conflicts))))
	sb.WriteString("\n\n")
	sb.WriteString(m.table.View())
	sb.WriteString("\n")
	sb.WriteString(Styles.Decision.Render(m.currentDecision().Description()))
	sb.WriteString("\n")
	sb.WriteString(Styles.Help.Render("o overwrite · s skip · m merge · space cycle · a all · y confirm · q abort"))
	sb.WriteString("\n")
	return sb.String()
}

func (m *ConflictListModel) currentDecision() model.Decision {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.decisions) {
		return model.DecisionSkip
	}
	return m.decisions[cursor]
}

func (m *ConflictListModel) setDecision(idx int, d model.Decision) {
	if idx < 0 || idx >= len(m.decisions) {
		return
	}
	m.decisions[idx] = d
	m.table.SetRows(m.rows())
}

func (m *ConflictListModel) rows() []table.Row {
	rows := make([]table.Row, len(m.conflicts))
	for i, c := range m.conflicts {
		rows[i] = table.Row{
			c.Rule.Path,
			fmt.Sprintf("%d bytes", len(c.DestContent)),
			m.titler.String(m.decisions[i].String()),
		}
	}
	return rows
}

func nextDecision(d model.Decision) model.Decision {
	switch d {
	case model.DecisionSkip:
		return model.DecisionOverwrite
	case model.DecisionOverwrite:
		return model.DecisionMerge
	default:
		return model.DecisionSkip
	}
}
