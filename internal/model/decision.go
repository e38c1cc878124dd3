package model

// Decision is the resolution applied to a conflicting rule file.
type Decision string

const (
	// DecisionOverwrite replaces the destination content with the source.
	DecisionOverwrite Decision = "overwrite"

	// DecisionSkip leaves the destination untouched.
	DecisionSkip Decision = "skip"

	// DecisionMerge writes the section-level union of both versions.
	DecisionMerge Decision = "merge"
)

// IsValid returns true if the decision is recognized.
func (d Decision) IsValid() bool {
	switch d {
	case DecisionOverwrite, DecisionSkip, DecisionMerge:
		return true
	default:
		return false
	}
}

// AllDecisions returns every supported conflict decision.
func AllDecisions() []Decision {
	return []Decision{DecisionOverwrite, DecisionSkip, DecisionMerge}
}

// String returns the string representation of the decision.
func (d Decision) String() string {
	return string(d)
}

// Description returns a human-readable description of the decision.
func (d Decision) Description() string {
	switch d {
	case DecisionOverwrite:
		return "Replace the destination file with the source version"
	case DecisionSkip:
		return "Keep the destination file as-is"
	case DecisionMerge:
		return "Combine both versions, keeping unique content from each"
	default:
		return "Unknown decision"
	}
}

// AliasPair names two relative paths considered semantically duplicate
// rules (e.g. "languages/golang.md" and "languages/go.md"). The table of
// pairs is static configuration, never derived from content.
type AliasPair struct {
	// Old is the legacy relative path that may linger in a destination.
	Old string `yaml:"old" toml:"old"`

	// New is the current relative path shipped by the source rule set.
	New string `yaml:"new" toml:"new"`
}

// DefaultAliases is the built-in table of known renamed rules.
func DefaultAliases() []AliasPair {
	return []AliasPair{
		{Old: "languages/golang.md", New: "languages/go.md"},
		{Old: "golang.md", New: "go.md"},
		{Old: "languages/node.md", New: "languages/javascript.md"},
	}
}
