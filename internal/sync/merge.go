package sync

import (
	"strings"

	"github.com/klauern/rulesync/internal/logging"
)

// Merger combines two versions of a rule file into a section-level union.
//
// A section is a maximal run of non-blank lines. The merged result keeps
// every destination section in its original order, then appends the
// source sections that do not already appear in the destination. Unique
// content from either side is never dropped, and merging the same pair
// twice adds nothing new.
type Merger struct{}

// NewMerger creates a new Merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge returns the section-level union of dest and source.
func (m *Merger) Merge(dest, source []byte) []byte {
	destSections := splitSections(string(dest))
	sourceSections := splitSections(string(source))

	seen := make(map[string]bool, len(destSections))
	for _, sec := range destSections {
		seen[sectionKey(sec)] = true
	}

	merged := make([]string, 0, len(destSections)+len(sourceSections))
	merged = append(merged, destSections...)

	added := 0
	for _, sec := range sourceSections {
		key := sectionKey(sec)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, sec)
		added++
	}

	logging.Debug("merged content",
		logging.Operation("merge"),
		logging.Count(added),
	)

	if len(merged) == 0 {
		return []byte{}
	}
	return []byte(strings.Join(merged, "\n\n") + "\n")
}

// splitSections breaks content into maximal blank-line-delimited blocks.
func splitSections(content string) []string {
	lines := strings.Split(content, "\n")

	var sections []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return sections
}

// sectionKey normalizes a section for duplicate detection. Lines keep
// their text but lose trailing whitespace, so reflowed trailing spaces do
// not defeat deduplication.
func sectionKey(section string) string {
	lines := strings.Split(section, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
