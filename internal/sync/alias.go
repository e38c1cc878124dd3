package sync

import (
	"os"
	"path/filepath"

	"github.com/klauern/rulesync/internal/logging"
	"github.com/klauern/rulesync/internal/model"
)

// AliasFinding is an actionable alias duplicate: the destination still
// holds the old name while the incoming rule set ships the new one.
type AliasFinding struct {
	// Pair is the alias table entry that matched.
	Pair model.AliasPair

	// DestPath is the absolute destination path of the old-name file.
	DestPath string
}

// DetectAliasConflicts evaluates each alias pair independently against
// the incoming source set and the destination tree. A pair becomes a
// finding only when the old name exists in the destination and the new
// name is present in the source set.
func DetectAliasConflicts(sourcePaths map[string]bool, destDir string, layout model.LayoutMode, table []model.AliasPair) []AliasFinding {
	var findings []AliasFinding

	for _, pair := range table {
		if !sourcePaths[pair.New] {
			continue
		}

		oldPath := filepath.Join(destDir, filepath.FromSlash(layout.DestRelPath(pair.Old)))
		info, err := os.Stat(oldPath)
		if err != nil || info.IsDir() {
			continue
		}

		logging.Debug("alias duplicate found",
			logging.Rule(pair.Old),
			logging.Path(oldPath),
		)

		findings = append(findings, AliasFinding{Pair: pair, DestPath: oldPath})
	}

	return findings
}
