// Package manifest reads the optional ruleset.toml file at the root of a
// source rule set. The manifest names the rule set, points at the
// command entry file that triggered the installation, and may extend the
// alias table or pick a layout mode.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/klauern/rulesync/internal/logging"
	"github.com/klauern/rulesync/internal/model"
	"github.com/klauern/rulesync/internal/scan"
)

// Manifest is the ruleset.toml structure.
type Manifest struct {
	// Name is the rule-set / plugin identifier (e.g. "rulesync").
	Name string `toml:"name"`

	// Command is the relative path of the invoking entry file inside the
	// plugin, used to remove its cache copy after installation
	// (e.g. "commands/install-rules.md").
	Command string `toml:"command"`

	// Layout optionally picks the destination layout ("preserve" or
	// "flatten").
	Layout string `toml:"layout"`

	// Aliases extends the built-in alias table.
	Aliases []model.AliasPair `toml:"alias"`
}

// LayoutMode returns the manifest's layout hint, or empty when unset.
func (m *Manifest) LayoutMode() model.LayoutMode {
	if m == nil {
		return ""
	}
	mode := model.LayoutMode(m.Layout)
	if mode.IsValid() {
		return mode
	}
	return ""
}

// Load reads ruleset.toml from the source directory. A missing manifest
// is not an error: Load returns (nil, nil) and the caller uses defaults.
func Load(sourceDir string) (*Manifest, error) {
	path := filepath.Join(sourceDir, scan.ManifestName)

	// #nosec G304 - path is rooted at the caller-provided source dir
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %q: %w", path, err)
	}

	if m.Layout != "" && !model.LayoutMode(m.Layout).IsValid() {
		logging.Warn("ignoring unknown layout mode in manifest",
			logging.Path(path),
			logging.Operation(m.Layout),
		)
	}

	logging.Debug("loaded rule-set manifest",
		logging.Path(path),
		logging.Count(len(m.Aliases)),
	)

	return &m, nil
}
