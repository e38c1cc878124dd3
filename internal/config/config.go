// Package config provides configuration management for rulesync.
// It supports a YAML configuration file, environment variables, and
// sensible defaults, layered in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/klauern/rulesync/internal/model"
	"github.com/klauern/rulesync/internal/util"
)

// StrategyAsk defers every conflict to the interactive decision provider
// instead of applying one fixed decision.
const StrategyAsk = "ask"

// Config is the complete rulesync configuration.
type Config struct {
	// DestDir is the destination rules directory.
	DestDir string `yaml:"dest_dir"`

	// Layout is the destination layout mode ("preserve" or "flatten").
	Layout string `yaml:"layout"`

	// Strategy is the default conflict handling: "ask" or one of the
	// decisions (overwrite, skip, merge).
	Strategy string `yaml:"strategy"`

	// KeepCommand disables removal of the invoking entry file from the
	// plugin cache after installation.
	KeepCommand bool `yaml:"keep_command"`

	// Aliases extends the built-in alias table.
	Aliases []model.AliasPair `yaml:"aliases"`

	// Output configures display preferences.
	Output OutputConfig `yaml:"output"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// NoColor disables colored output.
	NoColor bool `yaml:"no_color"`

	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DestDir:  util.ClaudeRulesPath(),
		Strategy: StrategyAsk,
	}
}

// FilePath returns the path of the rulesync configuration file.
func FilePath() string {
	return filepath.Join(util.RulesyncConfigPath(), "config.yml")
}

// Load reads the configuration file, falling back to defaults when it
// does not exist, and applies environment variable overrides.
func Load() (*Config, error) {
	cfg := Default()

	configPath := FilePath()
	// #nosec G304 - configPath is constructed from trusted config directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", configPath, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// applyEnvironment applies RULESYNC_* environment variable overrides.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("RULESYNC_DEST"); v != "" {
		c.DestDir = v
	}
	if v := os.Getenv("RULESYNC_LAYOUT"); v != "" {
		c.Layout = v
	}
	if v := os.Getenv("RULESYNC_STRATEGY"); v != "" {
		c.Strategy = v
	}
	if v := os.Getenv("RULESYNC_NO_COLOR"); v != "" {
		if noColor, err := strconv.ParseBool(v); err == nil {
			c.Output.NoColor = noColor
		}
	}
}

// LayoutMode returns the configured layout, defaulting to preserve when
// unset or unknown.
func (c *Config) LayoutMode() model.LayoutMode {
	mode := model.LayoutMode(c.Layout)
	if mode.IsValid() {
		return mode
	}
	return model.LayoutPreserve
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Layout != "" && !model.LayoutMode(c.Layout).IsValid() {
		return fmt.Errorf("unknown layout mode %q", c.Layout)
	}
	if c.Strategy != "" && c.Strategy != StrategyAsk && !model.Decision(c.Strategy).IsValid() {
		return fmt.Errorf("unknown conflict strategy %q", c.Strategy)
	}
	for _, pair := range c.Aliases {
		if pair.Old == "" || pair.New == "" {
			return fmt.Errorf("alias pair %q -> %q must name both paths", pair.Old, pair.New)
		}
	}
	return nil
}

// AliasTable returns the built-in alias table extended with the
// configured pairs.
func (c *Config) AliasTable() []model.AliasPair {
	table := model.DefaultAliases()
	return append(table, c.Aliases...)
}
