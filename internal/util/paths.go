package util

import (
	"os"
	"path/filepath"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ClaudeRulesPath returns the default Claude Code user rules directory
func ClaudeRulesPath() string {
	return filepath.Join(HomeDir(), ".claude", "rules")
}

// ClaudePluginCachePath returns the Claude Code plugin cache directory
func ClaudePluginCachePath() string {
	return filepath.Join(HomeDir(), ".claude", "plugins", "cache")
}

// ClaudeInstalledPluginsPath returns the path to the installed plugins manifest
func ClaudeInstalledPluginsPath() string {
	return filepath.Join(HomeDir(), ".claude", "plugins", "installed_plugins.json")
}

// RulesyncConfigPath returns the rulesync configuration directory
func RulesyncConfigPath() string {
	return filepath.Join(HomeDir(), ".rulesync")
}
