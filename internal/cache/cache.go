// Package cache locates the installed copy of a rule-set plugin in the
// Claude Code plugin cache and removes the invoking entry file from it.
package cache

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/rulesync/internal/logging"
	"github.com/klauern/rulesync/internal/util"
)

// PluginInstallation is a single installation entry from
// installed_plugins.json.
type PluginInstallation struct {
	Enabled     *bool  `json:"enabled,omitempty"` // nil means enabled (default true)
	Scope       string `json:"scope"`
	InstallPath string `json:"installPath"`
	Version     string `json:"version"`
}

// IsEnabled returns whether the plugin installation is enabled.
// Returns true if Enabled is nil (not specified) or explicitly true.
func (pi *PluginInstallation) IsEnabled() bool {
	return pi.Enabled == nil || *pi.Enabled
}

// InstalledPluginsFile is the structure of installed_plugins.json.
type InstalledPluginsFile struct {
	Version int                             `json:"version"`
	Plugins map[string][]PluginInstallation `json:"plugins"`
}

// Locator resolves plugin install directories under a cache root.
type Locator struct {
	cacheRoot    string
	manifestPath string
}

// NewLocator creates a Locator. Empty arguments fall back to the default
// Claude Code cache root and installed-plugins manifest.
func NewLocator(cacheRoot, manifestPath string) *Locator {
	if cacheRoot == "" {
		cacheRoot = util.ClaudePluginCachePath()
	}
	if manifestPath == "" {
		manifestPath = util.ClaudeInstalledPluginsPath()
	}
	return &Locator{cacheRoot: cacheRoot, manifestPath: manifestPath}
}

// CacheRoot returns the cache root directory this locator searches.
func (l *Locator) CacheRoot() string {
	return l.cacheRoot
}

// LocateInstallDir resolves the install directory of the plugin with the
// given identifier (e.g. "rulesync"). It consults the installed-plugins
// manifest first and falls back to scanning the cache root for a
// directory matching the identifier. Returns zero or one paths.
func (l *Locator) LocateInstallDir(pluginID string) (string, bool) {
	if dir, ok := l.lookupManifest(pluginID); ok {
		return dir, true
	}
	return l.scanCacheRoot(pluginID)
}

// lookupManifest reads installed_plugins.json and returns the install
// path of the first enabled installation whose key names the plugin.
func (l *Locator) lookupManifest(pluginID string) (string, bool) {
	// #nosec G304 - manifest path is from trusted configuration
	data, err := os.ReadFile(l.manifestPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Debug("failed to read installed plugins manifest",
				logging.Path(l.manifestPath),
				logging.Err(err),
			)
		}
		return "", false
	}

	var manifest InstalledPluginsFile
	if err := json.Unmarshal(data, &manifest); err != nil {
		logging.Warn("failed to parse installed plugins manifest",
			logging.Path(l.manifestPath),
			logging.Err(err),
		)
		return "", false
	}

	for pluginKey, installations := range manifest.Plugins {
		// Keys look like "name@marketplace"; match on the name part.
		name := pluginKey
		if at := strings.Index(pluginKey, "@"); at >= 0 {
			name = pluginKey[:at]
		}
		if name != pluginID {
			continue
		}
		for i := range installations {
			inst := &installations[i]
			if !inst.IsEnabled() || inst.InstallPath == "" {
				continue
			}
			path := filepath.Clean(inst.InstallPath)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			logging.Debug("located plugin via manifest",
				logging.Path(path),
			)
			return path, true
		}
	}

	return "", false
}

// scanCacheRoot looks for a directory named after the plugin identifier
// directly under the cache root or one marketplace level below it.
func (l *Locator) scanCacheRoot(pluginID string) (string, bool) {
	entries, err := os.ReadDir(l.cacheRoot)
	if err != nil {
		return "", false
	}

	var matches []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if entry.Name() == pluginID {
			matches = append(matches, filepath.Join(l.cacheRoot, entry.Name()))
			continue
		}
		// Marketplace directory: look one level down.
		sub, err := os.ReadDir(filepath.Join(l.cacheRoot, entry.Name()))
		if err != nil {
			continue
		}
		for _, s := range sub {
			if s.IsDir() && s.Name() == pluginID {
				matches = append(matches, filepath.Join(l.cacheRoot, entry.Name(), s.Name()))
			}
		}
	}

	if len(matches) != 1 {
		if len(matches) > 1 {
			logging.Warn("multiple plugin cache candidates, refusing to pick one",
				logging.Count(len(matches)),
			)
		}
		return "", false
	}
	return matches[0], true
}

// SelfDestruct deletes the cache copy of the invoking entry file found
// under cacheRoot by relative-suffix match. It only ever removes a path
// inside cacheRoot, is a no-op when no copy exists, and refuses to act
// when the suffix matches more than one file. Files under any protected
// directory are never candidates; the caller passes the source rule-set
// directory here so an install run straight out of the cache cannot
// delete from its own source tree. Returns whether a deletion occurred.
func SelfDestruct(cacheRoot, entryRelativePath string, protected ...string) (bool, error) {
	if entryRelativePath == "" {
		return false, nil
	}

	suffix := filepath.ToSlash(filepath.Clean(entryRelativePath))
	if strings.HasPrefix(suffix, "..") || filepath.IsAbs(entryRelativePath) {
		return false, fmt.Errorf("entry path %q must be relative", entryRelativePath)
	}

	root, err := filepath.Abs(cacheRoot)
	if err != nil {
		return false, fmt.Errorf("failed to resolve cache root: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			logging.Debug("plugin cache root absent, nothing to remove",
				logging.Path(root),
			)
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache root: %w", err)
	}

	var protectedRoots []string
	for _, dir := range protected {
		if dir == "" {
			continue
		}
		if abs, absErr := filepath.Abs(dir); absErr == nil {
			protectedRoots = append(protectedRoots, abs)
		}
	}

	var candidates []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree, skip it.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel != suffix && !strings.HasSuffix(rel, "/"+suffix) {
			return nil
		}
		if underAny(p, protectedRoots) {
			logging.Warn("entry file candidate is inside a protected directory, skipping",
				logging.Path(p),
			)
			return nil
		}
		candidates = append(candidates, p)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to walk cache root: %w", err)
	}

	if len(candidates) == 0 {
		logging.Debug("no cache copy of entry file found",
			logging.Path(root),
			logging.Rule(suffix),
		)
		return false, nil
	}
	if len(candidates) > 1 {
		logging.Warn("multiple cache copies of entry file, refusing to delete",
			logging.Rule(suffix),
			logging.Count(len(candidates)),
		)
		return false, nil
	}

	target := candidates[0]
	// Containment check: never remove anything outside the cache root.
	rel, err := filepath.Rel(root, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false, fmt.Errorf("refusing to delete %q outside cache root", target)
	}

	if err := os.Remove(target); err != nil {
		return false, fmt.Errorf("failed to remove entry file: %w", err)
	}

	logging.Debug("removed entry file from plugin cache",
		logging.Path(target),
	)
	return true, nil
}

// underAny reports whether p lies at or below one of the directories.
func underAny(p string, dirs []string) bool {
	for _, dir := range dirs {
		rel, err := filepath.Rel(dir, p)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}
