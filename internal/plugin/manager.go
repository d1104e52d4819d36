package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hyprsupreme/hyprsupreme/internal/config"
)

// Manager discovers installed plugins and drives their lifecycle.
// The enabled set is persisted to a small JSON state file so it survives
// restarts.
type Manager struct {
	mu         sync.RWMutex
	searchDirs []string
	installDir string
	statePath  string
	plugins    map[string]*Plugin
	enabled    map[string]bool
}

// NewManager creates a plugin manager.
// installDir is where Install places new plugins; it is also searched.
func NewManager(installDir, statePath string, extraDirs ...string) *Manager {
	return &Manager{
		searchDirs: append([]string{installDir}, extraDirs...),
		installDir: installDir,
		statePath:  statePath,
		plugins:    map[string]*Plugin{},
		enabled:    map[string]bool{},
	}
}

// DefaultManager returns a manager over the standard plugin locations.
func DefaultManager() *Manager {
	return NewManager(
		config.PluginsDir(),
		filepath.Join(config.StateDir(), "plugins.json"),
		filepath.Join(config.DataDir(), "plugins"),
		"plugins",
	)
}

// Discover scans the search directories for plugin manifests and loads
// the persisted enabled set. Broken manifests are logged and skipped.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plugins = map[string]*Plugin{}
	for _, dir := range m.searchDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			pluginDir := filepath.Join(dir, entry.Name())
			manifestPath, err := findManifest(pluginDir)
			if err != nil {
				continue
			}
			manifest, err := LoadManifest(manifestPath)
			if err != nil {
				slog.Warn("skipping bad plugin manifest", "path", manifestPath, "error", err)
				continue
			}
			if _, exists := m.plugins[manifest.Name]; exists {
				continue
			}
			m.plugins[manifest.Name] = &Plugin{
				Manifest: manifest,
				Dir:      pluginDir,
				State:    StateInstalled,
			}
		}
	}

	if err := m.loadState(); err != nil {
		slog.Warn("failed to load plugin state", "error", err)
	}
	for name := range m.enabled {
		if p, ok := m.plugins[name]; ok {
			p.State = StateEnabled
		} else {
			delete(m.enabled, name)
		}
	}

	return nil
}

// Names returns the sorted names of all discovered plugins.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.plugins))
	for name := range m.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named plugin.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plugins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

// Enabled reports whether the named plugin is enabled.
func (m *Manager) Enabled(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled[name]
}

// Enable enables a plugin after checking its dependency constraints,
// enabling dependencies first. Missing or version-mismatched
// dependencies wrap ErrDependency.
func (m *Manager) Enable(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.enableLocked(name, map[string]bool{}); err != nil {
		return err
	}
	return m.saveState()
}

func (m *Manager) enableLocked(name string, visiting map[string]bool) error {
	if m.enabled[name] {
		return nil
	}
	if visiting[name] {
		return fmt.Errorf("%w: dependency cycle through %s", ErrDependency, name)
	}
	visiting[name] = true

	p, ok := m.plugins[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	for depName, constraint := range p.Manifest.Dependencies {
		dep, ok := m.plugins[depName]
		if !ok {
			return fmt.Errorf("%w: %s requires %s which is not installed", ErrDependency, name, depName)
		}
		ok, err := dep.Manifest.Satisfies(constraint)
		if err != nil {
			return fmt.Errorf("%w: %s requires %s %s: %v", ErrDependency, name, depName, constraint, err)
		}
		if !ok {
			return fmt.Errorf("%w: %s requires %s %s but %s is installed",
				ErrDependency, name, depName, constraint, dep.Manifest.Version)
		}
		if err := m.enableLocked(depName, visiting); err != nil {
			return err
		}
	}

	p.State = StateEnabled
	m.enabled[name] = true
	slog.Debug("plugin enabled", "plugin", name)
	return nil
}

// Disable disables a plugin, disabling plugins that depend on it first.
func (m *Manager) Disable(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plugins[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	m.disableLocked(name)
	return m.saveState()
}

func (m *Manager) disableLocked(name string) {
	if !m.enabled[name] {
		return
	}

	for depName, p := range m.plugins {
		if _, depends := p.Manifest.Dependencies[name]; depends {
			m.disableLocked(depName)
		}
	}

	delete(m.enabled, name)
	if p, ok := m.plugins[name]; ok {
		p.State = StateInstalled
	}
	slog.Debug("plugin disabled", "plugin", name)
}

// Install copies a plugin directory into the install dir.
// A plugin with the same name must not already be installed.
func (m *Manager) Install(sourceDir string) (*Plugin, error) {
	manifestPath, err := findManifest(sourceDir)
	if err != nil {
		return nil, err
	}
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.plugins[manifest.Name]; exists {
		return nil, fmt.Errorf("plugin already installed: %s", manifest.Name)
	}

	targetDir := filepath.Join(m.installDir, manifest.Name)
	if _, err := os.Stat(targetDir); err == nil {
		return nil, fmt.Errorf("plugin already installed: %s", manifest.Name)
	}

	if err := copyTree(sourceDir, targetDir); err != nil {
		return nil, fmt.Errorf("install %s: %w", manifest.Name, err)
	}

	p := &Plugin{Manifest: manifest, Dir: targetDir, State: StateInstalled}
	m.plugins[manifest.Name] = p
	return p, nil
}

// Uninstall disables the plugin and removes its directory.
func (m *Manager) Uninstall(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plugins[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	m.disableLocked(name)
	if err := m.saveState(); err != nil {
		return err
	}

	if err := os.RemoveAll(p.Dir); err != nil {
		return fmt.Errorf("remove plugin dir %s: %w", p.Dir, err)
	}
	delete(m.plugins, name)
	return nil
}

// RunCommand runs a command from an enabled plugin.
func (m *Manager) RunCommand(ctx context.Context, pluginName, commandName string, args ...string) (string, error) {
	p, err := m.Get(pluginName)
	if err != nil {
		return "", err
	}
	if !m.Enabled(pluginName) {
		return "", fmt.Errorf("plugin not enabled: %s", pluginName)
	}
	return p.RunCommand(ctx, commandName, args...)
}

// RunHook runs the named hook across all enabled plugins that define it,
// in priority order (lower first). Failures are logged and do not stop
// the remaining hooks; the returned map holds per-plugin stdout.
func (m *Manager) RunHook(ctx context.Context, hookName string, args ...string) map[string]string {
	m.mu.RLock()
	var targets []*Plugin
	for name, p := range m.plugins {
		if !m.enabled[name] {
			continue
		}
		if _, ok := p.Manifest.Hook(hookName); ok {
			targets = append(targets, p)
		}
	}
	m.mu.RUnlock()

	sort.Slice(targets, func(i, j int) bool {
		hi, _ := targets[i].Manifest.Hook(hookName)
		hj, _ := targets[j].Manifest.Hook(hookName)
		if hi.Priority != hj.Priority {
			return hi.Priority < hj.Priority
		}
		return targets[i].Manifest.Name < targets[j].Manifest.Name
	})

	results := map[string]string{}
	for _, p := range targets {
		out, err := p.RunHook(ctx, hookName, args...)
		if err != nil {
			slog.Warn("plugin hook failed", "plugin", p.Manifest.Name, "hook", hookName, "error", err)
			continue
		}
		results[p.Manifest.Name] = out
	}
	return results
}

// pluginState is the persisted shape of the enabled set.
type pluginState struct {
	Enabled []string `json:"enabled"`
}

func (m *Manager) loadState() error {
	if m.statePath == "" {
		return nil
	}
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var st pluginState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	for _, name := range st.Enabled {
		m.enabled[name] = true
	}
	return nil
}

func (m *Manager) saveState() error {
	if m.statePath == "" {
		return nil
	}

	st := pluginState{Enabled: make([]string, 0, len(m.enabled))}
	for name := range m.enabled {
		st.Enabled = append(st.Enabled, name)
	}
	sort.Strings(st.Enabled)

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.statePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(m.statePath, data, 0644)
}

// copyTree recursively copies src into dst, preserving file modes.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return err
		}
		defer out.Close()

		_, err = io.Copy(out, in)
		return err
	})
}
