package theme

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hyprsupreme/hyprsupreme/internal/config"
)

// maxExtendsDepth bounds the extends chain to keep cycles from looping.
const maxExtendsDepth = 16

// Manager loads themes, resolves inheritance, and tracks the active theme.
// The active theme name survives restarts through a small state file.
type Manager struct {
	mu        sync.RWMutex
	loader    *Loader
	cache     map[string]*Theme
	active    *Theme
	statePath string
}

// NewManager creates a theme manager over the given loader.
// An empty statePath disables active-theme persistence.
func NewManager(loader *Loader, statePath string) *Manager {
	if loader == nil {
		loader = DefaultLoader()
	}
	return &Manager{
		loader:    loader,
		cache:     map[string]*Theme{},
		statePath: statePath,
	}
}

// DefaultManager returns a manager with the standard search path and
// state file location.
func DefaultManager() *Manager {
	return NewManager(DefaultLoader(), config.ActiveThemePath())
}

// Loader exposes the underlying loader.
func (m *Manager) Loader() *Loader {
	return m.loader
}

// List returns the names of all available themes.
func (m *Manager) List() []string {
	return m.loader.List()
}

// Load returns the named theme with its extends chain fully resolved.
// Results are cached until Invalidate is called.
func (m *Manager) Load(name string) (*Theme, error) {
	m.mu.RLock()
	cached, ok := m.cache[name]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	resolved, err := m.resolve(name, nil)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[name] = resolved
	m.mu.Unlock()
	return resolved, nil
}

// resolve loads name and folds base themes in, base-first, so that
// derived values win. chain carries the names already visited.
func (m *Manager) resolve(name string, chain []string) (*Theme, error) {
	for _, seen := range chain {
		if seen == name {
			return nil, fmt.Errorf("theme %s: extends cycle through %s", chain[0], name)
		}
	}
	if len(chain) >= maxExtendsDepth {
		return nil, fmt.Errorf("theme %s: extends chain too deep", name)
	}

	t, err := m.loader.Load(name)
	if err != nil {
		return nil, err
	}

	if t.Extends == "" {
		return t, nil
	}

	base, err := m.resolve(t.Extends, append(chain, name))
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}

	merged := New(t.Name)
	merged.Author = t.Author
	merged.Description = t.Description
	merged.Version = t.Version
	merged.Merge(base)
	merged.Merge(t)
	return merged, nil
}

// Apply loads the named theme and records it as active.
func (m *Manager) Apply(name string) (*Theme, error) {
	t, err := m.Load(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.active = t
	m.mu.Unlock()

	if m.statePath != "" {
		if err := os.MkdirAll(filepath.Dir(m.statePath), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(m.statePath, []byte(t.Name+"\n"), 0644); err != nil {
			return nil, fmt.Errorf("record active theme: %w", err)
		}
	}

	slog.Debug("theme applied", "theme", t.Name)
	return t, nil
}

// Active returns the active theme, loading it from the state file if the
// manager has not applied one in this process.
func (m *Manager) Active() (*Theme, error) {
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()
	if active != nil {
		return active, nil
	}

	name, err := m.ActiveName()
	if err != nil {
		return nil, err
	}
	return m.Load(name)
}

// ActiveName returns the recorded active theme name.
func (m *Manager) ActiveName() (string, error) {
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()
	if active != nil {
		return active.Name, nil
	}

	if m.statePath == "" {
		return "", fmt.Errorf("%w: no active theme", ErrNotFound)
	}
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		return "", fmt.Errorf("%w: no active theme", ErrNotFound)
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", fmt.Errorf("%w: no active theme", ErrNotFound)
	}
	return name, nil
}

// Save writes a theme into the first loader directory and caches it.
func (m *Manager) Save(t *Theme, format Format) (string, error) {
	if len(m.loader.dirs) == 0 {
		return "", fmt.Errorf("no theme directory configured")
	}

	path := filepath.Join(m.loader.dirs[0], t.Name+"."+string(format))
	if err := t.Save(path, format); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.cache[t.Name] = t
	m.mu.Unlock()
	return path, nil
}

// Invalidate drops the theme cache so subsequent loads hit the disk.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.cache = map[string]*Theme{}
	m.mu.Unlock()
}

// Reload re-reads the active theme from disk.
func (m *Manager) Reload() (*Theme, error) {
	name, err := m.ActiveName()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	delete(m.cache, name)
	m.mu.Unlock()

	return m.Apply(name)
}
