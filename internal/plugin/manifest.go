// Package plugin implements the hyprsupreme plugin lifecycle: manifest
// parsing, discovery, install/uninstall, enable/disable with dependency
// resolution, and hook/command execution.
package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
)

// Manifest file basenames tried during discovery, in order.
var manifestNames = []string{"plugin.toml", "plugin.json"}

// Errors callers branch on.
var (
	ErrNotFound   = errors.New("plugin not found")
	ErrDependency = errors.New("plugin dependency error")
	ErrNoManifest = errors.New("plugin manifest not found")
)

// Manifest describes a plugin: metadata, script hooks, user commands,
// and semver-constrained dependencies on other plugins.
type Manifest struct {
	Name         string            `toml:"name" json:"name"`
	DisplayName  string            `toml:"display_name,omitempty" json:"display_name,omitempty"`
	Version      string            `toml:"version" json:"version"`
	Author       string            `toml:"author,omitempty" json:"author,omitempty"`
	Description  string            `toml:"description,omitempty" json:"description,omitempty"`
	License      string            `toml:"license,omitempty" json:"license,omitempty"`
	Repository   string            `toml:"repository,omitempty" json:"repository,omitempty"`
	Dependencies map[string]string `toml:"dependencies" json:"dependencies"`
	Hooks        []Hook            `toml:"hooks" json:"hooks"`
	Commands     []Command         `toml:"commands" json:"commands"`
}

// Hook is a script run when a named lifecycle event fires.
// Lower priority runs first.
type Hook struct {
	Name     string `toml:"name" json:"name"`
	Script   string `toml:"script" json:"script"`
	Priority int    `toml:"priority" json:"priority"`
}

// Command is a user-invokable script exposed by the plugin.
type Command struct {
	Name        string `toml:"name" json:"name"`
	Description string `toml:"description,omitempty" json:"description,omitempty"`
	Script      string `toml:"script" json:"script"`
}

// LoadManifest parses a plugin.toml or plugin.json file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	m := &Manifest{Version: "0.1.0"}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", filepath.Ext(path))
	}

	if m.Name == "" {
		return nil, fmt.Errorf("manifest %s: missing plugin name", path)
	}
	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}

	return m, nil
}

// findManifest returns the manifest path inside dir, if any.
func findManifest(dir string) (string, error) {
	for _, name := range manifestNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoManifest, dir)
}

// Satisfies reports whether the manifest's version matches a semver
// constraint such as ">= 1.2.0" or "^0.3".
func (m *Manifest) Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return false, fmt.Errorf("invalid plugin version %q: %w", m.Version, err)
	}
	return c.Check(v), nil
}

// Hook returns the named hook and whether it exists.
func (m *Manifest) Hook(name string) (*Hook, bool) {
	for i := range m.Hooks {
		if m.Hooks[i].Name == name {
			return &m.Hooks[i], true
		}
	}
	return nil, false
}

// Command returns the named command and whether it exists.
func (m *Manifest) Command(name string) (*Command, bool) {
	for i := range m.Commands {
		if m.Commands[i].Name == name {
			return &m.Commands[i], true
		}
	}
	return nil, false
}
