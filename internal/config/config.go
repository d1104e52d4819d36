// Package config handles hyprsupreme project configuration loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultProfileName = "default"
	DefaultConfigName  = "hyprsupreme.toml"
	DefaultVersion     = "0.1.0"
)

// varRegex matches ${name} variable references in configuration values.
var varRegex = regexp.MustCompile(`\$\{([a-zA-Z0-9_.-]+)\}`)

// ErrProfileNotFound is returned when a named profile does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// Config is the root hyprsupreme project configuration.
type Config struct {
	Metadata       Metadata           `toml:"metadata"`
	Variables      map[string]string  `toml:"variables"`
	Profiles       map[string]Profile `toml:"profiles"`
	DefaultProfile string             `toml:"default_profile"`
	Imports        []Import           `toml:"imports"`
	Hyprland       HyprlandConfig     `toml:"hyprland"`
}

// Metadata describes the configuration project.
type Metadata struct {
	Name        string `toml:"name"`
	Author      string `toml:"author,omitempty"`
	Version     string `toml:"version"`
	Description string `toml:"description,omitempty"`
}

// Profile carries per-environment overrides (e.g. laptop, desktop, work).
type Profile struct {
	Variables map[string]string `toml:"variables"`
	Imports   []Import          `toml:"imports"`
	Hyprland  *HyprlandConfig   `toml:"hyprland,omitempty"`
}

// Import references another configuration file to pull in.
// When Merge is true, keys already present in the importing file win.
type Import struct {
	Path  string `toml:"path"`
	Merge bool   `toml:"merge"`
}

// HyprlandConfig holds the Hyprland-facing part of the configuration.
type HyprlandConfig struct {
	ConfigPath  string            `toml:"config_path,omitempty"`
	Modules     []Module          `toml:"modules"`
	Theme       map[string]string `toml:"theme"`
	Keybindings []Keybinding      `toml:"keybindings"`
	Autostart   []Autostart       `toml:"autostart"`
}

// Module is a named configuration fragment included from the generated config.
type Module struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
	// Enabled defaults to true when the key is omitted.
	Enabled *bool `toml:"enabled,omitempty"`
}

// IsEnabled reports whether the module should be sourced from the
// generated config. A module without an explicit enabled key is enabled.
func (m Module) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// Keybinding describes a single Hyprland bind line.
type Keybinding struct {
	Modifiers   []string `toml:"modifiers"`
	Key         string   `toml:"key"`
	Command     string   `toml:"command"`
	Description string   `toml:"description,omitempty"`
}

// Autostart describes an exec-once entry.
type Autostart struct {
	Command   string `toml:"command"`
	Wait      bool   `toml:"wait"`
	Workspace string `toml:"workspace,omitempty"`
}

// DefaultConfig returns a Config with sensible starter values.
func DefaultConfig() *Config {
	return &Config{
		Metadata: Metadata{
			Name:        "hyprsupreme-config",
			Author:      "HyprSupreme User",
			Version:     DefaultVersion,
			Description: "A HyprSupreme configuration",
		},
		Variables: map[string]string{
			"color.background": "#1a1b26",
			"color.foreground": "#c0caf5",
			"color.accent":     "#7aa2f7",
		},
		Profiles: map[string]Profile{
			DefaultProfileName: {
				Variables: map[string]string{
					"terminal": "kitty",
					"browser":  "firefox",
				},
			},
			"laptop": {
				Variables: map[string]string{
					"scale": "1.5",
				},
			},
		},
		DefaultProfile: DefaultProfileName,
		Hyprland: HyprlandConfig{
			Theme: map[string]string{},
			Keybindings: []Keybinding{
				{Modifiers: []string{"SUPER"}, Key: "Return", Command: "${terminal}", Description: "Launch terminal"},
				{Modifiers: []string{"SUPER"}, Key: "B", Command: "${browser}", Description: "Launch browser"},
			},
		},
	}
}

// MinimalConfig returns a Config with only the required fields filled in.
func MinimalConfig() *Config {
	return &Config{
		Metadata: Metadata{
			Name:    "hyprsupreme-config",
			Version: DefaultVersion,
		},
		Profiles: map[string]Profile{
			DefaultProfileName: {},
		},
		DefaultProfile: DefaultProfileName,
	}
}

// Load reads a project configuration from path and processes its imports.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	if err := cfg.processImports(baseDir, map[string]bool{}); err != nil {
		return nil, err
	}

	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = DefaultProfileName
	}

	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Variables == nil {
		cfg.Variables = map[string]string{}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}
	if cfg.Hyprland.Theme == nil {
		cfg.Hyprland.Theme = map[string]string{}
	}

	return cfg, nil
}

// processImports pulls in imported files depth-first.
// The seen map guards against import cycles.
func (c *Config) processImports(baseDir string, seen map[string]bool) error {
	imports := c.Imports
	c.Imports = nil

	for _, imp := range imports {
		full := imp.Path
		if !filepath.IsAbs(full) {
			full = filepath.Join(baseDir, full)
		}

		if seen[full] {
			continue
		}
		seen[full] = true

		imported, err := loadFile(full)
		if err != nil {
			return fmt.Errorf("import %s: %w", imp.Path, err)
		}

		if err := imported.processImports(filepath.Dir(full), seen); err != nil {
			return err
		}

		c.merge(imported, imp.Merge)
	}

	return nil
}

// merge folds another configuration into this one.
// With keepExisting, keys already present here are left untouched.
func (c *Config) merge(other *Config, keepExisting bool) {
	for k, v := range other.Variables {
		if keepExisting {
			if _, ok := c.Variables[k]; ok {
				continue
			}
		}
		c.Variables[k] = v
	}

	for name, p := range other.Profiles {
		existing, ok := c.Profiles[name]
		if !ok {
			c.Profiles[name] = p
			continue
		}
		if keepExisting {
			for k, v := range p.Variables {
				if _, has := existing.Variables[k]; !has {
					if existing.Variables == nil {
						existing.Variables = map[string]string{}
					}
					existing.Variables[k] = v
				}
			}
			if existing.Hyprland == nil {
				existing.Hyprland = p.Hyprland
			}
			c.Profiles[name] = existing
		} else {
			c.Profiles[name] = p
		}
	}

	if !keepExisting {
		// A non-merge import replaces the whole hyprland block unless
		// this config pins its own config_path.
		if c.Hyprland.ConfigPath == "" {
			c.Hyprland = other.Hyprland
			if c.Hyprland.Theme == nil {
				c.Hyprland.Theme = map[string]string{}
			}
		}
		return
	}

	c.Hyprland.Modules = append(c.Hyprland.Modules, other.Hyprland.Modules...)
	c.Hyprland.Keybindings = append(c.Hyprland.Keybindings, other.Hyprland.Keybindings...)
	c.Hyprland.Autostart = append(c.Hyprland.Autostart, other.Hyprland.Autostart...)
	for k, v := range other.Hyprland.Theme {
		if _, ok := c.Hyprland.Theme[k]; !ok {
			c.Hyprland.Theme[k] = v
		}
	}
}

// ActiveProfile returns the named profile, falling back to the default.
func (c *Config) ActiveProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return &p, nil
}

// ResolveVariables expands ${name} references in input.
// Profile variables take precedence over global ones. Unknown variables
// expand to the empty string. Each variable is expanded at most once to
// keep self-referencing definitions from looping.
func (c *Config) ResolveVariables(input string, profileName string) string {
	var profileVars map[string]string
	if p, err := c.ActiveProfile(profileName); err == nil {
		profileVars = p.Variables
	}

	visited := map[string]bool{}
	result := input

	for {
		m := varRegex.FindStringSubmatch(result)
		if m == nil {
			break
		}
		name := m[1]
		if visited[name] {
			break
		}
		visited[name] = true

		replacement := ""
		if v, ok := profileVars[name]; ok {
			replacement = v
		} else if v, ok := c.Variables[name]; ok {
			replacement = v
		}
		result = strings.ReplaceAll(result, m[0], replacement)
	}

	return result
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
