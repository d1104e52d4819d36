package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Format identifies the on-disk encoding of a theme file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ErrNotFound is returned when a theme cannot be resolved by name.
var ErrNotFound = errors.New("theme not found")

// Theme is a named color scheme plus arbitrary variables.
type Theme struct {
	Name        string            `toml:"name" json:"name"`
	Author      string            `toml:"author,omitempty" json:"author,omitempty"`
	Description string            `toml:"description,omitempty" json:"description,omitempty"`
	Version     string            `toml:"version" json:"version"`
	Extends     string            `toml:"extends,omitempty" json:"extends,omitempty"`
	Colors      map[string]string `toml:"colors" json:"colors"`
	Variables   map[string]string `toml:"variables" json:"variables"`
	Metadata    map[string]string `toml:"metadata,omitempty" json:"metadata,omitempty"`
}

// New returns an empty theme with the given name.
func New(name string) *Theme {
	return &Theme{
		Name:      name,
		Version:   "0.1.0",
		Colors:    map[string]string{},
		Variables: map[string]string{},
		Metadata:  map[string]string{},
	}
}

// FromFile loads a theme from a .toml or .json file.
func FromFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme %s: %w", path, err)
	}

	t := New("")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("parse theme %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("parse theme %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported theme format %q", filepath.Ext(path))
	}

	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if t.Colors == nil {
		t.Colors = map[string]string{}
	}
	if t.Variables == nil {
		t.Variables = map[string]string{}
	}

	return t, nil
}

// Save writes the theme to path in the given format.
func (t *Theme) Save(path string, format Format) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatTOML:
		data, err = toml.Marshal(t)
	case FormatJSON:
		data, err = json.MarshalIndent(t, "", "  ")
	default:
		return fmt.Errorf("unsupported theme format %q", format)
	}
	if err != nil {
		return fmt.Errorf("serialize theme %s: %w", t.Name, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Merge overlays other's colors, variables and metadata onto t.
// Values from other win.
func (t *Theme) Merge(other *Theme) {
	for k, v := range other.Colors {
		t.Colors[k] = v
	}
	for k, v := range other.Variables {
		t.Variables[k] = v
	}
	if t.Metadata == nil {
		t.Metadata = map[string]string{}
	}
	for k, v := range other.Metadata {
		t.Metadata[k] = v
	}
}

// Color returns the named color and whether it exists.
func (t *Theme) Color(name string) (string, bool) {
	v, ok := t.Colors[name]
	return v, ok
}

// Variable returns the named variable and whether it exists.
func (t *Theme) Variable(name string) (string, bool) {
	v, ok := t.Variables[name]
	return v, ok
}
