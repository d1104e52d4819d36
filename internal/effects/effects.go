// Package effects manages visual-effect presets for Hyprland: blur,
// shadows, rounding, animations and opacity, applied either as generated
// config fragments or as live hyprctl keyword batches.
package effects

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyprsupreme/hyprsupreme/internal/hypr"
)

// ErrNotFound is returned when a preset name cannot be resolved.
var ErrNotFound = errors.New("effects preset not found")

// Preset is a named bundle of decoration and animation settings.
type Preset struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Blur        BlurSettings    `yaml:"blur"`
	Shadow      ShadowSettings  `yaml:"shadow"`
	Rounding    int             `yaml:"rounding"`
	Animations  AnimationSettings `yaml:"animations"`
	Opacity     OpacitySettings `yaml:"opacity"`
}

// BlurSettings controls background blur.
type BlurSettings struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	Passes  int  `yaml:"passes"`
}

// ShadowSettings controls drop shadows.
type ShadowSettings struct {
	Enabled bool   `yaml:"enabled"`
	Range   int    `yaml:"range"`
	Power   int    `yaml:"render_power"`
	Color   string `yaml:"color,omitempty"`
}

// AnimationSettings controls window animations.
type AnimationSettings struct {
	Enabled bool    `yaml:"enabled"`
	Speed   float64 `yaml:"speed"`
	Bezier  string  `yaml:"bezier,omitempty"`
}

// OpacitySettings controls active/inactive window opacity.
type OpacitySettings struct {
	Active   float64 `yaml:"active"`
	Inactive float64 `yaml:"inactive"`
}

// builtins are the presets shipped with hyprsupreme.
var builtins = []Preset{
	{
		Name:        "minimal",
		Description: "No effects: sharp corners, no blur, no shadows",
		Rounding:    0,
		Opacity:     OpacitySettings{Active: 1.0, Inactive: 1.0},
	},
	{
		Name:        "performance",
		Description: "Cheap effects for weaker GPUs",
		Rounding:    4,
		Animations:  AnimationSettings{Enabled: true, Speed: 2.5},
		Opacity:     OpacitySettings{Active: 1.0, Inactive: 1.0},
	},
	{
		Name:        "balanced",
		Description: "Light blur and shadows",
		Blur:        BlurSettings{Enabled: true, Size: 4, Passes: 1},
		Shadow:      ShadowSettings{Enabled: true, Range: 8, Power: 2},
		Rounding:    8,
		Animations:  AnimationSettings{Enabled: true, Speed: 1.8},
		Opacity:     OpacitySettings{Active: 1.0, Inactive: 0.95},
	},
	{
		Name:        "fancy",
		Description: "Full blur, shadows and springy animations",
		Blur:        BlurSettings{Enabled: true, Size: 8, Passes: 3},
		Shadow:      ShadowSettings{Enabled: true, Range: 20, Power: 3, Color: "rgba(1a1a1aee)"},
		Rounding:    12,
		Animations:  AnimationSettings{Enabled: true, Speed: 1.0, Bezier: "wind, 0.05, 0.9, 0.1, 1.05"},
		Opacity:     OpacitySettings{Active: 0.97, Inactive: 0.88},
	},
}

// Registry resolves presets by name: user presets from effects.yaml
// shadow built-in ones of the same name.
type Registry struct {
	presets map[string]Preset
}

// NewRegistry returns a registry with the built-in presets.
func NewRegistry() *Registry {
	r := &Registry{presets: map[string]Preset{}}
	for _, p := range builtins {
		r.presets[p.Name] = p
	}
	return r
}

// LoadUserPresets overlays presets from a YAML file of the shape
// `presets: [ {...}, ... ]`. A missing file is not an error.
func (r *Registry) LoadUserPresets(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var doc struct {
		Presets []Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse effects file %s: %w", path, err)
	}

	for _, p := range doc.Presets {
		if p.Name == "" {
			return fmt.Errorf("effects file %s: preset without a name", path)
		}
		r.presets[p.Name] = p
	}
	return nil
}

// Get returns the named preset.
func (r *Registry) Get(name string) (Preset, error) {
	p, ok := r.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

// Names returns the sorted preset names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keyword is one planned hyprctl keyword assignment.
type Keyword struct {
	Name  string
	Value string
}

// Keywords returns the keyword batch that realizes the preset.
func (p Preset) Keywords() []Keyword {
	kws := []Keyword{
		{"decoration:rounding", fmt.Sprintf("%d", p.Rounding)},
		{"decoration:blur:enabled", boolToInt(p.Blur.Enabled)},
		{"decoration:shadow:enabled", boolToInt(p.Shadow.Enabled)},
		{"animations:enabled", boolToInt(p.Animations.Enabled)},
		{"decoration:active_opacity", trimFloat(p.Opacity.Active)},
		{"decoration:inactive_opacity", trimFloat(p.Opacity.Inactive)},
	}

	if p.Blur.Enabled {
		kws = append(kws,
			Keyword{"decoration:blur:size", fmt.Sprintf("%d", p.Blur.Size)},
			Keyword{"decoration:blur:passes", fmt.Sprintf("%d", p.Blur.Passes)},
		)
	}
	if p.Shadow.Enabled {
		kws = append(kws,
			Keyword{"decoration:shadow:range", fmt.Sprintf("%d", p.Shadow.Range)},
			Keyword{"decoration:shadow:render_power", fmt.Sprintf("%d", p.Shadow.Power)},
		)
		if p.Shadow.Color != "" {
			kws = append(kws, Keyword{"decoration:shadow:color", p.Shadow.Color})
		}
	}
	if p.Animations.Enabled && p.Animations.Bezier != "" {
		kws = append(kws, Keyword{"animations:bezier", p.Animations.Bezier})
	}

	return kws
}

// Render emits the preset as a hyprland.conf fragment.
func (p Preset) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# effects preset: %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "# %s\n", p.Description)
	}

	b.WriteString("decoration {\n")
	fmt.Fprintf(&b, "    rounding = %d\n", p.Rounding)
	fmt.Fprintf(&b, "    active_opacity = %s\n", trimFloat(p.Opacity.Active))
	fmt.Fprintf(&b, "    inactive_opacity = %s\n", trimFloat(p.Opacity.Inactive))
	b.WriteString("    blur {\n")
	fmt.Fprintf(&b, "        enabled = %s\n", boolToConf(p.Blur.Enabled))
	if p.Blur.Enabled {
		fmt.Fprintf(&b, "        size = %d\n", p.Blur.Size)
		fmt.Fprintf(&b, "        passes = %d\n", p.Blur.Passes)
	}
	b.WriteString("    }\n")
	b.WriteString("    shadow {\n")
	fmt.Fprintf(&b, "        enabled = %s\n", boolToConf(p.Shadow.Enabled))
	if p.Shadow.Enabled {
		fmt.Fprintf(&b, "        range = %d\n", p.Shadow.Range)
		fmt.Fprintf(&b, "        render_power = %d\n", p.Shadow.Power)
		if p.Shadow.Color != "" {
			fmt.Fprintf(&b, "        color = %s\n", p.Shadow.Color)
		}
	}
	b.WriteString("    }\n")
	b.WriteString("}\n")

	b.WriteString("animations {\n")
	fmt.Fprintf(&b, "    enabled = %s\n", boolToConf(p.Animations.Enabled))
	if p.Animations.Enabled {
		if p.Animations.Bezier != "" {
			fmt.Fprintf(&b, "    bezier = %s\n", p.Animations.Bezier)
		}
		fmt.Fprintf(&b, "    animation = windows, 1, %s, default\n", trimFloat(p.Animations.Speed))
	}
	b.WriteString("}\n")

	return b.String()
}

// Apply pushes the preset's keywords through the dispatcher.
// With dryRun, nothing is dispatched and the planned batch is returned.
func (p Preset) Apply(d hypr.Dispatcher, dryRun bool) ([]Keyword, error) {
	kws := p.Keywords()
	if dryRun {
		return kws, nil
	}
	for _, kw := range kws {
		if err := d.Keyword(kw.Name, kw.Value); err != nil {
			return kws, fmt.Errorf("apply preset %s: %w", p.Name, err)
		}
	}
	return kws, nil
}

func boolToInt(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func boolToConf(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
