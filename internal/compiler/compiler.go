// Package compiler renders a resolved project configuration into the
// Hyprland config fragments under the build directory. The generated
// hyprsupreme.conf is meant to be sourced from the user's own
// hyprland.conf, so a rebuild never touches files hyprsupreme does not
// own.
package compiler

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/hyprsupreme/hyprsupreme/internal/config"
	"github.com/hyprsupreme/hyprsupreme/internal/effects"
	"github.com/hyprsupreme/hyprsupreme/internal/palette"
	"github.com/hyprsupreme/hyprsupreme/internal/theme"
)

const generatedHeader = `# Generated by hyprsupreme. Do not edit; changes are overwritten
# on the next build.
`

// Component names accepted by the Only filter.
var componentFragments = map[string]string{
	"theme":     "colors.conf",
	"binds":     "binds.conf",
	"autostart": "autostart.conf",
	"effects":   "effects.conf",
}

// Components returns the valid component names, sorted.
func Components() []string {
	names := make([]string, 0, len(componentFragments))
	for name := range componentFragments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Input bundles everything a build consumes. Theme and Preset are
// optional.
type Input struct {
	Config  *config.Config
	Profile string
	Theme   *theme.Theme
	Preset  *effects.Preset
	// Only limits which components are regenerated. Empty rebuilds
	// everything. The root hyprsupreme.conf is always rewritten.
	Only []string
	// DryRun renders everything but writes nothing.
	DryRun bool
}

// File describes one generated output file.
type File struct {
	Name  string
	Path  string
	Bytes int
}

// Result is the build report.
type Result struct {
	Profile string
	Theme   string
	Preset  string
	Files   []File
	Took    time.Duration
}

var (
	colorsTmpl = template.Must(template.New("colors").Parse(
		`{{range .Colors}}${{.Name}} = rgb({{.Value}})
{{end}}{{range .Variables}}${{.Name}} = {{.Value}}
{{end}}`))

	bindsTmpl = template.Must(template.New("binds").Parse(
		`{{range .}}{{if .Description}}# {{.Description}}
{{end}}bind = {{.Mods}}, {{.Key}}, exec, {{.Command}}
{{end}}`))

	autostartTmpl = template.Must(template.New("autostart").Parse(
		`{{range .}}exec-once = {{.}}
{{end}}`))

	rootTmpl = template.Must(template.New("root").Parse(
		`{{range .Sources}}source = {{.}}
{{end}}`))
)

type entry struct {
	Name  string
	Value string
}

type bindEntry struct {
	Description string
	Mods        string
	Key         string
	Command     string
}

// Build renders all fragments into outDir and returns the report.
func Build(in Input, outDir string) (*Result, error) {
	if in.Config == nil {
		return nil, fmt.Errorf("build: no configuration")
	}

	profileName := in.Profile
	if profileName == "" {
		profileName = in.Config.DefaultProfile
	}
	if _, err := in.Config.ActiveProfile(profileName); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	start := time.Now()
	if !in.DryRun {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return nil, fmt.Errorf("build: create %s: %w", outDir, err)
		}
	}

	result := &Result{Profile: profileName}
	if in.Theme != nil {
		result.Theme = in.Theme.Name
	}
	if in.Preset != nil {
		result.Preset = in.Preset.Name
	}

	fragments := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{"colors.conf", func() ([]byte, error) { return renderColors(in.Theme) }},
		{"binds.conf", func() ([]byte, error) { return renderBinds(in.Config, profileName) }},
		{"autostart.conf", func() ([]byte, error) { return renderAutostart(in.Config, profileName) }},
		{"effects.conf", func() ([]byte, error) { return renderEffects(in.Preset) }},
	}

	selected := map[string]bool{}
	for _, name := range in.Only {
		frag, ok := componentFragments[name]
		if !ok {
			return nil, fmt.Errorf("build: unknown component %q", name)
		}
		selected[frag] = true
	}

	var sources []string
	for _, frag := range fragments {
		path := filepath.Join(outDir, frag.name)
		sources = append(sources, path)
		if len(selected) > 0 && !selected[frag.name] {
			continue
		}

		data, err := frag.render()
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", frag.name, err)
		}
		if !in.DryRun {
			if err := writeAtomic(path, data); err != nil {
				return nil, fmt.Errorf("build %s: %w", frag.name, err)
			}
		}
		result.Files = append(result.Files, File{Name: frag.name, Path: path, Bytes: len(data)})
	}

	rootData, err := renderRoot(in.Config, sources)
	if err != nil {
		return nil, fmt.Errorf("build hyprsupreme.conf: %w", err)
	}
	rootPath := filepath.Join(outDir, "hyprsupreme.conf")
	if !in.DryRun {
		if err := writeAtomic(rootPath, rootData); err != nil {
			return nil, fmt.Errorf("build hyprsupreme.conf: %w", err)
		}
	}
	result.Files = append(result.Files, File{Name: "hyprsupreme.conf", Path: rootPath, Bytes: len(rootData)})

	result.Took = time.Since(start)
	slog.Debug("build finished", "profile", profileName, "files", len(result.Files), "took", result.Took.String())
	return result, nil
}

func renderColors(t *theme.Theme) ([]byte, error) {
	data := struct {
		Colors    []entry
		Variables []entry
	}{}

	if t != nil {
		for name, value := range t.Colors {
			c, err := palette.ParseHex(value)
			if err != nil {
				slog.Warn("skipping unparseable theme color", "name", name, "value", value)
				continue
			}
			hex := strings.TrimPrefix(palette.FormatHex(c), "#")
			data.Colors = append(data.Colors, entry{Name: name, Value: hex})
		}
		for name, value := range t.Variables {
			data.Variables = append(data.Variables, entry{Name: name, Value: value})
		}
		sortEntries(data.Colors)
		sortEntries(data.Variables)
	}

	return renderTemplate(colorsTmpl, data)
}

func renderBinds(cfg *config.Config, profileName string) ([]byte, error) {
	binds := make([]bindEntry, 0, len(cfg.Hyprland.Keybindings))
	for _, kb := range cfg.Hyprland.Keybindings {
		binds = append(binds, bindEntry{
			Description: kb.Description,
			Mods:        strings.Join(kb.Modifiers, " "),
			Key:         kb.Key,
			Command:     cfg.ResolveVariables(kb.Command, profileName),
		})
	}
	return renderTemplate(bindsTmpl, binds)
}

func renderAutostart(cfg *config.Config, profileName string) ([]byte, error) {
	lines := make([]string, 0, len(cfg.Hyprland.Autostart))
	for _, a := range cfg.Hyprland.Autostart {
		cmd := cfg.ResolveVariables(a.Command, profileName)
		if a.Wait {
			cmd = "sleep 1 && " + cmd
		}
		if a.Workspace != "" {
			cmd = fmt.Sprintf("[workspace %s silent] %s", a.Workspace, cmd)
		}
		lines = append(lines, cmd)
	}
	return renderTemplate(autostartTmpl, lines)
}

func renderEffects(p *effects.Preset) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	if p != nil {
		buf.WriteString("\n")
		buf.WriteString(p.Render())
	}
	return buf.Bytes(), nil
}

func renderRoot(cfg *config.Config, sources []string) ([]byte, error) {
	all := append([]string{}, sources...)
	for _, mod := range cfg.Hyprland.Modules {
		if !mod.IsEnabled() {
			continue
		}
		all = append(all, mod.Path)
	}
	return renderTemplate(rootTmpl, struct{ Sources []string }{Sources: all})
}

func renderTemplate(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	buf.WriteString("\n")
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortEntries(entries []entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
}

// writeAtomic writes data via a temp file and rename so Hyprland never
// sources a half-written fragment on reload.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".build-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
