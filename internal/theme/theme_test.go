package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTheme(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFromFile_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "tokyonight.toml", `
name = "tokyonight"
author = "someone"
version = "1.0.0"

[colors]
background = "#1a1b26"
accent = "#7aa2f7"

[variables]
font = "JetBrainsMono Nerd Font"
`)

	th, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tokyonight", th.Name)
	assert.Equal(t, "#1a1b26", th.Colors["background"])
	assert.Equal(t, "JetBrainsMono Nerd Font", th.Variables["font"])
}

func TestFromFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "nord.json", `{
  "name": "nord",
  "colors": {"background": "#2e3440"}
}`)

	th, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nord", th.Name)
	assert.Equal(t, "#2e3440", th.Colors["background"])
}

func TestFromFile_NameFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "gruvbox.toml", `
[colors]
background = "#282828"
`)

	th, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gruvbox", th.Name)
}

func TestFromFile_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "bad.yaml", "name: nope")

	_, err := FromFile(path)
	assert.Error(t, err)
}

func TestSaveRoundtrip(t *testing.T) {
	dir := t.TempDir()

	th := New("custom")
	th.Colors["accent"] = "#bb9af7"

	tomlPath := filepath.Join(dir, "custom.toml")
	require.NoError(t, th.Save(tomlPath, FormatTOML))
	loaded, err := FromFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "#bb9af7", loaded.Colors["accent"])

	jsonPath := filepath.Join(dir, "custom.json")
	require.NoError(t, th.Save(jsonPath, FormatJSON))
	loaded, err = FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "#bb9af7", loaded.Colors["accent"])
}

func TestMerge(t *testing.T) {
	base := New("base")
	base.Colors["background"] = "#000000"
	base.Colors["accent"] = "#ff0000"

	overlay := New("overlay")
	overlay.Colors["accent"] = "#00ff00"
	overlay.Variables["font"] = "monospace"

	base.Merge(overlay)
	assert.Equal(t, "#000000", base.Colors["background"])
	assert.Equal(t, "#00ff00", base.Colors["accent"])
	assert.Equal(t, "monospace", base.Variables["font"])
}

func TestLoader_Resolve(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "flat.toml", `name = "flat"`)
	writeTheme(t, dir, filepath.Join("nested", "theme.json"), `{"name": "nested"}`)

	l := NewLoader(dir)

	p, err := l.Resolve("flat")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flat.toml"), p)

	p, err = l.Resolve("nested")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "theme.json"), p)

	_, err = l.Resolve("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoader_EarlierDirShadows(t *testing.T) {
	user := t.TempDir()
	system := t.TempDir()
	writeTheme(t, user, "dual.toml", `
name = "dual"
[colors]
accent = "#user"
`)
	writeTheme(t, system, "dual.toml", `
name = "dual"
[colors]
accent = "#system"
`)

	l := NewLoader(user, system)
	th, err := l.Load("dual")
	require.NoError(t, err)
	assert.Equal(t, "#user", th.Colors["accent"])
}

func TestLoader_List(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeTheme(t, a, "zeta.toml", `name = "zeta"`)
	writeTheme(t, a, filepath.Join("alpha", "theme.toml"), `name = "alpha"`)
	writeTheme(t, b, "zeta.json", `{"name": "zeta"}`)
	writeTheme(t, b, "notes.txt", "not a theme")

	l := NewLoader(a, b)
	assert.Equal(t, []string{"alpha", "zeta"}, l.List())
}

func TestManager_ResolvesExtendsChain(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "base.toml", `
name = "base"
[colors]
background = "#1a1b26"
accent = "#7aa2f7"
`)
	writeTheme(t, dir, "derived.toml", `
name = "derived"
extends = "base"
[colors]
accent = "#bb9af7"
`)

	m := NewManager(NewLoader(dir), "")
	th, err := m.Load("derived")
	require.NoError(t, err)
	assert.Equal(t, "derived", th.Name)
	assert.Equal(t, "#1a1b26", th.Colors["background"], "inherited from base")
	assert.Equal(t, "#bb9af7", th.Colors["accent"], "derived wins")
}

func TestManager_ExtendsCycle(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "a.toml", `
name = "a"
extends = "b"
`)
	writeTheme(t, dir, "b.toml", `
name = "b"
extends = "a"
`)

	m := NewManager(NewLoader(dir), "")
	_, err := m.Load("a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestManager_ApplyAndActive(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "night.toml", `
name = "night"
[colors]
background = "#16161e"
`)
	statePath := filepath.Join(t.TempDir(), "active-theme")

	m := NewManager(NewLoader(dir), statePath)
	_, err := m.Apply("night")
	require.NoError(t, err)

	name, err := m.ActiveName()
	require.NoError(t, err)
	assert.Equal(t, "night", name)

	// A fresh manager picks the active theme up from the state file.
	m2 := NewManager(NewLoader(dir), statePath)
	th, err := m2.Active()
	require.NoError(t, err)
	assert.Equal(t, "night", th.Name)
}

func TestManager_ActiveWithoutState(t *testing.T) {
	m := NewManager(NewLoader(t.TempDir()), "")
	_, err := m.Active()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_InvalidateRereadsDisk(t *testing.T) {
	dir := t.TempDir()
	path := writeTheme(t, dir, "mut.toml", `
name = "mut"
[colors]
accent = "#111111"
`)

	m := NewManager(NewLoader(dir), "")
	th, err := m.Load("mut")
	require.NoError(t, err)
	assert.Equal(t, "#111111", th.Colors["accent"])

	writeTheme(t, dir, filepath.Base(path), `
name = "mut"
[colors]
accent = "#222222"
`)

	// Cached until invalidated.
	th, err = m.Load("mut")
	require.NoError(t, err)
	assert.Equal(t, "#111111", th.Colors["accent"])

	m.Invalidate()
	th, err = m.Load("mut")
	require.NoError(t, err)
	assert.Equal(t, "#222222", th.Colors["accent"])
}

func TestThemeNameFromPath(t *testing.T) {
	assert.Equal(t, "foo", themeNameFromPath("/themes/foo.toml"))
	assert.Equal(t, "bar", themeNameFromPath("/themes/bar/theme.json"))
	assert.Equal(t, "", themeNameFromPath("/themes/readme.md"))
}
