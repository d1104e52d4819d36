package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyprsupreme/hyprsupreme/internal/config"
	"github.com/hyprsupreme/hyprsupreme/internal/effects"
	"github.com/hyprsupreme/hyprsupreme/internal/theme"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Hyprland.Autostart = []config.Autostart{
		{Command: "waybar"},
		{Command: "${browser}", Workspace: "web"},
		{Command: "nm-applet", Wait: true},
	}
	return cfg
}

func readGenerated(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	th := theme.New("tokyonight")
	th.Colors = map[string]string{
		"background": "#1a1b26",
		"accent":     "#7aa2f7",
	}
	th.Variables = map[string]string{"rounding": "8"}
	preset := effects.Preset{Name: "balanced", Rounding: 8}

	result, err := Build(Input{
		Config: testConfig(),
		Theme:  th,
		Preset: &preset,
	}, dir)
	require.NoError(t, err)

	assert.Equal(t, "default", result.Profile)
	assert.Equal(t, "tokyonight", result.Theme)
	assert.Equal(t, "balanced", result.Preset)
	require.Len(t, result.Files, 5)
	for _, f := range result.Files {
		assert.FileExists(t, f.Path)
		assert.Positive(t, f.Bytes)
	}
}

func TestBuild_Colors(t *testing.T) {
	dir := t.TempDir()
	th := theme.New("test")
	th.Colors = map[string]string{
		"background": "#1a1b26",
		"bogus":      "not-a-color",
	}
	th.Variables = map[string]string{"gaps": "10"}

	_, err := Build(Input{Config: testConfig(), Theme: th}, dir)
	require.NoError(t, err)

	colors := readGenerated(t, dir, "colors.conf")
	assert.Contains(t, colors, "$background = rgb(1a1b26)")
	assert.Contains(t, colors, "$gaps = 10")
	assert.NotContains(t, colors, "bogus")
}

func TestBuild_BindsResolveVariables(t *testing.T) {
	dir := t.TempDir()

	_, err := Build(Input{Config: testConfig()}, dir)
	require.NoError(t, err)

	binds := readGenerated(t, dir, "binds.conf")
	assert.Contains(t, binds, "bind = SUPER, Return, exec, kitty")
	assert.Contains(t, binds, "bind = SUPER, B, exec, firefox")
	assert.Contains(t, binds, "# Launch terminal")
}

func TestBuild_Autostart(t *testing.T) {
	dir := t.TempDir()

	_, err := Build(Input{Config: testConfig()}, dir)
	require.NoError(t, err)

	autostart := readGenerated(t, dir, "autostart.conf")
	assert.Contains(t, autostart, "exec-once = waybar")
	assert.Contains(t, autostart, "exec-once = [workspace web silent] firefox")
	assert.Contains(t, autostart, "exec-once = sleep 1 && nm-applet")
}

func TestBuild_RootSourcesFragmentsAndModules(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	off := false
	cfg.Hyprland.Modules = []config.Module{
		{Name: "monitors", Path: "/home/user/.config/hypr/monitors.conf"},
		{Name: "disabled", Path: "/home/user/.config/hypr/disabled.conf", Enabled: &off},
	}

	_, err := Build(Input{Config: cfg}, dir)
	require.NoError(t, err)

	root := readGenerated(t, dir, "hyprsupreme.conf")
	assert.Contains(t, root, "source = "+filepath.Join(dir, "colors.conf"))
	assert.Contains(t, root, "source = "+filepath.Join(dir, "effects.conf"))
	assert.Contains(t, root, "monitors.conf")
	assert.NotContains(t, root, "disabled.conf")
}

func TestBuild_Header(t *testing.T) {
	dir := t.TempDir()

	_, err := Build(Input{Config: testConfig()}, dir)
	require.NoError(t, err)

	for _, name := range []string{"colors.conf", "binds.conf", "autostart.conf", "effects.conf", "hyprsupreme.conf"} {
		content := readGenerated(t, dir, name)
		assert.True(t, strings.HasPrefix(content, "# Generated by hyprsupreme"), "%s missing header", name)
	}
}

func TestBuild_OnlyComponent(t *testing.T) {
	dir := t.TempDir()

	_, err := Build(Input{Config: testConfig()}, dir)
	require.NoError(t, err)

	// Drop binds.conf, then rebuild only autostart. binds.conf must
	// stay absent while the root conf still references everything.
	require.NoError(t, os.Remove(filepath.Join(dir, "binds.conf")))

	result, err := Build(Input{Config: testConfig(), Only: []string{"autostart"}}, dir)
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	assert.NoFileExists(t, filepath.Join(dir, "binds.conf"))
	root := readGenerated(t, dir, "hyprsupreme.conf")
	assert.Contains(t, root, "binds.conf")
}

func TestBuild_UnknownComponent(t *testing.T) {
	_, err := Build(Input{Config: testConfig(), Only: []string{"nope"}}, t.TempDir())
	assert.ErrorContains(t, err, "unknown component")
}

func TestComponents(t *testing.T) {
	assert.Equal(t, []string{"autostart", "binds", "effects", "theme"}, Components())
}

func TestBuild_UnknownProfile(t *testing.T) {
	_, err := Build(Input{Config: testConfig(), Profile: "nope"}, t.TempDir())
	assert.ErrorIs(t, err, config.ErrProfileNotFound)
}

func TestBuild_ProfileVariables(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Profiles["laptop"] = config.Profile{Variables: map[string]string{
		"terminal": "alacritty",
	}}

	_, err := Build(Input{Config: cfg, Profile: "laptop"}, dir)
	require.NoError(t, err)

	binds := readGenerated(t, dir, "binds.conf")
	assert.Contains(t, binds, "bind = SUPER, Return, exec, alacritty")
}

func TestBuild_DryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "generated")

	result, err := Build(Input{Config: testConfig(), DryRun: true}, dir)
	require.NoError(t, err)
	assert.Len(t, result.Files, 5)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
