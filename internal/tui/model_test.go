package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyprsupreme/hyprsupreme/internal/theme"
)

func testManager(t *testing.T) *theme.Manager {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tokyonight.toml"),
		[]byte("name = \"tokyonight\"\ndescription = \"dark blues\"\n\n[colors]\nbackground = \"#1a1b26\"\naccent = \"#7aa2f7\"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "latte.toml"),
		[]byte("name = \"latte\"\n"), 0644))
	statePath := filepath.Join(t.TempDir(), "active-theme")
	return theme.NewManager(theme.NewLoader(dir), statePath)
}

func TestModel_LoadThemes(t *testing.T) {
	m := NewModel(testManager(t))

	msg := m.loadThemes()
	loaded, ok := msg.(themesLoadedMsg)
	require.True(t, ok)
	require.Len(t, loaded.items, 2)

	first, ok := loaded.items[0].(themeItem)
	require.True(t, ok)
	assert.Equal(t, "latte", first.name)
}

func TestModel_ApplySelected(t *testing.T) {
	manager := testManager(t)
	m := NewModel(manager)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	updated, _ = m.Update(m.loadThemes())
	m = updated.(Model)

	cmd := m.applySelected()
	require.NotNil(t, cmd)
	msg := cmd()
	applied, ok := msg.(appliedMsg)
	require.True(t, ok)
	assert.Equal(t, "latte", applied.name)

	active, err := manager.ActiveName()
	require.NoError(t, err)
	assert.Equal(t, "latte", active)
}

func TestModel_AppliedUpdatesStatus(t *testing.T) {
	m := NewModel(testManager(t))

	updated, cmd := m.Update(appliedMsg{name: "latte"})
	m = updated.(Model)
	assert.Equal(t, "applied latte", m.statusMsg)
	assert.False(t, m.statusErr)
	assert.NotNil(t, cmd)
}

func TestModel_ErrorUpdatesStatus(t *testing.T) {
	m := NewModel(testManager(t))

	updated, _ := m.Update(errorMsg{err: assert.AnError})
	m = updated.(Model)
	assert.True(t, m.statusErr)
	assert.NotEmpty(t, m.statusMsg)
}

func TestModel_ViewBeforeSize(t *testing.T) {
	m := NewModel(testManager(t))
	assert.Equal(t, "loading...", m.View())
}

func TestRenderSwatches(t *testing.T) {
	lines := renderSwatches(map[string]string{
		"background": "#1a1b26",
		"accent":     "#7aa2f7",
	})
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "accent")
	assert.Contains(t, lines[1], "background")
}

func TestKeyMapHelp(t *testing.T) {
	k := DefaultKeyMap()
	assert.NotEmpty(t, k.ShortHelp())
	assert.NotEmpty(t, k.FullHelp())
}
