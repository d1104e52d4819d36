package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyprsupreme/hyprsupreme/internal/config"
)

// themeExts lists the recognized theme file extensions in resolution order.
var themeExts = []string{"toml", "json"}

// Loader resolves themes by name across an ordered list of directories.
// Earlier directories shadow later ones, so user themes override bundled
// or data-dir themes of the same name.
type Loader struct {
	dirs []string
}

// NewLoader creates a loader with the given search directories.
func NewLoader(dirs ...string) *Loader {
	return &Loader{dirs: dirs}
}

// DefaultLoader returns a loader over the standard search path:
// user config themes, data-dir themes, then ./themes.
func DefaultLoader() *Loader {
	return NewLoader(
		config.ThemesDir(),
		filepath.Join(config.DataDir(), "themes"),
		"themes",
	)
}

// AddDir appends a search directory.
func (l *Loader) AddDir(dir string) {
	l.dirs = append(l.dirs, dir)
}

// Resolve returns the path of the theme file for name, trying
// NAME.toml, NAME.json, then NAME/theme.toml and NAME/theme.json
// in each search directory.
func (l *Loader) Resolve(name string) (string, error) {
	for _, dir := range l.dirs {
		for _, ext := range themeExts {
			p := filepath.Join(dir, name+"."+ext)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
		for _, ext := range themeExts {
			p := filepath.Join(dir, name, "theme."+ext)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load resolves and parses the named theme.
func (l *Loader) Load(name string) (*Theme, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	return FromFile(path)
}

// List returns the sorted, deduplicated names of all available themes.
func (l *Loader) List() []string {
	seen := map[string]bool{}
	var names []string

	for _, dir := range l.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := l.entryThemeName(dir, entry)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}

// entryThemeName maps a directory entry to a theme name, or "" if the
// entry is not a theme.
func (l *Loader) entryThemeName(dir string, entry fs.DirEntry) string {
	if entry.IsDir() {
		for _, ext := range themeExts {
			if _, err := os.Stat(filepath.Join(dir, entry.Name(), "theme."+ext)); err == nil {
				return entry.Name()
			}
		}
		return ""
	}

	ext := strings.TrimPrefix(filepath.Ext(entry.Name()), ".")
	for _, known := range themeExts {
		if ext == known {
			return strings.TrimSuffix(entry.Name(), "."+ext)
		}
	}
	return ""
}
