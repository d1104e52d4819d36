package config

import (
	"errors"
	"os"
	"path/filepath"
)

const appDirName = "hyprsupreme"

// ConfigDir returns the hyprsupreme configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appDirName)
}

// DataDir returns the hyprsupreme data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, appDirName)
}

// StateDir returns the hyprsupreme state directory.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func StateDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, appDirName)
}

// ProjectConfigPath returns the default project configuration path.
func ProjectConfigPath() string {
	return filepath.Join(ConfigDir(), DefaultConfigName)
}

// DaemonConfigPath returns the path to the daemon configuration file.
func DaemonConfigPath() string {
	return filepath.Join(ConfigDir(), "daemon.toml")
}

// ThemesDir returns the user themes directory.
func ThemesDir() string {
	return filepath.Join(ConfigDir(), "themes")
}

// PluginsDir returns the user plugins directory.
func PluginsDir() string {
	return filepath.Join(ConfigDir(), "plugins")
}

// PluginStatePath returns the path of the plugin enablement state file.
func PluginStatePath() string {
	return filepath.Join(StateDir(), "plugins.json")
}

// EffectsPath returns the path of the user effects preset file.
func EffectsPath() string {
	return filepath.Join(ConfigDir(), "effects.yaml")
}

// BackupsDir returns the directory holding configuration backups.
func BackupsDir() string {
	return filepath.Join(DataDir(), "backups")
}

// HistoryDBPath returns the path to the sqlite history database.
func HistoryDBPath() string {
	return filepath.Join(DataDir(), "history.db")
}

// WorkspaceStatePath returns the path of the workspace tracker state file.
func WorkspaceStatePath() string {
	return filepath.Join(StateDir(), "workspaces.json")
}

// ActiveThemePath returns the path of the active theme state file.
func ActiveThemePath() string {
	return filepath.Join(StateDir(), "active-theme")
}

// BuildDir returns the default output directory for generated fragments.
func BuildDir() string {
	return filepath.Join(ConfigDir(), "generated")
}

// EnsureDirs creates the data and state directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{DataDir(), StateDir(), BackupsDir()} {
		if dir == "" {
			return errors.New("unable to determine user directories")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
