package plugin

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// State describes the lifecycle state of a plugin.
type State string

const (
	StateInstalled State = "installed"
	StateEnabled   State = "enabled"
)

// Plugin is an installed plugin: its manifest plus its directory on disk.
type Plugin struct {
	Manifest *Manifest
	Dir      string
	State    State
}

// RunHook executes the named hook script and returns its stdout.
func (p *Plugin) RunHook(ctx context.Context, name string, args ...string) (string, error) {
	hook, ok := p.Manifest.Hook(name)
	if !ok {
		return "", fmt.Errorf("plugin %s: hook %q not found", p.Manifest.Name, name)
	}
	return p.runScript(ctx, hook.Script, args)
}

// RunCommand executes the named command script and returns its stdout.
func (p *Plugin) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd, ok := p.Manifest.Command(name)
	if !ok {
		return "", fmt.Errorf("plugin %s: command %q not found", p.Manifest.Name, name)
	}
	return p.runScript(ctx, cmd.Script, args)
}

// runScript runs a script relative to the plugin directory. A non-zero
// exit is an error carrying the script's stderr.
func (p *Plugin) runScript(ctx context.Context, script string, args []string) (string, error) {
	scriptPath := filepath.Join(p.Dir, script)
	if _, err := os.Stat(scriptPath); err != nil {
		return "", fmt.Errorf("plugin %s: script %s: %w", p.Manifest.Name, script, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, scriptPath, args...)
	cmd.Dir = p.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("plugin %s: script %s failed: %s", p.Manifest.Name, script, msg)
	}

	return stdout.String(), nil
}
