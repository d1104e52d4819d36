package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyprsupreme/hyprsupreme/internal/notify"
)

func TestNew_MissingConfigUsesDefaults(t *testing.T) {
	d, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "daemon.toml"),
		ThemeDirs:  []string{t.TempDir()},
	})
	require.NoError(t, err)
	assert.False(t, d.cfg.AutoTheme.Enabled)
	assert.True(t, d.cfg.Workspace.Track)
}

func TestNew_BadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := New(Options{ConfigPath: path})
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daemon.toml")
	require.NoError(t, os.WriteFile(path, []byte("[workspace]\ntrack = false\n[notifications]\nenabled = false\n"), 0644))

	d, err := New(Options{ConfigPath: path, ThemeDirs: []string{t.TempDir()}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop after cancel")
	}
}

type countingNotifier struct {
	sends  int
	closed bool
}

func (c *countingNotifier) Send(notify.Notification) error { c.sends++; return nil }
func (c *countingNotifier) Close() error                   { c.closed = true; return nil }

func TestStartComponents_RebuildsNotifierFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daemon.toml")
	require.NoError(t, os.WriteFile(path, []byte("[workspace]\ntrack = false\n[notifications]\nenabled = false\n"), 0644))

	d, err := New(Options{ConfigPath: path, ThemeDirs: []string{t.TempDir()}, DisableAutoTheme: true})
	require.NoError(t, err)

	var built int
	current := &countingNotifier{}
	d.newNotifier = func() (notify.Notifier, error) {
		built++
		current = &countingNotifier{}
		return current, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := d.startComponents(ctx)
	stop()
	assert.Equal(t, 0, built)
	assert.IsType(t, notify.NopNotifier{}, d.notifier)

	d.cfg.Notifications.Enabled = true
	stop = d.startComponents(ctx)
	assert.Equal(t, 1, built)
	assert.Same(t, current, d.notifier)
	stop()
	assert.True(t, current.closed)
}

func TestConfigWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daemon.toml")
	require.NoError(t, os.WriteFile(path, []byte("[notifications]\nenabled = true\n"), 0644))

	changed := make(chan struct{}, 1)
	w, err := newConfigWatcher(path, 20*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("[notifications]\nenabled = false\n"), 0644))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("config change not observed")
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daemon.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	changed := make(chan struct{}, 1)
	w, err := newConfigWatcher(path, 20*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0644))

	select {
	case <-changed:
		t.Fatal("unrelated file triggered the watcher")
	case <-time.After(200 * time.Millisecond):
	}
}
