package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyprsupreme/hyprsupreme/internal/hypr"
)

type fakeQuerier struct {
	clients []hypr.Client
	err     error
}

func (f *fakeQuerier) Clients() ([]hypr.Client, error)       { return f.clients, f.err }
func (f *fakeQuerier) Workspaces() ([]hypr.Workspace, error) { return nil, nil }
func (f *fakeQuerier) Monitors() ([]hypr.Monitor, error)     { return nil, nil }
func (f *fakeQuerier) ActiveWindow() (*hypr.Client, error)   { return nil, nil }

type fakeDispatcher struct {
	calls [][]string
	err   error
}

func (f *fakeDispatcher) Dispatch(args ...string) error {
	f.calls = append(f.calls, args)
	return f.err
}

func (f *fakeDispatcher) Keyword(name, value string) error { return f.err }
func (f *fakeDispatcher) Reload() error                    { return f.err }

func client(addr, class, ws string) hypr.Client {
	return hypr.Client{
		Address:   addr,
		Class:     class,
		Title:     class + " window",
		Workspace: hypr.WorkspaceRef{Name: ws},
	}
}

func TestTracker_Resync(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	q := &fakeQuerier{clients: []hypr.Client{
		client("0xaaa", "foot", "1"),
		client("0xbbb", "firefox", "web"),
	}}

	tr := NewTracker(s, q)
	require.NoError(t, tr.Resync())

	assert.Equal(t, 2, s.Count())
	w, ok := s.Get("aaa")
	require.True(t, ok)
	assert.Equal(t, "1", w.Workspace)
	assert.Equal(t, "foot", w.Class)
}

func TestTracker_HandleOpenWindow(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	tr := NewTracker(s, &fakeQuerier{})

	err := tr.Handle(hypr.Event{Kind: hypr.EventOpenWindow, Data: "aaa,2,foot,terminal"})
	require.NoError(t, err)

	w, ok := s.Get("aaa")
	require.True(t, ok)
	assert.Equal(t, "2", w.Workspace)
	assert.Equal(t, "foot", w.Class)
	assert.Equal(t, "terminal", w.Title)
}

func TestTracker_HandleOpenWindowShortPayload(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	tr := NewTracker(s, &fakeQuerier{})

	err := tr.Handle(hypr.Event{Kind: hypr.EventOpenWindow, Data: "aaa,2"})
	assert.Error(t, err)
}

func TestTracker_HandleCloseWindow(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	require.NoError(t, s.Upsert(Window{Address: "aaa", Workspace: "1"}))
	tr := NewTracker(s, &fakeQuerier{})

	err := tr.Handle(hypr.Event{Kind: hypr.EventCloseWindow, Data: "0xaaa"})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count())
}

func TestTracker_HandleMoveWindow(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	require.NoError(t, s.Upsert(Window{Address: "aaa", Class: "foot", Workspace: "1"}))
	tr := NewTracker(s, &fakeQuerier{})

	err := tr.Handle(hypr.Event{Kind: hypr.EventMoveWindow, Data: "0xaaa,3"})
	require.NoError(t, err)

	w, _ := s.Get("aaa")
	assert.Equal(t, "3", w.Workspace)
	assert.Equal(t, "foot", w.Class)
}

func TestTracker_HandleMoveUnknownWindowResyncs(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	q := &fakeQuerier{clients: []hypr.Client{client("0xccc", "mpv", "video")}}
	tr := NewTracker(s, q)

	err := tr.Handle(hypr.Event{Kind: hypr.EventMoveWindow, Data: "ccc,video"})
	require.NoError(t, err)

	w, ok := s.Get("ccc")
	require.True(t, ok)
	assert.Equal(t, "mpv", w.Class)
}

func TestTracker_HandleConfigReloaded(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	require.NoError(t, s.Upsert(Window{Address: "stale", Workspace: "9"}))
	q := &fakeQuerier{clients: []hypr.Client{client("0xaaa", "foot", "1")}}
	tr := NewTracker(s, q)

	err := tr.Handle(hypr.Event{Kind: hypr.EventConfigReloaded})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Count())
	_, ok := s.Get("stale")
	assert.False(t, ok)
}

func TestTracker_HandleIgnoresUnrelatedEvents(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	tr := NewTracker(s, &fakeQuerier{})

	err := tr.Handle(hypr.Event{Kind: hypr.EventActiveWindow, Data: "foot,terminal"})
	assert.NoError(t, err)
	assert.Equal(t, 0, s.Count())
}

func TestTracker_PlanRestore(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	require.NoError(t, s.Upsert(Window{Address: "aaa", Workspace: "1"}))
	require.NoError(t, s.Upsert(Window{Address: "bbb", Workspace: "web"}))

	// aaa drifted to workspace 2, bbb is where it belongs.
	q := &fakeQuerier{clients: []hypr.Client{
		client("0xaaa", "foot", "2"),
		client("0xbbb", "firefox", "web"),
	}}
	tr := NewTracker(s, q)

	moves, err := tr.PlanRestore()
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, Move{Address: "aaa", From: "2", To: "1"}, moves[0])
}

func TestTracker_RestoreDryRun(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	require.NoError(t, s.Upsert(Window{Address: "aaa", Workspace: "1"}))
	q := &fakeQuerier{clients: []hypr.Client{client("0xaaa", "foot", "2")}}
	tr := NewTracker(s, q)

	d := &fakeDispatcher{}
	moves, err := tr.Restore(d, true)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Empty(t, d.calls)
}

func TestTracker_Restore(t *testing.T) {
	s := NewStore("")
	defer s.Close()
	require.NoError(t, s.Upsert(Window{Address: "aaa", Workspace: "1"}))
	q := &fakeQuerier{clients: []hypr.Client{client("0xaaa", "foot", "2")}}
	tr := NewTracker(s, q)

	d := &fakeDispatcher{}
	_, err := tr.Restore(d, false)
	require.NoError(t, err)
	require.Len(t, d.calls, 1)
	assert.Equal(t, []string{"movetoworkspacesilent", "name:1,address:0xaaa"}, d.calls[0])
}
