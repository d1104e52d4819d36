package hypr

import (
	"context"
	"io"
	"net"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequestSocket serves canned responses keyed by the received
// command over a unix socket.
func fakeRequestSocket(t *testing.T, responses map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".socket.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 4096)
				n, err := c.Read(buf)
				if err != nil && err != io.EOF {
					return
				}
				cmd := string(buf[:n])
				if resp, ok := responses[cmd]; ok {
					_, _ = c.Write([]byte(resp))
				} else {
					_, _ = c.Write([]byte("unknown request"))
				}
			}(conn)
		}
	}()

	return path
}

func TestConn_Clients(t *testing.T) {
	path := fakeRequestSocket(t, map[string]string{
		"j/clients": `[
  {"address": "0x1234", "title": "editor", "class": "foot", "pid": 42,
   "floating": false, "at": [10, 20], "size": [800, 600],
   "workspace": {"id": 2, "name": "2"}}
]`,
	})

	c := NewConnAt(path)
	clients, err := c.Clients()
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "0x1234", clients[0].Address)
	assert.Equal(t, "foot", clients[0].Class)
	assert.Equal(t, 2, clients[0].Workspace.ID)
	assert.Equal(t, [2]int{800, 600}, clients[0].Size)
}

func TestConn_Workspaces(t *testing.T) {
	path := fakeRequestSocket(t, map[string]string{
		"j/workspaces": `[
  {"id": 1, "name": "1", "monitor": "DP-1", "windows": 3},
  {"id": 2, "name": "web", "monitor": "DP-1", "windows": 1}
]`,
	})

	c := NewConnAt(path)
	workspaces, err := c.Workspaces()
	require.NoError(t, err)
	require.Len(t, workspaces, 2)
	assert.Equal(t, "web", workspaces[1].Name)
	assert.Equal(t, 3, workspaces[0].Windows)
}

func TestConn_ActiveWindow_NoneFocused(t *testing.T) {
	path := fakeRequestSocket(t, map[string]string{
		"j/activewindow": `{}`,
	})

	c := NewConnAt(path)
	client, err := c.ActiveWindow()
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestConn_DispatchAndKeyword(t *testing.T) {
	path := fakeRequestSocket(t, map[string]string{
		"dispatch workspace 3":          "ok",
		"keyword decoration:rounding 8": "ok",
		"dispatch badcall":              "Invalid dispatcher",
	})

	c := NewConnAt(path)
	require.NoError(t, c.Dispatch("workspace", "3"))
	require.NoError(t, c.Keyword("decoration:rounding", "8"))

	err := c.Dispatch("badcall")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid dispatcher")
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantKind string
		wantData string
		wantErr  bool
	}{
		{"openwindow", "openwindow>>0xabc,2,foot,terminal", "openwindow", "0xabc,2,foot,terminal", false},
		{"no payload", "configreloaded>>", "configreloaded", "", false},
		{"payload with >>", "activewindow>>app,title >> subtitle", "activewindow", "app,title >> subtitle", false},
		{"malformed", "not an event", "", "", true},
		{"empty kind", ">>data", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseEvent(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.Equal(t, tt.wantData, e.Data)
		})
	}
}

func TestEvent_Args(t *testing.T) {
	e := Event{Kind: EventOpenWindow, Data: "0xabc,2,foot,terminal"}
	assert.Equal(t, []string{"0xabc", "2", "foot", "terminal"}, e.Args())

	empty := Event{Kind: EventConfigReloaded}
	assert.Nil(t, empty.Args())
}

func TestEventStream_PumpReleasesCloser(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".socket2.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	// Drop every connection after one event to force reconnects.
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_, _ = conn.Write([]byte("workspace>>1\n"))
			conn.Close()
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := NewEventStreamAt(path)
	baseline := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		require.Error(t, stream.pump(ctx))
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > baseline+2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.LessOrEqual(t, runtime.NumGoroutine(), baseline+2,
		"connection closers must exit when the connection is torn down")
}

func TestEventStream_Listen(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".socket2.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write([]byte("workspace>>3\nopenwindow>>0xabc,3,foot,term\n"))
		// Keep the connection open; the client is cancelled below.
		time.Sleep(2 * time.Second)
		conn.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := NewEventStreamAt(path)
	done := make(chan error, 1)
	go func() { done <- stream.Listen(ctx) }()

	var got []Event
	timeout := time.After(3 * time.Second)
	for len(got) < 2 {
		select {
		case e := <-stream.Events():
			got = append(got, e)
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}

	assert.Equal(t, EventWorkspace, got[0].Kind)
	assert.Equal(t, "3", got[0].Data)
	assert.Equal(t, EventOpenWindow, got[1].Kind)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("listener did not stop")
	}
}
