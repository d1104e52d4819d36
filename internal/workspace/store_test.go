package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow(addr, ws string) Window {
	return Window{Address: addr, Class: "foot", Title: "terminal", Workspace: ws}
}

func TestStore_UpsertAndGet(t *testing.T) {
	s := NewStore("")
	defer s.Close()

	require.NoError(t, s.Upsert(testWindow("abc", "1")))
	assert.Equal(t, 1, s.Count())

	w, ok := s.Get("abc")
	require.True(t, ok)
	assert.Equal(t, "1", w.Workspace)

	// Upsert with a new workspace updates in place.
	w.Workspace = "2"
	require.NoError(t, s.Upsert(w))
	assert.Equal(t, 1, s.Count())
	w, _ = s.Get("abc")
	assert.Equal(t, "2", w.Workspace)
}

func TestStore_Remove(t *testing.T) {
	s := NewStore("")
	defer s.Close()

	require.NoError(t, s.Upsert(testWindow("abc", "1")))
	require.NoError(t, s.Remove("abc"))
	assert.Equal(t, 0, s.Count())

	// Unknown address is a no-op.
	require.NoError(t, s.Remove("missing"))
}

func TestStore_AllSorted(t *testing.T) {
	s := NewStore("")
	defer s.Close()

	require.NoError(t, s.Upsert(testWindow("zzz", "2")))
	require.NoError(t, s.Upsert(testWindow("aaa", "2")))
	require.NoError(t, s.Upsert(testWindow("mmm", "1")))

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "mmm", all[0].Address)
	assert.Equal(t, "aaa", all[1].Address)
	assert.Equal(t, "zzz", all[2].Address)
}

func TestStore_ByWorkspace(t *testing.T) {
	s := NewStore("")
	defer s.Close()

	require.NoError(t, s.Upsert(testWindow("a", "1")))
	require.NoError(t, s.Upsert(testWindow("b", "1")))
	require.NoError(t, s.Upsert(testWindow("c", "web")))

	grouped := s.ByWorkspace()
	assert.Len(t, grouped["1"], 2)
	assert.Len(t, grouped["web"], 1)
}

func TestStore_PersistAndHydrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "workspaces.json")

	s := NewStore(path)
	require.NoError(t, s.Upsert(testWindow("abc", "3")))
	require.NoError(t, s.Upsert(testWindow("def", "1")))
	require.NoError(t, s.Close())

	fresh := NewStore(path)
	defer fresh.Close()
	require.NoError(t, fresh.Hydrate())
	assert.Equal(t, 2, fresh.Count())

	w, ok := fresh.Get("abc")
	require.True(t, ok)
	assert.Equal(t, "3", w.Workspace)
}

func TestStore_HydrateMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope.json"))
	defer s.Close()
	require.NoError(t, s.Hydrate())
	assert.Equal(t, 0, s.Count())
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore("")
	defer s.Close()

	ch := s.Subscribe()
	require.NoError(t, s.Upsert(testWindow("abc", "1")))

	event := <-ch
	assert.Equal(t, "add", event.Kind)
	assert.Equal(t, "abc", event.Address)

	require.NoError(t, s.Upsert(testWindow("abc", "2")))
	event = <-ch
	assert.Equal(t, "move", event.Kind)

	require.NoError(t, s.Remove("abc"))
	event = <-ch
	assert.Equal(t, "remove", event.Kind)
}

func TestStore_ClosedRejectsWrites(t *testing.T) {
	s := NewStore("")
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Upsert(testWindow("abc", "1")), ErrStoreClosed)
	assert.ErrorIs(t, s.Remove("abc"), ErrStoreClosed)
	assert.ErrorIs(t, s.Replace(nil), ErrStoreClosed)
}
