package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, KindThemeApply, "tokyonight", map[string]string{"profile": "default"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = s.Record(ctx, KindBuild, "default", nil)
	require.NoError(t, err)

	entries, err := s.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Entries with equal timestamps fall back to id order; ULIDs are
	// monotonic enough within a test to keep newest first.
	assert.Equal(t, KindBuild, entries[0].Kind)
	assert.Equal(t, KindThemeApply, entries[1].Kind)
	assert.Equal(t, "tokyonight", entries[1].Subject)
	assert.Equal(t, map[string]string{"profile": "default"}, entries[1].Details)
}

func TestStore_RecentFiltersByKind(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, KindBuild, "default", nil)
	require.NoError(t, err)
	_, err = s.Record(ctx, KindThemeApply, "latte", nil)
	require.NoError(t, err)

	entries, err := s.Recent(ctx, KindThemeApply, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "latte", entries[0].Subject)
}

func TestStore_RecentLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, KindBuild, "default", nil)
		require.NoError(t, err)
	}

	entries, err := s.Recent(ctx, "", 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestStore_CountByKind(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Record(ctx, KindBuild, "default", nil)
		require.NoError(t, err)
	}
	_, err := s.Record(ctx, KindBackup, "pre-update", nil)
	require.NoError(t, err)

	counts, err := s.CountByKind(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{KindBuild: 3, KindBackup: 1}, counts)
}

func TestStore_Prune(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, KindBuild, "default", nil)
	require.NoError(t, err)

	removed, err := s.Prune(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	entries, err := s.Recent(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_PersistsToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, KindThemeApply, "tokyonight", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tokyonight", entries[0].Subject)
}
