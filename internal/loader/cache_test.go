package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCacheMissingFile(t *testing.T) {
	c, err := LoadCache(filepath.Join(t.TempDir(), "movies.json"))
	require.NoError(t, err)
	require.Equal(t, 0, c.Len())
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")

	c, err := LoadCache(path)
	require.NoError(t, err)
	c.Put("Heat", "tt0113277")
	c.Put("Amélie", "tt0211915")
	require.NoError(t, c.Flush())

	reloaded, err := LoadCache(path)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Len())

	id, ok := reloaded.Get("heat")
	require.True(t, ok)
	require.Equal(t, "tt0113277", id)

	// Lookup is case-insensitive on the title.
	id, ok = reloaded.Get("HEAT")
	require.True(t, ok)
	require.Equal(t, "tt0113277", id)

	_, ok = reloaded.Get("Ronin")
	require.False(t, ok)

	// Non-ASCII titles survive literally.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "amélie")
}

func TestLoadCacheRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadCache(path)
	require.Error(t, err)
}
