package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhraseBlocklist(t *testing.T) {
	t.Run("case-insensitive substring match", func(t *testing.T) {
		bl := newPhraseBlocklist([]string{"Spoiler Alert", "  ", "spoiler alert"})
		require.NotNil(t, bl)

		phrase, blocked := bl.Match("honestly a spoiler alert kind of review")
		require.True(t, blocked)
		require.Equal(t, "spoiler alert", phrase)

		_, blocked = bl.Match("a perfectly safe review")
		require.False(t, blocked)
	})

	t.Run("empty input yields nil blocklist", func(t *testing.T) {
		require.Nil(t, newPhraseBlocklist(nil))
		require.Nil(t, newPhraseBlocklist([]string{"", "   "}))
	})

	t.Run("nil blocklist never matches", func(t *testing.T) {
		var bl *phraseBlocklist
		_, blocked := bl.Match("anything at all")
		require.False(t, blocked)
	})
}

func TestLoadPhraseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banned.txt")
	require.NoError(t, os.WriteFile(path, []byte("first phrase\n\n  second phrase  \n"), 0o600))

	phrases, err := LoadPhraseFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"first phrase", "second phrase"}, phrases)
}

func TestLoadPhraseFileMissing(t *testing.T) {
	_, err := LoadPhraseFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
