package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinguaClassifier(t *testing.T) {
	c := NewLinguaClassifier()

	lang, err := c.Detect("this film is an absolute masterpiece and i will watch it again tomorrow")
	require.NoError(t, err)
	require.Equal(t, "en", lang)

	_, err = c.Detect("")
	require.ErrorIs(t, err, ErrNoLinguisticContent)

	_, err = c.Detect("   \n\t ")
	require.ErrorIs(t, err, ErrNoLinguisticContent)
}
