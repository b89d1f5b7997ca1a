package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteRoundTrip(t *testing.T) {
	t.Run("ordered sequence survives the round trip", func(t *testing.T) {
		quotes := []string{
			"For real life?",
			"This is my flamingo hotel.",
			"Keepy uppy is the best game ever",
		}

		joined, ok := JoinQuotes(quotes)
		require.True(t, ok)
		assert.Equal(t, quotes, SplitQuotes(joined))
	})

	t.Run("single quote", func(t *testing.T) {
		joined, ok := JoinQuotes([]string{"For real life?"})
		require.True(t, ok)
		assert.Equal(t, []string{"For real life?"}, SplitQuotes(joined))
	})

	t.Run("quote containing the delimiter cannot be serialized", func(t *testing.T) {
		_, ok := JoinQuotes([]string{"wait; for real life?"})
		assert.False(t, ok)
	})

	t.Run("empty property yields no quotes", func(t *testing.T) {
		assert.Nil(t, SplitQuotes(""))
	})
}

func TestRecapText(t *testing.T) {
	recap := Recap{
		EpisodeTitle: "The Weekend",
		Parts:        []string{"Part one.", "Part two.", "Part three."},
	}
	assert.Equal(t, "Part one.\nPart two.\nPart three.", recap.Text())

	assert.Equal(t, "", Recap{}.Text())
}
