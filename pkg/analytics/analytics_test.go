package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtnitsch/quotes-etl/models"
)

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "stopwords dropped", text: "The world as we have created it is a process of our thinking.", want: []string{"world", "created", "process", "thinking"}},
		{name: "punctuation trimmed", text: "Life, love; (and) dreams!", want: []string{"life", "love", "dreams"}},
		{name: "contractions dropped", text: "Don't stop, you're close", want: []string{"stop", "close"}},
		{name: "repeats kept", text: "Love love LOVE", want: []string{"love", "love", "love"}},
		{name: "empty", text: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keywords(tt.text))
		})
	}
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("The"))
	assert.True(t, IsStopword("won't"))
	assert.False(t, IsStopword("imagination"))
}

func TestTopWords(t *testing.T) {
	quotes := []models.Quote{
		{QuoteText: "Imagination is more important than knowledge."},
		{QuoteText: "Knowledge speaks, but wisdom listens."},
		{QuoteText: "Imagination rules the world. Knowledge too."},
	}

	top := TopWords(quotes, 2)
	assert.Equal(t, models.Counts{{Key: "knowledge", Count: 3}, {Key: "imagination", Count: 2}}, top)
	assert.Empty(t, TopWords(nil, 5))
}
