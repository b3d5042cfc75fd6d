package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCounts_JSONKeepsOrder(t *testing.T) {
	c := Counts{{Key: "Zed", Count: 3}, {Key: "Amy", Count: 2}, {Key: `Q "uoted"`, Count: 1}}

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"Zed":3,"Amy":2,"Q \"uoted\"":1}`, string(data))

	var back Counts
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
}

func TestCounts_JSONEmptyAndNull(t *testing.T) {
	data, err := json.Marshal(Counts(nil))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	back := Counts{{Key: "x", Count: 1}}
	require.NoError(t, json.Unmarshal([]byte("null"), &back))
	assert.Nil(t, back)

	require.NoError(t, json.Unmarshal([]byte("{}"), &back))
	assert.Empty(t, back)

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &back))
	assert.Error(t, json.Unmarshal([]byte(`{"a":"b"}`), &back))
}

func TestCounts_YAMLKeepsOrder(t *testing.T) {
	r := Report{TopTags: Counts{{Key: "love", Count: 14}, {Key: "inspirational", Count: 13}}}

	data, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "top_tags:\n    love: 14\n    inspirational: 13\n")
}

func TestReport_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Report{TotalQuotes: 1, ProcessingMetrics: RunMetrics{PagesScraped: 2}})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{"total_quotes", "unique_authors", "total_tags", "unique_tags", "top_authors", "top_tags", "avg_word_count", "avg_character_count", "processing_metrics"} {
		assert.Contains(t, m, key)
	}
	metrics := m["processing_metrics"].(map[string]any)
	assert.Equal(t, float64(2), metrics["total_pages_scraped"])
}

func TestQuote_CSVRow(t *testing.T) {
	q := Quote{QuoteText: "Be yourself.", Author: "Oscar Wilde", Tags: []string{"a", "b"}, AuthorLink: "http://x/author/Oscar-Wilde", WordCount: 2, TagCount: 2, CharacterCount: 12, SourceURL: "http://x/page/1/"}
	row := q.CSVRow()
	require.Len(t, row, len(CSVHeader))
	assert.Equal(t, []string{"Be yourself.", "Oscar Wilde", "a, b", "http://x/author/Oscar-Wilde", "2", "2", "12", "http://x/page/1/"}, row)
}
