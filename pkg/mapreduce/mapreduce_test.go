package mapreduce

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtnitsch/quotes-etl/models"
)

func tallyOf(keys ...string) *Tally {
	t := NewTally()
	for _, k := range keys {
		t.Add(k)
	}
	return t
}

func TestTop(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		n    int
		want models.Counts
	}{
		{
			name: "descending by count",
			keys: []string{"a", "b", "b", "c", "c", "c"},
			n:    10,
			want: models.Counts{{Key: "c", Count: 3}, {Key: "b", Count: 2}, {Key: "a", Count: 1}},
		},
		{
			name: "ties keep first-seen order",
			keys: []string{"x", "y", "z", "y", "x", "z"},
			n:    10,
			want: models.Counts{{Key: "x", Count: 2}, {Key: "y", Count: 2}, {Key: "z", Count: 2}},
		},
		{
			name: "truncated",
			keys: []string{"a", "b", "b", "c", "c", "c"},
			n:    2,
			want: models.Counts{{Key: "c", Count: 3}, {Key: "b", Count: 2}},
		},
		{
			name: "non-positive n returns all",
			keys: []string{"a", "b"},
			n:    0,
			want: models.Counts{{Key: "a", Count: 1}, {Key: "b", Count: 1}},
		},
		{
			name: "empty",
			keys: nil,
			n:    5,
			want: models.Counts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tallyOf(tt.keys...).Top(tt.n))
		})
	}
}

func TestMap(t *testing.T) {
	type item struct{ tags []string }
	items := []item{{tags: []string{"life", "love"}}, {tags: []string{"love"}}, {}}

	tally := Map(items, func(i item) []string { return i.tags })
	assert.Equal(t, 2, tally.Len())
	assert.Equal(t, 3, tally.Total())
	assert.Equal(t, models.Counts{{Key: "love", Count: 2}, {Key: "life", Count: 1}}, tally.Top(0))
}
