package mapreduce

import (
	"sort"

	"github.com/dtnitsch/quotes-etl/models"
)

// Top returns the n most frequent keys in descending count order. Equal
// counts keep first-seen order. n <= 0 returns every key.
func (t *Tally) Top(n int) models.Counts {
	ranked := make(models.Counts, 0, len(t.order))
	for _, k := range t.order {
		ranked = append(ranked, models.Count{Key: k, Count: t.counts[k]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
