// Package report computes corpus statistics over validated quotes.
package report

import (
	"github.com/dtnitsch/quotes-etl/models"
	"github.com/dtnitsch/quotes-etl/pkg/mapreduce"
)

// DefaultTopN is used when the caller asks for a non-positive ranking size.
const DefaultTopN = 10

// Generate builds the report for valid. metrics is embedded as given.
// Averages are zero for an empty set.
func Generate(valid []models.Quote, metrics models.RunMetrics, topN int) models.Report {
	if topN <= 0 {
		topN = DefaultTopN
	}

	authors := mapreduce.Map(valid, func(q models.Quote) []string {
		return []string{q.Author}
	})
	tags := mapreduce.Map(valid, func(q models.Quote) []string {
		return q.Tags
	})

	var words, chars int
	for _, q := range valid {
		words += q.WordCount
		chars += q.CharacterCount
	}

	return models.Report{
		TotalQuotes:       len(valid),
		UniqueAuthors:     authors.Len(),
		TotalTags:         tags.Total(),
		UniqueTags:        tags.Len(),
		TopAuthors:        authors.Top(topN),
		TopTags:           tags.Top(topN),
		AvgWordCount:      mean(words, len(valid)),
		AvgCharacterCount: mean(chars, len(valid)),
		ProcessingMetrics: metrics,
	}
}

func mean(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
