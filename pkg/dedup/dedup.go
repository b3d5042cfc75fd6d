package dedup

import (
	"strings"

	"github.com/dtnitsch/quotes-etl/models"
)

// Key identifies a quote for duplicate detection: the cleaned text and
// author, both case-folded.
type Key struct {
	Text   string
	Author string
}

// KeyOf builds the identity key for q.
func KeyOf(q models.Quote) Key {
	return Key{
		Text:   strings.ToLower(q.QuoteText),
		Author: strings.ToLower(q.Author),
	}
}

// RemoveDuplicates keeps the first quote for each key and drops the rest.
// Input order must already be extraction order; kept preserves the order of
// first occurrences.
func RemoveDuplicates(quotes []models.Quote) (kept []models.Quote, removed int) {
	seen := make(map[Key]struct{}, len(quotes))
	kept = make([]models.Quote, 0, len(quotes))

	for _, q := range quotes {
		key := KeyOf(q)
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, q)
	}
	return kept, removed
}
