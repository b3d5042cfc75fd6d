package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtnitsch/quotes-etl/models"
)

func quote(order int, text, author string) models.Quote {
	return models.Quote{QuoteText: text, Author: author, ExtractionOrder: order}
}

func TestRemoveDuplicates(t *testing.T) {
	tests := []struct {
		name        string
		in          []models.Quote
		wantOrders  []int
		wantRemoved int
	}{
		{
			name:        "empty",
			in:          nil,
			wantOrders:  []int{},
			wantRemoved: 0,
		},
		{
			name: "no duplicates",
			in: []models.Quote{
				quote(0, "A quote here.", "Ann"),
				quote(1, "Another quote.", "Ann"),
			},
			wantOrders:  []int{0, 1},
			wantRemoved: 0,
		},
		{
			name: "first occurrence wins",
			in: []models.Quote{
				quote(0, "Life is what happens.", "John Lennon"),
				quote(1, "Be yourself.", "Oscar Wilde"),
				quote(2, "life is what happens.", "JOHN LENNON"),
				quote(3, "Be yourself.", "Oscar Wilde"),
			},
			wantOrders:  []int{0, 1},
			wantRemoved: 2,
		},
		{
			name: "same text different author is not a duplicate",
			in: []models.Quote{
				quote(0, "Be yourself.", "Oscar Wilde"),
				quote(1, "Be yourself.", "Someone Else"),
			},
			wantOrders:  []int{0, 1},
			wantRemoved: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, removed := RemoveDuplicates(tt.in)

			orders := make([]int, 0, len(kept))
			for _, q := range kept {
				orders = append(orders, q.ExtractionOrder)
			}
			assert.Equal(t, tt.wantOrders, orders)
			assert.Equal(t, tt.wantRemoved, removed)
			assert.Equal(t, len(tt.in), len(kept)+removed)
		})
	}
}

func TestRemoveDuplicates_Idempotent(t *testing.T) {
	in := []models.Quote{
		quote(0, "One.", "A"),
		quote(1, "Two.", "B"),
		quote(2, "one.", "a"),
		quote(3, "Three.", "C"),
		quote(4, "Two.", "B"),
	}

	once, _ := RemoveDuplicates(in)
	twice, removed := RemoveDuplicates(once)

	assert.Equal(t, once, twice)
	assert.Zero(t, removed)
}

func TestKeyOf(t *testing.T) {
	assert.Equal(t,
		KeyOf(quote(0, "Life Is What Happens.", "John Lennon")),
		KeyOf(quote(9, "life is what happens.", "john lennon")),
	)
}
