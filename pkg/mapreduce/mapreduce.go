package mapreduce

// Tally counts keys while remembering the order each key was first seen.
// That order breaks ties when ranking.
type Tally struct {
	counts map[string]int
	order  []string
	total  int
}

func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add counts one occurrence of key.
func (t *Tally) Add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
	t.total++
}

// Len is the number of distinct keys.
func (t *Tally) Len() int { return len(t.order) }

// Total is the number of occurrences across all keys.
func (t *Tally) Total() int { return t.total }

// Map builds a tally from the keys emitted for each item.
func Map[T any](items []T, keys func(T) []string) *Tally {
	t := NewTally()
	for _, item := range items {
		for _, k := range keys(item) {
			t.Add(k)
		}
	}
	return t
}
