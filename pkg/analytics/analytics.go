// Package analytics pulls keywords out of quote text for the run summary.
package analytics

import (
	"strings"

	"github.com/dtnitsch/quotes-etl/models"
	"github.com/dtnitsch/quotes-etl/pkg/mapreduce"
)

// stopwords are ignored by Keywords. Contractions are listed with a straight
// apostrophe since quote text is folded to ASCII before it gets here.
var stopwords = toSet(`
a about above after again against all almost also although always am among an and another any
anyone anything are aren't around as at
be became because become been before being below between both but by
can can't cannot could couldn't
did didn't do does doesn't doing don't done down during
each either else enough even ever every everyone everything
few for from further
had hadn't has hasn't have haven't having he he'd he'll he's her here here's hers herself him
himself his how however
i i'd i'll i'm i've if in into is isn't it it's its itself
just keep last least less let let's like
made make many may maybe me might mine more most much must my myself
neither never next no nobody none nor not nothing now
of off often on once one only onto or other others our ours ourselves out over own
perhaps please put rather same see seem seems she she'd she'll she's should shouldn't since so
some someone something sometimes still such
take than that that's the their theirs them themselves then there there's therefore these they
they'd they'll they're they've this those through thus to together too toward towards
under until up upon us
very was wasn't we we'd we'll we're we've well were weren't what what's when where where's whether
which while who who's whom whose why will with within without won't would wouldn't
yet you you'd you'll you're you've your yours yourself yourselves
`)

func toSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword checks if a word is a common stopword that should be filtered out.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

// Keywords lowercases text, trims punctuation off each word and drops
// stopwords and single letters. Order and repeats are kept.
func Keywords(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, word := range fields {
		word = strings.TrimFunc(word, func(r rune) bool {
			return ('a' > r || r > 'z') && ('0' > r || r > '9')
		})
		if len(word) < 2 || IsStopword(word) {
			continue
		}
		words = append(words, word)
	}
	return words
}

// TopWords ranks keywords over the text of quotes, most frequent first.
func TopWords(quotes []models.Quote, n int) models.Counts {
	return mapreduce.Map(quotes, func(q models.Quote) []string {
		return Keywords(q.QuoteText)
	}).Top(n)
}
