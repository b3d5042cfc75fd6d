package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctuation maps typographic characters that have no decomposition to
// their plain ASCII spelling. Anything with a compatibility decomposition
// (ellipsis, ligatures, full-width forms, no-break space) is left to NFKD.
var punctuation = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	"«", `"`, "»", `"`, "″", `"`,
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"‹", "'", "›", "'", "′", "'",
	"‐", "-", "‑", "-", "‒", "-", "–", "-",
	"—", "-", "―", "-", "−", "-",
	"•", "*", "·", ".",
)

// ToASCII maps smart punctuation to ASCII, strips accents via NFKD and drops
// invisible or symbolic non-ASCII runes. Letters and digits from scripts with
// no ASCII equivalent are kept.
func ToASCII(s string) string {
	if isASCII(s) {
		return s
	}

	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(unmappable)),
		norm.NFC,
	)
	out, _, err := transform.String(t, punctuation.Replace(s))
	if err != nil {
		return s
	}
	return out
}

func unmappable(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	if unicode.IsControl(r) {
		return true
	}
	if r <= unicode.MaxASCII {
		return false
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b > unicode.MaxASCII || (b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\v' && b != '\f') || b == 0x7f {
			return false
		}
	}
	return true
}
