// Package normalizer cleans the text fields of scraped quotes.
//
// Every function here is pure and total: degenerate input produces empty or
// short output, which the validator rejects later. Nothing in this package
// returns an error.
package normalizer

import (
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// quoteMarks are trimmed from both ends of quote text after ASCII folding,
// so curly quotes have already become one of these.
const quoteMarks = "\"'`"

// CleanQuoteText folds raw to ASCII, collapses whitespace runs to a single
// space and strips surrounding quotation marks and spaces.
func CleanQuoteText(raw string) string {
	cleaned := CollapseWhitespace(ToASCII(raw))
	return strings.TrimFunc(cleaned, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(quoteMarks, r)
	})
}

// CleanAuthorName keeps letters, spaces, hyphens, apostrophes and periods,
// collapses whitespace and title-cases the result: a letter following a
// non-letter is upper-cased, every other letter is lowered.
// "j.k. rowling" and "J.K. ROWLING" both become "J.K. Rowling".
func CleanAuthorName(raw string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsSpace(r):
			return r
		case r == '-', r == '\'', r == '.':
			return r
		}
		return -1
	}, ToASCII(raw))

	collapsed := CollapseWhitespace(kept)
	if collapsed == "" {
		return ""
	}
	return titleCase(collapsed)
}

// titleCase works rune by rune so a letter never expands: "ß" has no
// single-rune upper case and stays as it is.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			r = unicode.ToTitle(r)
		case isLetter:
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
		prevLetter = isLetter
	}
	return b.String()
}

// CleanTags lowercases each tag, keeps only letters, digits and hyphens,
// drops empties and duplicates and returns the result sorted ascending.
// The result is never nil.
func CleanTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))

	for _, tag := range raw {
		cleaned := strings.Map(func(r rune) rune {
			switch {
			case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
				return unicode.ToLower(r)
			}
			return -1
		}, ToASCII(tag))

		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		tags = append(tags, cleaned)
	}

	sort.Strings(tags)
	return tags
}

// ResolveLink turns a relative link into an absolute URL against base.
// Absolute links, empty links and anything that fails to parse come back as-is.
func ResolveLink(base, link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}

	ref, err := url.Parse(link)
	if err != nil || ref.IsAbs() {
		return link
	}

	baseURL, err := url.Parse(base)
	if err != nil || base == "" {
		return link
	}
	return baseURL.ResolveReference(ref).String()
}

// CollapseWhitespace replaces every whitespace run (spaces, tabs, newlines,
// carriage returns) with one space and trims both ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountWords counts whitespace-delimited tokens.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// CountCharacters counts runes, not bytes.
func CountCharacters(s string) int {
	return utf8.RuneCountInString(s)
}
