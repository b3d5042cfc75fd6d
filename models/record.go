package models

import (
	"strconv"
	"strings"
)

// RawRecord is one quote block exactly as it was pulled off a page.
// ExtractionOrder is global across pages so later stages can keep a stable order.
type RawRecord struct {
	Text                string   `json:"raw_text"`
	Author              string   `json:"raw_author"`
	Tags                []string `json:"raw_tags"`
	AuthorLink          string   `json:"raw_author_link"`
	SourceURL           string   `json:"source_url"`
	ExtractionOrder     int      `json:"extraction_order"`
	ExtractionTimestamp float64  `json:"extraction_timestamp"`
}

// Quote is a cleaned record derived from exactly one RawRecord.
type Quote struct {
	QuoteText          string   `json:"quote_text" yaml:"quote_text"`
	Author             string   `json:"author" yaml:"author"`
	Tags               []string `json:"tags" yaml:"tags"`
	AuthorLink         string   `json:"author_link" yaml:"author_link"`
	SourceURL          string   `json:"source_url" yaml:"source_url"`
	WordCount          int      `json:"word_count" yaml:"word_count"`
	TagCount           int      `json:"tag_count" yaml:"tag_count"`
	CharacterCount     int      `json:"character_count" yaml:"character_count"`
	ProcessedTimestamp float64  `json:"processed_timestamp" yaml:"processed_timestamp"`
	ExtractionOrder    int      `json:"extraction_order" yaml:"extraction_order"`
	Language           string   `json:"language,omitempty" yaml:"language,omitempty"`
}

// CSVHeader is the tabular column order for persisted quotes.
var CSVHeader = []string{
	"quote_text",
	"author",
	"tags",
	"author_link",
	"word_count",
	"tag_count",
	"character_count",
	"source_url",
}

// CSVRow renders q in CSVHeader order. Tags are joined with ", ".
func (q Quote) CSVRow() []string {
	return []string{
		q.QuoteText,
		q.Author,
		strings.Join(q.Tags, ", "),
		q.AuthorLink,
		strconv.Itoa(q.WordCount),
		strconv.Itoa(q.TagCount),
		strconv.Itoa(q.CharacterCount),
		q.SourceURL,
	}
}

// Reason explains why a quote failed validation.
type Reason string

const (
	ReasonQuoteTooShort Reason = "quote_too_short"
	ReasonQuoteTooLong  Reason = "quote_too_long"
	ReasonAuthorInvalid Reason = "author_invalid"
	ReasonMissingField  Reason = "missing_field"
)

// Rejection pairs an invalid quote with the first rule it broke.
type Rejection struct {
	Quote  Quote  `json:"quote" yaml:"quote"`
	Reason Reason `json:"reason" yaml:"reason"`
}
