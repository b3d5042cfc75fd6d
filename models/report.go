package models

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Count is one entry of a frequency ranking.
type Count struct {
	Key   string
	Count int
}

// Counts is an ordered frequency ranking. It serializes as a JSON/YAML object
// whose keys keep the ranking order, e.g. {"Albert Einstein": 10, "J.K. Rowling": 9}.
type Counts []Count

func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(entry.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Counts) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "counts")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Newf("counts: expected object, got %v", tok)
	}

	out := Counts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "counts")
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.Newf("counts: expected string key, got %v", keyTok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return errors.Wrapf(err, "counts: value for %q", key)
		}
		out = append(out, Count{Key: key, Count: n})
	}
	*c = out
	return nil
}

func (c Counts) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, entry := range c {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(entry.Count)},
		)
	}
	return node, nil
}

// RunMetrics are the counters accumulated over one pipeline run.
type RunMetrics struct {
	PagesScraped      int `json:"total_pages_scraped" yaml:"total_pages_scraped"`
	QuotesExtracted   int `json:"total_quotes_extracted" yaml:"total_quotes_extracted"`
	QuotesCleaned     int `json:"total_quotes_cleaned" yaml:"total_quotes_cleaned"`
	ErrorsEncountered int `json:"errors_encountered" yaml:"errors_encountered"`
	DuplicatesRemoved int `json:"duplicate_quotes_removed" yaml:"duplicate_quotes_removed"`
	InvalidRecords    int `json:"invalid_quotes" yaml:"invalid_quotes"`
}

// Report is the aggregate snapshot computed once over the valid quotes of a run.
type Report struct {
	TotalQuotes       int        `json:"total_quotes" yaml:"total_quotes"`
	UniqueAuthors     int        `json:"unique_authors" yaml:"unique_authors"`
	TotalTags         int        `json:"total_tags" yaml:"total_tags"`
	UniqueTags        int        `json:"unique_tags" yaml:"unique_tags"`
	TopAuthors        Counts     `json:"top_authors" yaml:"top_authors"`
	TopTags           Counts     `json:"top_tags" yaml:"top_tags"`
	AvgWordCount      float64    `json:"avg_word_count" yaml:"avg_word_count"`
	AvgCharacterCount float64    `json:"avg_character_count" yaml:"avg_character_count"`
	ProcessingMetrics RunMetrics `json:"processing_metrics" yaml:"processing_metrics"`
}
