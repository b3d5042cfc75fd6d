package models

import "time"

// PageMeta describes one page the extractor managed to fetch and parse.
type PageMeta struct {
	URL        string    `json:"url" yaml:"url"`
	Title      string    `json:"title,omitempty" yaml:"title,omitempty"`
	SiteName   string    `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Excerpt    string    `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	QuoteCount int       `json:"quote_count" yaml:"quote_count"`
	FromCache  bool      `json:"from_cache,omitempty" yaml:"from_cache,omitempty"`
	FetchedAt  time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// PageFailure is a page or quote block the extractor had to skip.
type PageFailure struct {
	URL       string `json:"url" yaml:"url"`
	ErrorType string `json:"error_type" yaml:"error_type"` // fetch_error, parse_error, element_error
	Message   string `json:"error_message" yaml:"error_message"`
}

// Extraction is everything the extraction collaborator hands to the pipeline.
type Extraction struct {
	BaseURL  string
	Records  []RawRecord
	Pages    []PageMeta
	Failures []PageFailure
}

// Skip is a raw record the transformer could not clean.
type Skip struct {
	ExtractionOrder int    `json:"extraction_order" yaml:"extraction_order"`
	SourceURL       string `json:"source_url" yaml:"source_url"`
	ErrorType       string `json:"error_type" yaml:"error_type"`
	Message         string `json:"error_message" yaml:"error_message"`
}

// RunOutput is what a finished run hands to persistence.
type RunOutput struct {
	RunID        string        `json:"run_id" yaml:"run_id"`
	StartedAt    time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt   time.Time     `json:"finished_at" yaml:"finished_at"`
	BaseURL      string        `json:"base_url" yaml:"base_url"`
	OutputPrefix string        `json:"output_prefix" yaml:"output_prefix"`
	Quotes       []Quote       `json:"quotes" yaml:"quotes"`
	Rejections   []Rejection   `json:"rejections,omitempty" yaml:"rejections,omitempty"`
	Skips        []Skip        `json:"skips,omitempty" yaml:"skips,omitempty"`
	Pages        []PageMeta    `json:"pages,omitempty" yaml:"pages,omitempty"`
	Failures     []PageFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Report       Report        `json:"report" yaml:"report"`
}
