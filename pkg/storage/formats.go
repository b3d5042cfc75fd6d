package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/quotes-etl/models"
)

// Document is the structured file layout: every valid quote plus the report.
type Document struct {
	Quotes []models.Quote `json:"quotes" yaml:"quotes"`
	Report models.Report  `json:"report" yaml:"report"`
}

// EncodeCSV renders quotes with a header row in models.CSVHeader order.
func EncodeCSV(quotes []models.Quote) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(models.CSVHeader); err != nil {
		return nil, errors.Wrap(err, "write csv header")
	}
	for _, q := range quotes {
		if err := w.Write(q.CSVRow()); err != nil {
			return nil, errors.Wrapf(err, "write csv row %d", q.ExtractionOrder)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flush csv")
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders v indented, keeping non-ASCII text unescaped.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "encode json")
	}
	return buf.Bytes(), nil
}

func EncodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	return buf.Bytes(), nil
}
