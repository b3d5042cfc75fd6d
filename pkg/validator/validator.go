// Package validator partitions cleaned quotes into valid and rejected sets.
package validator

import (
	"unicode/utf8"

	"github.com/dtnitsch/quotes-etl/models"
)

// Rules holds the length limits a quote must satisfy. They are loaded as the
// validation section of the run config.
type Rules = models.ValidationRules

func DefaultRules() Rules {
	return models.DefaultValidationRules()
}

type Validator struct {
	rules Rules
}

func New(rules Rules) *Validator {
	return &Validator{rules: rules}
}

// Validate splits quotes into valid and invalid, preserving input order in
// both. Every quote lands in exactly one of the two.
func (v *Validator) Validate(quotes []models.Quote) (valid []models.Quote, invalid []models.Rejection) {
	valid = make([]models.Quote, 0, len(quotes))
	for _, q := range quotes {
		if reason, ok := v.Check(q); !ok {
			invalid = append(invalid, models.Rejection{Quote: q, Reason: reason})
			continue
		}
		valid = append(valid, q)
	}
	return valid, invalid
}

// Check returns the first rule q breaks. Rules are applied in a fixed
// order: quote length, author length, then required fields.
func (v *Validator) Check(q models.Quote) (models.Reason, bool) {
	textLen := utf8.RuneCountInString(q.QuoteText)
	switch {
	case textLen < v.rules.MinQuoteLen:
		return models.ReasonQuoteTooShort, false
	case textLen > v.rules.MaxQuoteLen:
		return models.ReasonQuoteTooLong, false
	case utf8.RuneCountInString(q.Author) < v.rules.MinAuthorLen:
		return models.ReasonAuthorInvalid, false
	case q.QuoteText == "", q.Author == "", q.SourceURL == "":
		return models.ReasonMissingField, false
	}
	return "", true
}

// Validate runs the default rules.
func Validate(quotes []models.Quote) ([]models.Quote, []models.Rejection) {
	return New(DefaultRules()).Validate(quotes)
}
