// Package language tags quote text with an ISO 639-1 code.
package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DefaultLanguages is the candidate set used when none is given. A small set
// keeps model loading fast and detection accurate on short texts.
var DefaultLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
}

type Detector struct {
	detector lingua.LanguageDetector
}

func NewDetector(languages ...lingua.Language) *Detector {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns the lower-case ISO 639-1 code for text, or "" when no
// language could be determined.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
