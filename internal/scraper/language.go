package scraper

import (
	"errors"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// ErrNoLinguisticContent is returned by a Classifier when the input has
// no detectable language, e.g. empty or whitespace-only text.
var ErrNoLinguisticContent = errors.New("no linguistic content")

// Classifier reports the dominant language of a text sample as a
// lower-case ISO 639-1 code.
type Classifier interface {
	Detect(text string) (string, error)
}

// linguaClassifier implements Classifier with the lingua-go detector.
type linguaClassifier struct {
	detector lingua.LanguageDetector
}

// NewLinguaClassifier builds a Classifier over all languages lingua
// supports. Construction is expensive; build once per run.
func NewLinguaClassifier() Classifier {
	return &linguaClassifier{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

func (c *linguaClassifier) Detect(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoLinguisticContent
	}
	lang, ok := c.detector.DetectLanguageOf(text)
	if !ok {
		return "", ErrNoLinguisticContent
	}
	return strings.ToLower(lang.IsoCode639_1().String()), nil
}
