// Package cleaner filters scraped reviews down to the set that is short
// enough and fully renderable by a configured font set.
package cleaner

import (
	"strings"

	"go.uber.org/zap"

	"github.com/filmgrain/reviewpipe/internal/glyph"
	"github.com/filmgrain/reviewpipe/internal/review"
)

// MaxWords is the inclusive word-count bound for a review to survive
// cleaning.
const MaxWords = 100

// ShouldInclude decides whether a review belongs in the cleaned set.
// Policy, in order: reject when the whitespace-split word count of the
// joined text exceeds MaxWords, then reject when any character other
// than the newline separator is unrenderable by every provided font.
// The record is never mutated; an empty text passes both checks.
func ShouldInclude(rev review.Review, cov glyph.Coverage) bool {
	text := rev.JoinedText()
	if len(strings.Fields(text)) > MaxWords {
		return false
	}
	for _, r := range text {
		if r != '\n' && !cov.Renderable(r) {
			return false
		}
	}
	return true
}

// Result reports how many reviews went in and how many survived.
type Result struct {
	Original int
	Cleaned  int
}

// CleanFile reads a JSON array of reviews from inPath, keeps the ones
// accepted by ShouldInclude, and writes them to outPath in the same
// shape. Rejections are silent; only the counts are reported.
func CleanFile(inPath, outPath string, cov glyph.Coverage, logger *zap.Logger) (Result, error) {
	reviews, err := review.ReadFile(inPath)
	if err != nil {
		return Result{}, err
	}

	cleaned := make([]review.Review, 0, len(reviews))
	for _, rev := range reviews {
		if ShouldInclude(rev, cov) {
			cleaned = append(cleaned, rev)
		}
	}

	if err := review.WriteFile(outPath, cleaned); err != nil {
		return Result{}, err
	}

	res := Result{Original: len(reviews), Cleaned: len(cleaned)}
	logger.Info("Cleaned reviews",
		zap.Int("original", res.Original),
		zap.Int("cleaned", res.Cleaned),
		zap.String("output", outPath),
	)
	return res, nil
}
