// Package review defines the normalized review record shared by the
// scraping, cleaning, and loading stages, plus the JSON file format
// used to hand records between them.
package review

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// UnratedSentinel marks a review whose listing carried no rating indicator.
const UnratedSentinel = -1

// Review is a single normalized review as emitted by the scraper.
// ID is the source-assigned external identifier (e.g. "viewing:12345")
// and is the idempotency key for the loader's upserts. Text holds the
// review body as an ordered sequence of paragraph strings.
type Review struct {
	ID     string   `json:"id"`
	Movie  string   `json:"movie"`
	User   string   `json:"user"`
	Rating int      `json:"rating"`
	Link   string   `json:"link"`
	Text   []string `json:"text"`
}

// JoinedText returns the full review body with paragraphs joined by
// newlines.
func (r Review) JoinedText() string {
	return strings.Join(r.Text, "\n")
}

// ReadFile loads a JSON array of reviews from path.
func ReadFile(path string) ([]Review, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read review file %s: %w", path, err)
	}
	var reviews []Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("parse review file %s: %w", path, err)
	}
	return reviews, nil
}

// WriteFile writes reviews to path as a pretty-printed JSON array.
// HTML escaping is disabled so non-ASCII and markup-ish characters are
// preserved literally in the output file.
func WriteFile(path string, reviews []Review) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create review file %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(reviews); err != nil {
		f.Close()
		return fmt.Errorf("encode review file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close review file %s: %w", path, err)
	}
	return nil
}
