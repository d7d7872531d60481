package scraper

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// phraseBlocklist stores normalized excluded phrases derived from
// configuration. A review whose text contains any phrase is skipped.
type phraseBlocklist struct {
	phrases []string
}

func newPhraseBlocklist(raw []string) *phraseBlocklist {
	matcher := &phraseBlocklist{}
	seen := make(map[string]struct{})
	for _, entry := range raw {
		value := strings.TrimSpace(strings.ToLower(entry))
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		matcher.phrases = append(matcher.phrases, value)
	}
	if len(matcher.phrases) == 0 {
		return nil
	}
	return matcher
}

// Match returns the first blocked phrase found in text, comparing
// case-insensitively. The caller is expected to pass lower-cased text;
// phrases are already normalized.
func (b *phraseBlocklist) Match(text string) (string, bool) {
	if b == nil {
		return "", false
	}
	for _, phrase := range b.phrases {
		if strings.Contains(text, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// LoadPhraseFile reads a plain-text file with one excluded phrase per
// line. Blank lines are ignored.
func LoadPhraseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phrase file %s: %w", path, err)
	}
	defer f.Close()

	var phrases []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			phrases = append(phrases, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read phrase file %s: %w", path, err)
	}
	return phrases, nil
}
