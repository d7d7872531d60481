// Package scraper implements the review listing scraper and the
// pagination driver that walks a bounded page range.
package scraper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a scrape run. All values
// originate from Viper so the scraper can be configured via files, env
// vars, or CLI flags.
type Config struct {
	// BaseURL is a printf-style template containing one %d verb that is
	// substituted with the page number.
	BaseURL string
	// SiteRoot is prepended to relative permalinks and to the full-text
	// endpoint path.
	SiteRoot       string
	Pages          []int
	UserAgent      string
	RequestTimeout time.Duration
	// TargetLanguage is the ISO 639-1 code a review must classify as.
	TargetLanguage string
	PhraseFile     string
	OutputPath     string
}

// LoadConfig constructs a scraper Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	pages, err := parsePageRange(v.GetString("scraper.pages"))
	if err != nil {
		return Config{}, fmt.Errorf("scraper.pages: %w", err)
	}
	cfg := Config{
		BaseURL:        v.GetString("scraper.base_url"),
		SiteRoot:       v.GetString("scraper.site_root"),
		Pages:          pages,
		UserAgent:      v.GetString("scraper.user_agent"),
		RequestTimeout: v.GetDuration("scraper.request_timeout"),
		TargetLanguage: v.GetString("scraper.target_language"),
		PhraseFile:     v.GetString("scraper.phrase_file"),
		OutputPath:     v.GetString("scraper.output"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if !strings.Contains(c.BaseURL, "%d") {
		return fmt.Errorf("scraper.base_url must contain a %%d page placeholder")
	}
	if c.SiteRoot == "" {
		return fmt.Errorf("scraper.site_root must be set")
	}
	if len(c.Pages) == 0 {
		return fmt.Errorf("scraper.pages must include at least one page number")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("scraper.user_agent must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("scraper.request_timeout must be > 0")
	}
	if c.TargetLanguage == "" {
		return fmt.Errorf("scraper.target_language must be set")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("scraper.output must be set")
	}
	return nil
}

// parsePageRange accepts "3", "1-3", or "1,2,5" and returns the page
// numbers in order.
func parsePageRange(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty page range")
	}
	if lo, hi, ok := strings.Cut(raw, "-"); ok {
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("bad range start %q", lo)
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("bad range end %q", hi)
		}
		if end < start {
			return nil, fmt.Errorf("range end %d before start %d", end, start)
		}
		pages := make([]int, 0, end-start+1)
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
		return pages, nil
	}
	parts := strings.Split(raw, ",")
	pages := make([]int, 0, len(parts))
	for _, part := range parts {
		p, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad page number %q", part)
		}
		pages = append(pages, p)
	}
	return pages, nil
}
