package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/filmgrain/reviewpipe/internal/review"
)

// SkipReason tags a review that the scraper dropped without error.
type SkipReason string

// Skip reasons reported by the classification and exclusion stages.
const (
	SkipNone                SkipReason = ""
	SkipNoLinguisticContent SkipReason = "no_linguistic_content"
	SkipLanguage            SkipReason = "language"
	SkipBannedPhrase        SkipReason = "banned_phrase"
)

// Scraper extracts normalized review records from listing and full-text
// pages. The pipeline is sequential: each review's full-text fetch
// completes before the next item is examined.
type Scraper struct {
	cfg        Config
	fetcher    Fetcher
	classifier Classifier
	phrases    *phraseBlocklist
	logger     *zap.Logger
}

// New builds a Scraper. excludePhrases may be empty, in which case no
// phrase exclusion is applied.
func New(cfg Config, fetcher Fetcher, classifier Classifier, excludePhrases []string, logger *zap.Logger) (*Scraper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	return &Scraper{
		cfg:        cfg,
		fetcher:    fetcher,
		classifier: classifier,
		phrases:    newPhraseBlocklist(excludePhrases),
		logger:     logger,
	}, nil
}

// ScrapeRange invokes ScrapePage once per configured page number, in
// order, and concatenates the results. No cross-page deduplication is
// performed; the loader's id-keyed upsert absorbs any overlap.
func (s *Scraper) ScrapeRange(ctx context.Context) ([]review.Review, error) {
	var all []review.Review
	for _, page := range s.cfg.Pages {
		url := fmt.Sprintf(s.cfg.BaseURL, page)
		reviews, err := s.ScrapePage(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("scrape page %d: %w", page, err)
		}
		s.logger.Info("Scraped page",
			zap.Int("page", page),
			zap.Int("reviews", len(reviews)),
		)
		all = append(all, reviews...)
	}
	return all, nil
}

// ScrapePage fetches one listing page and returns the normalized
// reviews it yields, in listing order. A listing page without the
// expected review list container is a structural error.
func (s *Scraper) ScrapePage(ctx context.Context, url string) ([]review.Review, error) {
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing page %s: %w", url, err)
	}

	list := doc.Find("ul.film-list").First()
	if list.Length() == 0 {
		return nil, fmt.Errorf("listing page %s has no review list container", url)
	}

	var reviews []review.Review
	var itemErr error
	list.Find("li").EachWithBreak(func(i int, item *goquery.Selection) bool {
		rev, skip, err := s.scrapeItem(ctx, item)
		if err != nil {
			itemErr = fmt.Errorf("review item %d on %s: %w", i, url, err)
			return false
		}
		if skip != SkipNone {
			TotalReviewsSkipped.WithLabelValues(string(skip)).Inc()
			s.logger.Debug("Skipping review",
				zap.String("reason", string(skip)),
				zap.String("id", rev.ID),
			)
			return true
		}
		TotalReviewsEmitted.Inc()
		reviews = append(reviews, rev)
		return true
	})
	if itemErr != nil {
		return nil, itemErr
	}

	TotalPagesScraped.Inc()
	return reviews, nil
}

// scrapeItem assembles one review from a listing item plus its
// full-text page. A zero SkipReason with nil error means the review
// should be emitted.
func (s *Scraper) scrapeItem(ctx context.Context, item *goquery.Selection) (review.Review, SkipReason, error) {
	id, ok := item.Attr("data-object-id")
	if !ok || id == "" {
		return review.Review{}, SkipNone, fmt.Errorf("missing data-object-id attribute")
	}
	owner, ok := item.Attr("data-owner")
	if !ok {
		return review.Review{}, SkipNone, fmt.Errorf("review %s: missing data-owner attribute", id)
	}

	anchor := item.Find("a").First()
	if anchor.Length() == 0 {
		return review.Review{}, SkipNone, fmt.Errorf("review %s: missing title anchor", id)
	}
	title := anchor.Text()
	href, ok := anchor.Attr("href")
	if !ok {
		return review.Review{}, SkipNone, fmt.Errorf("review %s: title anchor has no href", id)
	}

	text, err := s.fetchFullText(ctx, id)
	if err != nil {
		return review.Review{}, SkipNone, err
	}

	rev := review.Review{
		ID:     id,
		Movie:  title,
		User:   owner,
		Rating: parseRating(item),
		Link:   s.cfg.SiteRoot + href,
		Text:   text,
	}

	joined := strings.ToLower(strings.Join(text, " "))
	lang, err := s.classifier.Detect(joined)
	switch {
	case errors.Is(err, ErrNoLinguisticContent):
		return rev, SkipNoLinguisticContent, nil
	case err != nil:
		return review.Review{}, SkipNone, fmt.Errorf("classify review %s: %w", id, err)
	case lang != s.cfg.TargetLanguage:
		return rev, SkipLanguage, nil
	}

	if phrase, blocked := s.phrases.Match(joined); blocked {
		s.logger.Debug("Review matched excluded phrase",
			zap.String("id", id),
			zap.String("phrase", phrase),
		)
		return rev, SkipBannedPhrase, nil
	}

	return rev, SkipNone, nil
}

// fetchFullText retrieves the full-text page for a review id and
// returns its paragraphs in document order. Line-break tags inside a
// paragraph split it into separate strings.
func (s *Scraper) fetchFullText(ctx context.Context, id string) ([]string, error) {
	url := fmt.Sprintf("%s/s/full-text/%s/", s.cfg.SiteRoot, id)
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse full-text page for %s: %w", id, err)
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		p.Find("br").ReplaceWithHtml("\n")
		paragraphs = append(paragraphs, strings.Split(p.Text(), "\n")...)
	})
	return paragraphs, nil
}

// parseRating scans the item's rating indicator for a rated-N class
// token. A missing indicator or token yields the unrated sentinel.
func parseRating(item *goquery.Selection) int {
	span := item.Find("span.rating").First()
	if span.Length() == 0 {
		return review.UnratedSentinel
	}
	classes, ok := span.Attr("class")
	if !ok {
		return review.UnratedSentinel
	}
	rating := review.UnratedSentinel
	for _, token := range strings.Fields(classes) {
		if suffix, found := strings.CutPrefix(token, "rated-"); found {
			if value, err := strconv.Atoi(suffix); err == nil {
				rating = value
			}
		}
	}
	return rating
}
