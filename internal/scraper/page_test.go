package scraper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/filmgrain/reviewpipe/internal/review"
)

// fakeFetcher serves canned bodies keyed by URL.
type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("fetch %s: connection refused", rawURL)
	}
	return []byte(body), nil
}

// fakeClassifier returns a fixed language per lower-cased text, or the
// no-content error when the text is missing from the table.
type fakeClassifier struct {
	langs map[string]string
}

func (f *fakeClassifier) Detect(text string) (string, error) {
	lang, ok := f.langs[text]
	if !ok {
		return "", ErrNoLinguisticContent
	}
	return lang, nil
}

// englishClassifier accepts everything as English.
type englishClassifier struct{}

func (englishClassifier) Detect(text string) (string, error) {
	if text == "" {
		return "", ErrNoLinguisticContent
	}
	return "en", nil
}

func testConfig() Config {
	return Config{
		BaseURL:        "https://films.test/reviews/page/%d",
		SiteRoot:       "https://films.test",
		Pages:          []int{1},
		UserAgent:      "reviewpipe-test",
		RequestTimeout: 5 * time.Second,
		TargetLanguage: "en",
		OutputPath:     "reviews.json",
	}
}

func listingPage(items ...string) string {
	page := `<html><body><ul class="film-list">`
	for _, item := range items {
		page += item
	}
	return page + `</ul></body></html>`
}

const ratedItem = `<li data-object-id="viewing:101" data-owner="alice">
  <a href="/alice/film/heat/">Heat</a>
  <span class="rating -green rated-8">star</span>
</li>`

const unratedItem = `<li data-object-id="viewing:102" data-owner="bob">
  <a href="/bob/film/ronin/">Ronin</a>
</li>`

func fullTextPage(paragraphs ...string) string {
	page := "<html><body>"
	for _, p := range paragraphs {
		page += "<p>" + p + "</p>"
	}
	return page + "</body></html>"
}

func newTestScraper(t *testing.T, cfg Config, fetcher Fetcher, classifier Classifier, phrases []string) *Scraper {
	t.Helper()
	s, err := New(cfg, fetcher, classifier, phrases, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestScrapePageExtractsReviews(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://films.test/reviews/page/1":           listingPage(ratedItem, unratedItem),
		"https://films.test/s/full-text/viewing:101/": fullTextPage("A classic.", "Top line<br>bottom line"),
		"https://films.test/s/full-text/viewing:102/": fullTextPage("Decent heist film."),
	}}
	s := newTestScraper(t, testConfig(), fetcher, englishClassifier{}, nil)

	reviews, err := s.ScrapePage(context.Background(), "https://films.test/reviews/page/1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	require.Equal(t, review.Review{
		ID:     "viewing:101",
		Movie:  "Heat",
		User:   "alice",
		Rating: 8,
		Link:   "https://films.test/alice/film/heat/",
		Text:   []string{"A classic.", "Top line", "bottom line"},
	}, reviews[0])

	require.Equal(t, "viewing:102", reviews[1].ID)
	require.Equal(t, review.UnratedSentinel, reviews[1].Rating, "missing rating indicator must map to the sentinel")
}

func TestScrapePageMissingListContainer(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://films.test/reviews/page/1": "<html><body><div>nothing here</div></body></html>",
	}}
	s := newTestScraper(t, testConfig(), fetcher, englishClassifier{}, nil)

	_, err := s.ScrapePage(context.Background(), "https://films.test/reviews/page/1")
	require.ErrorContains(t, err, "review list container")
}

func TestScrapePageSkipsNonTargetLanguage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://films.test/reviews/page/1":           listingPage(ratedItem, unratedItem),
		"https://films.test/s/full-text/viewing:101/": fullTextPage("Une merveille absolue."),
		"https://films.test/s/full-text/viewing:102/": fullTextPage("Decent heist film."),
	}}
	classifier := &fakeClassifier{langs: map[string]string{
		"une merveille absolue.": "fr",
		"decent heist film.":     "en",
	}}
	s := newTestScraper(t, testConfig(), fetcher, classifier, nil)

	reviews, err := s.ScrapePage(context.Background(), "https://films.test/reviews/page/1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "viewing:102", reviews[0].ID)
}

func TestScrapePageSkipsEmptyText(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://films.test/reviews/page/1":           listingPage(ratedItem),
		"https://films.test/s/full-text/viewing:101/": fullTextPage(),
	}}
	// The fake classifier has no entry for "", so it reports no
	// linguistic content, which must be recovered locally.
	s := newTestScraper(t, testConfig(), fetcher, &fakeClassifier{}, nil)

	reviews, err := s.ScrapePage(context.Background(), "https://films.test/reviews/page/1")
	require.NoError(t, err)
	require.Empty(t, reviews)
}

func TestScrapePageBannedPhrase(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://films.test/reviews/page/1":           listingPage(ratedItem, unratedItem),
		"https://films.test/s/full-text/viewing:101/": fullTextPage("Honestly a SPOILER ALERT kind of review."),
		"https://films.test/s/full-text/viewing:102/": fullTextPage("Decent heist film."),
	}}
	s := newTestScraper(t, testConfig(), fetcher, englishClassifier{}, []string{"Spoiler Alert"})

	reviews, err := s.ScrapePage(context.Background(), "https://films.test/reviews/page/1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, "viewing:102", reviews[0].ID)
}

func TestScrapePagePropagatesTransportErrors(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://films.test/reviews/page/1": listingPage(ratedItem),
		// full-text page intentionally unavailable
	}}
	s := newTestScraper(t, testConfig(), fetcher, englishClassifier{}, nil)

	_, err := s.ScrapePage(context.Background(), "https://films.test/reviews/page/1")
	require.ErrorContains(t, err, "connection refused")
}

func TestScrapeRangeConcatenatesInPageOrder(t *testing.T) {
	itemFor := func(id int) string {
		return fmt.Sprintf(`<li data-object-id="viewing:%d" data-owner="u%d"><a href="/f/%d/">Film %d</a></li>`, id, id, id, id)
	}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://films.test/reviews/page/1": listingPage(itemFor(1), itemFor(2)),
		"https://films.test/reviews/page/2": listingPage(itemFor(3)),
		"https://films.test/reviews/page/3": listingPage(itemFor(4)),
	}}
	for _, id := range []int{1, 2, 3, 4} {
		fetcher.pages[fmt.Sprintf("https://films.test/s/full-text/viewing:%d/", id)] = fullTextPage("Fine.")
	}

	cfg := testConfig()
	cfg.Pages = []int{1, 2, 3}
	s := newTestScraper(t, cfg, fetcher, englishClassifier{}, nil)

	reviews, err := s.ScrapeRange(context.Background())
	require.NoError(t, err)

	var ids []string
	for _, rev := range reviews {
		ids = append(ids, rev.ID)
	}
	require.Equal(t, []string{"viewing:1", "viewing:2", "viewing:3", "viewing:4"}, ids)
}

func TestScrapeRangeStopsOnPageError(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{}}
	cfg := testConfig()
	cfg.Pages = []int{1, 2}
	s := newTestScraper(t, cfg, fetcher, englishClassifier{}, nil)

	_, err := s.ScrapeRange(context.Background())
	require.ErrorContains(t, err, "scrape page 1")
}
