package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalPagesScraped tracks the number of listing pages successfully parsed.
	TotalPagesScraped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviewpipe_pages_scraped_total",
		Help: "The total number of listing pages successfully scraped.",
	})
	// TotalReviewsEmitted tracks the number of reviews assembled and emitted.
	TotalReviewsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviewpipe_reviews_emitted_total",
		Help: "The total number of normalized review records emitted.",
	})
	// TotalReviewsSkipped tracks reviews dropped during scraping, by reason.
	TotalReviewsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewpipe_reviews_skipped_total",
		Help: "The total number of reviews skipped during scraping.",
	}, []string{"reason"})
)
