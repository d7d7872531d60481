package loader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalMoviesCreated tracks movie entities created during ingestion.
	TotalMoviesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviewpipe_movies_created_total",
		Help: "The total number of movie entities created.",
	})
	// TotalReviewsUpserted tracks review upserts performed.
	TotalReviewsUpserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviewpipe_reviews_upserted_total",
		Help: "The total number of review entities upserted.",
	})
	// TotalCacheHits tracks movie resolutions served from the id cache.
	TotalCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviewpipe_movie_cache_hits_total",
		Help: "The total number of movie resolutions served from the cache.",
	})
)
