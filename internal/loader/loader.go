// Package loader consumes normalized review records and persists them
// into the relational store, creating movie and crew entities on first
// sight of a title and upserting reviews keyed by their external id.
package loader

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/filmgrain/reviewpipe/internal/metadata"
	"github.com/filmgrain/reviewpipe/internal/review"
	"github.com/filmgrain/reviewpipe/internal/store"
)

// externalIDPrefix is stripped from a review's external id to obtain
// its numeric primary key.
const externalIDPrefix = "viewing:"

// roleSeparator joins accumulated role labels in a crew assignment.
const roleSeparator = " + "

// Store is the slice of the relational store the loader depends on.
type Store interface {
	CreateMovie(ctx context.Context, m store.Movie) error
	FindOrCreateWorker(ctx context.Context, name, link string) (int64, error)
	AssignmentRole(ctx context.Context, movieID string, workerID int64) (string, bool, error)
	UpsertAssignment(ctx context.Context, movieID string, workerID int64, role string) error
	UpsertReview(ctx context.Context, r store.ReviewRow) error
}

// MovieError wraps a processing failure with the movie title that was
// in flight, so the operator knows where a resumed run picks up.
type MovieError struct {
	Movie string
	Err   error
}

func (e *MovieError) Error() string {
	return fmt.Sprintf("processing movie %q: %v", e.Movie, e.Err)
}

func (e *MovieError) Unwrap() error {
	return e.Err
}

// Loader drives one ingestion run. It owns the movie id cache for the
// run's duration; all mutation happens from a single goroutine.
type Loader struct {
	store    Store
	metadata metadata.Client
	cache    *Cache
	logger   *zap.Logger
	progress io.Writer
}

// Option customizes a Loader.
type Option func(*Loader)

// WithProgress directs a progress bar to w (typically os.Stderr).
func WithProgress(w io.Writer) Option {
	return func(l *Loader) { l.progress = w }
}

// New builds a Loader over the given collaborators.
func New(st Store, md metadata.Client, cache *Cache, logger *zap.Logger, opts ...Option) (*Loader, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if md == nil {
		return nil, fmt.Errorf("metadata client is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	l := &Loader{
		store:    st,
		metadata: md,
		cache:    cache,
		logger:   logger,
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Run processes reviews in input order. On any failure it stops
// processing, but the cache accumulated so far is still flushed so a
// re-run resumes without redoing completed work. The returned error
// carries the failing movie title via MovieError.
func (l *Loader) Run(ctx context.Context, reviews []review.Review) (err error) {
	defer func() {
		if ferr := l.cache.Flush(); ferr != nil {
			l.logger.Error("Failed to flush movie cache", zap.Error(ferr))
			if err == nil {
				err = ferr
			}
		} else {
			l.logger.Info("Flushed movie cache", zap.Int("movies", l.cache.Len()))
		}
	}()

	bar := progressbar.NewOptions(len(reviews),
		progressbar.OptionSetDescription("Building models"),
		progressbar.OptionSetWriter(l.progress),
		progressbar.OptionClearOnFinish(),
	)
	for _, rev := range reviews {
		_ = bar.Add(1)
		if perr := l.processReview(ctx, rev); perr != nil {
			l.logger.Error("Ingestion failed",
				zap.String("movie", rev.Movie),
				zap.Error(perr),
			)
			return &MovieError{Movie: rev.Movie, Err: perr}
		}
	}
	return nil
}

// processReview resolves the owning movie (cache first, metadata
// lookup on miss), then upserts the review entity.
func (l *Loader) processReview(ctx context.Context, rev review.Review) error {
	movieID, cached := l.cache.Get(rev.Movie)
	if !cached {
		var err error
		movieID, err = l.createMovie(ctx, rev.Movie)
		if err != nil {
			return err
		}
		l.cache.Put(rev.Movie, movieID)
	} else {
		TotalCacheHits.Inc()
	}

	id, err := reviewID(rev.ID)
	if err != nil {
		return err
	}
	row := store.ReviewRow{
		ID:       id,
		MovieID:  movieID,
		Reviewer: rev.User,
		Link:     rev.Link,
		Text:     rev.Text,
		Rating:   rev.Rating,
	}
	if err := l.store.UpsertReview(ctx, row); err != nil {
		return err
	}
	TotalReviewsUpserted.Inc()
	return nil
}

// createMovie looks up metadata for a title, inserts the movie row,
// and assigns its crew. Returns the new movie id.
func (l *Loader) createMovie(ctx context.Context, title string) (string, error) {
	info, err := l.metadata.Lookup(ctx, title)
	if err != nil {
		return "", err
	}

	m := store.Movie{
		ID:           info.ID,
		Title:        title,
		Year:         info.Year,
		Genre:        info.Genre,
		Poster:       info.Poster,
		CriticRating: info.CriticRating,
	}
	if err := l.store.CreateMovie(ctx, m); err != nil {
		return "", err
	}
	TotalMoviesCreated.Inc()
	l.logger.Info("Created movie",
		zap.String("title", title),
		zap.String("id", info.ID),
		zap.Int("year", info.Year),
	)

	if err := l.assignCrew(ctx, info.ID, info.Actors, "Actor"); err != nil {
		return "", err
	}
	if err := l.assignCrew(ctx, info.ID, info.Directors, "Director"); err != nil {
		return "", err
	}
	return info.ID, nil
}

// assignCrew finds or creates a worker per name and merges the role
// into the (movie, worker) assignment.
func (l *Loader) assignCrew(ctx context.Context, movieID string, names []string, role string) error {
	for _, name := range names {
		link := wikiLink(name)
		workerID, err := l.store.FindOrCreateWorker(ctx, name, link)
		if err != nil {
			return err
		}

		existing, found, err := l.store.AssignmentRole(ctx, movieID, workerID)
		if err != nil {
			return err
		}
		merged, changed := mergeRole(existing, role)
		if found && !changed {
			// Role already recorded; repeated identical inserts
			// must not duplicate the label.
			continue
		}
		if err := l.store.UpsertAssignment(ctx, movieID, workerID, merged); err != nil {
			return err
		}
	}
	return nil
}

// mergeRole appends role to the separator-joined role list unless it
// is already present. The second return value reports whether the
// merged value differs from the existing one.
func mergeRole(existing, role string) (string, bool) {
	if existing == "" {
		return role, true
	}
	for _, r := range strings.Split(existing, roleSeparator) {
		if r == role {
			return existing, false
		}
	}
	return existing + roleSeparator + role, true
}

// reviewID derives the numeric primary key from a review's external
// id by stripping the source prefix.
func reviewID(external string) (int64, error) {
	raw, found := strings.CutPrefix(external, externalIDPrefix)
	if !found {
		return 0, fmt.Errorf("malformed review id %q: missing %q prefix", external, externalIDPrefix)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed review id %q: %w", external, err)
	}
	return id, nil
}

// wikiLink builds the reference link stored for a crew member.
func wikiLink(name string) string {
	return "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(name, " ", "_")
}
