// Package metadata resolves movie titles against an external metadata
// service. The Client interface decouples the loader from the concrete
// OMDB HTTP implementation.
package metadata

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the upstream service has no match for a
// title.
var ErrNotFound = errors.New("movie not found")

// MovieInfo is the metadata returned for a resolved title.
type MovieInfo struct {
	// ID is the service-assigned, globally unique movie identifier.
	ID    string
	Title string
	// Year is the release year; multi-year ranges collapse to the
	// first year.
	Year  int
	Genre string
	// Poster is the poster image URL.
	Poster string
	// CriticRating is -1 when the service reports no rating.
	CriticRating float64
	Actors       []string
	Directors    []string
}

// Client looks up movie metadata by title.
type Client interface {
	Lookup(ctx context.Context, title string) (MovieInfo, error)
}
