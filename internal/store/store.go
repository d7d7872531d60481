// Package store provides Postgres-backed persistence for movies, crew
// members, crew assignments, and reviews.
//
// It assumes a schema like:
//
//	CREATE TABLE movies (
//		id TEXT PRIMARY KEY,
//		title TEXT NOT NULL,
//		year INT NOT NULL,
//		genre TEXT NOT NULL,
//		poster TEXT NOT NULL,
//		critic_rating DOUBLE PRECISION NOT NULL
//	);
//	CREATE TABLE workers (
//		id BIGSERIAL PRIMARY KEY,
//		name TEXT NOT NULL UNIQUE,
//		link TEXT NOT NULL
//	);
//	CREATE TABLE crew_assignments (
//		movie_id TEXT NOT NULL REFERENCES movies(id),
//		worker_id BIGINT NOT NULL REFERENCES workers(id),
//		role TEXT NOT NULL,
//		PRIMARY KEY (movie_id, worker_id)
//	);
//	CREATE TABLE reviews (
//		id BIGINT PRIMARY KEY,
//		movie_id TEXT NOT NULL REFERENCES movies(id),
//		reviewer TEXT NOT NULL,
//		link TEXT NOT NULL,
//		text TEXT[] NOT NULL,
//		rating INT NOT NULL
//	);
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Movie is the persisted movie entity. Rows are created exactly once
// per distinct title and never mutated by this pipeline.
type Movie struct {
	ID           string
	Title        string
	Year         int
	Genre        string
	Poster       string
	CriticRating float64
}

// ReviewRow is the persisted review entity, keyed by the numeric id
// derived from the source's external identifier.
type ReviewRow struct {
	ID       int64
	MovieID  string
	Reviewer string
	Link     string
	Text     []string
	Rating   int
}

// pool is the subset of pgxpool.Pool the store needs; pgxmock
// satisfies it in tests.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store persists pipeline entities in Postgres.
type Store struct {
	pool pool
}

// New connects a Store to Postgres using the given DSN.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: p}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for
// testing).
func NewWithPool(p pool) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: p}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// CreateMovie inserts a new movie row.
func (s *Store) CreateMovie(ctx context.Context, m Movie) error {
	query := `
		INSERT INTO movies (id, title, year, genre, poster, critic_rating)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.pool.Exec(ctx, query, m.ID, m.Title, m.Year, m.Genre, m.Poster, m.CriticRating); err != nil {
		return fmt.Errorf("insert movie %q: %w", m.Title, err)
	}
	return nil
}

// FindOrCreateWorker upserts a crew member by name (case-sensitive
// unique key) and returns the worker id. The no-op DO UPDATE makes the
// RETURNING clause yield the id on conflict as well.
func (s *Store) FindOrCreateWorker(ctx context.Context, name, link string) (int64, error) {
	query := `
		INSERT INTO workers (name, link)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	var id int64
	if err := s.pool.QueryRow(ctx, query, name, link).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert worker %q: %w", name, err)
	}
	return id, nil
}

// AssignmentRole returns the current role string for a (movie, worker)
// pair. The second return value is false when no assignment exists.
func (s *Store) AssignmentRole(ctx context.Context, movieID string, workerID int64) (string, bool, error) {
	query := `
		SELECT role FROM crew_assignments
		WHERE movie_id = $1 AND worker_id = $2
	`
	var role string
	err := s.pool.QueryRow(ctx, query, movieID, workerID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find assignment (%s, %d): %w", movieID, workerID, err)
	}
	return role, true, nil
}

// UpsertAssignment creates or replaces the role string for a (movie,
// worker) pair. The upsert is atomic with respect to the composite key.
func (s *Store) UpsertAssignment(ctx context.Context, movieID string, workerID int64, role string) error {
	query := `
		INSERT INTO crew_assignments (movie_id, worker_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (movie_id, worker_id) DO UPDATE SET role = EXCLUDED.role
	`
	if _, err := s.pool.Exec(ctx, query, movieID, workerID, role); err != nil {
		return fmt.Errorf("upsert assignment (%s, %d): %w", movieID, workerID, err)
	}
	return nil
}

// UpsertReview creates or updates a review keyed by its id. An existing
// row has its mutable fields overwritten; the owning movie id is only
// set on creation.
func (s *Store) UpsertReview(ctx context.Context, r ReviewRow) error {
	query := `
		INSERT INTO reviews (id, movie_id, reviewer, link, text, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			reviewer = EXCLUDED.reviewer,
			link = EXCLUDED.link,
			text = EXCLUDED.text,
			rating = EXCLUDED.rating
	`
	if _, err := s.pool.Exec(ctx, query, r.ID, r.MovieID, r.Reviewer, r.Link, r.Text, r.Rating); err != nil {
		return fmt.Errorf("upsert review %d: %w", r.ID, err)
	}
	return nil
}
