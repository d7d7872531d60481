package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	s, err := NewWithPool(mock)
	require.NoError(t, err)
	return s, mock
}

func TestCreateMovie(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	m := Movie{
		ID:           "tt0113277",
		Title:        "Heat",
		Year:         1995,
		Genre:        "Action, Crime, Drama",
		Poster:       "https://img.test/heat.jpg",
		CriticRating: 8.3,
	}
	mock.ExpectExec("INSERT INTO movies").
		WithArgs(m.ID, m.Title, m.Year, m.Genre, m.Poster, m.CriticRating).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.CreateMovie(context.Background(), m))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateWorker(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO workers").
		WithArgs("Michael Mann", "https://en.wikipedia.org/wiki/Michael_Mann").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := s.FindOrCreateWorker(context.Background(), "Michael Mann", "https://en.wikipedia.org/wiki/Michael_Mann")
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRole(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT role FROM crew_assignments").
		WithArgs("tt0113277", int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow("Actor"))

	role, found, err := s.AssignmentRole(context.Background(), "tt0113277", 7)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Actor", role)

	mock.ExpectQuery("SELECT role FROM crew_assignments").
		WithArgs("tt0113277", int64(8)).
		WillReturnRows(pgxmock.NewRows([]string{"role"}))

	_, found, err = s.AssignmentRole(context.Background(), "tt0113277", 8)
	require.NoError(t, err)
	require.False(t, found, "no rows must report an absent assignment, not an error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAssignment(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO crew_assignments").
		WithArgs("tt0113277", int64(7), "Actor + Director").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.UpsertAssignment(context.Background(), "tt0113277", 7, "Actor + Director"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertReview(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t)

	row := ReviewRow{
		ID:       12345,
		MovieID:  "tt0113277",
		Reviewer: "alice",
		Link:     "https://films.test/alice/film/heat/",
		Text:     []string{"A classic.", "Rewatched it twice."},
		Rating:   8,
	}
	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(row.ID, row.MovieID, row.Reviewer, row.Link, row.Text, row.Rating).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.UpsertReview(context.Background(), row))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWithPoolRequiresPool(t *testing.T) {
	t.Parallel()
	_, err := NewWithPool(nil)
	require.Error(t, err)
}

func TestNewRequiresDSN(t *testing.T) {
	t.Parallel()
	_, err := New(context.Background(), "")
	require.Error(t, err)
}
