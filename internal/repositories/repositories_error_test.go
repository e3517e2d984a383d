package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/musiclabel/internal/models"
	"github.com/desertthunder/musiclabel/internal/shared"
)

var errConnLost = errors.New("connection lost")

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, shared.DriverSQLite), mock
}

func TestRepositoryStorageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("ListArtists", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT .+ FROM artists").WillReturnError(errConnLost)

		_, err := NewArtistRepository(db).List(ctx)
		assert.ErrorIs(t, err, errConnLost)
		assert.NotErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListAlbums", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT .+ FROM albums al").WillReturnError(errConnLost)

		_, err := NewAlbumRepository(db).List(ctx)
		assert.ErrorIs(t, err, errConnLost)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateArtistRollsBack", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO artists").
			WithArgs("Name", 30, "Rock", "UK").
			WillReturnError(errConnLost)
		mock.ExpectRollback()

		_, err := NewArtistRepository(db).Create(ctx, models.Artist{Name: "Name", Age: 30, Genre: "Rock", Country: "UK"})
		assert.ErrorIs(t, err, errConnLost)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateArtistCommitFails", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO artists").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit().WillReturnError(errConnLost)

		_, err := NewArtistRepository(db).Create(ctx, models.Artist{Name: "Name", Age: 30, Genre: "Rock", Country: "UK"})
		assert.ErrorIs(t, err, errConnLost)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteArtistRollsBackWhenAlbumsFail", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, age, genre, country FROM artists WHERE id = ?")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "genre", "country"}).AddRow(1, "A", 30, "Rock", "UK"))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM albums WHERE artist_id = ?")).
			WithArgs(int64(1)).
			WillReturnError(errConnLost)
		mock.ExpectRollback()

		err := NewArtistRepository(db).Delete(ctx, 1)
		assert.ErrorIs(t, err, errConnLost)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BeginFails", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin().WillReturnError(errConnLost)

		err := NewAlbumRepository(db).Delete(ctx, 1)
		assert.ErrorIs(t, err, errConnLost)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateAlbumExecFails", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM albums WHERE id = ?").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "release_date", "genre", "track_count", "artist_id"}).
				AddRow(3, "T", "2024-01-01", "Pop", 10, 1))
		mock.ExpectQuery("SELECT .+ FROM artists WHERE id = ?").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "genre", "country"}).AddRow(1, "A", 30, "Rock", "UK"))
		mock.ExpectExec("UPDATE albums").WillReturnError(errConnLost)
		mock.ExpectRollback()

		_, err := NewAlbumRepository(db).Update(ctx, 3, models.AlbumPatch{Title: models.Some("New")})
		assert.ErrorIs(t, err, errConnLost)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
