package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/desertthunder/musiclabel/internal/models"
	"github.com/desertthunder/musiclabel/internal/shared"
)

// withTx runs fn in a transaction, committing when fn returns nil.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const (
	artistColumns = "id, name, age, genre, country"
	albumColumns  = "id, title, release_date, genre, track_count, artist_id"
)

// getArtist loads one artist through q, which may be a *sqlx.DB or *sqlx.Tx.
func getArtist(ctx context.Context, q sqlx.ExtContext, id int64) (models.Artist, error) {
	var artist models.Artist
	query := q.Rebind("SELECT " + artistColumns + " FROM artists WHERE id = ?")
	if err := sqlx.GetContext(ctx, q, &artist, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Artist{}, fmt.Errorf("%w: artist %d", shared.ErrNotFound, id)
		}
		return models.Artist{}, fmt.Errorf("failed to get artist: %w", err)
	}
	return artist, nil
}

func getAlbum(ctx context.Context, q sqlx.ExtContext, id int64) (models.Album, error) {
	var album models.Album
	query := q.Rebind("SELECT " + albumColumns + " FROM albums WHERE id = ?")
	if err := sqlx.GetContext(ctx, q, &album, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Album{}, fmt.Errorf("%w: album %d", shared.ErrNotFound, id)
		}
		return models.Album{}, fmt.Errorf("failed to get album: %w", err)
	}
	return album, nil
}

func albumsByArtist(ctx context.Context, q sqlx.ExtContext, artistID int64) ([]models.Album, error) {
	var albums []models.Album
	query := q.Rebind("SELECT " + albumColumns + " FROM albums WHERE artist_id = ? ORDER BY id ASC")
	if err := sqlx.SelectContext(ctx, q, &albums, query, artistID); err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	return albums, nil
}
