package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/desertthunder/musiclabel/internal/models"
)

// ArtistRepository persists [models.Artist] rows.
type ArtistRepository struct {
	db *sqlx.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sqlx.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// List returns every artist ordered by id, each with summaries of its albums.
func (r *ArtistRepository) List(ctx context.Context) ([]models.ArtistView, error) {
	var artists []models.Artist
	if err := r.db.SelectContext(ctx, &artists, "SELECT "+artistColumns+" FROM artists ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}

	var albums []models.Album
	if err := r.db.SelectContext(ctx, &albums, "SELECT "+albumColumns+" FROM albums ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}

	owned := make(map[int64][]models.Album, len(artists))
	for _, album := range albums {
		owned[album.ArtistID] = append(owned[album.ArtistID], album)
	}

	views := make([]models.ArtistView, 0, len(artists))
	for _, artist := range artists {
		views = append(views, models.FormatArtist(artist, owned[artist.ID]))
	}
	return views, nil
}

// Get returns the artist with id and its albums.
func (r *ArtistRepository) Get(ctx context.Context, id int64) (models.ArtistView, error) {
	artist, err := getArtist(ctx, r.db, id)
	if err != nil {
		return models.ArtistView{}, err
	}
	albums, err := albumsByArtist(ctx, r.db, id)
	if err != nil {
		return models.ArtistView{}, err
	}
	return models.FormatArtist(artist, albums), nil
}

// Create inserts artist and returns it with its assigned id.
func (r *ArtistRepository) Create(ctx context.Context, artist models.Artist) (models.ArtistView, error) {
	query := r.db.Rebind(`
		INSERT INTO artists (name, age, genre, country)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, query, artist.Name, artist.Age, artist.Genre, artist.Country).Scan(&artist.ID); err != nil {
			return fmt.Errorf("failed to insert artist: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.ArtistView{}, err
	}

	return models.FormatArtist(artist, nil), nil
}

// Update applies the fields present in patch to the artist with id.
func (r *ArtistRepository) Update(ctx context.Context, id int64, patch models.ArtistPatch) (models.ArtistView, error) {
	var view models.ArtistView

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		artist, err := getArtist(ctx, tx, id)
		if err != nil {
			return err
		}

		if !patch.Empty() {
			if err := patch.Apply(&artist); err != nil {
				return err
			}

			query := tx.Rebind(`
				UPDATE artists
				SET name = ?, age = ?, genre = ?, country = ?
				WHERE id = ?
			`)
			if _, err := tx.ExecContext(ctx, query, artist.Name, artist.Age, artist.Genre, artist.Country, id); err != nil {
				return fmt.Errorf("failed to update artist: %w", err)
			}
		}

		albums, err := albumsByArtist(ctx, tx, id)
		if err != nil {
			return err
		}
		view = models.FormatArtist(artist, albums)
		return nil
	})
	if err != nil {
		return models.ArtistView{}, err
	}

	return view, nil
}

// Delete removes the artist with id together with all of its albums.
func (r *ArtistRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := getArtist(ctx, tx, id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM albums WHERE artist_id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete albums of artist %d: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM artists WHERE id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete artist: %w", err)
		}
		return nil
	})
}
