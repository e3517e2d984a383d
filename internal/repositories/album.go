package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/desertthunder/musiclabel/internal/models"
)

// AlbumRepository persists [models.Album] rows.
type AlbumRepository struct {
	db *sqlx.DB
}

// NewAlbumRepository creates a new AlbumRepository with the given database connection
func NewAlbumRepository(db *sqlx.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// albumRow is an album joined with its owner.
type albumRow struct {
	models.Album
	Artist models.Artist `db:"artist"`
}

// List returns every album ordered by id, each with a summary of its artist.
func (r *AlbumRepository) List(ctx context.Context) ([]models.AlbumView, error) {
	query := `
		SELECT al.id, al.title, al.release_date, al.genre, al.track_count, al.artist_id,
			ar.id AS "artist.id", ar.name AS "artist.name", ar.age AS "artist.age",
			ar.genre AS "artist.genre", ar.country AS "artist.country"
		FROM albums al
		JOIN artists ar ON ar.id = al.artist_id
		ORDER BY al.id ASC
	`

	var rows []albumRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}

	views := make([]models.AlbumView, 0, len(rows))
	for _, row := range rows {
		views = append(views, models.FormatAlbum(row.Album, &row.Artist))
	}
	return views, nil
}

// Get returns the album with id and its artist.
func (r *AlbumRepository) Get(ctx context.Context, id int64) (models.AlbumView, error) {
	album, err := getAlbum(ctx, r.db, id)
	if err != nil {
		return models.AlbumView{}, err
	}
	artist, err := getArtist(ctx, r.db, album.ArtistID)
	if err != nil {
		return models.AlbumView{}, err
	}
	return models.FormatAlbum(album, &artist), nil
}

// Create inserts the album described by payload.
//
// The referenced artist is checked before the release date is parsed, so an unknown artist is
// always reported as not found. Call [models.NewAlbum.Validate] first.
func (r *AlbumRepository) Create(ctx context.Context, payload models.NewAlbum) (models.AlbumView, error) {
	var view models.AlbumView

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		artist, err := getArtist(ctx, tx, *payload.ArtistID)
		if err != nil {
			return err
		}

		album, err := payload.Album()
		if err != nil {
			return err
		}

		query := tx.Rebind(`
			INSERT INTO albums (title, release_date, genre, track_count, artist_id)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id
		`)
		row := tx.QueryRowxContext(ctx, query, album.Title, album.ReleaseDate, album.Genre, album.TrackCount, album.ArtistID)
		if err := row.Scan(&album.ID); err != nil {
			return fmt.Errorf("failed to insert album: %w", err)
		}

		view = models.FormatAlbum(album, &artist)
		return nil
	})
	if err != nil {
		return models.AlbumView{}, err
	}

	return view, nil
}

// Update applies the fields present in patch to the album with id.
// A reassigned artist must exist.
func (r *AlbumRepository) Update(ctx context.Context, id int64, patch models.AlbumPatch) (models.AlbumView, error) {
	var view models.AlbumView

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		album, err := getAlbum(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := patch.Apply(&album); err != nil {
			return err
		}

		artist, err := getArtist(ctx, tx, album.ArtistID)
		if err != nil {
			return err
		}

		if !patch.Empty() {
			query := tx.Rebind(`
				UPDATE albums
				SET title = ?, release_date = ?, genre = ?, track_count = ?, artist_id = ?
				WHERE id = ?
			`)
			_, err := tx.ExecContext(ctx, query, album.Title, album.ReleaseDate, album.Genre, album.TrackCount, album.ArtistID, id)
			if err != nil {
				return fmt.Errorf("failed to update album: %w", err)
			}
		}

		view = models.FormatAlbum(album, &artist)
		return nil
	})
	if err != nil {
		return models.AlbumView{}, err
	}

	return view, nil
}

// Delete removes the album with id.
func (r *AlbumRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := getAlbum(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM albums WHERE id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete album: %w", err)
		}
		return nil
	})
}
