package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/musiclabel/internal/shared"
)

// Optional records whether a JSON field was present, and whether it was null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null [Optional].
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON implements [json.Unmarshaler]. It is only invoked for keys present in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// NewArtist is the body of an artist creation request.
type NewArtist struct {
	Name    *string `json:"name"`
	Age     *int    `json:"age"`
	Genre   *string `json:"genre"`
	Country *string `json:"country"`
}

// Validate checks that every mandatory field is present and non-empty and returns the entity to insert.
func (n NewArtist) Validate() (Artist, error) {
	var missing []string
	if isBlank(n.Name) {
		missing = append(missing, "name")
	}
	if n.Age == nil {
		missing = append(missing, "age")
	}
	if isBlank(n.Genre) {
		missing = append(missing, "genre")
	}
	if isBlank(n.Country) {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return Artist{}, fmt.Errorf("%w: %v", shared.ErrMissingField, missing)
	}

	return Artist{Name: *n.Name, Age: *n.Age, Genre: *n.Genre, Country: *n.Country}, nil
}

// NewAlbum is the body of an album creation request.
type NewAlbum struct {
	Title       *string `json:"title"`
	ReleaseDate *string `json:"release_date"`
	Genre       *string `json:"genre"`
	TrackCount  Optional[int] `json:"track_count"`
	ArtistID    *int64        `json:"artist_id"`
}

// Validate checks that every mandatory field is present.
//
// The release date is only checked for presence here; it is parsed by [NewAlbum.Album]
// so that a missing artist can be reported first.
func (n NewAlbum) Validate() error {
	var missing []string
	if isBlank(n.Title) {
		missing = append(missing, "title")
	}
	if isBlank(n.ReleaseDate) {
		missing = append(missing, "release_date")
	}
	if isBlank(n.Genre) {
		missing = append(missing, "genre")
	}
	if n.ArtistID == nil {
		missing = append(missing, "artist_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", shared.ErrMissingField, missing)
	}
	return nil
}

// Album parses the release date and returns the entity to insert.
// An omitted track count takes [DefaultTrackCount]; an explicit null yields [shared.ErrUnprocessable].
// Call [NewAlbum.Validate] first.
func (n NewAlbum) Album() (Album, error) {
	date, err := ParseDate(*n.ReleaseDate)
	if err != nil {
		return Album{}, err
	}

	trackCount := DefaultTrackCount
	if n.TrackCount.Set {
		if n.TrackCount.Null {
			return Album{}, fmt.Errorf("%w: track_count cannot be null", shared.ErrUnprocessable)
		}
		trackCount = n.TrackCount.Value
	}

	return Album{
		Title:       *n.Title,
		ReleaseDate: date,
		Genre:       *n.Genre,
		TrackCount:  trackCount,
		ArtistID:    *n.ArtistID,
	}, nil
}

// ArtistPatch is the body of a partial artist update.
type ArtistPatch struct {
	Name    Optional[string] `json:"name"`
	Age     Optional[int]    `json:"age"`
	Genre   Optional[string] `json:"genre"`
	Country Optional[string] `json:"country"`
}

// Empty reports whether the patch changes nothing.
func (p ArtistPatch) Empty() bool {
	return !p.Name.Set && !p.Age.Set && !p.Genre.Set && !p.Country.Set
}

// Apply copies the present fields onto a.
// Null values and empty text violate the column constraints and yield [shared.ErrUnprocessable].
func (p ArtistPatch) Apply(a *Artist) error {
	if err := applyText(&a.Name, p.Name, "name"); err != nil {
		return err
	}
	if p.Age.Set {
		if p.Age.Null {
			return fmt.Errorf("%w: age cannot be null", shared.ErrUnprocessable)
		}
		a.Age = p.Age.Value
	}
	if err := applyText(&a.Genre, p.Genre, "genre"); err != nil {
		return err
	}
	return applyText(&a.Country, p.Country, "country")
}

// AlbumPatch is the body of a partial album update.
type AlbumPatch struct {
	Title       Optional[string] `json:"title"`
	ReleaseDate Optional[string] `json:"release_date"`
	Genre       Optional[string] `json:"genre"`
	TrackCount  Optional[int]    `json:"track_count"`
	ArtistID    Optional[int64]  `json:"artist_id"`
}

// Empty reports whether the patch changes nothing.
func (p AlbumPatch) Empty() bool {
	return !p.Title.Set && !p.ReleaseDate.Set && !p.Genre.Set && !p.TrackCount.Set && !p.ArtistID.Set
}

// Apply copies the present fields onto a.
//
// An unparseable release date yields [shared.ErrInvalidDate]; null or empty values yield [shared.ErrUnprocessable].
// The existence of a reassigned artist is not checked here.
func (p AlbumPatch) Apply(a *Album) error {
	if err := applyText(&a.Title, p.Title, "title"); err != nil {
		return err
	}
	if p.ReleaseDate.Set {
		if p.ReleaseDate.Null {
			return fmt.Errorf("%w: release_date cannot be null", shared.ErrUnprocessable)
		}
		date, err := ParseDate(p.ReleaseDate.Value)
		if err != nil {
			return err
		}
		a.ReleaseDate = date
	}
	if err := applyText(&a.Genre, p.Genre, "genre"); err != nil {
		return err
	}
	if p.TrackCount.Set {
		if p.TrackCount.Null {
			return fmt.Errorf("%w: track_count cannot be null", shared.ErrUnprocessable)
		}
		a.TrackCount = p.TrackCount.Value
	}
	if p.ArtistID.Set {
		if p.ArtistID.Null {
			return fmt.Errorf("%w: artist_id cannot be null", shared.ErrUnprocessable)
		}
		a.ArtistID = p.ArtistID.Value
	}
	return nil
}

func applyText(dst *string, field Optional[string], name string) error {
	if !field.Set {
		return nil
	}
	if field.Null || field.Value == "" {
		return fmt.Errorf("%w: %s cannot be empty", shared.ErrUnprocessable, name)
	}
	*dst = field.Value
	return nil
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}
