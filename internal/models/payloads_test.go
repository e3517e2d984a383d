package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/musiclabel/internal/shared"
)

func ptr[T any](v T) *T { return &v }

func TestNewArtistValidate(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		artist, err := NewArtist{Name: ptr("Test Artist"), Age: ptr(25), Genre: ptr("Pop"), Country: ptr("USA")}.Validate()
		require.NoError(t, err)
		assert.Equal(t, Artist{Name: "Test Artist", Age: 25, Genre: "Pop", Country: "USA"}, artist)
	})

	t.Run("ZeroAgeIsPresent", func(t *testing.T) {
		_, err := NewArtist{Name: ptr("Newborn"), Age: ptr(0), Genre: ptr("Pop"), Country: ptr("USA")}.Validate()
		assert.NoError(t, err)
	})

	tc := []struct {
		name    string
		payload NewArtist
	}{
		{name: "missing name", payload: NewArtist{Age: ptr(25), Genre: ptr("Pop"), Country: ptr("USA")}},
		{name: "empty name", payload: NewArtist{Name: ptr(""), Age: ptr(25), Genre: ptr("Pop"), Country: ptr("USA")}},
		{name: "missing age", payload: NewArtist{Name: ptr("A"), Genre: ptr("Pop"), Country: ptr("USA")}},
		{name: "missing genre", payload: NewArtist{Name: ptr("A"), Age: ptr(25), Country: ptr("USA")}},
		{name: "missing country", payload: NewArtist{Name: ptr("A"), Age: ptr(25), Genre: ptr("Pop")}},
		{name: "empty", payload: NewArtist{}},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.payload.Validate()
			assert.ErrorIs(t, err, shared.ErrMissingField)
		})
	}
}

func TestNewAlbum(t *testing.T) {
	valid := NewAlbum{
		Title:       ptr("Test Album"),
		ReleaseDate: ptr("2024-01-01"),
		Genre:       ptr("Pop"),
		TrackCount:  Some(12),
		ArtistID:    ptr(int64(1)),
	}

	t.Run("Complete", func(t *testing.T) {
		require.NoError(t, valid.Validate())
		album, err := valid.Album()
		require.NoError(t, err)
		assert.Equal(t, "Test Album", album.Title)
		assert.Equal(t, "2024-01-01", album.ReleaseDate.String())
		assert.Equal(t, 12, album.TrackCount)
		assert.Equal(t, int64(1), album.ArtistID)
	})

	t.Run("DefaultTrackCount", func(t *testing.T) {
		payload := valid
		payload.TrackCount = Optional[int]{}
		album, err := payload.Album()
		require.NoError(t, err)
		assert.Equal(t, DefaultTrackCount, album.TrackCount)
	})

	t.Run("NullTrackCount", func(t *testing.T) {
		var payload NewAlbum
		require.NoError(t, json.Unmarshal([]byte(`{"title":"T","release_date":"2024-01-01","genre":"Pop","artist_id":1,"track_count":null}`), &payload))
		require.NoError(t, payload.Validate())

		_, err := payload.Album()
		assert.ErrorIs(t, err, shared.ErrUnprocessable)
	})

	t.Run("BadDateIsNotAMissingField", func(t *testing.T) {
		payload := valid
		payload.ReleaseDate = ptr("January 1st")
		require.NoError(t, payload.Validate())
		_, err := payload.Album()
		assert.ErrorIs(t, err, shared.ErrInvalidDate)
	})

	t.Run("MissingFields", func(t *testing.T) {
		for _, payload := range []NewAlbum{
			{ReleaseDate: ptr("2024-01-01"), Genre: ptr("Pop"), ArtistID: ptr(int64(1))},
			{Title: ptr("T"), Genre: ptr("Pop"), ArtistID: ptr(int64(1))},
			{Title: ptr("T"), ReleaseDate: ptr("2024-01-01"), ArtistID: ptr(int64(1))},
			{Title: ptr("T"), ReleaseDate: ptr("2024-01-01"), Genre: ptr("Pop")},
		} {
			assert.ErrorIs(t, payload.Validate(), shared.ErrMissingField)
		}
	})
}

func TestArtistPatch(t *testing.T) {
	original := Artist{ID: 7, Name: "Old", Age: 30, Genre: "Rock", Country: "UK"}

	t.Run("EmptyPayloadChangesNothing", func(t *testing.T) {
		var patch ArtistPatch
		require.NoError(t, json.Unmarshal([]byte(`{}`), &patch))
		assert.True(t, patch.Empty())

		artist := original
		require.NoError(t, patch.Apply(&artist))
		assert.Equal(t, original, artist)
	})

	t.Run("OnlyPresentFieldsChange", func(t *testing.T) {
		var patch ArtistPatch
		require.NoError(t, json.Unmarshal([]byte(`{"name": "New", "age": 31}`), &patch))
		assert.False(t, patch.Empty())

		artist := original
		require.NoError(t, patch.Apply(&artist))
		assert.Equal(t, Artist{ID: 7, Name: "New", Age: 31, Genre: "Rock", Country: "UK"}, artist)
	})

	t.Run("NullIsUnprocessable", func(t *testing.T) {
		var patch ArtistPatch
		require.NoError(t, json.Unmarshal([]byte(`{"genre": null}`), &patch))
		assert.True(t, patch.Genre.Set)
		assert.True(t, patch.Genre.Null)

		artist := original
		assert.ErrorIs(t, patch.Apply(&artist), shared.ErrUnprocessable)
	})

	t.Run("NullAgeIsUnprocessable", func(t *testing.T) {
		var patch ArtistPatch
		require.NoError(t, json.Unmarshal([]byte(`{"age": null}`), &patch))
		artist := original
		assert.ErrorIs(t, patch.Apply(&artist), shared.ErrUnprocessable)
	})

	t.Run("EmptyTextIsUnprocessable", func(t *testing.T) {
		patch := ArtistPatch{Country: Some("")}
		artist := original
		assert.ErrorIs(t, patch.Apply(&artist), shared.ErrUnprocessable)
	})

	t.Run("WrongTypeFailsToDecode", func(t *testing.T) {
		var patch ArtistPatch
		assert.Error(t, json.Unmarshal([]byte(`{"age": "thirty"}`), &patch))
	})
}

func TestAlbumPatch(t *testing.T) {
	original := Album{ID: 3, Title: "Old", ReleaseDate: NewDate(2020, 1, 1), Genre: "Jazz", TrackCount: 10, ArtistID: 1}

	t.Run("EmptyPayloadChangesNothing", func(t *testing.T) {
		var patch AlbumPatch
		require.NoError(t, json.Unmarshal([]byte(`{}`), &patch))
		assert.True(t, patch.Empty())

		album := original
		require.NoError(t, patch.Apply(&album))
		assert.Equal(t, original, album)
	})

	t.Run("AllFields", func(t *testing.T) {
		var patch AlbumPatch
		body := `{"title": "New", "release_date": "2021-05-06", "genre": "Soul", "track_count": 8, "artist_id": 2}`
		require.NoError(t, json.Unmarshal([]byte(body), &patch))

		album := original
		require.NoError(t, patch.Apply(&album))
		assert.Equal(t, "New", album.Title)
		assert.Equal(t, "2021-05-06", album.ReleaseDate.String())
		assert.Equal(t, "Soul", album.Genre)
		assert.Equal(t, 8, album.TrackCount)
		assert.Equal(t, int64(2), album.ArtistID)
	})

	t.Run("BadDate", func(t *testing.T) {
		patch := AlbumPatch{ReleaseDate: Some("2021-02-30")}
		album := original
		assert.ErrorIs(t, patch.Apply(&album), shared.ErrInvalidDate)
	})

	t.Run("NullArtist", func(t *testing.T) {
		var patch AlbumPatch
		require.NoError(t, json.Unmarshal([]byte(`{"artist_id": null}`), &patch))
		album := original
		assert.ErrorIs(t, patch.Apply(&album), shared.ErrUnprocessable)
	})
}

func TestFormat(t *testing.T) {
	artist := Artist{ID: 1, Name: "Nina", Age: 40, Genre: "Jazz", Country: "USA"}
	albums := []Album{
		{ID: 2, Title: "First", ReleaseDate: NewDate(1958, 1, 1), Genre: "Jazz", TrackCount: 11, ArtistID: 1},
		{ID: 5, Title: "Second", ReleaseDate: NewDate(1959, 6, 1), Genre: "Soul", TrackCount: 9, ArtistID: 1},
	}

	t.Run("Artist", func(t *testing.T) {
		data, err := json.Marshal(FormatArtist(artist, albums))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"id": 1, "name": "Nina", "age": 40, "genre": "Jazz", "country": "USA",
			"albums": [
				{"id": 2, "title": "First", "release_date": "1958-01-01", "genre": "Jazz"},
				{"id": 5, "title": "Second", "release_date": "1959-06-01", "genre": "Soul"}
			]
		}`, string(data))
	})

	t.Run("ArtistWithoutAlbums", func(t *testing.T) {
		data, err := json.Marshal(FormatArtist(artist, nil))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"albums":[]`)
	})

	t.Run("Album", func(t *testing.T) {
		data, err := json.Marshal(FormatAlbum(albums[0], &artist))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"id": 2, "title": "First", "release_date": "1958-01-01", "genre": "Jazz",
			"track_count": 11, "artist_id": 1,
			"artist": {"id": 1, "name": "Nina", "genre": "Jazz", "country": "USA"}
		}`, string(data))
	})

	t.Run("AlbumWithoutOwner", func(t *testing.T) {
		data, err := json.Marshal(FormatAlbum(albums[0], nil))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"artist":null`)
	})
}
