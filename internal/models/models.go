// package models defines the data model for the music label catalog
package models

// Artist is a performer in the catalog.
type Artist struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Age     int    `db:"age"`
	Genre   string `db:"genre"`
	Country string `db:"country"`
}

// Album is a release owned by exactly one [Artist].
type Album struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	ReleaseDate Date   `db:"release_date"`
	Genre       string `db:"genre"`
	TrackCount  int    `db:"track_count"`
	ArtistID    int64  `db:"artist_id"`
}

// DefaultTrackCount is used when a new album does not specify one.
const DefaultTrackCount = 10

// ArtistSummary is the reduced artist embedded in album views.
type ArtistSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Genre   string `json:"genre"`
	Country string `json:"country"`
}

// AlbumSummary is the reduced album embedded in artist views.
type AlbumSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate Date   `json:"release_date"`
	Genre       string `json:"genre"`
}

// ArtistView is the formatted artist returned by the API.
type ArtistView struct {
	ID      int64          `json:"id"`
	Name    string         `json:"name"`
	Age     int            `json:"age"`
	Genre   string         `json:"genre"`
	Country string         `json:"country"`
	Albums  []AlbumSummary `json:"albums"`
}

// AlbumView is the formatted album returned by the API.
type AlbumView struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	ReleaseDate Date           `json:"release_date"`
	Genre       string         `json:"genre"`
	TrackCount  int            `json:"track_count"`
	ArtistID    int64          `json:"artist_id"`
	Artist      *ArtistSummary `json:"artist"`
}

// Summary returns the reduced form of the artist.
func (a Artist) Summary() ArtistSummary {
	return ArtistSummary{ID: a.ID, Name: a.Name, Genre: a.Genre, Country: a.Country}
}

// Summary returns the reduced form of the album.
func (a Album) Summary() AlbumSummary {
	return AlbumSummary{ID: a.ID, Title: a.Title, ReleaseDate: a.ReleaseDate, Genre: a.Genre}
}

// FormatArtist builds the view of an artist and the albums it owns, in the order given.
func FormatArtist(a Artist, albums []Album) ArtistView {
	summaries := make([]AlbumSummary, 0, len(albums))
	for _, album := range albums {
		summaries = append(summaries, album.Summary())
	}
	return ArtistView{
		ID:      a.ID,
		Name:    a.Name,
		Age:     a.Age,
		Genre:   a.Genre,
		Country: a.Country,
		Albums:  summaries,
	}
}

// FormatAlbum builds the view of an album. A nil owner renders as "artist": null.
func FormatAlbum(a Album, owner *Artist) AlbumView {
	view := AlbumView{
		ID:          a.ID,
		Title:       a.Title,
		ReleaseDate: a.ReleaseDate,
		Genre:       a.Genre,
		TrackCount:  a.TrackCount,
		ArtistID:    a.ArtistID,
	}
	if owner != nil {
		summary := owner.Summary()
		view.Artist = &summary
	}
	return view
}
