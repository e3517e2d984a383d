package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/musiclabel/internal/models"
)

var (
	_ list.Item = artistItem{}
	_ list.Item = albumItem{}
)

// artistItem wraps [models.ArtistView] to implement [list.Item].
type artistItem struct {
	artist models.ArtistView
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string {
	return fmt.Sprintf("%s • %s • %d albums", i.artist.Genre, i.artist.Country, len(i.artist.Albums))
}

// albumItem wraps [models.AlbumView] to implement [list.Item].
type albumItem struct {
	album models.AlbumView
}

func (i albumItem) FilterValue() string { return i.album.Title }
func (i albumItem) Title() string       { return i.album.Title }
func (i albumItem) Description() string {
	return fmt.Sprintf("%s • %s • %d tracks", i.album.ReleaseDate, i.album.Genre, i.album.TrackCount)
}

func artistItems(artists []models.ArtistView) []list.Item {
	items := make([]list.Item, len(artists))
	for i, artist := range artists {
		items[i] = artistItem{artist: artist}
	}
	return items
}

// albumItems returns the albums owned by artistID, in catalog order.
func albumItems(albums []models.AlbumView, artistID int64) []list.Item {
	items := []list.Item{}
	for _, album := range albums {
		if album.ArtistID == artistID {
			items = append(items, albumItem{album: album})
		}
	}
	return items
}
