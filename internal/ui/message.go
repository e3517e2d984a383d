package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/musiclabel/internal/models"
)

var (
	_ tea.Msg = catalogLoadedMsg{}
	_ tea.Msg = artistFetchedMsg{}
	_ tea.Msg = albumFetchedMsg{}
)

// catalogLoadedMsg carries the result of a catalog load.
type catalogLoadedMsg struct {
	artists []models.ArtistView
	albums  []models.AlbumView
	err     error
}

// artistFetchedMsg carries a fresh read of the selected artist.
type artistFetchedMsg struct {
	id     int64
	artist models.ArtistView
	err    error
}

type albumFetchedMsg struct {
	id    int64
	album models.AlbumView
	err   error
}
