package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/musiclabel/internal/models"
	"github.com/desertthunder/musiclabel/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ArtistListView ViewState = iota
	AlbumListView
	AlbumDetailView
)

// ArtistSource reads artists with their albums.
type ArtistSource interface {
	List(ctx context.Context) ([]models.ArtistView, error)
	Get(ctx context.Context, id int64) (models.ArtistView, error)
}

// AlbumSource reads albums with their owning artist.
type AlbumSource interface {
	List(ctx context.Context) ([]models.AlbumView, error)
	Get(ctx context.Context, id int64) (models.AlbumView, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx            context.Context
	view           ViewState
	artists        ArtistSource
	albums         AlbumSource
	width          int
	height         int
	artistList     list.Model
	albumList      list.Model
	catalogAlbums  []models.AlbumView
	selectedArtist *models.ArtistView
	selectedAlbum  *models.AlbumView
	loading        bool
	err            error
	help           help.Model
	keys           keyMap
}

// NewModel creates a new TUI model reading from the given sources.
func NewModel(ctx context.Context, artists ArtistSource, albums AlbumSource) *Model {
	artistList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	artistList.Title = "Artists"
	albumList := list.New(nil, list.NewDefaultDelegate(), 0, 0)

	return &Model{
		ctx:        ctx,
		view:       ArtistListView,
		artists:    artists,
		albums:     albums,
		artistList: artistList,
		albumList:  albumList,
		loading:    true,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// State returns the active view state.
func (m *Model) State() ViewState {
	return m.view
}

// Err returns the last load error, if any.
func (m *Model) Err() error {
	return m.err
}

// Init initializes the TUI by loading the catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadCatalog()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.artistList.SetSize(msg.Width-4, msg.Height-8)
		m.albumList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ArtistListView:
			return m.handleArtistListKeys(msg)
		case AlbumListView:
			return m.handleAlbumListKeys(msg)
		case AlbumDetailView:
			return m.handleDetailKeys(msg)
		}

	case catalogLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.catalogAlbums = msg.albums
		cmd := m.artistList.SetItems(artistItems(msg.artists))
		m.artistList.Title = fmt.Sprintf("Artists (%d)", len(msg.artists))
		m.refreshSelection(msg.artists)
		return m, cmd

	case artistFetchedMsg:
		if m.selectedArtist == nil || m.selectedArtist.ID != msg.id {
			return m, nil
		}
		switch {
		case errors.Is(msg.err, shared.ErrNotFound):
			m.selectedArtist = nil
			m.selectedAlbum = nil
			m.view = ArtistListView
			return m, m.loadCatalog()
		case msg.err != nil:
			m.err = msg.err
			return m, nil
		}
		m.selectArtist(msg.artist)
		return m, nil

	case albumFetchedMsg:
		if m.selectedAlbum == nil || m.selectedAlbum.ID != msg.id {
			return m, nil
		}
		switch {
		case errors.Is(msg.err, shared.ErrNotFound):
			m.selectedAlbum = nil
			m.view = AlbumListView
			return m, m.loadCatalog()
		case msg.err != nil:
			m.err = msg.err
			return m, nil
		}
		album := msg.album
		m.selectedAlbum = &album
		return m, nil
	}

	return m.updateLists(msg)
}

// refreshSelection keeps the open artist and album views consistent with a reloaded catalog,
// falling back to the artist list when the selection no longer exists.
func (m *Model) refreshSelection(artists []models.ArtistView) {
	if m.selectedArtist == nil {
		return
	}
	for _, artist := range artists {
		if artist.ID == m.selectedArtist.ID {
			m.selectArtist(artist)
			if m.selectedAlbum != nil && !m.hasAlbum(m.selectedAlbum.ID) {
				m.selectedAlbum = nil
				m.view = AlbumListView
			}
			return
		}
	}
	m.selectedArtist = nil
	m.selectedAlbum = nil
	m.view = ArtistListView
}

func (m *Model) hasAlbum(id int64) bool {
	for _, album := range m.catalogAlbums {
		if album.ID == id {
			return true
		}
	}
	return false
}

func (m *Model) selectArtist(artist models.ArtistView) {
	m.selectedArtist = &artist
	m.albumList.SetItems(albumItems(m.catalogAlbums, artist.ID))
	m.albumList.Title = fmt.Sprintf("Albums by %s", artist.Name)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}
	if m.loading {
		return styles.help.Render("Loading catalog...")
	}

	switch m.view {
	case ArtistListView:
		return m.renderArtistList()
	case AlbumListView:
		return m.renderAlbumList()
	case AlbumDetailView:
		return m.renderAlbumDetail()
	default:
		return ""
	}
}

func (m *Model) handleArtistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.artistList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		return m, m.loadCatalog()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.artistList.SelectedItem().(artistItem); ok {
			m.selectArtist(item.artist)
			m.view = AlbumListView
			return m, m.fetchArtist(item.artist.ID)
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleAlbumListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.albumList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		return m, m.loadCatalog()
	case key.Matches(msg, m.keys.back):
		m.selectedArtist = nil
		m.view = ArtistListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.albumList.SelectedItem().(albumItem); ok {
			album := item.album
			m.selectedAlbum = &album
			m.view = AlbumDetailView
			return m, m.fetchAlbum(album.ID)
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		return m, m.loadCatalog()
	case key.Matches(msg, m.keys.back):
		m.selectedAlbum = nil
		m.view = AlbumListView
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ArtistListView:
		m.artistList, cmd = m.artistList.Update(msg)
	case AlbumListView:
		m.albumList, cmd = m.albumList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadCatalog() tea.Cmd {
	m.loading = true
	m.err = nil
	return func() tea.Msg {
		artists, err := m.artists.List(m.ctx)
		if err != nil {
			return catalogLoadedMsg{err: fmt.Errorf("failed to load artists: %w", err)}
		}
		albums, err := m.albums.List(m.ctx)
		if err != nil {
			return catalogLoadedMsg{err: fmt.Errorf("failed to load albums: %w", err)}
		}
		return catalogLoadedMsg{artists: artists, albums: albums}
	}
}

// fetchArtist re-reads one artist so the album view reflects edits made since the catalog load.
func (m *Model) fetchArtist(id int64) tea.Cmd {
	return func() tea.Msg {
		artist, err := m.artists.Get(m.ctx, id)
		if err != nil {
			err = fmt.Errorf("failed to load artist: %w", err)
		}
		return artistFetchedMsg{id: id, artist: artist, err: err}
	}
}

func (m *Model) fetchAlbum(id int64) tea.Cmd {
	return func() tea.Msg {
		album, err := m.albums.Get(m.ctx, id)
		if err != nil {
			err = fmt.Errorf("failed to load album: %w", err)
		}
		return albumFetchedMsg{id: id, album: album, err: err}
	}
}

func (m *Model) renderArtistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.artistList.View(), helpView)
}

func (m *Model) renderAlbumList() string {
	body := m.albumList.View()
	if len(m.albumList.Items()) == 0 {
		body = fmt.Sprintf("%s\n\n%s", styles.title.Render(m.albumList.Title), styles.warn.Render("No albums."))
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

func (m *Model) renderAlbumDetail() string {
	album := m.selectedAlbum
	if album == nil {
		return styles.err.Render("No album selected\n\nPress esc to go back")
	}

	artist := "unknown"
	if album.Artist != nil {
		artist = fmt.Sprintf("%s (%s, %s)", album.Artist.Name, album.Artist.Genre, album.Artist.Country)
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(album.Title))
	b.WriteString("\n")
	for _, row := range [][2]string{
		{"Artist", artist},
		{"Released", album.ReleaseDate.String()},
		{"Genre", album.Genre},
		{"Tracks", fmt.Sprintf("%d", album.TrackCount)},
	} {
		fmt.Fprintf(&b, "\n%s %s", styles.label.Render(fmt.Sprintf("%-9s", row[0]+":")), row[1])
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", b.String(), helpView)
}
