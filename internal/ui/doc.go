// Package ui implements an interactive terminal catalog browser using bubbletea's Elm architecture.
//
// The browser has three views:
//  1. [ArtistListView] : Browse and filter artists
//  2. [AlbumListView] : Albums owned by the selected artist
//  3. [AlbumDetailView] : Release details of the selected album
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern. The catalog is loaded once
// on start and again on demand with r; loads run as [tea.Cmd] functions so the UI never blocks on the store.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
