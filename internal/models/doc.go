// Package models defines the catalog entities and their wire representations.
//
// The package contains three groups of types:
//
// 1. Entities: plain rows with no persistence behaviour
//   - [Artist] : a performer owning zero or more albums
//   - [Album] : a release that always references exactly one artist
//
// 2. Payloads: request bodies decoded by the HTTP handlers
//   - [NewArtist], [NewAlbum] : creation payloads with presence checks
//   - [ArtistPatch], [AlbumPatch] : partial updates built from [Optional] fields
//
// 3. Views: the formatted JSON returned to callers
//   - [ArtistView] embeds an [AlbumSummary] per owned album
//   - [AlbumView] embeds the owning [ArtistSummary]
//
// Release dates are calendar dates ([Date]) rendered as YYYY-MM-DD.
package models
