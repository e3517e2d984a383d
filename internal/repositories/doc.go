// Package repositories implements SQL persistence for the music label catalog.
//
// Key Implementations:
//   - [ArtistRepository] : artists, with the albums each artist owns
//   - [AlbumRepository] : albums, validating that the owning artist exists
//
// Queries are written with "?" placeholders and rebound for the connected driver, so the same code
// runs against SQLite and PostgreSQL. Every write happens inside a transaction; deleting an artist
// removes its albums in the same transaction.
//
// Lookups of absent rows return errors wrapping [shared.ErrNotFound]. Any other failure is a storage error.
package repositories
