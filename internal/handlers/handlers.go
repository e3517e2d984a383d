// Package handlers implements the catalog endpoints on top of the repositories.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/musiclabel/internal/auth"
	"github.com/desertthunder/musiclabel/internal/models"
	"github.com/desertthunder/musiclabel/internal/server"
	"github.com/desertthunder/musiclabel/internal/shared"
)

// Permissions checked by the catalog routes.
const (
	PermGetArtists    = "get:artists"
	PermPostArtists   = "post:artists"
	PermPatchArtists  = "patch:artists"
	PermDeleteArtists = "delete:artists"
	PermGetAlbums     = "get:albums"
	PermPostAlbums    = "post:albums"
	PermPatchAlbums   = "patch:albums"
	PermDeleteAlbums  = "delete:albums"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

const maxBodyBytes = 1 << 20

// ArtistStore is the artist persistence used by [ArtistHandler].
type ArtistStore interface {
	List(ctx context.Context) ([]models.ArtistView, error)
	Create(ctx context.Context, artist models.Artist) (models.ArtistView, error)
	Update(ctx context.Context, id int64, patch models.ArtistPatch) (models.ArtistView, error)
	Delete(ctx context.Context, id int64) error
}

// AlbumStore is the album persistence used by [AlbumHandler].
type AlbumStore interface {
	List(ctx context.Context) ([]models.AlbumView, error)
	Create(ctx context.Context, payload models.NewAlbum) (models.AlbumView, error)
	Update(ctx context.Context, id int64, patch models.AlbumPatch) (models.AlbumView, error)
	Delete(ctx context.Context, id int64) error
}

// APIOptions collects the dependencies of [NewAPI]. Metrics and RateLimiter are optional.
type APIOptions struct {
	Verifier    auth.Verifier
	Artists     ArtistStore
	Albums      AlbumStore
	Logger      *log.Logger
	Metrics     *server.Metrics
	RateLimiter *server.RateLimiter
}

// NewAPI assembles the router: middleware, the health check, the catalog routes and, when
// metrics are enabled, GET /metrics.
func NewAPI(opts APIOptions) *server.MuxRouter {
	router := server.NewMuxRouter(opts.Verifier)

	router.Use(server.RequestLogger(opts.Logger), server.Recoverer)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware)
	}

	router.Handler(HealthHandler{})
	router.Handler(NewArtistHandler(opts.Artists))
	router.Handler(NewAlbumHandler(opts.Albums))

	if opts.Metrics != nil {
		router.Handle(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	return router
}

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", shared.ErrInvalidInput)
	}
	return nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := server.PathID(r, "id")
	if !ok {
		server.WriteStatus(w, http.StatusNotFound)
	}
	return id, ok
}
