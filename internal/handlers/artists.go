package handlers

import (
	"net/http"

	"github.com/desertthunder/musiclabel/internal/models"
	"github.com/desertthunder/musiclabel/internal/server"
)

// ArtistHandler serves /artists.
type ArtistHandler struct {
	store ArtistStore
}

// NewArtistHandler creates an [ArtistHandler] backed by store.
func NewArtistHandler(store ArtistStore) *ArtistHandler {
	return &ArtistHandler{store: store}
}

// Routes implements [server.Handler].
func (h *ArtistHandler) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodGet, Path: "/artists", Permission: PermGetArtists, Handler: h.list},
		{Method: http.MethodPost, Path: "/artists", Permission: PermPostArtists, Handler: h.create},
		{Method: http.MethodPatch, Path: "/artists/{id:[0-9]+}", Permission: PermPatchArtists, Handler: h.update},
		{Method: http.MethodDelete, Path: "/artists/{id:[0-9]+}", Permission: PermDeleteArtists, Handler: h.delete},
	}
}

func (h *ArtistHandler) list(w http.ResponseWriter, r *http.Request) {
	artists, err := h.store.List(r.Context())
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"artists":       artists,
		"total_artists": len(artists),
	})
}

func (h *ArtistHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload models.NewArtist
	if err := decodeJSON(w, r, &payload); err != nil {
		server.WriteError(w, r, err)
		return
	}

	artist, err := payload.Validate()
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	view, err := h.store.Create(r.Context(), artist)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"created": view.ID,
		"artist":  view,
	})
}

func (h *ArtistHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch models.ArtistPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		server.WriteError(w, r, err)
		return
	}

	view, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"artist":  view,
	})
}

func (h *ArtistHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		server.WriteError(w, r, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": id,
	})
}
