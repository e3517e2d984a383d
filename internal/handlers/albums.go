package handlers

import (
	"net/http"

	"github.com/desertthunder/musiclabel/internal/models"
	"github.com/desertthunder/musiclabel/internal/server"
)

// AlbumHandler serves /albums.
type AlbumHandler struct {
	store AlbumStore
}

// NewAlbumHandler creates an [AlbumHandler] backed by store.
func NewAlbumHandler(store AlbumStore) *AlbumHandler {
	return &AlbumHandler{store: store}
}

// Routes implements [server.Handler].
func (h *AlbumHandler) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodGet, Path: "/albums", Permission: PermGetAlbums, Handler: h.list},
		{Method: http.MethodPost, Path: "/albums", Permission: PermPostAlbums, Handler: h.create},
		{Method: http.MethodPatch, Path: "/albums/{id:[0-9]+}", Permission: PermPatchAlbums, Handler: h.update},
		{Method: http.MethodDelete, Path: "/albums/{id:[0-9]+}", Permission: PermDeleteAlbums, Handler: h.delete},
	}
}

func (h *AlbumHandler) list(w http.ResponseWriter, r *http.Request) {
	albums, err := h.store.List(r.Context())
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"albums":       albums,
		"total_albums": len(albums),
	})
}

func (h *AlbumHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload models.NewAlbum
	if err := decodeJSON(w, r, &payload); err != nil {
		server.WriteError(w, r, err)
		return
	}

	if err := payload.Validate(); err != nil {
		server.WriteError(w, r, err)
		return
	}

	view, err := h.store.Create(r.Context(), payload)
	if err != nil {
		server.WriteError(w, r, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"created": view.ID,
		"album":   view,
	})
}

func (h *AlbumHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch models.AlbumPatch
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
		"album":   view,
	})
}

func (h *AlbumHandler) delete(w http.ResponseWriter, r *http.Request) {
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
