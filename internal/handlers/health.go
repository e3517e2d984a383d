package handlers

import (
	"net/http"

	"github.com/desertthunder/musiclabel/internal/server"
)

// HealthHandler answers liveness probes without authentication.
type HealthHandler struct{}

// Routes implements [server.Handler].
func (h HealthHandler) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodGet, Path: "/health", Handler: h.health},
	}
}

func (HealthHandler) health(w http.ResponseWriter, _ *http.Request) {
	server.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Music Label API is running!",
		"version": Version,
	})
}
