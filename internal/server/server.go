// package server contains middleware & handlers for the music label API
package server

import (
	"net/http"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, metrics, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Route describes one endpoint served by a [Handler].
type Route struct {
	Method string
	Path   string
	// Permission required to call the route; empty for public routes.
	Permission string
	Handler    http.HandlerFunc
}

// Handler defines the interface for HTTP request handlers in the catalog service.
// Implementations group the endpoints of one resource (artists, albums, health).
type Handler interface {
	Routes() []Route // Routes returns the endpoints this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}
