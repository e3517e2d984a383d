package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/desertthunder/musiclabel/internal/auth"
)

// MuxRouter is an HTTP router implementing the [Router] interface.
//
// Uses [mux.Router] internally for routing.
type MuxRouter struct {
	mux         *mux.Router
	verifier    auth.Verifier
	middlewares []Middleware
}

// NewMuxRouter creates a new [MuxRouter] instance. Routes that declare a permission are checked
// against credentials verified by verifier.
func NewMuxRouter(verifier auth.Verifier) *MuxRouter {
	r := &MuxRouter{
		mux:         mux.NewRouter(),
		verifier:    verifier,
		middlewares: []Middleware{},
	}
	r.mux.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.Apply(http.HandlerFunc(NotFound)).ServeHTTP(w, req)
	})
	r.mux.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.Apply(http.HandlerFunc(MethodNotAllowed)).ServeHTTP(w, req)
	})
	return r
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
//
// Middleware only wraps handlers registered after the call.
func (r *MuxRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
//
// The handler is wrapped with all registered middleware.
func (r *MuxRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(path, r.Apply(handler)).Methods(method)
}

// Handler registers every [Route] of a custom [Handler] implementation.
func (r *MuxRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		var h http.Handler = route.Handler
		if route.Permission != "" {
			h = RequirePermission(r.verifier, route.Permission)(h)
		}
		r.Handle(route.Method, route.Path, h)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *MuxRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *MuxRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}

// PathID parses the integer path variable name of the current route.
func PathID(req *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(req)[name], 10, 64)
	return id, err == nil
}

var _ Router = (*MuxRouter)(nil)
