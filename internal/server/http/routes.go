package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"
)

type access int

const (
	public access = iota
	protected
)

type route struct {
	method  string
	pattern string
	access  access
	handler http.HandlerFunc
}

// routes is the static access-policy table keyed by (method, pattern).
// Classification is declared per entry and never inferred from the path:
// POST /users (registration) stays public even though every other /users
// route is protected.
func (s *Server) routes() []route {
	return []route{
		{http.MethodGet, "/", public, s.handleWelcome},
		{http.MethodGet, "/health", public, s.handleHealth},
		{http.MethodPost, "/login", public, s.handleLogin},
		{http.MethodPost, "/users", public, s.handleRegister},

		{http.MethodGet, "/movies", protected, s.handleListMovies},
		{http.MethodGet, "/movies/{title}", protected, s.handleGetMovie},
		{http.MethodGet, "/genres/{name}", protected, s.handleGetGenre},
		{http.MethodGet, "/directors/{name}", protected, s.handleGetDirector},

		{http.MethodGet, "/users/{username}", protected, s.handleGetUser},
		{http.MethodPut, "/users/{username}", protected, s.handleUpdateUser},
		{http.MethodDelete, "/users/{username}", protected, s.handleDeleteUser},
		{http.MethodPost, "/users/{username}/movies/{movieID}", protected, s.handleAddFavorite},
		{http.MethodDelete, "/users/{username}/movies/{movieID}", protected, s.handleRemoveFavorite},
	}
}

// Router builds the mux from the route table, wrapping protected entries with
// the auth gate and everything with logging and panic recovery.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	for _, rt := range s.routes() {
		var h http.Handler = rt.handler
		if rt.access == protected {
			h = s.requireAuth(h)
		}
		r.Handle(rt.pattern, h).Methods(rt.method)
	}

	var h http.Handler = r
	h = recoverPanics(s.logger)(h)
	h = logRequests(s.logger)(h)
	return h
}
