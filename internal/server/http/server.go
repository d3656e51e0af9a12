// Package httpserver exposes the movievault REST API over HTTP.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/movievault/movievault/internal/errs"
	"github.com/movievault/movievault/internal/model"
	"github.com/movievault/movievault/internal/service"
	"github.com/movievault/movievault/internal/token"
)

// PrincipalStore resolves a verified token subject to a stored user.
type PrincipalStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// Server wires services into HTTP handlers.
type Server struct {
	auth       service.AuthService
	users      service.UserService
	movies     service.MovieService
	principals PrincipalStore
	verifier   *token.Verifier
	logger     *zap.Logger
}

// New constructs a Server with injected services.
func New(auth service.AuthService, users service.UserService, movies service.MovieService,
	principals PrincipalStore, verifier *token.Verifier, logger *zap.Logger) *Server {
	return &Server{
		auth:       auth,
		users:      users,
		movies:     movies,
		principals: principals,
		verifier:   verifier,
		logger:     logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Email    string     `json:"email"`
	Birthday *time.Time `json:"birthday,omitempty"`
}

type updateUserRequest struct {
	Username *string    `json:"username,omitempty"`
	Password *string    `json:"password,omitempty"`
	Email    *string    `json:"email,omitempty"`
	Birthday *time.Time `json:"birthday,omitempty"`
}

func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// writeServiceError maps service and store errors to HTTP statuses. It is the
// only place that mapping happens; messages never carry internals.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		writeMessage(w, http.StatusConflict, "username already exists")
	default:
		s.logger.Error("handler error", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// --- Public ---

func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Welcome to movievault!"))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username and password are required")
		return
	}

	tok, _, err := s.auth.Authenticate(r.Context(), req.Username, req.Password, remoteIP(r))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidCredentials):
			writeMessage(w, http.StatusUnauthorized, "invalid username or password")
		case errors.Is(err, errs.ErrRateLimited):
			writeMessage(w, http.StatusTooManyRequests, "too many failed attempts, try again later")
		default:
			s.logger.Error("login", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: tok})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.auth.Register(r.Context(), model.NewUser{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Birthday: req.Birthday,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// --- Catalog ---

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.movies.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	m, err := s.movies.GetByTitle(r.Context(), mux.Vars(r)["title"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	g, err := s.movies.GetGenre(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleGetDirector(w http.ResponseWriter, r *http.Request) {
	d, err := s.movies.GetDirector(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// --- Accounts ---

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.users.Update(r.Context(), mux.Vars(r)["username"], model.UserUpdate{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Birthday: req.Birthday,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	s.handleFavorite(w, r, s.users.AddFavorite)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	s.handleFavorite(w, r, s.users.RemoveFavorite)
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, username string, movieID primitive.ObjectID) (*model.User, error)) {
	vars := mux.Vars(r)
	movieID, err := primitive.ObjectIDFromHex(vars["movieID"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	u, err := op(r.Context(), vars["username"], movieID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), mux.Vars(r)["username"]); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "account deleted")
}
