package httpserver

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/movievault/movievault/internal/errs"
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if v == "" {
		return "", errors.New("no authorization header")
	}
	if len(v) < 7 || !strings.EqualFold(v[:7], "bearer ") {
		return "", errors.New("not a bearer token")
	}
	t := strings.TrimSpace(v[7:])
	if t == "" {
		return "", errors.New("empty bearer token")
	}
	return t, nil
}

// requireAuth is the access gate for protected routes. It runs exactly once
// per request, before the handler: missing or bad tokens are rejected with a
// uniform 401 and the handler is never invoked; on success the resolved
// principal is attached to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := bearerToken(r)
		if err != nil {
			s.logger.Info("auth rejected", zap.String("path", r.URL.Path), zap.Error(err))
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		sub, err := s.verifier.Verify(tok)
		if err != nil {
			// token failure kinds stay in the logs only
			s.logger.Info("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(sub)
		if err != nil {
			s.logger.Info("token rejected", zap.String("path", r.URL.Path), zap.String("reason", "bad subject"))
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		u, err := s.principals.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				s.logger.Info("auth rejected", zap.String("path", r.URL.Path), zap.Error(errs.ErrUnknownSubject))
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			s.logger.Error("principal lookup", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), u)))
	})
}

// statusWriter records the response code for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// logRequests writes one structured entry per request: metadata only, never
// payloads.
func logRequests(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := ""
			if id, err := uuid.NewV4(); err == nil {
				reqID = id.String()
			}
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
				zap.String("req_id", reqID),
			)
		})
	}
}

// recoverPanics converts handler panics into 500s instead of dropping the
// connection.
func recoverPanics(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
