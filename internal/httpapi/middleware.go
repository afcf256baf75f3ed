package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/taskboard/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// currentUser returns the user resolved by identify.
func currentUser(r *http.Request) *model.User {
	if u, ok := r.Context().Value(userKey).(*model.User); ok {
		return u
	}
	return nil
}

// identify resolves the proxy-supplied username to a stored user.
// Requests without a known user are rejected with 401.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.Header.Get(s.userHeader))
		if username == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		u, err := s.users.GetUserByUsername(r.Context(), username)
		if model.IsNotFound(err) {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if rec, ok := w.(*statusRecorder); ok {
			rec.user = u.Username
		}
		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	user   string
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests writes one log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"user", rec.user,
		)
	})
}
