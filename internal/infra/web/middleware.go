// internal/infra/web/middleware.go
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cyclesync/internal/app"
	"cyclesync/internal/domain/auth"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const headerRequestID = "X-Request-ID"

type requestIDKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// logRequests tags each request with an id and logs it once it completes.
func logRequests(logger *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(headerRequestID, id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			started := time.Now()
			next.ServeHTTP(rec, r)

			logger.WithFields(logrus.Fields{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(started).String(),
			}).Info("Request handled")
		})
	}
}

// requireSession runs the session guard before next. Requests without a
// valid session are handed to onMissing and never reach next.
func (s *Server) requireSession(onMissing http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken, refreshToken := s.sessions.Tokens(r)
			session, refreshed, err := s.guard.Check(r.Context(), accessToken, refreshToken)
			if err != nil {
				if accessToken != "" {
					if errClear := s.sessions.ClearSession(w, r); errClear != nil {
						s.logger.WithError(errClear).Warn("Failed to clear stale session")
					}
				}
				onMissing(w, r)
				return
			}
			if refreshed {
				if errSave := s.sessions.SetSession(w, r, session); errSave != nil {
					s.logger.WithError(errSave).Warn("Failed to persist refreshed session")
				}
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}

func redirectToAuth(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/auth", http.StatusFound)
}

func unauthorizedJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": app.ErrNoSession.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
