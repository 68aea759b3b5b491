package server

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// userIDHeader is set by the identity proxy in front of this service
const userIDHeader = "X-User-ID"

// adminSecretHeader guards the admin endpoints
const adminSecretHeader = "X-Admin-Secret"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		defer func() {
			if rec := recover(); rec != nil {
				s.logger.WithFields(logrus.Fields{
					"panic": rec,
					"path":  r.URL.Path,
				}).Error("Handler panicked")
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		// the websocket upgrade hijacks the connection, a wrapped
		// writer would break it
		if r.URL.Path == "/api/live" {
			next.ServeHTTP(w, r)
			return
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   recorder.status,
			"duration": time.Since(start).String(),
		}).Debug("Request handled")
	})
}

// requireUser extracts the authenticated user id injected by the
// identity proxy
func (s *Server) requireUser(next func(w http.ResponseWriter, r *http.Request, userID uuid.UUID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid user id")
			return
		}

		next(w, r, userID)
	}
}

// requireAdmin compares the shared admin secret in constant time
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secret := r.Header.Get(adminSecretHeader)
		expected := s.cfg.Server.AdminSecret

		if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(expected)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next(w, r)
	}
}
