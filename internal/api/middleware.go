package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

func sessionFromContext(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey).(*session.Session)
}

// sessionMiddleware resolves the caller's session from the X-Session-ID
// header or the session cookie, creating one on first contact, and
// echoes the id back so standalone clients can persist it. When the host
// shell forwarded its init payload and the session has no user yet, the
// bridge resolves one.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Session-ID")
		if id == "" {
			if cookie, err := r.Cookie("session_id"); err == nil {
				id = cookie.Value
			}
		}

		sess := h.sessions.GetOrCreate(id)
		if sess.User() == nil {
			if initData := r.Header.Get("X-Telegram-Init-Data"); initData != "" {
				if user, ok := h.bridge.CurrentUser(initData); ok {
					sess.SetUser(user)
					h.logger.WithFields(logrus.Fields{
						"session_id": sess.ID,
						"user_id":    user.ID,
					}).Info("Host user attached to session")
				}
			}
		}

		w.Header().Set("X-Session-ID", sess.ID)
		http.SetCookie(w, &http.Cookie{
			Name:     "session_id",
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
		})

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recoverMiddleware is the last-resort boundary: a panicking handler
// produces a generic failure response instead of tearing the request
// down with a blank 502.
func recoverMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithFields(logrus.Fields{
						"panic": rec,
						"path":  r.URL.Path,
					}).Error("Handler panicked")
					respondWithError(w, http.StatusInternalServerError, "Что-то пошло не так. Попробуйте ещё раз.")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func loggingMiddleware(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).Milliseconds(),
			}).Info("Request completed")
		})
	}
}

func corsMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Session-ID, X-Telegram-Init-Data")
			w.Header().Set("Access-Control-Expose-Headers", "X-Session-ID")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
