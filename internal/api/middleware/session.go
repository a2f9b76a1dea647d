package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
	"github.com/Brooklss/Tech-EcoLab/internal/utils/response"
)

// sessionWriter commits the session right before the first byte of the response goes out,
// which is the last moment a Set-Cookie header can still be added.
type sessionWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *sessionWriter) flush() {
	if w.committed {
		return
	}

	w.committed = true
	w.commit()
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Session loads the caller's session into the request context and persists it once the
// handler starts writing its response.
func Session(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			logger := LoggerFromContext(r.Context())

			sess, err := manager.Load(r.Context(), r)
			if err != nil {
				logger.Warn("Session load failed, starting a new one", slog.String("error", err.Error()))
			}

			sw := &sessionWriter{ResponseWriter: w}
			sw.commit = func() {
				if err := manager.Commit(context.WithoutCancel(r.Context()), w, sess); err != nil {
					logger.Error("Session commit failed", slog.String("session_id", sess.ID), slog.String("error", err.Error()))
				}
			}

			next.ServeHTTP(sw, r.WithContext(session.NewContext(r.Context(), sess)))

			sw.flush()
		})
	}
}

// RequireAdmin rejects requests whose session carries no admin id.
func RequireAdmin(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		adminID, ok := session.FromContext(r.Context()).Admin()
		if !ok {
			logger.Warn("Admin route called without admin session")
			response.Error(w, errors.UnauthorizedError("Unauthenticated"))
			return
		}

		requestScopedLogger := logger.With(slog.Int64("adminId", adminID))
		ctx := NewLoggerContext(r.Context(), requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
