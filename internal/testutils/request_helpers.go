package testutils

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
)

// CreateTestRequestWithSession builds a request carrying a quiet logger and the given session,
// as the session middleware would.
func CreateTestRequestWithSession(method, target string, body io.Reader, sess *session.Session, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutSession(method, target, body, pathParams)

	return req.WithContext(session.NewContext(req.Context(), sess))
}

func CreateTestRequestWithoutSession(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return req.WithContext(middleware.NewLoggerContext(req.Context(), logger))
}

// AdminSession returns a session logged in as the given admin.
func AdminSession(adminID int64) *session.Session {
	sess := session.New()
	sess.AdminID = &adminID

	return sess
}
