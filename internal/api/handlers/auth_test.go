package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Brooklss/Tech-EcoLab/internal/api/handlers"
	appErrors "github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/Brooklss/Tech-EcoLab/internal/services/mocks"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
	"github.com/Brooklss/Tech-EcoLab/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthHandler_Login(t *testing.T) {

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockAuthService := mocks.NewAuthService(t)
		authHandler := handlers.NewAuthHandler(mockAuthService)
		sess := session.New()

		mockAuthService.On("Login", mock.Anything, sess, &models.LoginRequest{Username: "admin", Password: "admin123"}).
			Return(&models.LoginResponse{ID: 1, Username: "admin"}, nil).Once()

		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"admin","password":"admin123"}`), sess, nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.Login()(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":1,"username":"admin"}`, rr.Body.String())
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		// Arrange
		mockAuthService := mocks.NewAuthService(t)
		authHandler := handlers.NewAuthHandler(mockAuthService)

		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"admin"}`), session.New(), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.Login()(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Invalid Credentials", func(t *testing.T) {
		// Arrange
		mockAuthService := mocks.NewAuthService(t)
		authHandler := handlers.NewAuthHandler(mockAuthService)

		mockAuthService.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, appErrors.UnauthorizedError("Invalid credentials")).Once()

		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"admin","password":"wrong"}`), session.New(), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.Login()(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid credentials", decodeError(t, rr).Error)
	})

	t.Run("Rate Limited", func(t *testing.T) {
		// Arrange
		mockAuthService := mocks.NewAuthService(t)
		authHandler := handlers.NewAuthHandler(mockAuthService)

		mockAuthService.On("Login", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, appErrors.TooManyRequestsError("Too many login attempts. Please try again later.").WithRetryAfter(30)).Once()

		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"admin","password":"wrong"}`), session.New(), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.Login()(rr, req)

		// Assert
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "30", rr.Header().Get("Retry-After"))
		assert.Equal(t, 30, decodeError(t, rr).RetryAfter)
	})
}

func TestAuthHandler_LogoutAndMe(t *testing.T) {

	t.Run("Logout", func(t *testing.T) {
		// Arrange
		mockAuthService := mocks.NewAuthService(t)
		authHandler := handlers.NewAuthHandler(mockAuthService)
		sess := testutils.AdminSession(1)

		mockAuthService.On("Logout", mock.Anything, sess).Return().Once()

		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/auth/logout", nil, sess, nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.Logout()(rr, req)

		// Assert
		assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	})

	t.Run("Me - Logged In", func(t *testing.T) {
		// Arrange
		mockAuthService := mocks.NewAuthService(t)
		authHandler := handlers.NewAuthHandler(mockAuthService)
		sess := testutils.AdminSession(4)

		mockAuthService.On("Me", sess).Return(&models.MeResponse{ID: 4}, nil).Once()

		req := testutils.CreateTestRequestWithSession(http.MethodGet, "/api/auth/me", nil, sess, nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.Me()(rr, req)

		// Assert
		assert.JSONEq(t, `{"id":4}`, rr.Body.String())
	})

	t.Run("Me - Anonymous", func(t *testing.T) {
		// Arrange
		mockAuthService := mocks.NewAuthService(t)
		authHandler := handlers.NewAuthHandler(mockAuthService)

		mockAuthService.On("Me", mock.Anything).Return(nil, appErrors.UnauthorizedError("Unauthenticated")).Once()

		req := testutils.CreateTestRequestWithSession(http.MethodGet, "/api/auth/me", nil, session.New(), nil)
		rr := httptest.NewRecorder()

		// Act
		authHandler.Me()(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
