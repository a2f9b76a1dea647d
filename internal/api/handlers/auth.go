package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	service "github.com/Brooklss/Tech-EcoLab/internal/services"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
	"github.com/Brooklss/Tech-EcoLab/internal/utils"
	"github.com/Brooklss/Tech-EcoLab/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService, validator: validator.New()}
}

// Login godoc
//
//	@Summary		Admin login
//	@Description	Checks the credentials and binds the admin to a fresh session cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest	true	"Username and password"
//	@Success		200			{object}	models.LoginResponse
//	@Failure		400			{object}	response.ErrorResponse	"Missing credentials"
//	@Failure		401			{object}	response.ErrorResponse	"Invalid credentials"
//	@Failure		429			{object}	response.ErrorResponse	"Too many attempts"
//	@Router			/auth/login [post]
func (h *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		resp, err := h.authService.Login(r.Context(), session.FromContext(r.Context()), &req)
		if err != nil {
			logger.Warn("Login failed", slog.String("username", req.Username), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Admin logged in", slog.Int64("adminId", resp.ID))
		response.Success(w, http.StatusOK, resp)
	}
}

func (h *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.authService.Logout(r.Context(), session.FromContext(r.Context()))
		response.Success(w, http.StatusOK, models.StatusResponse{OK: true})
	}
}

func (h *AuthHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		me, err := h.authService.Me(session.FromContext(r.Context()))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, me)
	}
}
