package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	appErrors "github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	service "github.com/Brooklss/Tech-EcoLab/internal/services"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
	"github.com/Brooklss/Tech-EcoLab/internal/utils"
	"github.com/Brooklss/Tech-EcoLab/internal/utils/response"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout godoc
//
//	@Summary		Check out
//	@Description	Decrements stock for every line item in one transaction. Items in the body take priority over the session cart, which is emptied only when it was used.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.CheckoutRequest	false	"Line items, optional"
//	@Success		200		{object}	models.CheckoutResponse
//	@Failure		400		{object}	response.ErrorResponse	"Empty cart or no valid items"
//	@Failure		409		{object}	response.ErrorResponse	"Insufficient stock"
//	@Failure		500		{object}	response.ErrorResponse	"Transaction failure, safe to retry"
//	@Router			/checkout [post]
func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req *models.CheckoutRequest

		var body models.CheckoutRequest
		switch err := utils.DecodeJSONBody(r, &body); {
		case err == nil:
			req = &body
		case errors.Is(err, utils.ErrEmptyBody):
		default:
			logger.Warn("Invalid checkout body", slog.String("error", err.Error()))
			response.Error(w, appErrors.BadRequestError("Invalid request body").WithDetail(err.Error()))
			return
		}

		resp, err := h.checkoutService.Checkout(r.Context(), session.FromContext(r.Context()), req)
		if err != nil {
			if appErr, ok := appErrors.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
				logger.Info("Checkout refused", slog.String("code", appErr.Code))
			} else {
				logger.Error("Checkout failed", slog.String("error", err.Error()))
			}
			response.Error(w, err)
			return
		}

		logger.Info("Checkout committed")
		response.Success(w, http.StatusOK, resp)
	}
}
