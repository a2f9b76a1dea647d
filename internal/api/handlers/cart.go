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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

// GetCart godoc
//
//	@Summary	Read the session cart
//	@Tags		Cart
//	@Produce	json
//	@Success	200	{object}	models.CartResponse
//	@Router		/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.cartService.GetCart(session.FromContext(r.Context())))
	}
}

// AddItem godoc
//
//	@Summary	Add a product to the session cart
//	@Tags		Cart
//	@Accept		json
//	@Produce	json
//	@Param		item	body		models.AddItemRequest	true	"Product and quantity"
//	@Success	200		{object}	models.CartResponse
//	@Failure	400		{object}	response.ErrorResponse	"Validation error"
//	@Failure	404		{object}	response.ErrorResponse	"Product not found"
//	@Router		/cart/add [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), session.FromContext(r.Context()), &req)
		if err != nil {
			logger.Warn("Failed to add item to cart", slog.Int64("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.Int64("productId", req.ProductID), slog.Int64("quantity", req.Quantity))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), session.FromContext(r.Context()), &req)
		if err != nil {
			logger.Warn("Failed to update cart quantity", slog.Int64("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.cartService.ClearCart(session.FromContext(r.Context())))
	}
}
