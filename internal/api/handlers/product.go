package handlers

import (
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	"github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	service "github.com/Brooklss/Tech-EcoLab/internal/services"
	"github.com/Brooklss/Tech-EcoLab/internal/utils"
	"github.com/Brooklss/Tech-EcoLab/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Listing limits. An absent limit returns a full page, a zero or garbled one a short page.
const (
	defaultListLimit  = 100
	fallbackListLimit = 20
	maxListLimit      = 100

	// Pages past this one are empty for any limit and their offset would overflow.
	maxListPage = math.MaxInt / maxListLimit
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Description	Creates a product. Name and description are stripped of markup. Requires an admin session.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product"
//	@Success		201		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		401		{object}	response.ErrorResponse	"Unauthenticated"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.Int64("productId", product.ID))
		response.Success(w, http.StatusCreated, product)
	}
}

// GetProduct godoc
//
//	@Summary	Get a product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	models.Product
//	@Failure	400	{object}	response.ErrorResponse	"Invalid product ID"
//	@Failure	404	{object}	response.ErrorResponse	"Product not found"
//	@Router		/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input", slog.Int64("productId", id))
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Error("Failed to delete product", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, models.StatusResponse{OK: true, Deleted: 1})
	}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Description	Filters, sorts and paginates the catalog. The size of the filtered set is returned in X-Total-Count.
//	@Tags			Products
//	@Produce		json
//	@Param			category	query		int		false	"Category ID"
//	@Param			search		query		string	false	"Case-insensitive substring of name or description"
//	@Param			minPrice	query		number	false	"Minimum price"
//	@Param			maxPrice	query		number	false	"Maximum price"
//	@Param			sort		query		string	false	"name, price or created_at, prefix with - for descending"
//	@Param			page		query		int		false	"Page, starting at 1"
//	@Param			limit		query		int		false	"Page size, 1 to 100"
//	@Success		200			{array}		models.Product
//	@Header			200			{integer}	X-Total-Count	"Number of matching products"
//	@Failure		400			{object}	response.ErrorResponse	"Malformed filter"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		filter, err := parseProductFilter(r.URL.Query())
		if err != nil {
			logger.Warn("Invalid product filter", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		products, total, err := h.productService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to fetch products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if products == nil {
			products = []*models.Product{}
		}

		w.Header().Set("X-Total-Count", strconv.Itoa(total))
		response.Success(w, http.StatusOK, products)
	}
}

func parseProductFilter(q url.Values) (models.ProductFilter, error) {

	filter := models.ProductFilter{
		Search:    strings.TrimSpace(q.Get("search")),
		SortField: models.SortByName,
		Page:      1,
		Limit:     defaultListLimit,
	}

	if raw := q.Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.BadRequestError("Invalid category").WithDetail(raw)
		}
		filter.CategoryID = &id
	}

	for name, dest := range map[string]**decimal.Decimal{"minPrice": &filter.MinPrice, "maxPrice": &filter.MaxPrice} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}

		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.BadRequestError("Invalid " + name).WithDetail(raw)
		}
		*dest = &price
	}

	sort := q.Get("sort")
	field := strings.TrimPrefix(sort, "-")
	switch field {
	case models.SortByName, models.SortByPrice, models.SortByCreatedAt:
		filter.SortField = field
		filter.SortDesc = strings.HasPrefix(sort, "-")
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 {
		filter.Page = min(page, maxListPage)
	}

	if q.Has("limit") {
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil || limit == 0 {
			limit = fallbackListLimit
		}
		filter.Limit = min(max(limit, 1), maxListLimit)
	}

	return filter, nil
}
