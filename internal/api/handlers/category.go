package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	service "github.com/Brooklss/Tech-EcoLab/internal/services"
	"github.com/Brooklss/Tech-EcoLab/internal/utils"
	"github.com/Brooklss/Tech-EcoLab/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validator: validator.New()}
}

// ListCategories godoc
//
//	@Summary	List categories ordered by name
//	@Tags		Categories
//	@Produce	json
//	@Success	200	{array}	models.Category
//	@Router		/categories [get]
func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		categories, err := h.categoryService.ListCategories(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to fetch categories", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if categories == nil {
			categories = []*models.Category{}
		}

		response.Success(w, http.StatusOK, categories)
	}
}

func (h *CategoryHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid category id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		category, err := h.categoryService.GetCategoryByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get category", slog.Int64("categoryId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

func (h *CategoryHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create category input")
			return
		}

		category, err := h.categoryService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create category", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category created", slog.Int64("categoryId", category.ID))
		response.Success(w, http.StatusCreated, category)
	}
}

func (h *CategoryHandler) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid category id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update category input", slog.Int64("categoryId", id))
			return
		}

		category, err := h.categoryService.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update category", slog.Int64("categoryId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category updated", slog.Int64("categoryId", id))
		response.Success(w, http.StatusOK, category)
	}
}

func (h *CategoryHandler) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid category id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
			logger.Error("Failed to delete category", slog.Int64("categoryId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category deleted", slog.Int64("categoryId", id))
		response.Success(w, http.StatusOK, models.StatusResponse{OK: true, Deleted: 1})
	}
}
