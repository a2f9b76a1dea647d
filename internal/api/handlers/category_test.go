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
	"github.com/Brooklss/Tech-EcoLab/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCategoryHandler(t *testing.T) {

	t.Run("List", func(t *testing.T) {
		// Arrange
		mockCategoryService := mocks.NewCategoryService(t)
		categoryHandler := handlers.NewCategoryHandler(mockCategoryService)

		mockCategoryService.On("ListCategories", mock.Anything).
			Return([]*models.Category{{ID: 1, Name: "Audio"}}, nil).Once()

		req := testutils.CreateTestRequestWithoutSession(http.MethodGet, "/api/categories", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		categoryHandler.ListCategories()(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"name":"Audio"`)
	})

	t.Run("Get - Not Found", func(t *testing.T) {
		// Arrange
		mockCategoryService := mocks.NewCategoryService(t)
		categoryHandler := handlers.NewCategoryHandler(mockCategoryService)

		mockCategoryService.On("GetCategoryByID", mock.Anything, int64(8)).
			Return(nil, appErrors.NotFoundError("Category not found")).Once()

		req := testutils.CreateTestRequestWithoutSession(http.MethodGet, "/api/categories/8", nil, map[string]string{"id": "8"})
		rr := httptest.NewRecorder()

		// Act
		categoryHandler.GetCategory()(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Create", func(t *testing.T) {
		// Arrange
		mockCategoryService := mocks.NewCategoryService(t)
		categoryHandler := handlers.NewCategoryHandler(mockCategoryService)

		mockCategoryService.On("CreateCategory", mock.Anything, &models.CreateCategoryRequest{Name: "Drones"}).
			Return(&models.Category{ID: 6, Name: "Drones"}, nil).Once()

		req := testutils.CreateTestRequestWithoutSession(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"Drones"}`), nil)
		rr := httptest.NewRecorder()

		// Act
		categoryHandler.CreateCategory()(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Update - Missing Body", func(t *testing.T) {
		// Arrange
		mockCategoryService := mocks.NewCategoryService(t)
		categoryHandler := handlers.NewCategoryHandler(mockCategoryService)

		req := testutils.CreateTestRequestWithoutSession(http.MethodPut, "/api/categories/6", nil, map[string]string{"id": "6"})
		rr := httptest.NewRecorder()

		// Act
		categoryHandler.UpdateCategory()(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		// Arrange
		mockCategoryService := mocks.NewCategoryService(t)
		categoryHandler := handlers.NewCategoryHandler(mockCategoryService)

		mockCategoryService.On("DeleteCategory", mock.Anything, int64(6)).Return(nil).Once()

		req := testutils.CreateTestRequestWithoutSession(http.MethodDelete, "/api/categories/6", nil, map[string]string{"id": "6"})
		rr := httptest.NewRecorder()

		// Act
		categoryHandler.DeleteCategory()(rr, req)

		// Assert
		assert.JSONEq(t, `{"ok":true,"deleted":1}`, rr.Body.String())
	})
}
