package service

import (
	"context"
	stdErrors "errors"

	"github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	repository "github.com/Brooklss/Tech-EcoLab/internal/repositories"
	"github.com/Brooklss/Tech-EcoLab/internal/utils"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {

	category := &models.Category{
		Name:        utils.SanitizeText(req.Name),
		Description: utils.SanitizeText(req.Description),
	}

	if category.Name == "" {
		return nil, errors.AddValidationError("name", "must not be empty")
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, mapCategoryError(err, "Failed to create category")
	}

	return category, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, mapCategoryError(err, "Failed to fetch category")
	}

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req *models.UpdateCategoryRequest) (*models.Category, error) {

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, mapCategoryError(err, "Failed to fetch category")
	}

	if req.Name != nil {
		name := utils.SanitizeText(*req.Name)
		if name == "" {
			return nil, errors.AddValidationError("name", "must not be empty")
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = utils.SanitizeText(*req.Description)
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, mapCategoryError(err, "Failed to update category")
	}

	return category, nil
}

// DeleteCategory removes the category row only. Products keep their category_id and read
// back without a category name.
func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return mapCategoryError(err, "Failed to delete category")
	}

	return nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}

func mapCategoryError(err error, message string) error {
	switch {
	case stdErrors.Is(err, repository.ErrNotFound):
		return errors.NotFoundError("Category not found").WithError(err)
	case stdErrors.Is(err, repository.ErrDuplicate):
		return errors.DuplicateEntryError("Category already exists").WithError(err)
	default:
		return errors.DatabaseError(message).WithError(err)
	}
}
