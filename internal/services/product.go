package service

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	"github.com/Brooklss/Tech-EcoLab/internal/cache"
	"github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	repository "github.com/Brooklss/Tech-EcoLab/internal/repositories"
	"github.com/Brooklss/Tech-EcoLab/internal/utils"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewProductService caches product reads for ttl. A read that misses the cache can store a
// row fetched just before a checkout committed, so ttl bounds how long that stock is served.
func NewProductService(repo repository.ProductRepository, c cache.Cache, ttl time.Duration) ProductService {
	if c == nil {
		c = cache.NewNoopCache()
	}

	return &productService{repo: repo, cache: c, ttl: ttl}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	if req.Price.IsNegative() {
		return nil, errors.AddValidationError("price", "must be greater than or equal to 0")
	}

	product := &models.Product{
		Name:           utils.SanitizeText(req.Name),
		Description:    utils.SanitizeText(req.Description),
		Price:          req.Price,
		CategoryID:     req.CategoryID,
		StockQuantity:  req.StockQuantity,
		ImageURL:       req.ImageURL,
		Specifications: sanitizeSpecs(req.Specifications),
	}

	if product.Name == "" {
		return nil, errors.AddValidationError("name", "must not be empty")
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, mapProductError(err, "Failed to create product")
	}

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := cache.ProductKey(id)

	var cached models.Product
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Product cache read failed", "key", key, "error", err)
	}
	if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err, "Failed to fetch product")
	}

	if err := s.cache.Set(ctx, key, product, s.ttl); err != nil {
		logger.Warn("Product cache write failed", "key", key, "error", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err, "Failed to fetch product")
	}

	if req.Name != nil {
		name := utils.SanitizeText(*req.Name)
		if name == "" {
			return nil, errors.AddValidationError("name", "must not be empty")
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = utils.SanitizeText(*req.Description)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.AddValidationError("price", "must be greater than or equal to 0")
		}
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.Specifications != nil {
		product.Specifications = sanitizeSpecs(*req.Specifications)
	}

	if err := s.repo.UpdateProduct(ctx, product, req.StockQuantity != nil); err != nil {
		return nil, mapProductError(err, "Failed to update product")
	}

	s.invalidate(ctx, id)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return mapProductError(err, "Failed to delete product")
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *productService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

func (s *productService) invalidate(ctx context.Context, ids ...int64) {
	if err := s.cache.Delete(ctx, cache.ProductKeys(ids)...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Product cache invalidation failed", "ids", ids, "error", err)
	}
}

func sanitizeSpecs(specs map[string]string) map[string]string {
	if specs == nil {
		return nil
	}

	clean := make(map[string]string, len(specs))
	for k, v := range specs {
		key := utils.SanitizeText(k)
		if key == "" {
			continue
		}
		clean[key] = utils.SanitizeText(v)
	}

	return clean
}

func mapProductError(err error, message string) error {
	switch {
	case stdErrors.Is(err, repository.ErrNotFound):
		return errors.NotFoundError("Product not found").WithError(err)
	case stdErrors.Is(err, repository.ErrConstraintViolation):
		return errors.ValidationError("Product violates a stock or price constraint").WithError(err)
	default:
		return errors.DatabaseError(message).WithError(err)
	}
}
