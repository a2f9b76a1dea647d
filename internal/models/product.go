package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, the storefront does arithmetic on them.
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	CategoryID     int64             `json:"category_id"`
	StockQuantity  int64             `json:"stock_quantity"`
	ImageURL       *string           `json:"image_url"`
	Specifications map[string]string `json:"specifications"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	CategoryName   *string           `json:"category_name,omitempty"`
}

type CreateProductRequest struct {
	Name           string            `json:"name" validate:"required,min=1,max=200"`
	Description    string            `json:"description" validate:"max=5000"`
	Price          decimal.Decimal   `json:"price"`
	CategoryID     int64             `json:"category_id" validate:"required,gt=0"`
	StockQuantity  int64             `json:"stock_quantity" validate:"gte=0"`
	ImageURL       *string           `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

type UpdateProductRequest struct {
	Name           *string            `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description    *string            `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price          *decimal.Decimal   `json:"price,omitempty"`
	CategoryID     *int64             `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	StockQuantity  *int64             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	ImageURL       *string            `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	Specifications *map[string]string `json:"specifications,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// Sort keys accepted by the product listing.
const (
	SortByName      = "name"
	SortByPrice     = "price"
	SortByCreatedAt = "created_at"
)

// ProductFilter is the normalized form of the product listing query string.
type ProductFilter struct {
	CategoryID *int64
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortField  string
	SortDesc   bool
	Page       int
	Limit      int
}

// Offset is the number of matches skipped before the page starts. It saturates at math.MaxInt
// and is never negative.
func (f ProductFilter) Offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}

	return (f.Page - 1) * f.Limit
}
