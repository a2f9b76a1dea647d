package models

import (
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// Cart keeps insertion order so the storefront renders lines the way they were added.
type Cart struct {
	Items []CartItem `json:"items"`
}

func (c *Cart) Find(productID int64) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}

	return -1
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero

	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))
	}

	return total
}

func (c *Cart) Count() int64 {
	var count int64

	for _, item := range c.Items {
		count = AddQuantity(count, item.Quantity)
	}

	return count
}

type AddItemRequest struct {
	ProductID int64           `json:"productId" validate:"required,gt=0"`
	Quantity  int64           `json:"quantity" validate:"required,min=1"`
	Name      string          `json:"name" validate:"max=200"`
	Price     decimal.Decimal `json:"price"`
}

type UpdateQuantityRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity"`
}

type CartResponse struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

func NewCartResponse(c *Cart) *CartResponse {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}

	return &CartResponse{Items: items, Total: c.Total(), Count: c.Count()}
}
