package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CheckoutItem is a line item as sent by the client. Both fields are kept raw because the
// storefront sends ids as numbers or strings depending on where they were read from.
type CheckoutItem struct {
	ID       json.RawMessage `json:"id"`
	Quantity json.RawMessage `json:"quantity"`
}

type CheckoutRequest struct {
	Items []CheckoutItem `json:"items,omitempty"`
}

// LineItem is a normalized (product id, quantity) pair.
type LineItem struct {
	ProductID int64
	Quantity  int64
}

// StockShortage describes one line item that could not be fulfilled.
type StockShortage struct {
	ID        int64 `json:"id"`
	Available int64 `json:"available"`
	Requested int64 `json:"requested"`
}

type CheckoutResponse struct {
	OK bool `json:"ok"`
}

// Normalize coerces the raw item into a LineItem. It reports false when the id cannot be
// resolved to a positive integer or the quantity is not positive.
func (i CheckoutItem) Normalize() (LineItem, bool) {
	id, ok := coerceInt(i.ID)
	if !ok || id <= 0 {
		return LineItem{}, false
	}

	qty, ok := coerceInt(i.Quantity)
	if !ok || qty <= 0 {
		return LineItem{}, false
	}

	return LineItem{ProductID: id, Quantity: qty}, true
}

// AddQuantity sums two non-negative quantities, saturating at math.MaxInt64 so a merged
// line can only ever ask for more than any stock, never wrap negative.
func AddQuantity(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}

	return a + b
}

func coerceInt(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(s)
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(text, 64)
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 holds.
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0, false
	}

	return int64(math.Trunc(f)), true
}

// LineItemsFromCart converts the session cart into line items, skipping non-positive lines.
func LineItemsFromCart(c *Cart) []LineItem {
	items := make([]LineItem, 0, len(c.Items))

	for _, item := range c.Items {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			continue
		}
		items = append(items, LineItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return items
}

// LowStockItem is a product whose stock fell to or below the alert threshold after a checkout.
type LowStockItem struct {
	ProductID int64 `json:"productId"`
	Remaining int64 `json:"remaining"`
}
