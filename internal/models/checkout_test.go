package models_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAddQuantity(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want int64
	}{
		{name: "Small", a: 2, b: 3, want: 5},
		{name: "Lands Exactly On Max", a: math.MaxInt64 - 1, b: 1, want: math.MaxInt64},
		{name: "Two Halves Of 2^63", a: 1 << 62, b: 1 << 62, want: math.MaxInt64},
		{name: "Far Past Max", a: 5e18, b: 5e18, want: math.MaxInt64},
		{name: "Already Saturated", a: math.MaxInt64, b: math.MaxInt64, want: math.MaxInt64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, models.AddQuantity(tc.a, tc.b))
		})
	}
}

func TestCheckoutItemNormalize(t *testing.T) {
	tests := []struct {
		name    string
		id, qty string
		want    models.LineItem
		wantOK  bool
	}{
		{name: "Numbers", id: `7`, qty: `2`, want: models.LineItem{ProductID: 7, Quantity: 2}, wantOK: true},
		{name: "Numeric Strings", id: `"7"`, qty: `" 2 "`, want: models.LineItem{ProductID: 7, Quantity: 2}, wantOK: true},
		{name: "Float Quantity Truncates", id: `7`, qty: `2.9`, want: models.LineItem{ProductID: 7, Quantity: 2}, wantOK: true},
		{name: "Largest Int64", id: `7`, qty: `9223372036854775807`, want: models.LineItem{ProductID: 7, Quantity: math.MaxInt64}, wantOK: true},
		{name: "Float At 2^63 Rejected", id: `7`, qty: `9.223372036854775807e18`},
		{name: "Zero Quantity", id: `7`, qty: `0`},
		{name: "Negative Id", id: `-1`, qty: `1`},
		{name: "Null Id", id: `null`, qty: `1`},
		{name: "Not A Number", id: `"abc"`, qty: `1`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := models.CheckoutItem{ID: json.RawMessage(tc.id), Quantity: json.RawMessage(tc.qty)}

			got, ok := item.Normalize()

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
