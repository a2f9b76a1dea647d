package models_test

import (
	"math"
	"testing"

	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestProductFilterOffset(t *testing.T) {
	tests := []struct {
		name   string
		filter models.ProductFilter
		want   int
	}{
		{name: "First Page", filter: models.ProductFilter{Page: 1, Limit: 10}, want: 0},
		{name: "Third Page", filter: models.ProductFilter{Page: 3, Limit: 10}, want: 20},
		{name: "Zero Page", filter: models.ProductFilter{Page: 0, Limit: 10}, want: 0},
		{name: "Huge Page Saturates", filter: models.ProductFilter{Page: math.MaxInt, Limit: 100}, want: math.MaxInt},
		{name: "Huge Limit Saturates", filter: models.ProductFilter{Page: 3, Limit: math.MaxInt}, want: math.MaxInt},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Offset())
		})
	}
}
