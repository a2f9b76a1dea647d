package filestore_test

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Brooklss/Tech-EcoLab/internal/models"
	repository "github.com/Brooklss/Tech-EcoLab/internal/repositories"
	"github.com/Brooklss/Tech-EcoLab/internal/repositories/filestore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*repository.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "database.json")

	fs, err := filestore.Open(path)
	require.NoError(t, err)

	return fs.Repositories(), path
}

func seedProduct(t *testing.T, store *repository.Store, name string, price int64, stock int64) *models.Product {
	t.Helper()

	p := &models.Product{Name: name, Price: decimal.NewFromInt(price), CategoryID: 1, StockQuantity: stock}
	require.NoError(t, store.Products.CreateProduct(t.Context(), p))

	return p
}

func TestOpen(t *testing.T) {
	t.Run("Loads the storefront document layout", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "database.json")
		doc := `{
  "categories": [{"id": 1, "name": "Laptops", "description": ""}],
  "products": [{"id": 4, "name": "Air", "description": "thin", "price": 999.5, "category_id": 1, "stock_quantity": 2}],
  "admins": [{"id": 1, "username": "admin", "password_hash": "$2a$10$x"}]
}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		// Act
		fs, err := filestore.Open(path)
		require.NoError(t, err)
		store := fs.Repositories()

		// Assert
		product, err := store.Products.GetProductByID(t.Context(), 4)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("999.5").Equal(product.Price))
		require.NotNil(t, product.CategoryName)
		assert.Equal(t, "Laptops", *product.CategoryName)

		admin, err := store.Admins.GetAdminByUsername(t.Context(), "admin")
		require.NoError(t, err)
		assert.Equal(t, "$2a$10$x", admin.PasswordHash)

		next := seedProduct(t, store, "Next", 1, 1)
		assert.Equal(t, int64(5), next.ID)
	})

	t.Run("Corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "database.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		fs, err := filestore.Open(path)

		assert.Nil(t, fs)
		assert.ErrorContains(t, err, "parsing database file")
	})
}

func TestProducts(t *testing.T) {
	t.Run("Ids are never reused after delete", func(t *testing.T) {
		// Arrange
		store, path := openStore(t)
		seedProduct(t, store, "A", 1, 1)
		b := seedProduct(t, store, "B", 1, 1)

		// Act
		require.NoError(t, store.Products.DeleteProduct(t.Context(), b.ID))
		c := seedProduct(t, store, "C", 1, 1)

		reopened, err := filestore.Open(path)
		require.NoError(t, err)
		d := seedProduct(t, reopened.Repositories(), "D", 1, 1)

		// Assert
		assert.Equal(t, int64(3), c.ID)
		assert.Equal(t, int64(4), d.ID)
	})

	t.Run("Update and delete of a missing product", func(t *testing.T) {
		store, _ := openStore(t)

		err := store.Products.UpdateProduct(t.Context(), &models.Product{ID: 42, Name: "x"}, false)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		err = store.Products.DeleteProduct(t.Context(), 42)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Update waits for a checkout and keeps its sale", func(t *testing.T) {
		// Arrange
		store, path := openStore(t)
		p := seedProduct(t, store, "Widget", 5, 5)
		ctx := t.Context()

		stale, err := store.Products.GetProductByID(ctx, p.ID)
		require.NoError(t, err)
		stale.Name = "Renamed widget"

		tx, err := store.Products.BeginStockTx(ctx)
		require.NoError(t, err)
		_, err = tx.LockStock(ctx, []int64{p.ID})
		require.NoError(t, err)
		require.NoError(t, tx.DecrementStock(ctx, p.ID, 2))

		// Act
		updated := make(chan error, 1)
		go func() { updated <- store.Products.UpdateProduct(ctx, stale, false) }()

		select {
		case err := <-updated:
			t.Fatalf("update finished while the row was locked: %v", err)
		case <-time.After(50 * time.Millisecond):
		}

		require.NoError(t, tx.Commit())
		require.NoError(t, <-updated)

		// Assert
		assert.Equal(t, int64(3), stale.StockQuantity)

		reopened, err := filestore.Open(path)
		require.NoError(t, err)
		got, err := reopened.Repositories().Products.GetProductByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed widget", got.Name)
		assert.Equal(t, int64(3), got.StockQuantity)
	})

	t.Run("Update with setStock overwrites stock", func(t *testing.T) {
		store, _ := openStore(t)
		p := seedProduct(t, store, "Widget", 5, 5)

		p.StockQuantity = 12
		require.NoError(t, store.Products.UpdateProduct(t.Context(), p, true))

		got, err := store.Products.GetProductByID(t.Context(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(12), got.StockQuantity)
	})

	t.Run("Dangling category has no name", func(t *testing.T) {
		store, _ := openStore(t)
		cat := &models.Category{Name: "Gone"}
		require.NoError(t, store.Categories.CreateCategory(t.Context(), cat))
		p := &models.Product{Name: "Orphan", Price: decimal.NewFromInt(1), CategoryID: cat.ID}
		require.NoError(t, store.Products.CreateProduct(t.Context(), p))

		require.NoError(t, store.Categories.DeleteCategory(t.Context(), cat.ID))
		got, err := store.Products.GetProductByID(t.Context(), p.ID)

		require.NoError(t, err)
		assert.Equal(t, cat.ID, got.CategoryID)
		assert.Nil(t, got.CategoryName)
	})

	t.Run("List sorts by price and paginates", func(t *testing.T) {
		// Arrange
		store, _ := openStore(t)
		for i := 25; i >= 1; i-- {
			seedProduct(t, store, fmt.Sprintf("Item %02d", i), int64(i), 1)
		}

		// Act
		products, total, err := store.Products.ListProducts(t.Context(), models.ProductFilter{
			SortField: models.SortByPrice, Page: 2, Limit: 10,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		require.Len(t, products, 10)
		for i, p := range products {
			assert.True(t, decimal.NewFromInt(int64(11+i)).Equal(p.Price), "position %d", i)
		}
	})

	t.Run("List filters", func(t *testing.T) {
		store, _ := openStore(t)
		seedProduct(t, store, "Gaming Laptop", 1500, 1)
		seedProduct(t, store, "Office laptop", 700, 1)
		seedProduct(t, store, "Mouse", 20, 1)

		minPrice := decimal.NewFromInt(500)
		products, total, err := store.Products.ListProducts(t.Context(), models.ProductFilter{
			Search: "LAPTOP", MinPrice: &minPrice, SortField: models.SortByName, SortDesc: true, Page: 1, Limit: 20,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, products, 2)
		assert.Equal(t, "Office laptop", products[0].Name)
	})

	t.Run("Page beyond the end is empty", func(t *testing.T) {
		store, _ := openStore(t)
		seedProduct(t, store, "Only", 1, 1)

		products, total, err := store.Products.ListProducts(t.Context(), models.ProductFilter{Page: 5, Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Empty(t, products)
	})
}

func TestListPagingNeverOverflows(t *testing.T) {
	store, _ := openStore(t)
	seedProduct(t, store, "Only", 1, 1)

	tests := []struct {
		filter models.ProductFilter
		want   int
	}{
		{filter: models.ProductFilter{Page: math.MaxInt, Limit: 100}},
		{filter: models.ProductFilter{Page: math.MaxInt / 50, Limit: 100}},
		{filter: models.ProductFilter{Page: 2, Limit: math.MaxInt}},
		{filter: models.ProductFilter{Page: 1, Limit: math.MaxInt}, want: 1},
	}

	for _, tc := range tests {
		filter := tc.filter
		t.Run(fmt.Sprintf("page %d limit %d", filter.Page, filter.Limit), func(t *testing.T) {
			var products []*models.Product
			var total int
			var err error

			require.NotPanics(t, func() {
				products, total, err = store.Products.ListProducts(t.Context(), filter)
			})

			require.NoError(t, err)
			assert.Equal(t, 1, total)
			assert.Len(t, products, tc.want)
		})
	}
}

func TestStockTx(t *testing.T) {
	t.Run("Commit applies staged decrements and persists them", func(t *testing.T) {
		// Arrange
		store, path := openStore(t)
		p := seedProduct(t, store, "Widget", 5, 3)
		ctx := t.Context()

		// Act
		tx, err := store.Products.BeginStockTx(ctx)
		require.NoError(t, err)
		stock, err := tx.LockStock(ctx, []int64{p.ID, 999})
		require.NoError(t, err)
		require.NoError(t, tx.DecrementStock(ctx, p.ID, 2))
		require.NoError(t, tx.Commit())

		// Assert
		assert.Equal(t, map[int64]int64{p.ID: 3}, stock)

		reopened, err := filestore.Open(path)
		require.NoError(t, err)
		got, err := reopened.Repositories().Products.GetProductByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.StockQuantity)
	})

	t.Run("Rollback discards staged decrements and releases locks", func(t *testing.T) {
		store, _ := openStore(t)
		p := seedProduct(t, store, "Widget", 5, 3)
		ctx := t.Context()

		tx, err := store.Products.BeginStockTx(ctx)
		require.NoError(t, err)
		_, err = tx.LockStock(ctx, []int64{p.ID})
		require.NoError(t, err)
		require.NoError(t, tx.DecrementStock(ctx, p.ID, 3))
		require.NoError(t, tx.Rollback())

		got, err := store.Products.GetProductByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.StockQuantity)

		lockCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		tx2, err := store.Products.BeginStockTx(lockCtx)
		require.NoError(t, err)
		_, err = tx2.LockStock(lockCtx, []int64{p.ID})
		require.NoError(t, err, "lock must be free after rollback")
		require.NoError(t, tx2.Rollback())
	})

	t.Run("Decrement below zero is rejected", func(t *testing.T) {
		store, _ := openStore(t)
		p := seedProduct(t, store, "Widget", 5, 1)
		ctx := t.Context()

		tx, err := store.Products.BeginStockTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback()
		_, err = tx.LockStock(ctx, []int64{p.ID})
		require.NoError(t, err)

		err = tx.DecrementStock(ctx, p.ID, 2)

		assert.ErrorIs(t, err, repository.ErrConstraintViolation)
	})

	t.Run("Decrement without lock is rejected", func(t *testing.T) {
		store, _ := openStore(t)
		p := seedProduct(t, store, "Widget", 5, 1)
		ctx := t.Context()

		tx, err := store.Products.BeginStockTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback()

		assert.Error(t, tx.DecrementStock(ctx, p.ID, 1))
	})

	t.Run("Waiting for a held lock honours the deadline", func(t *testing.T) {
		store, _ := openStore(t)
		p := seedProduct(t, store, "Widget", 5, 1)
		ctx := t.Context()

		holder, err := store.Products.BeginStockTx(ctx)
		require.NoError(t, err)
		_, err = holder.LockStock(ctx, []int64{p.ID})
		require.NoError(t, err)
		defer holder.Rollback()

		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		waiter, err := store.Products.BeginStockTx(waitCtx)
		require.NoError(t, err)

		_, err = waiter.LockStock(waitCtx, []int64{p.ID})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		require.NoError(t, waiter.Rollback())
	})

	t.Run("Concurrent buyers of the last unit", func(t *testing.T) {
		// Arrange
		store, _ := openStore(t)
		p := seedProduct(t, store, "Last one", 5, 1)
		ctx := t.Context()

		const buyers = 20
		var succeeded, rejected atomic.Int32
		var wg sync.WaitGroup

		// Act
		for range buyers {
			wg.Add(1)
			go func() {
				defer wg.Done()

				tx, err := store.Products.BeginStockTx(ctx)
				if !assert.NoError(t, err) {
					return
				}
				defer tx.Rollback()

				stock, err := tx.LockStock(ctx, []int64{p.ID})
				if !assert.NoError(t, err) {
					return
				}

				if stock[p.ID] < 1 {
					rejected.Add(1)
					return
				}

				if assert.NoError(t, tx.DecrementStock(ctx, p.ID, 1)) && assert.NoError(t, tx.Commit()) {
					succeeded.Add(1)
				}
			}()
		}
		wg.Wait()

		// Assert
		assert.Equal(t, int32(1), succeeded.Load())
		assert.Equal(t, int32(buyers-1), rejected.Load())

		got, err := store.Products.GetProductByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.StockQuantity)
	})
}

func TestCategoriesAndAdmins(t *testing.T) {
	store, _ := openStore(t)
	ctx := t.Context()

	require.NoError(t, store.Categories.CreateCategory(ctx, &models.Category{Name: "Phones"}))
	require.NoError(t, store.Categories.CreateCategory(ctx, &models.Category{Name: "Audio"}))

	categories, err := store.Categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Audio", categories[0].Name)

	err = store.Categories.UpdateCategory(ctx, &models.Category{ID: 99, Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Admins.CreateAdmin(ctx, &models.Admin{Username: "admin", PasswordHash: "h"}))
	err = store.Admins.CreateAdmin(ctx, &models.Admin{Username: "admin", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = store.Admins.GetAdminByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
