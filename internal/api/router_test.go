package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Brooklss/Tech-EcoLab/internal/api"
	"github.com/Brooklss/Tech-EcoLab/internal/api/handlers"
	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	repository "github.com/Brooklss/Tech-EcoLab/internal/repositories"
	"github.com/Brooklss/Tech-EcoLab/internal/repositories/filestore"
	service "github.com/Brooklss/Tech-EcoLab/internal/services"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
	"github.com/Brooklss/Tech-EcoLab/internal/utils/response"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	store *repository.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	fs, err := filestore.Open(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)
	store := fs.Repositories()

	productService := service.NewProductService(store.Products, nil, 0)
	authService := service.NewAuthService(store.Admins, nil)
	require.NoError(t, authService.EnsureAdmin(t.Context(), "admin", "admin123"))

	checkoutService := service.NewCheckoutService(store.Products, nil, nil, service.CheckoutConfig{Timeout: 5 * time.Second})

	router := api.NewRouter(api.Handlers{
		Products:   handlers.NewProductHandler(productService),
		Categories: handlers.NewCategoryHandler(service.NewCategoryService(store.Categories)),
		Cart:       handlers.NewCartHandler(service.NewCartService(productService)),
		Auth:       handlers.NewAuthHandler(authService),
		Checkout:   handlers.NewCheckoutHandler(checkoutService),
	}, api.Options{
		Sessions: session.NewManager(session.NewMemoryStore(time.Hour), "router-test-secret", time.Hour, false),
		CORS:     middleware.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Health:   http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	t.Cleanup(checkoutService.Wait)

	return &testServer{Server: srv, store: store}
}

// browser returns a client that keeps the session cookie between calls.
func (s *testServer) browser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{Jar: jar}
}

func (s *testServer) do(t *testing.T, client *http.Client, method, path, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, s.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func (s *testServer) seed(t *testing.T, name string, price, stock int64) *models.Product {
	t.Helper()

	p := &models.Product{Name: name, Price: decimal.NewFromInt(price), CategoryID: 1, StockQuantity: stock}
	require.NoError(t, s.store.Products.CreateProduct(t.Context(), p))

	return p
}

func (s *testServer) login(t *testing.T, client *http.Client) {
	t.Helper()

	resp := s.do(t, client, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_AdminRoutes(t *testing.T) {

	t.Run("Anonymous Create Is Rejected And Nothing Is Stored", func(t *testing.T) {
		// Arrange
		srv := newTestServer(t)
		client := srv.browser(t)

		// Act
		resp := srv.do(t, client, http.MethodPost, "/api/products",
			`{"name":"Drone","price":10,"category_id":1,"stock_quantity":1}`)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Unauthenticated", decode[response.ErrorResponse](t, resp).Error)

		_, total, err := srv.store.Products.ListProducts(t.Context(), models.ProductFilter{Page: 1, Limit: 100})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("Login Unlocks Writes Until Logout", func(t *testing.T) {
		// Arrange
		srv := newTestServer(t)
		client := srv.browser(t)
		srv.login(t, client)

		// Act
		created := srv.do(t, client, http.MethodPost, "/api/products",
			`{"name":"Drone","price":10,"category_id":1,"stock_quantity":1}`)
		me := srv.do(t, client, http.MethodGet, "/api/auth/me", "")
		logout := srv.do(t, client, http.MethodPost, "/api/auth/logout", "")
		afterLogout := srv.do(t, client, http.MethodDelete, "/api/products/1", "")

		// Assert
		assert.Equal(t, http.StatusCreated, created.StatusCode)
		assert.Equal(t, int64(1), decode[models.MeResponse](t, me).ID)
		assert.Equal(t, http.StatusOK, logout.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, afterLogout.StatusCode)

		_, err := srv.store.Products.GetProductByID(t.Context(), 1)
		assert.NoError(t, err)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		// Arrange
		srv := newTestServer(t)
		client := srv.browser(t)

		// Act
		resp := srv.do(t, client, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Empty(t, resp.Cookies())
	})
}

func TestRouter_ListProducts(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	client := srv.browser(t)

	// Inserted out of price order so the sort is what orders the page.
	for _, price := range []int64{17, 3, 25, 11, 8, 20, 1, 14, 22, 5, 19, 12, 24, 2, 16, 9, 21, 13, 6, 18, 4, 23, 10, 15, 7} {
		srv.seed(t, fmt.Sprintf("item-%02d", price), price, 1)
	}

	// Act
	resp := srv.do(t, client, http.MethodGet, "/api/products?sort=price&limit=10&page=2", "")

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "25", resp.Header.Get("X-Total-Count"))

	products := decode[[]models.Product](t, resp)
	require.Len(t, products, 10)
	for i, p := range products {
		assert.True(t, decimal.NewFromInt(int64(11+i)).Equal(p.Price), "position %d has price %s", i, p.Price)
	}
}

func TestRouter_CartCheckout(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	client := srv.browser(t)
	product := srv.seed(t, "Headphones", 59, 3)
	addTwo := fmt.Sprintf(`{"productId":%d,"quantity":2}`, product.ID)

	// Act
	require.Equal(t, http.StatusOK, srv.do(t, client, http.MethodPost, "/api/cart/add", addTwo).StatusCode)
	first := srv.do(t, client, http.MethodPost, "/api/checkout", "")
	cartAfterFirst := decode[models.CartResponse](t, srv.do(t, client, http.MethodGet, "/api/cart", ""))

	require.Equal(t, http.StatusOK, srv.do(t, client, http.MethodPost, "/api/cart/add", addTwo).StatusCode)
	second := srv.do(t, client, http.MethodPost, "/api/checkout", "")

	// Assert
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Empty(t, cartAfterFirst.Items)

	assert.Equal(t, http.StatusConflict, second.StatusCode)
	body := decode[response.ErrorResponse](t, second)
	assert.Equal(t, []models.StockShortage{{ID: product.ID, Available: 1, Requested: 2}}, body.Insufficient)

	stored, err := srv.store.Products.GetProductByID(t.Context(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.StockQuantity)

	cart := decode[models.CartResponse](t, srv.do(t, client, http.MethodGet, "/api/cart", ""))
	assert.Equal(t, int64(2), cart.Count)
}

func TestRouter_Operations(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	client := srv.browser(t)
	srv.do(t, client, http.MethodGet, "/api/categories", "")

	// Act
	health := srv.do(t, client, http.MethodGet, "/health", "")
	metrics := srv.do(t, client, http.MethodGet, "/metrics", "")
	unknown := srv.do(t, client, http.MethodGet, "/api/nothing-here", "")

	// Assert
	assert.Equal(t, http.StatusOK, health.StatusCode)
	assert.Equal(t, "nosniff", health.Header.Get("X-Content-Type-Options"))

	require.Equal(t, http.StatusOK, metrics.StatusCode)
	raw, err := io.ReadAll(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `path="GET /api/categories"`)

	assert.Equal(t, http.StatusNotFound, unknown.StatusCode)
	assert.Empty(t, unknown.Cookies())
}
