package api

import (
	"net/http"

	"github.com/Brooklss/Tech-EcoLab/internal/api/handlers"
	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	"github.com/Brooklss/Tech-EcoLab/internal/metrics"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/Brooklss/Tech-EcoLab/docs"
)

type Handlers struct {
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Cart       *handlers.CartHandler
	Auth       *handlers.AuthHandler
	Checkout   *handlers.CheckoutHandler
}

type Options struct {
	Sessions    *session.Manager
	CORS        middleware.CORSConfig
	Health      http.Handler
	ServiceName string
}

// NewRouter registers every route and wraps the mux in the middleware chain.
// Outermost first: tracing, recover, logging, security headers, CORS, session, metrics.
func NewRouter(h Handlers, opts Options) http.Handler {

	mux := http.NewServeMux()

	// Catalog
	mux.HandleFunc("GET /api/products", h.Products.ListProducts())
	mux.HandleFunc("GET /api/products/{id}", h.Products.GetProduct())
	mux.HandleFunc("POST /api/products", middleware.RequireAdmin(h.Products.CreateProduct()))
	mux.HandleFunc("PUT /api/products/{id}", middleware.RequireAdmin(h.Products.UpdateProduct()))
	mux.HandleFunc("DELETE /api/products/{id}", middleware.RequireAdmin(h.Products.DeleteProduct()))

	mux.HandleFunc("GET /api/categories", h.Categories.ListCategories())
	mux.HandleFunc("GET /api/categories/{id}", h.Categories.GetCategory())
	mux.HandleFunc("POST /api/categories", middleware.RequireAdmin(h.Categories.CreateCategory()))
	mux.HandleFunc("PUT /api/categories/{id}", middleware.RequireAdmin(h.Categories.UpdateCategory()))
	mux.HandleFunc("DELETE /api/categories/{id}", middleware.RequireAdmin(h.Categories.DeleteCategory()))

	// Auth
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login())
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout())
	mux.HandleFunc("GET /api/auth/me", h.Auth.Me())

	// Cart & checkout
	mux.HandleFunc("GET /api/cart", h.Cart.GetCart())
	mux.HandleFunc("POST /api/cart/add", h.Cart.AddItem())
	mux.HandleFunc("POST /api/cart/update", h.Cart.UpdateQuantity())
	mux.HandleFunc("POST /api/cart/clear", h.Cart.ClearCart())
	mux.HandleFunc("POST /api/checkout", h.Checkout.Checkout())

	// Operations
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)
	if opts.Health != nil {
		mux.Handle("GET /health", opts.Health)
	}

	// metrics reads r.Pattern, which only the mux sets.
	var handler http.Handler = metrics.Middleware(mux)
	handler = middleware.Session(opts.Sessions)(handler)
	handler = middleware.CORS(opts.CORS)(handler)
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recover(handler)

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "tech-ecolab"
	}

	return otelhttp.NewHandler(handler, serviceName)
}
