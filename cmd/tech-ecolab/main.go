package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brooklss/Tech-EcoLab/internal/api"
	"github.com/Brooklss/Tech-EcoLab/internal/api/handlers"
	"github.com/Brooklss/Tech-EcoLab/internal/api/middleware"
	"github.com/Brooklss/Tech-EcoLab/internal/cache"
	"github.com/Brooklss/Tech-EcoLab/internal/config"
	"github.com/Brooklss/Tech-EcoLab/internal/health"
	repository "github.com/Brooklss/Tech-EcoLab/internal/repositories"
	"github.com/Brooklss/Tech-EcoLab/internal/repositories/filestore"
	service "github.com/Brooklss/Tech-EcoLab/internal/services"
	"github.com/Brooklss/Tech-EcoLab/internal/session"
	"github.com/Brooklss/Tech-EcoLab/internal/tracing"
	"github.com/Brooklss/Tech-EcoLab/pkg/sendgrid"
	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

//	@title			Tech EcoLab API
//	@version		1.0
//	@description	Storefront backend: catalog, session cart, admin auth and checkout.
//	@BasePath		/api
func main() {

	// Load config
	cfg := config.MustLoad()

	// Logger setup
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Tracing
	shutdownTracing, err := tracing.Init(context.Background(), cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Storage setup
	store, err := openStore(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the storage", slog.String("driver", cfg.Storage.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("⚠️ Error closing storage", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Storage closed")
		}
	}()

	// Redis setup, only when something is configured against it
	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient, err = repository.NewRedisClient(cfg)
		if err != nil {
			slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var (
		productCache cache.Cache
		limiter      repository.RateLimitRepository
		sessionStore session.Store
	)

	if redisClient != nil {
		productCache = cache.NewRedisCache(redisClient, cfg.Cache)
		limiter = repository.NewRateLimitRepo(redisClient, cfg.RateConfig)
		sessionStore = session.NewRedisStore(redisClient, cfg.Session.TTL)
	} else {
		productCache = cache.NewNoopCache()
		limiter = repository.NewNoopRateLimiter()
		sessionStore = session.NewMemoryStore(cfg.Session.TTL)
	}

	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Redis connection closed")
		}
	}()

	var notifier service.LowStockNotifier
	if cfg.SendGrid.APIKey != "" && cfg.SendGrid.AlertTo != "" {
		emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		notifier = sendgrid.NewLowStockAlerter(emailService, cfg.SendGrid.AlertTo)
	}

	productService := service.NewProductService(store.Products, productCache, cfg.Cache.ProductTTL)
	categoryService := service.NewCategoryService(store.Categories)
	cartService := service.NewCartService(productService)
	authService := service.NewAuthService(store.Admins, limiter)
	checkoutService := service.NewCheckoutService(store.Products, productCache, notifier, service.CheckoutConfig{
		Timeout:           cfg.Checkout.Timeout,
		LowStockThreshold: cfg.Checkout.LowStockThreshold,
	})

	if err := authService.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
		slog.Error("❌ Error creating the bootstrap admin", slog.String("error", err.Error()))
		os.Exit(1)
	}

	healthChecker, err := health.NewHealthHandler(cfg, version)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("driver", cfg.Storage.Driver), slog.String("version", version))

	// Setup router
	router := api.NewRouter(api.Handlers{
		Products:   handlers.NewProductHandler(productService),
		Categories: handlers.NewCategoryHandler(categoryService),
		Cart:       handlers.NewCartHandler(cartService),
		Auth:       handlers.NewAuthHandler(authService),
		Checkout:   handlers.NewCheckoutHandler(checkoutService),
	}, api.Options{
		Sessions:    session.NewManager(sessionStore, cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieSecure),
		CORS:        middleware.CORSConfig{AllowedOrigins: cfg.CORS.AllowedOrigins},
		Health:      healthChecker.Handler(),
		ServiceName: cfg.Otel.ServiceName,
	})

	// Setup http server
	server := http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	// Low-stock alerts started by the last checkouts.
	checkoutService.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}

func openStore(cfg *config.Config) (*repository.Store, error) {
	if cfg.Storage.Driver == config.StorageDriverFile {
		fs, err := filestore.Open(cfg.Storage.FilePath)
		if err != nil {
			return nil, err
		}
		slog.Info("✅ File store opened", slog.String("path", cfg.Storage.FilePath))
		return fs.Repositories(), nil
	}

	_, store, err := repository.New(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("✅ Database connection established")

	return store, nil
}
