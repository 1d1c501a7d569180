package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andeanlabs/usdc-storefront/internal/api/handlers"
	"github.com/andeanlabs/usdc-storefront/internal/api/middleware"
	"github.com/andeanlabs/usdc-storefront/internal/cart"
	"github.com/andeanlabs/usdc-storefront/internal/config"
	"github.com/andeanlabs/usdc-storefront/internal/health"
	"github.com/andeanlabs/usdc-storefront/internal/metrics"
	"github.com/andeanlabs/usdc-storefront/internal/money"
	"github.com/andeanlabs/usdc-storefront/internal/ratelimit"
	service "github.com/andeanlabs/usdc-storefront/internal/services"
	"github.com/andeanlabs/usdc-storefront/pkg/payin"
	"github.com/andeanlabs/usdc-storefront/pkg/products"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	usdcToCOPRate, err := money.ParseAmount(cfg.PayinProvider.USDCToCOPRate)
	if err != nil {
		slog.Error("Invalid USDC to COP rate", "error", err.Error())
		os.Exit(1)
	}

	// Collaborator clients
	productsClient := products.NewClient(cfg.ProductService.BaseURL, cfg.ProductService.Timeout)
	payinClient := payin.NewClient(payin.Config{
		BaseURL:         cfg.PayinProvider.BaseURL,
		APIKey:          cfg.PayinProvider.APIKey,
		USDCToCOPRate:   usdcToCOPRate,
		TokenSymbol:     cfg.PayinProvider.TokenSymbol,
		TokenBlockchain: cfg.PayinProvider.TokenBlockchain,
		Timeout:         cfg.PayinProvider.Timeout,
	})

	// Session cart; the item-count gauge is the badge of this surface.
	cartStore := cart.NewStore()
	cartStore.Subscribe(metrics.SetCartItems)

	var limiter *ratelimit.CheckoutLimiter

	if cfg.RedisConnect.Enabled {
		limiter, err = ratelimit.NewCheckoutLimiter(cfg)
		if err != nil {
			slog.Error("Error accessing the redis instance", "error", err.Error())
			os.Exit(1)
		}

		defer func() {
			if err := limiter.Close(); err != nil {
				slog.Error("Error closing redis connection", slog.String("error", err.Error()))
			}
		}()
	}

	catalogService := service.NewCatalogService(productsClient)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartStore, catalogService)
	purchaseService := service.NewPurchaseService(payinClient, catalogService)
	checkoutService := service.NewCheckoutService(cartStore, purchaseService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, limiter)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Error building health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storefront initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct())
	routerMux.HandleFunc("PUT /api/v1/admin/products/{id}/price", catalogHandler.UpdatePrice())
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/v1/cart/items/{id}", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", cartHandler.RemoveItem())
	routerMux.HandleFunc("DELETE /api/v1/cart", cartHandler.ClearCart())
	routerMux.HandleFunc("POST /api/v1/checkout", checkoutHandler.Submit())
	routerMux.HandleFunc("GET /api/v1/checkout", checkoutHandler.State())
	routerMux.HandleFunc("POST /api/v1/checkout/ack", checkoutHandler.Acknowledge())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

}
