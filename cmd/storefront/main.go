package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/dukerupert/chapters/internal"
	"github.com/dukerupert/chapters/internal/api"
	"github.com/dukerupert/chapters/internal/auth"
	"github.com/dukerupert/chapters/internal/cart"
	"github.com/dukerupert/chapters/internal/catalog"
	"github.com/dukerupert/chapters/internal/handler"
	"github.com/dukerupert/chapters/internal/middleware"
	"github.com/dukerupert/chapters/internal/router"
	"github.com/dukerupert/chapters/internal/store"
	"github.com/go-playground/validator/v10"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Open the persisted store (file or sqlite per config)
	logger.Info("Opening persisted store...", "provider", cfg.Store.Provider)
	st, err := store.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("store initialization failed: %w", err)
	}
	defer st.Close()
	logger.Info("Persisted store ready")

	// The session is the API client's token source, and the client is the
	// session's authenticator, so wire them in two steps.
	session := auth.NewSession(st, logger)

	client, err := api.NewClient(cfg.API, session, logger)
	if err != nil {
		return fmt.Errorf("api client initialization failed: %w", err)
	}
	session.Attach(client)

	if err := session.Load(ctx); err != nil {
		return fmt.Errorf("session restore failed: %w", err)
	}

	// Restore the persisted cart
	ledger := cart.NewLedger(st, logger)
	if err := ledger.Load(ctx); err != nil {
		return fmt.Errorf("cart restore failed: %w", err)
	}
	logger.Info("Cart restored", "items", ledger.ItemCount())

	// The header badge re-reads the count on every cart change
	ledger.Subscribe(func() {
		logger.Debug("cart updated", "items", ledger.ItemCount())
	})

	checkout := cart.NewCheckout(ledger, client, logger)
	browser := catalog.NewBrowser(client, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	// Handlers
	cartHandler := handler.NewCartHandler(ledger, checkout, validate)
	shopHandler := handler.NewShopHandler(browser, validate)
	productHandler := handler.NewProductHandler(client, client, validate)
	authHandler := handler.NewAuthHandler(session, client, validate)

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("chapters")

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	// Metrics endpoint
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Cart
	r.Get("/cart", cartHandler.View)
	r.Get("/cart/count", cartHandler.Count)
	r.Post("/cart/items", cartHandler.Add)
	r.Put("/cart/items/{id}", cartHandler.UpdateQuantity)
	r.Delete("/cart/items/{id}", cartHandler.Remove)
	r.Post("/checkout", cartHandler.Checkout)

	// Shop
	r.Get("/shop", shopHandler.View)
	r.Post("/shop/filter", shopHandler.Filter)
	r.Post("/shop/sort", shopHandler.Sort)
	r.Post("/shop/page", shopHandler.Page)
	r.Post("/shop/page-size", shopHandler.PerPage)

	// Product detail and reviews
	r.Get("/books/{id}", productHandler.View)
	r.Post("/books/{id}/reviews", productHandler.SubmitReview)
	r.Post("/books/{id}/reviews/filter", productHandler.FilterReviews)
	r.Post("/books/{id}/reviews/sort", productHandler.SortReviews)
	r.Post("/books/{id}/reviews/page", productHandler.PageReviews)
	r.Post("/books/{id}/reviews/page-size", productHandler.PerPageReviews)

	// Auth
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)
	r.Post("/refresh", authHandler.Refresh)
	r.Get("/me", authHandler.Me)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting storefront server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
