package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seclob/internal/api"
	"seclob/internal/cache"
	"seclob/internal/catalog"
	"seclob/internal/config"
	"seclob/internal/session"
	"seclob/internal/wishlist"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// backendClient is everything the frontend asks of the commerce API,
// satisfied by both the real client and the offline mock.
type backendClient interface {
	Login(ctx context.Context, req api.LoginRequest) (json.RawMessage, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	Categories(ctx context.Context) (json.RawMessage, error)
	CreateCategory(ctx context.Context, req api.CreateCategoryRequest) error
	SubCategories(ctx context.Context) (json.RawMessage, error)
	SubCategoriesByCategory(ctx context.Context, categoryID string) (json.RawMessage, error)
	CreateSubCategory(ctx context.Context, req api.CreateSubCategoryRequest) error
	Products(ctx context.Context, query api.ProductQuery) (json.RawMessage, error)
	ProductByID(ctx context.Context, id string) (json.RawMessage, error)
	CreateProduct(ctx context.Context, req api.CreateProductRequest) error
	UpdateProduct(ctx context.Context, id string, req api.CreateProductRequest) error
	WishlistByUser(ctx context.Context, userID string) (json.RawMessage, error)
	AddToWishlist(ctx context.Context, userID, productID string) error
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
}

func newBackend(cfg *config.Config) (backendClient, error) {
	if cfg.Mocks.Enable {
		return api.NewMock(), nil
	}
	return api.NewClient(cfg.Backend)
}

func runServer(cfg *config.Config, addr string) error {
	store, err := cache.MakeCache()
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	sessions := session.NewStore(store)
	sessions.Restore(context.Background())

	var client backendClient
	if cfg.Mocks.Enable {
		client = api.NewMock()
	} else {
		client, err = api.NewClient(cfg.Backend,
			api.WithTokenSource(sessions),
			api.WithUnauthorizedHook(func() {
				sessions.Clear(context.Background())
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to create backend client: %w", err)
		}
	}

	tree := catalog.NewTree(client)
	feed := catalog.NewFeed(client, cfg.Catalog.PageSize,
		catalog.WithNotifier(func(msg string) {
			slog.Warn("catalog notice", "message", msg)
		}))
	tree.OnSelect(func(ctx context.Context, sel catalog.Selection) {
		feed.ApplySelection(ctx, sel)
	})

	panel := wishlist.NewPanel(client, sessions)

	mux := http.NewServeMux()
	catalog.NewServer(tree, feed, client, client, sessions, cfg.Catalog.PageSize).Register(mux)
	wishlist.NewServer(panel).Register(mux)
	session.NewServer(sessions, client).Register(mux)

	ro := &readyOnce{}
	ro.Add(tree)
	mux.Handle("/ready", ro)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    addr,
		Handler: WithMiddleware(mux),
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Serving Seclob storefront", "address", addr, "backend", cfg.Backend.BaseURL, "mocks", cfg.Mocks.Enable)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		slog.Info("Shutdown signal received", "signal", sig)
		return gracefulShutdown(server)
	}
}

func gracefulShutdown(svr *http.Server) error {
	// Kubernetes gives 30 seconds of grace; leave headroom.
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := svr.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
		if closeErr := svr.Close(); closeErr != nil {
			slog.Error("Server close error", "error", closeErr)
		}
		return err
	}
	return nil
}
