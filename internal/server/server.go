// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: it opens the repository chosen by config,
// builds the Marketplace on top of it, hands the Marketplace to the
// handlers, and maps handlers to routes. Nothing below this package knows
// which storage backend is running.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/marketplace/internal/auth"
	"github.com/sakif/marketplace/internal/config"
	"github.com/sakif/marketplace/internal/handler"
	"github.com/sakif/marketplace/internal/middleware"
	"github.com/sakif/marketplace/internal/repository"
	"github.com/sakif/marketplace/internal/repository/memory"
	sqliteRepo "github.com/sakif/marketplace/internal/repository/sqlite"
	"github.com/sakif/marketplace/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the repository and closes it on shutdown.
type Server struct {
	router      *chi.Mux
	config      *config.Config
	logger      *slog.Logger
	repo        repository.Repository
	marketplace *service.Marketplace
}

// New wires a Server from cfg:
//  1. open the repository (memory or sqlite)
//  2. build the password service and the Marketplace
//  3. build the handlers and mount the routes
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	repo, err := OpenRepository(cfg.Storage.Driver)
	if err != nil {
		return nil, err
	}

	passwords, err := auth.NewPasswordServiceWithCost(cfg.Auth.BcryptCost)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("creating password service: %w", err)
	}

	s := &Server{
		router:      chi.NewRouter(),
		config:      cfg,
		logger:      logger,
		repo:        repo,
		marketplace: service.NewMarketplace(repo, passwords, logger),
	}
	s.setupRoutes()
	return s, nil
}

// OpenRepository returns an empty repository for the named driver.
func OpenRepository(driver string) (repository.Repository, error) {
	switch driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		db, err := sqliteRepo.New()
		if err != nil {
			return nil, fmt.Errorf("opening sqlite repository: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// Handler returns the router, for tests and for embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Marketplace returns the registry behind the routes.
func (s *Server) Marketplace() *service.Marketplace {
	return s.marketplace
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST /api/users                                         → register
//	POST /api/sessions                                      → login
//	GET  /api/stores                                        → list stores
//	GET  /api/stores/search?name=                           → search stores
//	POST /api/stores                                        → create store       [auth]
//	GET  /api/stores/{storeID}                              → get store
//	GET  /api/stores/{storeID}/owner                        → is owner           [auth]
//	GET  /api/stores/{storeID}/products?q=                  → search in store
//	POST /api/stores/{storeID}/products                     → add product        [auth]
//	GET  /api/stores/{storeID}/products/{productID}         → product exists
//	POST /api/stores/{storeID}/products/{productID}/stock     → adjust stock     [auth]
//	POST /api/stores/{storeID}/products/{productID}/transfer  → transfer         [auth]
//	POST /api/stores/{storeID}/products/{productID}/purchases → purchase         [auth]
//	GET  /api/products?q=                                   → search products
//	GET  /api/sales                                         → list sales
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so the logger can tag every line with it; Recoverer
// sits inside the logger so a panic is logged as the 500 it becomes.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	accounts := handler.NewAccountHandler(s.marketplace, s.logger)
	stores := handler.NewStoreHandler(s.marketplace, s.logger)
	sales := handler.NewSaleHandler(s.marketplace, s.logger)
	requireSession := auth.RequireSession(s.marketplace)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/users", accounts.HandleRegister)
		r.Post("/sessions", accounts.HandleLogin)

		r.Get("/products", stores.HandleSearchProducts)
		r.Get("/sales", sales.HandleList)

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", stores.HandleList)
			r.Get("/search", stores.HandleSearch)
			r.With(requireSession).Post("/", stores.HandleCreate)

			r.Route("/{storeID}", func(r chi.Router) {
				r.Get("/", stores.HandleGet)
				r.With(requireSession).Get("/owner", stores.HandleOwner)

				r.Get("/products", stores.HandleSearchStoreProducts)
				r.With(requireSession).Post("/products", stores.HandleAddProduct)
				r.Get("/products/{productID}", stores.HandleProductExists)

				r.Group(func(r chi.Router) {
					r.Use(requireSession)
					r.Post("/products/{productID}/stock", stores.HandleAddStock)
					r.Post("/products/{productID}/transfer", stores.HandleTransfer)
					r.Post("/products/{productID}/purchases", sales.HandlePurchase)
				})
			})
		})
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down:
//  1. stop accepting new connections
//  2. wait up to server.shutdown_timeout for in-flight requests
//  3. close the repository
func (s *Server) Start() error {
	defer s.repo.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port)),
			slog.String("storage", s.config.Storage.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Close releases the repository without starting the server.
func (s *Server) Close() error {
	return s.repo.Close()
}
