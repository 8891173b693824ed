package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/finbook/internal/adapter/http/handler"
	"github.com/iho/finbook/internal/adapter/http/middleware"
	"github.com/iho/finbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EventHandler       *handler.EventHandler
	TransferHandler    *handler.TransferHandler
	BalanceHandler     *handler.BalanceHandler
	CatalogHandler     *handler.CatalogHandler
	CreditHandler      *handler.CreditHandler
	TaxPaymentHandler  *handler.TaxPaymentHandler
	ConsistencyHandler *handler.ConsistencyHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1, scoped to the tenant named by the X-User-ID header
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Tenant)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Events
		r.Route("/events", func(r chi.Router) {
			r.Post("/", cfg.EventHandler.Create)
			r.Get("/", cfg.EventHandler.List)
			r.Get("/{id}", cfg.EventHandler.Get)
			r.Patch("/{id}", cfg.EventHandler.Update)
			r.Delete("/{id}", cfg.EventHandler.Delete)
		})

		// Transfers
		r.Post("/transfers", cfg.TransferHandler.Create)

		// Balances
		r.Get("/balances", cfg.BalanceHandler.Get)

		// Catalog entities
		r.Route("/entities", func(r chi.Router) {
			r.Post("/", cfg.CatalogHandler.Create)
			r.Get("/", cfg.CatalogHandler.List)
			r.Get("/{id}", cfg.CatalogHandler.Get)
		})

		// Derived credits
		r.Get("/credits", cfg.CreditHandler.List)

		// Tax payments
		r.Route("/tax-payments", func(r chi.Router) {
			r.Post("/", cfg.TaxPaymentHandler.Create)
			r.Get("/", cfg.TaxPaymentHandler.List)
			r.Get("/{id}", cfg.TaxPaymentHandler.Get)
			r.Delete("/{id}", cfg.TaxPaymentHandler.Delete)
		})

		// Consistency check
		r.Post("/consistency/check", cfg.ConsistencyHandler.Check)
	})

	return r
}
