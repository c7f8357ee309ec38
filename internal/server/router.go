package server

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fintrack/fintrack/internal/handler"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/middleware"
)

// RouterConfig carries the handlers and middleware settings the router
// is assembled from.
type RouterConfig struct {
	Logger *slog.Logger

	Accounts *handler.AccountHandler
	Expenses *handler.ExpenseHandler
	Incomes  *handler.IncomeHandler
	Budgets  *handler.BudgetHandler
	Summary  *handler.SummaryHandler
	Health   *handler.HealthHandler
	Metrics  *handler.MetricsHandler

	Authenticator middleware.Authenticator
	RateLimiter   middleware.RateLimiter
	Recorder      metrics.Recorder

	IsDevelopment      bool
	AllowedOrigins     []string
	MaxRequestBodySize int64
	RequestTimeout     time.Duration

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	h := handler.New()
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.AllowedOrigins
	r.Use(middleware.CORS(corsCfg))

	// Probes and metrics
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Get("/metrics", cfg.Metrics.Metrics)

	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
		if cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		}

		// Credential endpoints, rate limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitIP(middleware.RateLimitConfig{
				Logger:   cfg.Logger,
				Limiter:  cfg.RateLimiter,
				Recorder: cfg.Recorder,
				Enabled:  cfg.RateLimitEnabled,
				Scope:    "auth",
				RPS:      cfg.RateLimitRPS,
				Burst:    cfg.RateLimitBurst,
			}))
			r.Post("/signup", cfg.Accounts.Signup)
			r.Post("/login", cfg.Accounts.Login)
		})

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(middleware.AuthConfig{
				Logger:        cfg.Logger,
				Authenticator: cfg.Authenticator,
			}))

			r.Post("/logout", cfg.Accounts.Logout)
			r.Get("/me", cfg.Accounts.Me)

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", cfg.Expenses.List)
				r.Post("/", cfg.Expenses.Create)
				r.Put("/{id}", cfg.Expenses.Update)
				r.Delete("/{id}", cfg.Expenses.Delete)
			})

			r.Route("/income", func(r chi.Router) {
				r.Get("/", cfg.Incomes.List)
				r.Post("/", cfg.Incomes.Create)
				r.Put("/{id}", cfg.Incomes.Update)
				r.Delete("/{id}", cfg.Incomes.Delete)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", cfg.Budgets.List)
				r.Post("/", cfg.Budgets.Upsert)
				r.Delete("/{id}", cfg.Budgets.Delete)
			})

			r.Get("/dashboard", cfg.Summary.Dashboard)
			r.Get("/reports", cfg.Summary.Report)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
