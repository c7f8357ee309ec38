// Package main is the entrypoint for the fintrack API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/cache"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/handler"
	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/fintrack/fintrack/internal/notify"
	"github.com/fintrack/fintrack/internal/repository"
	"github.com/fintrack/fintrack/internal/server"
	"github.com/fintrack/fintrack/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := initLogger(cfg)

	if cfg.MigrateOnStart {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			logger.Error("failed to run migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", config.RedactURL(cfg.DatabaseURL)),
			)
			return errors.New("migrations failed")
		}
		logger.Info("database migrations applied")
	}

	poolOpts := repository.DefaultPoolOptions()
	poolOpts.MaxConns = cfg.DBMaxConns
	poolOpts.MinConns = cfg.DBMinConns
	repo, err := repository.New(ctx, cfg.DatabaseURL, poolOpts)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", config.RedactURL(cfg.DatabaseURL)),
		)
		return errors.New("database unavailable")
	}
	logger.Info("connected to database")

	cacheOpts := cache.DefaultOptions()
	cacheOpts.PoolSize = cfg.RedisPoolSize
	cacheOpts.KeyPrefix = cfg.RedisKeyPrefix
	cacheClient, err := cache.New(ctx, cfg.RedisURL, cacheOpts)
	if err != nil {
		repo.Close()
		logger.Error("failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", config.RedactURL(cfg.RedisURL)),
		)
		return errors.New("redis unavailable")
	}
	logger.Info("connected to Redis")

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		cacheClient.Close()
		repo.Close()
		return err
	}

	tokens, err := auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionIssuer, cfg.SessionTTL)
	if err != nil {
		_ = publisher.Close()
		cacheClient.Close()
		repo.Close()
		return err
	}

	recorder := metrics.NewInMemory()

	// Services
	accounts := service.NewAccountService(repo, cacheClient, tokens, recorder).WithSampleData(cfg.SeedSampleData)
	expenses := service.NewExpenseService(repo, repo, publisher, recorder, logger)
	incomes := service.NewIncomeService(repo, recorder)
	budgets := service.NewBudgetService(repo, repo, recorder)
	dashboard := service.NewDashboardService(repo, repo, recorder, cfg.TrendMonths)
	reports := service.NewReportService(repo, repo)

	router := server.NewRouter(server.RouterConfig{
		Logger:   logger,
		Accounts: handler.NewAccountHandler(accounts, logger),
		Expenses: handler.NewExpenseHandler(expenses, logger),
		Incomes:  handler.NewIncomeHandler(incomes, logger),
		Budgets:  handler.NewBudgetHandler(budgets, logger),
		Summary:  handler.NewSummaryHandler(dashboard, reports, logger),
		Health:   handler.NewHealthHandler(repo, cacheClient, logger),
		Metrics:  handler.NewMetricsHandler(recorder),

		Authenticator: accounts,
		RateLimiter:   cacheClient,
		Recorder:      recorder,

		IsDevelopment:      cfg.IsDevelopment(),
		AllowedOrigins:     cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		RequestTimeout:     cfg.RequestTimeout,

		RateLimitEnabled: cfg.RateLimitAuthEnabled,
		RateLimitRPS:     cfg.RateLimitAuthRPS,
		RateLimitBurst:   cfg.RateLimitAuthBurst,
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Closed in reverse: publisher, then Redis, then Postgres.
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})
	srv.OnShutdown("publisher", func(ctx context.Context) error {
		return publisher.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"budget_alerts", cfg.AMQPURL != "" || cfg.AlertWebhookURL != "",
		"sample_data", cfg.SeedSampleData,
	)

	return srv.Run(ctx)
}

// newPublisher builds the budget alert publisher from every configured
// sink. With none configured alerts are discarded.
func newPublisher(cfg *config.Config, logger *slog.Logger) (notify.Publisher, error) {
	var sinks []notify.Publisher

	if cfg.AMQPURL != "" {
		amqp, err := notify.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			logger.Error("failed to connect to AMQP broker",
				slog.String("error", sanitizeError(err, cfg.AMQPURL)),
				slog.String("amqp_url", config.RedactURL(cfg.AMQPURL)),
			)
			return nil, errors.New("amqp unavailable")
		}
		logger.Info("connected to AMQP broker", "exchange", cfg.AMQPExchange)
		sinks = append(sinks, amqp)
	}

	if cfg.AlertWebhookURL != "" {
		hook, err := notify.NewWebhookPublisher(notify.WebhookConfig{
			URL:          cfg.AlertWebhookURL,
			Secret:       cfg.AlertWebhookSecret,
			AllowPrivate: cfg.IsDevelopment(),
		}, logger)
		if err != nil {
			_ = notify.NewMulti(sinks...).Close()
			return nil, err
		}
		logger.Info("budget alert webhook enabled", "target", notify.ExtractHost(cfg.AlertWebhookURL))
		sinks = append(sinks, hook)
	}

	if len(sinks) == 0 {
		logger.Info("no alert sink configured, budget alerts disabled")
	}
	return notify.NewMulti(sinks...), nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// sanitizeError strips connection secrets from driver error messages.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, config.RedactURL(secret))
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
