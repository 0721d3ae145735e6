package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelmondragon/storefront-client/api"
	"github.com/angelmondragon/storefront-client/api/routes"
	"github.com/angelmondragon/storefront-client/internal/sandbox"
	"github.com/angelmondragon/storefront-client/pkg/config"
	"github.com/angelmondragon/storefront-client/pkg/db"
	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/metrics"
	"github.com/angelmondragon/storefront-client/pkg/migrate"
	"github.com/angelmondragon/storefront-client/pkg/security"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sandbox"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.LoadSandbox()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sandbox",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.Sandbox.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.Apply(ctx, cfg.Sandbox, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to migrate sandbox schema", err)
		os.Exit(1)
	}

	repo := sandbox.NewRepository(dbClient.DB())
	catalog := sandbox.NewCatalogService(repo, logg)
	if cfg.Sandbox.SeedProducts {
		if err := catalog.Seed(ctx); err != nil {
			logg.Error(ctx, "failed to seed products", err)
			os.Exit(1)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opMetrics := metrics.NewOperationMetrics(reg)

	router := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		reg,
		opMetrics,
		sandbox.NewUserService(repo, security.NewHasher(cfg.Sandbox.Password), cfg.Sandbox.JWT),
		catalog,
		sandbox.NewCartService(repo),
		sandbox.NewOrderService(dbClient, repo, sandbox.NewPaymentIssuer(cfg.Sandbox.PaymentLinkBase), logg),
	)

	if err := api.Serve(ctx, ":"+cfg.Sandbox.Port, router, cfg.Sandbox.ShutdownTimeout, logg); err != nil {
		logg.Error(ctx, "sandbox server stopped unexpectedly", err)
		os.Exit(1)
	}
}
