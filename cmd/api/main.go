package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloomworks/bloomstock-backend/api/routes"
	"github.com/bloomworks/bloomstock-backend/internal/catalog"
	"github.com/bloomworks/bloomstock-backend/internal/fulfillment"
	"github.com/bloomworks/bloomstock-backend/internal/inventory"
	"github.com/bloomworks/bloomstock-backend/internal/orders"
	"github.com/bloomworks/bloomstock-backend/internal/payments"
	"github.com/bloomworks/bloomstock-backend/internal/reservations"
	"github.com/bloomworks/bloomstock-backend/pkg/config"
	"github.com/bloomworks/bloomstock-backend/pkg/db"
	"github.com/bloomworks/bloomstock-backend/pkg/logger"
	"github.com/bloomworks/bloomstock-backend/pkg/metrics"
	"github.com/bloomworks/bloomstock-backend/pkg/migrate"
	pkgredis "github.com/bloomworks/bloomstock-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	inventoryMetrics := metrics.NewInventoryMetrics(registry)

	gormDB := dbClient.DB()
	invRepo := inventory.NewRepository(gormDB)
	inventorySvc, err := inventory.NewService(invRepo, dbClient, logg, inventoryMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	reservationsSvc, err := reservations.NewService(reservations.NewRepository(gormDB), invRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reservations service", err)
		os.Exit(1)
	}
	catalogRepo := catalog.NewRepository(gormDB)
	catalogSvc, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	ordersRepo := orders.NewRepository(gormDB)
	fulfillmentSvc, err := fulfillment.NewService(
		ordersRepo,
		catalogRepo,
		inventorySvc,
		reservationsSvc,
		dbClient,
		logg,
		inventoryMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create fulfillment service", err)
		os.Exit(1)
	}
	paymentsSvc, err := payments.NewService(payments.NewRepository(gormDB), ordersRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DBPinger:     dbClient,
			Redis:        redisClient,
			Catalog:      catalogSvc,
			Inventory:    inventorySvc,
			Reservations: reservationsSvc,
			Fulfillment:  fulfillmentSvc,
			Payments:     paymentsSvc,
			Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
