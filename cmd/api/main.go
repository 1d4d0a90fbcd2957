package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kofiadjei/sleekline-backend/api/routes"
	"github.com/kofiadjei/sleekline-backend/internal/cart"
	"github.com/kofiadjei/sleekline-backend/internal/catalog"
	"github.com/kofiadjei/sleekline-backend/internal/checkout"
	"github.com/kofiadjei/sleekline-backend/internal/customers"
	"github.com/kofiadjei/sleekline-backend/internal/notifications"
	"github.com/kofiadjei/sleekline-backend/internal/orders"
	"github.com/kofiadjei/sleekline-backend/internal/payments"
	"github.com/kofiadjei/sleekline-backend/internal/payments/moolre"
	"github.com/kofiadjei/sleekline-backend/internal/verification"
	"github.com/kofiadjei/sleekline-backend/pkg/config"
	"github.com/kofiadjei/sleekline-backend/pkg/db"
	"github.com/kofiadjei/sleekline-backend/pkg/logger"
	"github.com/kofiadjei/sleekline-backend/pkg/metrics"
	"github.com/kofiadjei/sleekline-backend/pkg/migrate"
	"github.com/kofiadjei/sleekline-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
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
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	cartStore, err := cart.NewStore(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	resolver, err := catalog.NewResolver(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog resolver", err)
		os.Exit(1)
	}
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	customersRepo := customers.NewRepository(dbClient.DB())

	gateway, err := moolre.NewClient(cfg.Moolre, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway", err)
		os.Exit(1)
	}

	dispatcher := notifications.NewDispatcher(cfg.Notifications, logg)
	defer dispatcher.Flush()

	verifier := verification.New(cfg.Verification, logg)

	checkoutService, err := checkout.NewService(
		cartStore,
		resolver,
		ordersRepo,
		customersRepo,
		gateway,
		dispatcher,
		verifier,
		checkoutMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	payLaterService, err := payments.NewPayLaterService(ordersRepo, gateway, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create pay-later service", err)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			cartStore,
			catalogService,
			checkoutService,
			payLaterService,
			ordersRepo,
			dispatcher,
			verifier,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
