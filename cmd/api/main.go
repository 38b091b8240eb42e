package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/agencecomx/sourcing-backend/api/routes"
	"github.com/agencecomx/sourcing-backend/internal/auth"
	"github.com/agencecomx/sourcing-backend/internal/containers"
	"github.com/agencecomx/sourcing-backend/internal/favorites"
	"github.com/agencecomx/sourcing-backend/internal/messages"
	"github.com/agencecomx/sourcing-backend/internal/notifications"
	"github.com/agencecomx/sourcing-backend/internal/orders"
	products "github.com/agencecomx/sourcing-backend/internal/products"
	"github.com/agencecomx/sourcing-backend/internal/quotes"
	"github.com/agencecomx/sourcing-backend/internal/suppliers"
	"github.com/agencecomx/sourcing-backend/internal/users"
	"github.com/agencecomx/sourcing-backend/pkg/auth/session"
	"github.com/agencecomx/sourcing-backend/pkg/config"
	"github.com/agencecomx/sourcing-backend/pkg/db"
	"github.com/agencecomx/sourcing-backend/pkg/kv"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
	"github.com/agencecomx/sourcing-backend/pkg/metrics"
	"github.com/agencecomx/sourcing-backend/pkg/migrate"
	"github.com/agencecomx/sourcing-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	blobStore, err := kv.NewRedisStore(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create blob store", err)
		os.Exit(1)
	}

	quoteManager, err := quotes.NewManager(blobStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote manager", err)
		os.Exit(1)
	}

	favoriteManager, err := favorites.NewManager(blobStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	supplierRepo := suppliers.NewRepository(dbClient.DB())

	authService, err := auth.NewService(userRepo, supplierRepo, sessionManager, dbClient, cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), dbClient, supplierRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	containerService, err := containers.NewService(containers.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create container service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	messageService, err := messages.NewService(messages.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create message service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), quoteManager, containerService, notificationService, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
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
		Addr:         addr,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Sessions:      sessionManager,
			HTTPMetrics:   metrics.NewHTTPMetrics(),
			Auth:          authService,
			Products:      productService,
			Quotes:        quoteManager,
			Favorites:     favoriteManager,
			Containers:    containerService,
			Orders:        orderService,
			Messages:      messageService,
			Notifications: notificationService,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "error draining api server", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
