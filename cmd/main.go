package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/theauraflow/pos/internal/cart"
	"github.com/theauraflow/pos/internal/catalog"
	"github.com/theauraflow/pos/internal/checkout"
	"github.com/theauraflow/pos/internal/customer"
	"github.com/theauraflow/pos/internal/ledger"
	"github.com/theauraflow/pos/internal/orders"
	"github.com/theauraflow/pos/internal/park"
	"github.com/theauraflow/pos/internal/server"
	"github.com/theauraflow/pos/internal/store"
	"go.uber.org/zap"
)

const requestTimeout = 5 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Configuration
	httpPort := getEnv("POS_HTTP_PORT", "8080")
	taxRateBps := getEnvInt64("POS_TAX_RATE_BPS", 825)
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisPassword := getEnv("REDIS_PASSWORD", "")
	catalogDBPath := getEnv("CATALOG_DB_PATH", "pos-catalog.db")
	catalogMigrations := getEnv("CATALOG_MIGRATIONS_PATH", "internal/catalog/migrations")

	ctx := context.Background()

	// Durable key/value storage for the ledger and parked sales. The
	// breaker keeps register commands snappy when Redis is unreachable.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", redisAddr))
	kv := store.NewBreakerKV("pos-kv", store.NewRedisKV(redisClient))

	// Embedded product catalog.
	catalogRepo, err := catalog.NewSQLiteRepository(catalogDBPath)
	if err != nil {
		logger.Fatal("failed to open catalog database", zap.Error(err))
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(catalogMigrations); err != nil {
		logger.Fatal("catalog migrations failed", zap.Error(err))
	}
	catalogSvc := catalog.NewService(catalogRepo, catalog.NewRedisCache(redisClient), logger)

	// Optional order archive.
	var archive orders.Repository
	if host := os.Getenv("ORDERS_DB_HOST"); host != "" {
		cred := &orders.Credentials{
			Host:              host,
			Port:              int(getEnvInt64("ORDERS_DB_PORT", 5432)),
			User:              getEnv("ORDERS_DB_USER", "postgres"),
			Password:          getEnv("ORDERS_DB_PASSWORD", "postgres"),
			DBName:            getEnv("ORDERS_DB_NAME", "pos"),
			MigrationsDirPath: getEnv("ORDERS_MIGRATIONS_PATH", "internal/orders/migrations"),
		}
		repo, err := orders.NewPostgresRepository(cred)
		if err != nil {
			logger.Fatal("failed to connect to order archive", zap.Error(err))
		}
		defer repo.Close()
		if err := repo.RunMigrations(cred); err != nil {
			logger.Fatal("order archive migrations failed", zap.Error(err))
		}
		archive = repo
		logger.Info("order archive enabled", zap.String("host", host))
	}

	// Optional customer directory.
	var customerRepo customer.Repository
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		mongoDB, err := customer.ConnectMongoDB(ctx, uri, getEnv("MONGO_DB_NAME", "posdb"))
		if err != nil {
			logger.Fatal("failed to connect to customer directory", zap.Error(err))
		}
		defer mongoDB.Client().Disconnect(ctx)
		customerRepo = customer.NewMongoRepository(mongoDB)
		logger.Info("customer directory enabled")
	}

	// Sales core.
	engine := cart.NewEngine(taxRateBps)
	txLedger := ledger.New(kv, logger)
	if err := txLedger.Load(ctx); err != nil {
		logger.Warn("ledger restore incomplete", zap.Error(err))
	}
	parkMgr := park.NewManager(engine, kv, logger)
	parkMgr.Load(ctx)
	checkoutSvc := checkout.NewService(engine, txLedger, archive, logger)

	handlers := server.Handlers{
		Cart:     server.NewCartHandler(engine, catalogSvc, requestTimeout),
		Park:     server.NewParkHandler(parkMgr),
		Checkout: server.NewCheckoutHandler(checkoutSvc, txLedger),
		Ledger:   server.NewLedgerHandler(txLedger, checkoutSvc),
		Catalog:  server.NewCatalogHandler(catalogSvc, requestTimeout),
	}
	if customerRepo != nil {
		handlers.Customers = server.NewCustomerHandler(customerRepo, requestTimeout)
	}

	srv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      server.NewRouter(handlers),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("pos server listening", zap.String("port", httpPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down pos server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// One last persistence attempt so a clean shutdown never loses the log.
	if err := txLedger.Flush(shutdownCtx); err != nil {
		logger.Error("final ledger flush failed", zap.Error(err))
	}
	logger.Info("pos server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
