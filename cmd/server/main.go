package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os/signal" // Shutdown signals
	"syscall"   // SIGTERM
	"time"      // Shutdown grace period

	"github.com/gin-gonic/gin"                                 // Gin web framework
	"github.com/iblisbuu/gracenode-wallet/internal/api"        // API handlers
	"github.com/iblisbuu/gracenode-wallet/internal/config"     // Configuration
	"github.com/iblisbuu/gracenode-wallet/internal/db"         // Database connection and ledger engine
	"github.com/iblisbuu/gracenode-wallet/internal/middleware" // Middleware
	"github.com/iblisbuu/gracenode-wallet/internal/utils"      // Cache
	"github.com/iblisbuu/gracenode-wallet/internal/wallet"     // Ledger
	"github.com/redis/go-redis/v9"                             // Redis client
	"github.com/sirupsen/logrus"                               // Logrus for structured logging
)

// setupLogger configures the standard logrus logger for the environment
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// setupCache connects to Redis. An empty address disables caching.
func setupCache(cfg *config.Config) *utils.Cache {
	if cfg.RedisAddr == "" {
		logrus.Warn("REDIS_ADDR not set, caching disabled")
		return nil
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	return utils.NewCache(redisClient, cfg.CacheTTL)
}

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	registry, err := wallet.NewRegistry(db.NewEngine(gdb), cfg.WalletNames, logrus.StandardLogger())
	if err != nil {
		logrus.Fatalf("failed to create wallets: %v", err)
	}
	history := db.NewHistoryStore(gdb)
	cache := setupCache(cfg)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware(logrus.StandardLogger()))
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/user", api.RegisterHandler(gdb))                        // Registration endpoint
	r.GET("/user", api.LoginHandler(gdb, cfg.JWTSecret, cfg.JWTTTL)) // Login endpoint

	// Wallet routes (protected by JWT)
	walletGroup := r.Group("/wallets", middleware.JWTAuthMiddleware(cfg.JWTSecret))
	walletGroup.GET("", api.ListWalletsHandler(registry))                           // Configured wallets
	walletGroup.GET("/:name/balance", api.BalanceHandler(registry, cache))          // Caller's balance
	walletGroup.POST("/:name/spend", api.SpendHandler(registry, cache))             // Debit the caller
	walletGroup.GET("/:name/history", api.HistoryHandler(registry, history, cache)) // Caller's history

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin", middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware())
	adminGroup.GET("/users", api.ListUsersHandler(gdb, cache))                   // List users endpoint
	adminGroup.POST("/wallets/:name/credit", api.CreditHandler(registry, cache)) // Credit a user
	adminGroup.POST("/wallets/:name/batch", api.BatchHandler(registry, cache))   // Atomic batch

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.WithFields(logrus.Fields{"port": cfg.AppPort, "wallets": registry.Names()}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}
