package main

import (
	"context"   // context package is needed for Redis and shutdown
	"errors"    // Error comparison
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal notification
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"budgetin/internal/api"        // Custom package for API handlers
	"budgetin/internal/cache"      // Custom package for the Redis cache
	"budgetin/internal/config"     // Custom package for configuration
	"budgetin/internal/db"         // Custom package for database access
	"budgetin/internal/directory"  // Custom package for user sync
	"budgetin/internal/identity"   // Custom package for token verification
	"budgetin/internal/middleware" // Custom package for middleware
	"budgetin/internal/store"      // Custom package for persistence

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client when configured
	var rc *cache.Cache
	if cfg.CacheEnabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		rc = cache.New(redisClient, cfg.CacheTTL)
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to set up identity provider: %v", err)
	}
	provider = identity.WithTimeout(provider, cfg.IdentityTimeout) // Bound every provider call

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}
	api.RegisterRoutes(r, api.Deps{
		DB:        gdb,
		Directory: directory.New(provider, store.NewUsers(gdb)),
		Ledger:    store.NewLedger(gdb),
		Cache:     rc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":          cfg.AppPort,
			"db_driver":     cfg.DBDriver,
			"auth_strategy": cfg.AuthStrategy,
			"cache":         cfg.CacheEnabled(),
		}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
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

// setupLogger applies the configured format and level to logrus
func setupLogger(cfg *config.Config) {
	if cfg.LogFormat == "json" {
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

// newProvider builds the identity provider selected by AUTH_STRATEGY
func newProvider(ctx context.Context, cfg *config.Config) (identity.Provider, error) {
	if cfg.AuthStrategy == config.StrategyLocal {
		logrus.Warn("Using locally issued tokens; do not enable in production")
		return identity.NewLocal(cfg.LocalTokenSecret, cfg.LocalTokenIssuer), nil
	}
	return identity.NewFirebase(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
}
